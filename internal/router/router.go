package router

import (
	"net/http"
	"time"

	"tradeledger/internal/apierror"
	"tradeledger/internal/config"
	"tradeledger/internal/handler"
	"tradeledger/internal/infra"
	"tradeledger/internal/middleware"
	"tradeledger/internal/repository"
	"tradeledger/internal/sequence"
	"tradeledger/internal/service"
	"tradeledger/internal/store"
	"tradeledger/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← Store/Redis
func New(cfg *config.Config, s store.Store, rdb *redis.Client, cb *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	vatRate, err := decimal.NewFromString(cfg.VATRate)
	if err != nil {
		log.Warn().Str("vat_rate", cfg.VATRate).Msg("invalid VAT_RATE, defaulting to 0.16")
		vatRate = decimal.New(16, -2)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	companyRepo := repository.NewCompanyRepository(s)
	productRepo := repository.NewProductRepository(s)
	lpoRepo := repository.NewLPORepository(s)
	invoiceRepo := repository.NewInvoiceRepository(s)
	paymentRepo := repository.NewPaymentRepository(s)
	deliveryRepo := repository.NewDeliveryRepository(s)

	generator := sequence.NewGenerator(s)

	// ── Services ─────────────────────────────────────────────────────────────
	companySvc := service.NewCompanyService(companyRepo)
	productSvc := service.NewProductService(productRepo, rdb)
	lpoSvc := service.NewLPOService(lpoRepo, companyRepo, deliveryRepo, generator, vatRate)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, lpoRepo, companyRepo, generator, vatRate)
	paymentSvc := service.NewPaymentService(paymentRepo, invoiceRepo, lpoRepo, companyRepo, generator, dispatcher)
	deliverySvc := service.NewDeliveryService(deliveryRepo, companyRepo, generator)

	// ── Handlers ─────────────────────────────────────────────────────────────
	companiesH := handler.NewCompaniesHandler(companySvc)
	productsH := handler.NewProductsHandler(productSvc)
	lposH := handler.NewLPOsHandler(lpoSvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)
	paymentsH := handler.NewPaymentsHandler(paymentSvc)
	deliveriesH := handler.NewDeliveriesHandler(deliverySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(s, rdb, cb))

	api := r.Group("/api")
	{
		companies := api.Group("/companies")
		{
			companies.POST("", companiesH.Create)
			companies.GET("", companiesH.List)
			companies.GET("/:id", companiesH.Get)
			companies.PUT("/:id", companiesH.Update)
			companies.DELETE("/:id", companiesH.Delete)
		}

		products := api.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		lpos := api.Group("/lpos")
		{
			lpos.POST("", lposH.Create)
			lpos.GET("", lposH.List)
			lpos.GET("/:id", lposH.Get)
			lpos.PUT("/:id", lposH.Update)
			lpos.DELETE("/:id", lposH.Delete)
			lpos.POST("/:id/deliver", lposH.MarkDelivered)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", invoicesH.Create)
			invoices.GET("", invoicesH.List)
			invoices.GET("/:id", invoicesH.Get)
			invoices.PUT("/:id", invoicesH.Update)
			invoices.DELETE("/:id", invoicesH.Delete)
		}

		payments := api.Group("/payments")
		{
			payments.POST("", paymentsH.Create)
			payments.GET("", paymentsH.List)
			payments.GET("/:id", paymentsH.Get)
			payments.DELETE("/:id", paymentsH.Delete)
		}

		deliveries := api.Group("/deliveries")
		{
			deliveries.POST("", deliveriesH.Create)
			deliveries.GET("", deliveriesH.List)
			deliveries.GET("/:id", deliveriesH.Get)
			deliveries.DELETE("/:id", deliveriesH.Delete)
		}
	}

	// Unknown routes and wrong methods get the same JSON envelope as real errors.
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apierror.New("route not found"))
	})
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, apierror.New("method not allowed"))
	})

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
