package service

// Shared fixture: every service test runs against the real repositories
// backed by the in-memory store, so the collection-scan and shallow-merge
// behavior under test is the same code the server runs.

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tradeledger/internal/dto"
	"tradeledger/internal/model"
	"tradeledger/internal/repository"
	"tradeledger/internal/sequence"
	"tradeledger/internal/store"
	"tradeledger/internal/worker"
)

type testEnv struct {
	store        *store.MemoryStore
	companyRepo  repository.CompanyRepository
	productRepo  repository.ProductRepository
	lpoRepo      repository.LPORepository
	invoiceRepo  repository.InvoiceRepository
	paymentRepo  repository.PaymentRepository
	deliveryRepo repository.DeliveryRepository

	companySvc  *CompanyService
	productSvc  *ProductService
	lpoSvc      *LPOService
	invoiceSvc  *InvoiceService
	paymentSvc  *PaymentService
	deliverySvc *DeliveryService

	queue *fakeQueue
}

// fakeQueue captures reconcile enqueues instead of touching Redis.
type fakeQueue struct {
	payloads []worker.ReconcilePayload
}

func (q *fakeQueue) EnqueueReconcile(_ context.Context, p worker.ReconcilePayload) error {
	q.payloads = append(q.payloads, p)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s := store.NewMemoryStore()
	gen := sequence.NewGenerator(s)
	vat := decimal.New(16, -2) // 16%

	env := &testEnv{
		store:        s,
		companyRepo:  repository.NewCompanyRepository(s),
		productRepo:  repository.NewProductRepository(s),
		lpoRepo:      repository.NewLPORepository(s),
		invoiceRepo:  repository.NewInvoiceRepository(s),
		paymentRepo:  repository.NewPaymentRepository(s),
		deliveryRepo: repository.NewDeliveryRepository(s),
		queue:        &fakeQueue{},
	}
	env.companySvc = NewCompanyService(env.companyRepo)
	env.productSvc = NewProductService(env.productRepo, nil) // cache off
	env.lpoSvc = NewLPOService(env.lpoRepo, env.companyRepo, env.deliveryRepo, gen, vat)
	env.invoiceSvc = NewInvoiceService(env.invoiceRepo, env.lpoRepo, env.companyRepo, gen, vat)
	env.paymentSvc = NewPaymentService(env.paymentRepo, env.invoiceRepo, env.lpoRepo, env.companyRepo, gen, env.queue)
	env.deliverySvc = NewDeliveryService(env.deliveryRepo, env.companyRepo, gen)
	return env
}

func (e *testEnv) createCompany(t *testing.T) *model.Company {
	t.Helper()
	company, err := e.companySvc.Create(context.Background(), dto.CreateCompanyRequest{
		Name:          "Acme Traders Ltd",
		ContactPerson: "Jane Wanjiku",
		Email:         "accounts@acmetraders.example",
	})
	require.NoError(t, err)
	return company
}

// createLPO orders 5 × 50 = subtotal 250, VAT 40, total 290.
func (e *testEnv) createLPO(t *testing.T, companyID string) *model.LPO {
	t.Helper()
	lpo, err := e.lpoSvc.Create(context.Background(), dto.CreateLPORequest{
		CompanyID: companyID,
		Items: []dto.LineItemInput{
			{ProductID: "p1", ProductName: "Cement 50kg", Quantity: 5, Unit: "bag", UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	return lpo
}

func (e *testEnv) invoiceFromLPO(t *testing.T, lpoID string) *model.Invoice {
	t.Helper()
	invoice, err := e.invoiceSvc.Create(context.Background(), dto.CreateInvoiceRequest{LPOID: lpoID})
	require.NoError(t, err)
	return invoice
}
