package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"tradeledger/internal/infra"
	"tradeledger/internal/store"
	"tradeledger/internal/worker"
)

// Health returns a JSON health check response.
// Probes the document store and Redis; never exposes credentials or internals.
func Health(s store.Store, rdb *redis.Client, cb *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		// Reading an absent node is a cheap connectivity probe: found=false,
		// err=nil when the store is reachable.
		storeStatus := "connected"
		var probe map[string]interface{}
		if _, err := s.Read(ctx, "/health", &probe); err != nil {
			storeStatus = "error"
		}

		redisStatus := "connected"
		dlqDepth := int64(-1)
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else if n, err := worker.DLQLength(ctx, rdb); err == nil {
			// Parked reconcile jobs mean documents whose aggregates could
			// not be repaired; anything above zero deserves a look.
			dlqDepth = n
		}

		status := http.StatusOK
		if storeStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":        status == http.StatusOK,
			"store":     storeStatus,
			"redis":     redisStatus,
			"breaker":   cb.State().String(),
			"dlq_depth": dlqDepth,
		})
	}
}
