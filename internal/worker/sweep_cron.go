package worker

// sweep_cron.go
// Background goroutine that periodically scans every LPO and invoice for
// balance drift (balance ≠ totalAmount − amountPaid, or LPO aggregates out
// of step with their linked invoices) and enqueues reconcile jobs for the
// offenders. Drift appears when a payment saga dies between its writes; the
// sweep is the safety net behind the per-failure enqueue.
// Uses the Circuit Breaker to avoid hammering a downed store.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"tradeledger/internal/infra"
	"tradeledger/internal/model"
	"tradeledger/internal/repository"
)

// SweepConfig holds all dependencies for the sweep goroutine.
type SweepConfig struct {
	LPORepo     repository.LPORepository
	InvoiceRepo repository.InvoiceRepository
	Dispatcher  *Dispatcher
	CB          *infra.CircuitBreaker
	Interval    time.Duration
}

// StartSweepCron launches a background goroutine that ticks every Interval,
// audits balance invariants, and enqueues repairs for drifted documents.
// It respects the context for graceful shutdown.
func StartSweepCron(ctx context.Context, cfg SweepConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("sweep_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("sweep_cron: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, cfg)
			}
		}
	}()
}

func sweep(ctx context.Context, cfg SweepConfig) {
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("sweep_cron: circuit breaker is open, skipping tick")
		return
	}

	var lpos []model.LPO
	var invoices []model.Invoice
	err := cfg.CB.Execute(func() error {
		var err error
		if lpos, err = cfg.LPORepo.List(ctx); err != nil {
			return err
		}
		invoices, err = cfg.InvoiceRepo.List(ctx)
		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("sweep_cron: failed to read collections")
		return
	}

	byLPO := make(map[string][]model.Invoice)
	for _, inv := range invoices {
		if inv.LPOID != "" {
			byLPO[inv.LPOID] = append(byLPO[inv.LPOID], inv)
		}
	}

	enqueued := 0

	for _, inv := range invoices {
		wantBalance := model.ClampBalance(inv.TotalAmount.Sub(inv.AmountPaid))
		if !inv.Balance.Sub(wantBalance).Abs().LessThan(model.Epsilon) {
			if err := cfg.Dispatcher.EnqueueReconcile(ctx, ReconcilePayload{InvoiceID: inv.ID}); err == nil {
				enqueued++
			}
		}
	}

	for _, lpo := range lpos {
		if lpoDrifted(lpo, byLPO[lpo.ID]) {
			if err := cfg.Dispatcher.EnqueueReconcile(ctx, ReconcilePayload{LPOID: lpo.ID}); err == nil {
				enqueued++
			}
		}
	}

	if enqueued > 0 {
		log.Warn().Int("enqueued", enqueued).Msg("sweep_cron: drifted documents queued for reconcile")
	}
}

// lpoDrifted reports whether the LPO's aggregates disagree with either its
// own balance invariant or the fan-in sums over its linked invoices.
func lpoDrifted(lpo model.LPO, linked []model.Invoice) bool {
	if len(linked) == 0 {
		want := model.ClampBalance(lpo.TotalAmount.Sub(lpo.AmountPaid))
		return !lpo.Balance.Sub(want).Abs().LessThan(model.Epsilon)
	}

	totalInvoiced, paid := decimal.Zero, decimal.Zero
	for _, inv := range linked {
		totalInvoiced = totalInvoiced.Add(inv.TotalAmount)
		paid = paid.Add(inv.AmountPaid)
	}
	if !lpo.AmountPaid.Sub(paid).Abs().LessThan(model.Epsilon) {
		return true
	}
	want := model.ClampBalance(totalInvoiced.Sub(paid))
	return !lpo.Balance.Sub(want).Abs().LessThan(model.Epsilon)
}
