package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"eventku_backend/internals/configs"
	"eventku_backend/internals/features/payments/service"
)

// StartReconcileScheduler runs payment reconciliation on the configured cron
// expression. Runs never overlap: a tick fired while the previous run is
// still going is skipped.
func StartReconcileScheduler(svc *service.ReconcileService) *cron.Cron {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := c.AddFunc(configs.ReconcileCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		if err := svc.ReconcilePendingPayments(ctx); err != nil {
			log.Printf("[ERROR] reconcile run failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("[ERROR] invalid reconcile cron %q: %v", configs.ReconcileCron, err)
		return c
	}

	c.Start()
	log.Printf("[INFO] reconcile scheduler started (%s)", configs.ReconcileCron)
	return c
}
