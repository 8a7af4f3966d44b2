package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/entity"
)

// StalledOrgStore is the registry slice the cleanup sweep needs.
type StalledOrgStore interface {
	FindStalled(ctx context.Context, cutoff time.Time) ([]entity.Organization, error)
	Delete(ctx context.Context, id string) error
}

// CleanupWorker deletes organizations whose onboarding stalled: signed up,
// never provisioned a database, never added an agent, older than the stall
// window.
type CleanupWorker struct {
	orgs         StalledOrgStore
	stallWindow  time.Duration
	tickInterval time.Duration
	log          *zap.Logger
}

func NewCleanupWorker(orgs StalledOrgStore, stallWindow, tickInterval time.Duration, log *zap.Logger) *CleanupWorker {
	if stallWindow <= 0 {
		stallWindow = 7 * 24 * time.Hour
	}
	if tickInterval <= 0 {
		tickInterval = time.Hour
	}
	return &CleanupWorker{
		orgs:         orgs,
		stallWindow:  stallWindow,
		tickInterval: tickInterval,
		log:          log,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	w.log.Info("stalled organization cleanup worker started",
		zap.Duration("stall_window", w.stallWindow))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one cleanup pass. Exported so tests can drive it directly.
func (w *CleanupWorker) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.stallWindow)

	stalled, err := w.orgs.FindStalled(ctx, cutoff)
	if err != nil {
		w.log.Error("cleanup sweep failed to list stalled organizations", zap.Error(err))
		return
	}

	deleted := 0
	for _, org := range stalled {
		if err := w.orgs.Delete(ctx, org.ID); err != nil {
			w.log.Error("failed to delete stalled organization",
				zap.Error(err), zap.String("organization_id", org.ID))
			continue
		}
		deleted++
		w.log.Info("stalled organization deleted",
			zap.String("organization_id", org.ID),
			zap.Time("signed_up_at", org.CreatedAt))
	}

	if deleted > 0 {
		w.log.Info("cleanup sweep finished", zap.Int("deleted", deleted))
	}
}
