package worker

import (
	"context"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
)

// ArchiveWorker sweeps delivered, fully paid shipments past the retention
// window into the archived status.
type ArchiveWorker struct {
	shipments     *service.ShipmentService
	schedule      string
	retentionDays int
}

func NewArchiveWorker(shipments *service.ShipmentService, schedule string, retentionDays int) *ArchiveWorker {
	return &ArchiveWorker{
		shipments:     shipments,
		schedule:      schedule,
		retentionDays: retentionDays,
	}
}

func (w *ArchiveWorker) Name() string { return "archive-settled" }

func (w *ArchiveWorker) Schedule() string { return w.schedule }

func (w *ArchiveWorker) Execute(ctx context.Context) error {
	_, err := w.shipments.ArchiveSettled(ctx, w.retentionDays)
	return err
}
