package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Worker is a scheduled background job.
type Worker interface {
	// Name identifies the worker in logs.
	Name() string
	// Schedule returns the cron expression the worker runs on.
	Schedule() string
	// Execute performs one run.
	Execute(ctx context.Context) error
}

// Orchestrator runs registered workers on their cron schedules.
type Orchestrator struct {
	cron    *cron.Cron
	workers []Worker
	logger  *zap.Logger
}

func NewOrchestrator(logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cron:   cron.New(),
		logger: logger,
	}
}

// Register adds a worker; call before Start.
func (o *Orchestrator) Register(w Worker) error {
	worker := w
	_, err := o.cron.AddFunc(worker.Schedule(), func() {
		o.logger.Info("worker run started", zap.String("worker", worker.Name()))
		if err := worker.Execute(context.Background()); err != nil {
			o.logger.Error("worker run failed", zap.String("worker", worker.Name()), zap.Error(err))
			return
		}
		o.logger.Info("worker run finished", zap.String("worker", worker.Name()))
	})
	if err != nil {
		return err
	}
	o.workers = append(o.workers, worker)
	return nil
}

// Start launches the scheduler in its own goroutine.
func (o *Orchestrator) Start() {
	o.cron.Start()
	o.logger.Info("worker orchestrator started", zap.Int("workers", len(o.workers)))
}

// Stop halts scheduling and waits for in-flight runs.
func (o *Orchestrator) Stop() {
	ctx := o.cron.Stop()
	<-ctx.Done()
	o.logger.Info("worker orchestrator stopped")
}
