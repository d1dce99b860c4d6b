package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/trigardening/trigardening/internal/catalog/products"
)

// LowStockScanJob sweeps variants whose stock has fallen to or below
// their alert threshold and mails a digest to the shop operator.
type LowStockScanJob struct {
	Products *products.Service
	Mailer   Mailer
	To       string
	Logger   *slog.Logger
	clock    func() time.Time
}

func NewLowStockScanJob(svc *products.Service, mailer Mailer, notifyAddr string, logger *slog.Logger) *LowStockScanJob {
	return &LowStockScanJob{
		Products: svc,
		Mailer:   mailer,
		To:       notifyAddr,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one sweep.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Products == nil {
		return errors.New("low stock scan: handler not configured")
	}
	start := j.clock()
	logger := j.logger()
	logger.Info("starting low stock scan")

	variants, err := j.Products.ListLowStock(ctx)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}
	for _, v := range variants {
		logger.Warn("variant below alert threshold",
			slog.String("product", v.ProductName),
			slog.String("variant", v.Title),
			slog.Int("stock", v.Stock),
		)
	}
	if len(variants) > 0 && j.Mailer != nil && j.To != "" {
		body := "Variants at or below their alert threshold:\n"
		for _, v := range variants {
			body += "- " + v.ProductName + " / " + v.Title + "\n"
		}
		if err := j.Mailer.Send(j.To, "Low stock report", body); err != nil {
			logger.Error("low stock mail failed", slog.Any("error", err))
			return err
		}
	}
	logger.Info("completed low stock scan",
		slog.Int("flagged", len(variants)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeLowStockScan))
	}
	return slog.Default().With(slog.String("job", TaskTypeLowStockScan))
}
