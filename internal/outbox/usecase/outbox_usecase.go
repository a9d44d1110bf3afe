// Package usecase implements the outbox relay worker and event dispatch logic.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/allisson/attestations/internal/database"
	"github.com/allisson/attestations/internal/outbox/domain"
)

// Config holds the relay worker settings.
type Config struct {
	Interval      time.Duration
	BatchSize     int
	MaxRetries    int
	RetryInterval time.Duration
}

// OutboxEventRepository defines outbox event persistence operations.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
}

// EventProcessor delivers a single outbox event to its destination.
type EventProcessor interface {
	Process(ctx context.Context, event *domain.OutboxEvent) error
}

// UseCase defines the interface for outbox use cases.
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
}

// OutboxUseCase drains pending registry events from the outbox table and
// hands them to the configured processor.
type OutboxUseCase struct {
	cfg        Config
	txManager  database.TxManager
	outboxRepo OutboxEventRepository
	processor  EventProcessor
	logger     *slog.Logger
}

// NewOutboxUseCase creates a new OutboxUseCase.
func NewOutboxUseCase(
	cfg Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	processor EventProcessor,
	logger *slog.Logger,
) *OutboxUseCase {
	return &OutboxUseCase{
		cfg:        cfg,
		txManager:  txManager,
		outboxRepo: outboxRepo,
		processor:  processor,
		logger:     logger,
	}
}

// Start runs the relay loop, draining one batch per tick until the context is
// cancelled. A failing batch is logged and retried on the next tick.
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	uc.logger.Info("starting outbox event processor",
		slog.Duration("interval", uc.cfg.Interval),
		slog.Int("batch_size", uc.cfg.BatchSize),
	)

	ticker := time.NewTicker(uc.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("stopping outbox event processor")
			return ctx.Err()
		case <-ticker.C:
		}

		if err := uc.ProcessEvents(ctx); err != nil {
			uc.logger.Error("failed to process outbox batch", slog.Any("error", err))
		}
	}
}

// ProcessEvents drains one batch of pending events inside a transaction.
// A delivery failure is recorded on the event and retried on later batches
// until MaxRetries is exhausted; it never aborts the rest of the batch. A
// failing status update does abort, rolling the whole batch back to pending.
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, uc.processBatch)
}

func (uc *OutboxUseCase) processBatch(ctx context.Context) error {
	batch, err := uc.outboxRepo.GetPendingEvents(ctx, uc.cfg.BatchSize)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}

	uc.logger.Info("processing outbox batch", slog.Int("count", len(batch)))

	for _, ev := range batch {
		if err := uc.processor.Process(ctx, ev); err != nil {
			uc.logger.Error("event delivery failed",
				slog.String("event_id", ev.ID.String()),
				slog.String("event_type", ev.EventType),
				slog.Any("error", err),
			)
			uc.recordFailure(ev, err)
		} else {
			uc.markProcessed(ev)
		}

		if err := uc.outboxRepo.Update(ctx, ev); err != nil {
			return err
		}
	}

	return nil
}

// recordFailure bumps the retry counter and parks the event as failed once
// MaxRetries is exhausted.
func (uc *OutboxUseCase) recordFailure(ev *domain.OutboxEvent, cause error) {
	ev.Retries++
	message := cause.Error()
	ev.LastError = &message

	if ev.Retries >= uc.cfg.MaxRetries {
		ev.Status = domain.OutboxEventStatusFailed
	}
}

// markProcessed stamps the event as delivered.
func (uc *OutboxUseCase) markProcessed(ev *domain.OutboxEvent) {
	now := time.Now()
	ev.Status = domain.OutboxEventStatusProcessed
	ev.ProcessedAt = &now
}

// LogEventProcessor is the default EventProcessor: it logs each registry
// event instead of delivering it anywhere. Deployments that need real
// delivery configure the AMQP processor instead.
type LogEventProcessor struct {
	logger *slog.Logger
}

// NewLogEventProcessor creates a new LogEventProcessor.
func NewLogEventProcessor(logger *slog.Logger) *LogEventProcessor {
	return &LogEventProcessor{logger: logger}
}

// Process logs the event payload. Unknown event types are logged as a
// warning and count as delivered so they cannot clog the outbox.
func (p *LogEventProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	var payload map[string]any
	if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
		return err
	}

	var message string
	switch event.EventType {
	case domain.EventTypeSchemaRegistered:
		message = "schema registered"
	case domain.EventTypeAttestationCreated:
		message = "attestation created"
	case domain.EventTypeAttestationRevoked:
		message = "attestation revoked"
	default:
		p.logger.Warn("unknown event type", slog.String("event_type", event.EventType))
		return nil
	}

	p.logger.Info(message,
		slog.String("event_id", event.ID.String()),
		slog.Any("payload", payload),
	)

	return nil
}
