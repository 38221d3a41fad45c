package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/handlers"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/metrics"
	"github.com/feral-file/ff-card-indexer/internal/store"
	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

// Processor dispatches stored chain events and records the outcome
//
//go:generate mockgen -source=processor.go -destination=../mocks/processor.go -package=mocks -mock_names=Processor=MockProcessor
type Processor interface {
	// Process runs the handler of a stored event and marks it processed on success.
	// A handler failure is logged and returned as *domain.EventProcessingError; the event stays unprocessed.
	Process(ctx context.Context, row *schema.ChainEvent) error
	// Handles reports whether events of name are dispatched at all
	Handles(name domain.EventName) bool
	// Names lists the dispatched event names
	Names() []domain.EventName
}

type processor struct {
	store      store.Store
	dispatcher handlers.Dispatcher
	json       adapter.JSON
	metrics    *metrics.Metrics
}

// NewProcessor creates a processor shared by the live indexer and the reprocess sweeper
func NewProcessor(st store.Store, dispatcher handlers.Dispatcher, json adapter.JSON, m *metrics.Metrics) Processor {
	return &processor{
		store:      st,
		dispatcher: dispatcher,
		json:       json,
		metrics:    m,
	}
}

func (p *processor) Handles(name domain.EventName) bool {
	return p.dispatcher.Handles(name)
}

func (p *processor) Names() []domain.EventName {
	return p.dispatcher.Names()
}

func (p *processor) Process(ctx context.Context, row *schema.ChainEvent) error {
	event, err := ToDomainEvent(row, p.json)
	if err != nil {
		return err
	}

	if err := p.dispatcher.Dispatch(ctx, event); err != nil {
		procErr := &domain.EventProcessingError{
			Event:    event.Name(),
			TxHash:   event.TxHash,
			LogIndex: event.LogIndex,
			Err:      err,
		}
		logger.ErrorCtx(ctx, procErr,
			zap.Uint64("eventId", row.ID),
			zap.Uint64("blockNumber", row.BlockNumber))
		p.metrics.HandlerFailed(string(event.Name()))
		return procErr
	}

	if err := p.store.MarkChainEventProcessed(ctx, row.ID); err != nil {
		return fmt.Errorf("failed to mark event %d processed: %w", row.ID, err)
	}
	return nil
}

// ToDomainEvent rebuilds the typed event from its stored row
func ToDomainEvent(row *schema.ChainEvent, json adapter.JSON) (*domain.ChainEvent, error) {
	fields := map[string]string{}
	if len(row.Args) > 0 {
		if err := json.Unmarshal(row.Args, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode args of event %d: %w", row.ID, err)
		}
	}

	event := &domain.ChainEvent{
		ID:              row.ID,
		TxHash:          row.TxHash,
		LogIndex:        row.LogIndex,
		BlockNumber:     row.BlockNumber,
		BlockHash:       row.BlockHash,
		ContractAddress: row.ContractAddress,
		Args:            domain.DecodeEventArgs(row.EventName, fields),
		Processed:       row.Processed,
	}
	if row.TxFrom != nil {
		event.TxFrom = *row.TxFrom
	}
	if row.TxTo != nil {
		event.TxTo = *row.TxTo
	}
	if row.GasUsed != nil {
		event.GasUsed = *row.GasUsed
	}
	if row.TxStatus != nil {
		event.TxStatus = *row.TxStatus
	}
	return event, nil
}
