package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/metrics"
	"github.com/feral-file/ff-card-indexer/internal/providers/ethereum"
	"github.com/feral-file/ff-card-indexer/internal/store"
)

const (
	DefaultBaseDelay            = 2 * time.Second
	DefaultMaxReconnectAttempts = 10
)

// State is the lifecycle state of the indexer
type State string

const (
	StateDisconnected State = "disconnected"
	StateSubscribing  State = "subscribing"
	StateStreaming    State = "streaming"
	StateBackoff      State = "backoff"
	StateDegraded     State = "degraded"
	StateStopped      State = "stopped"
)

// Config holds the configuration for the indexer
type Config struct {
	Chain           domain.Chain
	ContractAddress string
	// StartBlock is used when no cursor has been stored yet; 0 starts at the chain head
	StartBlock uint64
	// BaseDelay is multiplied by the attempt number between reconnects
	BaseDelay time.Duration
	// MaxReconnectAttempts bounds consecutive failed reconnects; 0 retries forever
	MaxReconnectAttempts int
}

// Status is a point-in-time snapshot of the indexer
type Status struct {
	State       State     `json:"state"`
	Source      string    `json:"source"`
	Stream      string    `json:"stream"`
	Attempt     int       `json:"attempt"`
	CursorBlock uint64    `json:"cursorBlock"`
	LastError   string    `json:"lastError,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Indexer ingests contract logs into the event store and dispatches them
//
//go:generate mockgen -source=indexer.go -destination=../mocks/indexer.go -package=mocks -mock_names=Indexer=MockIndexer
type Indexer interface {
	// Run blocks until ctx is cancelled (nil) or reconnects are exhausted (*domain.TransportError)
	Run(ctx context.Context) error
	// Status returns the current state
	Status() Status
}

type indexer struct {
	cfg       Config
	source    ethereum.LogSource
	chain     ethereum.CardClient
	store     store.Store
	processor Processor
	json      adapter.JSON
	clock     adapter.Clock
	metrics   *metrics.Metrics

	mu     sync.RWMutex
	status Status
}

// NewIndexer creates an indexer. source may be nil when no contract is configured.
func NewIndexer(
	cfg Config,
	source ethereum.LogSource,
	chain ethereum.CardClient,
	st store.Store,
	processor Processor,
	json adapter.JSON,
	clock adapter.Clock,
	m *metrics.Metrics,
) Indexer {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}

	i := &indexer{
		cfg:       cfg,
		source:    source,
		chain:     chain,
		store:     st,
		processor: processor,
		json:      json,
		clock:     clock,
		metrics:   m,
	}
	i.status = Status{State: StateDisconnected, Stream: i.stream(), UpdatedAt: clock.Now()}
	if source != nil {
		i.status.Source = source.Name()
	}
	return i
}

// stream keys the block cursor
func (i *indexer) stream() string {
	return fmt.Sprintf("%s:%s", i.cfg.Chain, domain.NormalizeAddress(i.cfg.ContractAddress))
}

func (i *indexer) Status() Status {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.status
}

func (i *indexer) update(fn func(s *Status)) {
	i.mu.Lock()
	fn(&i.status)
	i.status.UpdatedAt = i.clock.Now()
	state := i.status.State
	i.mu.Unlock()

	i.metrics.SetIndexerState(string(state))
}

func (i *indexer) setState(state State) {
	i.update(func(s *Status) { s.State = state })
}

func (i *indexer) Run(ctx context.Context) error {
	if i.cfg.ContractAddress == "" || i.source == nil {
		logger.WarnCtx(ctx, "No card contract configured, indexer stays disconnected")
		i.setState(StateDisconnected)
		<-ctx.Done()
		return nil
	}

	logger.InfoCtx(ctx, "Starting card indexer",
		zap.String("stream", i.stream()),
		zap.String("source", i.source.Name()),
		zap.Int("maxReconnectAttempts", i.cfg.MaxReconnectAttempts))

	attempt := 0
	for {
		err := i.subscribe(ctx, func() {
			attempt = 0
			i.update(func(s *Status) {
				s.State = StateStreaming
				s.Attempt = 0
				s.LastError = ""
			})
			logger.InfoCtx(ctx, "Log stream established", zap.String("source", i.source.Name()))
		})
		if ctx.Err() != nil {
			i.setState(StateStopped)
			logger.InfoCtx(ctx, "Card indexer stopped")
			return nil
		}

		attempt++
		i.metrics.Reconnect()
		i.update(func(s *Status) {
			s.Attempt = attempt
			s.LastError = err.Error()
		})

		if i.cfg.MaxReconnectAttempts > 0 && attempt > i.cfg.MaxReconnectAttempts {
			i.setState(StateDegraded)
			transportErr := &domain.TransportError{
				Op:  "reconnect log stream",
				Err: fmt.Errorf("gave up after %d attempts: %w", i.cfg.MaxReconnectAttempts, err),
			}
			logger.ErrorCtx(ctx, transportErr, zap.String("stream", i.stream()))
			return transportErr
		}

		delay := i.cfg.BaseDelay * time.Duration(attempt)
		i.setState(StateBackoff)
		logger.WarnCtx(ctx, "Log stream failed, reconnecting",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay))

		select {
		case <-ctx.Done():
			i.setState(StateStopped)
			logger.InfoCtx(ctx, "Card indexer stopped")
			return nil
		case <-i.clock.After(delay):
		}
	}
}

// subscribe resumes from the stored cursor and streams until an error
func (i *indexer) subscribe(ctx context.Context, onReady func()) error {
	i.setState(StateSubscribing)

	fromBlock, err := i.store.GetBlockCursor(ctx, i.stream())
	if err != nil {
		return fmt.Errorf("failed to get block cursor: %w", err)
	}
	if fromBlock == 0 {
		fromBlock = i.cfg.StartBlock
	}
	i.update(func(s *Status) { s.CursorBlock = fromBlock })

	return i.source.Stream(ctx, fromBlock, onReady, i.handleLogs)
}

// handleLogs ingests a batch sequentially and then advances the cursor.
// Returning an error makes the stream reconnect and replay from the cursor.
func (i *indexer) handleLogs(ctx context.Context, logs []types.Log) error {
	var highest uint64
	for _, vLog := range logs {
		if err := i.ingest(ctx, vLog); err != nil {
			return err
		}
		if vLog.BlockNumber > highest {
			highest = vLog.BlockNumber
		}
	}

	if highest == 0 || highest <= i.Status().CursorBlock {
		return nil
	}
	if err := i.store.SetBlockCursor(ctx, i.stream(), highest); err != nil {
		return fmt.Errorf("failed to save block cursor: %w", err)
	}
	i.update(func(s *Status) { s.CursorBlock = highest })
	i.metrics.SetCursorBlock(highest)
	return nil
}

// ingest stores one log once and dispatches it
func (i *indexer) ingest(ctx context.Context, vLog types.Log) error {
	if vLog.Removed {
		logger.DebugCtx(ctx, "Ignoring log removed by reorg",
			zap.String("txHash", vLog.TxHash.Hex()),
			zap.Uint("logIndex", vLog.Index))
		return nil
	}

	txHash := vLog.TxHash.Hex()
	existing, err := i.store.GetChainEvent(ctx, txHash, vLog.Index)
	if err != nil {
		return fmt.Errorf("failed to look up event: %w", err)
	}
	if existing != nil {
		i.metrics.DuplicateDropped()
		return nil
	}

	args, err := i.chain.ParseLog(vLog)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to decode log, storing raw data",
			zap.String("txHash", txHash),
			zap.Uint("logIndex", vLog.Index),
			zap.Error(err))
		args = undecodable(vLog, err)
	}

	raw, err := i.json.MarshalCanonical(args.Fields())
	if err != nil {
		return fmt.Errorf("failed to encode event args: %w", err)
	}

	input := store.CreateChainEventInput{
		TxHash:          txHash,
		LogIndex:        vLog.Index,
		BlockNumber:     vLog.BlockNumber,
		BlockHash:       vLog.BlockHash.Hex(),
		ContractAddress: vLog.Address.Hex(),
		EventName:       args.EventName(),
		Args:            datatypes.JSON(raw),
	}

	receipt, err := i.chain.TxReceipt(ctx, txHash)
	if err != nil {
		logger.WarnCtx(ctx, "Receipt unavailable, storing event without it", zap.String("txHash", txHash), zap.Error(err))
	} else if receipt != nil {
		input.TxFrom = &receipt.From
		input.TxTo = &receipt.To
		input.GasUsed = &receipt.GasUsed
		input.TxStatus = &receipt.Status
	}

	row, created, err := i.store.CreateChainEvent(ctx, input)
	if err != nil {
		return err
	}
	if !created {
		i.metrics.DuplicateDropped()
		return nil
	}
	i.metrics.EventIngested(string(args.EventName()))

	logger.InfoCtx(ctx, "Chain event stored",
		zap.String("event", string(args.EventName())),
		zap.String("txHash", txHash),
		zap.Uint("logIndex", vLog.Index),
		zap.Uint64("blockNumber", vLog.BlockNumber))

	if !i.processor.Handles(args.EventName()) {
		return nil
	}

	// handler failures leave the event unprocessed and never stop the stream
	if err := i.processor.Process(ctx, row); err != nil {
		var procErr *domain.EventProcessingError
		if !errors.As(err, &procErr) {
			logger.ErrorCtx(ctx, err, zap.Uint64("eventId", row.ID))
		}
	}
	return nil
}

func undecodable(vLog types.Log, err error) domain.EventArgs {
	topic := ""
	if len(vLog.Topics) > 0 {
		topic = vLog.Topics[0].Hex()
	}
	return domain.UnknownArgs{
		Topic: topic,
		Values: map[string]string{
			"data":  hexutil.Encode(vLog.Data),
			"error": err.Error(),
		},
	}
}
