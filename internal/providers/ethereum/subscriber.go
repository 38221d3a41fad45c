package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
)

const (
	// DefaultMaxBlockRange bounds a single eth_getLogs request
	DefaultMaxBlockRange uint64 = 2000

	// DefaultPollInterval is the HTTP polling cadence when no websocket is available
	DefaultPollInterval = 12 * time.Second
)

// LogHandler receives one batch of contract logs in arrival order
type LogHandler func(ctx context.Context, logs []types.Log) error

// LogSource delivers contract logs starting at fromBlock (inclusive, 0 for the chain head).
// Stream blocks until ctx is cancelled, the transport fails, or handler returns an error.
// onReady is called once the source is live.
//
//go:generate mockgen -source=subscriber.go -destination=../../mocks/log_source.go -package=mocks -mock_names=LogSource=MockLogSource
type LogSource interface {
	// Name identifies the transport in logs
	Name() string

	// Stream delivers logs to handler until an error occurs
	Stream(ctx context.Context, fromBlock uint64, onReady func(), handler LogHandler) error
}

// SourceConfig holds the settings shared by every log source
type SourceConfig struct {
	ContractAddress string
	MaxBlockRange   uint64
	PollInterval    time.Duration
}

func (c SourceConfig) query() ethereum.FilterQuery {
	return ethereum.FilterQuery{
		Addresses: []common.Address{common.HexToAddress(c.ContractAddress)},
	}
}

func (c SourceConfig) maxRange() uint64 {
	if c.MaxBlockRange == 0 {
		return DefaultMaxBlockRange
	}
	return c.MaxBlockRange
}

type wsSource struct {
	cfg    SourceConfig
	url    string
	dialer adapter.EthClientDialer
}

// NewWebSocketSource creates a log source backed by eth_subscribe.
// Every Stream call dials a fresh connection so a reconnect never reuses a dead socket.
func NewWebSocketSource(cfg SourceConfig, url string, dialer adapter.EthClientDialer) LogSource {
	return &wsSource{cfg: cfg, url: url, dialer: dialer}
}

func (s *wsSource) Name() string {
	return "websocket"
}

func (s *wsSource) Stream(ctx context.Context, fromBlock uint64, onReady func(), handler LogHandler) error {
	client, err := s.dialer.Dial(ctx, s.url)
	if err != nil {
		return &domain.TransportError{Op: "dial websocket", Err: err}
	}
	defer client.Close()

	query := s.cfg.query()
	logs := make(chan types.Log, 128)
	sub, err := client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return &domain.TransportError{Op: "subscribe logs", Err: fmt.Errorf("%w: %v", domain.ErrSubscriptionFailed, err)}
	}
	defer func() {
		logger.InfoCtx(ctx, "Unsubscribing from card contract logs")
		sub.Unsubscribe()
	}()

	// the subscription only carries new blocks; replay the gap from the cursor first
	if fromBlock > 0 {
		head, err := client.BlockNumber(ctx)
		if err != nil {
			return &domain.TransportError{Op: "get block number", Err: err}
		}
		if head >= fromBlock {
			backlog, err := filterLogsInRange(ctx, client, query, fromBlock, head, s.cfg.maxRange())
			if err != nil {
				return &domain.TransportError{Op: "replay logs", Err: err}
			}
			if len(backlog) > 0 {
				if err := handler(ctx, backlog); err != nil {
					return err
				}
			}
		}
	}

	onReady()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			if err == nil {
				err = errors.New("subscription closed")
			}
			return &domain.TransportError{Op: "stream logs", Err: err}
		case vLog := <-logs:
			if err := handler(ctx, []types.Log{vLog}); err != nil {
				return err
			}
		}
	}
}

type pollingSource struct {
	cfg    SourceConfig
	client adapter.EthClient
	clock  adapter.Clock
}

// NewPollingSource creates a log source that polls eth_getLogs over HTTP
func NewPollingSource(cfg SourceConfig, client adapter.EthClient, clock adapter.Clock) LogSource {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &pollingSource{cfg: cfg, client: client, clock: clock}
}

func (s *pollingSource) Name() string {
	return "polling"
}

func (s *pollingSource) Stream(ctx context.Context, fromBlock uint64, onReady func(), handler LogHandler) error {
	query := s.cfg.query()
	next := fromBlock
	ready := false

	for {
		head, err := s.client.BlockNumber(ctx)
		if err != nil {
			return &domain.TransportError{Op: "get block number", Err: err}
		}
		if next == 0 {
			next = head
		}

		if head >= next {
			logs, err := filterLogsInRange(ctx, s.client, query, next, head, s.cfg.maxRange())
			if err != nil {
				return &domain.TransportError{Op: "poll logs", Err: err}
			}
			if len(logs) > 0 {
				if err := handler(ctx, logs); err != nil {
					return err
				}
			}
			next = head + 1
		}

		if !ready {
			ready = true
			onReady()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(s.cfg.PollInterval):
		}
	}
}

type fallbackSource struct {
	primary   LogSource
	secondary LogSource
}

// NewFallbackSource streams from primary and switches to secondary when primary
// cannot get ready. A primary that fails after becoming ready is reported to the caller.
func NewFallbackSource(primary, secondary LogSource) LogSource {
	return &fallbackSource{primary: primary, secondary: secondary}
}

func (s *fallbackSource) Name() string {
	return s.primary.Name() + "+" + s.secondary.Name()
}

func (s *fallbackSource) Stream(ctx context.Context, fromBlock uint64, onReady func(), handler LogHandler) error {
	ready := false
	err := s.primary.Stream(ctx, fromBlock, func() {
		ready = true
		onReady()
	}, handler)
	if err == nil || ready || ctx.Err() != nil {
		return err
	}

	logger.WarnCtx(ctx, "Primary log source unavailable, falling back",
		zap.String("primary", s.primary.Name()),
		zap.String("fallback", s.secondary.Name()),
		zap.Error(err))

	return s.secondary.Stream(ctx, fromBlock, onReady, handler)
}

// filterLogsInRange fetches logs for [from, to] in chunks of at most step blocks,
// halving the chunk whenever the node rejects a range as too large
func filterLogsInRange(ctx context.Context, client adapter.EthClient, query ethereum.FilterQuery, from, to, step uint64) ([]types.Log, error) {
	var all []types.Log
	current := from

	for current <= to {
		end := current + step - 1
		if end > to || end < current {
			end = to
		}

		chunk := query
		chunk.FromBlock = new(big.Int).SetUint64(current)
		chunk.ToBlock = new(big.Int).SetUint64(end)

		logs, err := client.FilterLogs(ctx, chunk)
		if err == nil {
			all = append(all, logs...)
			current = end + 1
			continue
		}

		if !isTooManyResultsError(err) || step == 1 {
			return nil, fmt.Errorf("failed to get logs for range %d-%d: %w", current, end, err)
		}

		step = step / 2
		logger.WarnCtx(ctx, "Too many results, reducing step size",
			zap.Uint64("newStepSize", step),
			zap.Uint64("fromBlock", current),
			zap.Uint64("toBlock", end))
	}

	return all, nil
}

func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "query returned more than") ||
		strings.Contains(msg, "too many results") ||
		strings.Contains(msg, "block range") ||
		strings.Contains(msg, "exceeded maximum") ||
		strings.Contains(msg, "query timeout exceeded")
}
