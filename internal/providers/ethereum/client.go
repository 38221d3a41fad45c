package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
)

// Config holds the card contract location
type Config struct {
	ContractAddress string
}

// CardClient reads, simulates and decodes calls against the profile card contract.
// Token ids are decimal strings; an empty string means unknown.
//
//go:generate mockgen -source=client.go -destination=../../mocks/card_client.go -package=mocks -mock_names=CardClient=MockCardClient
type CardClient interface {
	// ContractAddress returns the lowercased contract address
	ContractAddress() string

	// HasMinted reports whether address holds a card; false when the call fails
	HasMinted(ctx context.Context, address string) bool

	// TokenIDOf returns the token id owned by address, or "" if none or unknown
	TokenIDOf(ctx context.Context, address string) string

	// IsSocialLinked reports whether key is linked on the token; false when the call fails
	IsSocialLinked(ctx context.Context, tokenID string, key string) bool

	// ReadCardMetadata decodes the token URI of tokenID
	ReadCardMetadata(ctx context.Context, tokenID string) (*domain.CardMetadata, error)

	// OwnerOf returns the lowercased owner of tokenID, or "" when unknown
	OwnerOf(ctx context.Context, tokenID string) string

	// SimulateMint dry-runs mintBaseCard as address
	SimulateMint(ctx context.Context, address string, fields domain.CardFields, socialKeys []string, socialValues []string, delegates []string) error

	// SimulateEdit dry-runs editBaseCard as address
	SimulateEdit(ctx context.Context, address string, tokenID string, fields domain.CardFields, socialKeys []string, socialValues []string) error

	// ParseLog decodes a contract log into its typed argument set
	ParseLog(vLog types.Log) (domain.EventArgs, error)

	// TxReceipt fetches sender, recipient, gas used and status of a mined transaction
	TxReceipt(ctx context.Context, txHash string) (*domain.TxReceipt, error)
}

type cardClient struct {
	contract common.Address
	client   adapter.EthClient
}

// NewCardClient creates a card contract client on top of an RPC connection
func NewCardClient(cfg Config, client adapter.EthClient) (CardClient, error) {
	if !domain.IsValidAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("%w: contract %q", domain.ErrInvalidAddress, cfg.ContractAddress)
	}

	return &cardClient{
		contract: common.HexToAddress(cfg.ContractAddress),
		client:   client,
	}, nil
}

func (c *cardClient) ContractAddress() string {
	return domain.NormalizeAddress(c.contract.Hex())
}

// call packs method, executes an eth_call and returns the unpacked outputs
func (c *cardClient) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := cardABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, err
	}

	out, err := cardABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return out, nil
}

func (c *cardClient) HasMinted(ctx context.Context, address string) bool {
	if !domain.IsValidAddress(address) {
		return false
	}

	out, err := c.call(ctx, "hasMinted", common.HexToAddress(address))
	if err != nil {
		logger.WarnCtx(ctx, "hasMinted read failed", zap.String("address", address), zap.Error(err))
		return false
	}

	minted, _ := out[0].(bool)
	return minted
}

func (c *cardClient) TokenIDOf(ctx context.Context, address string) string {
	if !domain.IsValidAddress(address) {
		return ""
	}

	out, err := c.call(ctx, "tokenIdOf", common.HexToAddress(address))
	if err != nil {
		logger.WarnCtx(ctx, "tokenIdOf read failed", zap.String("address", address), zap.Error(err))
		return ""
	}

	tokenID, ok := out[0].(*big.Int)
	if !ok || tokenID.Sign() == 0 {
		return ""
	}
	return tokenID.String()
}

func (c *cardClient) IsSocialLinked(ctx context.Context, tokenID string, key string) bool {
	id, ok := parseTokenID(tokenID)
	if !ok {
		return false
	}

	out, err := c.call(ctx, "isSocialLinked", id, key)
	if err != nil {
		logger.WarnCtx(ctx, "isSocialLinked read failed",
			zap.String("tokenId", tokenID),
			zap.String("key", key),
			zap.Error(err))
		return false
	}

	linked, _ := out[0].(bool)
	return linked
}

func (c *cardClient) ReadCardMetadata(ctx context.Context, tokenID string) (*domain.CardMetadata, error) {
	id, ok := parseTokenID(tokenID)
	if !ok {
		return nil, fmt.Errorf("invalid token id: %q", tokenID)
	}

	out, err := c.call(ctx, "tokenURI", id)
	if err != nil {
		return nil, &domain.TransportError{Op: "tokenURI", Err: err}
	}

	uri, _ := out[0].(string)
	metadata, err := DecodeTokenURI(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to decode token %s metadata: %w", tokenID, err)
	}
	return metadata, nil
}

func (c *cardClient) OwnerOf(ctx context.Context, tokenID string) string {
	id, ok := parseTokenID(tokenID)
	if !ok {
		return ""
	}

	out, err := c.call(ctx, "ownerOf", id)
	if err != nil {
		logger.WarnCtx(ctx, "ownerOf read failed", zap.String("tokenId", tokenID), zap.Error(err))
		return ""
	}

	owner, ok := out[0].(common.Address)
	if !ok || owner == (common.Address{}) {
		return ""
	}
	return domain.NormalizeAddress(owner.Hex())
}

func (c *cardClient) SimulateMint(ctx context.Context, address string, fields domain.CardFields, socialKeys []string, socialValues []string, delegates []string) error {
	if !domain.IsValidAddress(address) {
		return domain.ErrInvalidAddress
	}

	delegateAddrs := make([]common.Address, 0, len(delegates))
	for _, d := range delegates {
		if !domain.IsValidAddress(d) {
			return fmt.Errorf("%w: delegate %q", domain.ErrInvalidAddress, d)
		}
		delegateAddrs = append(delegateAddrs, common.HexToAddress(d))
	}

	return c.simulate(ctx, address, "mintBaseCard",
		toCardStruct(fields),
		nonNil(socialKeys),
		nonNil(socialValues),
		delegateAddrs)
}

func (c *cardClient) SimulateEdit(ctx context.Context, address string, tokenID string, fields domain.CardFields, socialKeys []string, socialValues []string) error {
	if !domain.IsValidAddress(address) {
		return domain.ErrInvalidAddress
	}

	id, ok := parseTokenID(tokenID)
	if !ok {
		return fmt.Errorf("invalid token id: %q", tokenID)
	}

	return c.simulate(ctx, address, "editBaseCard",
		id,
		toCardStruct(fields),
		nonNil(socialKeys),
		nonNil(socialValues))
}

// simulate executes a state-changing method as an eth_call from address.
// Nothing is signed or broadcast.
func (c *cardClient) simulate(ctx context.Context, address string, method string, args ...interface{}) error {
	data, err := cardABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}

	from := common.HexToAddress(address)
	_, err = c.client.CallContract(ctx, ethereum.CallMsg{
		From: from,
		To:   &c.contract,
		Data: data,
	}, nil)
	if err == nil {
		return nil
	}

	if reason, reverted := revertReason(err); reverted {
		logger.InfoCtx(ctx, "Simulation reverted",
			zap.String("method", method),
			zap.String("from", address),
			zap.String("reason", reason))
		return &domain.SimulationRevertedError{Method: method, Reason: reason}
	}

	return &domain.TransportError{Op: "simulate " + method, Err: err}
}

func (c *cardClient) TxReceipt(ctx context.Context, txHash string) (*domain.TxReceipt, error) {
	hash := common.HexToHash(txHash)

	receipt, err := c.client.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	result := &domain.TxReceipt{
		GasUsed: receipt.GasUsed,
		Status:  receipt.Status,
	}

	tx, _, err := c.client.TransactionByHash(ctx, hash)
	if err != nil {
		return result, fmt.Errorf("failed to get transaction: %w", err)
	}
	if to := tx.To(); to != nil {
		result.To = domain.NormalizeAddress(to.Hex())
	}

	sender, err := c.client.TransactionSender(ctx, tx, receipt.BlockHash, receipt.TransactionIndex)
	if err != nil {
		return result, fmt.Errorf("failed to get transaction sender: %w", err)
	}
	result.From = domain.NormalizeAddress(sender.Hex())

	return result, nil
}

func (c *cardClient) ParseLog(vLog types.Log) (domain.EventArgs, error) {
	if len(vLog.Topics) == 0 {
		return nil, errors.New("log has no topics")
	}

	event, err := cardABI.EventByID(vLog.Topics[0])
	if err != nil {
		return domain.UnknownArgs{
			Topic:  vLog.Topics[0].Hex(),
			Values: map[string]string{"data": hexutil.Encode(vLog.Data)},
		}, nil
	}

	values := make(map[string]interface{}, len(event.Inputs))
	if len(event.Inputs.NonIndexed()) > 0 {
		if err := event.Inputs.UnpackIntoMap(values, vLog.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack %s data: %w", event.Name, err)
		}
	}

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if len(vLog.Topics)-1 != len(indexed) {
		return nil, fmt.Errorf("invalid %s event: expected %d topics, got %d", event.Name, len(indexed)+1, len(vLog.Topics))
	}
	if err := abi.ParseTopicsIntoMap(values, indexed, vLog.Topics[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse %s topics: %w", event.Name, err)
	}

	fields := make(map[string]string, len(values))
	for k, v := range values {
		fields[k] = stringifyArg(v)
	}

	name, ok := contractEventNames[event.Name]
	if !ok {
		return domain.UnknownArgs{Topic: vLog.Topics[0].Hex(), Values: fields}, nil
	}
	return domain.DecodeEventArgs(name, fields), nil
}

// stringifyArg converts decoded ABI values into the string-safe storage form
func stringifyArg(v interface{}) string {
	switch val := v.(type) {
	case *big.Int:
		return val.String()
	case common.Address:
		return domain.NormalizeAddress(val.Hex())
	case common.Hash:
		return val.Hex()
	case string:
		return val
	case []byte:
		return hexutil.Encode(val)
	case [32]byte:
		return hexutil.Encode(val[:])
	default:
		return fmt.Sprint(val)
	}
}

func parseTokenID(tokenID string) (*big.Int, bool) {
	id, ok := new(big.Int).SetString(strings.TrimSpace(tokenID), 10)
	if !ok || id.Sign() < 0 {
		return nil, false
	}
	return id, true
}

// nonNil keeps the ABI encoder from seeing a nil slice
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
