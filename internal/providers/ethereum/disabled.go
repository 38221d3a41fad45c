package ethereum

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/feral-file/ff-card-indexer/internal/domain"
)

// disabledCardClient stands in when no card contract is configured.
// Reads answer their unknown values and everything authoritative fails with domain.ErrChainDisabled.
type disabledCardClient struct{}

// NewDisabledCardClient returns a card client for a deployment without a contract
func NewDisabledCardClient() CardClient {
	return disabledCardClient{}
}

func (disabledCardClient) ContractAddress() string { return "" }

func (disabledCardClient) HasMinted(context.Context, string) bool { return false }

func (disabledCardClient) TokenIDOf(context.Context, string) string { return "" }

func (disabledCardClient) IsSocialLinked(context.Context, string, string) bool { return false }

func (disabledCardClient) OwnerOf(context.Context, string) string { return "" }

func (disabledCardClient) ReadCardMetadata(context.Context, string) (*domain.CardMetadata, error) {
	return nil, domain.ErrChainDisabled
}

func (disabledCardClient) SimulateMint(context.Context, string, domain.CardFields, []string, []string, []string) error {
	return domain.ErrChainDisabled
}

func (disabledCardClient) SimulateEdit(context.Context, string, string, domain.CardFields, []string, []string) error {
	return domain.ErrChainDisabled
}

func (disabledCardClient) ParseLog(types.Log) (domain.EventArgs, error) {
	return nil, domain.ErrChainDisabled
}

func (disabledCardClient) TxReceipt(context.Context, string) (*domain.TxReceipt, error) {
	return nil, domain.ErrChainDisabled
}
