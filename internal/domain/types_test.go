package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidChain(t *testing.T) {
	tests := []struct {
		name     string
		chain    Chain
		expected bool
	}{
		{name: "base mainnet", chain: ChainBaseMainnet, expected: true},
		{name: "base sepolia", chain: ChainBaseSepolia, expected: true},
		{name: "ethereum mainnet", chain: ChainEthereumMainnet, expected: true},
		{name: "tezos is not supported", chain: Chain("tezos:mainnet"), expected: false},
		{name: "empty chain", chain: Chain(""), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidChain(tt.chain))
		})
	}
}

func TestDecodeEventArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     EventArgs
		expected EventName
	}{
		{
			name:     "mint card",
			args:     MintCardArgs{User: "0xaaaa", TokenID: "7"},
			expected: EventMintCard,
		},
		{
			name:     "social linked",
			args:     SocialLinkedArgs{TokenID: "7", Key: "twitter", Value: "@alice"},
			expected: EventSocialLinked,
		},
		{
			name:     "card edited keeps large token ids as strings",
			args:     CardEditedArgs{TokenID: "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
			expected: EventCardEdited,
		},
		{
			name:     "delegate granted",
			args:     DelegateGrantedArgs{TokenID: "1", Delegate: "0xbbbb"},
			expected: EventDelegateGranted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := DecodeEventArgs(tt.expected, tt.args.Fields())
			assert.Equal(t, tt.expected, decoded.EventName())
			assert.Equal(t, tt.args, decoded)
		})
	}

	t.Run("unknown names fall into the catch-all variant", func(t *testing.T) {
		decoded := DecodeEventArgs(EventName("Approval"), map[string]string{"topic": "0x8c5b", "data": "0x01"})
		unknown, ok := decoded.(UnknownArgs)
		require.True(t, ok)
		assert.Equal(t, EventUnknown, unknown.EventName())
		assert.Equal(t, "0x8c5b", unknown.Topic)
		assert.Equal(t, map[string]string{"data": "0x01"}, unknown.Values)
	})
}

func TestChainEventName(t *testing.T) {
	assert.Equal(t, EventUnknown, (&ChainEvent{}).Name())
	assert.Equal(t, EventCardEdited, (&ChainEvent{Args: CardEditedArgs{TokenID: "1"}}).Name())
}

func TestFilterSocials(t *testing.T) {
	keys, values := FilterSocials(map[string]string{
		"twitter":   "@alice",
		"github":    " alice ",
		"farcaster": "",
		"":          "ignored",
	})

	assert.Equal(t, []string{"github", "twitter"}, keys)
	assert.Equal(t, []string{"alice", "@alice"}, values)
}

func TestCardImageName(t *testing.T) {
	assert.Equal(t, "card-0xabcdef0000000000000000000000000000000001",
		CardImageName("0xABCDEF0000000000000000000000000000000001"))
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("0x000000000000000000000000000000000000dEaD"))
	assert.False(t, IsValidAddress("0x1234"))
	assert.False(t, IsValidAddress("tz1abc"))
}

func TestTypedErrors(t *testing.T) {
	uploadErr := fmt.Errorf("prepare mint: %w", &ArtifactUploadError{Name: "card-0xa", Attempts: 3, Err: errors.New("502")})
	var target *ArtifactUploadError
	require.True(t, errors.As(uploadErr, &target))
	assert.Equal(t, 3, target.Attempts)

	wrong := &WrongWalletOwnerError{CallerAddress: "0xa", OwnerAddress: "0xb", ClientType: "coinbase_wallet"}
	assert.Contains(t, wrong.Error(), "coinbase_wallet")

	transport := &TransportError{Op: "subscribe", Err: ErrSubscriptionFailed}
	assert.True(t, errors.Is(transport, ErrSubscriptionFailed))
}
