package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSubscriptionFailed is returned when the log subscription cannot be established
	ErrSubscriptionFailed = errors.New("subscription failed")

	// ErrCardNotFound is returned when the caller has no card at all
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotMinted is returned when an edit targets a card without a confirmed token id
	ErrCardNotMinted = errors.New("card not minted")

	// ErrAlreadyMinted is returned when the caller already holds a confirmed card
	ErrAlreadyMinted = errors.New("card already minted")

	// ErrInvalidAddress is returned for malformed wallet addresses
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrChainDisabled is returned for chain-backed operations when no card contract is configured
	ErrChainDisabled = errors.New("card contract not configured")

	// ErrUnknownEvent is returned when a log topic does not match any tracked event
	ErrUnknownEvent = errors.New("unknown event")
)

// SimulationRevertedError is returned when a dry-run contract call reverts.
// Reason is the decoded on-chain revert reason, verbatim.
type SimulationRevertedError struct {
	Method string
	Reason string
	// RollbackCID is set when an edit had already staged an artifact the caller may delete
	RollbackCID string
}

func (e *SimulationRevertedError) Error() string {
	return fmt.Sprintf("simulation of %s reverted: %s", e.Method, e.Reason)
}

// ArtifactUploadError is returned once every upload attempt has failed
type ArtifactUploadError struct {
	Name     string
	Attempts int
	Err      error
}

func (e *ArtifactUploadError) Error() string {
	return fmt.Sprintf("upload of %s failed after %d attempt(s): %v", e.Name, e.Attempts, e.Err)
}

func (e *ArtifactUploadError) Unwrap() error {
	return e.Err
}

// WrongWalletOwnerError is returned when the caller signed in with a wallet that
// does not own the card. ClientType names the wallet client that does.
type WrongWalletOwnerError struct {
	CallerAddress string
	OwnerAddress  string
	ClientType    string
}

func (e *WrongWalletOwnerError) Error() string {
	if e.ClientType == "" {
		return fmt.Sprintf("wallet %s does not own this card, switch to %s", e.CallerAddress, e.OwnerAddress)
	}
	return fmt.Sprintf("wallet %s does not own this card, switch to your %s wallet %s", e.CallerAddress, e.ClientType, e.OwnerAddress)
}

// EventProcessingError wraps a handler failure for a stored chain event
type EventProcessingError struct {
	Event    EventName
	TxHash   string
	LogIndex uint
	Err      error
}

func (e *EventProcessingError) Error() string {
	return fmt.Sprintf("failed to process %s event %s#%d: %v", e.Event, e.TxHash, e.LogIndex, e.Err)
}

func (e *EventProcessingError) Unwrap() error {
	return e.Err
}

// TransportError wraps a chain RPC or subscription failure
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
