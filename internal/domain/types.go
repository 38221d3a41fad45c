package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
	ChainBaseMainnet     Chain = "eip155:8453"
	ChainBaseSepolia     Chain = "eip155:84532"
)

// IsValidChain checks if a chain is one the card contract is deployed on
func IsValidChain(chain Chain) bool {
	switch chain {
	case ChainEthereumMainnet, ChainEthereumSepolia, ChainBaseMainnet, ChainBaseSepolia:
		return true
	}
	return false
}

// EventName is the canonical name of a tracked contract event
type EventName string

const (
	EventMintCard        EventName = "MintCard"
	EventSocialLinked    EventName = "SocialLinked"
	EventSocialUnlinked  EventName = "SocialUnlinked"
	EventCardEdited      EventName = "CardEdited"
	EventTransfer        EventName = "Transfer"
	EventDelegateGranted EventName = "DelegateGranted"
	EventUnknown         EventName = "Unknown"
)

// KnownEventNames lists every event name that has a typed argument set
var KnownEventNames = []EventName{
	EventMintCard,
	EventSocialLinked,
	EventSocialUnlinked,
	EventCardEdited,
	EventTransfer,
	EventDelegateGranted,
}

// EventArgs is the decoded argument set of one chain event.
// Each event name has its own variant; UnknownArgs catches the rest.
type EventArgs interface {
	EventName() EventName
	// Fields returns the string-safe storage form; integers are decimal strings
	Fields() map[string]string
}

// MintCardArgs carries MintBaseCard(address user, uint256 tokenId)
type MintCardArgs struct {
	User    string
	TokenID string
}

func (a MintCardArgs) EventName() EventName { return EventMintCard }

func (a MintCardArgs) Fields() map[string]string {
	return map[string]string{"user": a.User, "tokenId": a.TokenID}
}

// SocialLinkedArgs carries SocialLinked(uint256 tokenId, string key, string value)
type SocialLinkedArgs struct {
	TokenID string
	Key     string
	Value   string
}

func (a SocialLinkedArgs) EventName() EventName { return EventSocialLinked }

func (a SocialLinkedArgs) Fields() map[string]string {
	return map[string]string{"tokenId": a.TokenID, "key": a.Key, "value": a.Value}
}

// SocialUnlinkedArgs carries SocialUnlinked(uint256 tokenId, string key)
type SocialUnlinkedArgs struct {
	TokenID string
	Key     string
}

func (a SocialUnlinkedArgs) EventName() EventName { return EventSocialUnlinked }

func (a SocialUnlinkedArgs) Fields() map[string]string {
	return map[string]string{"tokenId": a.TokenID, "key": a.Key}
}

// CardEditedArgs carries BaseCardEdited(uint256 tokenId)
type CardEditedArgs struct {
	TokenID string
}

func (a CardEditedArgs) EventName() EventName { return EventCardEdited }

func (a CardEditedArgs) Fields() map[string]string {
	return map[string]string{"tokenId": a.TokenID}
}

// TransferArgs carries Transfer(address from, address to, uint256 tokenId)
type TransferArgs struct {
	From    string
	To      string
	TokenID string
}

func (a TransferArgs) EventName() EventName { return EventTransfer }

func (a TransferArgs) Fields() map[string]string {
	return map[string]string{"from": a.From, "to": a.To, "tokenId": a.TokenID}
}

// DelegateGrantedArgs carries DelegateGranted(uint256 tokenId, address delegate)
type DelegateGrantedArgs struct {
	TokenID  string
	Delegate string
}

func (a DelegateGrantedArgs) EventName() EventName { return EventDelegateGranted }

func (a DelegateGrantedArgs) Fields() map[string]string {
	return map[string]string{"tokenId": a.TokenID, "delegate": a.Delegate}
}

// UnknownArgs holds a log whose topic is not one of the tracked events.
// It is stored but never dispatched.
type UnknownArgs struct {
	Topic  string
	Values map[string]string
}

func (a UnknownArgs) EventName() EventName { return EventUnknown }

func (a UnknownArgs) Fields() map[string]string {
	fields := make(map[string]string, len(a.Values)+1)
	for k, v := range a.Values {
		fields[k] = v
	}
	fields["topic"] = a.Topic
	return fields
}

// DecodeEventArgs rebuilds the typed variant from the stored field map
func DecodeEventArgs(name EventName, fields map[string]string) EventArgs {
	switch name {
	case EventMintCard:
		return MintCardArgs{User: fields["user"], TokenID: fields["tokenId"]}
	case EventSocialLinked:
		return SocialLinkedArgs{TokenID: fields["tokenId"], Key: fields["key"], Value: fields["value"]}
	case EventSocialUnlinked:
		return SocialUnlinkedArgs{TokenID: fields["tokenId"], Key: fields["key"]}
	case EventCardEdited:
		return CardEditedArgs{TokenID: fields["tokenId"]}
	case EventTransfer:
		return TransferArgs{From: fields["from"], To: fields["to"], TokenID: fields["tokenId"]}
	case EventDelegateGranted:
		return DelegateGrantedArgs{TokenID: fields["tokenId"], Delegate: fields["delegate"]}
	default:
		values := make(map[string]string, len(fields))
		for k, v := range fields {
			if k != "topic" {
				values[k] = v
			}
		}
		return UnknownArgs{Topic: fields["topic"], Values: values}
	}
}

// ChainEvent is one confirmed contract log together with its decoded arguments
type ChainEvent struct {
	ID              uint64
	TxHash          string
	LogIndex        uint
	BlockNumber     uint64
	BlockHash       string
	ContractAddress string
	Args            EventArgs
	TxFrom          string
	TxTo            string
	GasUsed         uint64
	TxStatus        uint64
	Processed       bool
}

// Name returns the event name of the decoded arguments
func (e *ChainEvent) Name() EventName {
	if e.Args == nil {
		return EventUnknown
	}
	return e.Args.EventName()
}

// TxReceipt is the auxiliary transaction metadata stored next to an event
type TxReceipt struct {
	From    string
	To      string
	GasUsed uint64
	Status  uint64
}

// Caller is the verified identity handed over by the auth layer
type Caller struct {
	UserID        string
	WalletAddress string
}

// CardFields mirrors the contract's card struct
type CardFields struct {
	ImageURI string `json:"imageUri"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
}

// SocialEntry is one key/value pair as stored on chain
type SocialEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SocialAccount is a linked social handle in the projection
type SocialAccount struct {
	Handle   string `json:"handle"`
	Verified bool   `json:"verified"`
}

// Socials maps provider keys (e.g. "twitter") to linked accounts
type Socials map[string]SocialAccount

// CardMetadata is the decoded on-chain token metadata
type CardMetadata struct {
	CardFields
	Socials []SocialEntry `json:"socials"`
}

// Card is the read model of one profile card.
// TokenID is empty while the card is a draft.
type Card struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	TokenOwner string    `json:"tokenOwner"`
	TokenID    string    `json:"tokenId,omitempty"`
	Nickname   string    `json:"nickname"`
	Role       string    `json:"role"`
	Bio        string    `json:"bio"`
	ImageURI   string    `json:"imageUri"`
	Socials    Socials   `json:"socials"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Minted reports whether the card has a confirmed token
func (c *Card) Minted() bool {
	return c.TokenID != ""
}

// CardPage is one page of minted cards
type CardPage struct {
	Cards  []Card `json:"cards"`
	Total  uint64 `json:"total"`
	Limit  int    `json:"limit"`
	Offset uint64 `json:"offset"`
}

// UploadedArtifact is a file accepted by the content-addressed store
type UploadedArtifact struct {
	ID   string `json:"id"`
	CID  string `json:"cid"`
	Name string `json:"name"`
}

// StagedArtifact is the rollback handle returned from a prepare call
type StagedArtifact struct {
	FileID string `json:"fileId"`
	CID    string `json:"cid"`
}

// NormalizeAddress lowercases a hex address; the projection keys on lowercase form
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// IsValidAddress reports whether address is a 20-byte hex address
func IsValidAddress(address string) bool {
	return common.IsHexAddress(strings.TrimSpace(address))
}

// CardImageName returns the logical artifact name for the card owned by address
func CardImageName(address string) string {
	return CARD_IMAGE_NAME_PREFIX + NormalizeAddress(address)
}

// FilterSocials drops empty values and returns keys and values sorted by key
func FilterSocials(socials map[string]string) ([]string, []string) {
	keys := make([]string, 0, len(socials))
	for k, v := range socials {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = strings.TrimSpace(socials[k])
	}
	return keys, values
}
