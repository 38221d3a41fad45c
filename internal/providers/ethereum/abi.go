package ethereum

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/feral-file/ff-card-indexer/internal/domain"
)

// cardContractABI is the subset of the profile card contract used by the indexer
const cardContractABI = `[
  {"type":"function","name":"hasMinted","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"tokenIdOf","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"isSocialLinked","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"},{"name":"key","type":"string"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"mintBaseCard","stateMutability":"nonpayable","inputs":[
    {"name":"card","type":"tuple","components":[{"name":"imageURI","type":"string"},{"name":"nickname","type":"string"},{"name":"role","type":"string"},{"name":"bio","type":"string"}]},
    {"name":"socialKeys","type":"string[]"},
    {"name":"socialValues","type":"string[]"},
    {"name":"initialDelegates","type":"address[]"}],"outputs":[]},
  {"type":"function","name":"editBaseCard","stateMutability":"nonpayable","inputs":[
    {"name":"tokenId","type":"uint256"},
    {"name":"card","type":"tuple","components":[{"name":"imageURI","type":"string"},{"name":"nickname","type":"string"},{"name":"role","type":"string"},{"name":"bio","type":"string"}]},
    {"name":"socialKeys","type":"string[]"},
    {"name":"socialValues","type":"string[]"}],"outputs":[]},
  {"type":"event","name":"MintBaseCard","anonymous":false,"inputs":[{"name":"user","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true}]},
  {"type":"event","name":"SocialLinked","anonymous":false,"inputs":[{"name":"tokenId","type":"uint256","indexed":true},{"name":"key","type":"string","indexed":false},{"name":"value","type":"string","indexed":false}]},
  {"type":"event","name":"SocialUnlinked","anonymous":false,"inputs":[{"name":"tokenId","type":"uint256","indexed":true},{"name":"key","type":"string","indexed":false}]},
  {"type":"event","name":"BaseCardEdited","anonymous":false,"inputs":[{"name":"tokenId","type":"uint256","indexed":true}]},
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true}]},
  {"type":"event","name":"DelegateGranted","anonymous":false,"inputs":[{"name":"tokenId","type":"uint256","indexed":true},{"name":"delegate","type":"address","indexed":true}]},
  {"type":"error","name":"AlreadyMinted","inputs":[{"name":"user","type":"address"}]},
  {"type":"error","name":"NotTokenOwner","inputs":[{"name":"tokenId","type":"uint256"},{"name":"caller","type":"address"}]},
  {"type":"error","name":"InvalidSocialKey","inputs":[{"name":"key","type":"string"}]},
  {"type":"error","name":"SocialLengthMismatch","inputs":[]},
  {"type":"error","name":"EmptyNickname","inputs":[]}
]`

// contractEventNames maps contract event names onto tracked event names
var contractEventNames = map[string]domain.EventName{
	"MintBaseCard":    domain.EventMintCard,
	"SocialLinked":    domain.EventSocialLinked,
	"SocialUnlinked":  domain.EventSocialUnlinked,
	"BaseCardEdited":  domain.EventCardEdited,
	"Transfer":        domain.EventTransfer,
	"DelegateGranted": domain.EventDelegateGranted,
}

var cardABI = mustParseABI(cardContractABI)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// cardStruct is packed as the contract's card tuple
type cardStruct struct {
	ImageURI string
	Nickname string
	Role     string
	Bio      string
}

func toCardStruct(fields domain.CardFields) cardStruct {
	return cardStruct{
		ImageURI: fields.ImageURI,
		Nickname: fields.Nickname,
		Role:     fields.Role,
		Bio:      fields.Bio,
	}
}
