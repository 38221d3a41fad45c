package ethereum_test

import (
	"context"
	"encoding/base64"
	"errors"
	"math/big"
	"os"
	"testing"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/mocks"
	"github.com/feral-file/ff-card-indexer/internal/providers/ethereum"
)

const (
	testContract = "0x00000000000000000000000000000000000000c4"
	testUser     = "0x00000000000000000000000000000000000000aa"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type revertRPCError struct {
	data string
}

func (e *revertRPCError) Error() string          { return "execution reverted" }
func (e *revertRPCError) ErrorData() interface{} { return e.data }

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

func pack(typeNames []string, values ...interface{}) []byte {
	args := make(abi.Arguments, len(typeNames))
	for i, t := range typeNames {
		args[i] = abi.Argument{Type: mustType(t)}
	}
	out, err := args.Pack(values...)
	if err != nil {
		panic(err)
	}
	return out
}

func selector(sig string) []byte {
	return crypto.Keccak256([]byte(sig))[:4]
}

func newTestClient(t *testing.T) (ethereum.CardClient, *mocks.MockEthClient) {
	ctrl := gomock.NewController(t)
	ethClient := mocks.NewMockEthClient(ctrl)

	client, err := ethereum.NewCardClient(ethereum.Config{ContractAddress: testContract}, ethClient)
	require.NoError(t, err)
	return client, ethClient
}

func TestNewCardClient_InvalidContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := ethereum.NewCardClient(ethereum.Config{ContractAddress: "not-an-address"}, mocks.NewMockEthClient(ctrl))
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestDisabledCardClient(t *testing.T) {
	client := ethereum.NewDisabledCardClient()
	ctx := context.Background()

	assert.Empty(t, client.ContractAddress())
	assert.False(t, client.HasMinted(ctx, testUser))
	assert.Empty(t, client.TokenIDOf(ctx, testUser))
	assert.Empty(t, client.OwnerOf(ctx, "7"))
	assert.False(t, client.IsSocialLinked(ctx, "7", "twitter"))

	_, err := client.ReadCardMetadata(ctx, "7")
	assert.ErrorIs(t, err, domain.ErrChainDisabled)
	assert.ErrorIs(t, client.SimulateMint(ctx, testUser, domain.CardFields{}, nil, nil, nil), domain.ErrChainDisabled)
	assert.ErrorIs(t, client.SimulateEdit(ctx, testUser, "7", domain.CardFields{}, nil, nil), domain.ErrChainDisabled)
}

func TestCardClient_HasMinted(t *testing.T) {
	client, ethClient := newTestClient(t)
	ctx := context.Background()

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg goethereum.CallMsg, _ *big.Int) ([]byte, error) {
			assert.Equal(t, selector("hasMinted(address)"), msg.Data[:4])
			assert.Equal(t, common.HexToAddress(testContract), *msg.To)
			return pack([]string{"bool"}, true), nil
		})
	assert.True(t, client.HasMinted(ctx, testUser))

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("connection reset"))
	assert.False(t, client.HasMinted(ctx, testUser))

	assert.False(t, client.HasMinted(ctx, "0xnope"))
}

func TestCardClient_TokenIDOf(t *testing.T) {
	client, ethClient := newTestClient(t)
	ctx := context.Background()

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(pack([]string{"uint256"}, big.NewInt(7)), nil)
	assert.Equal(t, "7", client.TokenIDOf(ctx, testUser))

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(pack([]string{"uint256"}, big.NewInt(0)), nil)
	assert.Equal(t, "", client.TokenIDOf(ctx, testUser))

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("timeout"))
	assert.Equal(t, "", client.TokenIDOf(ctx, testUser))
}

func TestCardClient_OwnerOfAndIsSocialLinked(t *testing.T) {
	client, ethClient := newTestClient(t)
	ctx := context.Background()

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(pack([]string{"address"}, common.HexToAddress("0x00000000000000000000000000000000000000AA")), nil)
	assert.Equal(t, testUser, client.OwnerOf(ctx, "7"))

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("boom"))
	assert.Equal(t, "", client.OwnerOf(ctx, "7"))

	assert.Equal(t, "", client.OwnerOf(ctx, "seven"))

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(pack([]string{"bool"}, true), nil)
	assert.True(t, client.IsSocialLinked(ctx, "7", "twitter"))

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("boom"))
	assert.False(t, client.IsSocialLinked(ctx, "7", "twitter"))
}

func TestCardClient_ReadCardMetadata(t *testing.T) {
	client, ethClient := newTestClient(t)
	ctx := context.Background()

	payload := `{"name":"Alice","image":"ipfs://bafyimage","role":"Builder","bio":"hi","socials":[{"key":"twitter","value":"alice"},{"key":"github","value":"alice-gh"},{"key":"discord","value":""}]}`
	uri := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(payload))

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg goethereum.CallMsg, _ *big.Int) ([]byte, error) {
			assert.Equal(t, selector("tokenURI(uint256)"), msg.Data[:4])
			return pack([]string{"string"}, uri), nil
		})

	metadata, err := client.ReadCardMetadata(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "Alice", metadata.Nickname)
	assert.Equal(t, "Builder", metadata.Role)
	assert.Equal(t, "hi", metadata.Bio)
	assert.Equal(t, "ipfs://bafyimage", metadata.ImageURI)
	assert.Equal(t, []domain.SocialEntry{
		{Key: "github", Value: "alice-gh"},
		{Key: "twitter", Value: "alice"},
	}, metadata.Socials)

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("rpc down"))
	_, err = client.ReadCardMetadata(ctx, "7")
	var transportErr *domain.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestDecodeTokenURI(t *testing.T) {
	encode := func(s string) string {
		return "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(s))
	}

	t.Run("socials object and attributes", func(t *testing.T) {
		metadata, err := ethereum.DecodeTokenURI(encode(`{"nickname":"Bob","imageUri":"ipfs://x","attributes":[{"trait_type":"Role","value":"Artist"},{"trait_type":"Level","value":3}],"socials":{"twitter":"bob"}}`))
		require.NoError(t, err)
		assert.Equal(t, "Bob", metadata.Nickname)
		assert.Equal(t, "Artist", metadata.Role)
		assert.Equal(t, "ipfs://x", metadata.ImageURI)
		assert.Equal(t, []domain.SocialEntry{{Key: "twitter", Value: "bob"}}, metadata.Socials)
	})

	t.Run("no socials", func(t *testing.T) {
		metadata, err := ethereum.DecodeTokenURI(encode(`{"nickname":"Bob"}`))
		require.NoError(t, err)
		assert.Empty(t, metadata.Socials)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := ethereum.DecodeTokenURI("ipfs://bafy/metadata.json")
		assert.ErrorIs(t, err, ethereum.ErrUnsupportedTokenURI)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ethereum.DecodeTokenURI(encode(`{"nickname":`))
		assert.Error(t, err)
	})
}

func TestCardClient_SimulateMint(t *testing.T) {
	fields := domain.CardFields{ImageURI: "ipfs://bafy", Nickname: "Alice", Role: "Builder", Bio: "hi"}

	t.Run("success", func(t *testing.T) {
		client, ethClient := newTestClient(t)
		ethClient.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, msg goethereum.CallMsg, _ *big.Int) ([]byte, error) {
				assert.Equal(t, common.HexToAddress(testUser), msg.From)
				assert.Equal(t, selector("mintBaseCard((string,string,string,string),string[],string[],address[])"), msg.Data[:4])
				return nil, nil
			})

		err := client.SimulateMint(context.Background(), testUser, fields, []string{"twitter"}, []string{"alice"}, []string{"0x00000000000000000000000000000000000000bb"})
		assert.NoError(t, err)
	})

	t.Run("revert with reason string", func(t *testing.T) {
		client, ethClient := newTestClient(t)
		data := append(selector("Error(string)"), pack([]string{"string"}, "already minted")...)
		ethClient.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(nil, &revertRPCError{data: "0x" + common.Bytes2Hex(data)})

		err := client.SimulateMint(context.Background(), testUser, fields, nil, nil, nil)
		var reverted *domain.SimulationRevertedError
		require.ErrorAs(t, err, &reverted)
		assert.Equal(t, "mintBaseCard", reverted.Method)
		assert.Equal(t, "already minted", reverted.Reason)
	})

	t.Run("revert message without data", func(t *testing.T) {
		client, ethClient := newTestClient(t)
		ethClient.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(nil, errors.New("execution reverted: nickname too long"))

		err := client.SimulateMint(context.Background(), testUser, fields, nil, nil, nil)
		var reverted *domain.SimulationRevertedError
		require.ErrorAs(t, err, &reverted)
		assert.Equal(t, "nickname too long", reverted.Reason)
	})

	t.Run("transport failure", func(t *testing.T) {
		client, ethClient := newTestClient(t)
		ethClient.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(nil, errors.New("dial tcp: connection refused"))

		err := client.SimulateMint(context.Background(), testUser, fields, nil, nil, nil)
		var transportErr *domain.TransportError
		assert.ErrorAs(t, err, &transportErr)
	})

	t.Run("invalid delegate", func(t *testing.T) {
		client, _ := newTestClient(t)
		err := client.SimulateMint(context.Background(), testUser, fields, nil, nil, []string{"0x123"})
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	})
}

func TestCardClient_SimulateEdit_CustomError(t *testing.T) {
	client, ethClient := newTestClient(t)
	data := append(selector("NotTokenOwner(uint256,address)"),
		pack([]string{"uint256", "address"}, big.NewInt(7), common.HexToAddress(testUser))...)

	ethClient.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg goethereum.CallMsg, _ *big.Int) ([]byte, error) {
			assert.Equal(t, selector("editBaseCard(uint256,(string,string,string,string),string[],string[])"), msg.Data[:4])
			return nil, &revertRPCError{data: "0x" + common.Bytes2Hex(data)}
		})

	err := client.SimulateEdit(context.Background(), testUser, "7", domain.CardFields{Nickname: "Alice"}, []string{"twitter"}, []string{""})
	var reverted *domain.SimulationRevertedError
	require.ErrorAs(t, err, &reverted)
	assert.Equal(t, "editBaseCard", reverted.Method)
	assert.Equal(t, "NotTokenOwner(7, "+testUser+")", reverted.Reason)
}

func TestCardClient_ParseLog(t *testing.T) {
	client, _ := newTestClient(t)
	tokenTopic := common.BigToHash(big.NewInt(7))
	userTopic := common.BytesToHash(common.HexToAddress(testUser).Bytes())

	tests := []struct {
		name     string
		log      types.Log
		expected domain.EventArgs
	}{
		{
			name: "mint",
			log: types.Log{
				Topics: []common.Hash{crypto.Keccak256Hash([]byte("MintBaseCard(address,uint256)")), userTopic, tokenTopic},
			},
			expected: domain.MintCardArgs{User: testUser, TokenID: "7"},
		},
		{
			name: "social linked",
			log: types.Log{
				Topics: []common.Hash{crypto.Keccak256Hash([]byte("SocialLinked(uint256,string,string)")), tokenTopic},
				Data:   pack([]string{"string", "string"}, "twitter", "alice"),
			},
			expected: domain.SocialLinkedArgs{TokenID: "7", Key: "twitter", Value: "alice"},
		},
		{
			name: "social unlinked",
			log: types.Log{
				Topics: []common.Hash{crypto.Keccak256Hash([]byte("SocialUnlinked(uint256,string)")), tokenTopic},
				Data:   pack([]string{"string"}, "twitter"),
			},
			expected: domain.SocialUnlinkedArgs{TokenID: "7", Key: "twitter"},
		},
		{
			name: "card edited",
			log: types.Log{
				Topics: []common.Hash{crypto.Keccak256Hash([]byte("BaseCardEdited(uint256)")), tokenTopic},
			},
			expected: domain.CardEditedArgs{TokenID: "7"},
		},
		{
			name: "transfer",
			log: types.Log{
				Topics: []common.Hash{
					crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")),
					common.Hash{},
					userTopic,
					tokenTopic,
				},
			},
			expected: domain.TransferArgs{From: domain.ETHEREUM_ZERO_ADDRESS, To: testUser, TokenID: "7"},
		},
		{
			name: "delegate granted",
			log: types.Log{
				Topics: []common.Hash{crypto.Keccak256Hash([]byte("DelegateGranted(uint256,address)")), tokenTopic, userTopic},
			},
			expected: domain.DelegateGrantedArgs{TokenID: "7", Delegate: testUser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := client.ParseLog(tt.log)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, args)
		})
	}

	t.Run("unknown topic", func(t *testing.T) {
		topic := crypto.Keccak256Hash([]byte("Approval(address,address,uint256)"))
		args, err := client.ParseLog(types.Log{Topics: []common.Hash{topic}, Data: []byte{0x01}})
		require.NoError(t, err)
		unknown, ok := args.(domain.UnknownArgs)
		require.True(t, ok)
		assert.Equal(t, topic.Hex(), unknown.Topic)
		assert.Equal(t, "0x01", unknown.Values["data"])
	})

	t.Run("missing topics", func(t *testing.T) {
		_, err := client.ParseLog(types.Log{
			Topics: []common.Hash{crypto.Keccak256Hash([]byte("BaseCardEdited(uint256)"))},
		})
		assert.Error(t, err)
	})

	t.Run("no topics", func(t *testing.T) {
		_, err := client.ParseLog(types.Log{})
		assert.Error(t, err)
	})
}

func TestCardClient_TxReceipt(t *testing.T) {
	client, ethClient := newTestClient(t)
	ctx := context.Background()
	hash := common.HexToHash("0xabc")
	to := common.HexToAddress(testContract)
	tx := types.NewTx(&types.LegacyTx{To: &to})

	ethClient.EXPECT().TransactionReceipt(gomock.Any(), hash).Return(&types.Receipt{GasUsed: 21000, Status: 1, TransactionIndex: 2}, nil)
	ethClient.EXPECT().TransactionByHash(gomock.Any(), hash).Return(tx, false, nil)
	ethClient.EXPECT().TransactionSender(gomock.Any(), tx, common.Hash{}, uint(2)).Return(common.HexToAddress(testUser), nil)

	receipt, err := client.TxReceipt(ctx, hash.Hex())
	require.NoError(t, err)
	assert.Equal(t, &domain.TxReceipt{From: testUser, To: testContract, GasUsed: 21000, Status: 1}, receipt)
}
