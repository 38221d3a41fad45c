package indexer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/indexer"
	"github.com/feral-file/ff-card-indexer/internal/mocks"
	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

func mintRow() *schema.ChainEvent {
	from := ownerAddr
	status := uint64(1)
	return &schema.ChainEvent{
		ID:          5,
		TxHash:      "0xabc",
		LogIndex:    1,
		BlockNumber: 100,
		EventName:   domain.EventMintCard,
		Args:        datatypes.JSON(`{"tokenId":"7","user":"` + ownerAddr + `"}`),
		TxFrom:      &from,
		TxStatus:    &status,
	}
}

func TestToDomainEvent(t *testing.T) {
	event, err := indexer.ToDomainEvent(mintRow(), adapter.NewJSON())
	require.NoError(t, err)

	assert.Equal(t, domain.MintCardArgs{User: ownerAddr, TokenID: "7"}, event.Args)
	assert.Equal(t, domain.EventMintCard, event.Name())
	assert.Equal(t, ownerAddr, event.TxFrom)
	assert.Equal(t, uint64(1), event.TxStatus)
	assert.Empty(t, event.TxTo)

	_, err = indexer.ToDomainEvent(&schema.ChainEvent{EventName: domain.EventMintCard, Args: datatypes.JSON(`[1]`)}, adapter.NewJSON())
	assert.Error(t, err)
}

func TestProcessor_Process(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	p := indexer.NewProcessor(st, dispatcher, adapter.NewJSON(), nil)
	ctx := context.Background()

	dispatcher.EXPECT().Handles(domain.EventMintCard).Return(true)
	assert.True(t, p.Handles(domain.EventMintCard))

	dispatcher.EXPECT().Names().Return([]domain.EventName{domain.EventCardEdited, domain.EventMintCard})
	assert.Equal(t, []domain.EventName{domain.EventCardEdited, domain.EventMintCard}, p.Names())

	gomock.InOrder(
		dispatcher.EXPECT().Dispatch(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, event *domain.ChainEvent) error {
			assert.Equal(t, uint64(5), event.ID)
			assert.Equal(t, domain.MintCardArgs{User: ownerAddr, TokenID: "7"}, event.Args)
			return nil
		}),
		st.EXPECT().MarkChainEventProcessed(ctx, uint64(5)).Return(nil),
	)
	require.NoError(t, p.Process(ctx, mintRow()))
}

func TestProcessor_HandlerFailureLeavesEventUnprocessed(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	p := indexer.NewProcessor(st, dispatcher, adapter.NewJSON(), nil)

	cause := errors.New("metadata unavailable")
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(cause)

	err := p.Process(context.Background(), mintRow())

	var procErr *domain.EventProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, domain.EventMintCard, procErr.Event)
	assert.Equal(t, "0xabc", procErr.TxHash)
	assert.Equal(t, uint(1), procErr.LogIndex)
	assert.ErrorIs(t, err, cause)
}

func TestProcessor_MarkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	dispatcher := mocks.NewMockDispatcher(ctrl)
	p := indexer.NewProcessor(st, dispatcher, adapter.NewJSON(), nil)

	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil)
	st.EXPECT().MarkChainEventProcessed(gomock.Any(), uint64(5)).Return(errors.New("conn closed"))

	err := p.Process(context.Background(), mintRow())
	require.Error(t, err)
	var procErr *domain.EventProcessingError
	assert.False(t, errors.As(err, &procErr))
}
