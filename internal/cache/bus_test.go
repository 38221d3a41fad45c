package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/cache"
	"github.com/feral-file/ff-card-indexer/internal/mocks"
)

func TestInvalidationBus_Broadcast(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockNatsConn(ctrl)
	bus := cache.NewInvalidationBus(conn, "", adapter.NewJSON())

	conn.EXPECT().
		Publish(cache.DefaultInvalidationSubject, gomock.Any()).
		DoAndReturn(func(_ string, data []byte) error {
			var msg map[string]string
			require.NoError(t, json.Unmarshal(data, &msg))
			assert.Equal(t, "card-1", msg["cardId"])
			assert.Equal(t, bus.Origin(), msg["origin"])
			return nil
		})

	require.NoError(t, bus.Broadcast("card-1"))
}

func TestInvalidationBus_Listen(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockNatsConn(ctrl)
	sub := mocks.NewMockNatsSubscription(ctrl)
	target := mocks.NewMockReadCache(ctrl)
	bus := cache.NewInvalidationBus(conn, "cards.invalidate", adapter.NewJSON())
	ctx := context.Background()

	var deliver func([]byte)
	conn.EXPECT().
		Subscribe("cards.invalidate", gomock.Any()).
		DoAndReturn(func(_ string, handler func([]byte)) (adapter.NatsSubscription, error) {
			deliver = handler
			return sub, nil
		})

	got, err := bus.Listen(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, sub, got)

	// a peer's change is applied
	target.EXPECT().ApplyRemoteInvalidation(ctx, "card-1").Return(nil)
	deliver([]byte(`{"cardId":"card-1","origin":"peer"}`))

	// our own echo and garbage are ignored
	deliver([]byte(`{"cardId":"card-2","origin":"` + bus.Origin() + `"}`))
	deliver([]byte(`not json`))
}

func TestInvalidationBus_ListenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockNatsConn(ctrl)
	bus := cache.NewInvalidationBus(conn, "", adapter.NewJSON())

	conn.EXPECT().Subscribe(cache.DefaultInvalidationSubject, gomock.Any()).Return(nil, errors.New("no responders"))
	_, err := bus.Listen(context.Background(), mocks.NewMockReadCache(ctrl))
	assert.Error(t, err)
}
