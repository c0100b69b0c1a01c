package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loyalty-ledger/pkg/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestHub(buffer int) *Hub {
	cfg := &config.Config{}
	cfg.Notifier.BufferSize = buffer
	return NewHub(cfg)
}

func TestHubDeliversPointsUpdate(t *testing.T) {
	hub := newTestHub(4)

	ch, cancel := hub.Subscribe("user123")
	defer cancel()

	hub.PointsUpdated("user123", 415)

	select {
	case msg := <-ch:
		require.Equal(t, EventPointsUpdated, msg.Event)
		update, ok := msg.Data.(PointsUpdate)
		require.True(t, ok)
		require.Equal(t, "user123", update.UserID)
		require.Equal(t, int64(415), update.TotalPoints)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestHubDeliversRedemption(t *testing.T) {
	hub := newTestHub(4)

	ch, cancel := hub.Subscribe("user123")
	defer cancel()

	event := RedemptionEvent{
		ID:              "red-1",
		PointsRedeemed:  400,
		RewardType:      "cashback",
		Timestamp:       time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		RemainingPoints: 15,
	}
	hub.RewardRedeemed("user123", event)

	select {
	case msg := <-ch:
		require.Equal(t, EventRewardRedeemed, msg.Event)
		redemption, ok := msg.Data.(RewardRedemption)
		require.True(t, ok)
		require.Equal(t, "user123", redemption.UserID)
		require.Equal(t, event, redemption.Reward)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestHubIsolatesUsers(t *testing.T) {
	hub := newTestHub(4)

	ch123, cancel123 := hub.Subscribe("user123")
	defer cancel123()
	ch456, cancel456 := hub.Subscribe("user456")
	defer cancel456()

	hub.PointsUpdated("user123", 100)

	select {
	case <-ch123:
	case <-time.After(time.Second):
		t.Fatal("subscriber for user123 received nothing")
	}

	select {
	case msg := <-ch456:
		t.Fatalf("subscriber for user456 received %v", msg)
	default:
	}
}

func TestHubFanOut(t *testing.T) {
	hub := newTestHub(4)

	ch1, cancel1 := hub.Subscribe("user123")
	defer cancel1()
	ch2, cancel2 := hub.Subscribe("user123")
	defer cancel2()

	hub.PointsUpdated("user123", 50)

	for _, ch := range []<-chan Message{ch1, ch2} {
		select {
		case msg := <-ch:
			require.Equal(t, EventPointsUpdated, msg.Event)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed fan-out")
		}
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := newTestHub(1)

	ch, cancel := hub.Subscribe("user123")
	defer cancel()

	// second publish must not block even though nobody is draining
	hub.PointsUpdated("user123", 1)
	hub.PointsUpdated("user123", 2)

	msg := <-ch
	update, ok := msg.Data.(PointsUpdate)
	require.True(t, ok)
	require.Equal(t, int64(1), update.TotalPoints)

	select {
	case msg := <-ch:
		t.Fatalf("expected drop, received %v", msg)
	default:
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := newTestHub(4)

	ch, cancel := hub.Subscribe("user123")
	cancel()
	cancel() // idempotent

	_, open := <-ch
	require.False(t, open)

	// publishing after cancel must not panic on a closed channel
	hub.PointsUpdated("user123", 10)
}
