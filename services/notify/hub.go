package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"loyalty-ledger/pkg/config"
)

const (
	EventPointsUpdated  = "pointsUpdated"
	EventRewardRedeemed = "rewardRedeemed"
)

// Message is one outbound event as delivered to a subscriber.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type PointsUpdate struct {
	UserID      string `json:"userId"`
	TotalPoints int64  `json:"totalPoints"`
}

type RedemptionEvent struct {
	ID              string    `json:"id"`
	PointsRedeemed  int64     `json:"pointsRedeemed"`
	RewardType      string    `json:"rewardType"`
	Timestamp       time.Time `json:"timestamp"`
	RemainingPoints int64     `json:"remainingPoints"`
}

type RewardRedemption struct {
	UserID string          `json:"userId"`
	Reward RedemptionEvent `json:"reward"`
}

// Hub fans events out to subscribers registered per user ID. Delivery is
// at-most-once: a full subscriber buffer drops the event rather than block
// the publisher.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Message]struct{}
	buffer      int
}

func NewHub(cfg *config.Config) *Hub {
	buffer := cfg.Notifier.BufferSize
	if buffer < 1 {
		buffer = 16
	}
	return &Hub{
		subscribers: make(map[string]map[chan Message]struct{}),
		buffer:      buffer,
	}
}

// Subscribe registers a listener for one user's events. The returned cancel
// func unregisters the listener and closes its channel.
func (h *Hub) Subscribe(userID string) (<-chan Message, func()) {
	ch := make(chan Message, h.buffer)

	h.mu.Lock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan Message]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if subs, ok := h.subscribers[userID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, userID)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

func (h *Hub) PointsUpdated(userID string, totalPoints int64) {
	h.publish(userID, Message{
		Event: EventPointsUpdated,
		Data:  PointsUpdate{UserID: userID, TotalPoints: totalPoints},
	})
}

func (h *Hub) RewardRedeemed(userID string, reward RedemptionEvent) {
	h.publish(userID, Message{
		Event: EventRewardRedeemed,
		Data:  RewardRedemption{UserID: userID, Reward: reward},
	})
}

func (h *Hub) publish(userID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers[userID] {
		select {
		case ch <- msg:
		default:
			// slow subscriber, drop instead of blocking the ledger path
			zap.L().Warn("dropping notification for slow subscriber",
				zap.String("user_id", userID),
				zap.String("event", msg.Event),
			)
		}
	}
}
