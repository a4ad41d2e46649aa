package chat

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Cyril-dot/billionBackend/internal/common"
	"github.com/Cyril-dot/billionBackend/internal/logger"
	"github.com/Cyril-dot/billionBackend/internal/notify"
)

// Pusher fans a payload out to the live subscriptions of one side of a room.
// Delivery is best-effort per handle; the return value counts successes.
// The process-local session registry (internal/realtime.Hub) implements it.
type Pusher interface {
	Publish(roomID uint64, targetRole string, payload []byte) int
}

// Dispatcher routes an outgoing message: durable append first (authoritative,
// its errors propagate verbatim), then live push to the counterparty's handles
// and a notification job for the counterparty. Push and notification are
// observers of the append: their failures are logged and never surfaced, so a
// send succeeds exactly when the append does.
type Dispatcher struct {
	svc    *Service
	pusher Pusher
	sink   notify.Sink
}

func NewDispatcher(svc *Service, pusher Pusher, sink notify.Sink) *Dispatcher {
	return &Dispatcher{svc: svc, pusher: pusher, sink: sink}
}

func (d *Dispatcher) SendAsCustomer(ctx context.Context, customerID string, roomID uint64, content string) (*MessageView, error) {
	return d.send(ctx, roomID, RoleCustomer, customerID, content)
}

func (d *Dispatcher) SendAsMerchant(ctx context.Context, merchantID string, roomID uint64, content string) (*MessageView, error) {
	return d.send(ctx, roomID, RoleMerchant, merchantID, content)
}

func (d *Dispatcher) send(ctx context.Context, roomID uint64, senderRole, senderID, content string) (*MessageView, error) {
	msg, room, err := d.svc.append(ctx, roomID, senderRole, senderID, content)
	if err != nil {
		return nil, err
	}

	view := viewOfMessage(msg)

	targetRole := RoleMerchant
	if senderRole == RoleMerchant {
		targetRole = RoleCustomer
	}

	if payload, err := json.Marshal(view); err != nil {
		logger.Log.Error("live push payload marshal failed",
			zap.Uint64("room_id", room.ID), zap.Error(err))
	} else {
		delivered := d.pusher.Publish(room.ID, targetRole, payload)
		logger.Log.Debug("live push",
			zap.Uint64("room_id", room.ID),
			zap.String("target_role", targetRole),
			zap.Int("delivered", delivered))
	}

	// The notification fires on every send, also when the counterparty holds a
	// live subscription and already received the push. That mirrors the
	// at-least-once contract: durable append plus notification, with push as a
	// convenience accelerant.
	d.notifyCounterparty(room, msg, targetRole)

	return &view, nil
}

// notifyCounterparty submits the notification job on its own goroutine so the
// sender's response never waits on the queue.
func (d *Dispatcher) notifyCounterparty(room *Room, msg *Message, targetRole string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var (
			recipient Party
			err       error
		)
		if targetRole == RoleMerchant {
			recipient, err = d.svc.directory.Merchant(ctx, room.MerchantID)
		} else {
			recipient, err = d.svc.directory.Customer(ctx, room.CustomerID)
		}
		if err != nil {
			logger.Log.Error("notification recipient lookup failed",
				zap.Uint64("room_id", room.ID),
				zap.String("target_role", targetRole),
				zap.Error(err))
			return
		}

		// room title is the product name captured at creation
		productName := room.Title
		if p, err := d.svc.catalog.ProductSnapshot(ctx, room.ProductID); err == nil {
			productName = p.Name
		}

		jobID, err := common.NewULID()
		if err != nil {
			logger.Log.Error("notification job id", zap.Error(err))
			return
		}

		n := notify.Notification{
			JobID:       jobID,
			ToEmail:     recipient.Email,
			ToName:      recipient.Name,
			FromName:    msg.SenderName,
			ProductName: productName,
			Content:     msg.Content,
			RoomID:      room.ID,
			ToRole:      targetRole,
		}
		if err := d.sink.Submit(ctx, n); err != nil {
			logger.Log.Error("notification submit failed",
				zap.String("job_id", jobID),
				zap.Uint64("room_id", room.ID),
				zap.Error(err))
		}
	}()
}
