package notify

import (
	"context"
	"time"

	"geekplay/pkg/logger"
)

// Publisher is satisfied by *queue.Client.
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// QueueDispatcher publishes the same JSON payload to RabbitMQ instead of
// calling the notification service directly.
type QueueDispatcher struct {
	*async
}

func NewQueueDispatcher(publisher Publisher, timeout time.Duration, log *logger.Logger) *QueueDispatcher {
	return &QueueDispatcher{
		async: newAsync("rabbitmq", timeout, log, publisher.Publish),
	}
}

func (d *QueueDispatcher) Dispatch(userID int64, kind Kind, title, message string) {
	d.dispatch(Notification{UserID: userID, Kind: kind, Title: title, Message: message})
}
