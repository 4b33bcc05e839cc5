// Package notify delivers best-effort notifications to the platform's
// notification service. Dispatch never blocks and never reports an error
// to its caller; outcomes are only logged and counted.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"geekplay/pkg/logger"
	"geekplay/pkg/metrics"
)

type Kind string

const (
	KindWelcome Kind = "BIENVENIDA"
	KindComment Kind = "COMENTARIO"
)

const DefaultTimeout = 5 * time.Second

// Notification is the wire payload understood by the notification service.
// The field set and names are fixed.
type Notification struct {
	UserID  int64  `json:"userId"`
	Kind    Kind   `json:"tipo"`
	Title   string `json:"titulo"`
	Message string `json:"mensaje"`
}

type Dispatcher interface {
	Dispatch(userID int64, kind Kind, title, message string)
}

// DrainingDispatcher can wait for in-flight deliveries, e.g. on shutdown.
type DrainingDispatcher interface {
	Dispatcher
	Wait()
}

const (
	TransportHTTP     = "http"
	TransportRabbitMQ = "rabbitmq"
)

// New picks the transport named by transport. RabbitMQ needs a non-nil
// publisher; without one the HTTP transport is used.
func New(transport string, httpCfg HTTPConfig, publisher Publisher, log *logger.Logger) DrainingDispatcher {
	if transport == TransportRabbitMQ {
		if publisher != nil {
			log.Info("[NOTIFICATION] Using RabbitMQ transport")
			return NewQueueDispatcher(publisher, httpCfg.Timeout, log)
		}
		log.Warn("[NOTIFICATION] RabbitMQ transport requested but no queue connection, falling back to HTTP")
	}
	log.Info("[NOTIFICATION] Using HTTP transport: %s", httpCfg.URL)
	return NewHTTPDispatcher(httpCfg, nil, log)
}

// StatusError is returned by a transport when the remote side answered with
// a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("notification service responded with status %d", e.Code)
}

// sendFunc delivers one encoded payload within ctx.
type sendFunc func(ctx context.Context, body []byte) error

// async runs each delivery on its own goroutine with a detached, bounded
// context. Deliveries share nothing but the WaitGroup.
type async struct {
	transport string
	timeout   time.Duration
	logger    *logger.Logger
	send      sendFunc
	wg        sync.WaitGroup
}

func newAsync(transport string, timeout time.Duration, log *logger.Logger, send sendFunc) *async {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &async{
		transport: transport,
		timeout:   timeout,
		logger:    log,
		send:      send,
	}
}

func (a *async) dispatch(n Notification) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.deliver(n)
	}()
}

func (a *async) deliver(n Notification) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("[NOTIFICATION] Panic while sending %s notification to user %d via %s: %v", n.Kind, n.UserID, a.transport, rec)
			metrics.ObserveNotification(string(n.Kind), metrics.OutcomeFailed)
		}
	}()

	body, err := json.Marshal(n)
	if err != nil {
		a.logger.Error("[NOTIFICATION] Failed to build %s notification for user %d: %v", n.Kind, n.UserID, err)
		metrics.ObserveNotification(string(n.Kind), metrics.OutcomeFailed)
		return
	}

	a.logger.Info("[NOTIFICATION] Sending %s notification to user %d via %s", n.Kind, n.UserID, a.transport)

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.send(ctx, body); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			a.logger.Warn("[NOTIFICATION] %s notification to user %d rejected: status %d", n.Kind, n.UserID, statusErr.Code)
			metrics.ObserveNotification(string(n.Kind), metrics.OutcomeRejected)
			return
		}
		a.logger.Error("[NOTIFICATION] Failed to send %s notification to user %d: %v", n.Kind, n.UserID, err)
		metrics.ObserveNotification(string(n.Kind), metrics.OutcomeFailed)
		return
	}

	a.logger.Info("[NOTIFICATION] %s notification delivered to user %d", n.Kind, n.UserID)
	metrics.ObserveNotification(string(n.Kind), metrics.OutcomeDelivered)
}

// Wait blocks until every dispatch started so far has finished.
func (a *async) Wait() {
	a.wg.Wait()
}

// Nop drops every notification. Used when no transport is configured.
type Nop struct{}

func (Nop) Dispatch(int64, Kind, string, string) {}

func (Nop) Wait() {}
