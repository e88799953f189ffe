package catalog

import (
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/talkincode/productdesk/internal/domain"
)

// NotificationTopic is the bus topic notifications are published on
const NotificationTopic = "catalog:notification"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient user-facing message
type Notification struct {
	Level   Level            `json:"level"`
	Code    domain.ErrorCode `json:"code,omitempty"`
	Message string           `json:"message"`
	At      time.Time        `json:"at"`
}

// Notifier delivers notifications to whatever surface is showing them
type Notifier interface {
	Notify(n Notification)
}

// BusNotifier publishes notifications on an EventBus
type BusNotifier struct {
	bus EventBus.Bus
}

func NewBusNotifier(bus EventBus.Bus) *BusNotifier {
	if bus == nil {
		bus = EventBus.New()
	}
	return &BusNotifier{bus: bus}
}

func (b *BusNotifier) Notify(n Notification) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	b.bus.Publish(NotificationTopic, n)
}

// Subscribe registers fn for every notification. The returned func
// removes the subscription.
func (b *BusNotifier) Subscribe(fn func(Notification)) (func(), error) {
	if err := b.bus.Subscribe(NotificationTopic, fn); err != nil {
		return nil, err
	}
	return func() { _ = b.bus.Unsubscribe(NotificationTopic, fn) }, nil
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

func success(msg string) Notification {
	return Notification{Level: LevelSuccess, Message: msg, At: time.Now()}
}

func failure(err error) Notification {
	return Notification{
		Level:   LevelError,
		Code:    domain.CodeOf(err),
		Message: domain.MessageOf(err),
		At:      time.Now(),
	}
}
