package eventbus

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/annel0/arena-core/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог компонента eventbus.
// Функция неблокирующая.
func StartLoggingListener(ctx context.Context, bus EventBus) (Subscription, error) {
	log := logging.GetComponentLogger("eventbus")

	sub, err := bus.Subscribe(ctx, Filter{}, func(ctx context.Context, ev *Envelope) {
		log.WithFields(logrus.Fields{
			"event_id": ev.ID,
			"session":  ev.CorrelationID,
			"priority": ev.Priority,
			"size":     len(ev.Payload),
		}).Debugf("%s %s", ev.EventType, ev.Payload)
	})
	if err != nil {
		return nil, err
	}
	log.Info("logging listener subscribed to all events")
	return sub, nil
}
