package projections

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/bazaar/pkg/events"
	"github.com/ghuser/bazaar/pkg/logger"
	domainevents "github.com/ghuser/bazaar/services/marketplace/domain/events"
)

// AuditTopics are the account and category topics recorded by Audit.
var AuditTopics = []string{
	domainevents.TopicAccountCreated,
	domainevents.TopicAccountUpdated,
	domainevents.TopicAccountStatusChanged,
	domainevents.TopicCategoryCreated,
	domainevents.TopicCategoryStatusChanged,
}

// Audit logs one structured line per account or category event.
func Audit(log logger.Logger) map[string]events.Handler {
	handlers := make(map[string]events.Handler, len(AuditTopics))
	for _, topic := range AuditTopics {
		handlers[topic] = func(ctx context.Context, msg *message.Message) error {
			env, err := events.Decode[domainevents.Envelope](msg)
			if err != nil {
				return err
			}
			log.InfoContext(ctx, "marketplace event",
				"topic", topic,
				"event_id", env.EventID,
				"version", env.Version,
				"occurred_at", env.OccurredAt,
			)
			return nil
		}
	}
	return handlers
}
