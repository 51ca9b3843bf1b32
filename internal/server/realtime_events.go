package server

import (
	"context"
	"encoding/json"
	"log"

	"ripple/internal/middleware"
)

// Feed event types published on mutations.
const (
	EventPostCreated     = "post.created"
	EventCommentCreated  = "comment.created"
	EventReactionUpdated = "reaction.updated"
)

// publishBroadcastEvent fans a feed event out to this process's WebSocket
// clients and, when Redis is available, to every other server process.
// Event delivery is best-effort; failures never affect the HTTP response.
func (s *Server) publishBroadcastEvent(eventType string, payload map[string]interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)

	middleware.BroadcastEvents.WithLabelValues(eventType).Inc()

	if s.hub != nil {
		s.hub.BroadcastAll(message)
	}
	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.Background(), message); err != nil {
			log.Printf("failed to publish %s event: %v", eventType, err)
		}
	}
}
