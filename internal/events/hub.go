// Package events implements the session-scoped progress broadcast hub.
// Clients subscribe to a channel named "session-<sessionId>"; holding the
// session identifier is the only access control. Events are fire-and-forget:
// there is no replay for late subscribers and no backlog.
package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Wire event names, matching what gallery clients listen for.
const (
	EventJoinedSession    = "joinedSession"
	EventUploadProgress   = "uploadProgress"
	EventFileProcessed    = "fileProcessed"
	EventSessionCompleted = "sessionCompleted"
)

// SessionChannel returns the channel name for a session identifier.
func SessionChannel(sessionID string) string {
	return "session-" + sessionID
}

// Envelope is the JSON frame written to subscribers.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Subscriber is one websocket connection joined to a channel. Writes are
// serialized per connection; gorilla/websocket allows only one concurrent
// writer.
type Subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *Subscriber) send(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

// Hub is the process-wide connection registry. Create one at service start
// and inject it wherever events are emitted.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{channels: make(map[string]map[*Subscriber]struct{})}
}

// Join registers conn on channel and acknowledges with a joinedSession
// frame.
func (h *Hub) Join(channel string, conn *websocket.Conn) *Subscriber {
	sub := &Subscriber{conn: conn}

	h.mu.Lock()
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[*Subscriber]struct{})
		h.channels[channel] = subs
	}
	subs[sub] = struct{}{}
	h.mu.Unlock()

	log.Printf("events: subscriber joined channel %s", channel)
	if frame, err := json.Marshal(Envelope{Event: EventJoinedSession, Data: map[string]string{"channel": channel}}); err == nil {
		if err := sub.send(frame); err != nil {
			log.Printf("events: failed to ack join on %s: %v", channel, err)
		}
	}
	return sub
}

// Leave removes sub from channel. Safe to call after the connection is
// closed.
func (h *Hub) Leave(channel string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.channels[channel]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.channels, channel)
	}
	log.Printf("events: subscriber left channel %s", channel)
}

// Emit delivers one event to every current subscriber of channel. The
// member set is snapshotted under the read lock, so a join racing the
// broadcast neither drops nor duplicates a delivery for this event. Write
// failures are logged; the failing subscriber's read loop tears the
// connection down.
func (h *Hub) Emit(channel, event string, payload any) {
	frame, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		log.Printf("events: failed to marshal %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.channels[channel]))
	for sub := range h.channels[channel] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.send(frame); err != nil {
			log.Printf("events: failed to send %s on %s: %v", event, channel, err)
		}
	}
}

// SubscriberCount reports the current membership of channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}
