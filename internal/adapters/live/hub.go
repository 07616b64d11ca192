// Package live pushes poll results to browsers over websockets.
package live

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

var ErrHubClosed = errors.New("live hub is not running")

type publication struct {
	questionID uuid.UUID
	message    []byte
}

// Hub tracks subscribers per question. All state is owned by the Run loop;
// other goroutines talk to it through channels only.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	publish    chan publication
	done       chan struct{}

	subscriptions map[uuid.UUID]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		publish:       make(chan publication, 16),
		done:          make(chan struct{}),
		subscriptions: make(map[uuid.UUID]map[*Client]bool),
	}
}

// Run processes registrations and broadcasts until ctx is canceled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, subs := range h.subscriptions {
				for client := range subs {
					close(client.send)
				}
			}
			h.subscriptions = make(map[uuid.UUID]map[*Client]bool)
			return

		case client := <-h.register:
			if h.subscriptions[client.questionID] == nil {
				h.subscriptions[client.questionID] = make(map[*Client]bool)
			}
			h.subscriptions[client.questionID][client] = true
			log.Debug().Str("question_id", client.questionID.String()).Int("subscribers", len(h.subscriptions[client.questionID])).Msg("live client connected")

		case client := <-h.unregister:
			h.remove(client)

		case p := <-h.publish:
			for client := range h.subscriptions[p.questionID] {
				select {
				case client.send <- p.message:
				default:
					// Slow consumer.
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	subs, ok := h.subscriptions[client.questionID]
	if !ok || !subs[client] {
		return
	}
	delete(subs, client)
	close(client.send)
	if len(subs) == 0 {
		delete(h.subscriptions, client.questionID)
	}
	log.Debug().Str("question_id", client.questionID.String()).Msg("live client disconnected")
}

// PublishResults implements ports.ResultsPublisher.
func (h *Hub) PublishResults(ctx context.Context, question *domain.Question) error {
	msg, err := NewResultsMessage(question)
	if err != nil {
		return err
	}

	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	select {
	case h.publish <- publication{questionID: question.ID, message: msg}:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
