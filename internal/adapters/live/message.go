package live

import (
	"encoding/json"

	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

const ActionResults = "results"

// Message is the envelope pushed to websocket subscribers.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

func NewResultsMessage(question *domain.Question) ([]byte, error) {
	return json.Marshal(Message{Action: ActionResults, Payload: question})
}
