package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewErrorMessage encodes an error notification for a client.
func NewErrorMessage(detail string) []byte {
	msg, _ := json.Marshal(Message{Action: "error", Payload: detail})
	return msg
}
