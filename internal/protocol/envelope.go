package protocol

import (
	"encoding/json"
	"errors"
)

var (
	ErrMalformed = errors.New("failed to parse message")
	ErrEnvelope  = errors.New("message missing required fields (role, type, payload)")
)

// Envelope is the outer object wrapping every wire message in both
// directions: {"role": ..., "type": ..., "payload": {...}}.
type Envelope struct {
	Role    string
	Type    string
	Payload map[string]any
}

// parseEnvelope decodes a single line into a validated envelope. All three
// top-level keys must be present, role and type must be strings and payload
// must be an object.
func parseEnvelope(line string) (Envelope, error) {
	var message map[string]any
	if err := json.Unmarshal([]byte(line), &message); err != nil {
		return Envelope{}, errors.Join(err, ErrMalformed)
	}

	role, okRole := message["role"].(string)
	msgType, okType := message["type"].(string)
	payload, okPayload := message["payload"].(map[string]any)
	if !okRole || !okType || !okPayload {
		return Envelope{}, ErrEnvelope
	}

	return Envelope{Role: role, Type: msgType, Payload: payload}, nil
}
