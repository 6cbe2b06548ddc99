// Package envelope builds the JSON structure published to the broker:
// { headers, body, received_at }. Envelopes are ephemeral, constructed per
// request and never stored.
package envelope

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the wire shape published to the broker.
type Envelope struct {
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"body"`
	ReceivedAt string            `json:"received_at"`
}

// HeadersFromRequest flattens an http.Header into string->string, taking
// the last value for any header that repeats.
func HeadersFromRequest(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) == 0 {
			continue
		}
		out[name] = values[len(values)-1]
	}
	return out
}

// ParseBody attempts to decode raw as JSON; on failure it substitutes
// {"raw": "<raw as text>"} so the envelope always carries a JSON body.
func ParseBody(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	return v
}

// New builds an envelope. receivedAt must be captured at pipeline entry
// (before filter evaluation), never at publish time.
func New(headers http.Header, body any, receivedAt time.Time) Envelope {
	return Envelope{
		Headers:    HeadersFromRequest(headers),
		Body:       body,
		ReceivedAt: receivedAt.UTC().Format(time.RFC3339),
	}
}

// Marshal renders the envelope as the UTF-8 JSON bytes published to the
// broker.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
