package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Postmaster-Live/postmaster/internal/envelope"
	"github.com/Postmaster-Live/postmaster/internal/filter"
	"github.com/Postmaster-Live/postmaster/internal/handlerid"
	"github.com/Postmaster-Live/postmaster/internal/route"
	"github.com/Postmaster-Live/postmaster/internal/signature"
	"github.com/Postmaster-Live/postmaster/internal/state"
)

// maxWebhookBodyBytes bounds an inbound webhook body.
const maxWebhookBodyBytes = 5 << 20 // 5MB

type webhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WebhookHandler handles POST /handler/{id}: the per-request pipeline —
// lookup, optional per-handler signature check, JSON parse, filter,
// route, envelope, publish.
func WebhookHandler(st *state.State, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			WriteMethodNotAllowed(w)
			return
		}

		receivedAt := time.Now()

		id, err := handlerid.Parse(r.PathValue("id"))
		if err != nil {
			WriteNotFound(w, "handler not found")
			return
		}

		entry, ok := st.Table.Get(id)
		if !ok {
			WriteNotFound(w, "handler not found")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			WriteBadRequest(w, "failed to read request body")
			return
		}

		if entry.SignatureKey != "" {
			sig := r.Header.Get("x-signature")
			ts := r.Header.Get("x-timestamp")
			if sig == "" || ts == "" {
				WriteUnauthorized(w, "missing signature headers")
				return
			}
			valid, err := signature.Verify(entry.SignatureKey, ts, body, sig)
			if err != nil || !valid {
				log.Warn("webhook: signature verification failed", "handler_id", id)
				WriteUnauthorized(w, "invalid signature")
				return
			}
		}

		parsedBody := envelope.ParseBody(body)

		if len(entry.Filters) > 0 {
			pass, err := filter.ShouldProcess(parsedBody, entry.Filters)
			if err != nil {
				log.Error("webhook: filter evaluation error", "handler_id", id, "error", err)
				WriteInternal(w, "filter evaluation error")
				return
			}
			if !pass {
				log.Debug("webhook: event filtered out", "handler_id", id)
				writeJSON(w, http.StatusOK, webhookResponse{
					Success: true,
					Message: "Event filtered, not sent to Kafka",
				})
				return
			}
		}

		topic := entry.Topic
		if len(entry.Routes) > 0 {
			routedTopic, matched, err := route.Resolve(parsedBody, entry.Routes)
			if err != nil {
				log.Error("webhook: routing error", "handler_id", id, "error", err)
				WriteInternal(w, "routing error")
				return
			}
			if matched {
				topic = routedTopic
			}
		}

		env := envelope.New(r.Header, parsedBody, receivedAt)
		payload, err := env.Marshal()
		if err != nil {
			log.Error("webhook: failed to marshal envelope", "handler_id", id, "error", err)
			WriteInternal(w, "failed to build message")
			return
		}

		if err := st.Gateway.Publish(r.Context(), topic, id.String(), payload); err != nil {
			log.Error("webhook: publish failed", "handler_id", id, "topic", topic, "error", err)
			WriteInternal(w, "failed to publish event")
			return
		}

		log.Info("webhook: published", "handler_id", id, "topic", topic)
		writeJSON(w, http.StatusOK, webhookResponse{
			Success: true,
			Message: "Webhook sent to topic: " + topic,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
