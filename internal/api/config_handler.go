package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/Postmaster-Live/postmaster/internal/crd"
	"github.com/Postmaster-Live/postmaster/internal/filter"
	"github.com/Postmaster-Live/postmaster/internal/handlerid"
	"github.com/Postmaster-Live/postmaster/internal/route"
	"github.com/Postmaster-Live/postmaster/internal/signature"
	"github.com/Postmaster-Live/postmaster/internal/state"
)

// maxConfigBodyBytes bounds the /config request body.
const maxConfigBodyBytes = 1 << 20 // 1MB

// configRequest is the body accepted by POST /config.
type configRequest struct {
	Topic        string          `json:"topic"`
	SignatureKey string          `json:"signature_key,omitempty"`
	Filters      []filter.Filter `json:"filters,omitempty"`
	Routes       []route.Route   `json:"routes,omitempty"`
}

type configResponse struct {
	HandlerID  string `json:"handler_id"`
	WebhookURL string `json:"webhook_url"`
}

// ConfigHandler handles POST /config: admin-authenticated creation of a
// handler resource. The routing table is populated asynchronously by the
// reconciler; this endpoint does not wait for it.
func ConfigHandler(st *state.State, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			WriteMethodNotAllowed(w)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxConfigBodyBytes)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			WriteBadRequest(w, "failed to read request body")
			return
		}

		if !verifyAdminSignature(st.APISigningKey, r.Header, body) {
			WriteUnauthorized(w, "invalid or missing signature")
			return
		}

		var req configRequest
		if err := json.Unmarshal(body, &req); err != nil || req.Topic == "" {
			WriteBadRequest(w, "invalid request body")
			return
		}

		id := handlerid.New()
		resourceName := handlerid.ResourceName(id)
		webhookURL := st.ExternalURL + "/handler/" + id.String()

		handler := &crd.WebhookHandler{
			ObjectMeta: objectMeta(resourceName, st.Namespace),
			Spec: crd.WebhookHandlerSpec{
				Topic:        req.Topic,
				SignatureKey: req.SignatureKey,
				Filters:      req.Filters,
				Routes:       req.Routes,
			},
			Status: crd.WebhookHandlerStatus{
				HandlerURL: webhookURL,
				Ready:      true,
			},
		}

		if _, err := st.CRDClient.Create(r.Context(), handler); err != nil {
			log.Error("config: failed to create handler resource", "error", err)
			WriteInternal(w, "failed to create handler")
			return
		}

		log.Info("config: created handler", "handler_id", id, "topic", req.Topic)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(configResponse{
			HandlerID:  id.String(),
			WebhookURL: webhookURL,
		})
	}
}

func verifyAdminSignature(signingKey string, header http.Header, body []byte) bool {
	sig := header.Get("x-signature")
	ts := header.Get("x-timestamp")
	if sig == "" || ts == "" {
		return false
	}
	ok, err := signature.Verify(signingKey, ts, body, sig)
	return err == nil && ok
}
