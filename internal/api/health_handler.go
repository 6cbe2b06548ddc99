package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Postmaster-Live/postmaster/internal/state"
)

// readinessTimeout bounds how long /ready waits on its dependency checks.
const readinessTimeout = 2 * time.Second

type healthResponse struct {
	Status         string `json:"status"`
	Kafka          string `json:"kafka,omitempty"`
	Kubernetes     string `json:"kubernetes,omitempty"`
	HandlersLoaded *int   `json:"handlers_loaded,omitempty"`
}

// HealthHandler handles GET /health: a trivial liveness probe, independent
// of any dependency state.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
	}
}

// ReadyHandler handles GET /ready: 200 when the broker and cluster API are
// both reachable within readinessTimeout, else 503 with per-dependency
// detail.
func ReadyHandler(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		kafkaStatus, kafkaOK := checkKafka(ctx, st)
		k8sStatus, k8sOK := checkKubernetes(ctx, st)
		ready := kafkaOK && k8sOK

		status := http.StatusOK
		statusText := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			statusText = "not_ready"
		}

		handlersLoaded := st.Table.Len()
		writeJSON(w, status, healthResponse{
			Status:         statusText,
			Kafka:          kafkaStatus,
			Kubernetes:     k8sStatus,
			HandlersLoaded: &handlersLoaded,
		})
	}
}

func checkKafka(ctx context.Context, st *state.State) (string, bool) {
	if err := st.Gateway.CheckConnection(ctx); err != nil {
		return "unreachable: " + err.Error(), false
	}
	return "connected", true
}

func checkKubernetes(ctx context.Context, st *state.State) (string, bool) {
	if _, err := st.CRDClient.List(ctx); err != nil {
		return "unreachable: " + err.Error(), false
	}
	return "connected", true
}
