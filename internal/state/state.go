// Package state bundles the shared handle every HTTP request reads from:
// the routing table, the publish gateway, the admin signing key, the
// cluster namespace, and the external base URL used to compose webhook
// URLs.
package state

import (
	"context"

	"github.com/Postmaster-Live/postmaster/internal/crd"
	"github.com/Postmaster-Live/postmaster/internal/routingtable"
)

// Gateway is the publish dependency a handler needs: send an event, and
// probe broker reachability for readiness. *publish.Gateway satisfies
// this; tests substitute a fake.
type Gateway interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
	CheckConnection(ctx context.Context) error
}

// CRDClient is the cluster-API dependency a handler needs: create a
// handler resource, and list them for readiness. *crd.Client satisfies
// this; tests substitute a fake.
type CRDClient interface {
	Create(ctx context.Context, handler *crd.WebhookHandler) (*crd.WebhookHandler, error)
	List(ctx context.Context) (*crd.WebhookHandlerList, error)
}

// State is the process-wide shared handle, constructed once at startup and
// passed by reference to every handler.
type State struct {
	Table         *routingtable.Table
	Gateway       Gateway
	CRDClient     CRDClient
	APISigningKey string
	ExternalURL   string
	Namespace     string
}

// New constructs a State from its components.
func New(table *routingtable.Table, gateway Gateway, crdClient CRDClient, apiSigningKey, externalURL, namespace string) *State {
	return &State{
		Table:         table,
		Gateway:       gateway,
		CRDClient:     crdClient,
		APISigningKey: apiSigningKey,
		ExternalURL:   externalURL,
		Namespace:     namespace,
	}
}
