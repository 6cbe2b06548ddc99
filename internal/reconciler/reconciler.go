// Package reconciler keeps the routing table eventually consistent with
// the set of WebhookHandler resources in the configured namespace: an
// initial list, then a continuous watch. It is the table's sole writer.
package reconciler

import (
	"context"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/watch"

	"github.com/Postmaster-Live/postmaster/internal/crd"
	"github.com/Postmaster-Live/postmaster/internal/handlerid"
	"github.com/Postmaster-Live/postmaster/internal/routingtable"
)

// reconnectBackoff bounds how long Run waits before re-establishing a
// watch after the stream ends.
const reconnectBackoff = 2 * time.Second

// Reconciler mirrors WebhookHandler resources into a routingtable.Table.
type Reconciler struct {
	client *crd.Client
	table  *routingtable.Table
	log    *slog.Logger
}

// New builds a Reconciler over client, projecting into table.
func New(client *crd.Client, table *routingtable.Table, log *slog.Logger) *Reconciler {
	return &Reconciler{client: client, table: table, log: log}
}

// Run lists the current handlers, projects them, then watches for further
// changes until ctx is canceled. It never returns on a transient watch
// error — it reconnects with backoff. Projection failure on one resource
// never aborts processing of peers.
func (r *Reconciler) Run(ctx context.Context) {
	resourceVersion := r.initialList(ctx)

	for {
		if ctx.Err() != nil {
			return
		}

		nextVersion, err := r.watchOnce(ctx, resourceVersion)
		if err != nil {
			r.log.Error("reconciler: watch error, reconnecting", "error", err)
		} else {
			r.log.Warn("reconciler: watch stream ended, reconnecting")
		}
		if nextVersion != "" {
			resourceVersion = nextVersion
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectBackoff):
		}
	}
}

// initialList performs the initial snapshot. List errors are logged, not
// fatal: startup proceeds straight to the watch loop either way.
func (r *Reconciler) initialList(ctx context.Context) string {
	list, err := r.client.List(ctx)
	if err != nil {
		r.log.Error("reconciler: initial list failed, proceeding to watch", "error", err)
		return ""
	}

	loaded := 0
	for i := range list.Items {
		if r.project(&list.Items[i]) {
			loaded++
		}
	}
	r.log.Info("reconciler: initial snapshot loaded", "handlers", loaded, "total", len(list.Items))
	return list.ResourceVersion
}

// watchOnce runs a single watch subscription to completion (either the
// stream ends or ctx is canceled), returning the last observed resource
// version so the next attempt can resume from it.
func (r *Reconciler) watchOnce(ctx context.Context, resourceVersion string) (string, error) {
	w, err := r.client.Watch(ctx, resourceVersion)
	if err != nil {
		return resourceVersion, err
	}
	defer w.Stop()

	lastVersion := resourceVersion
	for {
		select {
		case <-ctx.Done():
			return lastVersion, nil
		case event, ok := <-w.ResultChan():
			if !ok {
				return lastVersion, nil
			}
			if v := r.handleEvent(event); v != "" {
				lastVersion = v
			}
		}
	}
}

// handleEvent projects (or evicts, on deletion) a single watch event and
// returns the resource's version, if it parsed as a WebhookHandler.
func (r *Reconciler) handleEvent(event watch.Event) string {
	handler, ok := event.Object.(*crd.WebhookHandler)
	if !ok {
		r.log.Warn("reconciler: watch event with unexpected object type")
		return ""
	}

	switch event.Type {
	case watch.Added, watch.Modified:
		r.project(handler)
	case watch.Deleted:
		if id, ok := handlerid.FromResourceName(handler.Name); ok {
			r.table.Evict(id)
			r.log.Info("reconciler: handler deleted", "handler_id", id)
		}
	case watch.Error:
		r.log.Error("reconciler: watch reported an error event")
	}
	return handler.ResourceVersion
}

// project upserts a single resource into the table if its name parses as
// "handler-<uuid>", logging and dropping it otherwise. It never returns an
// error: a malformed resource must not abort processing of its peers.
func (r *Reconciler) project(handler *crd.WebhookHandler) bool {
	id, ok := handlerid.FromResourceName(handler.Name)
	if !ok {
		r.log.Warn("reconciler: ignoring resource with unrecognized name", "name", handler.Name)
		return false
	}

	r.table.Upsert(id, routingtable.Entry{
		Topic:        handler.Spec.Topic,
		SignatureKey: handler.Spec.SignatureKey,
		Filters:      handler.Spec.Filters,
		Routes:       handler.Spec.Routes,
	})
	r.log.Debug("reconciler: projected handler", "handler_id", id, "topic", handler.Spec.Topic)
	return true
}
