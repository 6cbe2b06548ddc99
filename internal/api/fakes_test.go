package api_test

import (
	"context"
	"errors"
	"sync"

	"github.com/Postmaster-Live/postmaster/internal/crd"
)

type fakeGateway struct {
	mu         sync.Mutex
	published  []fakePublishCall
	publishErr error
	connectErr error
}

type fakePublishCall struct {
	Topic   string
	Key     string
	Payload []byte
}

func (f *fakeGateway) Publish(ctx context.Context, topic, key string, payload []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, fakePublishCall{Topic: topic, Key: key, Payload: payload})
	return nil
}

func (f *fakeGateway) CheckConnection(ctx context.Context) error {
	return f.connectErr
}

func (f *fakeGateway) calls() []fakePublishCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakePublishCall(nil), f.published...)
}

type fakeCRDClient struct {
	mu        sync.Mutex
	created   []*crd.WebhookHandler
	createErr error
	listErr   error
}

func (f *fakeCRDClient) Create(ctx context.Context, handler *crd.WebhookHandler) (*crd.WebhookHandler, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, handler)
	return handler, nil
}

func (f *fakeCRDClient) List(ctx context.Context) (*crd.WebhookHandlerList, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &crd.WebhookHandlerList{}, nil
}

var errFakeUnreachable = errors.New("fake: unreachable")
