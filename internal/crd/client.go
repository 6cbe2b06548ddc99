package crd

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/rest"
)

// resourcePlural is the REST resource name for WebhookHandler.
const resourcePlural = "webhookhandlers"

// Client is a minimal hand-written REST client for the WebhookHandler
// resource, scoped to a single namespace. A full repo would generate this
// with client-gen; for one CRD it is written directly against
// client-go's rest.Client, the same layer client-gen itself targets.
type Client struct {
	rest      rest.Interface
	namespace string
}

// NewClient builds a Client from a cluster REST config.
func NewClient(config *rest.Config, namespace string) (*Client, error) {
	cfg := *config
	cfg.GroupVersion = &GroupVersion
	cfg.APIPath = "/apis"
	cfg.NegotiatedSerializer = serializer.NewCodecFactory(scheme).WithoutConversion()
	if cfg.UserAgent == "" {
		cfg.UserAgent = rest.DefaultKubernetesUserAgent()
	}

	restClient, err := rest.RESTClientFor(&cfg)
	if err != nil {
		return nil, err
	}
	return &Client{rest: restClient, namespace: namespace}, nil
}

var scheme = func() *runtime.Scheme {
	s := runtime.NewScheme()
	if err := AddToScheme(s); err != nil {
		panic(err)
	}
	return s
}()

var parameterCodec = runtime.NewParameterCodec(scheme)

// List returns every WebhookHandler in the configured namespace.
func (c *Client) List(ctx context.Context) (*WebhookHandlerList, error) {
	result := &WebhookHandlerList{}
	err := c.rest.Get().
		Namespace(c.namespace).
		Resource(resourcePlural).
		Do(ctx).
		Into(result)
	return result, err
}

// Watch subscribes to change events for WebhookHandler in the configured
// namespace, starting from resourceVersion.
func (c *Client) Watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	return c.rest.Get().
		Namespace(c.namespace).
		Resource(resourcePlural).
		VersionedParams(&metav1.ListOptions{Watch: true, ResourceVersion: resourceVersion}, parameterCodec).
		Watch(ctx)
}

// Create persists a new WebhookHandler resource.
func (c *Client) Create(ctx context.Context, handler *WebhookHandler) (*WebhookHandler, error) {
	result := &WebhookHandler{}
	err := c.rest.Post().
		Namespace(c.namespace).
		Resource(resourcePlural).
		Body(handler).
		Do(ctx).
		Into(result)
	return result, err
}
