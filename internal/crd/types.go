// Package crd defines the WebhookHandler custom resource
// (group webhooks.example.com, version v1, kind WebhookHandler, namespaced)
// and the client-go scheme registration needed to list/watch it.
package crd

import (
	"slices"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/Postmaster-Live/postmaster/internal/filter"
	"github.com/Postmaster-Live/postmaster/internal/route"
)

// GroupName is the API group the WebhookHandler resource lives in.
const GroupName = "webhooks.example.com"

// GroupVersion is the group/version pair served for WebhookHandler.
var GroupVersion = schema.GroupVersion{Group: GroupName, Version: "v1"}

// Resource builds a GroupVersionResource in this group/version for the
// given resource plural (for example "webhookhandlers").
func Resource(resource string) schema.GroupVersionResource {
	return GroupVersion.WithResource(resource)
}

// SchemeBuilder collects the types this package contributes to a runtime
// scheme.
var SchemeBuilder = runtime.NewSchemeBuilder(addKnownTypes)

// AddToScheme registers WebhookHandler and WebhookHandlerList with s.
var AddToScheme = SchemeBuilder.AddToScheme

func addKnownTypes(s *runtime.Scheme) error {
	s.AddKnownTypes(GroupVersion,
		&WebhookHandler{},
		&WebhookHandlerList{},
	)
	metav1.AddToGroupVersion(s, GroupVersion)
	return nil
}

// WebhookHandlerSpec is the declarative handler configuration persisted on
// the resource.
type WebhookHandlerSpec struct {
	// Topic is the default destination when no route matches.
	Topic string `json:"topic"`
	// SignatureKey, if set, requires inbound requests to carry a valid HMAC.
	SignatureKey string `json:"signatureKey,omitempty"`
	// Filters is an ordered conjunctive predicate list.
	Filters []filter.Filter `json:"filters,omitempty"`
	// Routes is an ordered content-based routing rule list.
	Routes []route.Route `json:"routes,omitempty"`
}

// WebhookHandlerStatus carries the external handler URL and readiness.
type WebhookHandlerStatus struct {
	HandlerURL string `json:"handlerUrl,omitempty"`
	Ready      bool   `json:"ready"`
}

// WebhookHandler is the namespaced custom resource a handler
// configuration is declared as.
type WebhookHandler struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   WebhookHandlerSpec   `json:"spec"`
	Status WebhookHandlerStatus `json:"status,omitempty"`
}

// DeepCopyObject implements runtime.Object.
func (h *WebhookHandler) DeepCopyObject() runtime.Object {
	return h.DeepCopy()
}

// DeepCopy returns a deep copy of h.
func (h *WebhookHandler) DeepCopy() *WebhookHandler {
	if h == nil {
		return nil
	}
	out := new(WebhookHandler)
	*out = *h
	out.TypeMeta = h.TypeMeta
	h.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	out.Spec = h.Spec.deepCopy()
	out.Status = h.Status
	return out
}

func (s WebhookHandlerSpec) deepCopy() WebhookHandlerSpec {
	out := s
	if s.Filters != nil {
		out.Filters = append([]filter.Filter(nil), s.Filters...)
		for i := range out.Filters {
			v := &out.Filters[i].Value
			if v.String != nil {
				str := *v.String
				v.String = &str
			}
			if v.Number != nil {
				n := *v.Number
				v.Number = &n
			}
			v.StringArray = slices.Clone(v.StringArray)
			v.NumberArray = slices.Clone(v.NumberArray)
		}
	}
	if s.Routes != nil {
		out.Routes = append([]route.Route(nil), s.Routes...)
		for i := range out.Routes {
			out.Routes[i].Mapping = slices.Clone(out.Routes[i].Mapping)
		}
	}
	return out
}

// WebhookHandlerList is a list of WebhookHandler, the shape the cluster API
// returns from a List call.
type WebhookHandlerList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []WebhookHandler `json:"items"`
}

// DeepCopyObject implements runtime.Object.
func (l *WebhookHandlerList) DeepCopyObject() runtime.Object {
	return l.DeepCopy()
}

// DeepCopy returns a deep copy of l.
func (l *WebhookHandlerList) DeepCopy() *WebhookHandlerList {
	if l == nil {
		return nil
	}
	out := new(WebhookHandlerList)
	out.TypeMeta = l.TypeMeta
	l.ListMeta.DeepCopyInto(&out.ListMeta)
	if l.Items != nil {
		out.Items = make([]WebhookHandler, len(l.Items))
		for i := range l.Items {
			out.Items[i] = *l.Items[i].DeepCopy()
		}
	}
	return out
}
