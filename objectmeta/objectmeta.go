// Package objectmeta builds the metadata shared by every generated object.
package objectmeta

import (
	"maps"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/deployport/pulumi-temporal-k8s/naming"
)

// Standard Kubernetes label keys.
//
// See: https://kubernetes.io/docs/concepts/overview/working-with-objects/common-labels/
const (
	LabelAppName      = "app.kubernetes.io/name"
	LabelAppInstance  = "app.kubernetes.io/instance"
	LabelAppVersion   = "app.kubernetes.io/version"
	LabelAppComponent = "app.kubernetes.io/component"
	LabelAppPartOf    = "app.kubernetes.io/part-of"
	LabelAppManagedBy = "app.kubernetes.io/managed-by"

	// LabelSelector is the only label workloads are selected by.
	LabelSelector = "app"
)

const (
	AppNameTemporal = "temporal"
	ManagedBy       = "pulumi-temporal-k8s"
)

// Placement says where generated objects go in the cluster.
type Placement struct {
	// Namespace is the Kubernetes namespace; empty means the provider default.
	Namespace string
}

// New returns object metadata for name.
func New(name naming.Name, p Placement, labels map[string]string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      name.String(),
		Namespace: p.Namespace,
		Labels:    labels,
	}
}

// SelectorLabels are the match labels of the workload called name.
func SelectorLabels(name naming.Name) map[string]string {
	return map[string]string{LabelSelector: name.String()}
}

// StandardLabels labels an object of the stack rooted at root. version may be
// empty for objects that are not tied to an image.
func StandardLabels(root naming.Name, component, version string) map[string]string {
	labels := map[string]string{
		LabelAppName:      AppNameTemporal,
		LabelAppInstance:  root.String(),
		LabelAppComponent: component,
		LabelAppPartOf:    AppNameTemporal,
		LabelAppManagedBy: ManagedBy,
	}
	if version != "" {
		labels[LabelAppVersion] = version
	}
	return labels
}

// MergeLabels returns a new map with the keys of all sets. Later sets win.
func MergeLabels(sets ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, s := range sets {
		maps.Copy(out, s)
	}
	return out
}
