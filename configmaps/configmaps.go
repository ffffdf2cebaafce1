// Package configmaps generates the configuration objects the Temporal server
// reads at startup: the server config template, dynamic config, the init
// scripts and the database credentials.
package configmaps

import (
	"bytes"
	"fmt"
	"text/template"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
)

// ConfigMap is a generated ConfigMap and the name other objects refer to it by.
type ConfigMap struct {
	Name   naming.Name
	Object *corev1.ConfigMap
}

// Data is the ConfigMap payload.
func (c ConfigMap) Data() map[string]string {
	return c.Object.Data
}

// New wraps data in a ConfigMap called name, labelled as component of the
// stack rooted at root.
func New(root, name naming.Name, component string, p objectmeta.Placement, data map[string]string) ConfigMap {
	return ConfigMap{
		Name: name,
		Object: &corev1.ConfigMap{
			TypeMeta: metav1.TypeMeta{
				APIVersion: "v1",
				Kind:       "ConfigMap",
			},
			ObjectMeta: objectmeta.New(name, p, objectmeta.StandardLabels(root, component, "")),
			Data:       data,
		},
	}
}

// newTemplate parses text with [[ ]] delimiters so that the {{ }} placeholders
// consumed by Temporal's own templating are kept verbatim.
func newTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Delims("[[", "]]").Funcs(template.FuncMap{
		"shellWords": shellWords,
	}).Parse(text))
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
