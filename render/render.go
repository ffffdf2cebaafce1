// Package render turns generated objects into plain manifests.
package render

import (
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"
)

const documentSeparator = "---\n"

// Unstructured converts obj to its manifest form, without the server-populated
// fields that a freshly built object carries as zero values.
func Unstructured(obj runtime.Object) (map[string]interface{}, error) {
	u, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", obj.GetObjectKind().GroupVersionKind().Kind, err)
	}
	unstructured.RemoveNestedField(u, "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(u, "spec", "template", "metadata", "creationTimestamp")
	unstructured.RemoveNestedField(u, "status")
	return u, nil
}

// YAML writes objs to w as a multi-document YAML stream.
func YAML(w io.Writer, objs []runtime.Object) error {
	for _, obj := range objs {
		u, err := Unstructured(obj)
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(u)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", obj.GetObjectKind().GroupVersionKind().Kind, err)
		}
		if _, err := io.WriteString(w, documentSeparator); err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}
