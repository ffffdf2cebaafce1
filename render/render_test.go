package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stack"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

func buildStack(t *testing.T) *stack.Stack {
	t.Helper()
	cfg := stackconfig.New(naming.New("temporal"), stackconfig.Map{
		stackconfig.KeyDatabaseUsername: "u",
		stackconfig.KeyDatabasePassword: "p",
		stackconfig.KeyDatabaseHost:     "db.internal",
	})
	s, err := stack.Build(cfg, objectmeta.Placement{Namespace: "temporal"})
	require.NoError(t, err)
	return s
}

func TestUnstructured(t *testing.T) {
	s := buildStack(t)

	u, err := Unstructured(s.ServerDeployment.Object)
	require.NoError(t, err)

	assert.Equal(t, "apps/v1", u["apiVersion"])
	assert.Equal(t, "Deployment", u["kind"])
	assert.NotContains(t, u, "status")

	_, found, err := unstructured.NestedFieldNoCopy(u, "metadata", "creationTimestamp")
	require.NoError(t, err)
	assert.False(t, found)

	containers, found, err := unstructured.NestedSlice(u, "spec", "template", "spec", "containers")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "temporalio/server:1.23.1", containers[0].(map[string]interface{})["image"])
}

func TestYAML(t *testing.T) {
	s := buildStack(t)

	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, s.Objects()))

	docs := strings.Split(strings.TrimPrefix(buf.String(), documentSeparator), documentSeparator)
	require.Len(t, docs, len(s.Objects()))

	var kinds []string
	for _, doc := range docs {
		var u map[string]interface{}
		require.NoError(t, yaml.Unmarshal([]byte(doc), &u))
		kinds = append(kinds, u["kind"].(string))
	}
	assert.Equal(t, []string{"Secret", "ConfigMap", "ConfigMap", "ConfigMap", "Deployment", "Service", "Job", "Deployment", "Service"}, kinds)
	assert.Contains(t, buf.String(), "TEMPORAL_CONFIG_CHECKSUM")
}

func TestYAMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, []runtime.Object{}))
	assert.Empty(t, buf.String())
}
