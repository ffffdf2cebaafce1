package provision

import (
	"strings"
	"sync"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stack"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

type mocks struct {
	mu        sync.Mutex
	resources []pulumi.MockResourceArgs
}

func (m *mocks) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = append(m.resources, args)
	return args.Name + "_id", args.Inputs, nil
}

func (m *mocks) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	return args.Args, nil
}

func (m *mocks) ofType(typ string) []pulumi.MockResourceArgs {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []pulumi.MockResourceArgs
	for _, r := range m.resources {
		if r.TypeToken == typ {
			out = append(out, r)
		}
	}
	return out
}

func buildStack(t *testing.T, extra stackconfig.Map) *stack.Stack {
	t.Helper()
	src := stackconfig.Map{
		stackconfig.KeyDatabaseUsername: "u",
		stackconfig.KeyDatabasePassword: "p",
		stackconfig.KeyDatabaseHost:     "db.internal",
	}
	for k, v := range extra {
		src[k] = v
	}
	s, err := stack.Build(stackconfig.New(naming.New("temporal"), src), objectmeta.Placement{Namespace: "temporal"})
	require.NoError(t, err)
	return s
}

// dependencies returns the URNs the resource typ/name was registered with.
func (m *mocks) dependencies(t *testing.T, typ, name string) []string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.resources {
		if r.TypeToken == typ && r.Name == name {
			require.NotNil(t, r.RegisterRPC)
			return r.RegisterRPC.GetDependencies()
		}
	}
	t.Fatalf("resource %s %s not registered", typ, name)
	return nil
}

func hasDependency(deps []string, typ, name string) bool {
	for _, urn := range deps {
		if strings.HasSuffix(urn, typ+"::"+name) {
			return true
		}
	}
	return false
}

func metadataName(args pulumi.MockResourceArgs) string {
	return args.Inputs["metadata"].ObjectValue()["name"].StringValue()
}

func TestStack(t *testing.T) {
	m := &mocks{}
	s := buildStack(t, nil)

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		r, err := Stack(ctx, s)
		if err != nil {
			return err
		}
		assert.NotNil(t, r.ServerJob)
		assert.Nil(t, r.Dashboard)
		return nil
	}, pulumi.WithMocks("temporal", "test", m))
	require.NoError(t, err)

	configMaps := m.ofType("kubernetes:core/v1:ConfigMap")
	var names []string
	for _, cm := range configMaps {
		names = append(names, metadataName(cm))
		assert.Equal(t, "temporal", cm.Inputs["metadata"].ObjectValue()["namespace"].StringValue())
	}
	assert.ElementsMatch(t, []string{
		"temporal-config",
		"temporal-dynamicconfig-configmap",
		"temporal-init-script-configmap",
	}, names)

	secrets := m.ofType("kubernetes:core/v1:Secret")
	require.Len(t, secrets, 1)
	assert.Equal(t, "temporal-db-credentials", metadataName(secrets[0]))

	assert.Len(t, m.ofType("kubernetes:apps/v1:Deployment"), 2)
	assert.Len(t, m.ofType("kubernetes:core/v1:Service"), 2)
	assert.Len(t, m.ofType("kubernetes:batch/v1:Job"), 1)
}

func TestStackDependencies(t *testing.T) {
	m := &mocks{}
	s := buildStack(t, nil)

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		_, err := Stack(ctx, s)
		return err
	}, pulumi.WithMocks("temporal", "test", m))
	require.NoError(t, err)

	const (
		secret     = "kubernetes:core/v1:Secret"
		configMap  = "kubernetes:core/v1:ConfigMap"
		deployment = "kubernetes:apps/v1:Deployment"
		service    = "kubernetes:core/v1:Service"
		job        = "kubernetes:batch/v1:Job"
	)
	type edge struct {
		typ, name string
	}

	tests := map[string]struct {
		resource edge
		want     []edge
	}{
		"server deployment": {
			resource: edge{deployment, "temporal/temporal-server"},
			want: []edge{
				{secret, "temporal-db-credentials"},
				{configMap, "temporal-config"},
				{configMap, "temporal-dynamicconfig-configmap"},
				{configMap, "temporal-init-script-configmap"},
			},
		},
		"server service": {
			resource: edge{service, "temporal/temporal"},
			want:     []edge{{deployment, "temporal/temporal-server"}},
		},
		"namespace job": {
			resource: edge{job, "temporal/temporal-server-job"},
			want: []edge{
				{deployment, "temporal/temporal-server"},
				{service, "temporal/temporal"},
			},
		},
		"ui deployment": {
			resource: edge{deployment, "temporal/temporal-ui"},
			want:     []edge{{service, "temporal/temporal"}},
		},
		"ui service": {
			resource: edge{service, "temporal/temporal-ui"},
			want:     []edge{{deployment, "temporal/temporal-ui"}},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			deps := m.dependencies(t, tc.resource.typ, tc.resource.name)
			for _, w := range tc.want {
				assert.True(t, hasDependency(deps, w.typ, w.name), "missing dependency on %s %s in %v", w.typ, w.name, deps)
			}
		})
	}

	// The Job group itself also waits on the Deployment the server group created.
	jobDeps := m.dependencies(t, "kubernetes:yaml:ConfigGroup", "temporal-server-job")
	assert.True(t, hasDependency(jobDeps, deployment, "temporal/temporal-server"), "job group deps: %v", jobDeps)
}

func TestStackWithDashboard(t *testing.T) {
	m := &mocks{}
	s := buildStack(t, stackconfig.Map{stackconfig.KeyGrafanaDashboard: "true"})

	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		r, err := Stack(ctx, s)
		if err != nil {
			return err
		}
		assert.NotNil(t, r.Dashboard)
		return nil
	}, pulumi.WithMocks("temporal", "test", m))
	require.NoError(t, err)

	assert.Len(t, m.ofType("kubernetes:core/v1:ConfigMap"), 4)
}

func TestWith(t *testing.T) {
	base := make([]pulumi.ResourceOption, 1, 4)
	base[0] = pulumi.Protect(false)

	a := with(base, pulumi.Protect(true))
	b := with(base, pulumi.IgnoreChanges([]string{"spec"}))

	assert.Len(t, a, 2)
	assert.Len(t, b, 2)
	assert.Len(t, base, 1)
}
