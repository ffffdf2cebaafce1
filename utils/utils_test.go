package utils

import (
	"testing"

	"github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/yaml"
	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mocks struct{}

func (mocks) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	return args.Name + "_id", args.Inputs, nil
}

func (mocks) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	return args.Args, nil
}

func configMap(name string) map[string]interface{} {
	return map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
		"metadata":   map[string]interface{}{"name": name},
		"data":       map[string]interface{}{"k": "v"},
	}
}

func TestConfigGroupReady(t *testing.T) {
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		g, err := yaml.NewConfigGroup(ctx, "group", &yaml.ConfigGroupArgs{
			Objs: []map[string]interface{}{configMap("a"), configMap("b")},
		})
		if err != nil {
			return err
		}

		ready := ConfigGroupReady(g)
		assert.Len(t, ready, 2)
		for _, r := range ready {
			_, custom := r.(pulumi.CustomResource)
			assert.True(t, custom)
		}
		return nil
	}, pulumi.WithMocks("temporal", "test", mocks{}))
	require.NoError(t, err)
}

func TestConfigGroupReadyEmpty(t *testing.T) {
	assert.Empty(t, ConfigGroupReady(&yaml.ConfigGroup{}))
}
