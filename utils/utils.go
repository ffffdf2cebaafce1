package utils

import (
	"encoding/json"
	"fmt"

	"github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/yaml"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

func GetStackStringOutput(ref *pulumi.StackReference, key string) pulumi.StringOutput {
	return ref.GetStringOutput(pulumi.String(key))
}

func GetStackStringArrayOutput(ref *pulumi.StackReference, key string) pulumi.StringArrayOutput {
	output := ref.GetOutput(pulumi.String(key))
	return output.ApplyT(func(input interface{}) []string {
		vals := make([]string, len(input.([]interface{})))
		for idx, val := range input.([]interface{}) {
			vals[idx] = val.(string)
		}
		return vals
	}).(pulumi.StringArrayOutput)
}

// GetStackStringValue reads a string output of another stack right away,
// secret or not. Use it for values that feed generated configuration, which
// is computed before any resource is registered.
func GetStackStringValue(ref *pulumi.StackReference, key string) (string, error) {
	details, err := ref.GetOutputDetails(key)
	if err != nil {
		return "", fmt.Errorf("failed to read stack output %q: %w", key, err)
	}
	value := details.Value
	if value == nil {
		value = details.SecretValue
	}
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("output %q is a %T, not a string", key, value)
	}
	return s, nil
}

// Kubeconfig turns a kubeconfig output, a string or a decoded object, into
// the string a Kubernetes provider expects.
func Kubeconfig(kubeconfig pulumi.AnyOutput) pulumi.StringOutput {
	return kubeconfig.ApplyT(
		func(config interface{}) (string, error) {
			if s, ok := config.(string); ok {
				return s, nil
			}
			b, err := json.Marshal(config)
			if err != nil {
				return "", err
			}
			return string(b), nil
		}).(pulumi.StringOutput)
}

// Hack because DependsOn a ConfigGroup does not wait until the resources it
// creates are ready.
// The below is a workaround based on the Helm Chart provider's .Ready property.
// https://github.com/pulumi/pulumi-kubernetes/issues/1773

func ConfigGroupReady(g *yaml.ConfigGroup) []pulumi.Resource {
	var outputs []pulumi.Resource
	for _, r := range g.Resources {
		outputs = append(outputs, r)
	}
	return outputs
}
