// Package provision registers a built stack with Pulumi.
package provision

import (
	corev1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/core/v1"
	metav1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/meta/v1"
	"github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/yaml"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	apimetav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/deployport/pulumi-temporal-k8s/configmaps"
	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/render"
	"github.com/deployport/pulumi-temporal-k8s/stack"
	"github.com/deployport/pulumi-temporal-k8s/utils"
)

// Resources are the Pulumi resources of a registered stack.
type Resources struct {
	Credentials      *corev1.Secret
	ServerConfig     *corev1.ConfigMap
	DynamicConfig    *corev1.ConfigMap
	InitScripts      *corev1.ConfigMap
	ServerDeployment *yaml.ConfigGroup
	ServerService    *yaml.ConfigGroup
	ServerJob        *yaml.ConfigGroup
	UIDeployment     *yaml.ConfigGroup
	UIService        *yaml.ConfigGroup
	Dashboard        *corev1.ConfigMap
}

// Stack registers every object of s. opts apply to all of them; each
// workload additionally depends on the objects it reads or talks to.
func Stack(ctx *pulumi.Context, s *stack.Stack, opts ...pulumi.ResourceOption) (*Resources, error) {
	r := &Resources{}
	var err error

	if r.Credentials, err = corev1.NewSecret(ctx, s.Credentials.Name.String(), &corev1.SecretArgs{
		Metadata:   objectMeta(s.Credentials.Object.ObjectMeta),
		Type:       pulumi.String(string(s.Credentials.Object.Type)),
		StringData: pulumi.ToSecret(pulumi.ToStringMap(s.Credentials.Object.StringData)).(pulumi.StringMapOutput),
	}, opts...); err != nil {
		return nil, err
	}
	if r.ServerConfig, err = configMap(ctx, s.ServerConfig, opts...); err != nil {
		return nil, err
	}
	if r.DynamicConfig, err = configMap(ctx, s.DynamicConfig, opts...); err != nil {
		return nil, err
	}
	if r.InitScripts, err = configMap(ctx, s.InitScripts, opts...); err != nil {
		return nil, err
	}
	ctx.Log.Debug("registered configuration for "+s.Name.String(), nil)

	if r.ServerDeployment, err = group(ctx, s.ServerDeployment.Name.Sub("deployment"), s.ServerDeployment.Object,
		with(opts, pulumi.DependsOn([]pulumi.Resource{r.Credentials, r.InitScripts, r.ServerConfig, r.DynamicConfig}))...,
	); err != nil {
		return nil, err
	}
	if r.ServerService, err = group(ctx, s.ServerService.Name.Sub("service"), s.ServerService.Object,
		with(opts, pulumi.DependsOn([]pulumi.Resource{r.ServerDeployment}))...,
	); err != nil {
		return nil, err
	}
	if r.ServerJob, err = group(ctx, s.ServerJob.Name, s.ServerJob.Object,
		with(opts,
			pulumi.DependsOn([]pulumi.Resource{r.ServerDeployment, r.ServerService}),
			pulumi.DependsOn(utils.ConfigGroupReady(r.ServerDeployment)),
		)...,
	); err != nil {
		return nil, err
	}
	if r.UIDeployment, err = group(ctx, s.UIDeployment.Name.Sub("deployment"), s.UIDeployment.Object,
		with(opts, pulumi.DependsOn([]pulumi.Resource{r.ServerService}))...,
	); err != nil {
		return nil, err
	}
	if r.UIService, err = group(ctx, s.UIService.Name.Sub("service"), s.UIService.Object,
		with(opts, pulumi.DependsOn([]pulumi.Resource{r.UIDeployment}))...,
	); err != nil {
		return nil, err
	}

	if s.Dashboard != nil {
		if r.Dashboard, err = configMap(ctx, *s.Dashboard, opts...); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func configMap(ctx *pulumi.Context, cm configmaps.ConfigMap, opts ...pulumi.ResourceOption) (*corev1.ConfigMap, error) {
	return corev1.NewConfigMap(ctx, cm.Name.String(), &corev1.ConfigMapArgs{
		Metadata: objectMeta(cm.Object.ObjectMeta),
		Data:     pulumi.ToStringMap(cm.Data()),
	}, opts...)
}

// group registers obj through a ConfigGroup, which accepts the object as
// it would appear in a manifest.
func group(ctx *pulumi.Context, name naming.Name, obj runtime.Object, opts ...pulumi.ResourceOption) (*yaml.ConfigGroup, error) {
	u, err := render.Unstructured(obj)
	if err != nil {
		return nil, err
	}
	return yaml.NewConfigGroup(ctx, name.String(), &yaml.ConfigGroupArgs{
		Objs: []map[string]interface{}{u},
	}, opts...)
}

func objectMeta(m apimetav1.ObjectMeta) *metav1.ObjectMetaArgs {
	args := &metav1.ObjectMetaArgs{
		Name:   pulumi.String(m.Name),
		Labels: pulumi.ToStringMap(m.Labels),
	}
	if m.Namespace != "" {
		args.Namespace = pulumi.String(m.Namespace)
	}
	return args
}

// with returns opts followed by extra without touching opts' backing array.
func with(opts []pulumi.ResourceOption, extra ...pulumi.ResourceOption) []pulumi.ResourceOption {
	out := make([]pulumi.ResourceOption, 0, len(opts)+len(extra))
	out = append(out, opts...)
	return append(out, extra...)
}
