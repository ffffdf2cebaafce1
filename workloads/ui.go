package workloads

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

// UIComponent is the component label value of the Web UI workloads.
const UIComponent = "ui"

// UIDeployment builds the Temporal Web UI Deployment, talking to server.
func UIDeployment(parent naming.Name, cfg *stackconfig.Configuration, server Service, p objectmeta.Placement) Deployment {
	name := parent.Sub("ui")
	matchLabels := objectmeta.SelectorLabels(name)
	labels := objectmeta.MergeLabels(
		objectmeta.StandardLabels(cfg.Name, UIComponent, cfg.UI.Version),
		matchLabels,
	)

	deployment := &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
		},
		ObjectMeta: objectmeta.New(name, p, labels),
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To[int32](1),
			Selector: &metav1.LabelSelector{
				MatchLabels: matchLabels,
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels,
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:            "ui",
							Image:           image(UIImage, cfg.UI.Version),
							ImagePullPolicy: corev1.PullIfNotPresent,
							Ports: []corev1.ContainerPort{
								containerPort(HTTPPortName, int32(cfg.UI.Port)),
							},
							LivenessProbe:  tcpProbe(HTTPPortName),
							ReadinessProbe: tcpProbe(HTTPPortName),
							Env:            buildUIEnv(cfg, server),
						},
					},
					EnableServiceLinks: ptr.To(false),
				},
			},
		},
	}

	return Deployment{
		Name:        name,
		MatchLabels: matchLabels,
		Object:      deployment,
	}
}

// UIService builds the Service in front of the Web UI.
func UIService(parent naming.Name, deployment Deployment, p objectmeta.Placement) Service {
	name := parent.Sub("ui")

	svc := &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Service",
		},
		ObjectMeta: objectmeta.New(name, p, objectmeta.MergeLabels(
			objectmeta.StandardLabels(parent, UIComponent, ""),
			deployment.MatchLabels,
		)),
		Spec: corev1.ServiceSpec{
			Ports: []corev1.ServicePort{
				servicePort(HTTPPortName, UIServicePort),
			},
			Selector: deployment.MatchLabels,
		},
	}

	return Service{
		Name:   name,
		Port:   UIServicePort,
		Object: svc,
	}
}
