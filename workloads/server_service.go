package workloads

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

// ServerService builds the headless Service clients reach the frontend
// through. It is named after the frontend service name so the address is
// <root>:<port>.
func ServerService(frontend stackconfig.Frontend, deployment Deployment, p objectmeta.Placement) Service {
	name := frontend.ServiceName
	port := int32(frontend.ServicePort)

	svc := &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Service",
		},
		ObjectMeta: objectmeta.New(name, p, objectmeta.MergeLabels(
			objectmeta.StandardLabels(name, ServerComponent, ""),
			deployment.MatchLabels,
		)),
		Spec: corev1.ServiceSpec{
			ClusterIP: corev1.ClusterIPNone,
			Ports: []corev1.ServicePort{
				servicePort(GRPCPortName, port),
			},
			Selector: deployment.MatchLabels,
		},
	}

	return Service{
		Name:           name,
		Port:           port,
		ConfigChecksum: deployment.ConfigChecksum,
		Object:         svc,
	}
}
