package workloads

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

const (
	// GRPCPortName names the server's frontend port.
	GRPCPortName = "grpc"

	// HTTPPortName names the UI port.
	HTTPPortName = "http"

	// MetricsPortName names the server's Prometheus port.
	MetricsPortName = "metrics"

	// UIServicePort is the port the UI Service listens on.
	UIServicePort int32 = 80
)

func containerPort(name string, port int32) corev1.ContainerPort {
	return corev1.ContainerPort{
		Name:          name,
		ContainerPort: port,
		Protocol:      corev1.ProtocolTCP,
	}
}

func servicePort(name string, port int32) corev1.ServicePort {
	return corev1.ServicePort{
		Name:       name,
		Port:       port,
		TargetPort: intstr.FromString(name),
		Protocol:   corev1.ProtocolTCP,
	}
}

// tcpProbe checks that the named port accepts connections.
func tcpProbe(portName string) *corev1.Probe {
	return &corev1.Probe{
		InitialDelaySeconds: probeInitialDelaySeconds,
		ProbeHandler: corev1.ProbeHandler{
			TCPSocket: &corev1.TCPSocketAction{
				Port: intstr.FromString(portName),
			},
		},
	}
}
