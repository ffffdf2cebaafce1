package workloads

import (
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/deployport/pulumi-temporal-k8s/checksum"
	"github.com/deployport/pulumi-temporal-k8s/configmaps"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

// ServerComponent is the component label value of the server workloads.
const ServerComponent = "server"

// ServerDeploymentInput is everything the server Deployment is built from.
type ServerDeploymentInput struct {
	Config        *stackconfig.Configuration
	Credentials   configmaps.Secret
	ServerConfig  configmaps.ConfigMap
	DynamicConfig configmaps.ConfigMap
	InitScripts   configmaps.ConfigMap
}

// ServerDeployment builds the Deployment running all four Temporal services in
// one container. The schema is set up by an admin-tools init container before
// the server starts.
func ServerDeployment(in ServerDeploymentInput, p objectmeta.Placement) (Deployment, error) {
	cfg := in.Config
	name := cfg.Name.Sub("server")
	matchLabels := objectmeta.SelectorLabels(name)
	labels := objectmeta.MergeLabels(
		objectmeta.StandardLabels(cfg.Name, ServerComponent, string(cfg.Version)),
		matchLabels,
	)

	depSum, err := checksum.ConfigMaps(in.InitScripts, in.ServerConfig, in.DynamicConfig)
	if err != nil {
		return Deployment{}, err
	}
	cfgSum, err := cfg.Checksum()
	if err != nil {
		return Deployment{}, err
	}
	configChecksum := depSum + cfgSum

	env := buildServerEnv(cfg, in.Credentials, configChecksum)

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
					Labels:      labels,
					Annotations: serverPodAnnotations(cfg),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:           "temporal-server",
							Image:          image(ServerImage, string(cfg.Version)),
							Ports:          serverPorts(cfg),
							LivenessProbe:  tcpProbe(GRPCPortName),
							ReadinessProbe: tcpProbe(GRPCPortName),
							Env:            env,
							VolumeMounts: []corev1.VolumeMount{
								{
									Name:      "config",
									MountPath: "/etc/temporal/config/" + configmaps.ServerConfigKey,
									SubPath:   configmaps.ServerConfigKey,
								},
								{
									Name:      "dynamicconfig",
									MountPath: configmaps.DynamicConfigPath,
								},
							},
						},
					},
					InitContainers: []corev1.Container{
						{
							Name:    "init",
							Image:   image(AdminToolsImage, cfg.AdminToolsVersion()),
							Command: []string{configmaps.InitScriptsPath + configmaps.InitSchemaScript},
							Env:     env,
							VolumeMounts: []corev1.VolumeMount{
								{
									Name:      "init-script",
									MountPath: configmaps.InitScriptsPath,
									ReadOnly:  true,
								},
							},
						},
					},
					Volumes: []corev1.Volume{
						initScriptsVolume(in.InitScripts),
						{
							Name: "config",
							VolumeSource: corev1.VolumeSource{
								ConfigMap: &corev1.ConfigMapVolumeSource{
									LocalObjectReference: corev1.LocalObjectReference{
										Name: in.ServerConfig.Name.String(),
									},
								},
							},
						},
						{
							Name: "dynamicconfig",
							VolumeSource: corev1.VolumeSource{
								ConfigMap: &corev1.ConfigMapVolumeSource{
									LocalObjectReference: corev1.LocalObjectReference{
										Name: in.DynamicConfig.Name.String(),
									},
									Items: []corev1.KeyToPath{
										{Key: configmaps.DynamicConfigKey, Path: configmaps.DynamicConfigKey},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	return Deployment{
		Name:           name,
		MatchLabels:    matchLabels,
		ConfigChecksum: configChecksum,
		Object:         deployment,
	}, nil
}

func initScriptsVolume(scripts configmaps.ConfigMap) corev1.Volume {
	return corev1.Volume{
		Name: "init-script",
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{
					Name: scripts.Name.String(),
				},
				DefaultMode: ptr.To(initScriptsMode),
			},
		},
	}
}

func serverPorts(cfg *stackconfig.Configuration) []corev1.ContainerPort {
	ports := []corev1.ContainerPort{
		containerPort(GRPCPortName, int32(cfg.Frontend.ServicePort)),
	}
	if cfg.Dashboard {
		ports = append(ports, containerPort(MetricsPortName, configmaps.MetricsPort))
	}
	return ports
}

// serverPodAnnotations lets a Prometheus using the conventional pod
// annotations discover the metrics endpoint.
func serverPodAnnotations(cfg *stackconfig.Configuration) map[string]string {
	if !cfg.Dashboard {
		return nil
	}
	return map[string]string{
		"prometheus.io/scrape": "true",
		"prometheus.io/port":   strconv.Itoa(configmaps.MetricsPort),
	}
}
