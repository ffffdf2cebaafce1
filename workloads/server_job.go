package workloads

import (
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/deployport/pulumi-temporal-k8s/configmaps"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

const (
	// jobBackoffLimit keeps the Job retrying while the server comes up.
	jobBackoffLimit int32 = 60
	jobCompletions  int32 = 1
)

// ServerJob builds the one-shot Job that registers the configured Temporal
// namespaces once the frontend Service is reachable.
func ServerJob(cfg *stackconfig.Configuration, server Service, initScripts configmaps.ConfigMap, p objectmeta.Placement) Job {
	name := cfg.Name.Sub("server-job")
	matchLabels := objectmeta.SelectorLabels(name)
	labels := objectmeta.MergeLabels(
		objectmeta.StandardLabels(cfg.Name, "namespace-registration", cfg.AdminToolsVersion()),
		matchLabels,
	)

	job := &batchv1.Job{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "batch/v1",
			Kind:       "Job",
		},
		ObjectMeta: objectmeta.New(name, p, labels),
		Spec: batchv1.JobSpec{
			BackoffLimit: ptr.To(jobBackoffLimit),
			Completions:  ptr.To(jobCompletions),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels,
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyOnFailure,
					Containers: []corev1.Container{
						{
							Name:    "default-ns",
							Image:   image(AdminToolsImage, cfg.AdminToolsVersion()),
							Command: []string{configmaps.InitScriptsPath + configmaps.CreateNamespacesScript},
							Env: []corev1.EnvVar{
								{Name: ConfigChecksumEnv, Value: server.ConfigChecksum},
							},
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
						initScriptsVolume(initScripts),
					},
				},
			},
		},
	}

	return Job{
		Name:           name,
		MatchLabels:    matchLabels,
		ConfigChecksum: server.ConfigChecksum,
		Object:         job,
	}
}
