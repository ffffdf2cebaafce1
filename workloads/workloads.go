// Package workloads builds the Deployments, Services and Job that run the
// Temporal server and Web UI.
package workloads

import (
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/deployport/pulumi-temporal-k8s/naming"
)

// Deployment is a generated Deployment. ConfigChecksum changes whenever any
// configuration the pods read changes.
type Deployment struct {
	Name           naming.Name
	MatchLabels    map[string]string
	ConfigChecksum string
	Object         *appsv1.Deployment
}

// Service is a generated Service. ConfigChecksum is carried over from the
// Deployment it fronts.
type Service struct {
	Name           naming.Name
	Port           int32
	ConfigChecksum string
	Object         *corev1.Service
}

// Job is a generated Job.
type Job struct {
	Name           naming.Name
	MatchLabels    map[string]string
	ConfigChecksum string
	Object         *batchv1.Job
}

const (
	// ConfigChecksumEnv carries the dependency checksum into pods.
	ConfigChecksumEnv = "TEMPORAL_CONFIG_CHECKSUM"

	ServerImage     = "temporalio/server"
	AdminToolsImage = "temporalio/admin-tools"
	UIImage         = "temporalio/ui"

	probeInitialDelaySeconds = 10

	// initScriptsMode makes the mounted scripts executable.
	initScriptsMode int32 = 0o777
)

func image(repository, tag string) string {
	return repository + ":" + tag
}
