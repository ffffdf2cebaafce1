package workloads

import (
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/deployport/pulumi-temporal-k8s/configmaps"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

// buildServerEnv constructs the environment shared by the server container
// and its init container. The server config template reads the database
// coordinates from here.
func buildServerEnv(cfg *stackconfig.Configuration, credentials configmaps.Secret, checksum string) []corev1.EnvVar {
	p := cfg.Persistence
	return []corev1.EnvVar{
		{
			Name:  ConfigChecksumEnv,
			Value: checksum,
		},
		{
			Name: "POD_IP",
			ValueFrom: &corev1.EnvVarSource{
				FieldRef: &corev1.ObjectFieldSelector{
					FieldPath: "status.podIP",
				},
			},
		},
		{Name: "DB", Value: "postgresql"},
		{Name: "DB_PORT", Value: strconv.Itoa(p.Port)},
		{Name: "POSTGRES_USER", Value: p.Username},
		{
			Name: "POSTGRES_PWD",
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{
						Name: credentials.Name.String(),
					},
					Key: configmaps.PasswordKey,
				},
			},
		},
		{Name: "POSTGRES_SEEDS", Value: p.Host},
		{Name: "DBNAME", Value: p.Default.DatabaseName},
		{Name: "VISIBILITY_DBNAME", Value: p.Visibility.DatabaseName},
		{Name: "SQL_TLS", Value: "true"},
		{Name: "SQL_TLS_DISABLE_HOST_VERIFICATION", Value: "true"},
		// Read by the server config template.
		{Name: "SQL_TLS_ENABLE_HOST_VERIFICATION", Value: "false"},
	}
}

// buildUIEnv points the UI at the server's frontend Service.
func buildUIEnv(cfg *stackconfig.Configuration, server Service) []corev1.EnvVar {
	return []corev1.EnvVar{
		{
			Name:  "TEMPORAL_ADDRESS",
			Value: server.Name.String() + ":" + strconv.Itoa(int(server.Port)),
		},
		{
			Name:  "TEMPORAL_CORS_ORIGINS",
			Value: strings.Join(cfg.UI.CORSOrigins, ","),
		},
		{
			Name:  "TEMPORAL_CSRF_COOKIE_INSECURE",
			Value: strconv.FormatBool(cfg.UI.CSRFCookieInsecure),
		},
		{
			Name:  "TEMPORAL_UI_PORT",
			Value: strconv.Itoa(cfg.UI.Port),
		},
	}
}
