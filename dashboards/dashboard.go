// Package dashboards describes Grafana dashboards for a Temporal stack.
package dashboards

import (
	"context"
	"fmt"

	"github.com/K-Phoen/grabana"
	"github.com/K-Phoen/grabana/dashboard"
	"github.com/K-Phoen/grabana/row"
	"github.com/K-Phoen/grabana/target/prometheus"
	"github.com/K-Phoen/grabana/timeseries"

	"github.com/deployport/pulumi-temporal-k8s/configmaps"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

const (
	// DataSource is the Prometheus data source the panels query.
	DataSource = "prometheus"

	// FileKey is the dashboard file name inside the ConfigMap.
	FileKey = "temporal.json"

	// SidecarLabel is watched by the Grafana dashboard sidecar.
	SidecarLabel = "grafana_dashboard"
)

// Build describes the dashboard of the stack configured by cfg.
func Build(cfg *stackconfig.Configuration) (dashboard.Builder, error) {
	service := func(name string) string {
		return fmt.Sprintf(`service_name="%s"`, name)
	}

	return dashboard.New(
		fmt.Sprintf("Temporal (%s)", cfg.Name),
		dashboard.UID(cfg.Name.Sub("dashboard").String()),
		dashboard.AutoRefresh("30s"),
		dashboard.Time("now-1h", "now"),
		dashboard.Tags([]string{"temporal", "generated", string(cfg.Version)}),
		dashboard.Row(
			"Frontend",
			requestsPanel("Requests", service("frontend")),
			errorsPanel("Errors", "service_errors", service("frontend")),
			latencyPanel("Latency p95", "service_latency_bucket", service("frontend")),
		),
		dashboard.Row(
			"History",
			requestsPanel("Requests", service("history")),
			errorsPanel("Errors", "service_errors", service("history")),
		),
		dashboard.Row(
			"Matching",
			requestsPanel("Requests", service("matching")),
			errorsPanel("Errors", "service_errors", service("matching")),
		),
		dashboard.Row(
			"Persistence",
			row.WithTimeSeries(
				"Requests",
				timeseries.DataSource(DataSource),
				timeseries.WithPrometheusTarget(
					`sum(rate(persistence_requests[1m])) by (operation)`,
					prometheus.Legend("{{ operation }}"),
				),
			),
			errorsPanel("Errors", "persistence_errors", ""),
			latencyPanel("Latency p95", "persistence_latency_bucket", ""),
		),
		dashboard.Row(
			"Workflows",
			row.WithTimeSeries(
				"Completed",
				timeseries.DataSource(DataSource),
				timeseries.WithPrometheusTarget(
					`sum(rate(workflow_success[1m])) by (namespace)`,
					prometheus.Legend("{{ namespace }} success"),
				),
				timeseries.WithPrometheusTarget(
					`sum(rate(workflow_failed[1m])) by (namespace)`,
					prometheus.Legend("{{ namespace }} failed"),
				),
			),
		),
	)
}

func requestsPanel(title, selector string) row.Option {
	return row.WithTimeSeries(
		title,
		timeseries.DataSource(DataSource),
		timeseries.WithPrometheusTarget(
			fmt.Sprintf(`sum(rate(service_requests{%s}[1m])) by (operation)`, selector),
			prometheus.Legend("{{ operation }}"),
		),
	)
}

func errorsPanel(title, metric, selector string) row.Option {
	return row.WithTimeSeries(
		title,
		timeseries.DataSource(DataSource),
		timeseries.WithPrometheusTarget(
			fmt.Sprintf(`sum(rate(%s{%s}[1m])) by (operation)`, metric, selector),
			prometheus.Legend("{{ operation }}"),
		),
	)
}

func latencyPanel(title, metric, selector string) row.Option {
	return row.WithTimeSeries(
		title,
		timeseries.DataSource(DataSource),
		timeseries.WithPrometheusTarget(
			fmt.Sprintf(`histogram_quantile(0.95, sum(rate(%s{%s}[1m])) by (operation, le))`, metric, selector),
			prometheus.Legend("{{ operation }}"),
		),
	)
}

// ConfigMap wraps the dashboard in a ConfigMap the Grafana sidecar picks up.
func ConfigMap(cfg *stackconfig.Configuration, p objectmeta.Placement) (configmaps.ConfigMap, error) {
	builder, err := Build(cfg)
	if err != nil {
		return configmaps.ConfigMap{}, fmt.Errorf("failed to build dashboard: %w", err)
	}
	b, err := builder.MarshalIndentJSON()
	if err != nil {
		return configmaps.ConfigMap{}, fmt.Errorf("failed to serialize dashboard: %w", err)
	}

	cm := configmaps.New(cfg.Name, cfg.Name.Sub("dashboard"), "dashboard", p, map[string]string{
		FileKey: string(b),
	})
	cm.Object.Labels[SidecarLabel] = "1"
	return cm, nil
}

// Upsert creates or updates every dashboard in folder.
func Upsert(ctx context.Context, client *grabana.Client, folder string, builders ...dashboard.Builder) error {
	f, err := client.FindOrCreateFolder(ctx, folder)
	if err != nil {
		return fmt.Errorf("could not find or create folder %q: %w", folder, err)
	}
	for _, b := range builders {
		if _, err := client.UpsertDashboard(ctx, f, b); err != nil {
			return fmt.Errorf("could not upsert dashboard: %w", err)
		}
	}
	return nil
}
