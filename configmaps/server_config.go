package configmaps

import (
	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

const (
	// ServerConfigKey is the file the server renders its config from.
	ServerConfigKey = "config_template.yaml"

	// DynamicConfigPath is where the dynamic config ConfigMap is mounted.
	DynamicConfigPath = "/etc/temporal/dynamic_config"

	// MetricsPort serves Prometheus metrics when the dashboard is enabled.
	MetricsPort = 9090

	sqlPluginName = "postgres12"
)

var serverConfigTemplate = newTemplate(ServerConfigKey, `
log:
  stdout: true
  level: "[[ .LogLevel ]]"
persistence:
  defaultStore: default
  visibilityStore: visibility
  numHistoryShards: [[ .NumHistoryShards ]]
  datastores:
    default:
      sql:
        pluginName: "[[ $.Plugin ]]"
        driverName: "[[ $.Plugin ]]"
        databaseName: "{{ .Env.DBNAME }}"
        connectAddr: "{{ .Env.POSTGRES_SEEDS }}:{{ .Env.DB_PORT }}"
        connectProtocol: "tcp"
        user: "{{ .Env.POSTGRES_USER }}"
        password: "{{ .Env.POSTGRES_PWD }}"
        maxConnLifetime: "[[ .Persistence.Default.ConnPool.MaxConnLifetime ]]"
        maxIdleConns: [[ .Persistence.Default.ConnPool.MaxIdleConns ]]
        maxConns: [[ .Persistence.Default.ConnPool.MaxConns ]]
        tls:
          enabled: {{ .Env.SQL_TLS }}
          enableHostVerification: {{ .Env.SQL_TLS_ENABLE_HOST_VERIFICATION }}
    visibility:
      sql:
        pluginName: "[[ $.Plugin ]]"
        driverName: "[[ $.Plugin ]]"
        databaseName: "{{ .Env.VISIBILITY_DBNAME }}"
        connectAddr: "{{ .Env.POSTGRES_SEEDS }}:{{ .Env.DB_PORT }}"
        connectProtocol: "tcp"
        user: "{{ .Env.POSTGRES_USER }}"
        password: "{{ .Env.POSTGRES_PWD }}"
        maxConnLifetime: "[[ .Persistence.Visibility.ConnPool.MaxConnLifetime ]]"
        maxIdleConns: [[ .Persistence.Visibility.ConnPool.MaxIdleConns ]]
        maxConns: [[ .Persistence.Visibility.ConnPool.MaxConns ]]
        tls:
          enabled: {{ .Env.SQL_TLS }}
          enableHostVerification: {{ .Env.SQL_TLS_ENABLE_HOST_VERIFICATION }}
global:
  membership:
    name: temporal
    maxJoinDuration: 30s
    broadcastAddress: "{{ default .Env.POD_IP "0.0.0.0" }}"
  pprof:
    port: 7936
[[- if .Dashboard ]]
  metrics:
    prometheus:
      timerType: "histogram"
      listenAddress: "0.0.0.0:[[ $.MetricsPort ]]"
[[- end ]]
services:
  frontend:
    rpc:
      grpcPort: [[ .Frontend.ServicePort ]]
      membershipPort: [[ .Frontend.MembershipPort ]]
      bindOnIP: "0.0.0.0"
  history:
    rpc:
      grpcPort: [[ .History.ServicePort ]]
      membershipPort: [[ .History.MembershipPort ]]
      bindOnIP: "0.0.0.0"
  matching:
    rpc:
      grpcPort: [[ .Matching.ServicePort ]]
      membershipPort: [[ .Matching.MembershipPort ]]
      bindOnIP: "0.0.0.0"
  worker:
    rpc:
      grpcPort: [[ .Worker.ServicePort ]]
      membershipPort: [[ .Worker.MembershipPort ]]
      bindOnIP: "0.0.0.0"
clusterMetadata:
  enableGlobalDomain: false
  failoverVersionIncrement: 10
  masterClusterName: "active"
  currentClusterName: "active"
  clusterInformation:
    active:
      enabled: true
      initialFailoverVersion: 1
      rpcName: "temporal-frontend"
      rpcAddress: "127.0.0.1:7933"
dcRedirectionPolicy:
  policy: "noop"
  toDC: ""
archival:
  status: "disabled"
publicClient:
  hostPort: "0.0.0.0:[[ .Frontend.ServicePort ]]"
dynamicConfigClient:
  filepath: "`+DynamicConfigPath+`/`+DynamicConfigKey+`"
  pollInterval: "30s"
`)

type serverConfigData struct {
	*stackconfig.Configuration
	Plugin      string
	MetricsPort int
}

// ServerConfigTemplate builds the ConfigMap holding the server's
// config_template.yaml. Database coordinates stay as placeholders the server
// fills in from its environment; everything else comes from cfg.
func ServerConfigTemplate(parent naming.Name, cfg *stackconfig.Configuration, p objectmeta.Placement) (ConfigMap, error) {
	text, err := render(serverConfigTemplate, serverConfigData{Configuration: cfg, Plugin: sqlPluginName, MetricsPort: MetricsPort})
	if err != nil {
		return ConfigMap{}, err
	}
	return New(cfg.Name, parent.Sub("config"), "config", p, map[string]string{
		ServerConfigKey: text,
	}), nil
}
