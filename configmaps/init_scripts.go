package configmaps

import (
	"strconv"
	"strings"

	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
)

// Script file names inside the init ConfigMap.
const (
	InitSchemaScript       = "init.sh"
	CreateNamespacesScript = "create-default-ns.sh"

	// InitScriptsPath is where the init ConfigMap is mounted.
	InitScriptsPath = "/temporal-init/"

	schemaDirName = "v12"

	// defaultNamespaceRetention is in days.
	defaultNamespaceRetention = 1
)

var initSchemaTemplate = newTemplate(InitSchemaScript, `#!/bin/bash
set -e
export SQL_USER="${POSTGRES_USER}"
export SQL_PASSWORD="${POSTGRES_PWD}"

echo "main database schema"
temporal-sql-tool --plugin postgres --ep "${POSTGRES_SEEDS}" -u "${POSTGRES_USER}" -p "${DB_PORT}" --db "${DBNAME}" setup-schema -v 0.0
export SCHEMA_DIR=/etc/temporal/schema/postgresql/[[ .SchemaDir ]]/temporal/versioned
temporal-sql-tool --plugin postgres --ep "${POSTGRES_SEEDS}" -u "${POSTGRES_USER}" -p "${DB_PORT}" --db "${DBNAME}" update-schema -d "${SCHEMA_DIR}"

echo "visibility database schema"
export VISIBILITY_SCHEMA_DIR=/etc/temporal/schema/postgresql/[[ .SchemaDir ]]/visibility/versioned
temporal-sql-tool --plugin postgres --ep "${POSTGRES_SEEDS}" -u "${POSTGRES_USER}" -p "${DB_PORT}" --db "${VISIBILITY_DBNAME}" setup-schema -v 0.0
temporal-sql-tool --plugin postgres --ep "${POSTGRES_SEEDS}" -u "${POSTGRES_USER}" -p "${DB_PORT}" --db "${VISIBILITY_DBNAME}" update-schema -d "${VISIBILITY_SCHEMA_DIR}"

echo "ok"
`)

var createNamespacesTemplate = newTemplate(CreateNamespacesScript, `#!/bin/bash
set -e

export TEMPORAL_CLI_ADDRESS="[[ .Address ]]"
export DEFAULT_NAMESPACE_RETENTION="[[ .RetentionDays ]]"

register_namespace() {
  local namespace=$1
  echo "Registering namespace: ${namespace}."
  if ! tctl --ns "${namespace}" namespace describe; then
    echo "Namespace ${namespace} not found. Creating..."
    tctl --ns "${namespace}" namespace register --rd "${DEFAULT_NAMESPACE_RETENTION}" --desc "Namespace for Temporal Server."
    echo "Namespace ${namespace} registration complete."
  else
    echo "Namespace ${namespace} already registered."
  fi
}

namespaces=([[ shellWords .Namespaces ]])
for namespace in "${namespaces[@]}"; do
  register_namespace "${namespace}"
done

echo "ok"
`)

// InitScripts builds the ConfigMap with the schema setup script run by the
// server's init container and the namespace registration script run by the
// server Job.
func InitScripts(cfg *stackconfig.Configuration, p objectmeta.Placement) (ConfigMap, error) {
	schema, err := render(initSchemaTemplate, struct{ SchemaDir string }{SchemaDir: schemaDirName})
	if err != nil {
		return ConfigMap{}, err
	}

	namespaces, err := render(createNamespacesTemplate, struct {
		Address       string
		RetentionDays int
		Namespaces    []string
	}{
		Address:       cfg.Frontend.ServiceName.String() + ":" + strconv.Itoa(cfg.Frontend.ServicePort),
		RetentionDays: defaultNamespaceRetention,
		Namespaces:    cfg.Namespaces(),
	})
	if err != nil {
		return ConfigMap{}, err
	}

	return New(cfg.Name, cfg.Name.Sub("init-script-configmap"), "init", p, map[string]string{
		InitSchemaScript:       schema,
		CreateNamespacesScript: namespaces,
	}), nil
}

// shellWords double quotes each word for a bash array literal.
func shellWords(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = strconv.Quote(w)
	}
	return strings.Join(quoted, " ")
}
