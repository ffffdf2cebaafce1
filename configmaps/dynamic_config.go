package configmaps

import (
	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
)

// DynamicConfigKey is the dynamic config file name.
const DynamicConfigKey = "dynamic_config.yaml"

const dynamicConfig = `
frontend.limit.blobSize.error:
  - value: 3670016
frontend.workerVersioningDataAPIs:
  - value: true
frontend.workerVersioningWorkflowAPIs:
  - value: true
worker.buildIdScavengerEnabled:
  - value: true
`

// DynamicConfig builds the ConfigMap holding the server's dynamic config.
func DynamicConfig(parent naming.Name, p objectmeta.Placement) ConfigMap {
	return New(parent, parent.Sub("dynamicconfig-configmap"), "dynamicconfig", p, map[string]string{
		DynamicConfigKey: dynamicConfig,
	})
}
