// Command temporal-manifests renders the Kubernetes manifests of a Temporal
// stack without Pulumi, for review or for kubectl apply.
package main

import (
	"os"

	"github.com/deployport/pulumi-temporal-k8s/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Logger.Error().Err(err).Msg("failed to render manifests")
		os.Exit(1)
	}
}
