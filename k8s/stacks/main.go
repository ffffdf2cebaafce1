package main

import (
	k8s "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/provision"
	"github.com/deployport/pulumi-temporal-k8s/stack"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
	"github.com/deployport/pulumi-temporal-k8s/utils"
)

func main() {
	pulumi.Run(run)
}

// loadConfiguration reads the Temporal settings from the config namespace named
// after the root name, as in `pulumi config set temporal:databaseHost ...` for
// the default root.
func loadConfiguration(ctx *pulumi.Context, cfg *config.Config) stackconfig.Configuration {
	rootName := cfg.Get("Name")
	if rootName == "" {
		rootName = stackconfig.DefaultRootName
	}
	return stackconfig.New(naming.New(rootName), config.New(ctx, rootName))
}

func run(ctx *pulumi.Context) error {
	cfg := config.New(ctx, "")
	temporal := loadConfiguration(ctx, cfg)

	if persistenceStackName := cfg.Get("PersistenceStackName"); persistenceStackName != "" && temporal.Persistence.Host == "" {
		persistenceStackRef, err := pulumi.NewStackReference(ctx, persistenceStackName, nil)
		if err != nil {
			return err
		}
		if temporal.Persistence.Host, err = utils.GetStackStringValue(persistenceStackRef, "databaseHost"); err != nil {
			return err
		}
		ctx.Log.Info("database host read from stack "+persistenceStackName, nil)
	}

	var opts []pulumi.ResourceOption
	if clusterStackName := cfg.Get("ClusterStackName"); clusterStackName != "" {
		clusterStackRef, err := pulumi.NewStackReference(ctx, clusterStackName, nil)
		if err != nil {
			return err
		}
		k8sCluster, err := k8s.NewProvider(ctx, clusterStackName, &k8s.ProviderArgs{
			Kubeconfig: utils.Kubeconfig(clusterStackRef.GetOutput(pulumi.String("kubeconfig"))),
		})
		if err != nil {
			return err
		}
		opts = append(opts, pulumi.ProviderMap(map[string]pulumi.ProviderResource{
			"kubernetes": k8sCluster,
		}))
	}

	s, err := stack.Build(temporal, objectmeta.Placement{Namespace: cfg.Get("KubernetesNamespace")})
	if err != nil {
		return err
	}
	ctx.Log.Debug("server config checksum "+s.ServerDeployment.ConfigChecksum, nil)

	if _, err := provision.Stack(ctx, s, opts...); err != nil {
		return err
	}

	ctx.Export("frontendAddress", pulumi.Sprintf("%s:%d", s.ServerService.Name, s.ServerService.Port))
	ctx.Export("uiService", pulumi.String(s.UIService.Name.String()))
	ctx.Export("configChecksum", pulumi.String(s.ServerDeployment.ConfigChecksum))
	return nil
}
