package main

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/ec2"
	"github.com/pulumi/pulumi-eks/sdk/go/eks"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/deployport/pulumi-temporal-k8s/utils"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		cfg := config.New(ctx, "")

		envStackName := cfg.Require("EnvironmentStackName")
		envStackRef, err := pulumi.NewStackReference(ctx, envStackName, nil)
		if err != nil {
			return err
		}

		nodes := cfg.GetInt("NodeCount")
		if nodes == 0 {
			nodes = 3
		}

		args := &eks.ClusterArgs{
			VpcId:                        utils.GetStackStringOutput(envStackRef, "VpcId"),
			PublicSubnetIds:              utils.GetStackStringArrayOutput(envStackRef, "PublicSubnetIds"),
			PrivateSubnetIds:             utils.GetStackStringArrayOutput(envStackRef, "PrivateSubnetIds"),
			NodeAssociatePublicIpAddress: pulumi.BoolRef(false),
			DesiredCapacity:              pulumi.Int(nodes),
			MinSize:                      pulumi.Int(nodes),
			MaxSize:                      pulumi.Int(nodes),
		}
		if instanceType := cfg.Get("NodeInstanceType"); instanceType != "" {
			args.InstanceType = pulumi.String(instanceType)
		}

		cluster, err := eks.NewCluster(ctx, ctx.Stack(), args)
		if err != nil {
			return err
		}

		nodeSecurityGroupID := cluster.NodeSecurityGroup.ApplyT(func(sg *ec2.SecurityGroup) pulumi.StringOutput {
			return sg.ID().ToStringOutput()
		}).(pulumi.StringOutput)

		ctx.Export("kubeconfig", pulumi.ToSecret(cluster.Kubeconfig))
		ctx.Export("NodeSecurityGroupId", nodeSecurityGroupID)
		return nil
	})
}
