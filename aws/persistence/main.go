package main

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws/rds"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
	"github.com/deployport/pulumi-temporal-k8s/utils"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		cfg := config.New(ctx, "")

		persistenceInstance := cfg.Require("PersistenceInstance")
		username := cfg.Require("DatabaseUsername")
		password := cfg.RequireSecret("DatabasePassword")

		envStackRef, err := pulumi.NewStackReference(ctx, cfg.Require("EnvironmentStackName"), nil)
		if err != nil {
			return err
		}
		clusterStackRef, err := pulumi.NewStackReference(ctx, cfg.Require("ClusterStackName"), nil)
		if err != nil {
			return err
		}

		subnetGroup, err := rds.NewSubnetGroup(ctx, "persistence", &rds.SubnetGroupArgs{
			SubnetIds: utils.GetStackStringArrayOutput(envStackRef, "PrivateSubnetIds"),
		})
		if err != nil {
			return err
		}

		securityGroup, err := ec2.NewSecurityGroup(ctx, "persistence-node-access", &ec2.SecurityGroupArgs{
			VpcId: utils.GetStackStringOutput(envStackRef, "VpcId"),
		})
		if err != nil {
			return err
		}

		_, err = ec2.NewSecurityGroupRule(ctx, "persistence-node-access", &ec2.SecurityGroupRuleArgs{
			Type:                  pulumi.String("ingress"),
			FromPort:              pulumi.Int(stackconfig.DefaultDatabasePort),
			ToPort:                pulumi.Int(stackconfig.DefaultDatabasePort),
			Protocol:              pulumi.String("tcp"),
			SecurityGroupId:       securityGroup.ID(),
			SourceSecurityGroupId: utils.GetStackStringOutput(clusterStackRef, "NodeSecurityGroupId"),
		})
		if err != nil {
			return err
		}

		db, err := rds.NewInstance(ctx, "persistence", &rds.InstanceArgs{
			AllocatedStorage:    pulumi.Int(100),
			Engine:              pulumi.String("postgres"),
			EngineVersion:       pulumi.String("14.4"),
			InstanceClass:       pulumi.String(persistenceInstance),
			ParameterGroupName:  pulumi.String("default.postgres14"),
			Port:                pulumi.Int(stackconfig.DefaultDatabasePort),
			Username:            pulumi.String(username),
			Password:            password,
			SkipFinalSnapshot:   pulumi.Bool(true),
			DbSubnetGroupName:   subnetGroup.Name,
			AvailabilityZone:    utils.GetStackStringArrayOutput(envStackRef, "AvailabilityZones").Index(pulumi.Int(0)),
			VpcSecurityGroupIds: pulumi.StringArray{securityGroup.ID()},
		})
		if err != nil {
			return err
		}

		ctx.Export("databaseHost", db.Address)
		ctx.Export("databasePort", db.Port)
		return nil
	})
}
