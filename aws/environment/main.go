package main

import (
	"github.com/pulumi/pulumi-aws/sdk/v5/go/aws"
	"github.com/pulumi/pulumi-awsx/sdk/go/awsx/ec2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

// vpcAvailabilityZones matches the number of zones awsx spreads a VPC across
// by default.
const vpcAvailabilityZones = 3

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		cfg := config.New(ctx, "")
		name := cfg.Get("VpcName")
		if name == "" {
			name = "temporal"
		}

		zones, err := aws.GetAvailabilityZones(ctx, &aws.GetAvailabilityZonesArgs{
			State: pulumi.StringRef("available"),
		})
		if err != nil {
			return err
		}
		names := zones.Names
		if len(names) > vpcAvailabilityZones {
			names = names[:vpcAvailabilityZones]
		}

		vpc, err := ec2.NewVpc(ctx, name, &ec2.VpcArgs{})
		if err != nil {
			return err
		}

		ctx.Export("VpcId", vpc.VpcId)
		ctx.Export("PrivateSubnetIds", vpc.PrivateSubnetIds)
		ctx.Export("PublicSubnetIds", vpc.PublicSubnetIds)
		ctx.Export("AvailabilityZones", pulumi.ToStringArray(names))

		return nil
	})
}
