// Package stack assembles every object of a Temporal deployment from one
// Configuration.
package stack

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/deployport/pulumi-temporal-k8s/configmaps"
	"github.com/deployport/pulumi-temporal-k8s/dashboards"
	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/objectmeta"
	"github.com/deployport/pulumi-temporal-k8s/stackconfig"
	"github.com/deployport/pulumi-temporal-k8s/workloads"
)

// Stack is the full object graph of one deployment.
type Stack struct {
	Name      naming.Name
	Config    stackconfig.Configuration
	Placement objectmeta.Placement

	Credentials      configmaps.Secret
	ServerConfig     configmaps.ConfigMap
	DynamicConfig    configmaps.ConfigMap
	InitScripts      configmaps.ConfigMap
	ServerDeployment workloads.Deployment
	ServerService    workloads.Service
	ServerJob        workloads.Job
	UIDeployment     workloads.Deployment
	UIService        workloads.Service

	// Dashboard is nil unless the configuration asks for it.
	Dashboard *configmaps.ConfigMap
}

// Build validates cfg and generates the stack. Nothing is built when the
// configuration is invalid.
func Build(cfg stackconfig.Configuration, p objectmeta.Placement) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &Stack{
		Name:      cfg.Name,
		Config:    cfg,
		Placement: p,
	}
	c := &s.Config

	var err error
	s.Credentials = configmaps.DatabaseCredentials(c, p)
	if s.ServerConfig, err = configmaps.ServerConfigTemplate(s.Name, c, p); err != nil {
		return nil, err
	}
	s.DynamicConfig = configmaps.DynamicConfig(s.Name, p)
	if s.InitScripts, err = configmaps.InitScripts(c, p); err != nil {
		return nil, err
	}

	s.ServerDeployment, err = workloads.ServerDeployment(workloads.ServerDeploymentInput{
		Config:        c,
		Credentials:   s.Credentials,
		ServerConfig:  s.ServerConfig,
		DynamicConfig: s.DynamicConfig,
		InitScripts:   s.InitScripts,
	}, p)
	if err != nil {
		return nil, err
	}
	s.ServerService = workloads.ServerService(c.Frontend, s.ServerDeployment, p)
	s.ServerJob = workloads.ServerJob(c, s.ServerService, s.InitScripts, p)
	s.UIDeployment = workloads.UIDeployment(s.Name, c, s.ServerService, p)
	s.UIService = workloads.UIService(s.Name, s.UIDeployment, p)

	if c.Dashboard {
		cm, err := dashboards.ConfigMap(c, p)
		if err != nil {
			return nil, err
		}
		s.Dashboard = &cm
	}

	return s, nil
}

// ConfigMaps are the ConfigMaps the server Deployment depends on.
func (s *Stack) ConfigMaps() []configmaps.ConfigMap {
	return []configmaps.ConfigMap{s.InitScripts, s.ServerConfig, s.DynamicConfig}
}

// Objects lists every object in the order it should be applied.
func (s *Stack) Objects() []runtime.Object {
	objs := []runtime.Object{
		s.Credentials.Object,
		s.ServerConfig.Object,
		s.DynamicConfig.Object,
		s.InitScripts.Object,
		s.ServerDeployment.Object,
		s.ServerService.Object,
		s.ServerJob.Object,
		s.UIDeployment.Object,
		s.UIService.Object,
	}
	if s.Dashboard != nil {
		objs = append(objs, s.Dashboard.Object)
	}
	return objs
}
