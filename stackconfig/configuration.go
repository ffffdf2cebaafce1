// Package stackconfig holds the settings a Temporal stack is generated from.
package stackconfig

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/versions"
)

// Recognized settings keys.
const (
	KeyDatabaseMaxConnLifetime = "databaseMaxConnLifetime"
	KeyDatabaseMaxIdleConns    = "databaseMaxIdleConns"
	KeyDatabaseMaxConns        = "databaseMaxConns"
	KeyDatabaseDefaultName     = "databaseDefaultName"
	KeyDatabaseVisibilityName  = "databaseVisibilityName"
	KeyDatabaseUsername        = "databaseUsername"
	KeyDatabasePassword        = "databasePassword"
	KeyDatabaseHost            = "databaseHost"
	KeyDatabasePort            = "databasePort"
	KeyNumHistoryShards        = "numHistoryShards"
	KeyLogLevel                = "logLevel"
	KeyVersion                 = "version"
	KeyUIVersion               = "uiVersion"
	KeyAdminToolsVersion       = "adminToolsVersion"
	KeyAdditionalNamespaces    = "additionalNamespaces"
	KeyUICORSOrigins           = "uiCorsOrigins"
	KeyUICSRFCookieInsecure    = "uiCsrfCookieInsecure"
	KeyGrafanaDashboard        = "grafanaDashboard"
)

// Defaults for settings that are not provided.
const (
	DefaultRootName               = "temporal"
	DefaultMaxConnLifetime        = "2m"
	DefaultMaxIdleConns           = 10
	DefaultMaxConns               = 100
	DefaultDatabaseName           = "temporal"
	DefaultVisibilityDatabaseName = "temporal_visibility"
	DefaultDatabasePort           = 5432
	DefaultNumHistoryShards       = 512
	DefaultLogLevel               = "debug,info"
	DefaultUIVersion              = "2.29.2"
	DefaultUIPort                 = 80

	// DefaultNamespace is always registered, ahead of any additional namespace.
	DefaultNamespace = "default"
)

// ConnPool bounds the connections the server keeps to one database.
type ConnPool struct {
	// MaxConnLifetime is a Go duration such as 10m or 1h.
	MaxConnLifetime string `json:"maxConnLifetime"`
	MaxIdleConns    int    `json:"maxIdleConns"`
	MaxConns        int    `json:"maxConns"`
}

// DatabaseConn is one of the two databases the server uses.
type DatabaseConn struct {
	ConnPool     ConnPool `json:"connPool"`
	DatabaseName string   `json:"databaseName"`
}

// Persistence describes the Postgres server shared by both databases.
type Persistence struct {
	Default    DatabaseConn `json:"default"`
	Visibility DatabaseConn `json:"visibility"`
	Username   string       `json:"username"`
	Password   string       `json:"password"`
	Host       string       `json:"host"`
	Port       int          `json:"port"`
}

// Ports are the ports one Temporal service listens on.
type Ports struct {
	MembershipPort int `json:"membershipPort"`
	ServicePort    int `json:"servicePort"`
}

// Frontend is the client facing service; ServiceName is the Kubernetes
// Service clients dial.
type Frontend struct {
	Ports
	ServiceName naming.Name `json:"serviceName"`
}

// UI configures the Temporal Web UI.
type UI struct {
	CORSOrigins        []string `json:"corsOrigins"`
	CSRFCookieInsecure bool     `json:"csrfCookieInsecure"`
	Port               int      `json:"port"`
	Version            string   `json:"version"`
}

// Configuration is the complete set of inputs of a stack. It is built once by
// New and not changed afterwards; see WithAdminToolsVersion.
type Configuration struct {
	Name                      naming.Name            `json:"name"`
	Persistence               Persistence            `json:"persistence"`
	Frontend                  Frontend               `json:"frontend"`
	History                   Ports                  `json:"history"`
	Matching                  Ports                  `json:"matching"`
	Worker                    Ports                  `json:"worker"`
	NumHistoryShards          int                    `json:"numHistoryShards"`
	LogLevel                  string                 `json:"logLevel"`
	Version                   versions.ServerVersion `json:"version"`
	ExplicitAdminToolsVersion string                 `json:"explicitAdminToolsVersion"`
	UI                        UI                     `json:"ui"`
	// AdditionalNamespaces are registered on startup next to the default one.
	AdditionalNamespaces []string `json:"additionalNamespaces"`
	// Dashboard adds a Grafana dashboard ConfigMap to the stack.
	Dashboard bool `json:"dashboard"`
}

// New reads a Configuration from src, using defaults for every missing key.
func New(name naming.Name, src Source) Configuration {
	pool := ConnPool{
		MaxConnLifetime: stringOr(src.Get(KeyDatabaseMaxConnLifetime), DefaultMaxConnLifetime),
		MaxIdleConns:    intOr(src.GetInt(KeyDatabaseMaxIdleConns), DefaultMaxIdleConns),
		MaxConns:        intOr(src.GetInt(KeyDatabaseMaxConns), DefaultMaxConns),
	}

	return Configuration{
		Name: name,
		Persistence: Persistence{
			Default: DatabaseConn{
				ConnPool:     pool,
				DatabaseName: stringOr(src.Get(KeyDatabaseDefaultName), DefaultDatabaseName),
			},
			Visibility: DatabaseConn{
				ConnPool:     pool,
				DatabaseName: stringOr(src.Get(KeyDatabaseVisibilityName), DefaultVisibilityDatabaseName),
			},
			Username: src.Get(KeyDatabaseUsername),
			Password: src.Get(KeyDatabasePassword),
			Host:     src.Get(KeyDatabaseHost),
			Port:     intOr(src.GetInt(KeyDatabasePort), DefaultDatabasePort),
		},
		Frontend: Frontend{
			Ports:       Ports{MembershipPort: 6933, ServicePort: 7233},
			ServiceName: name,
		},
		History:                   Ports{MembershipPort: 6934, ServicePort: 7234},
		Matching:                  Ports{MembershipPort: 6935, ServicePort: 7235},
		Worker:                    Ports{MembershipPort: 6939, ServicePort: 7239},
		NumHistoryShards:          intOr(src.GetInt(KeyNumHistoryShards), DefaultNumHistoryShards),
		LogLevel:                  stringOr(src.Get(KeyLogLevel), DefaultLogLevel),
		Version:                   versions.ServerVersion(stringOr(src.Get(KeyVersion), string(versions.Default))),
		ExplicitAdminToolsVersion: src.Get(KeyAdminToolsVersion),
		UI: UI{
			CORSOrigins:        splitList(src.Get(KeyUICORSOrigins)),
			CSRFCookieInsecure: src.GetBool(KeyUICSRFCookieInsecure),
			Port:               DefaultUIPort,
			Version:            stringOr(src.Get(KeyUIVersion), DefaultUIVersion),
		},
		AdditionalNamespaces: splitList(src.Get(KeyAdditionalNamespaces)),
		Dashboard:            src.GetBool(KeyGrafanaDashboard),
	}
}

// Checksum is the sha256 of the configuration's JSON form. Field order follows
// the struct declarations and map keys are sorted, so equal configurations
// always hash the same.
func (c *Configuration) Checksum() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to serialize configuration: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// AdminToolsVersion is the temporalio/admin-tools tag to run. An explicit
// version wins over the one inferred from the server version.
func (c *Configuration) AdminToolsVersion() string {
	if c.ExplicitAdminToolsVersion != "" {
		return c.ExplicitAdminToolsVersion
	}
	return versions.AdminTools(c.Version)
}

// WithAdminToolsVersion returns a copy of c pinned to admin-tools version v.
func (c Configuration) WithAdminToolsVersion(v string) Configuration {
	c.ExplicitAdminToolsVersion = v
	return c
}

// Namespaces lists the Temporal namespaces to register, default first and
// without duplicates.
func (c *Configuration) Namespaces() []string {
	out := []string{DefaultNamespace}
	seen := map[string]bool{DefaultNamespace: true}
	for _, ns := range c.AdditionalNamespaces {
		if seen[ns] {
			continue
		}
		seen[ns] = true
		out = append(out, ns)
	}
	return out
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
