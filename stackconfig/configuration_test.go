package stackconfig

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deployport/pulumi-temporal-k8s/naming"
	"github.com/deployport/pulumi-temporal-k8s/versions"
)

func validSettings() Map {
	return Map{
		KeyDatabaseDefaultName:    "temporal",
		KeyDatabaseVisibilityName: "temporal_visibility",
		KeyDatabaseUsername:       "u",
		KeyDatabasePassword:       "p",
		KeyDatabaseHost:           "db.internal",
		KeyVersion:                "1.23.1",
	}
}

func TestNewDefaults(t *testing.T) {
	cfg := New(naming.New(DefaultRootName), Map{})

	assert.Equal(t, "temporal", cfg.Name.String())
	assert.Equal(t, "2m", cfg.Persistence.Default.ConnPool.MaxConnLifetime)
	assert.Equal(t, 10, cfg.Persistence.Default.ConnPool.MaxIdleConns)
	assert.Equal(t, 100, cfg.Persistence.Visibility.ConnPool.MaxConns)
	assert.Equal(t, "temporal", cfg.Persistence.Default.DatabaseName)
	assert.Equal(t, "temporal_visibility", cfg.Persistence.Visibility.DatabaseName)
	assert.Equal(t, 5432, cfg.Persistence.Port)
	assert.Equal(t, 512, cfg.NumHistoryShards)
	assert.Equal(t, "debug,info", cfg.LogLevel)
	assert.Equal(t, versions.V1_23_1, cfg.Version)
	assert.Equal(t, "2.29.2", cfg.UI.Version)
	assert.Equal(t, 80, cfg.UI.Port)
	assert.False(t, cfg.UI.CSRFCookieInsecure)
	assert.Empty(t, cfg.UI.CORSOrigins)
	assert.Empty(t, cfg.AdditionalNamespaces)

	assert.Equal(t, Ports{MembershipPort: 6933, ServicePort: 7233}, cfg.Frontend.Ports)
	assert.Equal(t, "temporal", cfg.Frontend.ServiceName.String())
	assert.Equal(t, Ports{MembershipPort: 6934, ServicePort: 7234}, cfg.History)
	assert.Equal(t, Ports{MembershipPort: 6935, ServicePort: 7235}, cfg.Matching)
	assert.Equal(t, Ports{MembershipPort: 6939, ServicePort: 7239}, cfg.Worker)
}

func TestNewFromSource(t *testing.T) {
	src := validSettings()
	src[KeyDatabaseMaxConns] = "20"
	src[KeyDatabasePort] = "6543"
	src[KeyNumHistoryShards] = "4"
	src[KeyAdditionalNamespaces] = "orders, billing,,"
	src[KeyUICORSOrigins] = "https://a.example,https://b.example"
	src[KeyUICSRFCookieInsecure] = "true"

	cfg := New(naming.New("tmprl"), src)

	assert.Equal(t, 20, cfg.Persistence.Default.ConnPool.MaxConns)
	assert.Equal(t, 20, cfg.Persistence.Visibility.ConnPool.MaxConns)
	assert.Equal(t, 6543, cfg.Persistence.Port)
	assert.Equal(t, 4, cfg.NumHistoryShards)
	assert.Equal(t, []string{"orders", "billing"}, cfg.AdditionalNamespaces)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.UI.CORSOrigins)
	assert.True(t, cfg.UI.CSRFCookieInsecure)
	assert.Equal(t, "tmprl", cfg.Frontend.ServiceName.String())
}

func TestNewFromViper(t *testing.T) {
	v := viper.New()
	v.Set(KeyDatabaseHost, "db.internal")
	v.Set(KeyNumHistoryShards, 16)
	v.Set(KeyGrafanaDashboard, true)

	cfg := New(naming.New(DefaultRootName), Viper(v))

	assert.Equal(t, "db.internal", cfg.Persistence.Host)
	assert.Equal(t, 16, cfg.NumHistoryShards)
	assert.True(t, cfg.Dashboard)
}

func TestNewFromViperLists(t *testing.T) {
	v := viper.New()
	v.Set(KeyAdditionalNamespaces, []interface{}{"orders", "billing"})
	v.Set(KeyUICORSOrigins, []string{"https://a.example", "https://b.example"})

	cfg := New(naming.New(DefaultRootName), Viper(v))

	assert.Equal(t, []string{"orders", "billing"}, cfg.AdditionalNamespaces)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.UI.CORSOrigins)
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(Map)
		wantErr error
	}{
		"valid": {
			mutate: func(Map) {},
		},
		"same database names": {
			mutate:  func(m Map) { m[KeyDatabaseVisibilityName] = "temporal" },
			wantErr: ErrDuplicateDatabaseName,
		},
		"missing username": {
			mutate:  func(m Map) { delete(m, KeyDatabaseUsername) },
			wantErr: ErrMissingUsername,
		},
		"missing password": {
			mutate:  func(m Map) { delete(m, KeyDatabasePassword) },
			wantErr: ErrMissingPassword,
		},
		"missing host": {
			mutate:  func(m Map) { delete(m, KeyDatabaseHost) },
			wantErr: ErrMissingHost,
		},
		"unsupported version": {
			mutate:  func(m Map) { m[KeyVersion] = "1.20.0" },
			wantErr: ErrUnsupportedVersion,
		},
		"invalid namespace": {
			mutate:  func(m Map) { m[KeyAdditionalNamespaces] = `ok,"bad ns"` },
			wantErr: ErrInvalidNamespace,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			src := validSettings()
			tc.mutate(src)
			cfg := New(naming.New(DefaultRootName), src)

			err := cfg.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := New(naming.New(DefaultRootName), Map{KeyDatabaseVisibilityName: "temporal"})

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []error{ErrDuplicateDatabaseName, ErrMissingUsername, ErrMissingPassword, ErrMissingHost} {
		assert.ErrorIs(t, err, want)
	}
	assert.NotErrorIs(t, err, ErrUnsupportedVersion)
}

func TestAdminToolsVersion(t *testing.T) {
	known := New(naming.New(DefaultRootName), validSettings())
	assert.Equal(t, "1.23.1.0", known.AdminToolsVersion())

	unknown := New(naming.New(DefaultRootName), Map{KeyVersion: "1.24.0"})
	assert.Equal(t, "1.24.0", unknown.AdminToolsVersion())

	pinned := known.WithAdminToolsVersion("1.23.1.1")
	assert.Equal(t, "1.23.1.1", pinned.AdminToolsVersion())
	assert.Equal(t, "1.23.1.0", known.AdminToolsVersion(), "original must not change")

	fromSource := New(naming.New(DefaultRootName), Map{KeyAdminToolsVersion: "custom"})
	assert.Equal(t, "custom", fromSource.AdminToolsVersion())
}

func TestChecksum(t *testing.T) {
	a := New(naming.New(DefaultRootName), validSettings())
	b := New(naming.New(DefaultRootName), validSettings())

	sumA, err := a.Checksum()
	require.NoError(t, err)
	sumB, err := b.Checksum()
	require.NoError(t, err)
	assert.Equal(t, sumA, sumB)
	assert.Len(t, sumA, 64)

	changed := validSettings()
	changed[KeyUIVersion] = "2.30.0"
	c := New(naming.New(DefaultRootName), changed)
	sumC, err := c.Checksum()
	require.NoError(t, err)
	assert.NotEqual(t, sumA, sumC)
}

func TestNamespaces(t *testing.T) {
	src := validSettings()
	src[KeyAdditionalNamespaces] = "orders,default,orders,billing"
	cfg := New(naming.New(DefaultRootName), src)

	assert.Equal(t, []string{"default", "orders", "billing"}, cfg.Namespaces())
}
