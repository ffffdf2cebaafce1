package stackconfig

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/hashicorp/go-multierror"

	"github.com/deployport/pulumi-temporal-k8s/versions"
)

var (
	ErrDuplicateDatabaseName = errors.New("default and visibility database names must be different")
	ErrMissingUsername       = errors.New("database username must be provided")
	ErrMissingPassword       = errors.New("database password must be provided")
	ErrMissingHost           = errors.New("database host must be provided")
	ErrUnsupportedVersion    = errors.New("unsupported temporal version")
	ErrInvalidNamespace      = errors.New("invalid temporal namespace name")
)

var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Validate reports every problem that would keep the stack from working.
func (c *Configuration) Validate() error {
	var result *multierror.Error

	p := c.Persistence
	if p.Default.DatabaseName == p.Visibility.DatabaseName {
		result = multierror.Append(result, fmt.Errorf("%w: both are %q", ErrDuplicateDatabaseName, p.Default.DatabaseName))
	}
	if p.Username == "" {
		result = multierror.Append(result, ErrMissingUsername)
	}
	if p.Password == "" {
		result = multierror.Append(result, ErrMissingPassword)
	}
	if p.Host == "" {
		result = multierror.Append(result, ErrMissingHost)
	}
	if !versions.Supported(c.Version) {
		result = multierror.Append(result, fmt.Errorf("%w: %s", ErrUnsupportedVersion, c.Version))
	}
	for _, ns := range c.AdditionalNamespaces {
		if !namespacePattern.MatchString(ns) {
			result = multierror.Append(result, fmt.Errorf("%w: %q", ErrInvalidNamespace, ns))
		}
	}

	return result.ErrorOrNil()
}
