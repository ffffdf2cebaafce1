// Package versions lists the Temporal server releases the stack can deploy and
// the admin-tools image tag that goes with each of them.
//
// See https://hub.docker.com/r/temporalio/admin-tools/tags
// and https://github.com/temporalio/temporal/releases
package versions

// ServerVersion is a temporalio/server image tag.
type ServerVersion string

const (
	V1_23_1 ServerVersion = "1.23.1"
)

// Default is the server version used when none is configured.
const Default = V1_23_1

// Supported reports whether v can be deployed.
func Supported(v ServerVersion) bool {
	switch v {
	case V1_23_1:
		return true
	}
	return false
}

// AdminTools returns the temporalio/admin-tools tag that matches the server
// version v. Unknown versions are returned unchanged.
func AdminTools(v ServerVersion) string {
	switch v {
	case V1_23_1:
		return "1.23.1.0"
	}
	return string(v)
}
