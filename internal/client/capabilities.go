package client

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"
)

// Capabilities describes the behaviors of the connected server that vary by
// API version. It is resolved once per provider configuration and threaded
// into every resource; nothing compares version strings inline.
type Capabilities struct {
	// MaintenanceObjectLists selects the maintenance association payload
	// shape: {hostid}/{groupid} record lists from 6.2, flat id lists
	// before that.
	MaintenanceObjectLists bool

	// MFAMethods is true when the server supports the MFA method API
	// (7.0 and later).
	MFAMethods bool

	// BearerAuth selects the Authorization header over the legacy
	// request-body auth field (6.4 and later).
	BearerAuth bool
}

var (
	versionMaintenanceObjectLists = goversion.Must(goversion.NewVersion("6.2"))
	versionBearerAuth             = goversion.Must(goversion.NewVersion("6.4"))
	versionMFAMethods             = goversion.Must(goversion.NewVersion("7.0"))
)

// MFAMinimumVersion is the first release with the MFA method API, used in
// unsupported-version errors.
const MFAMinimumVersion = "7.0"

// ResolveCapabilities parses the reported API version string and derives the
// capability set.
func ResolveCapabilities(apiVersion string) (Capabilities, *goversion.Version, error) {
	ver, err := goversion.NewVersion(apiVersion)
	if err != nil {
		return Capabilities{}, nil, fmt.Errorf("unparsable API version %q: %w", apiVersion, err)
	}
	return Capabilities{
		MaintenanceObjectLists: ver.GreaterThanOrEqual(versionMaintenanceObjectLists),
		BearerAuth:             ver.GreaterThanOrEqual(versionBearerAuth),
		MFAMethods:             ver.GreaterThanOrEqual(versionMFAMethods),
	}, ver, nil
}
