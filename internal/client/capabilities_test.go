package client

import (
	"testing"
)

func TestResolveCapabilities(t *testing.T) {
	tests := []struct {
		version string
		want    Capabilities
	}{
		{"6.0.25", Capabilities{}},
		{"6.2.0", Capabilities{MaintenanceObjectLists: true}},
		{"6.4.8", Capabilities{MaintenanceObjectLists: true, BearerAuth: true}},
		{"7.0.0", Capabilities{MaintenanceObjectLists: true, BearerAuth: true, MFAMethods: true}},
		{"7.2.1", Capabilities{MaintenanceObjectLists: true, BearerAuth: true, MFAMethods: true}},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			caps, ver, err := ResolveCapabilities(tt.version)
			if err != nil {
				t.Fatalf("ResolveCapabilities(%q) error: %v", tt.version, err)
			}
			if caps != tt.want {
				t.Errorf("ResolveCapabilities(%q) = %+v, want %+v", tt.version, caps, tt.want)
			}
			if ver.Original() != tt.version {
				t.Errorf("parsed version = %q, want %q", ver.Original(), tt.version)
			}
		})
	}
}

func TestResolveCapabilities_Unparsable(t *testing.T) {
	if _, _, err := ResolveCapabilities("not-a-version"); err == nil {
		t.Error("ResolveCapabilities(not-a-version) error = nil, want error")
	}
}
