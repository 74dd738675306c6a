package models

import (
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
)

func totpModel() MFAMethodModel {
	return MFAMethodModel{
		Name:         types.StringValue("Corp TOTP"),
		Type:         types.StringValue("totp"),
		HashFunction: types.StringValue("sha-256"),
		CodeLength:   types.Int64Value(6),
	}
}

func duoModel() MFAMethodModel {
	return MFAMethodModel{
		Name:         types.StringValue("Corp Duo"),
		Type:         types.StringValue("duo_universal_prompt"),
		APIHostname:  types.StringValue("api-xxx.duosecurity.com"),
		ClientID:     types.StringValue("DIABCDEFGHIJ"),
		ClientSecret: types.StringValue("s3cret"),
	}
}

func TestBuildMFAParams(t *testing.T) {
	t.Run("totp", func(t *testing.T) {
		params, diags := totpModel().BuildMFAParams()
		if diags.HasError() {
			t.Fatalf("BuildMFAParams() diagnostics: %v", diags)
		}
		if params.Type != client.MFATypeTOTP {
			t.Errorf("type = %q, want %q", params.Type, client.MFATypeTOTP)
		}
		if params.HashFunction != "2" || params.CodeLength != "6" {
			t.Errorf("params = %+v, want hash_function=2 code_length=6", params)
		}
		if params.APIHostname != "" || params.ClientSecret != "" {
			t.Errorf("TOTP params carry Duo fields: %+v", params)
		}
	})

	t.Run("duo", func(t *testing.T) {
		params, diags := duoModel().BuildMFAParams()
		if diags.HasError() {
			t.Fatalf("BuildMFAParams() diagnostics: %v", diags)
		}
		if params.Type != client.MFATypeDuo {
			t.Errorf("type = %q, want %q", params.Type, client.MFATypeDuo)
		}
		if params.ClientSecret != "s3cret" {
			t.Errorf("client secret not carried: %+v", params)
		}
	})

	t.Run("totp missing code length", func(t *testing.T) {
		m := totpModel()
		m.CodeLength = types.Int64Null()
		if _, diags := m.BuildMFAParams(); !diags.HasError() {
			t.Error("BuildMFAParams() accepted totp without code_length")
		}
	})

	t.Run("duo missing secret", func(t *testing.T) {
		m := duoModel()
		m.ClientSecret = types.StringNull()
		if _, diags := m.BuildMFAParams(); !diags.HasError() {
			t.Error("BuildMFAParams() accepted duo without client_secret")
		}
	})

	t.Run("cross-variant attributes rejected", func(t *testing.T) {
		m := totpModel()
		m.APIHostname = types.StringValue("api-xxx.duosecurity.com")
		if _, diags := m.BuildMFAParams(); !diags.HasError() {
			t.Error("BuildMFAParams() accepted api_hostname on a totp method")
		}
	})
}

func TestMFAChanged(t *testing.T) {
	t.Run("totp equal is unchanged", func(t *testing.T) {
		current := &client.MFAMethod{Name: "Corp TOTP", Type: client.MFATypeTOTP, HashFunction: "2", CodeLength: "6"}
		desired, _ := totpModel().BuildMFAParams()
		if MFAChanged(current, desired) {
			t.Error("MFAChanged() = true for identical TOTP method")
		}
	})

	t.Run("totp hash function differs", func(t *testing.T) {
		current := &client.MFAMethod{Name: "Corp TOTP", Type: client.MFATypeTOTP, HashFunction: "1", CodeLength: "6"}
		desired, _ := totpModel().BuildMFAParams()
		if !MFAChanged(current, desired) {
			t.Error("MFAChanged() = false for differing hash function")
		}
	})

	t.Run("totp code length differs", func(t *testing.T) {
		current := &client.MFAMethod{Name: "Corp TOTP", Type: client.MFATypeTOTP, HashFunction: "2", CodeLength: "8"}
		desired, _ := totpModel().BuildMFAParams()
		if !MFAChanged(current, desired) {
			t.Error("MFAChanged() = false for differing code length")
		}
	})

	t.Run("duo always changed", func(t *testing.T) {
		// Secrets are never returned, so equality is unverifiable.
		current := &client.MFAMethod{
			Name: "Corp Duo", Type: client.MFATypeDuo,
			APIHostname: "api-xxx.duosecurity.com", ClientID: "DIABCDEFGHIJ",
		}
		desired, _ := duoModel().BuildMFAParams()
		if !MFAChanged(current, desired) {
			t.Error("MFAChanged() = false for Duo method, want unconditionally true")
		}
	})
}
