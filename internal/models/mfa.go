package models

import (
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/wire"
)

// MFAMethodModel represents the Terraform state for the zabbix_mfa_method
// resource. The attribute set is a tagged variant: TOTP methods carry
// hash_function and code_length, Duo methods carry api_hostname, client_id
// and client_secret. The secret is write-only on the API side and never
// refreshed into state.
type MFAMethodModel struct {
	ID   types.String `tfsdk:"id"`
	Name types.String `tfsdk:"name"`
	Type types.String `tfsdk:"type"`

	// TOTP variant
	HashFunction types.String `tfsdk:"hash_function"`
	CodeLength   types.Int64  `tfsdk:"code_length"`

	// Duo universal prompt variant
	APIHostname  types.String `tfsdk:"api_hostname"`
	ClientID     types.String `tfsdk:"client_id"`
	ClientSecret types.String `tfsdk:"client_secret"`
}

// BuildMFAParams assembles the write payload, validating that the attributes
// required by the chosen variant are present and that attributes of the
// other variant are absent.
func (m MFAMethodModel) BuildMFAParams() (client.MFAMethodParams, diag.Diagnostics) {
	var diags diag.Diagnostics

	params := client.MFAMethodParams{
		Name: m.Name.ValueString(),
		Type: wire.MFAMethodType.MustEncode(m.Type.ValueString()),
	}

	switch params.Type {
	case client.MFATypeTOTP:
		if m.HashFunction.IsNull() || m.CodeLength.IsNull() {
			diags.AddError(
				"Invalid MFA Method Configuration",
				"TOTP methods require both hash_function and code_length.",
			)
			return client.MFAMethodParams{}, diags
		}
		if !m.APIHostname.IsNull() || !m.ClientID.IsNull() || !m.ClientSecret.IsNull() {
			diags.AddError(
				"Invalid MFA Method Configuration",
				"api_hostname, client_id and client_secret only apply to duo_universal_prompt methods.",
			)
			return client.MFAMethodParams{}, diags
		}
		params.HashFunction = wire.MFAHashFunction.MustEncode(m.HashFunction.ValueString())
		params.CodeLength = strconv.FormatInt(m.CodeLength.ValueInt64(), 10)

	case client.MFATypeDuo:
		if m.APIHostname.IsNull() || m.ClientID.IsNull() || m.ClientSecret.IsNull() {
			diags.AddError(
				"Invalid MFA Method Configuration",
				"duo_universal_prompt methods require api_hostname, client_id and client_secret.",
			)
			return client.MFAMethodParams{}, diags
		}
		if !m.HashFunction.IsNull() || !m.CodeLength.IsNull() {
			diags.AddError(
				"Invalid MFA Method Configuration",
				"hash_function and code_length only apply to totp methods.",
			)
			return client.MFAMethodParams{}, diags
		}
		params.APIHostname = m.APIHostname.ValueString()
		params.ClientID = m.ClientID.ValueString()
		params.ClientSecret = m.ClientSecret.ValueString()
	}

	return params, diags
}

// MFAChanged reports whether an update call is needed. TOTP methods compare
// hash function and code length; Duo methods always count as changed
// because the API never returns the client secret, so there is nothing to
// compare against.
func MFAChanged(current *client.MFAMethod, desired client.MFAMethodParams) bool {
	if current.Type != desired.Type || current.Name != desired.Name {
		return true
	}
	if desired.Type == client.MFATypeDuo {
		return true
	}
	return current.HashFunction != desired.HashFunction ||
		current.CodeLength != desired.CodeLength
}
