// Package provider implements the mfa_method resource
package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/models"
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/wire"
)

// Ensure provider defined types fully satisfy framework interfaces
var (
	_ resource.Resource                = &mfaMethodResource{}
	_ resource.ResourceWithConfigure   = &mfaMethodResource{}
	_ resource.ResourceWithImportState = &mfaMethodResource{}
)

// NewMFAMethodResource is a helper function to simplify the provider implementation
func NewMFAMethodResource() resource.Resource {
	return &mfaMethodResource{}
}

// mfaMethodResource is the resource implementation
type mfaMethodResource struct {
	providerData *ProviderData
}

// Metadata returns the resource type name
func (r *mfaMethodResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_mfa_method"
}

// Schema defines the schema for the resource
func (r *mfaMethodResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Manages a multi-factor authentication method in Zabbix. Requires Zabbix " +
			client.MFAMinimumVersion + " or later. TOTP methods take hash_function and code_length; " +
			"Duo universal prompt methods take api_hostname, client_id and client_secret.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Description: "Zabbix-assigned identifier of the MFA method.",
				Computed:    true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"name": schema.StringAttribute{
				Description: "Name of the MFA method. Must be unique.",
				Required:    true,
				Validators: []validator.String{
					stringvalidator.LengthBetween(1, 128),
				},
			},
			"type": schema.StringAttribute{
				Description: "Method type, either 'totp' or 'duo_universal_prompt'.",
				Required:    true,
				Validators: []validator.String{
					stringvalidator.OneOf(wire.MFAMethodType.Names()...),
				},
			},
			"hash_function": schema.StringAttribute{
				Description: "TOTP hash function, one of 'sha-1', 'sha-256' or 'sha-512'. TOTP methods only.",
				Optional:    true,
				Validators: []validator.String{
					stringvalidator.OneOf(wire.MFAHashFunction.Names()...),
				},
			},
			"code_length": schema.Int64Attribute{
				Description: "TOTP verification code length, 6 or 8 digits. TOTP methods only.",
				Optional:    true,
				Validators: []validator.Int64{
					int64validator.OneOf(6, 8),
				},
			},
			"api_hostname": schema.StringAttribute{
				Description: "Duo API hostname. Duo methods only.",
				Optional:    true,
			},
			"client_id": schema.StringAttribute{
				Description: "Duo client ID. Duo methods only.",
				Optional:    true,
			},
			"client_secret": schema.StringAttribute{
				Description: "Duo client secret. Duo methods only. Write-only on the Zabbix side; " +
					"it is never read back, so a changed secret is always pushed on update.",
				Optional:  true,
				Sensitive: true,
			},
		},
	}
}

// Configure adds the provider configured client to the resource
func (r *mfaMethodResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}

	providerData, ok := req.ProviderData.(*ProviderData)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Resource Configure Type",
			fmt.Sprintf("Expected *ProviderData, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)
		return
	}

	r.providerData = providerData
}

// checkSupported verifies the connected server carries the MFA API.
func (r *mfaMethodResource) checkSupported(operation string) diag.Diagnostic {
	if r.providerData.Capabilities.MFAMethods {
		return nil
	}
	return client.MapError(&client.UnsupportedVersionError{
		Feature: "the MFA method API",
		Minimum: client.MFAMinimumVersion,
		Server:  r.providerData.APIVersion.String(),
	}, operation)
}

// Create creates the resource and sets the initial Terraform state
func (r *mfaMethodResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}
	if d := r.checkSupported("create MFA method"); d != nil {
		resp.Diagnostics.Append(d)
		return
	}

	var plan models.MFAMethodModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "create", "mfa_method")

	params, diags := plan.BuildMFAParams()
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	id, err := r.providerData.Client.MFAMethodCreate(ctx, params)
	if err != nil {
		LogOperationError(ctx, "create", "mfa_method", err)
		resp.Diagnostics.Append(client.MapError(err, "create MFA method"))
		return
	}

	plan.ID = types.StringValue(id)
	LogOperationSuccess(ctx, "create", "mfa_method", id)

	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Read refreshes the Terraform state with the latest data. The Duo client
// secret is write-only on the API side and is left untouched in state.
func (r *mfaMethodResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}
	if d := r.checkSupported("read MFA method"); d != nil {
		resp.Diagnostics.Append(d)
		return
	}

	var state models.MFAMethodModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Reading MFA method", map[string]interface{}{
		"id": state.ID.ValueString(),
	})

	method, err := r.providerData.Client.MFAMethodGet(ctx, state.ID.ValueString())
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "mfa_method", state.ID.ValueString())
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "read MFA method"))
		return
	}

	state.Name = types.StringValue(method.Name)
	if name, err := wire.MFAMethodType.Decode(method.Type); err == nil {
		state.Type = types.StringValue(name)
	}

	switch method.Type {
	case client.MFATypeTOTP:
		// Both attributes stay null when the configuration leaves them to
		// the server default, so only refresh the ones already tracked.
		if !state.HashFunction.IsNull() {
			if name, err := wire.MFAHashFunction.Decode(method.HashFunction); err == nil {
				state.HashFunction = types.StringValue(name)
			}
		}
		if !state.CodeLength.IsNull() {
			if length, err := strconv.ParseInt(method.CodeLength, 10, 64); err == nil {
				state.CodeLength = types.Int64Value(length)
			}
		}
	case client.MFATypeDuo:
		state.APIHostname = types.StringValue(method.APIHostname)
		state.ClientID = types.StringValue(method.ClientID)
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
}

// Update updates the resource and sets the updated Terraform state on success
func (r *mfaMethodResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}
	if d := r.checkSupported("update MFA method"); d != nil {
		resp.Diagnostics.Append(d)
		return
	}

	var plan, state models.MFAMethodModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	id := state.ID.ValueString()
	LogOperationStart(ctx, "update", "mfa_method")

	params, diags := plan.BuildMFAParams()
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	current, err := r.providerData.Client.MFAMethodGet(ctx, id)
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "mfa_method", id)
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "update MFA method"))
		return
	}

	// Duo methods always count as changed since the secret cannot be
	// read back for comparison.
	if !models.MFAChanged(current, params) {
		LogNoChanges(ctx, "mfa_method", id)
	} else {
		if err := r.providerData.Client.MFAMethodUpdate(ctx, id, params); err != nil {
			LogOperationError(ctx, "update", "mfa_method", err)
			resp.Diagnostics.Append(client.MapError(err, "update MFA method"))
			return
		}
		LogOperationSuccess(ctx, "update", "mfa_method", id)
	}

	plan.ID = types.StringValue(id)
	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Delete deletes the resource and removes the Terraform state on success
func (r *mfaMethodResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}
	if d := r.checkSupported("delete MFA method"); d != nil {
		resp.Diagnostics.Append(d)
		return
	}

	var state models.MFAMethodModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "delete", "mfa_method")

	if err := r.providerData.Client.MFAMethodDelete(ctx, state.ID.ValueString()); err != nil {
		if client.IsNotFoundError(err) {
			tflog.Warn(ctx, "MFA method already deleted", map[string]interface{}{
				"id": state.ID.ValueString(),
			})
			return
		}
		LogOperationError(ctx, "delete", "mfa_method", err)
		resp.Diagnostics.Append(client.MapError(err, "delete MFA method"))
		return
	}

	LogOperationSuccess(ctx, "delete", "mfa_method", state.ID.ValueString())
}

// ImportState imports an existing resource into Terraform state, either by
// id or by "name/<method name>"
func (r *mfaMethodResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	if d := r.checkSupported("import MFA method"); d != nil {
		resp.Diagnostics.Append(d)
		return
	}

	id := req.ID
	if name, ok := strings.CutPrefix(req.ID, "name/"); ok {
		method, err := r.providerData.Client.MFAMethodGetByName(ctx, name)
		if err != nil {
			resp.Diagnostics.Append(client.MapError(err, "import MFA method"))
			return
		}
		id = method.ID
	}

	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("id"), id)...)

	tflog.Info(ctx, "Imported MFA method", map[string]interface{}{
		"id": id,
	})
}
