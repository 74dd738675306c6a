// Package provider implements the regular_expression resource
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/listvalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
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
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/validators"
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/wire"
)

// Ensure provider defined types fully satisfy framework interfaces
var (
	_ resource.Resource                = &regularExpressionResource{}
	_ resource.ResourceWithConfigure   = &regularExpressionResource{}
	_ resource.ResourceWithImportState = &regularExpressionResource{}
)

// NewRegularExpressionResource is a helper function to simplify the provider implementation
func NewRegularExpressionResource() resource.Resource {
	return &regularExpressionResource{}
}

// regularExpressionResource is the resource implementation
type regularExpressionResource struct {
	providerData *ProviderData
}

// Metadata returns the resource type name
func (r *regularExpressionResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_regular_expression"
}

// Schema defines the schema for the resource
func (r *regularExpressionResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Manages a global regular expression in Zabbix, referenced from item keys and low-level " +
			"discovery filters as @name. Expression order is significant; the first failing expression stops " +
			"evaluation on the server.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Description: "Zabbix-assigned identifier of the regular expression.",
				Computed:    true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"name": schema.StringAttribute{
				Description: "Name of the regular expression. Must be unique.",
				Required:    true,
				Validators: []validator.String{
					stringvalidator.LengthBetween(1, 128),
				},
			},
			"test_string": schema.StringAttribute{
				Description: "Sample string for testing the expressions in the frontend.",
				Optional:    true,
			},
			"expressions": schema.ListNestedAttribute{
				Description: "Ordered list of patterns making up the global expression. At least one is required.",
				Required:    true,
				Validators: []validator.List{
					listvalidator.SizeAtLeast(1),
				},
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"expression": schema.StringAttribute{
							Description: "Pattern text.",
							Required:    true,
						},
						"expression_type": schema.StringAttribute{
							Description: "How the pattern matches, one of 'character_string_included', " +
								"'any_character_string_included', 'character_string_not_included', " +
								"'result_is_true' or 'result_is_false'.",
							Required: true,
							Validators: []validator.String{
								stringvalidator.OneOf(wire.RegexpExpressionType.Names()...),
							},
						},
						"exp_delimiter": schema.StringAttribute{
							Description: "Delimiter splitting the pattern into alternatives, one of ',', '.' or '/'. " +
								"Only used with expression_type any_character_string_included; defaults to '" +
								models.DefaultExpDelimiter + "'.",
							Optional: true,
							Validators: []validator.String{
								validators.Delimiter(),
							},
						},
						"case_sensitive": schema.BoolAttribute{
							Description: "Whether matching is case sensitive. Defaults to false.",
							Optional:    true,
						},
					},
				},
			},
		},
	}
}

// Configure adds the provider configured client to the resource
func (r *regularExpressionResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
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

// Create creates the resource and sets the initial Terraform state
func (r *regularExpressionResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan models.RegularExpressionModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "create", "regular_expression")

	params, diags := plan.BuildRegexpParams()
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	id, err := r.providerData.Client.RegularExpressionCreate(ctx, params)
	if err != nil {
		LogOperationError(ctx, "create", "regular_expression", err)
		resp.Diagnostics.Append(client.MapError(err, "create regular expression"))
		return
	}

	plan.ID = types.StringValue(id)
	LogOperationSuccess(ctx, "create", "regular_expression", id)

	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Read refreshes the Terraform state with the latest data
func (r *regularExpressionResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.RegularExpressionModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Reading regular expression", map[string]interface{}{
		"id": state.ID.ValueString(),
	})

	re, err := r.providerData.Client.RegularExpressionGet(ctx, state.ID.ValueString())
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "regular_expression", state.ID.ValueString())
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "read regular expression"))
		return
	}

	state.Name = types.StringValue(re.Name)
	// test_string stays null when the configuration omits it.
	if !state.TestString.IsNull() {
		state.TestString = types.StringValue(re.TestString)
	}

	state.Expressions = models.RefreshRegexpExpressions(state.Expressions, re.Expressions)

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
}

// Update updates the resource and sets the updated Terraform state on success
func (r *regularExpressionResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan, state models.RegularExpressionModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	id := state.ID.ValueString()
	LogOperationStart(ctx, "update", "regular_expression")

	params, diags := plan.BuildRegexpParams()
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	current, err := r.providerData.Client.RegularExpressionGet(ctx, id)
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "regular_expression", id)
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "update regular expression"))
		return
	}

	if !models.RegexpChanged(current, params) {
		LogNoChanges(ctx, "regular_expression", id)
	} else {
		if err := r.providerData.Client.RegularExpressionUpdate(ctx, id, params); err != nil {
			LogOperationError(ctx, "update", "regular_expression", err)
			resp.Diagnostics.Append(client.MapError(err, "update regular expression"))
			return
		}
		LogOperationSuccess(ctx, "update", "regular_expression", id)
	}

	plan.ID = types.StringValue(id)
	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Delete deletes the resource and removes the Terraform state on success
func (r *regularExpressionResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.RegularExpressionModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "delete", "regular_expression")

	if err := r.providerData.Client.RegularExpressionDelete(ctx, state.ID.ValueString()); err != nil {
		if client.IsNotFoundError(err) {
			tflog.Warn(ctx, "Regular expression already deleted", map[string]interface{}{
				"id": state.ID.ValueString(),
			})
			return
		}
		LogOperationError(ctx, "delete", "regular_expression", err)
		resp.Diagnostics.Append(client.MapError(err, "delete regular expression"))
		return
	}

	LogOperationSuccess(ctx, "delete", "regular_expression", state.ID.ValueString())
}

// ImportState imports an existing resource into Terraform state, either by
// id or by "name/<expression name>"
func (r *regularExpressionResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	id := req.ID
	if name, ok := strings.CutPrefix(req.ID, "name/"); ok {
		re, err := r.providerData.Client.RegularExpressionGetByName(ctx, name)
		if err != nil {
			resp.Diagnostics.Append(client.MapError(err, "import regular expression"))
			return
		}
		id = re.ID
	}

	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("id"), id)...)

	tflog.Info(ctx, "Imported regular expression", map[string]interface{}{
		"id": id,
	})
}
