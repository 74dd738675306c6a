// Package provider implements the event_correlation resource
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
	_ resource.Resource                = &eventCorrelationResource{}
	_ resource.ResourceWithConfigure   = &eventCorrelationResource{}
	_ resource.ResourceWithImportState = &eventCorrelationResource{}
)

// NewEventCorrelationResource is a helper function to simplify the provider implementation
func NewEventCorrelationResource() resource.Resource {
	return &eventCorrelationResource{}
}

// eventCorrelationResource is the resource implementation
type eventCorrelationResource struct {
	providerData *ProviderData
}

// Metadata returns the resource type name
func (r *eventCorrelationResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_event_correlation"
}

// Schema defines the schema for the resource
func (r *eventCorrelationResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Manages an event correlation rule in Zabbix. A rule matches new problem events against " +
			"old ones via typed conditions and closes one side when the conditions hold.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Description: "Zabbix-assigned identifier of the correlation rule.",
				Computed:    true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"name": schema.StringAttribute{
				Description: "Name of the correlation rule. Must be unique.",
				Required:    true,
				Validators: []validator.String{
					stringvalidator.LengthBetween(1, 255),
				},
			},
			"description": schema.StringAttribute{
				Description: "Free-form description.",
				Optional:    true,
			},
			"status": schema.StringAttribute{
				Description: "Rule status, either 'enabled' or 'disabled'. Defaults to 'enabled'.",
				Optional:    true,
				Validators: []validator.String{
					stringvalidator.OneOf(wire.CorrelationStatus.Names()...),
				},
			},
			"eval_type": schema.StringAttribute{
				Description: "How conditions combine, one of 'and_or', 'and', 'or' or 'custom_expression'.",
				Required:    true,
				Validators: []validator.String{
					stringvalidator.OneOf(wire.CorrelationEvalType.Names()...),
				},
			},
			"formula": schema.StringAttribute{
				Description: "Boolean expression over condition formula_ids (e.g. 'A and (B or C)'). " +
					"Required for eval_type custom_expression, ignored otherwise.",
				Optional: true,
			},
			"conditions": schema.ListNestedAttribute{
				Description: "Typed conditions the events must satisfy. The attribute subset that applies depends " +
					"on type: tag conditions use tag, tag-value conditions use tag plus operator and value, " +
					"the tag-pair condition uses old_tag and new_tag, and the host-group condition uses " +
					"host_group plus operator.",
				Required: true,
				Validators: []validator.List{
					listvalidator.SizeAtLeast(1),
				},
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"type": schema.StringAttribute{
							Description: "Condition type.",
							Required:    true,
							Validators: []validator.String{
								stringvalidator.OneOf(wire.CorrelationConditionType.Names()...),
							},
						},
						"tag": schema.StringAttribute{
							Description: "Tag name for tag and tag-value conditions.",
							Optional:    true,
						},
						"old_tag": schema.StringAttribute{
							Description: "Old event tag name for the event_tag_pair condition.",
							Optional:    true,
						},
						"new_tag": schema.StringAttribute{
							Description: "New event tag name for the event_tag_pair condition.",
							Optional:    true,
						},
						"value": schema.StringAttribute{
							Description: "Tag value for tag-value conditions.",
							Optional:    true,
						},
						"host_group": schema.StringAttribute{
							Description: "Host group name for the new_event_host_group condition.",
							Optional:    true,
						},
						"operator": schema.StringAttribute{
							Description: "Match operator. Tag-value conditions accept 'equal', 'not_equal', 'like' " +
								"and 'not_like'; host-group conditions accept only 'equal' and 'not_equal'. " +
								"Defaults to 'equal'.",
							Optional: true,
							Validators: []validator.String{
								stringvalidator.OneOf(wire.CorrelationOperator.Names()...),
							},
						},
						"formula_id": schema.StringAttribute{
							Description: "Uppercase letter label referencing this condition from the formula. " +
								"Only used with eval_type custom_expression.",
							Optional: true,
							Validators: []validator.String{
								validators.FormulaID(),
							},
						},
					},
				},
			},
			"operations": schema.ListAttribute{
				Description: "Operations performed when the rule fires, any of 'close_old_events' and 'close_new_event'.",
				ElementType: types.StringType,
				Required:    true,
				Validators: []validator.List{
					listvalidator.SizeAtLeast(1),
					listvalidator.ValueStringsAre(
						stringvalidator.OneOf(wire.CorrelationOperationType.Names()...),
					),
				},
			},
		},
	}
}

// Configure adds the provider configured client to the resource
func (r *eventCorrelationResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
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

// resolveHostGroups resolves the host group names referenced by the
// conditions to ids.
func (r *eventCorrelationResource) resolveHostGroups(ctx context.Context, plan models.EventCorrelationModel) (map[string]string, error) {
	groupIDs := make(map[string]string)
	for _, name := range plan.HostGroupConditionNames() {
		if _, ok := groupIDs[name]; ok {
			continue
		}
		id, err := r.providerData.Client.HostGroupID(ctx, name)
		if err != nil {
			return nil, err
		}
		groupIDs[name] = id
	}
	return groupIDs, nil
}

// Create creates the resource and sets the initial Terraform state
func (r *eventCorrelationResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan models.EventCorrelationModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "create", "event_correlation")

	groupIDs, err := r.resolveHostGroups(ctx, plan)
	if err != nil {
		resp.Diagnostics.Append(client.MapError(err, "create event correlation"))
		return
	}

	params, diags := plan.BuildCorrelationParams(ctx, groupIDs)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	id, err := r.providerData.Client.CorrelationCreate(ctx, params)
	if err != nil {
		LogOperationError(ctx, "create", "event_correlation", err)
		resp.Diagnostics.Append(client.MapError(err, "create event correlation"))
		return
	}

	plan.ID = types.StringValue(id)
	LogOperationSuccess(ctx, "create", "event_correlation", id)

	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Read refreshes the Terraform state with the latest data. Conditions hold
// host group names in configuration but ids on the server, so only the
// attributes with a faithful reverse mapping are refreshed.
func (r *eventCorrelationResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.EventCorrelationModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Reading event correlation", map[string]interface{}{
		"id": state.ID.ValueString(),
	})

	correlation, err := r.providerData.Client.CorrelationGet(ctx, state.ID.ValueString())
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "event_correlation", state.ID.ValueString())
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "read event correlation"))
		return
	}

	// Optional attributes stay null when the configuration leaves them to
	// the server default, so only refresh the ones already tracked.
	state.Name = types.StringValue(correlation.Name)
	if !state.Description.IsNull() {
		state.Description = types.StringValue(correlation.Description)
	}
	if !state.Status.IsNull() {
		if name, err := wire.CorrelationStatus.Decode(correlation.Status); err == nil {
			state.Status = types.StringValue(name)
		}
	}
	if name, err := wire.CorrelationEvalType.Decode(correlation.Filter.EvalType); err == nil {
		state.EvalType = types.StringValue(name)
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
}

// Update updates the resource and sets the updated Terraform state on success
func (r *eventCorrelationResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan, state models.EventCorrelationModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	id := state.ID.ValueString()
	LogOperationStart(ctx, "update", "event_correlation")

	groupIDs, err := r.resolveHostGroups(ctx, plan)
	if err != nil {
		resp.Diagnostics.Append(client.MapError(err, "update event correlation"))
		return
	}

	params, diags := plan.BuildCorrelationParams(ctx, groupIDs)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	current, err := r.providerData.Client.CorrelationGet(ctx, id)
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "event_correlation", id)
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "update event correlation"))
		return
	}

	if !models.CorrelationChanged(current, params) {
		LogNoChanges(ctx, "event_correlation", id)
	} else {
		if err := r.providerData.Client.CorrelationUpdate(ctx, id, params); err != nil {
			LogOperationError(ctx, "update", "event_correlation", err)
			resp.Diagnostics.Append(client.MapError(err, "update event correlation"))
			return
		}
		LogOperationSuccess(ctx, "update", "event_correlation", id)
	}

	plan.ID = types.StringValue(id)
	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Delete deletes the resource and removes the Terraform state on success
func (r *eventCorrelationResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.EventCorrelationModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "delete", "event_correlation")

	if err := r.providerData.Client.CorrelationDelete(ctx, state.ID.ValueString()); err != nil {
		if client.IsNotFoundError(err) {
			tflog.Warn(ctx, "Event correlation already deleted", map[string]interface{}{
				"id": state.ID.ValueString(),
			})
			return
		}
		LogOperationError(ctx, "delete", "event_correlation", err)
		resp.Diagnostics.Append(client.MapError(err, "delete event correlation"))
		return
	}

	LogOperationSuccess(ctx, "delete", "event_correlation", state.ID.ValueString())
}

// ImportState imports an existing resource into Terraform state, either by
// id or by "name/<rule name>"
func (r *eventCorrelationResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	id := req.ID
	if name, ok := strings.CutPrefix(req.ID, "name/"); ok {
		correlation, err := r.providerData.Client.CorrelationGetByName(ctx, name)
		if err != nil {
			resp.Diagnostics.Append(client.MapError(err, "import event correlation"))
			return
		}
		id = correlation.ID
	}

	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("id"), id)...)

	tflog.Info(ctx, "Imported event correlation", map[string]interface{}{
		"id": id,
	})
}
