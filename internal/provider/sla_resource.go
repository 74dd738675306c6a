// Package provider implements the sla resource
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
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
	_ resource.Resource                = &slaResource{}
	_ resource.ResourceWithConfigure   = &slaResource{}
	_ resource.ResourceWithImportState = &slaResource{}
)

// NewSLAResource is a helper function to simplify the provider implementation
func NewSLAResource() resource.Resource {
	return &slaResource{}
}

// slaResource is the resource implementation
type slaResource struct {
	providerData *ProviderData
}

// Metadata returns the resource type name
func (r *slaResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_sla"
}

// Schema defines the schema for the resource
func (r *slaResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Manages a service level agreement in Zabbix. An SLA measures the availability of the " +
			"services selected by its service tags against a target service level objective.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Description: "Zabbix-assigned identifier of the SLA.",
				Computed:    true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"name": schema.StringAttribute{
				Description: "Name of the SLA. Must be unique.",
				Required:    true,
				Validators: []validator.String{
					stringvalidator.LengthBetween(1, 255),
				},
			},
			"period": schema.StringAttribute{
				Description: "Reporting period, one of 'daily', 'weekly', 'monthly', 'quarterly' or 'annually'.",
				Required:    true,
				Validators: []validator.String{
					stringvalidator.OneOf(wire.SLAPeriod.Names()...),
				},
			},
			"slo": schema.Float64Attribute{
				Description: "Service level objective as an availability percentage between 0 and 100.",
				Required:    true,
				Validators: []validator.Float64{
					validators.SLO(),
				},
			},
			"effective_date": schema.Int64Attribute{
				Description: "Start of the SLA validity as a Unix timestamp. Defaults to the moment of creation.",
				Optional:    true,
				Validators: []validator.Int64{
					int64validator.AtLeast(0),
				},
			},
			"timezone": schema.StringAttribute{
				Description: "Reporting timezone (e.g. 'Europe/Riga'). Defaults to 'UTC'.",
				Optional:    true,
			},
			"status": schema.StringAttribute{
				Description: "SLA status, either 'enabled' or 'disabled'. Defaults to 'enabled'.",
				Optional:    true,
				Validators: []validator.String{
					stringvalidator.OneOf(wire.SLAStatus.Names()...),
				},
			},
			"description": schema.StringAttribute{
				Description: "Free-form description.",
				Optional:    true,
			},
			"service_tags": schema.ListNestedAttribute{
				Description: "Service tags selecting which services the SLA measures. At least one is required.",
				Required:    true,
				Validators: []validator.List{
					listvalidator.SizeAtLeast(1),
				},
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"tag": schema.StringAttribute{
							Description: "Tag name.",
							Required:    true,
						},
						"operator": schema.StringAttribute{
							Description: "Match operator, either 'equals' or 'contains'. Defaults to 'equals'.",
							Optional:    true,
							Validators: []validator.String{
								stringvalidator.OneOf(wire.SLAServiceTagOperator.Names()...),
							},
						},
						"value": schema.StringAttribute{
							Description: "Tag value to match.",
							Optional:    true,
						},
					},
				},
			},
			"schedule": schema.ListNestedAttribute{
				Description: "Weekly uptime windows during which the SLA is measured, in seconds from Sunday 00:00. " +
					"Omit for a 24x7 schedule.",
				Optional: true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"period_from": schema.Int64Attribute{
							Description: "Window start in seconds since the start of the week, inclusive.",
							Required:    true,
						},
						"period_to": schema.Int64Attribute{
							Description: "Window end in seconds since the start of the week, exclusive.",
							Required:    true,
						},
					},
				},
			},
			"excluded_downtimes": schema.ListNestedAttribute{
				Description: "Named planned outages excluded from the SLA calculation.",
				Optional:    true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"name": schema.StringAttribute{
							Description: "Name of the downtime.",
							Required:    true,
						},
						"period_from": schema.Int64Attribute{
							Description: "Downtime start as a Unix timestamp, inclusive.",
							Required:    true,
						},
						"period_to": schema.Int64Attribute{
							Description: "Downtime end as a Unix timestamp, exclusive.",
							Required:    true,
						},
					},
				},
			},
		},
	}
}

// Configure adds the provider configured client to the resource
func (r *slaResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
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
func (r *slaResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan models.SLAModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "create", "sla")

	params, diags := plan.BuildSLAParams()
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	id, err := r.providerData.Client.SLACreate(ctx, params)
	if err != nil {
		LogOperationError(ctx, "create", "sla", err)
		resp.Diagnostics.Append(client.MapError(err, "create SLA"))
		return
	}

	plan.ID = types.StringValue(id)
	LogOperationSuccess(ctx, "create", "sla", id)

	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Read refreshes the Terraform state with the latest data
func (r *slaResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.SLAModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Reading SLA", map[string]interface{}{
		"id": state.ID.ValueString(),
	})

	sla, err := r.providerData.Client.SLAGet(ctx, state.ID.ValueString())
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "sla", state.ID.ValueString())
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "read SLA"))
		return
	}

	// Optional attributes stay null when the configuration leaves them to
	// the server default, so only refresh the ones already tracked.
	state.Name = types.StringValue(sla.Name)
	if name, err := wire.SLAPeriod.Decode(sla.Period); err == nil {
		state.Period = types.StringValue(name)
	}
	if !state.Status.IsNull() {
		if name, err := wire.SLAStatus.Decode(sla.Status); err == nil {
			state.Status = types.StringValue(name)
		}
	}
	if !state.Timezone.IsNull() {
		state.Timezone = types.StringValue(sla.Timezone)
	}
	if !state.Description.IsNull() {
		state.Description = types.StringValue(sla.Description)
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
}

// Update updates the resource and sets the updated Terraform state on success
func (r *slaResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan, state models.SLAModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	id := state.ID.ValueString()
	LogOperationStart(ctx, "update", "sla")

	params, diags := plan.BuildSLAParams()
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	current, err := r.providerData.Client.SLAGet(ctx, id)
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "sla", id)
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "update SLA"))
		return
	}

	if !models.SLAChanged(current, params) {
		LogNoChanges(ctx, "sla", id)
	} else {
		if err := r.providerData.Client.SLAUpdate(ctx, id, params); err != nil {
			LogOperationError(ctx, "update", "sla", err)
			resp.Diagnostics.Append(client.MapError(err, "update SLA"))
			return
		}
		LogOperationSuccess(ctx, "update", "sla", id)
	}

	plan.ID = types.StringValue(id)
	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Delete deletes the resource and removes the Terraform state on success
func (r *slaResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.SLAModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "delete", "sla")

	if err := r.providerData.Client.SLADelete(ctx, state.ID.ValueString()); err != nil {
		if client.IsNotFoundError(err) {
			tflog.Warn(ctx, "SLA already deleted", map[string]interface{}{
				"id": state.ID.ValueString(),
			})
			return
		}
		LogOperationError(ctx, "delete", "sla", err)
		resp.Diagnostics.Append(client.MapError(err, "delete SLA"))
		return
	}

	LogOperationSuccess(ctx, "delete", "sla", state.ID.ValueString())
}

// ImportState imports an existing resource into Terraform state, either by
// id or by "name/<sla name>"
func (r *slaResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	id := req.ID
	if name, ok := strings.CutPrefix(req.ID, "name/"); ok {
		sla, err := r.providerData.Client.SLAGetByName(ctx, name)
		if err != nil {
			resp.Diagnostics.Append(client.MapError(err, "import SLA"))
			return
		}
		id = sla.ID
	}

	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("id"), id)...)

	tflog.Info(ctx, "Imported SLA", map[string]interface{}{
		"id": id,
	})
}
