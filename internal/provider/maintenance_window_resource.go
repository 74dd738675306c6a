// Package provider implements the maintenance_window resource
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
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
)

// Ensure provider defined types fully satisfy framework interfaces
var (
	_ resource.Resource                = &maintenanceWindowResource{}
	_ resource.ResourceWithConfigure   = &maintenanceWindowResource{}
	_ resource.ResourceWithImportState = &maintenanceWindowResource{}
)

// NewMaintenanceWindowResource is a helper function to simplify the provider implementation
func NewMaintenanceWindowResource() resource.Resource {
	return &maintenanceWindowResource{}
}

// maintenanceWindowResource is the resource implementation
type maintenanceWindowResource struct {
	providerData *ProviderData
}

// Metadata returns the resource type name
func (r *maintenanceWindowResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_maintenance_window"
}

// Schema defines the schema for the resource
func (r *maintenanceWindowResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Manages a maintenance window in Zabbix. During the window the referenced hosts and host groups " +
			"have problem creation suppressed, optionally while data collection continues.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Description: "Zabbix-assigned identifier of the maintenance window.",
				Computed:    true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"name": schema.StringAttribute{
				Description: "Name of the maintenance window. Must be unique.",
				Required:    true,
				Validators: []validator.String{
					stringvalidator.LengthBetween(1, 128),
				},
			},
			"description": schema.StringAttribute{
				Description: "Free-form description. Defaults to '" + models.DefaultDescription + "'.",
				Optional:    true,
			},
			"collect_data": schema.BoolAttribute{
				Description: "Whether monitoring data is collected during the window. Defaults to true. " +
					"Problem tags can only be used while data is collected.",
				Optional: true,
			},
			"active_since": schema.StringAttribute{
				Description: "Start of the window as local wall-clock time in the format '" + models.ClockLayout + "'. " +
					"Must be set together with active_till; mutually exclusive with minutes.",
				Optional: true,
				Validators: []validator.String{
					validators.ClockTime(),
				},
			},
			"active_till": schema.StringAttribute{
				Description: "End of the window as local wall-clock time in the format '" + models.ClockLayout + "'. " +
					"Must be after active_since.",
				Optional: true,
				Validators: []validator.String{
					validators.ClockTime(),
				},
			},
			"minutes": schema.Int64Attribute{
				Description: "Duration of the window in minutes, counted from the moment of the apply. " +
					"Mutually exclusive with active_since/active_till.",
				Optional: true,
				Validators: []validator.Int64{
					int64validator.AtLeast(1),
				},
			},
			"host_groups": schema.ListAttribute{
				Description: "Host group names placed in maintenance. At least one of host_groups or hosts is required.",
				ElementType: types.StringType,
				Optional:    true,
			},
			"hosts": schema.ListAttribute{
				Description: "Host names placed in maintenance. Resolved against the technical host name, " +
					"or against the visible name when visible_name is true.",
				ElementType: types.StringType,
				Optional:    true,
			},
			"visible_name": schema.BoolAttribute{
				Description: "Resolve entries of hosts by their visible name instead of the technical host name. Defaults to false.",
				Optional:    true,
			},
			"append": schema.BoolAttribute{
				Description: "On update, merge the configured hosts and host groups into the window's current " +
					"assignment instead of replacing it. Defaults to false.",
				Optional: true,
			},
			"tags": schema.ListNestedAttribute{
				Description: "Problem tags selecting which problems are suppressed. Only valid when collect_data is true.",
				Optional:    true,
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"tag": schema.StringAttribute{
							Description: "Tag name.",
							Required:    true,
						},
						"operator": schema.StringAttribute{
							Description: "Match operator, either 'equals' or 'contains'. Defaults to 'contains'.",
							Optional:    true,
							Validators: []validator.String{
								stringvalidator.OneOf("equals", "contains"),
							},
						},
						"value": schema.StringAttribute{
							Description: "Tag value to match.",
							Optional:    true,
						},
					},
				},
			},
		},
	}
}

// Configure adds the provider configured client to the resource
func (r *maintenanceWindowResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
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

// resolveAssignments resolves the configured host group and host names to
// ids. Every name must resolve to exactly one object; the first failure is
// terminal.
func (r *maintenanceWindowResource) resolveAssignments(ctx context.Context, plan models.MaintenanceWindowModel) ([]string, []string, error) {
	groupNames, diags := models.ExpandStringList(ctx, plan.HostGroups)
	if diags.HasError() {
		return nil, nil, fmt.Errorf("invalid host_groups list")
	}
	hostNames, diags := models.ExpandStringList(ctx, plan.Hosts)
	if diags.HasError() {
		return nil, nil, fmt.Errorf("invalid hosts list")
	}
	if len(groupNames) == 0 && len(hostNames) == 0 {
		return nil, nil, fmt.Errorf("at least one of host_groups or hosts is required")
	}

	groupIDs := make([]string, 0, len(groupNames))
	for _, name := range groupNames {
		id, err := r.providerData.Client.HostGroupID(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		groupIDs = append(groupIDs, id)
	}

	byVisibleName := plan.VisibleName.ValueBool()
	hostIDs := make([]string, 0, len(hostNames))
	for _, name := range hostNames {
		id, err := r.providerData.Client.HostID(ctx, name, byVisibleName)
		if err != nil {
			return nil, nil, err
		}
		hostIDs = append(hostIDs, id)
	}

	return groupIDs, hostIDs, nil
}

// Create creates the resource and sets the initial Terraform state
func (r *maintenanceWindowResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan models.MaintenanceWindowModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "create", "maintenance_window")

	groupIDs, hostIDs, err := r.resolveAssignments(ctx, plan)
	if err != nil {
		resp.Diagnostics.Append(client.MapError(err, "create maintenance window"))
		return
	}

	params, diags := plan.BuildMaintenanceParams(groupIDs, hostIDs, time.Now())
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	id, err := r.providerData.Client.MaintenanceCreate(ctx, params, r.providerData.Capabilities)
	if err != nil {
		LogOperationError(ctx, "create", "maintenance_window", err)
		resp.Diagnostics.Append(client.MapError(err, "create maintenance window"))
		return
	}

	plan.ID = types.StringValue(id)
	LogOperationSuccess(ctx, "create", "maintenance_window", id)

	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Read refreshes the Terraform state with the latest data. The window
// bounds live as epoch seconds on the server while the configuration holds
// wall-clock strings or a relative duration, so only the attributes with a
// faithful reverse mapping are refreshed.
func (r *maintenanceWindowResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.MaintenanceWindowModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Reading maintenance window", map[string]interface{}{
		"id": state.ID.ValueString(),
	})

	maintenance, err := r.providerData.Client.MaintenanceGet(ctx, state.ID.ValueString(), r.providerData.Capabilities)
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "maintenance_window", state.ID.ValueString())
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "read maintenance window"))
		return
	}

	// Optional attributes stay null when the configuration leaves them to
	// the server default, so only refresh the ones already tracked.
	state.Name = types.StringValue(maintenance.Name)
	if !state.Description.IsNull() {
		state.Description = types.StringValue(maintenance.Description)
	}
	if !state.CollectData.IsNull() {
		state.CollectData = types.BoolValue(maintenance.MaintenanceType == "0")
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
}

// Update updates the resource and sets the updated Terraform state on success
func (r *maintenanceWindowResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan, state models.MaintenanceWindowModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	id := state.ID.ValueString()
	LogOperationStart(ctx, "update", "maintenance_window")

	groupIDs, hostIDs, err := r.resolveAssignments(ctx, plan)
	if err != nil {
		resp.Diagnostics.Append(client.MapError(err, "update maintenance window"))
		return
	}

	current, err := r.providerData.Client.MaintenanceGet(ctx, id, r.providerData.Capabilities)
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "maintenance_window", id)
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "update maintenance window"))
		return
	}

	// Append mode merges the configured assignment into whatever the
	// window currently covers instead of replacing it.
	if plan.Append.ValueBool() {
		groupIDs = models.UnionIDs(current.GroupIDs, groupIDs)
		hostIDs = models.UnionIDs(current.HostIDs, hostIDs)
	}

	params, diags := plan.BuildMaintenanceParams(groupIDs, hostIDs, time.Now())
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	if !models.MaintenanceChanged(current, params) {
		LogNoChanges(ctx, "maintenance_window", id)
	} else {
		if err := r.providerData.Client.MaintenanceUpdate(ctx, id, params, r.providerData.Capabilities); err != nil {
			LogOperationError(ctx, "update", "maintenance_window", err)
			resp.Diagnostics.Append(client.MapError(err, "update maintenance window"))
			return
		}
		LogOperationSuccess(ctx, "update", "maintenance_window", id)
	}

	plan.ID = types.StringValue(id)
	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Delete deletes the resource and removes the Terraform state on success
func (r *maintenanceWindowResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.MaintenanceWindowModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "delete", "maintenance_window")

	if err := r.providerData.Client.MaintenanceDelete(ctx, state.ID.ValueString()); err != nil {
		if client.IsNotFoundError(err) {
			tflog.Warn(ctx, "Maintenance window already deleted", map[string]interface{}{
				"id": state.ID.ValueString(),
			})
			return
		}
		LogOperationError(ctx, "delete", "maintenance_window", err)
		resp.Diagnostics.Append(client.MapError(err, "delete maintenance window"))
		return
	}

	LogOperationSuccess(ctx, "delete", "maintenance_window", state.ID.ValueString())
}

// ImportState imports an existing resource into Terraform state, either by
// id or by "name/<window name>"
func (r *maintenanceWindowResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	id := req.ID
	if name, ok := strings.CutPrefix(req.ID, "name/"); ok {
		maintenance, err := r.providerData.Client.MaintenanceGetByName(ctx, name, r.providerData.Capabilities)
		if err != nil {
			resp.Diagnostics.Append(client.MapError(err, "import maintenance window"))
			return
		}
		id = maintenance.ID
	}

	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("id"), id)...)

	tflog.Info(ctx, "Imported maintenance window", map[string]interface{}{
		"id": id,
	})
}
