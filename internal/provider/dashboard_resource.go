// Package provider implements the dashboard resource
package provider

import (
	"context"
	"fmt"
	"strconv"
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
	"github.com/netwatch-labs/terraform-provider-zabbix/internal/wire"
)

// Ensure provider defined types fully satisfy framework interfaces
var (
	_ resource.Resource                = &dashboardResource{}
	_ resource.ResourceWithConfigure   = &dashboardResource{}
	_ resource.ResourceWithImportState = &dashboardResource{}
)

// NewDashboardResource is a helper function to simplify the provider implementation
func NewDashboardResource() resource.Resource {
	return &dashboardResource{}
}

// dashboardResource is the resource implementation
type dashboardResource struct {
	providerData *ProviderData
}

// Metadata returns the resource type name
func (r *dashboardResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_dashboard"
}

// Schema defines the schema for the resource
func (r *dashboardResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Manages a global dashboard in Zabbix. A dashboard carries ordered pages of widgets; " +
			"widget fields reference monitored objects by name and are resolved to ids before each apply.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Description: "Zabbix-assigned identifier of the dashboard.",
				Computed:    true,
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"name": schema.StringAttribute{
				Description: "Name of the dashboard. Must be unique.",
				Required:    true,
				Validators: []validator.String{
					stringvalidator.LengthBetween(1, 255),
				},
			},
			"owner": schema.StringAttribute{
				Description: "Username of the dashboard owner. Defaults to the authenticated user.",
				Optional:    true,
			},
			"display_period": schema.Int64Attribute{
				Description: "Default page rotation interval in seconds. Defaults to 30.",
				Optional:    true,
				Validators: []validator.Int64{
					int64validator.OneOf(10, 30, 60, 120, 600, 1800, 3600),
				},
			},
			"auto_start": schema.BoolAttribute{
				Description: "Whether the slideshow starts automatically. Defaults to true.",
				Optional:    true,
			},
			"private": schema.BoolAttribute{
				Description: "Whether dashboard sharing is private. Defaults to true.",
				Optional:    true,
			},
			"pages": schema.ListNestedAttribute{
				Description: "Ordered pages of the dashboard. At least one is required.",
				Required:    true,
				Validators: []validator.List{
					listvalidator.SizeAtLeast(1),
				},
				NestedObject: schema.NestedAttributeObject{
					Attributes: map[string]schema.Attribute{
						"name": schema.StringAttribute{
							Description: "Page name. Defaults to empty, shown as the page number.",
							Optional:    true,
						},
						"display_period": schema.Int64Attribute{
							Description: "Page rotation interval in seconds, overriding the dashboard default.",
							Optional:    true,
						},
						"widgets": schema.ListNestedAttribute{
							Description: "Widgets placed on the page grid.",
							Optional:    true,
							NestedObject: schema.NestedAttributeObject{
								Attributes: map[string]schema.Attribute{
									"type": schema.StringAttribute{
										Description: "Widget kind as registered by the frontend (e.g. 'clock', " +
											"'graph', 'problems', 'svggraph').",
										Required: true,
									},
									"name": schema.StringAttribute{
										Description: "Widget header. Defaults to the widget kind's default header.",
										Optional:    true,
									},
									"x": schema.Int64Attribute{
										Description: "Horizontal grid position of the widget's top-left corner.",
										Optional:    true,
									},
									"y": schema.Int64Attribute{
										Description: "Vertical grid position of the widget's top-left corner.",
										Optional:    true,
									},
									"width": schema.Int64Attribute{
										Description: "Widget width in grid columns.",
										Optional:    true,
									},
									"height": schema.Int64Attribute{
										Description: "Widget height in grid rows.",
										Optional:    true,
									},
									"view_mode": schema.StringAttribute{
										Description: "Widget header display mode. Defaults to the server default.",
										Optional:    true,
										Validators: []validator.String{
											stringvalidator.OneOf(wire.WidgetViewMode.Names()...),
										},
									},
									"fields": schema.ListNestedAttribute{
										Description: "Typed widget parameters. Literal types take value; item and " +
											"graph types take value_key or value_name plus value_host; every other " +
											"reference type takes value_name.",
										Optional: true,
										NestedObject: schema.NestedAttributeObject{
											Attributes: map[string]schema.Attribute{
												"type": schema.StringAttribute{
													Description: "Field type.",
													Required:    true,
													Validators: []validator.String{
														stringvalidator.OneOf(wire.WidgetFieldType.Names()...),
													},
												},
												"name": schema.StringAttribute{
													Description: "Field name as expected by the widget kind.",
													Required:    true,
												},
												"value": schema.StringAttribute{
													Description: "Literal value for integer and string fields.",
													Optional:    true,
												},
												"value_name": schema.StringAttribute{
													Description: "Referenced object name for reference fields.",
													Optional:    true,
												},
												"value_key": schema.StringAttribute{
													Description: "Item key for item and item_prototype fields.",
													Optional:    true,
												},
												"value_host": schema.StringAttribute{
													Description: "Host name scoping value_key or value_name lookups.",
													Optional:    true,
												},
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// Configure adds the provider configured client to the resource
func (r *dashboardResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
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
func (r *dashboardResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan models.DashboardModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "create", "dashboard")

	params, diags := plan.BuildDashboardParams(ctx, r.providerData.Client)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	id, err := r.providerData.Client.DashboardCreate(ctx, params)
	if err != nil {
		LogOperationError(ctx, "create", "dashboard", err)
		resp.Diagnostics.Append(client.MapError(err, "create dashboard"))
		return
	}

	plan.ID = types.StringValue(id)
	LogOperationSuccess(ctx, "create", "dashboard", id)

	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Read refreshes the Terraform state with the latest data. Widget fields
// hold object names in configuration but resolved ids on the server, so only
// the top-level attributes are refreshed; page and widget drift surfaces
// through the change comparison on update.
func (r *dashboardResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.DashboardModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Reading dashboard", map[string]interface{}{
		"id": state.ID.ValueString(),
	})

	dashboard, err := r.providerData.Client.DashboardGet(ctx, state.ID.ValueString())
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "dashboard", state.ID.ValueString())
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "read dashboard"))
		return
	}

	// Optional attributes stay null when the configuration leaves them to
	// the server default, so only refresh the ones already tracked.
	state.Name = types.StringValue(dashboard.Name)
	if !state.DisplayPeriod.IsNull() {
		if period, err := strconv.ParseInt(dashboard.DisplayPeriod, 10, 64); err == nil {
			state.DisplayPeriod = types.Int64Value(period)
		}
	}
	if !state.AutoStart.IsNull() {
		state.AutoStart = types.BoolValue(dashboard.AutoStart == "1")
	}
	if !state.Private.IsNull() {
		state.Private = types.BoolValue(dashboard.Private == "1")
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
}

// Update updates the resource and sets the updated Terraform state on success
func (r *dashboardResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var plan, state models.DashboardModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	id := state.ID.ValueString()
	LogOperationStart(ctx, "update", "dashboard")

	params, diags := plan.BuildDashboardParams(ctx, r.providerData.Client)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	current, err := r.providerData.Client.DashboardGet(ctx, id)
	if err != nil {
		if client.IsNotFoundError(err) {
			LogDriftDetected(ctx, "dashboard", id)
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.Append(client.MapError(err, "update dashboard"))
		return
	}

	if !models.DashboardChanged(current, params) {
		LogNoChanges(ctx, "dashboard", id)
	} else {
		if err := r.providerData.Client.DashboardUpdate(ctx, id, params); err != nil {
			LogOperationError(ctx, "update", "dashboard", err)
			resp.Diagnostics.Append(client.MapError(err, "update dashboard"))
			return
		}
		LogOperationSuccess(ctx, "update", "dashboard", id)
	}

	plan.ID = types.StringValue(id)
	resp.Diagnostics.Append(resp.State.Set(ctx, &plan)...)
}

// Delete deletes the resource and removes the Terraform state on success
func (r *dashboardResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	if r.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var state models.DashboardModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	LogOperationStart(ctx, "delete", "dashboard")

	if err := r.providerData.Client.DashboardDelete(ctx, state.ID.ValueString()); err != nil {
		if client.IsNotFoundError(err) {
			tflog.Warn(ctx, "Dashboard already deleted", map[string]interface{}{
				"id": state.ID.ValueString(),
			})
			return
		}
		LogOperationError(ctx, "delete", "dashboard", err)
		resp.Diagnostics.Append(client.MapError(err, "delete dashboard"))
		return
	}

	LogOperationSuccess(ctx, "delete", "dashboard", state.ID.ValueString())
}

// ImportState imports an existing resource into Terraform state, either by
// id or by "name/<dashboard name>"
func (r *dashboardResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	id := req.ID
	if name, ok := strings.CutPrefix(req.ID, "name/"); ok {
		dashboard, err := r.providerData.Client.DashboardGetByName(ctx, name)
		if err != nil {
			resp.Diagnostics.Append(client.MapError(err, "import dashboard"))
			return
		}
		id = dashboard.ID
	}

	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("id"), id)...)

	tflog.Info(ctx, "Imported dashboard", map[string]interface{}{
		"id": id,
	})
}
