// Package provider implements the host_group data source
package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
)

// Ensure provider defined types fully satisfy framework interfaces
var _ datasource.DataSource = &hostGroupDataSource{}

// NewHostGroupDataSource is a helper function to simplify the provider implementation
func NewHostGroupDataSource() datasource.DataSource {
	return &hostGroupDataSource{}
}

// hostGroupDataSource is the data source implementation
type hostGroupDataSource struct {
	providerData *ProviderData
}

// hostGroupDataSourceModel describes the data source data model
type hostGroupDataSourceModel struct {
	Name types.String `tfsdk:"name"`
	ID   types.String `tfsdk:"id"`
}

// Metadata returns the data source type name
func (d *hostGroupDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_host_group"
}

// Schema defines the schema for the data source
func (d *hostGroupDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Looks up a host group by its exact name. The name must resolve to exactly one group.",

		Attributes: map[string]schema.Attribute{
			"name": schema.StringAttribute{
				Description: "Name of the host group.",
				Required:    true,
			},
			"id": schema.StringAttribute{
				Description: "Zabbix-assigned identifier of the host group.",
				Computed:    true,
			},
		},
	}
}

// Configure adds the provider configured client to the data source
func (d *hostGroupDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}

	providerData, ok := req.ProviderData.(*ProviderData)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Data Source Configure Type",
			fmt.Sprintf("Expected *ProviderData, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)
		return
	}

	d.providerData = providerData
}

// Read refreshes the Terraform state with the latest data
func (d *hostGroupDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	if d.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var config hostGroupDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &config)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Resolving host group", map[string]interface{}{
		"name": config.Name.ValueString(),
	})

	id, err := d.providerData.Client.HostGroupID(ctx, config.Name.ValueString())
	if err != nil {
		resp.Diagnostics.Append(client.MapError(err, "read host group"))
		return
	}

	config.ID = types.StringValue(id)
	resp.Diagnostics.Append(resp.State.Set(ctx, &config)...)
}
