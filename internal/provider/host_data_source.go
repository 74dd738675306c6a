// Package provider implements the host data source
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
var _ datasource.DataSource = &hostDataSource{}

// NewHostDataSource is a helper function to simplify the provider implementation
func NewHostDataSource() datasource.DataSource {
	return &hostDataSource{}
}

// hostDataSource is the data source implementation
type hostDataSource struct {
	providerData *ProviderData
}

// hostDataSourceModel describes the data source data model
type hostDataSourceModel struct {
	Name        types.String `tfsdk:"name"`
	VisibleName types.Bool   `tfsdk:"visible_name"`
	ID          types.String `tfsdk:"id"`
}

// Metadata returns the data source type name
func (d *hostDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_host"
}

// Schema defines the schema for the data source
func (d *hostDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Looks up a host by its exact name. The name must resolve to exactly one host.",

		Attributes: map[string]schema.Attribute{
			"name": schema.StringAttribute{
				Description: "Name of the host.",
				Required:    true,
			},
			"visible_name": schema.BoolAttribute{
				Description: "Match against the visible name instead of the technical host name. Defaults to false.",
				Optional:    true,
			},
			"id": schema.StringAttribute{
				Description: "Zabbix-assigned identifier of the host.",
				Computed:    true,
			},
		},
	}
}

// Configure adds the provider configured client to the data source
func (d *hostDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
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
func (d *hostDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	if d.providerData == nil {
		resp.Diagnostics.AddError(
			"Unconfigured API Client",
			"Expected configured ProviderData. Please report this issue to the provider developers.",
		)
		return
	}

	var config hostDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &config)...)
	if resp.Diagnostics.HasError() {
		return
	}

	tflog.Debug(ctx, "Resolving host", map[string]interface{}{
		"name": config.Name.ValueString(),
	})

	id, err := d.providerData.Client.HostID(ctx, config.Name.ValueString(), config.VisibleName.ValueBool())
	if err != nil {
		resp.Diagnostics.Append(client.MapError(err, "read host"))
		return
	}

	config.ID = types.StringValue(id)
	resp.Diagnostics.Append(resp.State.Set(ctx, &config)...)
}
