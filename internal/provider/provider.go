// Package provider implements the Zabbix Terraform provider
package provider

import (
	"context"
	"fmt"
	"os"

	goversion "github.com/hashicorp/go-version"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/netwatch-labs/terraform-provider-zabbix/internal/client"
)

// Ensure the implementation satisfies the expected interfaces
var _ provider.Provider = &ZabbixProvider{}

// ZabbixProvider defines the provider implementation
type ZabbixProvider struct {
	// version is set to the provider version on release
	version string
}

// ZabbixProviderModel describes the provider configuration
type ZabbixProviderModel struct {
	URL           types.String `tfsdk:"url"`
	Username      types.String `tfsdk:"username"`
	Password      types.String `tfsdk:"password"`
	APIToken      types.String `tfsdk:"api_token"`
	SkipTLSVerify types.Bool   `tfsdk:"skip_tls_verify"`
}

// ProviderData carries the configured API client and the capabilities
// resolved from the server's reported version. It is handed to every
// resource and data source via Configure.
type ProviderData struct {
	Client       *client.Client
	APIVersion   *goversion.Version
	Capabilities client.Capabilities
}

// New is a helper function to simplify provider server and testing implementation
func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &ZabbixProvider{
			version: version,
		}
	}
}

// Metadata returns the provider type name
func (p *ZabbixProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "zabbix"
	resp.Version = p.version
}

// Schema defines the provider-level schema for configuration data
func (p *ZabbixProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "Terraform provider for the Zabbix monitoring system",
		Attributes: map[string]schema.Attribute{
			"url": schema.StringAttribute{
				Description: "Zabbix API endpoint URL (e.g. https://zabbix.example.com/api_jsonrpc.php). " +
					"Can also be set with the ZABBIX_URL environment variable.",
				Optional: true,
			},
			"username": schema.StringAttribute{
				Description: "Zabbix username for session authentication. " +
					"Can also be set with the ZABBIX_USER environment variable. Ignored when api_token is set.",
				Optional: true,
			},
			"password": schema.StringAttribute{
				Description: "Zabbix password for session authentication. " +
					"Can also be set with the ZABBIX_PASSWORD environment variable.",
				Optional:  true,
				Sensitive: true,
			},
			"api_token": schema.StringAttribute{
				Description: "Pre-issued Zabbix API token, used instead of username and password. " +
					"Can also be set with the ZABBIX_API_TOKEN environment variable.",
				Optional:  true,
				Sensitive: true,
			},
			"skip_tls_verify": schema.BoolAttribute{
				Description: "Disable TLS certificate verification for the API endpoint. Defaults to false.",
				Optional:    true,
			},
		},
	}
}

// Configure builds the Zabbix API client, authenticates it, and resolves the
// server's capability set for resources and data sources
func (p *ZabbixProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var config ZabbixProviderModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &config)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Unknown configuration values cannot be used to construct a client.
	if config.URL.IsUnknown() {
		resp.Diagnostics.AddAttributeError(
			path.Root("url"),
			"Unknown Zabbix API URL",
			"The provider cannot create the Zabbix API client as there is an unknown configuration value for the API URL. "+
				"Either target apply the source of the value first, or set it statically.",
		)
	}
	if config.APIToken.IsUnknown() {
		resp.Diagnostics.AddAttributeError(
			path.Root("api_token"),
			"Unknown Zabbix API Token",
			"The provider cannot create the Zabbix API client as there is an unknown configuration value for the API token.",
		)
	}
	if resp.Diagnostics.HasError() {
		return
	}

	url := config.URL.ValueString()
	if url == "" {
		url = os.Getenv(EnvURL)
	}
	username := config.Username.ValueString()
	if username == "" {
		username = os.Getenv(EnvUser)
	}
	password := config.Password.ValueString()
	if password == "" {
		password = os.Getenv(EnvPassword)
	}
	apiToken := config.APIToken.ValueString()
	if apiToken == "" {
		apiToken = os.Getenv(EnvAPIToken)
	}

	if url == "" {
		resp.Diagnostics.AddAttributeError(
			path.Root("url"),
			"Missing Zabbix API URL",
			"Set the url provider attribute or the ZABBIX_URL environment variable.",
		)
	}
	if apiToken == "" && (username == "" || password == "") {
		resp.Diagnostics.AddError(
			"Missing Zabbix API Credentials",
			"Either an api_token or both username and password are required. "+
				"They can also be set with the ZABBIX_API_TOKEN, ZABBIX_USER and ZABBIX_PASSWORD environment variables.",
		)
	}
	if resp.Diagnostics.HasError() {
		return
	}

	LogProviderConfig(ctx, &config)

	apiClient, err := client.New(url, client.Options{
		SkipTLSVerify: config.SkipTLSVerify.ValueBool(),
	})
	if err != nil {
		resp.Diagnostics.AddError(
			"Unable to Create Zabbix API Client",
			"An unexpected error occurred when creating the Zabbix API client: "+err.Error(),
		)
		return
	}

	versionString, err := apiClient.APIVersion(ctx)
	if err != nil {
		resp.Diagnostics.AddError(
			"Unable to Reach Zabbix API",
			fmt.Sprintf("Failed to determine the API version of %s: %s", url, err.Error()),
		)
		return
	}

	caps, apiVersion, err := client.ResolveCapabilities(versionString)
	if err != nil {
		resp.Diagnostics.AddError(
			"Unsupported Zabbix API Version",
			err.Error(),
		)
		return
	}
	apiClient.UseBearerAuth(caps.BearerAuth)

	tflog.Debug(ctx, "Resolved Zabbix API version", map[string]interface{}{
		"api_version": versionString,
	})

	if apiToken != "" {
		apiClient.SetAPIToken(apiToken)
	} else {
		LogAuthStart(ctx)
		if err := apiClient.Login(ctx, username, password); err != nil {
			resp.Diagnostics.Append(client.MapError(err, "authenticate with the Zabbix API"))
			return
		}
		LogAuthSuccess(ctx)
	}

	providerData := &ProviderData{
		Client:       apiClient,
		APIVersion:   apiVersion,
		Capabilities: caps,
	}
	resp.ResourceData = providerData
	resp.DataSourceData = providerData
}

// Resources defines the resources implemented in the provider
func (p *ZabbixProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewDashboardResource,
		NewEventCorrelationResource,
		NewMaintenanceWindowResource,
		NewMFAMethodResource,
		NewRegularExpressionResource,
		NewSLAResource,
	}
}

// DataSources defines the data sources implemented in the provider
func (p *ZabbixProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewHostGroupDataSource,
		NewHostDataSource,
	}
}
