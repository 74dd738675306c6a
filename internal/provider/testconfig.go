// Package provider implements the Zabbix Terraform provider
package provider

// TestEnvVars documents the environment variables required for acceptance tests
// These variables must be set when running acceptance tests (TF_ACC=1)
const (
	// TF_ACC must be set to "1" to enable acceptance tests
	EnvTFAcc = "TF_ACC"

	// ZABBIX_URL is the Zabbix API endpoint URL
	// Example: https://zabbix.example.com/api_jsonrpc.php
	EnvURL = "ZABBIX_URL"

	// ZABBIX_USER is the Zabbix username for session authentication
	EnvUser = "ZABBIX_USER"

	// ZABBIX_PASSWORD is the Zabbix password for session authentication
	EnvPassword = "ZABBIX_PASSWORD"

	// ZABBIX_API_TOKEN is a pre-issued API token, used instead of
	// username and password
	EnvAPIToken = "ZABBIX_API_TOKEN"
)

// TestAccPreCheckVars lists the required environment variables for acceptance tests
var TestAccPreCheckVars = []string{
	EnvURL,
	EnvUser,
	EnvPassword,
}
