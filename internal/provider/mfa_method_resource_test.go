// Package provider implements acceptance tests for the mfa_method resource
package provider

import (
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
)

// TestAccMFAMethod_totp tests basic CRUD lifecycle for a TOTP method.
// Requires a Zabbix 7.0+ server.
func TestAccMFAMethod_totp(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			// Create and Read testing
			{
				Config: testAccMFAMethodConfig_totp,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("zabbix_mfa_method.totp", "name", "tf-acc-totp"),
					resource.TestCheckResourceAttr("zabbix_mfa_method.totp", "type", "totp"),
					resource.TestCheckResourceAttr("zabbix_mfa_method.totp", "hash_function", "sha-256"),
					resource.TestCheckResourceAttr("zabbix_mfa_method.totp", "code_length", "6"),
					resource.TestCheckResourceAttrSet("zabbix_mfa_method.totp", "id"),
				),
			},
			// Update testing
			{
				Config: testAccMFAMethodConfig_totpUpdated,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("zabbix_mfa_method.totp", "hash_function", "sha-512"),
					resource.TestCheckResourceAttr("zabbix_mfa_method.totp", "code_length", "8"),
				),
			},
			// ImportState testing
			{
				ResourceName:            "zabbix_mfa_method.totp",
				ImportState:             true,
				ImportStateVerify:       true,
				ImportStateVerifyIgnore: []string{"hash_function", "code_length"},
			},
		},
	})
}

// TestAccMFAMethod_duo tests a Duo universal prompt method. The client
// secret is write-only, so import verification skips it.
func TestAccMFAMethod_duo(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccMFAMethodConfig_duo,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("zabbix_mfa_method.duo", "name", "tf-acc-duo"),
					resource.TestCheckResourceAttr("zabbix_mfa_method.duo", "type", "duo_universal_prompt"),
					resource.TestCheckResourceAttr("zabbix_mfa_method.duo", "api_hostname", "api-0123abcd.duosecurity.com"),
					resource.TestCheckResourceAttrSet("zabbix_mfa_method.duo", "id"),
				),
			},
			{
				ResourceName:            "zabbix_mfa_method.duo",
				ImportState:             true,
				ImportStateVerify:       true,
				ImportStateVerifyIgnore: []string{"client_secret"},
			},
		},
	})
}

const testAccMFAMethodConfig_totp = `
resource "zabbix_mfa_method" "totp" {
  name          = "tf-acc-totp"
  type          = "totp"
  hash_function = "sha-256"
  code_length   = 6
}
`

const testAccMFAMethodConfig_totpUpdated = `
resource "zabbix_mfa_method" "totp" {
  name          = "tf-acc-totp"
  type          = "totp"
  hash_function = "sha-512"
  code_length   = 8
}
`

const testAccMFAMethodConfig_duo = `
resource "zabbix_mfa_method" "duo" {
  name          = "tf-acc-duo"
  type          = "duo_universal_prompt"
  api_hostname  = "api-0123abcd.duosecurity.com"
  client_id     = "DIABCDEFGHIJKLMNOPQR"
  client_secret = "averysecretclientsecretvalue0000000000"
}
`
