// Package provider implements acceptance tests for the dashboard resource
package provider

import (
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
)

// TestAccDashboard_basic tests basic CRUD lifecycle for the dashboard resource
func TestAccDashboard_basic(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			// Create and Read testing
			{
				Config: testAccDashboardConfig_basic,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("zabbix_dashboard.test", "name", "tf-acc-dashboard"),
					resource.TestCheckResourceAttr("zabbix_dashboard.test", "pages.0.widgets.0.type", "clock"),
					resource.TestCheckResourceAttrSet("zabbix_dashboard.test", "id"),
				),
			},
			// Update testing
			{
				Config: testAccDashboardConfig_updated,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("zabbix_dashboard.test", "display_period", "60"),
					resource.TestCheckResourceAttr("zabbix_dashboard.test", "owner", "Admin"),
					resource.TestCheckResourceAttr("zabbix_dashboard.test", "pages.0.widgets.0.view_mode", "hidden_header"),
					resource.TestCheckResourceAttr("zabbix_dashboard.test", "pages.#", "2"),
				),
			},
		},
	})
}

// TestAccDashboard_referenceFields tests widget fields referencing monitored
// objects by name
func TestAccDashboard_referenceFields(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck:                 func() { testAccPreCheck(t) },
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccDashboardConfig_referenceFields,
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("zabbix_dashboard.problems", "pages.0.widgets.0.type", "problems"),
					resource.TestCheckResourceAttr("zabbix_dashboard.problems", "pages.0.widgets.0.fields.0.value_name", "Zabbix servers"),
					resource.TestCheckResourceAttrSet("zabbix_dashboard.problems", "id"),
				),
			},
		},
	})
}

const testAccDashboardConfig_basic = `
resource "zabbix_dashboard" "test" {
  name = "tf-acc-dashboard"

  pages = [
    {
      widgets = [
        {
          type   = "clock"
          x      = 0
          y      = 0
          width  = 12
          height = 4
        },
      ]
    },
  ]
}
`

const testAccDashboardConfig_updated = `
resource "zabbix_dashboard" "test" {
  name           = "tf-acc-dashboard"
  owner          = "Admin"
  display_period = 60

  pages = [
    {
      widgets = [
        {
          type      = "clock"
          x         = 0
          y         = 0
          width     = 12
          height    = 4
          view_mode = "hidden_header"
        },
      ]
    },
    {
      name = "capacity"
      widgets = [
        {
          type   = "systeminfo"
          x      = 0
          y      = 0
          width  = 24
          height = 6
        },
      ]
    },
  ]
}
`

const testAccDashboardConfig_referenceFields = `
resource "zabbix_dashboard" "problems" {
  name = "tf-acc-dashboard-problems"

  pages = [
    {
      widgets = [
        {
          type   = "problems"
          name   = "server problems"
          x      = 0
          y      = 0
          width  = 36
          height = 10

          fields = [
            {
              type       = "host_group"
              name       = "groupids"
              value_name = "Zabbix servers"
            },
            {
              type  = "integer"
              name  = "show_suppressed"
              value = "1"
            },
          ]
        },
      ]
    },
  ]
}
`
