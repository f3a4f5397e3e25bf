package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print a starter scenario file",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(exampleScenario)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}

const exampleScenario = `scenario_id: base-case
scenario_name: Base Case
description: Single retiree with a pension, Social Security, and an IRA.

global_settings:
  projection_start_month: "2026-01"
  projection_end_year: 2045
  residence_state: PA

people:
  - person_id: alice
    name: Alice
    birth_date: 1960-06-15T00:00:00Z
    life_expectancy_years: 88

income_streams:
  - stream_id: pension
    type: pension
    owner_person_id: alice
    start_month: "2026-01"
    monthly_amount_at_start: 5000
    cola_percent_annual: 0.02
    cola_month: 1
  - stream_id: social-security
    type: social_security
    owner_person_id: alice
    start_month: "2027-07"
    monthly_amount_at_start: 2400
    cola_percent_annual: 0.025
    cola_month: 1

accounts:
  - account_id: rollover-ira
    name: Rollover IRA
    tax_bucket: tax_deferred
    starting_balance: 300000
    annual_return_rate: 0.06
    monthly_withdrawal: 1500
    withdrawal_start_month: "2026-01"
    receives_surplus: true
  - account_id: roth
    name: Roth IRA
    tax_bucket: roth
    starting_balance: 80000
    annual_return_rate: 0.05

budget_settings:
  categories:
    - category_name: housing
      category_type: fixed
      monthly_amount: 2500
      include: true
    - category_name: healthcare
      category_type: fixed
      monthly_amount: 700
      include: true
    - category_name: travel
      category_type: flexible
      monthly_amount: 800
      include: true
  inflation_annual_percent: 0.025
  survivor_flexible_reduction_percent: 0.25
  survivor_reduction_mode: flex_only

tax_settings:
  filing_status: single
  tax_year_ruleset: 2024
`
