// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/canonical/assessment-service/internal/types"
	"github.com/canonical/assessment-service/pkg/organization"
)

var organizationCmd = &cobra.Command{
	Use:   "organization",
	Short: "Inspect and update the caller's organization",
}

var getOrganizationCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the organization of the authenticated user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := getClient()
		if err != nil {
			return err
		}

		org := new(types.Organization)
		if err := client.do(cmd.Context(), http.MethodGet, "/api/v0/organization", nil, nil, org); err != nil {
			return fmt.Errorf("failed to get organization: %w", err)
		}

		return render(cmd.OutOrStdout(), org, func(w io.Writer) {
			row(w, "ID", "NAME", "PLAN_TIER", "CREATED_AT")
			row(w, org.ID, org.Name, org.PlanTier, org.CreatedAt)
		})
	},
}

var updateOrganizationCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update the name or plan tier of an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := organization.UpdateRequest{}
		if cmd.Flags().Changed("name") {
			req.Name, _ = cmd.Flags().GetString("name")
			req.UpdateMask = append(req.UpdateMask, "name")
		}
		if cmd.Flags().Changed("plan-tier") {
			req.PlanTier, _ = cmd.Flags().GetString("plan-tier")
			req.UpdateMask = append(req.UpdateMask, "plan_tier")
		}
		if len(req.UpdateMask) == 0 {
			return fmt.Errorf("nothing to update, pass --name or --plan-tier")
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		org := new(types.Organization)
		if err := client.do(cmd.Context(), http.MethodPatch, "/api/v0/organizations/"+args[0], nil, req, org); err != nil {
			return fmt.Errorf("failed to update organization: %w", err)
		}

		cmd.Printf("Organization updated: %s (ID: %s)\n", org.Name, org.ID)
		return nil
	},
}

func init() {
	updateOrganizationCmd.Flags().String("name", "", "New organization name")
	updateOrganizationCmd.Flags().String("plan-tier", "", "New plan tier")

	organizationCmd.AddCommand(getOrganizationCmd)
	organizationCmd.AddCommand(updateOrganizationCmd)
	rootCmd.AddCommand(organizationCmd)
}
