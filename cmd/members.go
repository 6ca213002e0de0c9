// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/canonical/assessment-service/internal/types"
	"github.com/canonical/assessment-service/pkg/members"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage members of the caller's organization",
}

var listMembersCmd = &cobra.Command{
	Use:   "list",
	Short: "List members",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := getClient()
		if err != nil {
			return err
		}

		var profiles []*types.Profile
		if err := client.do(cmd.Context(), http.MethodGet, "/api/v0/members", nil, nil, &profiles); err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}

		return render(cmd.OutOrStdout(), profiles, func(w io.Writer) {
			row(w, "USER_ID", "EMAIL", "ROLE", "CREATED_AT")
			for _, p := range profiles {
				row(w, p.UserID, p.Email, p.Role, p.CreatedAt)
			}
		})
	},
}

var provisionMemberCmd = &cobra.Command{
	Use:   "provision [email] [role]",
	Short: "Add a user to the organization and print a recovery link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := types.ParseRole(args[1])
		if err != nil {
			return err
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		invitation := new(members.Invitation)
		req := members.ProvisionRequest{Email: args[0], Role: &role}
		if err := client.do(cmd.Context(), http.MethodPost, "/api/v0/members", nil, req, invitation); err != nil {
			return fmt.Errorf("failed to provision member: %w", err)
		}

		return render(cmd.OutOrStdout(), invitation, func(w io.Writer) {
			row(w, "USER_ID", "EMAIL", "ROLE", "LINK", "CODE")
			row(w, invitation.UserID, invitation.Email, invitation.Role, invitation.Link, invitation.Code)
		})
	},
}

var setRoleCmd = &cobra.Command{
	Use:   "set-role [user-id] [role]",
	Short: "Change the role of a member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := types.ParseRole(args[1])
		if err != nil {
			return err
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		profile := new(types.Profile)
		req := members.UpdateRoleRequest{Role: &role}
		if err := client.do(cmd.Context(), http.MethodPatch, "/api/v0/members/"+args[0], nil, req, profile); err != nil {
			return fmt.Errorf("failed to change role: %w", err)
		}

		cmd.Printf("Member %s is now %s\n", profile.UserID, profile.Role)
		return nil
	},
}

var removeMemberCmd = &cobra.Command{
	Use:   "remove [user-id]",
	Short: "Remove a member from the organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := getClient()
		if err != nil {
			return err
		}

		if err := client.do(cmd.Context(), http.MethodDelete, "/api/v0/members/"+args[0], nil, nil, nil); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}

		cmd.Printf("Member removed: %s\n", args[0])
		return nil
	},
}

func init() {
	membersCmd.AddCommand(listMembersCmd)
	membersCmd.AddCommand(provisionMemberCmd)
	membersCmd.AddCommand(setRoleCmd)
	membersCmd.AddCommand(removeMemberCmd)
	rootCmd.AddCommand(membersCmd)
}
