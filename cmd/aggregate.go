// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/canonical/assessment-service/internal/types"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Print aggregated results, suppressed buckets show how many respondents are missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		for _, name := range []string{"group-by", "assessment-id", "department-id", "category"} {
			if v, _ := cmd.Flags().GetString(name); v != "" {
				query.Set(strings.ReplaceAll(name, "-", "_"), v)
			}
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		var stats []*types.AggregateStatistic
		if err := client.do(cmd.Context(), http.MethodGet, "/api/v0/aggregates", query, nil, &stats); err != nil {
			return fmt.Errorf("failed to aggregate: %w", err)
		}

		return render(cmd.OutOrStdout(), stats, func(w io.Writer) {
			row(w, "BUCKET", "KEY", "SAMPLES", "VALUE")
			for _, s := range stats {
				value := fmt.Sprintf("suppressed (%d more needed)", s.Remaining)
				if !s.Suppressed && s.Value != nil {
					value = s.Value.StringFixed(2)
				}
				row(w, s.BucketType, s.BucketKey, s.SampleCount, value)
			}
		})
	},
}

func init() {
	aggregateCmd.Flags().String("group-by", string(types.BucketAssessment), "Bucket type: assessment, department or category")
	aggregateCmd.Flags().String("assessment-id", "", "Restrict to one assessment")
	aggregateCmd.Flags().String("department-id", "", "Restrict to one department")
	aggregateCmd.Flags().String("category", "", "Restrict to one question category")

	rootCmd.AddCommand(aggregateCmd)
}
