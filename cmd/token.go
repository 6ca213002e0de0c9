// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2/clientcredentials"
)

type tokenOptions struct {
	clientID     string
	clientSecret string
	tokenURL     string
	issuerURL    string
	scopes       []string
	export       bool
}

var tokenOpts tokenOptions

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Get an access token for the API using the client credentials flow",
	Long: `Exchange client credentials for an access token. The token endpoint is
either given with --token-url or discovered from --issuer-url. With --export the
token is printed as a shell assignment for the --token flag of other commands.`,
	RunE: runToken,
}

func runToken(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint, err := tokenEndpoint(ctx, tokenOpts.tokenURL, tokenOpts.issuerURL)
	if err != nil {
		return err
	}

	secret := tokenOpts.clientSecret
	if secret == "" {
		secret = os.Getenv("ASSESSMENT_CLIENT_SECRET")
	}
	if secret == "" {
		return fmt.Errorf("a client secret is required, pass --client-secret or set ASSESSMENT_CLIENT_SECRET")
	}

	config := &clientcredentials.Config{
		ClientID:     tokenOpts.clientID,
		ClientSecret: secret,
		TokenURL:     endpoint,
		Scopes:       tokenOpts.scopes,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}

	out := cmd.OutOrStdout()

	switch {
	case outputFormat == "json":
		return json.NewEncoder(out).Encode(map[string]any{
			"access_token": token.AccessToken,
			"token_type":   token.Type(),
			"expiry":       token.Expiry.Format(time.RFC3339),
		})
	case tokenOpts.export:
		fmt.Fprintf(out, "export ASSESSMENT_TOKEN=%s\n", token.AccessToken)
	default:
		fmt.Fprintln(out, token.AccessToken)
	}

	return nil
}

// tokenEndpoint prefers an explicit token URL and falls back to OIDC
// discovery on the issuer.
func tokenEndpoint(ctx context.Context, tokenURL, issuerURL string) (string, error) {
	if tokenURL != "" {
		return tokenURL, nil
	}
	if issuerURL == "" {
		return "", fmt.Errorf("either --token-url or --issuer-url must be provided")
	}

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return "", fmt.Errorf("failed to discover issuer %s: %w", issuerURL, err)
	}

	return provider.Endpoint().TokenURL, nil
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenOpts.clientID, "client-id", "", "OAuth2 client id")
	tokenCmd.Flags().StringVar(&tokenOpts.clientSecret, "client-secret", "", "OAuth2 client secret, defaults to ASSESSMENT_CLIENT_SECRET")
	tokenCmd.Flags().StringVar(&tokenOpts.tokenURL, "token-url", "", "Token endpoint")
	tokenCmd.Flags().StringVar(&tokenOpts.issuerURL, "issuer-url", "", "Issuer URL used for OIDC discovery")
	tokenCmd.Flags().StringSliceVar(&tokenOpts.scopes, "scopes", []string{}, "Scopes (comma-separated)")
	tokenCmd.Flags().BoolVar(&tokenOpts.export, "export", false, "Print the token as a shell export")

	_ = tokenCmd.MarkFlagRequired("client-id")
}
