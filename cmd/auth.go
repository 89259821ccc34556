package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comerian/gmaildrafter/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account  string
		authCode string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Obtain and cache a Google OAuth token for CLI use",
		Long: `Authorize gmaildrafter to create drafts and read sheets on your behalf.

Run without flags to print the authorization URL. Open it in a browser,
grant access, then run the command again with --code to exchange the
authorization code for a token. The token is cached on disk and reused by
the drafts command until it expires.

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET in the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if authCode == "" {
				fmt.Println("Open the following URL in your browser and grant access:")
				fmt.Println()
				fmt.Println(google.GetAuthURL())
				fmt.Println()
				fmt.Println("Then run: gmaildrafter auth --code <authorization-code>")
				return nil
			}

			if err := google.SaveTokenForAccount(context.Background(), account, authCode); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Printf("Token saved for account %q\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to store the token under")
	cmd.Flags().StringVar(&authCode, "code", "", "Authorization code from the consent screen")

	return cmd
}
