package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/comerian/gmaildrafter/internal/auth"
	"github.com/comerian/gmaildrafter/internal/drafter"
	"github.com/comerian/gmaildrafter/internal/google"
	"github.com/comerian/gmaildrafter/internal/sheets"
	"github.com/comerian/gmaildrafter/internal/template"
)

func newDraftsCmd() *cobra.Command {
	var (
		account      string
		sheetURL     string
		subject      string
		body         string
		templateFile string
	)

	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Create Gmail drafts from a Google Sheet",
		Long: `Create one Gmail draft per data row of the given sheet, filling
{placeholder} variables in the subject and body from the row's cells. The
recipient address is taken from the first column whose header contains
"email".

The template can be given as --subject and --body, or as --template-file
whose content holds the subject and body separated by a "---" line.

Sheet reads use the GOOGLE_SERVICE_ACCOUNT_KEY service account when set,
falling back to the cached OAuth token for --account. Draft creation
always uses the cached OAuth token; run "gmaildrafter auth" first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			combined, err := combineTemplate(subject, body, templateFile)
			if err != nil {
				return err
			}

			sheetID, err := sheets.ExtractSheetID(sheetURL)
			if err != nil {
				return err
			}

			var tokens google.TokenProvider = google.NewFileTokenProvider()
			token, err := tokens.GetTokenForAccount(ctx, account)
			if err != nil {
				return fmt.Errorf("no cached token for account %q; run \"gmaildrafter auth\" first: %w", account, err)
			}

			client, err := sheetsClientForCLI(ctx, account)
			if err != nil {
				return err
			}

			table, err := client.FetchTable(ctx, sheetID)
			if err != nil {
				return err
			}

			sessions := auth.NewManager()
			sessions.SignIn(auth.Session{
				Email:       account,
				AccessToken: token.AccessToken,
				Provider:    "google",
			})

			runner := drafter.NewRunner(sessions)
			runner.LoadTable(table)

			result, err := runner.Run(ctx, combined)
			if err != nil {
				return err
			}

			fmt.Printf("Created %d drafts", result.Created)
			if result.Skipped > 0 {
				fmt.Printf(", skipped %d rows with no email address", result.Skipped)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use")
	cmd.Flags().StringVar(&sheetURL, "sheet", "", "Google Sheet URL (required)")
	cmd.Flags().StringVar(&subject, "subject", "", "Draft subject template")
	cmd.Flags().StringVar(&body, "body", "", "Draft body template")
	cmd.Flags().StringVar(&templateFile, "template-file", "", "File holding subject and body separated by ---")
	_ = cmd.MarkFlagRequired("sheet")

	return cmd
}

// combineTemplate resolves the flag combinations into the combined
// subject/body form the runner consumes.
func combineTemplate(subject, body, templateFile string) (string, error) {
	if templateFile != "" {
		if subject != "" || body != "" {
			return "", fmt.Errorf("--template-file cannot be combined with --subject or --body")
		}
		raw, err := os.ReadFile(templateFile)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(raw), nil
	}
	return template.Join(subject, body), nil
}

// sheetsClientForCLI builds the Sheets client from the service account key
// when configured, otherwise from the account's cached OAuth token.
func sheetsClientForCLI(ctx context.Context, account string) (*sheets.Client, error) {
	if google.HasServiceAccount() {
		opts, err := google.ServiceAccountOptions()
		if err != nil {
			return nil, err
		}
		return sheets.NewClient(ctx, opts...)
	}

	httpClient, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return sheets.NewClient(ctx, option.WithHTTPClient(httpClient))
}
