package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/kpidesk/internal/cli/formatter"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or publish the signed-in user",
	}

	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfileSaveCmd(app),
	)

	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the profile stamped on new records and comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Identity.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatProfile(p))
			return nil
		},
	}
	return cmd
}

func newProfileSaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Publish the configured profile to the shared identity store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Profiles == nil {
				return fmt.Errorf("no shared identity store configured (set KPIDESK_REDIS_URL)")
			}
			p := app.ConfiguredProfile
			if p.UserID == "" {
				return fmt.Errorf("KPIDESK_USER_ID is required to publish a profile")
			}
			if err := app.Profiles.Save(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s\n", p.UserID)
			return nil
		},
	}
	return cmd
}

func formatProfile(p domain.Profile) string {
	var b strings.Builder
	b.WriteString(formatter.Header(formatter.Or(p.Name)))
	b.WriteString("\n")
	rows := [][2]string{
		{"User", p.UserID},
		{"Team", p.Team},
		{"Department", p.Department},
		{"Position", p.Position},
		{"Role", p.Role},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "  %-11s %s\n", r[0]+":", formatter.Or(r[1]))
	}
	return b.String()
}
