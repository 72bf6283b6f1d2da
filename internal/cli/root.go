package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/kpidesk/internal/cli/formatter"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/identity"
	"github.com/alexanderramin/kpidesk/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// MetricName is the histogram printed by --metrics.
const MetricName = "kpidesk_use_case_duration_seconds"

// ProfileSaver publishes a profile to a shared identity store.
type ProfileSaver interface {
	Save(ctx context.Context, p domain.Profile) error
}

// App holds references to all services used by CLI commands.
type App struct {
	Records    service.RecordService
	Checklists service.ChecklistService
	Comments   service.CommentService
	Editor     service.EditorService
	Identity   identity.Provider

	// Profiles is nil unless a shared identity store is configured.
	Profiles ProfileSaver
	// ConfiguredProfile is the identity read from the environment.
	ConfiguredProfile domain.Profile

	Clock clockwork.Clock
	// Metrics, when set, is gathered and printed after each command.
	Metrics prometheus.Gatherer
}

func (a *App) now() clockwork.Clock {
	if a.Clock == nil {
		return clockwork.NewRealClock()
	}
	return a.Clock
}

// NewRootCmd creates the top-level "kpidesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "kpidesk",
		Short:         "Edit evaluations, KPIs and tasks with their checklists and feedback",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.Metrics == nil {
				return nil
			}
			families, err := app.Metrics.Gather()
			if err != nil {
				return fmt.Errorf("gathering metrics: %w", err)
			}
			if out := formatter.FormatUseCaseMetrics(families, MetricName); out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%s", out)
			}
			return nil
		},
	}

	root.AddCommand(
		newRecordCmd(app),
		newChecklistCmd(app),
		newCommentCmd(app),
		newProfileCmd(app),
	)

	return root
}
