package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/core/services"
)

// SetStatusCmd creates the setStatus command
func SetStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setStatus <application_id> <status>",
		Short: "Set an application's status (approved, rejected, waiting, ...)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}

			result, err := services.ApplyStatusChange(app.Ctx, app.Database, app.Notifier, app.Metrics, app.Logger, args[0], status)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s: %s -> %s%s%s\n", result.Applicant.ID,
				statusLabel(result.PreviousStatus),
				statusColor(result.Applicant.Status), statusLabel(result.Applicant.Status), colorReset)

			if result.Promoted != nil {
				fmt.Printf("\nPromoted from the waitlist:\n")
				printApplicantRow(1, *result.Promoted)
			}
			fmt.Println()

			return nil
		},
	}
}
