package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/core/services"
)

// ViewAllocationCmd creates the viewAllocation command
func ViewAllocationCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewAllocation <scheme_id>",
		Short: "Show every applicant of a scheme grouped by district",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := services.ViewAllocation(app.Ctx, app.Database, args[0])
			if err != nil {
				return err
			}

			state := "open"
			if report.Scheme.AllocationLocked {
				state = "allocated"
			}
			fmt.Printf("\n%s (%s) [%s]\n\n", report.Scheme.Title, report.Scheme.ID, state)

			for _, d := range report.Districts {
				quota := "no quota"
				if d.Quota != nil {
					quota = fmt.Sprintf("%d seats", *d.Quota)
				}
				fmt.Printf("%s (%s)", d.District, quota)
				for _, status := range model.AllStatuses {
					if n := d.Counts[status]; n > 0 {
						fmt.Printf("  %s%s: %d%s", statusColor(status), statusLabel(status), n, colorReset)
					}
				}
				fmt.Println()

				for i, a := range d.Applicants {
					printApplicantRow(i+1, a)
				}
				fmt.Println()
			}

			return nil
		},
	}
}

// ViewWaitlistCmd creates the viewWaitlist command
func ViewWaitlistCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewWaitlist <scheme_id> <district>",
		Short: "Show a district's waitlist in promotion order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			waiting, err := services.ViewWaitlist(app.Ctx, app.Database, args[0], args[1])
			if err != nil {
				return err
			}

			if len(waiting) == 0 {
				fmt.Printf("\nNo applicants waiting in %s.\n\n", args[1])
				return nil
			}

			fmt.Printf("\n%d applicants waiting in %s:\n\n", len(waiting), args[1])
			for i, a := range waiting {
				printApplicantRow(i+1, a)
			}
			fmt.Println()

			return nil
		},
	}
}
