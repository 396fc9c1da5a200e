package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartagri/seat-allocator/pkg/core/services"
	"github.com/smartagri/seat-allocator/pkg/db"
)

// AllocateCmd creates the allocate command
func AllocateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "allocate <scheme_id>",
		Short: "Run the one-time seat allocation for a scheme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.RunAllocation(app.Ctx, app.Database, app.Notifier, app.Metrics, app.Logger, args[0])
			if errors.Is(err, db.ErrAllocationLocked) {
				fmt.Printf("\n%s⚠️  Allocation for %s has already been processed and is locked.%s\n\n", colorYellow, args[0], colorReset)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Allocation completed!\n\n")
			fmt.Print(result.Summary())
			fmt.Println()

			for _, d := range result.Districts {
				fmt.Printf("%s\n", d.District)
				for _, a := range d.Assignments {
					fmt.Printf("  %3d. %-14s %-8s %7.2f  %-9s %s%s%s\n",
						a.Rank, a.ApplicantID, a.Category, a.ImpactScore, a.Tier,
						statusColor(a.Status), statusLabel(a.Status), colorReset)
				}
				fmt.Println()
			}

			if len(result.Unallocated) > 0 {
				fmt.Printf("%sLeft pending (no quota for district):%s\n", colorDim, colorReset)
				for i, a := range result.Unallocated {
					printApplicantRow(i+1, a)
				}
				fmt.Println()
			}

			return nil
		},
	}
}
