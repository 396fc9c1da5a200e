package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/core/scoring"
	"github.com/smartagri/seat-allocator/pkg/core/services"
)

// ListSchemesCmd creates the listSchemes command
func ListSchemesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listSchemes",
		Short: "List all schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemes, err := app.Database.ListSchemes(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list schemes: %w", err)
			}

			fmt.Printf("\nFound %d schemes:\n\n", len(schemes))
			printSchemes(schemes)
			return nil
		},
	}
}

// EligibleSchemesCmd creates the eligibleSchemes command
func EligibleSchemesCmd(app *AppContext) *cobra.Command {
	var check scoring.EligibilityCheck
	var category string

	cmd := &cobra.Command{
		Use:   "eligibleSchemes",
		Short: "List the schemes an applicant profile may apply to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			check.Category = model.Category(category)

			schemes, err := services.EligibleSchemes(app.Ctx, app.Database, check)
			if err != nil {
				return err
			}

			fmt.Printf("\n%d eligible schemes for district %s:\n\n", len(schemes), check.District)
			printSchemes(schemes)
			return nil
		},
	}

	cmd.Flags().IntVar(&check.Income, "income", 0, "Annual income")
	cmd.Flags().Float64Var(&check.LandSize, "land", 0, "Land holding in acres")
	cmd.Flags().StringVar(&check.District, "district", "", "District")
	cmd.Flags().StringVar(&category, "category", string(model.CategoryGeneral), "Category (SC, ST, General)")
	cmd.MarkFlagRequired("district")

	return cmd
}

func printSchemes(schemes []model.Scheme) {
	for _, s := range schemes {
		state := colorGreen + "open" + colorReset
		if s.AllocationLocked {
			state = colorDim + "allocated" + colorReset
		}
		fmt.Printf("- %s (%s) [%s]\n", s.Title, s.ID, state)
		fmt.Printf("    max income: %s, max land: %s, deadline: %s, districts: %d\n",
			formatLimit(s.MaxIncome, ""), formatLimit(s.MaxLandSize, " acres"), s.Deadline, len(s.DistrictQuotas))
		if s.ConfigMalformed {
			fmt.Printf("    %sWARNING: quota configuration could not be read%s\n", colorRed, colorReset)
		}
	}
	fmt.Println()
}
