package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/core/services"
)

// ApplyCmd creates the apply command
func ApplyCmd(app *AppContext) *cobra.Command {
	var input services.ApplicationInput
	var category string

	cmd := &cobra.Command{
		Use:   "apply <scheme_id>",
		Short: "Submit an application to a scheme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.SchemeID = args[0]
			input.Category = model.Category(category)

			applicant, err := services.SubmitApplication(app.Ctx, app.Database, app.Notifier, app.Metrics, app.Logger, input)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Application submitted!\n\n")
			fmt.Printf("Application ID: %s\n", applicant.ID)
			fmt.Printf("Impact score:   %.2f\n", applicant.ImpactScore)
			fmt.Printf("Status:         %s\n\n", statusLabel(applicant.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&input.ApplicantName, "name", "", "Applicant name")
	cmd.Flags().StringVar(&input.AadhaarNumber, "aadhaar", "", "12 digit aadhaar number")
	cmd.Flags().StringVar(&input.PhoneNumber, "phone", "", "Phone number for SMS updates")
	cmd.Flags().IntVar(&input.Income, "income", 0, "Annual income")
	cmd.Flags().Float64Var(&input.LandSize, "land", 0, "Land holding in acres")
	cmd.Flags().StringVar(&input.District, "district", "", "District")
	cmd.Flags().StringVar(&category, "category", string(model.CategoryGeneral), "Category (SC, ST, General)")
	for _, name := range []string{"name", "aadhaar", "phone", "district"} {
		cmd.MarkFlagRequired(name)
	}

	return cmd
}
