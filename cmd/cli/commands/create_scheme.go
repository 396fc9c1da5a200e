package commands

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/smartagri/seat-allocator/pkg/core/services"
)

// CreateSchemeCmd creates the createScheme command
func CreateSchemeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "createScheme <definition.yaml>",
		Short: "Create a scheme from a YAML definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read scheme definition: %w", err)
			}

			def, err := services.ParseSchemeDefinition(data)
			if err != nil {
				return err
			}

			scheme, err := services.CreateScheme(app.Ctx, app.Database, app.Logger, def)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Scheme created successfully!\n\n")
			fmt.Printf("Scheme ID:    %s\n", scheme.ID)
			fmt.Printf("Title:        %s\n", scheme.Title)
			fmt.Printf("Reservations: SC %.1f%%, ST %.1f%%\n\n", scheme.Reservations.SCPercentage, scheme.Reservations.STPercentage)
			fmt.Printf("District quotas:\n")
			for _, district := range slices.Sorted(maps.Keys(scheme.DistrictQuotas)) {
				fmt.Printf("  %-20s %d\n", district, scheme.DistrictQuotas[district])
			}
			fmt.Println()

			return nil
		},
	}
}
