package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartagri/seat-allocator/pkg/core/services"
)

// ViewSMSLogCmd creates the viewSMSLog command
func ViewSMSLogCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewSMSLog",
		Short: "Show every text message sent to applicants, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logs, err := services.ViewSMSLog(app.Ctx, app.Database)
			if err != nil {
				return err
			}

			fmt.Printf("\n%d messages:\n\n", len(logs))
			for _, l := range logs {
				mark := colorGreen + "✓" + colorReset
				if !l.Delivered {
					mark = colorRed + "✗" + colorReset
				}
				fmt.Printf("%s %s  %-15s %s\n", mark, l.SentAt.Format("2006-01-02 15:04"), l.PhoneNumber, l.Message)
			}
			fmt.Println()

			return nil
		},
	}
}
