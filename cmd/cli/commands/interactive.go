package commands

import (
	"bufio"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// InteractiveCmd creates a session that runs sibling commands against one initialised AppContext
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands over one database connection.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			commands := make(map[string]*cobra.Command)
			for _, sub := range cmd.Parent().Commands() {
				switch sub.Name() {
				case "interactive", "completion", "help":
				default:
					commands[sub.Name()] = sub
				}
			}

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}

				parts := strings.Fields(scanner.Text())
				if len(parts) == 0 {
					continue
				}
				name, cmdArgs := parts[0], parts[1:]

				switch name {
				case "exit", "quit":
					fmt.Println("Goodbye!")
					return nil
				case "help":
					printInteractiveHelp(commands)
					continue
				}

				target, ok := commands[name]
				if !ok {
					fmt.Printf("%sUnknown command: %s (type 'help' for available commands)%s\n\n", colorRed, name, colorReset)
					continue
				}

				if err := runInteractive(target, cmdArgs); err != nil {
					app.Logger.Debug("Interactive command failed", zap.String("command", name), zap.Error(err))
					fmt.Printf("%sError: %v%s\n\n", colorRed, err, colorReset)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		},
	}
}

// runInteractive calls a command's RunE directly so the root's PersistentPreRunE is not re-run
func runInteractive(target *cobra.Command, args []string) error {
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	if err := target.ParseFlags(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	args = target.Flags().Args()

	if err := target.ValidateArgs(args); err != nil {
		return err
	}
	if err := target.ValidateRequiredFlags(); err != nil {
		return err
	}

	if target.RunE != nil {
		return target.RunE(target, args)
	}
	if target.Run != nil {
		target.Run(target, args)
	}
	return nil
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		fmt.Printf("  %-40s %s\n", commands[name].Use, commands[name].Short)
	}
	fmt.Println("\n  help                                     Show this help message")
	fmt.Println("  exit, quit                               Exit the interactive session")
	fmt.Println()
}
