// In file: cmd/chatctl/root.go
package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/dileep-u-k/chat-agent/internal/app"
	"github.com/dileep-u-k/chat-agent/internal/config"
	"github.com/dileep-u-k/chat-agent/internal/tools"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "chatctl",
		Short: "Talk to the chat agent from the command line",
		Long: `chatctl drives the chat agent without the HTTP server.

Examples:
  chatctl ask "What is 3 * 7?"
  chatctl calc "sqrt(16) + 2 ^ 3"
  chatctl calc "1 / 3" --precision 4 --scientific=false`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !verbose {
				log.SetOutput(io.Discard)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print service logs")

	root.AddCommand(newAskCmd(), newCalcCmd())
	return root
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message through the chat session",
		Long: `Ask loads the same configuration as the server (.env, environment and
config.yaml), sends the message to the agent and prints the sanitized answer.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("message must not be empty")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			components, err := app.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer components.Close()

			fmt.Fprintln(cmd.OutOrStdout(), components.Session.Process(cmd.Context(), message))
			return nil
		},
	}
}

func newCalcCmd() *cobra.Command {
	opts := tools.DefaultMathOptions()

	cmd := &cobra.Command{
		Use:   "calc <expression>",
		Short: "Evaluate an expression with the calculator tool",
		Long: `Calc runs the calculator the agent uses. Failures are printed as
"computation error: ..." exactly as the agent would see them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expression := strings.Join(args, " ")
			result := tools.NewMathTool().CalculateWithOptions(cmd.Context(), expression, opts)
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Mode, "mode", opts.Mode, "evaluation mode")
	cmd.Flags().IntVar(&opts.Precision, "precision", opts.Precision, "significant digits (or decimals without --scientific)")
	cmd.Flags().BoolVar(&opts.Scientific, "scientific", opts.Scientific, "allow scientific notation")
	return cmd
}
