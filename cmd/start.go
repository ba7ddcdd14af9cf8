/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/longkey1/ragchat/internal/config"
	"github.com/longkey1/ragchat/internal/console"
	"github.com/longkey1/ragchat/internal/tui"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	startSessionID string
	startPlain     bool
	startTitle     string
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start an interactive chat",
	Long: `Start an interactive chat with the backend.

On a terminal this opens a full-screen chat window. When input or output is not a
terminal, or with --plain, questions are read one per line and answers are
printed as they arrive.

You can keep typing while an answer is pending; answers are shown in the order
they come back. Type '/help' for commands.

Examples:
  ragchat start                       # Start a new conversation
  ragchat start --session 550e8400    # Continue a conversation the backend knows
  ragchat start --plain < questions.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

		if startPlain || !interactive {
			w := newWidget(cfg, startSessionID)
			c := console.New(w, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(),
				console.WithEndpoint(cfg.GetEndpoint()),
				console.WithPrompt(interactive),
			)
			if interactive {
				fmt.Fprintf(cmd.ErrOrStderr(), "=== ragchat [%s] ===\n", cfg.GetEndpoint())
				fmt.Fprintf(cmd.ErrOrStderr(), "Type '/help' for commands, '/exit' or 'Ctrl+D' to quit\n\n")
			}
			if err := c.Run(cmd.Context()); err != nil {
				return fmt.Errorf("interactive mode: %w", err)
			}
			return nil
		}

		// stderr belongs to the screen while the terminal UI runs
		if !logsToFile() {
			log.Logger = zerolog.Nop()
		}

		w := newWidget(cfg, startSessionID)
		return tui.Run(cmd.Context(), w, tui.Options{
			Title:          startTitle,
			Endpoint:       cfg.GetEndpoint(),
			RenderMarkdown: cfg.RenderMarkdown,
		})
	},
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVarP(&startSessionID, "session", "s", "", "Session id returned by an earlier answer")
	startCmd.Flags().BoolVar(&startPlain, "plain", false, "Use the line-oriented interface even on a terminal")
	startCmd.Flags().StringVar(&startTitle, "title", "Smart AI Chatbot", "Title shown at the top of the chat window")
}
