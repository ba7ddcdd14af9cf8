/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/longkey1/ragchat/internal/config"
	"github.com/spf13/cobra"
)

var chatSessionID string

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask a single question",
	Long: `Send one question to the backend and print the answer.

If no question is provided as an argument, it reads from stdin.
The session id handed out by the backend is printed to stderr; pass it back with
--session to continue the same conversation.

For an interactive conversation, use 'ragchat start' instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var question string
		if len(args) > 0 {
			question = strings.Join(args, " ")
		} else {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
			question = strings.TrimRight(string(input), "\r\n")
		}

		w := newWidget(cfg, chatSessionID)
		result, ok := w.Send(cmd.Context(), question)
		if !ok {
			return fmt.Errorf("question is empty")
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Reply.Text)

		if token, bound := w.Session().Current(); bound && (result.SessionBound || verbose) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nSession: %s\n", token)
			fmt.Fprintf(cmd.ErrOrStderr(), "Next time, use:\n  ragchat chat --session %s \"your question\"\n", token)
		}

		if result.Err != nil {
			return fmt.Errorf("chat request failed: %w", result.Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "Session id returned by an earlier answer")
}
