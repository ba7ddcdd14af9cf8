package cmd

import (
	"fmt"
	"strings"

	"github.com/longkey1/ragchat/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file, environment variables and flags.

If a field name is specified, only that field's value is displayed.
Available fields: configfile, endpoint, session_param, request_timeout, render_markdown, log_level, log_file

Examples:
  ragchat config                 # Show all configuration
  ragchat config endpoint        # Show only the backend endpoint
  ragchat config request_timeout # Show only the request timeout`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			switch strings.ToLower(args[0]) {
			case "configfile":
				fmt.Fprintln(out, viper.ConfigFileUsed())
			case "endpoint":
				fmt.Fprintln(out, cfg.Endpoint)
			case "session_param", "sessionparam":
				fmt.Fprintln(out, cfg.SessionParam)
			case "request_timeout", "requesttimeout":
				fmt.Fprintln(out, cfg.GetRequestTimeout())
			case "render_markdown", "rendermarkdown":
				fmt.Fprintln(out, cfg.RenderMarkdown)
			case "log_level", "loglevel":
				fmt.Fprintln(out, cfg.LogLevel)
			case "log_file", "logfile":
				fmt.Fprintln(out, cfg.LogFile)
			default:
				return fmt.Errorf("unknown field: %s\nAvailable fields: configfile, endpoint, session_param, request_timeout, render_markdown, log_level, log_file", args[0])
			}
			return nil
		}

		fmt.Fprintf(out, "ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Fprintf(out, "Endpoint: %s\n", cfg.Endpoint)
		fmt.Fprintf(out, "SessionParam: %s\n", cfg.SessionParam)
		fmt.Fprintf(out, "RequestTimeout: %s\n", cfg.GetRequestTimeout())
		fmt.Fprintf(out, "RenderMarkdown: %v\n", cfg.RenderMarkdown)
		fmt.Fprintf(out, "LogLevel: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "LogFile: %s\n", cfg.LogFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
