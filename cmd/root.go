/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/longkey1/ragchat/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	// logCloser is set when logs go to a file
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "A terminal chat client for a RAG question-answering backend",
	Long: `ragchat sends your questions to a RAG chat backend and shows the answers.
The backend hands out a session id with its first answer; ragchat passes it back
on every following question so the conversation keeps its context.
You can configure the tool using a TOML configuration file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ragchat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().String("endpoint", "", "backend chat URL (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")

	cobra.CheckErr(viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint")))
	cobra.CheckErr(viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("RAGCHAT")
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	viper.BindEnv("endpoint", "RAGCHAT_ENDPOINT")
	viper.BindEnv("session_param", "RAGCHAT_SESSION_PARAM")
	viper.BindEnv("request_timeout", "RAGCHAT_REQUEST_TIMEOUT")
	viper.BindEnv("render_markdown", "RAGCHAT_RENDER_MARKDOWN")
	viper.BindEnv("log_level", "RAGCHAT_LOG_LEVEL")
	viper.BindEnv("log_file", "RAGCHAT_LOG_FILE")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
		return
	}

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "ragchat")

	// Load system-wide config first (lower priority)
	for _, path := range []string{"/etc/ragchat", "/usr/local/etc/ragchat"} {
		viper.AddConfigPath(path)
	}
	viper.SetConfigType("toml")
	viper.SetConfigName("config")

	systemConfigLoaded := false
	if err := viper.ReadInConfig(); err == nil {
		systemConfigLoaded = true
		if verbose {
			fmt.Fprintln(os.Stderr, "Loaded system-wide config:", viper.ConfigFileUsed())
		}
	}

	// Load user config (higher priority) - merge with system config
	viper.AddConfigPath(userConfigDir)
	if systemConfigLoaded {
		if err := viper.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				fmt.Fprintf(os.Stderr, "Error merging user config file: %v\n", err)
			}
		} else if verbose {
			fmt.Fprintln(os.Stderr, "Merged user config:", viper.ConfigFileUsed())
		}
	} else if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}
}

// setupLogging configures the global zerolog logger from flags and config
func setupLogging() error {
	level := viper.GetString("log_level")
	if verbose {
		level = "debug"
	}
	if level == "" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)

	logFile := viper.GetString("log_file")
	if logFile == "" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
		return nil
	}

	path, err := config.ResolvePath(viper.GetViper(), logFile)
	if err != nil {
		return fmt.Errorf("resolving log file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logCloser = f
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return nil
}

// logsToFile reports whether logging was redirected away from stderr
func logsToFile() bool {
	return logCloser != nil
}
