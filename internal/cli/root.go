// Package cli implements the command-line interface for linkforward
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	cmdpkg "github.com/berrythewa/linkforward/internal/cli/cmd"
	"github.com/berrythewa/linkforward/internal/common"
	"github.com/berrythewa/linkforward/internal/config"
	"github.com/berrythewa/linkforward/internal/forwarder"
	"github.com/berrythewa/linkforward/pkg/format"
	"github.com/berrythewa/linkforward/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes for forwarding failures, one per failure kind.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitTransport   = 3
	ExitService     = 4
	ExitDecode      = 5
	ExitApplication = 6
)

var (
	// Flags that apply to all commands
	logLevel   string
	cfgFile    string
	serviceURL string
	ide        string
	timeout    time.Duration

	// Flag for the bare "linkforward <url>" form
	useJSON bool

	// The loaded configuration
	cfg *config.Config

	// Logger instance
	logger *zap.Logger
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "linkforward [url]",
	Short: "Forward links to the local helper service",
	Long: `linkforward hands a URL to a helper service running on this machine
(http://localhost:9527 by default), which decides how to open it.

Running linkforward with a single URL argument is the same as
"linkforward open <url>".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return cmdpkg.RunOpen(cmd, args[0], useJSON)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		path := utils.ExpandPath(cfgFile)

		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Override config with flags
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if serviceURL != "" {
			cfg.ServiceURL = serviceURL
		}
		if ide != "" {
			cfg.IDE = ide
		}
		if timeout > 0 {
			cfg.Timeout = config.Duration(timeout)
		}

		logger, err = common.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Debug("Configuration loaded",
			zap.String("config_path", path),
			zap.String("service_url", cfg.ServiceURL),
			zap.String("ide", cfg.IDE),
			zap.Duration("timeout", cfg.Timeout.Std()))

		// Share cfg and logger with cmd package
		cmdpkg.SetConfig(cfg, path)
		cmdpkg.SetZapLogger(logger)

		return nil
	},
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch forwarder.KindOf(err) {
	case forwarder.KindTransport:
		return ExitTransport
	case forwarder.KindService:
		return ExitService
	case forwarder.KindDecode:
		return ExitDecode
	case forwarder.KindApplication:
		return ExitApplication
	default:
		return ExitFailure
	}
}

// cleanup flushes the logger before exit
func cleanup() {
	if logger != nil {
		_ = logger.Sync()
	}
}

// Execute runs the root command. This is called by main.main(). An
// interrupt cancels an in-flight request.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	cleanup()

	if err != nil {
		p := format.NewPrinter(os.Stderr)
		p.Failure(fmt.Sprintf("Error: %v", err))
		if forwarder.KindOf(err) == forwarder.KindTransport {
			p.Hint("Is the helper service running? Check with: linkforward health")
		}
		os.Exit(ExitCode(err))
	}
}

// SetVersionInfo sets the version information used by the version command
func SetVersionInfo(version, buildTime, commit string) {
	cmdpkg.SetVersionInfo(version, buildTime, commit)
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	RootCmd.AddCommand(cmd)
}

func init() {
	// Global flags for all commands
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $LINKFORWARD_CONFIG or the user config dir)")
	RootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", "", "helper service base URL (default http://localhost:9527)")
	RootCmd.PersistentFlags().StringVar(&ide, "ide", "", "caller identity sent to the helper")
	RootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (default 60s)")

	RootCmd.Flags().BoolVar(&useJSON, "json", false, "print the helper's reply as JSON")
}
