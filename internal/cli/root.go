package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/picarx-dash/internal/aio"
	"github.com/wesleyorama2/picarx-dash/internal/config"
	"github.com/wesleyorama2/picarx-dash/internal/output"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "picarx-dash",
	Short:   "Dashboard for a PiCar-X robot",
	Version: version,
	Long: `picarx-dash serves the PiCar-X dashboard: live sensor values and robot
commands through Adafruit IO, and charts of the historical sensor readings
stored in Postgres.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		noColor, _ := RootCmd.PersistentFlags().GetBool("no-color")
		noColor = noColor || !output.UseColor(os.Stderr)
		msg := fmt.Sprintf("Error: %v", err)
		if !noColor {
			msg = color.New(color.FgRed).Sprint(msg)
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", output.ErrorIcon(noColor), msg)
	}
	return err
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML or JSON configuration file")
	RootCmd.PersistentFlags().String("env", ".env", "Path to a .env file")
	RootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(renderCmd)
	RootCmd.AddCommand(sendCmd)
	RootCmd.AddCommand(liveCmd)
}

// readConfig reads the configuration named by the persistent flags without validating it.
func readConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env")
	return config.Read(path, envFile)
}

// loadConfig is readConfig plus validation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env")
	return config.Load(path, envFile)
}

// useColor reports whether the command output should be colored.
func useColor(cmd *cobra.Command) bool {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return !noColor && output.UseColor(os.Stdout)
}

func newAIOClient(cfg *config.Config, l *zap.Logger) *aio.Client {
	return aio.NewClient(
		aio.WithBaseURL(cfg.AIO.BaseURL),
		aio.WithTimeout(cfg.AIO.Timeout.GetDuration(aio.DefaultTimeout)),
		aio.WithCredentials(cfg.AIO.Username, cfg.AIO.Key),
		aio.WithPublishLimit(cfg.AIO.PublishPerMinute, cfg.AIO.PublishBurst),
		aio.WithLogger(l),
	)
}
