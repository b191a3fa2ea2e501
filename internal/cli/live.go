package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/picarx-dash/internal/output"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Print the last points of an Adafruit IO feed",
	Long: `Print the most recent points of an Adafruit IO feed, oldest first.
Defaults to the ultrasonic feed and the live panel point count.

Examples:
  picarx-dash live
  picarx-dash live --feed grayscale-mid --limit 5 --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(cmd)
		if err != nil {
			return err
		}

		feed, _ := cmd.Flags().GetString("feed")
		if feed == "" {
			feed = cfg.AIO.Feeds.Ultrasonic
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.Charts.LivePoints
		}
		formatFlag, _ := cmd.Flags().GetString("format")

		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		client := newAIOClient(cfg, zap.NewNop())
		return printLive(cmd.Context(), cmd.OutOrStdout(), client, feed, limit, format, !useColor(cmd))
	},
}

func init() {
	liveCmd.Flags().String("feed", "", "Feed key (default: the ultrasonic feed)")
	liveCmd.Flags().IntP("limit", "n", 0, "Number of points (default: the live panel size)")
	liveCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
}

type pointsReader interface {
	LastPoints(ctx context.Context, feed string, limit int) ([]string, []*float64, error)
}

func printLive(ctx context.Context, w io.Writer, client pointsReader, feed string, limit int, format output.OutputFormat, noColor bool) error {
	labels, values, err := client.LastPoints(ctx, feed, limit)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", feed, err)
	}

	out, err := output.GetFormatter(format, noColor).FormatPoints(output.FeedPoints{
		Feed:   feed,
		Labels: labels,
		Values: values,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(w, out)
	return nil
}
