package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/picarx-dash/internal/output"
)

var sendCmd = &cobra.Command{
	Use:   "send FEED VALUE",
	Short: "Publish a value to an Adafruit IO feed",
	Long: `Publish a value to an Adafruit IO feed, the same way the dashboard
control pages do.

Examples:
  picarx-dash send picarx-command forward
  picarx-dash send tts "hello there"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(cmd)
		if err != nil {
			return err
		}

		client := newAIOClient(cfg, zap.NewNop())
		return sendValue(cmd.Context(), cmd.OutOrStdout(), client, args[0], args[1], !useColor(cmd))
	},
}

type sender interface {
	Send(ctx context.Context, feed, value string) error
}

func sendValue(ctx context.Context, w io.Writer, client sender, feed, value string, noColor bool) error {
	if err := client.Send(ctx, feed, value); err != nil {
		return fmt.Errorf("failed to send to %s: %w", feed, err)
	}

	fmt.Fprintf(w, "%s Sent %q to feed %q\n", output.SuccessIcon(noColor), value, feed)
	return nil
}
