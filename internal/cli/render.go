package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/picarx-dash/internal/chart"
	"github.com/wesleyorama2/picarx-dash/internal/chartjs"
	"github.com/wesleyorama2/picarx-dash/internal/output"
	"github.com/wesleyorama2/picarx-dash/internal/page"
)

var renderCmd = &cobra.Command{
	Use:   "render PAGE",
	Short: "Initialize the charts of a saved page and print them",
	Long: `Run chart initialization over a saved dashboard page and print every
constructed chart configuration.

Examples:
  picarx-dash render ultrasonic.html
  picarx-dash render grayscale.html --format json
  picarx-dash render grayscale.html --html grayscale-charts.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		htmlOut, _ := cmd.Flags().GetString("html")

		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		return renderPage(cmd.OutOrStdout(), args[0], format, !useColor(cmd), htmlOut)
	},
}

func init() {
	renderCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
	renderCmd.Flags().String("html", "", "Also write the page with its chart script to this file")
}

// renderPage prints the charts constructed from the page at path.
// Charts that fail to decode are reported by the returned error; the others are still printed.
func renderPage(w io.Writer, path string, format output.OutputFormat, noColor bool, htmlOut string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	doc, err := page.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}

	engine := chartjs.NewEngine()
	initErr := chart.Init(doc, engine)

	out, err := output.GetFormatter(format, noColor).FormatConstructions(engine.Constructions())
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)

	if htmlOut != "" {
		if err := writeRenderedPage(htmlOut, data); err != nil {
			return err
		}
	}

	return initErr
}

func writeRenderedPage(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f, bytes.NewReader(data), chartjs.NewEngine(), zap.NewNop()); err != nil {
		return err
	}

	return f.Close()
}
