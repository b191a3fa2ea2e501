package page

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wesleyorama2/picarx-dash/internal/chart"
)

// ScriptEngine is a chart engine whose output is a script appended to the page.
type ScriptEngine interface {
	chart.Engine
	Script() (string, error)
}

// Render parses the page read from src, initializes its charts with engine and writes
// the page with the engine script appended to w.
//
// A chart that fails to decode is logged and left out; the page is still written.
func Render(w io.Writer, src io.Reader, engine ScriptEngine, l *zap.Logger) error {
	doc, err := Parse(src)
	if err != nil {
		return err
	}

	if err := chart.Init(doc, engine); err != nil {
		l.Warn("Chart initialization failed", zap.Error(err))
	}

	script, err := engine.Script()
	if err != nil {
		return fmt.Errorf("failed to build chart script: %w", err)
	}
	if script != "" {
		doc.AppendScript(script)
	}

	if err := doc.Render(w); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}

	return nil
}
