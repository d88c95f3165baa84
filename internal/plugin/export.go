package plugin

import (
	"context"
	"log/slog"

	"github.com/ayusman/fitassess/internal/results"
)

// ExportResult is the outcome of handing a session to one plugin.
type ExportResult struct {
	Plugin string `json:"plugin"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// Export sends the session and its records to every plugin that declares
// the export action. Plugins run one after another and a failing plugin
// does not stop the rest.
func Export(ctx context.Context, m *Manager, e *Executor, sess Session, recs []results.Record) []ExportResult {
	plugins := m.WithAction(ExportAction)
	out := make([]ExportResult, 0, len(plugins))

	for _, p := range plugins {
		res := ExportResult{Plugin: p.Manifest.Name}

		resp, err := e.Execute(ctx, p, &Request{
			Action:  ExportAction,
			Session: &sess,
			Records: recs,
		})
		switch {
		case err != nil:
			res.Error = err.Error()
		case !resp.Success:
			res.Error = resp.Error
			if res.Error == "" {
				res.Error = "plugin reported failure"
			}
		default:
			res.OK = true
		}

		if res.OK {
			slog.Info("session exported", "plugin", res.Plugin, "session", sess.ID)
		} else {
			slog.Warn("export failed", "plugin", res.Plugin, "session", sess.ID, "error", res.Error)
		}
		out = append(out, res)
	}

	return out
}
