// Package fault reports a machine.Fault the way spec.md §7 describes: a
// fatal trap with a register dump, logged through log/slog and, when a
// display is attached, copied to the system clipboard so a person
// debugging a crash report can paste it straight into an issue.
//
// None of the five example repos in the pack import a third-party
// structured-logging library, so log/slog (stdlib) is the grounded
// choice here rather than reaching for zerolog/zap/logrus - see
// DESIGN.md's ambient-stack entry for the full justification.
package fault

import (
	"log/slog"
	"os"

	"golang.design/x/clipboard"

	"github.com/bdwalton/gindmg/machine"
)

// Report logs f at error level and attempts to copy its dump to the
// clipboard, falling back to stderr-only (via the log call itself) when
// no clipboard is available - the realistic condition in headless CI,
// which is what this path is actually exercised under in tests.
func Report(logger *slog.Logger, f *machine.Fault) {
	logger.Error("emulation fault", "error", f.Err, "dump", f.Snapshot)

	if err := clipboard.Init(); err != nil {
		logger.Debug("clipboard unavailable, dump only sent to log", "error", err)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(f.Error()))
}

// NewLogger builds the stderr text handler spec.md §7 calls for, with
// the requested minimum level.
func NewLogger(level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
