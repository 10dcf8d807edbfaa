// Command issuetoken prints an ES256-signed JSON Web Token for the team and
// key named by TEAM_ID and KEY_ID, signed with the PEM private key at
// P8_FILE. The token is written as one line to stdout; diagnostics go to
// stderr.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dskow/token-issuer/internal/config"
	"github.com/dskow/token-issuer/internal/issuer"
)

// Exit statuses.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var logLevels = map[string]slog.Level{
	"":      slog.LevelWarn,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	logger, err := newLogger(stderr, os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(stderr, "issuetoken: %v\n", err)
		return exitUsage
	}

	if len(args) > 0 {
		logger.Error("unexpected arguments; configure with environment variables",
			"args", args,
			"required", []string{config.TeamIDVar, config.KeyIDVar, config.KeyFileVar},
		)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		logFailure(logger, err)
		return exitFailure
	}

	for _, w := range cfg.Warnings {
		logger.Warn("config warning", "message", w)
	}

	logger.Debug("configuration loaded",
		"team_id", cfg.TeamID,
		"key_id", cfg.KeyID,
		"key_file", cfg.KeyFile,
	)

	issuedAt := now()
	token, err := issuer.IssueWithConfig(cfg, issuedAt)
	if err != nil {
		logFailure(logger, err)
		return exitFailure
	}

	logger.Info("token issued", "key_id", cfg.KeyID, "iat", issuedAt.Unix())

	if _, err := fmt.Fprintln(stdout, token); err != nil {
		logger.Error("writing token", "error", err)
		return exitFailure
	}
	return exitOK
}

func logFailure(logger *slog.Logger, err error) {
	logger.Error("token issuance failed",
		"step", issuer.Step(err),
		"code", string(issuer.Code(err)),
		"error", err,
	)
}

// newLogger builds the stderr logger. format is "text" (default) or "json".
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	lvl, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: must be debug, info, warn, or error", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", format)
	}
}
