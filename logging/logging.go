// Package logging builds the slog logger shared by the runtime: a text
// handler for the terminal, plus an optional JSON file and the systemd
// journal, all fanned out from one logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options selects the handlers.
type Options struct {
	// Level is a slog level name such as "debug" or "warn". Empty means info.
	Level string

	// Terminal receives text records. Nil means os.Stderr.
	Terminal io.Writer

	// File, when set, receives JSON records.
	File string

	// Journal sends records to the systemd journal as well.
	Journal bool
}

// ParseLevel turns a level name into a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}

	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", name, err)
	}

	return l, nil
}

// New builds the logger. The returned close function releases the log file
// and is safe to call when there is none.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	terminal := opts.Terminal
	if terminal == nil {
		terminal = os.Stderr
	}

	terminalHandler := slog.NewTextHandler(terminal, &slog.HandlerOptions{
		Level: level,
	})
	handlers := []slog.Handler{terminalHandler}
	closeFn := func() error { return nil }

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}

		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
		closeFn = f.Close
	}

	if opts.Journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "systemd journal unavailable", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFn, nil
}

// toJournalKey maps an attribute key to the upper case form journald wants.
func toJournalKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		default:
			return '_'
		}
	}, key)
}
