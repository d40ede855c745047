package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// setupLogging installs the default logger for LOG_LEVEL. Debug gets colored
// tint output with trimmed source locations; every other level logs JSON.
func setupLogging(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(newLogHandler(os.Stderr, lvl, sourceRoot())))
	slog.Debug("debug logging enabled")
	return nil
}

func parseLevel(level string) (slog.Level, error) {
	lvl := slog.LevelInfo
	if level == "" {
		return lvl, nil
	}
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return lvl, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	return lvl, nil
}

func newLogHandler(w io.Writer, lvl slog.Level, root string) slog.Handler {
	if lvl > slog.LevelDebug {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
		AddSource:  true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch v := a.Value.Any().(type) {
			case *slog.Source:
				v.File = trimSource(v.File, root)
			case error:
				attr := tint.Err(v)
				attr.Key = a.Key
				return attr
			}
			return a
		},
	})
}

// sourceRoot is the "/<last module path element>/" marker that source paths are cut at
func sourceRoot() string {
	name := "web"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" {
		name = path.Base(info.Main.Path)
	}
	return "/" + name + "/"
}

// trimSource makes file relative to the module root when it can find it
func trimSource(file, root string) string {
	if _, rest, ok := strings.Cut(file, root); ok {
		return rest
	}
	if idx := strings.LastIndex(file, "/src/"); idx != -1 {
		return file[idx+len("/src/"):]
	}
	return file
}
