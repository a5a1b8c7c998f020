package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"library-lending/library"
)

// config is filled from persistent flags; every flag falls back to a LENDING_* variable.
type config struct {
	catalogPath string
	logLevel    string
	logFormat   string
	notify      string
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func (c *config) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.catalogPath, "catalog", envOr("LENDING_CATALOG", ""),
		"JSON catalog file (default: built-in sample catalog)")
	fs.StringVar(&c.logLevel, "log-level", envOr("LENDING_LOG_LEVEL", "warn"),
		"log level: debug, info, warn, error")
	fs.StringVar(&c.logFormat, "log-format", envOr("LENDING_LOG_FORMAT", "text"),
		"log format: text or json")
	fs.StringVar(&c.notify, "notify", envOr("LENDING_NOTIFY", "console"),
		"where member notifications go: console or log")
}

func (c *config) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", c.logLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.logFormat) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", c.logFormat)
}

func (c *config) catalog() (*library.Catalog, error) {
	if c.catalogPath == "" {
		return sampleCatalog(), nil
	}
	f, err := os.Open(c.catalogPath)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	defer f.Close()

	cat, err := library.LoadCatalog(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", c.catalogPath)
	}
	return cat, nil
}

// engine builds the single LendingEngine shared by every channel of a run.
func (c *config) engine(stderr, notices io.Writer) (*library.LendingEngine, error) {
	logger, err := c.logger(stderr)
	if err != nil {
		return nil, err
	}
	cat, err := c.catalog()
	if err != nil {
		return nil, err
	}

	var notifier library.Notifier
	switch strings.ToLower(c.notify) {
	case "console":
		notifier = consoleNotifier{out: notices}
	case "log":
		notifier = library.LogNotifier{Logger: logger}
	default:
		return nil, fmt.Errorf("invalid notify target %q", c.notify)
	}

	return library.NewLendingEngine(cat,
		library.WithLogger(logger),
		library.WithNotifier(notifier),
	), nil
}

// sampleCatalog is used when no catalog file is given.
func sampleCatalog() *library.Catalog {
	c := library.NewCatalog()
	c.AddBook("Physics I", "David Halliday", 2000, true)
	c.AddBook("Physics II", "David Halliday", 2001, true)
	c.AddBook("Calculus", "James Stewart", 2015, true)
	c.AddBook("Pride and Prejudice", "Jane Austen", 1813, false)
	c.AddBook("The Art of War", "Sun Tzu", 1910, false)
	c.AddBook("The Three Musketeers", "Alexandre Dumas", 1844, false)
	c.AddBook("Animal Farm", "George Orwell", 1945, false)
	c.AddBook("Animal Farm", "George Orwell", 1945, false)
	c.AddPeriodical("Nature", 7962, 2023)
	c.AddPeriodical("Science", 6640, 2023)
	c.AddPeriodical("National Geographic", 3, 2024)
	return c
}
