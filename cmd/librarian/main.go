package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suhana1701/Library-Management-System/lending"
	"github.com/suhana1701/Library-Management-System/lending/memoryengine"
	"github.com/suhana1701/Library-Management-System/lending/postgresengine"
)

// app bundles what the menu handlers need: the lifecycle engine for
// borrowing and fines, plain store access for catalog and membership CRUD,
// and the terminal streams.
type app struct {
	engine    *lending.Engine
	stores    lending.Stores
	in        *bufio.Reader
	out       io.Writer
	cfg       config
	inputDone bool
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	storage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("opening storage failed", "error", err)
		os.Exit(1)
	}

	engine, err := lending.NewEngine(
		storage,
		lending.WithLogger(logger),
		lending.WithLoanPolicy(lending.LoanPolicy{DurationDays: cfg.LoanDays, FinePerDay: cfg.FinePerDay}),
	)
	if err != nil {
		logger.Error("building engine failed", "error", err)
		os.Exit(1)
	}

	a := &app{
		engine: engine,
		stores: storage.Stores(),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		cfg:    cfg,
	}

	a.run(ctx)
}

// openStorage selects the Postgres engine when DATABASE_URL is set and the
// in-memory engine otherwise.
func openStorage(ctx context.Context, cfg config, logger *slog.Logger) (lending.Storage, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("no DATABASE_URL set, using in-memory storage")
		return memoryengine.NewStorage(), nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(ctx); err != nil {
		return nil, err
	}

	storage, err := postgresengine.NewStorageFromPGXPool(pool, postgresengine.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	if err = storage.CreateSchema(ctx); err != nil {
		return nil, err
	}

	return storage, nil
}

func newLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (a *app) run(ctx context.Context) {
	for {
		a.printHeader("Library Management System")
		a.printMenu(
			"Manage Books",
			"Manage Members",
			"Borrowing",
			"Fines",
			"Reports",
		)

		choice := a.promptLine("Select an option: ")
		if choice == "" && a.inputDone {
			fmt.Fprintln(a.out, "Goodbye!")
			return
		}

		switch choice {
		case "1":
			a.manageBooks(ctx)
		case "2":
			a.manageMembers(ctx)
		case "3":
			a.manageBorrowing(ctx)
		case "4":
			a.manageFines(ctx)
		case "5":
			a.showReports(ctx)
		case "0":
			fmt.Fprintln(a.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(a.out, "Invalid option.")
		}
	}
}

func (a *app) printHeader(title string) {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
	fmt.Fprintln(a.out, title)
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
}

func (a *app) printMenu(options ...string) {
	for i, option := range options {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, option)
	}

	fmt.Fprintln(a.out, "0. Back")
}

// promptLine reads one line of input. A read error marks the input as
// exhausted so the menu loops terminate instead of spinning on EOF; a final
// line without a trailing newline is still returned.
func (a *app) promptLine(prompt string) string {
	fmt.Fprint(a.out, prompt)

	line, err := a.in.ReadString('\n')
	if err != nil {
		a.inputDone = true
	}

	return strings.TrimSpace(line)
}

// promptInt64 insists on a numeric answer.
func (a *app) promptInt64(prompt string) (int64, bool) {
	raw := a.promptLine(prompt)

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Not a number: %q\n", raw)
		return 0, false
	}

	return value, true
}

// promptIntOrDefault returns fallback for blank input and an error indication
// for present-but-invalid input. Absent means default, invalid means invalid.
func (a *app) promptIntOrDefault(prompt string, fallback int) (int, bool) {
	raw := a.promptLine(prompt)
	if raw == "" {
		return fallback, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintf(a.out, "Not a number: %q\n", raw)
		return 0, false
	}

	return value, true
}

// promptFloatOrDefault is promptIntOrDefault for fractional amounts.
func (a *app) promptFloatOrDefault(prompt string, fallback float64) (float64, bool) {
	raw := a.promptLine(prompt)
	if raw == "" {
		return fallback, true
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Not a number: %q\n", raw)
		return 0, false
	}

	return value, true
}
