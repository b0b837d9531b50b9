package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"acadpulse/internal/analytics"
	"acadpulse/internal/config"
	"acadpulse/internal/exporter"
	"acadpulse/internal/infrastructure"
	"acadpulse/internal/profiles"
	"acadpulse/internal/render"
	"acadpulse/internal/tabular"
	"acadpulse/internal/validation"
	"acadpulse/pkg/contracts/domain"
)

// CohortWorkbook is the cohort XLSX written next to the CSV exports
const CohortWorkbook = "cohort_summary.xlsx"

// maxConcurrentReports bounds per-student workbook rendering
const maxConcurrentReports = 4

var errUsage = errors.New("at least one of -results or -attendance is required")

type options struct {
	results    string
	attendance string
	outDir     string
	format     string
	threshold  float64
	reports    bool
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("profiler failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("profiler", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.results, "results", "", "results file (.csv, .xlsx, .xls)")
	fs.StringVar(&opts.attendance, "attendance", "", "attendance file (.csv, .xlsx, .xls)")
	fs.StringVar(&opts.outDir, "out", "reports", "output directory")
	fs.StringVar(&opts.format, "format", "csv", "cohort output: csv, xlsx or both")
	fs.Float64Var(&opts.threshold, "threshold", config.DefaultFuzzyThreshold, "minimum name similarity for merging mismatched identifiers")
	fs.BoolVar(&opts.reports, "reports", false, "also write one XLSX report per student")
	fs.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	switch opts.format {
	case "csv", "xlsx", "both":
	default:
		return nil, fmt.Errorf("invalid -format %q: want csv, xlsx or both", opts.format)
	}
	if opts.threshold <= 0 || opts.threshold > 1 {
		return nil, fmt.Errorf("invalid -threshold %v: want a value in (0, 1]", opts.threshold)
	}
	if opts.results == "" && opts.attendance == "" {
		fs.Usage()
		return nil, errUsage
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := infrastructure.NewLogger(stderr, opts.logLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}

	validator := validation.NewFileValidator(cfg.Analysis.AllowedExtensions, cfg.Analysis.MaxUploadBytes, logger)
	if err := validator.ValidateOutputDirectory(opts.outDir); err != nil {
		return err
	}

	results, err := readTable(validator, opts.results)
	if err != nil {
		return err
	}
	attendance, err := readTable(validator, opts.attendance)
	if err != nil {
		return err
	}

	engine := profiles.NewEngine(
		profiles.WithThreshold(opts.threshold),
		profiles.WithLogger(logger),
	)
	outcome, err := engine.Analyze(results, attendance)
	if err != nil {
		return err
	}
	summary := analytics.Summarize(outcome.Profiles)

	logger.Info("Cohort analyzed",
		slog.Int("students", summary.TotalStudents),
		slog.Int("low_attendance", summary.LowAttendanceCount),
		slog.Int("with_backlogs", summary.StudentsWithBacklogs),
		slog.Int("needs_counseling", summary.NeedsCounselingCount))
	if outcome.Resolution != nil {
		logger.Info("Identity resolution",
			slog.Int("exact_matches", outcome.Resolution.ExactMatches),
			slog.Int("fuzzy_matches", len(outcome.Resolution.FuzzyMatches)),
			slog.Int("new_profiles", outcome.Resolution.NewProfiles))
	}

	paths := &config.Paths{ReportsDir: opts.outDir}
	var written []string

	if opts.format == "csv" || opts.format == "both" {
		files, err := exporter.NewCohortExporter(paths, logger).Export(outcome.Profiles, summary)
		if err != nil {
			return err
		}
		written = append(written, files...)
	}

	letterhead := render.LetterheadFrom(cfg.Report)
	xlsx := render.NewXLSXRenderer(letterhead, time.Now, logger)

	if opts.format == "xlsx" || opts.format == "both" {
		data, err := xlsx.RenderCohort(ctx, outcome.Profiles, summary)
		if err != nil {
			return err
		}
		path := filepath.Join(opts.outDir, CohortWorkbook)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}

	if opts.reports {
		files, err := writeStudentReports(ctx, xlsx, outcome.Profiles, opts.outDir)
		if err != nil {
			return err
		}
		written = append(written, files...)
	}

	printSummary(stdout, summary, written)
	return nil
}

// readTable returns nil for an empty path
func readTable(v *validation.FileValidator, path string) (*tabular.NormalizedTable, error) {
	if path == "" {
		return nil, nil
	}
	if err := v.ValidateFile(path); err != nil {
		return nil, err
	}
	return tabular.ReadFile(path)
}

func writeStudentReports(ctx context.Context, r render.Renderer, ps []*domain.StudentProfile, dir string) ([]string, error) {
	paths := make([]string, len(ps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReports)
	for i, p := range ps {
		g.Go(func() error {
			data, err := r.Render(gctx, p)
			if err != nil {
				return fmt.Errorf("student %s: %w", p.StudentID, err)
			}
			path := filepath.Join(dir, render.ReportFilename(p, r.Format()))
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func printSummary(w io.Writer, s analytics.Summary, files []string) {
	fmt.Fprintf(w, "Students:             %d\n", s.TotalStudents)
	fmt.Fprintf(w, "Low attendance:       %d\n", s.LowAttendanceCount)
	fmt.Fprintf(w, "Warning attendance:   %d\n", s.WarningAttendanceCount)
	fmt.Fprintf(w, "Good attendance:      %d\n", s.GoodAttendanceCount)
	fmt.Fprintf(w, "With backlogs:        %d\n", s.StudentsWithBacklogs)
	fmt.Fprintf(w, "Needs counseling:     %d\n", s.NeedsCounselingCount)
	if s.AverageCGPA != nil {
		fmt.Fprintf(w, "Average CGPA:         %.2f\n", *s.AverageCGPA)
	}
	for _, f := range files {
		fmt.Fprintf(w, "Wrote %s\n", f)
	}
}
