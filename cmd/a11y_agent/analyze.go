package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jonathan/a11y-checker/internal/accessibility"
	"github.com/jonathan/a11y-checker/internal/config"
	"github.com/jonathan/a11y-checker/internal/fetch"
	"github.com/jonathan/a11y-checker/internal/ingestion"
	"github.com/jonathan/a11y-checker/internal/observability"
	"github.com/jonathan/a11y-checker/internal/schemas"
	"github.com/jonathan/a11y-checker/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Analyze HTML files, URLs or stdin for accessibility issues",
	Long: `Analyze one or more HTML documents and print a compliance report for each.
Inputs are the file arguments plus every --url. With no inputs, markup is read from stdin;
"-" also means stdin. Exits with an error when any score is below --min-score.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeURLs        []string
	analyzeFormat      string
	analyzeOut         string
	analyzeMinScore    int
	analyzeSkipRules   []string
	analyzeConcurrency int
	analyzeConfigPath  string
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringArrayVarP(&analyzeURLs, "url", "u", nil, "URL to fetch and analyze (repeatable)")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", config.DefaultFormat, "Output format: json or text")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write output to this file instead of stdout")
	analyzeCmd.Flags().IntVar(&analyzeMinScore, "min-score", 0, "Fail when any compliance score is below this value (0-100)")
	analyzeCmd.Flags().StringSliceVar(&analyzeSkipRules, "skip-rule", nil, "Rule category to skip (repeatable)")
	analyzeCmd.Flags().IntVarP(&analyzeConcurrency, "concurrency", "c", config.DefaultConcurrency, "Number of inputs analyzed in parallel")
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to a JSON or YAML config file")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed progress to stderr")

	rootCmd.AddCommand(analyzeCmd)
}

// analyzeOptions is the resolved configuration for one analyze run.
type analyzeOptions struct {
	Files        []string
	URLs         []string
	Format       string
	MinScore     int
	SkipRules    []string
	Concurrency  int
	MaxBytes     int64
	FetchOptions *fetch.Options
	Logger       *slog.Logger
}

// analysisResult is the JSON shape of one analyzed input.
type analysisResult struct {
	Source   string              `json:"source"`
	Metadata *ingestion.Metadata `json:"metadata"`
	Report   *types.Report       `json:"report"`
}

// ScoreError is returned when inputs score below the required minimum.
type ScoreError struct {
	MinScore int
	Failed   []string
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("%d input(s) scored below %d: %s", len(e.Failed), e.MinScore, strings.Join(e.Failed, ", "))
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(analyzeConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = analyzeFormat
	}
	if flags.Changed("min-score") {
		cfg.MinScore = analyzeMinScore
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = analyzeConcurrency
	}
	if flags.Changed("skip-rule") {
		cfg.DisabledRules = append(cfg.DisabledRules, analyzeSkipRules...)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if analyzeVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = cfg.FetchTimeoutDuration()

	opts := analyzeOptions{
		Files:        args,
		URLs:         analyzeURLs,
		Format:       cfg.Format,
		MinScore:     cfg.MinScore,
		SkipRules:    cfg.DisabledRules,
		Concurrency:  cfg.Concurrency,
		MaxBytes:     cfg.MaxBodyBytes,
		FetchOptions: fetchOpts,
		Logger:       logger,
	}

	out := cmd.OutOrStdout()
	var file *os.File
	if analyzeOut != "" {
		file, err = os.Create(analyzeOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = file.Close() }()
		out = file
	}

	if err := analyze(cmd.Context(), opts, cmd.InOrStdin(), out); err != nil {
		return err
	}

	if file != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", analyzeOut)
	}
	return nil
}

// analyze ingests every input, analyzes them concurrently, writes the results
// to out in input order and applies the minimum score gate.
func analyze(ctx context.Context, opts analyzeOptions, stdin io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for _, category := range opts.SkipRules {
		if !accessibility.IsKnownCategory(category) {
			return fmt.Errorf("unknown rule %q", category)
		}
	}
	engine := accessibility.NewEngine().Without(opts.SkipRules...)

	type source struct {
		name  string
		isURL bool
	}
	var sources []source
	stdinUsed := false
	for _, f := range opts.Files {
		if f == ingestion.StdinSource {
			if stdinUsed {
				return fmt.Errorf("stdin can only be read once")
			}
			stdinUsed = true
		}
		sources = append(sources, source{name: f})
	}
	for _, u := range opts.URLs {
		sources = append(sources, source{name: u, isURL: true})
	}
	if len(sources) == 0 {
		sources = append(sources, source{name: ingestion.StdinSource})
	}

	ingestOpts := &ingestion.Options{
		MaxBytes: opts.MaxBytes,
		Fetch:    opts.FetchOptions,
		Logger:   logger,
	}

	results := make([]analysisResult, len(sources))
	g, gCtx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for i, src := range sources {
		g.Go(func() error {
			var (
				doc *ingestion.Document
				err error
			)
			switch {
			case src.isURL:
				doc, err = ingestion.FromURL(gCtx, src.name, ingestOpts)
			case src.name == ingestion.StdinSource:
				doc, err = ingestion.FromReader(src.name, stdin, ingestOpts)
			default:
				doc, err = ingestion.FromFile(src.name, ingestOpts)
			}
			if err != nil {
				return err
			}

			report := engine.Analyze(doc.HTML)
			logger.Debug("analyzed input",
				"source", src.name,
				"bytes", doc.Metadata.Bytes,
				"score", report.ComplianceScore,
				"violations", report.ViolationCount(),
			)
			results[i] = analysisResult{Source: src.name, Metadata: doc.Metadata, Report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeResults(out, opts.Format, engine, results, logger); err != nil {
		return err
	}

	if opts.MinScore > 0 {
		var failed []string
		for _, r := range results {
			if r.Report.ComplianceScore < opts.MinScore {
				failed = append(failed, fmt.Sprintf("%s (%d)", r.Source, r.Report.ComplianceScore))
			}
		}
		if len(failed) > 0 {
			return &ScoreError{MinScore: opts.MinScore, Failed: failed}
		}
	}

	return nil
}

func writeResults(out io.Writer, format string, engine *accessibility.Engine, results []analysisResult, logger *slog.Logger) error {
	switch format {
	case "", "json":
		for _, r := range results {
			if err := schemas.ValidateReport(r.Report); err != nil {
				logger.Warn("report does not match schema", "source", r.Source, "error", err)
			}
		}

		var payload any = results
		if len(results) == 1 {
			payload = results[0]
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(data)); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		return nil
	case "text":
		printer := observability.NewPrinter(out)
		for _, r := range results {
			if r.Metadata != nil {
				printer.PrintSummary(r.Metadata.Summary)
			}
			printer.PrintReport(r.Source, r.Report, engine.Categories(r.Report))
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or text)", format)
	}
}
