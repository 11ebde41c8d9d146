package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/types"
	rootschemas "github.com/jonathan/resume-parser/schemas"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Parse resume files into ParsedResume JSON",
	Long: "Parse one or more local resumes (PDF or plain text) into ParsedResume JSON. " +
		"With a single file and no --out, the JSON is written to stdout.",
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseOutDir      string
	parseConcurrency int
	parseAPIKey      string
	parseModel       string
	parseVerbose     bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseOutDir, "out", "o", "", "Directory for <name>.json outputs (required for more than one file)")
	parseCmd.Flags().IntVarP(&parseConcurrency, "concurrency", "c", 4, "Maximum files parsed at once")
	parseCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	parseCmd.Flags().StringVar(&parseModel, "model", "", "Gemini model (overrides GEMINI_MODEL env var)")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print a summary of each parsed resume to stderr")

	rootCmd.AddCommand(parseCmd)
}

// parseOptions controls a batch run
type parseOptions struct {
	OutDir      string
	Concurrency int
	Verbose     bool
	Stdout      io.Writer
	Stderr      io.Writer
}

func runParse(cmd *cobra.Command, args []string) error {
	if len(args) > 1 && parseOutDir == "" {
		return fmt.Errorf("--out is required when parsing more than one file")
	}

	cfg, err := loadConfig(cmd, func(cfg *config.Config, changed func(string) bool) {
		if changed("api-key") {
			cfg.APIKey = parseAPIKey
		}
		if changed("model") {
			cfg.Model = parseModel
		}
	})
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	client = llm.WithRetry(client, cfg.RetryPolicy())
	defer client.Close() //nolint:errcheck

	parser := parsing.NewParser(client, parsing.NewLoader(cfg.MaxUploadBytes, cfg.BinaryTypes))

	return parseFiles(ctx, parser, args, parseOptions{
		OutDir:      parseOutDir,
		Concurrency: parseConcurrency,
		Verbose:     parseVerbose,
		Stdout:      cmd.OutOrStdout(),
		Stderr:      cmd.ErrOrStderr(),
	})
}

// parseFiles parses every path with at most opts.Concurrency in flight. One failed file does
// not stop the others; the returned error summarizes how many failed.
func parseFiles(ctx context.Context, parser *parsing.Parser, paths []string, opts parseOptions) error {
	outputs, err := outputPaths(paths, opts.OutDir)
	if err != nil {
		return err
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	results := make([]observability.FileResult, len(paths))
	resumes := make([]*types.ParsedResume, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, path := range paths {
		g.Go(func() error {
			start := time.Now()
			resume, err := parseFile(gctx, parser, path)
			if err == nil && outputs[i] != "" {
				err = writeResume(outputs[i], resume)
			}
			results[i] = observability.FileResult{Path: path, Output: outputs[i], Err: err, Duration: time.Since(start)}
			resumes[i] = resume
			return nil
		})
	}
	_ = g.Wait()

	printer := observability.NewPrinter(opts.Stderr)
	failed := 0
	for i, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		if opts.Verbose {
			printer.PrintParsedResume(filepath.Base(r.Path), resumes[i])
		}
		if r.Output == "" {
			if err := writeJSON(opts.Stdout, resumes[i]); err != nil {
				return err
			}
		}
	}
	if opts.Verbose || len(paths) > 1 {
		printer.PrintBatchSummary(results)
	}

	if failed > 0 {
		if len(paths) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

// parseFile opens path and runs the pipeline on it. The media type comes from the
// file extension; unknown extensions are sniffed by the loader.
func parseFile(ctx context.Context, parser *parsing.Parser, path string) (*types.ParsedResume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return parser.ParseDocument(ctx, parsing.Document{
		Name:      filepath.Base(path),
		MediaType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Body:      f,
	})
}

// outputPaths maps each input to <outDir>/<name>.json, or to "" when outDir is empty.
// Two inputs that would write the same file are rejected.
func outputPaths(paths []string, outDir string) ([]string, error) {
	outputs := make([]string, len(paths))
	if outDir == "" {
		return outputs, nil
	}

	seen := make(map[string]string, len(paths))
	for i, path := range paths {
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
		out := filepath.Join(outDir, name)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s would both write %s", prev, path, out)
		}
		seen[out] = path
		outputs[i] = out
	}
	return outputs, nil
}

// writeResume writes resume as indented JSON and validates the file against the schema.
func writeResume(path string, resume *types.ParsedResume) error {
	data, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	schemaPath := schemas.ResolveSchemaPath(rootschemas.ParsedResumePath)
	if schemaPath == "" {
		// Installed binaries have no repository checkout; use the embedded copy
		return schemas.ValidateParsedResume(resume)
	}
	if err := schemas.ValidateJSON(schemaPath, path); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("generated JSON does not validate against schema: %w", err)
		}
		return schemas.ValidateParsedResume(resume)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
