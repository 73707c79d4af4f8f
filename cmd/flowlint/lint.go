package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/flowlint/internal/client"
	"github.com/alfredjeanlab/flowlint/internal/lint"
	"github.com/alfredjeanlab/flowlint/internal/model"
	"github.com/alfredjeanlab/flowlint/internal/registry"
	"github.com/alfredjeanlab/flowlint/internal/schema"
)

// fileResult is the outcome of linting one input file.
type fileResult struct {
	File        string             `json:"file"`
	Valid       bool               `json:"valid"`
	Diagnostics []model.Diagnostic `json:"diagnostics"`
	Summary     lint.Summary       `json:"summary"`
	ReportID    string             `json:"report_id,omitempty"`
	Error       string             `json:"error,omitempty"`
}

func (r fileResult) failed() bool {
	return r.Error != "" || !r.Valid
}

// lintFunc lints one document, which may be compact or full JSON or YAML.
type lintFunc func(ctx context.Context, data []byte) (fileResult, error)

var lintCmd = &cobra.Command{
	Use:     "lint <file>...",
	Short:   "Lint workflow graph files (use - for stdin)",
	GroupID: "lint",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeName, _ := cmd.Flags().GetString("mode")
		strictOutputs, _ := cmd.Flags().GetBool("strict-outputs")
		strictEmpty, _ := cmd.Flags().GetBool("strict-empty")
		strictOutputs = strictOutputs || settings.StrictOutputs
		strictEmpty = strictEmpty || settings.StrictEmpty

		mode, err := lint.ParseMode(modeName)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		var run lintFunc
		if c := remoteClient(); c != nil {
			defer c.Close()
			opts := client.LintOptions{StrictOutputs: strictOutputs, StrictEmpty: strictEmpty}
			// Without an explicit --mode the server's configured default applies.
			if cmd.Flags().Changed("mode") {
				opts.Mode = mode
			}
			run = remoteLint(c, opts)
		} else {
			l, err := newLocalLinter(ctx, strictOutputs, strictEmpty)
			if err != nil {
				return err
			}
			run = localLint(l, mode)
		}

		results := lintFiles(ctx, args, cmd.InOrStdin(), run)

		out := cmd.OutOrStdout()
		if jsonOutput {
			if err := printJSON(out, results); err != nil {
				return err
			}
		} else {
			printLintResults(out, results)
		}

		for _, r := range results {
			if r.failed() {
				return errLintFailed
			}
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().String("mode", string(lint.ModeFlow), "lint mode: flow or node")
	lintCmd.Flags().Bool("strict-outputs", false, "require a boolean isDeleted on every output")
	lintCmd.Flags().Bool("strict-empty", false, "treat empty strings, lists and objects as missing required values")
}

func s3Options() registry.S3Options {
	return registry.S3Options{
		Region:   envOrSetting("FLOWLINT_S3_REGION", "us-east-1"),
		Endpoint: os.Getenv("FLOWLINT_S3_ENDPOINT"),
	}
}

func loadRegistry(ctx context.Context) (*registry.Registry, error) {
	reg, err := registry.Load(ctx, registrySource, s3Options())
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	return reg, nil
}

func newLocalLinter(ctx context.Context, strictOutputs, strictEmpty bool) (*lint.Linter, error) {
	reg, err := loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	var opts []lint.Option
	if strictOutputs {
		opts = append(opts, lint.WithStrictOutputs())
	}
	if strictEmpty {
		opts = append(opts, lint.WithStrictEmptyInputs())
	}
	return lint.New(reg, opts...), nil
}

func localLint(l *lint.Linter, mode lint.Mode) lintFunc {
	return func(_ context.Context, data []byte) (fileResult, error) {
		doc, err := schema.YAMLToJSON(data)
		if err != nil {
			return fileResult{}, err
		}
		g, _, err := schema.DecodeDocument(doc)
		if err != nil {
			return fileResult{}, err
		}
		diags := l.LintWithMode(g, mode)
		summary := lint.Summarize(diags)
		return fileResult{
			Valid:       summary.Valid(),
			Diagnostics: diags,
			Summary:     summary,
		}, nil
	}
}

func remoteLint(c client.LintClient, opts client.LintOptions) lintFunc {
	return func(ctx context.Context, data []byte) (fileResult, error) {
		doc, err := schema.YAMLToJSON(data)
		if err != nil {
			return fileResult{}, err
		}
		resp, err := c.Lint(ctx, json.RawMessage(doc), opts)
		if err != nil {
			return fileResult{}, err
		}
		return fileResult{
			Valid:       resp.Valid,
			Diagnostics: resp.Diagnostics,
			Summary:     resp.Summary,
			ReportID:    resp.ReportID,
		}, nil
	}
}

// lintFiles runs every path through run. A path of "-" reads stdin. Read and
// decode failures are recorded on the result rather than aborting the batch.
func lintFiles(ctx context.Context, paths []string, stdin io.Reader, run lintFunc) []fileResult {
	results := make([]fileResult, 0, len(paths))
	for _, path := range paths {
		data, err := readInput(path, stdin)
		if err != nil {
			results = append(results, fileResult{File: path, Error: err.Error()})
			continue
		}
		r, err := run(ctx, data)
		if err != nil {
			r = fileResult{Error: err.Error()}
		}
		r.File = path
		if r.Diagnostics == nil {
			r.Diagnostics = []model.Diagnostic{}
		}
		results = append(results, r)
	}
	return results
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
