package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"difydsl/internal/validator"
	"difydsl/pkg/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// newValidateCmd creates the Cobra command for validating a DSL file.
// Reads from a file argument or stdin when the argument is "-".
func newValidateCmd() *cobra.Command {
	var jsonOutput bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a workflow DSL file",
		Long: `Validate a workflow DSL YAML file and print the findings. With --json the
raw validation result is printed instead of the table. With --watch the file
is re-validated every time it changes. Pass "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(logging.LevelWarn, os.Stderr)
			path := args[0]

			if watch {
				if path == "-" {
					return fmt.Errorf("--watch cannot be used with stdin input")
				}
				return watchAndValidate(cmd, path, jsonOutput)
			}

			result, err := validateFile(path)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), path, result, jsonOutput)
			if !result.Success {
				return &invalidDocumentError{errorCount: len(result.Errors)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the raw validation result as JSON")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-validate whenever the file changes")

	return cmd
}

// invalidDocumentError signals that validation ran but the document has
// errors, so the process can exit with a distinct code.
type invalidDocumentError struct {
	errorCount int
}

func (e *invalidDocumentError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s)", e.errorCount)
}

func validateFile(path string) (*validator.Result, error) {
	var content []byte
	var err error
	if path == "-" {
		content, err = io.ReadAll(os.Stdin)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return validator.New().Validate(string(content)), nil
}

// watchAndValidate re-runs validation on every write to the file. Editors
// replace files instead of writing in place, so the watch is on the parent
// directory and events are filtered by name. A short delay coalesces the
// bursts of events a single save produces.
func watchAndValidate(cmd *cobra.Command, path string, jsonOutput bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	run := func() {
		result, err := validateFile(path)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return
		}
		printResult(cmd.OutOrStdout(), path, result, jsonOutput)
	}
	run()

	target := filepath.Clean(path)
	var timer *time.Timer
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, run)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("validate", "watcher error: %v", err)
		}
	}
}

func printResult(out io.Writer, path string, result *validator.Result, jsonOutput bool) {
	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(out, "failed to serialize result: %v\n", err)
			return
		}
		fmt.Fprintln(out, string(data))
		return
	}

	if len(result.Errors) > 0 || len(result.Warnings) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Severity", "Stage", "Code", "Message"})
		for _, issue := range result.Errors {
			t.AppendRow(table.Row{text.FgRed.Sprint("error"), issue.Stage, issue.Code, issue.Message})
		}
		for _, issue := range result.Warnings {
			t.AppendRow(table.Row{text.FgYellow.Sprint("warning"), issue.Stage, issue.Code, issue.Message})
		}
		t.Render()
	}

	if result.Success {
		fmt.Fprintf(out, "✅ %s is valid (%d warning(s))\n", path, len(result.Warnings))
	} else {
		fmt.Fprintf(out, "❌ %s is invalid: %d error(s), %d warning(s)\n",
			path, len(result.Errors), len(result.Warnings))
	}
}
