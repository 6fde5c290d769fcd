package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berthd/berth/internal/catalog"
)

// ValidationIssue is one catalog validation failure.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Trains int               `json:"trains,omitempty"`
	Files  int               `json:"files,omitempty"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog>",
		Short: "Validate a catalog without reserving anything",
		Long: `Validate a CUE catalog file or directory.

Checks the document shape against the embedded schema and the semantic
rules (positive seat counts, available seats within range, no duplicate
trains). All errors are collected, not just the first.

Exit codes:
  0 - Catalog valid
  1 - Validation errors found
  2 - Command error (path not found, no CUE files)

Examples:
  berth validate ./catalog
  berth validate ./catalog.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cat, loadErrors := catalog.Load(path, catalog.LoadModeCollectAll)

	// A nil catalog means loading never got to validation: bad path, no
	// CUE files, broken syntax. Command-level failure.
	if cat == nil {
		code := catalog.ErrCodeGeneric
		var loadErr *catalog.LoadError
		if len(loadErrors) > 0 && errors.As(loadErrors[0], &loadErr) {
			code = loadErr.Code
		}
		message := "catalog load failed"
		if len(loadErrors) > 0 {
			message = loadErrors[0].Error()
		}
		_ = formatter.Error(code, message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
	}

	formatter.VerboseLog("Checked %d CUE file(s) in %s", cat.FileCount, path)

	if len(loadErrors) > 0 {
		return outputValidationErrors(formatter, collectIssues(loadErrors))
	}

	return outputValidateSuccess(formatter, cat)
}

// collectIssues converts load errors into reportable validation issues.
func collectIssues(loadErrors []error) []ValidationIssue {
	issues := make([]ValidationIssue, 0, len(loadErrors))
	for _, err := range loadErrors {
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) {
			issue := ValidationIssue{Code: loadErr.Code, Message: loadErr.Message}
			if loadErr.Pos.IsValid() {
				issue.Line = loadErr.Pos.Line()
			}
			issues = append(issues, issue)
			continue
		}
		issues = append(issues, ValidationIssue{Code: catalog.ErrCodeGeneric, Message: err.Error()})
	}
	return issues
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, cat *catalog.Catalog) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:  true,
			Trains: len(cat.Trains),
			Files:  cat.FileCount,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Catalog valid (%d train(s), %d file(s))\n", len(cat.Trains), cat.FileCount)
	return nil
}

// outputValidationErrors outputs the collected validation issues.
func outputValidationErrors(formatter *OutputFormatter, issues []ValidationIssue) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", issue.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}
