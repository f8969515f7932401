package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/itsatony/go-avatar"
	"github.com/spf13/cobra"
)

// validateOptions holds the validate command flags.
type validateOptions struct {
	format string
	strict bool
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid  bool                    `json:"valid"`
	Issues []validationIssueOutput `json:"issues"`
}

type validationIssueOutput struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Tag      string `json:"tag,omitempty"`
}

func newValidateCmd(global *globalOptions, stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   UseValidate,
		Short: ShortValidate,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, global, opts, args[0], stdin, stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.format, FlagFormat, OutputFormatText, UsageFormat)
	flags.BoolVar(&opts.strict, FlagStrict, false, UsageStrict)
	return cmd
}

func runValidate(cmd *cobra.Command, global *globalOptions, opts *validateOptions, path string, stdin io.Reader, stdout io.Writer) error {
	if opts.format != OutputFormatText && opts.format != OutputFormatJSON {
		return newCLIError(ExitCodeUsageError, ErrMsgInvalidFormat, errors.New(opts.format))
	}

	page, err := readPage(path, stdin)
	if err != nil {
		return newCLIError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	engine, err := global.newEngine(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	result := engine.Validate(page.Body)
	if opts.format == OutputFormatJSON {
		err = writeValidationJSON(result, opts.strict, stdout)
	} else {
		err = writeValidationText(result, stdout)
	}
	if err != nil {
		return newCLIError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}

	if result.HasErrors() || (opts.strict && result.HasWarnings()) {
		return newCLIError(ExitCodeValidationError, ErrMsgValidationFailed,
			fmt.Errorf(ValidationTextSummary, len(result.Errors()), len(result.Warnings())))
	}
	return nil
}

func writeValidationText(result *avatar.ValidationResult, stdout io.Writer) error {
	issues := result.Issues()
	if len(issues) == 0 {
		_, err := fmt.Fprintln(stdout, ValidationTextSuccess)
		return err
	}

	for _, issue := range issues {
		if _, err := fmt.Fprintf(stdout, ValidationTextIssueFormat+FmtNewline,
			issue.Severity, issue.Position.Line, issue.Position.Column, issue.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(stdout, ValidationTextSummary+FmtNewline, len(result.Errors()), len(result.Warnings()))
	return err
}

func writeValidationJSON(result *avatar.ValidationResult, strict bool, stdout io.Writer) error {
	issues := result.Issues()

	output := validationOutput{
		Valid:  result.IsValid() && (!strict || !result.HasWarnings()),
		Issues: make([]validationIssueOutput, 0, len(issues)),
	}
	for _, issue := range issues {
		output.Issues = append(output.Issues, validationIssueOutput{
			Severity: issue.Severity.String(),
			Message:  issue.Message,
			Line:     issue.Position.Line,
			Column:   issue.Position.Column,
			Tag:      issue.TagName,
		})
	}

	jsonBytes, err := json.MarshalIndent(output, "", JSONIndent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(jsonBytes))
	return err
}
