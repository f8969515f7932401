package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/itsatony/go-avatar"
	"github.com/spf13/cobra"
)

// renderOptions holds the render command flags.
type renderOptions struct {
	dataJSON     string
	dataFilePath string
	outputPath   string
	storage      string
	dsn          string
	pages        []string
	noMarkdown   bool
}

func newRenderCmd(global *globalOptions, stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   UseRender,
		Short: ShortRender,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, global, opts, args, stdin, stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.dataJSON, FlagData, FlagDataShort, "", UsageData)
	flags.StringVarP(&opts.dataFilePath, FlagDataFile, FlagDataFileShort, "", UsageDataFile)
	flags.StringVarP(&opts.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, UsageOutput)
	flags.StringVar(&opts.storage, FlagStorage, FlagDefaultStorage, UsageStorage)
	flags.StringVar(&opts.dsn, FlagDSN, "", UsageDSN)
	flags.StringSliceVar(&opts.pages, FlagPage, nil, UsagePage)
	flags.BoolVar(&opts.noMarkdown, FlagNoMarkdown, false, UsageNoMarkdown)
	return cmd
}

func runRender(cmd *cobra.Command, global *globalOptions, opts *renderOptions, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(opts.pages) == 0 && len(args) == 0 {
		return newCLIError(ExitCodeUsageError, ErrMsgMissingTemplate, errors.New(UseRender))
	}

	data, err := loadData(opts.dataJSON, opts.dataFilePath)
	if err != nil {
		return newCLIError(ExitCodeInputError, ErrMsgInvalidJSON, err)
	}

	engine, err := global.newEngine(cmd.ErrOrStderr(), avatar.WithMarkdown(!opts.noMarkdown))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var result string
	if len(opts.pages) > 0 {
		result, err = renderStoredPages(cmd, engine, opts, data)
		if err != nil {
			return err
		}
	} else {
		page, err := readPage(args[0], stdin)
		if err != nil {
			return newCLIError(ExitCodeInputError, ErrMsgReadFileFailed, err)
		}
		result, err = engine.RenderPage(ctx, page, nil, data)
		if err != nil {
			return newCLIError(ExitCodeError, ErrMsgExecuteFailed, err)
		}
	}

	if err := writeOutput(opts.outputPath, []byte(result), stdout); err != nil {
		return newCLIError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}

// renderStoredPages renders each --page in order through a cache, so a page
// named more than once is fetched from the backend only once.
func renderStoredPages(cmd *cobra.Command, engine *avatar.Engine, opts *renderOptions, data map[string]any) (string, error) {
	backend, err := avatar.OpenStorage(opts.storage, opts.dsn)
	if err != nil {
		return "", newCLIError(ExitCodeError, ErrMsgStorageFailed, err)
	}
	storage := avatar.NewCachedStorage(backend, avatar.DefaultCacheConfig())
	defer storage.Close()

	var sb strings.Builder
	for _, name := range opts.pages {
		out, err := engine.RenderStored(cmd.Context(), storage, name, nil, data)
		if err != nil {
			return "", newCLIError(ExitCodeError, ErrMsgExecuteFailed, err)
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

func loadData(jsonStr, filePath string) (map[string]any, error) {
	var jsonData []byte

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		jsonData = data
	} else if jsonStr != "" {
		jsonData = []byte(jsonStr)
	} else {
		return make(map[string]any), nil
	}

	var result map[string]any
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, err
	}
	return result, nil
}
