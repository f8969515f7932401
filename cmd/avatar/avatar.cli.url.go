package main

import (
	"fmt"
	"io"

	"github.com/itsatony/go-avatar"
	"github.com/spf13/cobra"
)

// urlOptions holds the url command flags.
type urlOptions struct {
	size   int
	scale  int
	srcset bool
	html   bool
}

func newURLCmd(global *globalOptions, stdout io.Writer) *cobra.Command {
	opts := &urlOptions{}

	cmd := &cobra.Command{
		Use:   UseURL,
		Short: ShortURL,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runURL(cmd, global, opts, args[0], stdout)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.size, FlagSize, FlagSizeShort, avatar.DefaultSize, UsageSize)
	flags.IntVar(&opts.scale, FlagScale, FlagDefaultScale, UsageScale)
	flags.BoolVar(&opts.srcset, FlagSrcset, false, UsageSrcset)
	flags.BoolVar(&opts.html, FlagHTML, false, UsageHTML)
	return cmd
}

func runURL(cmd *cobra.Command, global *globalOptions, opts *urlOptions, rawUser string, stdout io.Writer) error {
	engine, err := global.newEngine(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	tag := engine.Tag()

	username := avatar.NormalizeUsername(rawUser)
	if username == "" {
		return newCLIError(ExitCodeUsageError, avatar.ErrMsgMissingUsername, avatar.ErrMissingUsername)
	}
	size := opts.size
	if !avatar.ValidSize(size) {
		size = avatar.DefaultSize
	}
	scale := opts.scale
	if scale <= 0 {
		scale = FlagDefaultScale
	}
	if scale > avatar.MaxScale {
		return newCLIError(ExitCodeUsageError, ErrMsgInvalidScale, fmt.Errorf(FmtScaleRange, scale, avatar.MaxScale))
	}

	var out string
	switch {
	case opts.html:
		out = tag.RenderArguments(&avatar.ParsedArguments{Username: username, Size: size})
	case opts.srcset:
		out = tag.Srcset(username, size)
	default:
		out = tag.BuildURL(username, size, scale)
	}

	if _, err := fmt.Fprint(stdout, out+FmtNewline); err != nil {
		return newCLIError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}
