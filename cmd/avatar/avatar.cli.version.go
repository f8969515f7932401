package main

import (
	"fmt"
	"io"

	"github.com/itsatony/go-avatar"
	"github.com/spf13/cobra"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   CmdNameVersion,
		Short: ShortVersion,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline, avatar.Version)
			return err
		},
	}
}
