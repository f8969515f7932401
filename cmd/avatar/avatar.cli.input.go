package main

import (
	"io"
	"os"

	"github.com/itsatony/go-avatar"
)

// readPage reads a page from a file or, for "-", from stdin.
func readPage(path string, stdin io.Reader) (*avatar.Page, error) {
	if path == InputSourceStdin {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return avatar.ParsePage(StdinPageName, data)
	}
	return avatar.ParsePageFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}
