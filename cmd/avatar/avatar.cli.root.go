package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/itsatony/go-avatar"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose       bool
	configPath    string
	avatarsURL    string
	shardStrategy string
}

// cliError carries an exit code alongside the user-facing message.
type cliError struct {
	code  int
	msg   string
	cause error
}

func (e *cliError) Error() string {
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *cliError) Unwrap() error {
	return e.cause
}

func newCLIError(code int, msg string, cause error) error {
	return &cliError{code: code, msg: msg, cause: cause}
}

// lookupEnv is replaced in tests.
var lookupEnv = os.LookupEnv

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return ExitCodeSuccess
	}

	var cliErr *cliError
	if errors.As(err, &cliErr) {
		fmt.Fprintf(stderr, FmtErrorWithCause, cliErr.msg, cliErr.cause)
		return cliErr.code
	}

	// Flag and argument errors come straight from cobra.
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitCodeUsageError
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           CLIName,
		Short:         ShortRoot,
		Long:          LongRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.verbose, FlagVerbose, FlagVerboseShort, false, UsageVerbose)
	flags.StringVarP(&opts.configPath, FlagConfig, FlagConfigShort, "", UsageConfig)
	flags.StringVar(&opts.avatarsURL, FlagAvatarsURL, "", UsageAvatarsURL)
	flags.StringVar(&opts.shardStrategy, FlagShardStrategy, "", UsageShardStrategy)

	root.AddCommand(
		newRenderCmd(opts, stdin, stdout),
		newURLCmd(opts, stdout),
		newValidateCmd(opts, stdin, stdout),
		newVersionCmd(stdout),
	)
	return root
}

// resolveConfig applies, in order: defaults, the config file, PAGES_AVATARS_URL,
// then explicit flags.
func (o *globalOptions) resolveConfig() (avatar.Config, error) {
	cfg := avatar.DefaultConfig()
	if o.configPath != "" {
		loaded, err := avatar.LoadConfig(o.configPath)
		if err != nil {
			return avatar.Config{}, err
		}
		cfg = loaded
	}
	cfg = cfg.WithEnv(lookupEnv)
	if o.avatarsURL != "" {
		cfg.AvatarsURL = o.avatarsURL
	}
	if o.shardStrategy != "" {
		cfg.ShardStrategy = avatar.ShardStrategy(o.shardStrategy)
	}
	if err := cfg.Validate(); err != nil {
		return avatar.Config{}, err
	}
	return cfg, nil
}

// newLogger returns a development console logger on stderr when --verbose
// is set, otherwise a no-op logger.
func (o *globalOptions) newLogger(stderr io.Writer) *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zap.DebugLevel,
	)
	return zap.New(core)
}

// newEngine builds an engine from the resolved configuration.
func (o *globalOptions) newEngine(stderr io.Writer, extra ...avatar.Option) (*avatar.Engine, error) {
	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, newCLIError(ExitCodeUsageError, ErrMsgConfigFailed, err)
	}
	logger := o.newLogger(stderr)
	logger.Debug(avatar.LogMsgConfigLoaded,
		zap.String(avatar.LogFieldPath, o.configPath),
		zap.String(avatar.LogFieldAvatarURL, cfg.AvatarsURL),
		zap.String(avatar.LogFieldStrategy, string(cfg.ShardStrategy)),
	)
	engineOpts := append([]avatar.Option{avatar.WithConfig(cfg), avatar.WithLogger(logger)}, extra...)
	engine, err := avatar.New(engineOpts...)
	if err != nil {
		return nil, newCLIError(ExitCodeUsageError, ErrMsgConfigFailed, err)
	}
	return engine, nil
}
