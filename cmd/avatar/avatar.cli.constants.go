package main

// CLIName is the binary name
const CLIName = "avatar"

// Command names
const (
	CmdNameRender   = "render"
	CmdNameURL      = "url"
	CmdNameValidate = "validate"
	CmdNameVersion  = "version"
)

// Flag names - long form
const (
	FlagVerbose       = "verbose"
	FlagConfig        = "config"
	FlagAvatarsURL    = "avatars-url"
	FlagShardStrategy = "shard-strategy"
	FlagData          = "data"
	FlagDataFile      = "data-file"
	FlagOutput        = "output"
	FlagStorage       = "storage"
	FlagDSN           = "dsn"
	FlagPage          = "page"
	FlagNoMarkdown    = "no-markdown"
	FlagSize          = "size"
	FlagScale         = "scale"
	FlagSrcset        = "srcset"
	FlagHTML          = "html"
	FlagFormat        = "format"
	FlagStrict        = "strict"
)

// Flag names - short form
const (
	FlagVerboseShort  = "v"
	FlagConfigShort   = "c"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagOutputShort   = "o"
	FlagSizeShort     = "s"
)

// Flag default values
const (
	FlagDefaultOutput  = "-" // stdout
	FlagDefaultStorage = "memory"
	FlagDefaultScale   = 1
)

// Flag usage strings
const (
	UsageVerbose       = "enable debug logging to stderr"
	UsageConfig        = "site config file (.yml, .yaml or .toml)"
	UsageAvatarsURL    = "avatar base URL override (takes precedence over " + "PAGES_AVATARS_URL)"
	UsageShardStrategy = "shard hash: crc32 or codepoint-sum"
	UsageData          = "template data as a JSON object"
	UsageDataFile      = "path to a JSON file with template data"
	UsageOutput        = "output file, - for stdout"
	UsageStorage       = "page storage driver for --page"
	UsageDSN           = "storage connection string"
	UsagePage          = "render stored pages by name instead of a file (repeatable)"
	UsageNoMarkdown    = "do not convert markdown pages to HTML"
	UsageSize          = "avatar size in pixels"
	UsageScale         = "pixel-density scale factor"
	UsageSrcset        = "print the srcset instead of a single URL"
	UsageHTML          = "print the rendered <img> element"
	UsageFormat        = "output format: text or json"
	UsageStrict        = "treat warnings as errors"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	JSONIndent       = "  "
)

// Command descriptions
const (
	ShortRoot     = "Render GitHub-style avatar tags"
	LongRoot      = "avatar renders {% avatar %} Liquid tags into responsive <img> markup pointing at a sharded avatar CDN."
	UseRender     = CmdNameRender + " [file]"
	ShortRender   = "Render a template or page containing avatar tags"
	UseURL        = CmdNameURL + " <username>"
	ShortURL      = "Print the avatar URL for a username"
	UseValidate   = CmdNameValidate + " <file|->"
	ShortValidate = "Check avatar tags in a template without rendering it"
	ShortVersion  = "Print version information"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
	StdinPageName    = "stdin"
)

// Error messages - ALL must be constants
const (
	ErrMsgMissingTemplate   = "template file or --page required"
	ErrMsgInvalidJSON       = "invalid JSON data"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgExecuteFailed     = "template execution failed"
	ErrMsgConfigFailed      = "invalid configuration"
	ErrMsgStorageFailed     = "failed to open page storage"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgValidationFailed  = "validation failed"
	ErrMsgInvalidScale      = "invalid scale"
)

// Validation output
const (
	ValidationTextSuccess     = "OK: no issues found"
	ValidationTextIssueFormat = "%s: line %d, column %d: %s"
	ValidationTextSummary     = "%d error(s), %d warning(s)"
)

// Output formatting
const (
	FmtErrorWithCause   = "Error: %s: %v\n"
	FmtNewline          = "\n"
	FmtScaleRange       = "%d is outside 1..%d"
	VersionTextTemplate = CLIName + " version %s"
)

// FilePermissions for written output files
const FilePermissions = 0o644
