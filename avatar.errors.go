package avatar

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Tag errors
	ErrMsgMissingUsername    = "avatar tag requires a username"
	ErrMsgUsernameUnresolved = "no username could be determined from the tag arguments"
	ErrMsgTagRenderFailed    = "avatar tag rendering failed"

	// Validation findings
	ErrMsgInvalidSizeIgnored = "size is not a positive integer, default size will be used"
	ErrMsgUnknownArgument    = "unknown avatar tag argument is ignored"
	ErrMsgUnexpectedArgument = "unexpected avatar tag argument is ignored"

	// Template errors
	ErrMsgParseFailed     = "template parsing failed"
	ErrMsgExecutionFailed = "template execution failed"
	ErrMsgUnknownTag      = "no tag handler registered for tag"

	// Config errors
	ErrMsgInvalidAvatarsURL    = "invalid avatars base URL"
	ErrMsgUnknownShardStrategy = "unknown shard strategy"
	ErrMsgConfigReadFailed     = "failed to read configuration file"
	ErrMsgConfigDecodeFailed   = "failed to decode configuration"
	ErrMsgUnsupportedFormat    = "unsupported configuration format"

	// Page errors
	ErrMsgFrontmatterUnclosed = "front matter is not closed"
	ErrMsgFrontmatterTooLarge = "front matter exceeds maximum size"
	ErrMsgFrontmatterInvalid  = "front matter is not valid YAML"
	ErrMsgPageReadFailed      = "failed to read page"
	ErrMsgMarkdownFailed      = "markdown conversion failed"
)

// Config error reasons
const (
	ReasonNotAbsolute     = "must be an absolute http or https URL"
	ReasonUnparseable     = "cannot be parsed as a URL"
	ReasonUnsupportedHost = "host is empty"
)

// Error code constants for categorization
const (
	ErrCodeTag    = "AVATAR_TAG"
	ErrCodeParse  = "AVATAR_PARSE"
	ErrCodeExec   = "AVATAR_EXEC"
	ErrCodeConfig = "AVATAR_CONFIG"
	ErrCodePage   = "AVATAR_PAGE"
)

// ErrMissingUsername is returned when no username can be determined for an
// avatar tag: empty markup, or a variable that resolves to an empty or absent value.
var ErrMissingUsername = errors.New(ErrMsgMissingUsername)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// NewMissingUsernameError creates the error for a tag without a resolvable username.
// markup is the raw tag text; variable is the unresolved path, if any.
func NewMissingUsernameError(markup, variable string) error {
	err := cuserr.WrapStdError(ErrMissingUsername, ErrCodeTag, ErrMsgUsernameUnresolved).
		WithMetadata(MetaKeyTag, TagNameAvatar).
		WithMetadata(MetaKeyValue, markup)
	if variable != "" {
		err = err.WithMetadata(MetaKeyVariable, variable)
	}
	return err
}

// IsMissingUsername reports whether err was caused by a missing username.
func IsMissingUsername(err error) bool {
	return errors.Is(err, ErrMissingUsername)
}

// NewParseError creates a parse error with position context
func NewParseError(msg string, pos Position, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeParse, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeParse, msg)
	}
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewExecutionError creates an execution error with tag context
func NewExecutionError(tagName string, pos Position, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeExec, ErrMsgExecutionFailed).
		WithMetadata(MetaKeyTag, tagName).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column))
}

// NewInvalidAvatarsURLError creates an error for an unusable base URL setting
func NewInvalidAvatarsURLError(value, reason string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgInvalidAvatarsURL).
		WithMetadata(MetaKeyValue, value).
		WithMetadata(MetaKeyReason, reason)
}

// NewUnknownShardStrategyError creates an error for an unsupported shard strategy
func NewUnknownShardStrategyError(strategy ShardStrategy) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgUnknownShardStrategy).
		WithMetadata(MetaKeyStrategy, string(strategy))
}

// NewUnsupportedConfigFormatError creates an error for an unknown config format name
func NewUnsupportedConfigFormatError(format string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgUnsupportedFormat).
		WithMetadata(MetaKeyFormat, format)
}

// NewConfigError wraps a configuration loading failure
func NewConfigError(msg, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	return err.WithMetadata(MetaKeyPath, path)
}

// NewFrontmatterError creates a page front matter error
func NewFrontmatterError(msg, pageName string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodePage, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodePage, msg)
	}
	return err.WithMetadata(MetaKeyPageName, pageName)
}
