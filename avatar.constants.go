package avatar

import (
	"math"
	"time"
)

// Built-in tag names
const (
	TagNameAvatar = "avatar"
)

// Avatar sizing and CDN contract constants
const (
	// DefaultSize is the pixel size used when no valid size= argument is given.
	DefaultSize = 40
	// MaxScale is the largest pixel-density scale emitted in srcset.
	MaxScale = 4
	// MaxSize is the largest accepted size; MaxSize*MaxScale fits in an int32.
	MaxSize = math.MaxInt32 / MaxScale
	// SmallSizeThreshold is the size below which the small-avatar class is added.
	SmallSizeThreshold = 48
	// ServerCount is the number of CDN shard hosts.
	ServerCount = 4
	// APIVersion is the fixed v= query parameter of the avatar CDN URL contract.
	APIVersion = 3
)

// srcsetScales are the pixel-density scales emitted in srcset, in order.
var srcsetScales = [...]int{1, 2, 3, MaxScale}

// Host constants
const (
	// ShardPlaceholder is replaced by the shard number in subdomain-isolated hosts.
	ShardPlaceholder = "{N}"
	// DefaultHostTemplate is the GitHub avatar CDN used when no base URL is configured.
	DefaultHostTemplate = "https://avatars" + ShardPlaceholder + ".githubusercontent.com"
	// SubdomainIsolationLabel is the host label marking a shard-capable avatar host.
	SubdomainIsolationLabel = "avatars"
	SchemeSeparator         = "://"
	URLPathSeparator        = "/"
	HostLabelSeparator      = "."
	SchemeHTTP              = "http"
	SchemeHTTPS             = "https"
)

// URL query constants
const (
	QueryParamVersion = "v"
	QueryParamSize    = "s"
	PathFormat        = "%s?" + QueryParamVersion + "=%d&" + QueryParamSize + "=%d"
)

// Tag argument constants
const (
	ArgKeyUser     = "user"
	ArgKeySize     = "size"
	UsernamePrefix = "@"
)

// Markup constants
const (
	ElementImg            = "img"
	ClassAvatar           = "avatar"
	ClassAvatarSmall      = "avatar avatar-small"
	AttrClass             = "class"
	AttrSrc               = "src"
	AttrAlt               = "alt"
	AttrSrcset            = "srcset"
	AttrWidth             = "width"
	AttrHeight            = "height"
	AttrProoferIgnore     = "data-proofer-ignore"
	AttrValueTrue         = "true"
	ScaleDescriptorSuffix = "x"
	SrcsetSeparator       = ", "
)

// Validation severity names
const (
	SeverityNameError   = "error"
	SeverityNameWarning = "warning"
)

// Context constants
const (
	// PathSeparator separates segments of a dotted variable path.
	PathSeparator = "."
)

// Configuration constants
const (
	// EnvAvatarsURL is the environment variable conventionally holding the base URL override.
	EnvAvatarsURL = "PAGES_AVATARS_URL"

	ConfigFormatYAML = "yaml"
	ConfigFormatTOML = "toml"

	FileExtensionYAML     = ".yaml"
	FileExtensionYML      = ".yml"
	FileExtensionTOML     = ".toml"
	FileExtensionMarkdown = ".md"
	FileExtensionMarkdn   = ".markdown"
)

// Page constants
const (
	// YAMLFrontmatterDelimiter is the standard YAML front matter delimiter
	YAMLFrontmatterDelimiter = "---"
	// DefaultMaxFrontmatterSize bounds the front matter section in bytes.
	DefaultMaxFrontmatterSize = 64 * 1024

	DataKeyPage = "page"
	DataKeySite = "site"
	PageKeyName = "name"
)

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNamePostgres   = "postgres"
	StorageDriverNameFilesystem = "filesystem"
)

// Filesystem storage layout
const (
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
	FilesystemVersionPrefix   = "v"
	FilesystemVersionSuffix   = ".json"
)

// PostgreSQL storage defaults
const (
	PostgresTablePrefix            = "avatar_"
	PostgresDefaultMaxOpenConns    = 10
	PostgresDefaultMaxIdleConns    = 2
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// Page cache defaults
const (
	DefaultCacheTTL         = 5 * time.Minute
	DefaultCacheMaxEntries  = 1000
	DefaultCacheNegativeTTL = 30 * time.Second
)

// PageIDPrefix prefixes generated page IDs.
const PageIDPrefix = "page_"

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyTag      = "tag"
	MetaKeyLine     = "line"
	MetaKeyColumn   = "column"
	MetaKeyOffset   = "offset"
	MetaKeyVariable = "variable"
	MetaKeyValue    = "value"
	MetaKeyPath     = "path"
	MetaKeyReason   = "reason"
	MetaKeyFormat   = "format"
	MetaKeyStrategy = "shard_strategy"
	MetaKeyPageName = "page_name"
)

// Log messages - ALL must be constants
const (
	LogMsgTagCreated       = "avatar tag created"
	LogMsgTagParsed        = "avatar tag arguments parsed"
	LogMsgInvalidSize      = "invalid avatar size ignored, using default"
	LogMsgUnknownArgument  = "unknown avatar tag argument ignored"
	LogMsgTagRendered      = "avatar tag rendered"
	LogMsgEngineCreated    = "engine created"
	LogMsgPageRendered     = "page rendered"
	LogMsgMarkdownRendered = "markdown converted"
	LogMsgConfigLoaded     = "configuration loaded"
)

// Log field names
const (
	LogFieldUsername  = "username"
	LogFieldSize      = "size"
	LogFieldShard     = "shard"
	LogFieldHost      = "host"
	LogFieldIsolated  = "subdomain_isolated"
	LogFieldArgument  = "argument"
	LogFieldValue     = "value"
	LogFieldPage      = "page"
	LogFieldPath      = "path"
	LogFieldAvatarURL = "avatars_url"
	LogFieldStrategy  = "shard_strategy"
)
