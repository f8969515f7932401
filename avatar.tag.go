package avatar

import (
	"context"
	"strconv"
	"strings"

	"github.com/itsatony/go-avatar/internal"
	"go.uber.org/zap"
)

// ParsedArguments are the normalized arguments of one avatar tag invocation.
type ParsedArguments struct {
	// Username without a leading "@", internal whitespace collapsed.
	Username string
	// Size in pixels; always positive.
	Size int
}

// Tag renders {% avatar %} invocations. It holds no per-render state and is
// safe for concurrent use.
type Tag struct {
	config Config
	logger *zap.Logger
}

// TagOption configures a Tag.
type TagOption func(*Tag)

// WithTagLogger sets the tag's logger. Default: no logging.
func WithTagLogger(logger *zap.Logger) TagOption {
	return func(t *Tag) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTag creates an avatar tag for the given configuration.
func NewTag(cfg Config, opts ...TagOption) (*Tag, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.AvatarsURL = strings.TrimSpace(cfg.AvatarsURL)
	if cfg.ShardStrategy == "" {
		cfg.ShardStrategy = ShardStrategyCRC32
	}

	t := &Tag{
		config: cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger.Debug(LogMsgTagCreated,
		zap.String(LogFieldAvatarURL, cfg.AvatarsURL),
		zap.String(MetaKeyStrategy, string(cfg.ShardStrategy)),
	)
	return t, nil
}

// MustNewTag creates a Tag and panics on an invalid configuration.
func MustNewTag(cfg Config, opts ...TagOption) *Tag {
	t, err := NewTag(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// TagName returns the tag name this handler renders.
func (t *Tag) TagName() string {
	return TagNameAvatar
}

// Config returns the tag's configuration.
func (t *Tag) Config() Config {
	return t.config
}

// Parse resolves raw tag text into a username and size.
//
// The first token names the user: user=<value> (quoted literal, or a variable
// path resolved through vars), a {{ path }} expression, a dotted path such as
// page.author (resolved through vars), or a bare name. A bare name bound in
// vars resolves to its value; otherwise it is the username itself.
// If the first token is another key=value pair, a later user= pair is used.
// Remaining key=value pairs are options; a size that is not in [1, MaxSize]
// falls back to DefaultSize and unknown keys are ignored.
func (t *Tag) Parse(rawText string, vars VariableResolver) (*ParsedArguments, error) {
	tokens := internal.SplitArguments(rawText)
	userIdx := userTokenIndex(tokens)
	if userIdx < 0 {
		return nil, NewMissingUsernameError(rawText, "")
	}

	raw, variable, ok := t.usernameSource(tokens[userIdx], vars)
	if !ok {
		return nil, NewMissingUsernameError(rawText, variable)
	}
	username := NormalizeUsername(raw)
	if username == "" {
		return nil, NewMissingUsernameError(rawText, variable)
	}

	args := &ParsedArguments{Username: username, Size: DefaultSize}
	for i, tok := range tokens {
		if i == userIdx {
			continue
		}
		key, value, ok := internal.SplitKeyValue(tok)
		if !ok {
			t.logger.Debug(LogMsgUnknownArgument, zap.String(LogFieldArgument, tok))
			continue
		}
		switch strings.ToLower(key) {
		case ArgKeySize:
			args.Size = t.parseSize(value, vars)
		default:
			t.logger.Debug(LogMsgUnknownArgument, zap.String(LogFieldArgument, key))
		}
	}

	t.logger.Debug(LogMsgTagParsed,
		zap.String(LogFieldUsername, args.Username),
		zap.Int(LogFieldSize, args.Size),
	)
	return args, nil
}

// userTokenIndex returns the index of the token naming the user: the first
// token, unless it is a key=value pair other than user=, in which case the
// first later user= pair. -1 means there is none.
func userTokenIndex(tokens []string) int {
	if len(tokens) == 0 {
		return -1
	}
	if key, _, ok := internal.SplitKeyValue(tokens[0]); !ok || strings.EqualFold(key, ArgKeyUser) {
		return 0
	}
	for i, tok := range tokens[1:] {
		if key, _, ok := internal.SplitKeyValue(tok); ok && strings.EqualFold(key, ArgKeyUser) {
			return i + 1
		}
	}
	return -1
}

// usernameSource returns the un-normalized username for the user token.
// variable is the path that was looked up, if any.
func (t *Tag) usernameSource(token string, vars VariableResolver) (value, variable string, ok bool) {
	if key, v, isPair := internal.SplitKeyValue(token); isPair && strings.EqualFold(key, ArgKeyUser) {
		if lit, quoted := internal.Unquote(v); quoted {
			return lit, "", true
		}
		if expr, isExpr := internal.OutputExpression(v); isExpr {
			v = expr
		}
		value, ok = lookupVariable(vars, v)
		return value, v, ok
	}

	if lit, quoted := internal.Unquote(token); quoted {
		return lit, "", true
	}
	if expr, isExpr := internal.OutputExpression(token); isExpr {
		value, ok = lookupVariable(vars, expr)
		return value, expr, ok
	}
	if internal.IsVariablePath(token) {
		value, ok = lookupVariable(vars, token)
		return value, token, ok
	}
	// A bare name is a variable when bound, otherwise the username itself.
	if value, ok = lookupVariable(vars, token); ok {
		return value, token, true
	}
	return token, "", true
}

// parseSize interprets a size= value. Anything that is not an integer in
// [1, MaxSize] yields DefaultSize.
func (t *Tag) parseSize(value string, vars VariableResolver) int {
	raw := value
	if lit, quoted := internal.Unquote(value); quoted {
		raw = lit
	} else if expr, isExpr := internal.OutputExpression(value); isExpr {
		raw, _ = lookupVariable(vars, expr)
	}

	size, ok := parseSizeLiteral(raw)
	if !ok {
		t.logger.Debug(LogMsgInvalidSize, zap.String(LogFieldValue, value))
		return DefaultSize
	}
	return size
}

func parseSizeLiteral(raw string) (int, bool) {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !ValidSize(size) {
		return 0, false
	}
	return size, true
}

// ValidSize reports whether size is usable as an avatar size: positive and
// small enough that every srcset scale of it fits in 32 bits.
func ValidSize(size int) bool {
	return size > 0 && size <= MaxSize
}

func lookupVariable(vars VariableResolver, path string) (string, bool) {
	path = strings.TrimSpace(path)
	if vars == nil || path == "" {
		return "", false
	}
	return vars.Resolve(path)
}

// NormalizeUsername trims surrounding whitespace, strips one leading "@"
// and collapses internal whitespace to single spaces.
func NormalizeUsername(raw string) string {
	s := strings.TrimPrefix(strings.TrimSpace(raw), UsernamePrefix)
	return strings.Join(strings.Fields(s), " ")
}

var _ TagHandler = (*Tag)(nil)

// Render parses markup and returns the <img> markup for it. It implements
// TagHandler, so a Tag can be registered with any Engine.
func (t *Tag) Render(ctx context.Context, vars VariableResolver, markup string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	args, err := t.Parse(markup, vars)
	if err != nil {
		return "", err
	}
	return t.RenderArguments(args), nil
}

// RenderArguments returns the <img> markup for already parsed arguments.
// Attributes are emitted in the order class, src, alt, srcset, width, height,
// data-proofer-ignore.
func (t *Tag) RenderArguments(args *ParsedArguments) string {
	host := t.ResolveHost()
	shard := t.ServerNumber(args.Username, args.Size)
	base := host.WithShard(shard)
	size := strconv.Itoa(args.Size)

	out := renderElement(ElementImg, []htmlAttribute{
		{AttrClass, Classes(args.Size)},
		{AttrSrc, joinURL(base, BuildPath(args.Username, args.Size, 1))},
		{AttrAlt, args.Username},
		{AttrSrcset, srcsetFor(base, args.Username, args.Size)},
		{AttrWidth, size},
		{AttrHeight, size},
		{AttrProoferIgnore, AttrValueTrue},
	})

	t.logger.Debug(LogMsgTagRendered,
		zap.String(LogFieldUsername, args.Username),
		zap.Int(LogFieldSize, args.Size),
		zap.Int(LogFieldShard, shard),
		zap.String(LogFieldHost, base),
		zap.Bool(LogFieldIsolated, host.SubdomainIsolated),
	)
	return out
}
