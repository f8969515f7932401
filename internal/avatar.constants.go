package internal

// Delimiters for Liquid-style tags and output expressions
const (
	StrTagOpen     = "{%"
	StrTagClose    = "%}"
	StrOutputOpen  = "{{"
	StrOutputClose = "}}"

	StrPathSeparator = "."
)

// Character constants
const (
	CharSpace       = ' '
	CharTab         = '\t'
	CharNewline     = '\n'
	CharCarriageRet = '\r'
	CharEquals      = '='
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
)

// Log messages - ALL must be constants
const (
	LogMsgLexerCreated       = "lexer created"
	LogMsgTokenizerStart     = "tokenization started"
	LogMsgTokenizerEnd       = "tokenization completed"
	LogMsgRegistryCreated    = "tag registry created"
	LogMsgHandlerRegistered  = "tag handler registered"
	LogMsgHandlerCollision   = "tag handler collision, keeping first registration"
	LogMsgExecutorCreated    = "executor created"
	LogMsgExecuteStart       = "execution started"
	LogMsgExecuteEnd         = "execution completed"
	LogMsgOutputUnresolved   = "output expression did not resolve"
	LogMsgTagDispatched      = "tag dispatched"
	LogMsgExecutionCancelled = "execution cancelled"
)

// Log field names
const (
	LogFieldSource   = "source_length"
	LogFieldTokens   = "token_count"
	LogFieldTagName  = "tag_name"
	LogFieldExisting = "existing"
	LogFieldExpr     = "expression"
	LogFieldLine     = "line"
	LogFieldOutput   = "output_length"
)

// StringValueEmpty is the empty string, used in comparisons for readability.
const StringValueEmpty = ""
