// Package highlight provides the built-in preset highlighting
// strategies: regex-rule tokenizers that rewrite a rendering node with
// token spans, and themes mapping token classes to terminal styles.
package highlight

// TokenType represents the semantic type of a token.
type TokenType uint8

// Token types emitted by rulesets.
const (
	TokenNone TokenType = iota
	TokenComment
	TokenString
	TokenNumber
	TokenKeyword
	TokenOperator
	TokenPunctuation
	TokenIdentifier
	TokenFunction
	TokenTypeName
	TokenConstant
	TokenBuiltin
)

// tokenClassNames maps token types to their markup class suffix.
var tokenClassNames = []string{
	TokenNone:        "",
	TokenComment:     "comment",
	TokenString:      "string",
	TokenNumber:      "number",
	TokenKeyword:     "keyword",
	TokenOperator:    "operator",
	TokenPunctuation: "punctuation",
	TokenIdentifier:  "identifier",
	TokenFunction:    "function",
	TokenTypeName:    "type",
	TokenConstant:    "constant",
	TokenBuiltin:     "builtin",
}

// String returns the token type's class suffix.
func (t TokenType) String() string {
	if int(t) < len(tokenClassNames) {
		return tokenClassNames[t]
	}
	return "unknown"
}

// Class returns the markup class for a token span, e.g.
// "token keyword". TokenNone and TokenIdentifier render unclassed.
func (t TokenType) Class() string {
	if t == TokenNone || t == TokenIdentifier {
		return ""
	}
	return "token " + t.String()
}

// Token is a typed byte range within a single line.
type Token struct {
	// Type is the semantic type of the token.
	Type TokenType

	// Start is the starting byte offset within the line.
	Start int

	// End is the ending byte offset (exclusive).
	End int
}

// Len returns the byte length of the token.
func (t Token) Len() int {
	return t.End - t.Start
}

// LexerState carries tokenizer state across line boundaries, for
// multi-line constructs like block comments and raw strings.
type LexerState uint8

// Lexer states used by the built-in rulesets.
const (
	StateNormal LexerState = iota
	StateBlockComment
	StateStringBacktick
	StateStringTriple
)
