package token

import "fmt"

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // add, foobar, x, y, ...
	NUMBER = "NUMBER" // 1343456
	STRING = "STRING" // "foobar"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	BANG     = "!"
	ASTERISK = "*"
	SLASH    = "/"

	LT    = "<"
	LT_EQ = "<="
	GT    = ">"
	GT_EQ = ">="

	EQ     = "=="
	NOT_EQ = "!="

	QUESTION = "?"
	COLON    = ":"

	// Delimiters
	PERIOD    = "."
	COMMA     = ","
	SEMICOLON = ";"

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// Keywords
	AND      = "AND"
	OR       = "OR"
	CLASS    = "CLASS"
	ELSE     = "ELSE"
	FALSE    = "FALSE"
	FOR      = "FOR"
	FUNCTION = "FUNCTION"
	IF       = "IF"
	NIL      = "NIL"
	PRINT    = "PRINT"
	RETURN   = "RETURN"
	SUPER    = "SUPER"
	THIS     = "THIS"
	TRUE     = "TRUE"
	VAR      = "VAR"
	WHILE    = "WHILE"
)

// Token is a single lexeme produced by the lexer. Literal holds the decoded
// value of NUMBER (float64) and STRING (string) tokens and is nil otherwise.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %v (line %d)", t.Type, t.Lexeme, t.Literal, t.Line)
	}
	return fmt.Sprintf("%s %q (line %d)", t.Type, t.Lexeme, t.Line)
}

var keywords = map[string]TokenType{
	// constants
	"nil":   NIL,
	"true":  TRUE,
	"false": FALSE,

	// declarations
	"var":      VAR,
	"function": FUNCTION,
	"class":    CLASS,
	"this":     THIS,
	"super":    SUPER,

	// flow control
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"return": RETURN,
	"and":    AND,
	"or":     OR,

	"print": PRINT,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
