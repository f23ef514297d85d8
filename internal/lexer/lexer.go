package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"tan/internal/diag"
	"tan/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF
	line         int

	diag *diag.Collector
}

func New(input string, d *diag.Collector) *Lexer {
	l := &Lexer{input: input, line: 1, diag: d}
	l.readChar()
	return l
}

// Tokens scans the whole input. The returned slice always ends with EOF.
func (l *Lexer) Tokens() []token.Token {
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespace()

		start := l.position
		switch l.ch {
		case 0:
			return token.Token{Type: token.EOF, Lexeme: "", Line: l.line}
		case '=':
			return l.handleCompoundToken(token.ASSIGN, '=', token.EQ)
		case '!':
			return l.handleCompoundToken(token.BANG, '=', token.NOT_EQ)
		case '<':
			return l.handleCompoundToken(token.LT, '=', token.LT_EQ)
		case '>':
			return l.handleCompoundToken(token.GT, '=', token.GT_EQ)
		case '+':
			return l.single(token.PLUS)
		case '-':
			return l.single(token.MINUS)
		case '*':
			return l.single(token.ASTERISK)
		case '/':
			return l.single(token.SLASH)
		case '?':
			return l.single(token.QUESTION)
		case ':':
			return l.single(token.COLON)
		case '.':
			return l.single(token.PERIOD)
		case ',':
			return l.single(token.COMMA)
		case ';':
			return l.single(token.SEMICOLON)
		case '(':
			return l.single(token.LPAREN)
		case ')':
			return l.single(token.RPAREN)
		case '{':
			return l.single(token.LBRACE)
		case '}':
			return l.single(token.RBRACE)
		case '"':
			if tok, ok := l.readString(); ok {
				return tok
			}
			continue
		}

		if isLetter(l.ch) {
			line := l.line
			ident := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Line: line}
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}

		l.diag.Error(l.line, fmt.Sprintf("Unexpected character '%s'.", l.input[start:l.readPosition]))
		l.readChar()
	}
}

func (l *Lexer) single(t token.TokenType) token.Token {
	tok := token.Token{Type: t, Lexeme: string(l.ch), Line: l.line}
	l.readChar()
	return tok
}

func (l *Lexer) handleCompoundToken(t token.TokenType, ch1 rune, t1 token.TokenType) token.Token {
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		tok := token.Token{Type: t1, Lexeme: string(first) + string(l.ch), Line: l.line}
		l.readChar()
		return tok
	}
	return l.single(t)
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readChar()
		case '\n':
			l.line++
			l.readChar()
		case '/':
			switch l.peekChar() {
			case '/':
				l.skipToLineEnd()
			case '*':
				l.skipBlockComment()
			default:
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// block comments do not nest
func (l *Lexer) skipBlockComment() {
	startLine := l.line
	l.readChar() // consume '/'
	l.readChar() // consume '*'
	for {
		switch {
		case l.ch == 0:
			l.diag.Error(startLine, "Unterminated block comment.")
			return
		case l.ch == '*' && l.peekChar() == '/':
			l.readChar()
			l.readChar()
			return
		case l.ch == '\n':
			l.line++
		}
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// readIdentifier returns the substring (bytes) covering the identifier runes
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[start:l.position]
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		l.diag.Error(l.line, fmt.Sprintf("Invalid number literal '%s'.", lexeme))
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: value, Line: l.line}
}

// readString consumes a double quoted string. Strings may span lines; the
// token is attributed to the line the string ends on.
func (l *Lexer) readString() (token.Token, bool) {
	var result strings.Builder
	start := l.position
	startLine := l.line

	l.readChar() // consume the opening `"`
	for {
		if l.ch == 0 {
			l.diag.Error(startLine, "Unterminated string.")
			return token.Token{}, false
		}

		if l.ch == '"' {
			l.readChar() // consume the closing `"`
			break
		}

		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case '\\':
				result.WriteRune('\\')
			case '"':
				result.WriteRune('"')
			case 0:
				continue
			default:
				result.WriteRune('\\')
				result.WriteRune(l.ch)
			}
		} else {
			if l.ch == '\n' {
				l.line++
			}
			result.WriteRune(l.ch)
		}
		l.readChar()
	}

	return token.Token{
		Type:    token.STRING,
		Lexeme:  l.input[start:l.position],
		Literal: result.String(),
		Line:    l.line,
	}, true
}

// Unicode-aware helpers
func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
