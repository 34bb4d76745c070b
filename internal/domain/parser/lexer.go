package parser

import (
	"unicode"
	"unicode/utf8"

	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/registry"
	"golang.org/x/text/unicode/norm"
)

// TokenKind identifies the lexical category of a Token. It generalizes
// the teacher's TokenType enum from a handful of arithmetic symbols to
// the full LaTeX surface spec.md §4.1 requires (comparisons, matrix
// delimiters, calculus commands, font commands).
type TokenKind int

const (
	TokenIllegal TokenKind = iota
	TokenEOF

	TokenNumber
	TokenIdentifier
	TokenFunction // \sin, \ln, ... — Literal carries the bare name
	TokenConstant // \pi, \gamma, ... — Literal carries the bare name

	TokenPlus
	TokenMinus
	TokenTimes
	TokenDivide
	TokenPower
	TokenUnderscore
	TokenBang

	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenPipe

	TokenComma
	TokenAmpersand
	TokenRowBreak

	TokenLess
	TokenGreater
	TokenLessEq
	TokenGreaterEq
	TokenEqual
	TokenNotEqual
	TokenArrow

	TokenInfinity

	TokenFrac
	TokenBinom
	TokenSqrt
	TokenSum
	TokenProd
	TokenLim
	TokenInt
	TokenIInt
	TokenIIInt
	TokenBegin
	TokenEnd
	TokenPartial
	TokenNabla
	TokenText
	TokenFontCommand // Literal carries the style name (mathbf, mathrm, ...)

	// TokenUnknownCommand marks a backslash command that resolved to
	// neither the static command tables nor the extension registries
	// consulted by readBackslashToken. The lexer has already recorded
	// a Tokenizer-category *diagnostics.Error for it (spec.md §4.1), so
	// the parser consumes it as a silent placeholder instead of also
	// raising its own "unexpected token" error for the same mistake.
	TokenUnknownCommand

	TokenIgnored
)

// Token is one lexed unit: its kind, the literal text it was lexed
// from (or, for TokenFunction/TokenConstant/TokenFontCommand, the bare
// command name), and its byte offset in the original source.
type Token struct {
	Kind    TokenKind
	Literal string
	Pos     int
}

func (k TokenKind) String() string {
	switch k {
	case TokenIllegal:
		return "ILLEGAL"
	case TokenEOF:
		return "EOF"
	case TokenNumber:
		return "NUMBER"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenFunction:
		return "FUNCTION"
	case TokenConstant:
		return "CONSTANT"
	case TokenPlus:
		return "PLUS"
	case TokenMinus:
		return "MINUS"
	case TokenTimes:
		return "TIMES"
	case TokenDivide:
		return "DIVIDE"
	case TokenPower:
		return "POWER"
	case TokenUnderscore:
		return "UNDERSCORE"
	case TokenBang:
		return "BANG"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenLBrace:
		return "LBRACE"
	case TokenRBrace:
		return "RBRACE"
	case TokenLBracket:
		return "LBRACKET"
	case TokenRBracket:
		return "RBRACKET"
	case TokenPipe:
		return "PIPE"
	case TokenComma:
		return "COMMA"
	case TokenAmpersand:
		return "AMPERSAND"
	case TokenRowBreak:
		return "ROWBREAK"
	case TokenLess:
		return "LESS"
	case TokenGreater:
		return "GREATER"
	case TokenLessEq:
		return "LESSEQ"
	case TokenGreaterEq:
		return "GREATEREQ"
	case TokenEqual:
		return "EQUAL"
	case TokenNotEqual:
		return "NOTEQUAL"
	case TokenArrow:
		return "ARROW"
	case TokenInfinity:
		return "INFINITY"
	case TokenFrac:
		return "FRAC"
	case TokenBinom:
		return "BINOM"
	case TokenSqrt:
		return "SQRT"
	case TokenSum:
		return "SUM"
	case TokenProd:
		return "PROD"
	case TokenLim:
		return "LIM"
	case TokenInt:
		return "INT"
	case TokenIInt:
		return "IINT"
	case TokenIIInt:
		return "IIINT"
	case TokenBegin:
		return "BEGIN"
	case TokenEnd:
		return "END"
	case TokenPartial:
		return "PARTIAL"
	case TokenNabla:
		return "NABLA"
	case TokenText:
		return "TEXT"
	case TokenFontCommand:
		return "FONTCOMMAND"
	case TokenUnknownCommand:
		return "UNKNOWNCOMMAND"
	case TokenIgnored:
		return "IGNORED"
	default:
		return "UNKNOWN"
	}
}

// Lexer holds the scanner state. Grounded on the teacher's
// parser.Lexer (input/position/readPosition/ch + readChar/peekChar),
// with the input NFC-normalized at construction (golang.org/x/text,
// used elsewhere in the pack for text normalization) so that visually
// identical but differently-composed unicode variable names compare
// equal.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune

	// functions/constants are consulted when a backslash command
	// resolves to neither commandTable nor constantNames/variableNames/
	// functionNames, per spec.md §4.1's "unknown backslash commands
	// consult an extension registry before raising TokenizerError".
	// Both are nil for a plain NewLexer, in which case only the static
	// tables in commands.go are considered.
	functions *registry.FunctionRegistry
	constants *registry.ConstantRegistry

	errors []*diagnostics.Error
}

// NewLexer builds a Lexer over src, normalizing it to NFC first. It
// consults no extension registry, so an otherwise-unknown backslash
// command always raises a TokenizerError.
func NewLexer(src string) *Lexer {
	return NewLexerWithRegistries(src, nil, nil)
}

// NewLexerWithRegistries builds a Lexer that, before raising a
// TokenizerError for an unrecognized backslash command, also checks
// whether functions/constants (typically an Engine's own scoped
// registry pair, see registry.Extensions) already know the name.
// Either may be nil to skip that check.
func NewLexerWithRegistries(src string, functions *registry.FunctionRegistry, constants *registry.ConstantRegistry) *Lexer {
	l := &Lexer{input: norm.NFC.String(src), functions: functions, constants: constants}
	l.readChar()
	return l
}

// Errors returns every TokenizerError accumulated while scanning.
func (l *Lexer) Errors() []*diagnostics.Error { return l.errors }

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		var size int
		l.ch, size = utf8.DecodeRuneInString(l.input[l.readPosition:])
		if l.ch == utf8.RuneError && size == 1 {
			l.ch = '?'
		}
	}
	l.position = l.readPosition
	l.readPosition += utf8.RuneLen(l.ch)
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken scans and returns the next token, advancing the scanner.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.position
	var tok Token

	switch l.ch {
	case '+':
		tok = Token{Kind: TokenPlus, Literal: "+", Pos: pos}
	case '-':
		tok = Token{Kind: TokenMinus, Literal: "-", Pos: pos}
	case '*':
		tok = Token{Kind: TokenTimes, Literal: "*", Pos: pos}
	case '/':
		tok = Token{Kind: TokenDivide, Literal: "/", Pos: pos}
	case '^':
		tok = Token{Kind: TokenPower, Literal: "^", Pos: pos}
	case '_':
		tok = Token{Kind: TokenUnderscore, Literal: "_", Pos: pos}
	case '!':
		tok = Token{Kind: TokenBang, Literal: "!", Pos: pos}
	case '(':
		tok = Token{Kind: TokenLParen, Literal: "(", Pos: pos}
	case ')':
		tok = Token{Kind: TokenRParen, Literal: ")", Pos: pos}
	case '{':
		tok = Token{Kind: TokenLBrace, Literal: "{", Pos: pos}
	case '}':
		tok = Token{Kind: TokenRBrace, Literal: "}", Pos: pos}
	case '[':
		tok = Token{Kind: TokenLBracket, Literal: "[", Pos: pos}
	case ']':
		tok = Token{Kind: TokenRBracket, Literal: "]", Pos: pos}
	case '|':
		tok = Token{Kind: TokenPipe, Literal: "|", Pos: pos}
	case ',':
		tok = Token{Kind: TokenComma, Literal: ",", Pos: pos}
	case '&':
		tok = Token{Kind: TokenAmpersand, Literal: "&", Pos: pos}
	case '=':
		tok = Token{Kind: TokenEqual, Literal: "=", Pos: pos}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Kind: TokenLessEq, Literal: "<=", Pos: pos}
		} else {
			tok = Token{Kind: TokenLess, Literal: "<", Pos: pos}
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Kind: TokenGreaterEq, Literal: ">=", Pos: pos}
		} else {
			tok = Token{Kind: TokenGreater, Literal: ">", Pos: pos}
		}
	case '\\':
		return l.readBackslashToken(pos)
	case 0:
		return Token{Kind: TokenEOF, Literal: "", Pos: pos}
	default:
		if isLetter(l.ch) {
			name := l.readIdentifier()
			return Token{Kind: TokenIdentifier, Literal: name, Pos: pos}
		}
		if isDigit(l.ch) {
			return Token{Kind: TokenNumber, Literal: l.readNumber(), Pos: pos}
		}
		tok = Token{Kind: TokenIllegal, Literal: string(l.ch), Pos: pos}
	}

	l.readChar()
	return tok
}

// readBackslashToken handles every "\command" form: row-break ("\\"),
// named commands resolved through commandTable/functionNames/
// constantNames, and the two-character escapes \{ \} \| which lex as
// their literal delimiter (LaTeX's way of escaping a brace that would
// otherwise be a grouping delimiter).
func (l *Lexer) readBackslashToken(pos int) Token {
	l.readChar() // consume '\'
	switch l.ch {
	case '\\':
		l.readChar()
		return Token{Kind: TokenRowBreak, Literal: "\\\\", Pos: pos}
	case '{':
		l.readChar()
		return Token{Kind: TokenLBrace, Literal: "{", Pos: pos}
	case '}':
		l.readChar()
		return Token{Kind: TokenRBrace, Literal: "}", Pos: pos}
	case '|':
		l.readChar()
		return Token{Kind: TokenPipe, Literal: "|", Pos: pos}
	case ',', '!', ';', ':':
		l.readChar()
		return Token{Kind: TokenIgnored, Literal: "", Pos: pos}
	}

	name := l.readCommandName()
	if name == "" {
		return Token{Kind: TokenIllegal, Literal: "\\", Pos: pos}
	}
	if kind, ok := classifyCommand(name); ok {
		return Token{Kind: kind, Literal: name, Pos: pos}
	}
	if kind, ok := l.classifyExtensionCommand(name); ok {
		return Token{Kind: kind, Literal: name, Pos: pos}
	}
	l.errors = append(l.errors, l.unknownCommandError(name, pos))
	return Token{Kind: TokenUnknownCommand, Literal: name, Pos: pos}
}

// classifyExtensionCommand checks an Engine-scoped (or the
// process-wide default) function/constant registry for name, for
// callers that registered it at runtime via registry.Extensions
// rather than baking it into commands.go's static tables.
func (l *Lexer) classifyExtensionCommand(name string) (TokenKind, bool) {
	if l.constants != nil {
		if _, ok := l.constants.Lookup(name); ok {
			return TokenConstant, true
		}
	}
	if l.functions != nil {
		if _, ok := l.functions.Lookup(name); ok {
			return TokenFunction, true
		}
	}
	return TokenIllegal, false
}

// unknownCommandError builds the Tokenizer-category diagnostic for a
// backslash command that resolved to nothing, per spec.md §4.1/§7:
// anchored position, rendered snippet/caret, and a suggestion drawn
// first from the fixed table and then from fuzzy "did you mean"
// matching against every name the lexer does recognize.
func (l *Lexer) unknownCommandError(name string, pos int) *diagnostics.Error {
	err := diagnostics.NewAt(diagnostics.Tokenizer, l.input, pos, `unknown command "\%s"`, name)
	if s := diagnostics.FixedSuggestion("\\" + name); s != "" {
		return err.WithSuggestion(s)
	}
	if s := diagnostics.DidYouMean(name, l.knownCommandNames(), 2); s != "" {
		return err.WithSuggestion(s)
	}
	return err
}

// knownCommandNames lists every backslash-command name this lexer
// would currently accept, used as the candidate pool for "did you
// mean" suggestions on an unknown one.
func (l *Lexer) knownCommandNames() []string {
	names := make([]string, 0, len(commandTable)+len(constantNames)+len(variableNames)+len(functionNames))
	for n := range commandTable {
		names = append(names, n)
	}
	for n := range constantNames {
		names = append(names, n)
	}
	for n := range variableNames {
		names = append(names, n)
	}
	for n := range functionNames {
		names = append(names, n)
	}
	if l.functions != nil {
		names = append(names, l.functions.Names()...)
	}
	if l.constants != nil {
		names = append(names, l.constants.Names()...)
	}
	return names
}

func (l *Lexer) readCommandName() string {
	position := l.position
	for isLetter(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	l.readChar()
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	hasDecimal := false
	for isDigit(l.ch) || (l.ch == '.' && !hasDecimal) {
		if l.ch == '.' {
			if !isDigit(l.peekChar()) {
				break
			}
			hasDecimal = true
		}
		l.readChar()
	}
	return l.input[position:l.position]
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
