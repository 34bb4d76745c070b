// Package parser turns a LaTeX math source string into an ast.Expr
// tree. It keeps the teacher's Pratt-parsing shape (precedence table,
// a parseExpr precedence loop with switch-based prefix/infix dispatch,
// save-and-restore backtracking for bounded lookahead) and
// generalizes the grammar from the teacher's transpiler subset to the
// full surface spec.md §4.2 describes: implicit multiplication,
// matrices, comparisons, calculus notation, and piecewise cases.
package parser

import (
	"strconv"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/registry"
)

// Precedence levels, lowest to highest. Exponentiation is
// right-associative, implemented by parsing its right operand one
// level below itself (see parsePowerInfix).
const (
	_ int = iota
	precLowest
	precComparison
	precAdditive
	precMultiplicative
	precImplicit
	precUnary
	precPower
	precPostfix
)

var precedences = map[TokenKind]int{
	TokenLess:      precComparison,
	TokenGreater:   precComparison,
	TokenLessEq:    precComparison,
	TokenGreaterEq: precComparison,
	TokenEqual:     precComparison,
	TokenNotEqual:  precComparison,
	TokenPlus:      precAdditive,
	TokenMinus:     precAdditive,
	TokenTimes:     precMultiplicative,
	TokenDivide:    precMultiplicative,
	TokenPower:     precPower,
	TokenBang:      precPostfix,
}

// maxDepth/maxNodes bound pathological inputs (spec.md §4.2 safety
// caps), mirrored from the teacher's recursion-depth discipline in
// parseCommandExpression.
const (
	maxDepth = 500
	maxNodes = 10000
)

// Parser consumes a token stream from a Lexer and builds an ast.Expr,
// accumulating *diagnostics.Error values instead of stopping at the
// first mistake (generalizing the teacher's errors []string /
// addError idiom).
type Parser struct {
	lex    *Lexer
	source string

	cur  Token
	peek Token

	errors        []*diagnostics.Error
	lexErrorsSeen int

	depth     int
	nodeCount int

	// integralDepth is above zero while an integral body is parsed.
	integralDepth int
}

// New builds a Parser over source using the process-wide default
// function/constant registries (registry.Functions/registry.Constants)
// for unknown-command resolution, mirroring evaluator.New(cfg, nil)'s
// same fallback.
func New(source string) *Parser {
	return NewWithRegistries(source, registry.Functions, registry.Constants)
}

// NewWithRegistries builds a Parser whose lexer consults functions/
// constants (typically an Engine's own scoped registry pair) before
// raising a TokenizerError for an unrecognized backslash command.
func NewWithRegistries(source string, functions *registry.FunctionRegistry, constants *registry.ConstantRegistry) *Parser {
	return newWithLexer(source, NewLexerWithRegistries(source, functions, constants))
}

func newWithLexer(source string, lex *Lexer) *Parser {
	p := &Parser{lex: lex, source: source}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every error accumulated while parsing, including any
// TokenizerError raised by the lexer.
func (p *Parser) Errors() []*diagnostics.Error { return p.errors }

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
	p.drainLexerErrors()
	for p.peek.Kind == TokenIgnored {
		p.peek = p.lex.NextToken()
		p.drainLexerErrors()
	}
}

// drainLexerErrors copies any TokenizerError the lexer has newly
// accumulated into p.errors, so Parse's caller sees them alongside
// the parser's own diagnostics in source order.
func (p *Parser) drainLexerErrors() {
	if n := len(p.lex.errors); n > p.lexErrorsSeen {
		p.errors = append(p.errors, p.lex.errors[p.lexErrorsSeen:n]...)
		p.lexErrorsSeen = n
	}
}

func (p *Parser) addError(format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewAt(diagnostics.Parser, p.source, p.cur.Pos, format, args...))
}

func (p *Parser) enter() bool {
	p.depth++
	p.nodeCount++
	if p.depth > maxDepth {
		p.addError("expression nested too deeply (max depth %d)", maxDepth)
		return false
	}
	if p.nodeCount > maxNodes {
		p.addError("expression too large (max %d nodes)", maxNodes)
		return false
	}
	return true
}

func (p *Parser) leave() { p.depth-- }

// Parse parses the full token stream into a single expression, using
// the process-wide default function/constant registries.
func Parse(source string) (ast.Expr, []*diagnostics.Error) {
	return parseWith(New(source))
}

// ParseWithRegistries parses source the way Parse does, but consults
// functions/constants (instead of the process-wide defaults) both for
// the lexer's unknown-command resolution and the parser's
// "did you mean" candidate lists.
func ParseWithRegistries(source string, functions *registry.FunctionRegistry, constants *registry.ConstantRegistry) (ast.Expr, []*diagnostics.Error) {
	return parseWith(NewWithRegistries(source, functions, constants))
}

func parseWith(p *Parser) (ast.Expr, []*diagnostics.Error) {
	p.skipFunctionDefinitionPrefix()
	expr := p.parseTopLevel()
	if p.cur.Kind != TokenEOF {
		p.addError("unexpected trailing token %s %q", p.cur.Kind, p.cur.Literal)
	}
	return expr, p.errors
}

// skipFunctionDefinitionPrefix discards a leading "f(x) =" /
// "f(x, y) =" function-definition header, scanning only within the
// first few tokens so it can never misfire deep inside an expression
// (spec.md §4.2: "a leading `name(args) =` prefix is recognized and
// discarded").
func (p *Parser) skipFunctionDefinitionPrefix() {
	if p.cur.Kind != TokenIdentifier || p.peek.Kind != TokenLParen {
		return
	}
	save := *p
	p.nextToken() // consume identifier
	p.nextToken() // consume '('
	steps := 0
	for p.cur.Kind == TokenIdentifier && steps < 8 {
		p.nextToken()
		if p.cur.Kind == TokenComma {
			p.nextToken()
			steps++
			continue
		}
		break
	}
	if p.cur.Kind == TokenRParen {
		p.nextToken()
		if p.cur.Kind == TokenEqual {
			p.nextToken()
			return
		}
	}
	*p = save
}

// parseTopLevel parses a comparison chain, then an optional trailing
// ", condition" suffix that lowers to a Conditional.
func (p *Parser) parseTopLevel() ast.Expr {
	expr := p.parseComparisonChain()
	if p.cur.Kind == TokenComma {
		p.nextToken()
		cond := p.parseComparisonChain()
		return &ast.Conditional{Value: expr, Condition: cond}
	}
	return expr
}

func compareOpFor(k TokenKind) (ast.CompareOp, bool) {
	switch k {
	case TokenLess:
		return ast.Lt, true
	case TokenGreater:
		return ast.Gt, true
	case TokenLessEq:
		return ast.Le, true
	case TokenGreaterEq:
		return ast.Ge, true
	case TokenEqual:
		return ast.Eq, true
	case TokenNotEqual:
		return ast.Ne, true
	default:
		return 0, false
	}
}

func (p *Parser) parseComparisonChain() ast.Expr {
	first := p.parseExpr(precLowest)
	_, ok := compareOpFor(p.cur.Kind)
	if !ok {
		return first
	}
	exprs := []ast.Expr{first}
	var ops []ast.CompareOp
	for {
		op, ok := compareOpFor(p.cur.Kind)
		if !ok {
			break
		}
		ops = append(ops, op)
		p.nextToken()
		exprs = append(exprs, p.parseExpr(precLowest))
	}
	if len(exprs) == 2 {
		return &ast.Comparison{Op: ops[0], Left: exprs[0], Right: exprs[1]}
	}
	return &ast.ChainedComparison{Exprs: exprs, Ops: ops}
}

// startsPrimary reports whether a token kind can begin a primary
// expression, used to detect implicit multiplication: "2x", "xy",
// "(a+b)(c+d)", "2\sin{x}" all juxtapose two primaries with no
// explicit operator between them.
func startsPrimary(k TokenKind) bool {
	switch k {
	case TokenNumber, TokenIdentifier, TokenFunction, TokenConstant,
		TokenLParen, TokenLBrace, TokenPipe, TokenFrac, TokenSqrt,
		TokenBinom, TokenSum, TokenProd, TokenLim, TokenInt, TokenIInt,
		TokenIIInt, TokenBegin, TokenFontCommand, TokenText,
		TokenInfinity, TokenPartial:
		return true
	default:
		return false
	}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.cur.Kind]; ok {
		return pr
	}
	if startsPrimary(p.cur.Kind) {
		return precImplicit
	}
	return precLowest
}

// parseExpr is the Pratt loop over the non-comparison operators.
func (p *Parser) parseExpr(precedence int) ast.Expr {
	if !p.enter() {
		return &ast.Number{Value: 0}
	}
	defer p.leave()

	left := p.parsePrefix()

	for precedence < p.peekPrecedence() {
		switch p.cur.Kind {
		case TokenPlus, TokenMinus, TokenTimes, TokenDivide:
			left = p.parseBinaryInfix(left)
		case TokenPower:
			left = p.parsePowerInfix(left)
		case TokenBang:
			p.nextToken()
			left = &ast.FuncCall{Name: "factorial", Args: []ast.Expr{left}}
		default:
			if startsPrimary(p.cur.Kind) && !p.atDifferential() {
				right := p.parseExpr(precImplicit)
				left = &ast.Binary{Op: ast.Mul, Left: left, Right: right}
			} else {
				return left
			}
		}
	}
	return left
}

func (p *Parser) parseBinaryInfix(left ast.Expr) ast.Expr {
	tok := p.cur
	opFor := map[TokenKind]ast.BinaryOp{
		TokenPlus: ast.Add, TokenMinus: ast.Sub, TokenTimes: ast.Mul, TokenDivide: ast.Div,
	}
	op := opFor[tok.Kind]
	prec := precedences[tok.Kind]
	p.nextToken()
	right := p.parseExpr(prec)
	return &ast.Binary{Op: op, Left: left, Right: right, SourceTok: tok.Literal}
}

// parsePowerInfix parses a^b right-associatively by recursing at
// precPower-1 for the exponent.
func (p *Parser) parsePowerInfix(left ast.Expr) ast.Expr {
	p.nextToken()
	right := p.parseExpr(precPower - 1)
	return &ast.Binary{Op: ast.Pow, Left: left, Right: right, SourceTok: "^"}
}

func (p *Parser) parsePrefix() ast.Expr {
	switch p.cur.Kind {
	case TokenNumber:
		return p.parseNumber()
	case TokenIdentifier:
		return p.parseIdentifier()
	case TokenConstant:
		return p.parseConstant()
	case TokenInfinity:
		p.nextToken()
		return &ast.Variable{Name: "infty"}
	case TokenMinus:
		p.nextToken()
		operand := p.parseExpr(precUnary)
		return &ast.Unary{Op: ast.Negate, Operand: operand}
	case TokenLParen:
		return p.parseParenGroup()
	case TokenLBrace:
		return p.parseBraceGroup()
	case TokenPipe:
		return p.parseAbsoluteValue()
	case TokenFunction:
		return p.parseFunctionCall()
	case TokenFontCommand:
		return p.parseFontCommand()
	case TokenText:
		return p.parseText()
	case TokenFrac:
		return p.parseFrac()
	case TokenSqrt:
		return p.parseSqrt()
	case TokenBinom:
		return p.parseBinom()
	case TokenSum:
		return p.parseSumOrProduct(false)
	case TokenProd:
		return p.parseSumOrProduct(true)
	case TokenLim:
		return p.parseLimit()
	case TokenInt, TokenIInt, TokenIIInt:
		return p.parseIntegral()
	case TokenPartial:
		return p.parsePartialStandalone()
	case TokenBegin:
		return p.parseEnvironment()
	case TokenUnknownCommand:
		// The lexer already recorded a Tokenizer-category error with
		// its own snippet/caret/suggestion for this command; adding a
		// second "unexpected token" Parser error here would just be
		// noise about the same mistake.
		p.nextToken()
		return &ast.Number{Value: 0}
	default:
		p.addError("unexpected token %s %q", p.cur.Kind, p.cur.Literal)
		p.nextToken()
		return &ast.Number{Value: 0}
	}
}

func (p *Parser) parseNumber() ast.Expr {
	v, err := strconv.ParseFloat(p.cur.Literal, 64)
	if err != nil {
		p.addError("invalid number literal %q", p.cur.Literal)
	}
	p.nextToken()
	return &ast.Number{Value: v}
}

func (p *Parser) parseIdentifier() ast.Expr {
	name := p.cur.Literal
	p.nextToken()
	if p.cur.Kind == TokenUnderscore {
		p.nextToken()
		sub := p.parseSubscriptAtom() // subscripted plain variable, e.g. x_1 — folded into the name
		return &ast.Variable{Name: name + "_" + ast.ToLatex(sub)}
	}
	return &ast.Variable{Name: name}
}

func (p *Parser) parseConstant() ast.Expr {
	name := p.cur.Literal
	p.nextToken()
	return &ast.Variable{Name: name}
}

// parseSubscriptAtom parses either a single primary token or a
// brace-delimited group following an underscore, e.g. the "2" in
// \log_2 or the "0" in \int_0^1.
func (p *Parser) parseSubscriptAtom() ast.Expr {
	if p.cur.Kind == TokenLBrace {
		return p.parseBraceGroup()
	}
	return p.parseExpr(precPostfix)
}

func (p *Parser) parseParenGroup() ast.Expr {
	p.nextToken()
	inner := p.parseComparisonChain()
	if p.cur.Kind != TokenRParen {
		p.addError("expected ')' to close group")
	} else {
		p.nextToken()
	}
	return inner
}

func (p *Parser) parseBraceGroup() ast.Expr {
	p.nextToken()
	inner := p.parseComparisonChain()
	if p.cur.Kind != TokenRBrace {
		p.addError("expected '}' to close group")
	} else {
		p.nextToken()
	}
	return inner
}

func (p *Parser) parseAbsoluteValue() ast.Expr {
	p.nextToken()
	inner := p.parseComparisonChain()
	if p.cur.Kind != TokenPipe {
		p.addError("expected '|' to close absolute value")
	} else {
		p.nextToken()
	}
	return &ast.AbsoluteValue{Inner: inner}
}

// parseFunctionCall parses \name[_sub][^exp]{arg}{arg}... — the
// registry decides arity/semantics at evaluation time, so the parser
// simply collects every brace-delimited argument group that
// immediately follows.
func (p *Parser) parseFunctionCall() ast.Expr {
	name := p.cur.Literal
	p.nextToken()
	call := &ast.FuncCall{Name: name}
	if p.cur.Kind == TokenUnderscore {
		p.nextToken()
		call.Sub = p.parseSubscriptAtom()
	}
	if p.cur.Kind == TokenPower {
		// \sin^2{x} style exponent applied to the function's result.
		p.nextToken()
		exp := p.parseExpr(precPower - 1)
		body := p.parseFunctionArgsOrAtom(call)
		return &ast.Binary{Op: ast.Pow, Left: body, Right: exp, SourceTok: "^"}
	}
	return p.parseFunctionArgsOrAtom(call)
}

func (p *Parser) parseFunctionArgsOrAtom(call *ast.FuncCall) ast.Expr {
	if p.cur.Kind == TokenLBrace {
		for p.cur.Kind == TokenLBrace {
			call.Args = append(call.Args, p.parseBraceGroup())
		}
		return call
	}
	if p.cur.Kind == TokenLParen {
		p.nextToken()
		call.Args = append(call.Args, p.parseComparisonChain())
		for p.cur.Kind == TokenComma {
			p.nextToken()
			call.Args = append(call.Args, p.parseComparisonChain())
		}
		if p.cur.Kind != TokenRParen {
			p.addError("expected ')' to close %q arguments", call.Name)
		} else {
			p.nextToken()
		}
		return call
	}
	// Bare trailing atom, e.g. "\sin x".
	call.Args = append(call.Args, p.parseExpr(precUnary))
	return call
}

func (p *Parser) parseFontCommand() ast.Expr {
	style := p.cur.Literal
	p.nextToken()
	if p.cur.Kind != TokenLBrace {
		p.addError("expected '{' after \\%s", style)
		return &ast.Variable{Name: style}
	}
	p.nextToken()
	// operatorname/overline wrap an arbitrary expression; mathbf/mathrm
	// style plain variables.
	if p.cur.Kind == TokenIdentifier && p.peek.Kind == TokenRBrace {
		name := p.cur.Literal
		p.nextToken()
		p.nextToken()
		if style == "overline" {
			return &ast.FuncCall{Name: "conjugate", Args: []ast.Expr{&ast.Variable{Name: name}}}
		}
		return &ast.FontedVariable{Style: style, Name: name}
	}
	inner := p.parseComparisonChain()
	if p.cur.Kind != TokenRBrace {
		p.addError("expected '}' to close \\%s", style)
	} else {
		p.nextToken()
	}
	if style == "overline" {
		return &ast.FuncCall{Name: "conjugate", Args: []ast.Expr{inner}}
	}
	return inner
}

// parseText parses \text{...} as a multi-letter identifier (e.g.
// \text{fib}_n), since such names never appear as bare LaTeX letters.
func (p *Parser) parseText() ast.Expr {
	p.nextToken()
	if p.cur.Kind != TokenLBrace {
		p.addError("expected '{' after \\text")
		return &ast.Variable{Name: ""}
	}
	p.nextToken()
	name := ""
	for p.cur.Kind == TokenIdentifier {
		name += p.cur.Literal
		p.nextToken()
	}
	if p.cur.Kind != TokenRBrace {
		p.addError("expected '}' to close \\text")
	} else {
		p.nextToken()
	}
	if p.cur.Kind == TokenUnderscore {
		p.nextToken()
		sub := p.parseSubscriptAtom()
		return &ast.FuncCall{Name: name, Sub: sub, Args: []ast.Expr{sub}}
	}
	return &ast.Variable{Name: name}
}

// parseFrac recognizes the derivative/partial-derivative notations
// (\frac{d}{dx}, \frac{d^n}{dx^n}, \frac{\partial}{\partial x}) via
// bounded lookahead before falling back to plain division.
func (p *Parser) parseFrac() ast.Expr {
	p.nextToken() // consume \frac
	if der, ok := p.tryParseDerivativeFrac(); ok {
		return der
	}
	if p.cur.Kind != TokenLBrace {
		p.addError("expected '{' after \\frac")
		return &ast.Number{Value: 0}
	}
	num := p.parseBraceGroup()
	if p.cur.Kind != TokenLBrace {
		p.addError("expected second '{' after \\frac numerator")
		return num
	}
	den := p.parseBraceGroup()
	return &ast.Binary{Op: ast.Div, Left: num, Right: den, SourceTok: "\\frac"}
}

func (p *Parser) tryParseDerivativeFrac() (ast.Expr, bool) {
	if p.cur.Kind != TokenLBrace {
		return nil, false
	}
	save := *p
	p.nextToken() // consume '{'

	isPartial := p.cur.Kind == TokenPartial
	isPlainD := p.cur.Kind == TokenIdentifier && p.cur.Literal == "d"
	if !isPartial && !isPlainD {
		*p = save
		return nil, false
	}
	p.nextToken()
	order := 1
	if p.cur.Kind == TokenPower {
		p.nextToken()
		order = p.readSmallInt()
	}
	if p.cur.Kind != TokenRBrace {
		*p = save
		return nil, false
	}
	p.nextToken()
	if p.cur.Kind != TokenLBrace {
		*p = save
		return nil, false
	}
	p.nextToken()
	if isPartial && p.cur.Kind == TokenPartial {
		p.nextToken()
	} else if !isPartial && p.cur.Kind == TokenIdentifier && p.cur.Literal == "d" {
		p.nextToken()
	} else {
		*p = save
		return nil, false
	}
	if p.cur.Kind != TokenIdentifier {
		*p = save
		return nil, false
	}
	v := p.cur.Literal
	p.nextToken()
	if p.cur.Kind == TokenPower {
		p.nextToken()
		p.readSmallInt()
	}
	if p.cur.Kind != TokenRBrace {
		*p = save
		return nil, false
	}
	p.nextToken()
	body := p.parseExpr(precUnary)
	if isPartial {
		return &ast.PartialDerivative{Body: body, Var: v, Order: order}, true
	}
	return &ast.Derivative{Body: body, Var: v, Order: order}, true
}

func (p *Parser) readSmallInt() int {
	if p.cur.Kind == TokenLBrace {
		p.nextToken()
		n := p.readSmallInt()
		if p.cur.Kind == TokenRBrace {
			p.nextToken()
		}
		return n
	}
	if p.cur.Kind != TokenNumber {
		p.addError("expected an integer")
		return 1
	}
	v, _ := strconv.Atoi(p.cur.Literal)
	p.nextToken()
	return v
}

func (p *Parser) parsePartialStandalone() ast.Expr {
	// A bare \partial outside of a \frac{\partial}{\partial x} pattern is
	// not meaningful on its own; treat it as the identifier "partial" so
	// the parser still produces a tree and lets the evaluator report an
	// undefined-variable error with a suggestion.
	p.nextToken()
	return &ast.Variable{Name: "partial"}
}

func (p *Parser) parseSqrt() ast.Expr {
	p.nextToken()
	var index ast.Expr
	if p.cur.Kind == TokenLBracket {
		p.nextToken()
		index = p.parseComparisonChain()
		if p.cur.Kind != TokenRBracket {
			p.addError("expected ']' to close \\sqrt index")
		} else {
			p.nextToken()
		}
	}
	if p.cur.Kind != TokenLBrace {
		p.addError("expected '{' after \\sqrt")
		return &ast.Number{Value: 0}
	}
	radicand := p.parseBraceGroup()
	return &ast.NthRoot{Radicand: radicand, Index: index}
}

func (p *Parser) parseBinom() ast.Expr {
	p.nextToken()
	call := &ast.FuncCall{Name: "binom"}
	if p.cur.Kind != TokenLBrace {
		p.addError("expected '{' after \\binom")
		return call
	}
	call.Args = append(call.Args, p.parseBraceGroup())
	if p.cur.Kind != TokenLBrace {
		p.addError("expected second '{' after \\binom")
		return call
	}
	call.Args = append(call.Args, p.parseBraceGroup())
	return call
}

// parseSumOrProduct parses \sum_{v=start}^{end} body or the \prod form.
func (p *Parser) parseSumOrProduct(isProduct bool) ast.Expr {
	p.nextToken()
	v, start := p.parseIndexBinding()
	var end ast.Expr
	if p.cur.Kind == TokenPower {
		p.nextToken()
		end = p.parseSubscriptAtom()
	}
	body := p.parseExpr(precUnary)
	if isProduct {
		return &ast.Product{Var: v, Start: start, End: end, Body: body}
	}
	return &ast.Sum{Var: v, Start: start, End: end, Body: body}
}

// parseIndexBinding parses "_{v=start}" (or a bare "_v" with an
// implicit start of 0), returning the bound variable name and the
// start expression.
func (p *Parser) parseIndexBinding() (string, ast.Expr) {
	if p.cur.Kind != TokenUnderscore {
		p.addError("expected '_' to bind the index variable")
		return "i", &ast.Number{Value: 0}
	}
	p.nextToken()
	usesBrace := p.cur.Kind == TokenLBrace
	if usesBrace {
		p.nextToken()
	}
	if p.cur.Kind != TokenIdentifier {
		p.addError("expected an index variable name")
		return "i", &ast.Number{Value: 0}
	}
	v := p.cur.Literal
	p.nextToken()
	var start ast.Expr = &ast.Number{Value: 0}
	if p.cur.Kind == TokenEqual {
		p.nextToken()
		start = p.parseExpr(precUnary)
	}
	if usesBrace {
		if p.cur.Kind != TokenRBrace {
			p.addError("expected '}' to close index binding")
		} else {
			p.nextToken()
		}
	}
	return v, start
}

func (p *Parser) parseLimit() ast.Expr {
	p.nextToken()
	if p.cur.Kind != TokenUnderscore {
		p.addError("expected '_' after \\lim")
		return &ast.Number{Value: 0}
	}
	p.nextToken()
	usesBrace := p.cur.Kind == TokenLBrace
	if usesBrace {
		p.nextToken()
	}
	if p.cur.Kind != TokenIdentifier {
		p.addError("expected a limit variable")
		return &ast.Number{Value: 0}
	}
	v := p.cur.Literal
	p.nextToken()
	if p.cur.Kind != TokenArrow {
		p.addError("expected '\\to' in \\lim")
		return &ast.Number{Value: 0}
	}
	p.nextToken()
	negate := false
	if p.cur.Kind == TokenPlus {
		p.nextToken()
	} else if p.cur.Kind == TokenMinus {
		negate = true
		p.nextToken()
	}
	target := p.parseExpr(precUnary)
	if negate {
		target = &ast.Unary{Op: ast.Negate, Operand: target}
	}
	if usesBrace {
		if p.cur.Kind != TokenRBrace {
			p.addError("expected '}' to close \\lim subscript")
		} else {
			p.nextToken()
		}
	}
	body := p.parseExpr(precUnary)
	return &ast.Limit{Var: v, Target: target, Body: body}
}

// parseIntegral parses \int[_{lower}^{upper}] body \, dVar [dVar2 ...],
// defaulting missing differentials to x, y, z per spec.md §4.2.
func (p *Parser) parseIntegral() ast.Expr {
	nested := 1
	switch p.cur.Kind {
	case TokenIInt:
		nested = 2
	case TokenIIInt:
		nested = 3
	}
	p.nextToken()

	var lower, upper ast.Expr
	if p.cur.Kind == TokenUnderscore {
		p.nextToken()
		lower = p.parseSubscriptAtom()
		if p.cur.Kind == TokenPower {
			p.nextToken()
			upper = p.parseSubscriptAtom()
		}
	}

	p.integralDepth++
	body := p.parseExpr(precAdditive)
	p.integralDepth--
	vars := p.consumeDifferentials(nested)
	v := "x"
	if len(vars) > 0 {
		v = vars[0]
	}
	return &ast.Integral{Lower: lower, Upper: upper, Body: body, Var: v, Vars: vars}
}

var defaultIntegrationVars = []string{"x", "y", "z"}

// atDifferential reports whether an integral body has reached a "dx"
// differential, which ends the body instead of multiplying into it.
func (p *Parser) atDifferential() bool {
	return p.integralDepth > 0 && p.cur.Kind == TokenIdentifier && p.cur.Literal == "d" && p.peek.Kind == TokenIdentifier
}

// consumeDifferentials scans trailing "dx", "dy dz" forms; if none are
// present (a bare "\int f(x)"), it defaults to the first `need` names
// of x, y, z.
func (p *Parser) consumeDifferentials(need int) []string {
	var vars []string
	for p.cur.Kind == TokenIdentifier && p.cur.Literal == "d" && p.peek.Kind == TokenIdentifier {
		p.nextToken()
		vars = append(vars, p.cur.Literal)
		p.nextToken()
	}
	if len(vars) == 0 {
		return append([]string{}, defaultIntegrationVars[:need]...)
	}
	return vars
}

// parseEnvironment parses \begin{name}...\end{name}: matrix-like
// environments become ast.Matrix, "cases" becomes ast.PiecewiseExpr.
func (p *Parser) parseEnvironment() ast.Expr {
	p.nextToken() // consume \begin
	name, ok := p.parseEnvName()
	if !ok {
		return &ast.Number{Value: 0}
	}
	if name == "cases" {
		return p.parsePiecewise()
	}
	return p.parseMatrix(name)
}

func (p *Parser) parseEnvName() (string, bool) {
	if p.cur.Kind != TokenLBrace {
		p.addError("expected '{' after \\begin")
		return "", false
	}
	p.nextToken()
	if p.cur.Kind != TokenIdentifier {
		p.addError("expected environment name")
		return "", false
	}
	name := p.cur.Literal
	for p.cur.Kind == TokenIdentifier {
		name += p.cur.Literal
		p.nextToken()
	}
	if p.cur.Kind != TokenRBrace {
		p.addError("expected '}' after environment name")
		return name, false
	}
	p.nextToken()
	return name, true
}

func envKindFor(name string) ast.MatrixEnv {
	switch name {
	case "pmatrix":
		return ast.EnvParens
	case "bmatrix":
		return ast.EnvBrackets
	case "vmatrix":
		return ast.EnvBars
	case "align", "aligned":
		return ast.EnvAligned
	default:
		return ast.EnvPlain
	}
}

func (p *Parser) parseMatrix(name string) ast.Expr {
	env := envKindFor(name)
	var rows [][]ast.Expr
	row := []ast.Expr{p.parseExpr(precAdditive)}
	for {
		switch p.cur.Kind {
		case TokenAmpersand:
			p.nextToken()
			row = append(row, p.parseExpr(precAdditive))
		case TokenRowBreak:
			p.nextToken()
			rows = append(rows, row)
			row = []ast.Expr{p.parseExpr(precAdditive)}
		case TokenEnd:
			rows = append(rows, row)
			p.nextToken()
			p.parseEnvName()
			return &ast.Matrix{Rows: rows, Env: env}
		default:
			p.addError("unexpected token %s inside matrix body", p.cur.Kind)
			rows = append(rows, row)
			return &ast.Matrix{Rows: rows, Env: env}
		}
	}
}

func (p *Parser) parsePiecewise() ast.Expr {
	var cases []ast.PiecewiseCase
	for {
		value := p.parseExpr(precAdditive)
		var cond ast.Expr
		if p.cur.Kind == TokenAmpersand {
			p.nextToken()
			cond = p.parseComparisonChain()
		}
		cases = append(cases, ast.PiecewiseCase{Value: value, Condition: cond})
		switch p.cur.Kind {
		case TokenRowBreak:
			p.nextToken()
			continue
		case TokenEnd:
			p.nextToken()
			p.parseEnvName()
			return &ast.PiecewiseExpr{Cases: cases}
		default:
			p.addError("unexpected token %s inside \\begin{cases}", p.cur.Kind)
			return &ast.PiecewiseExpr{Cases: cases}
		}
	}
}

// KnownNames returns every registered function and constant name, used
// by the evaluator/diagnostics layer to build "did you mean"
// candidate lists for unknown-name errors.
func KnownNames() (functions, constants []string) {
	return registry.Functions.Names(), registry.Constants.Names()
}
