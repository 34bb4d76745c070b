package parser

import (
	"testing"

	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []Token
	}{
		{
			input: "a + b",
			expected: []Token{
				{Kind: TokenIdentifier, Literal: "a", Pos: 0},
				{Kind: TokenPlus, Literal: "+", Pos: 2},
				{Kind: TokenIdentifier, Literal: "b", Pos: 4},
				{Kind: TokenEOF, Literal: "", Pos: 5},
			},
		},
		{
			input: `\frac{123}{x^2}`,
			expected: []Token{
				{Kind: TokenFrac, Literal: "frac", Pos: 0},
				{Kind: TokenLBrace, Literal: "{", Pos: 5},
				{Kind: TokenNumber, Literal: "123", Pos: 6},
				{Kind: TokenRBrace, Literal: "}", Pos: 9},
				{Kind: TokenLBrace, Literal: "{", Pos: 10},
				{Kind: TokenIdentifier, Literal: "x", Pos: 11},
				{Kind: TokenPower, Literal: "^", Pos: 12},
				{Kind: TokenNumber, Literal: "2", Pos: 13},
				{Kind: TokenRBrace, Literal: "}", Pos: 14},
				{Kind: TokenEOF, Literal: "", Pos: 15},
			},
		},
		{
			input: "(a * -5.5)",
			expected: []Token{
				{Kind: TokenLParen, Literal: "(", Pos: 0},
				{Kind: TokenIdentifier, Literal: "a", Pos: 1},
				{Kind: TokenTimes, Literal: "*", Pos: 3},
				{Kind: TokenMinus, Literal: "-", Pos: 5},
				{Kind: TokenNumber, Literal: "5.5", Pos: 6},
				{Kind: TokenRParen, Literal: ")", Pos: 9},
				{Kind: TokenEOF, Literal: "", Pos: 10},
			},
		},
		{
			input: `\sin{x} \leq 1`,
			expected: []Token{
				{Kind: TokenFunction, Literal: "sin", Pos: 0},
				{Kind: TokenLBrace, Literal: "{", Pos: 4},
				{Kind: TokenIdentifier, Literal: "x", Pos: 5},
				{Kind: TokenRBrace, Literal: "}", Pos: 6},
				{Kind: TokenLessEq, Literal: "leq", Pos: 8},
				{Kind: TokenNumber, Literal: "1", Pos: 13},
				{Kind: TokenEOF, Literal: "", Pos: 14},
			},
		},
		{
			input: `\pi \to \infty`,
			expected: []Token{
				{Kind: TokenConstant, Literal: "pi", Pos: 0},
				{Kind: TokenArrow, Literal: "to", Pos: 4},
				{Kind: TokenInfinity, Literal: "infty", Pos: 8},
				{Kind: TokenEOF, Literal: "", Pos: 14},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := NewLexer(tt.input)
			var tokens []Token
			for tok := l.NextToken(); ; tok = l.NextToken() {
				tokens = append(tokens, tok)
				if tok.Kind == TokenEOF {
					break
				}
			}

			assert.Equal(t, len(tt.expected), len(tokens), "number of tokens mismatch")
			for i := range tt.expected {
				if i >= len(tokens) {
					break
				}
				assert.Equal(t, tt.expected[i].Kind, tokens[i].Kind, "token %d kind mismatch", i)
				assert.Equal(t, tt.expected[i].Literal, tokens[i].Literal, "token %d literal mismatch", i)
			}
		})
	}
}

func TestLexerUnknownCommandRecordsTokenizerError(t *testing.T) {
	l := NewLexer(`\zzz`)
	tok := l.NextToken()
	assert.Equal(t, TokenUnknownCommand, tok.Kind)
	assert.Equal(t, "zzz", tok.Literal)
	require.Len(t, l.Errors(), 1)
	assert.Equal(t, diagnostics.Tokenizer, l.Errors()[0].Category)
}

func TestLexerRowBreakAndAmpersand(t *testing.T) {
	l := NewLexer(`1 & 2 \\ 3 & 4`)
	var kinds []TokenKind
	for tok := l.NextToken(); tok.Kind != TokenEOF; tok = l.NextToken() {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		TokenNumber, TokenAmpersand, TokenNumber, TokenRowBreak, TokenNumber, TokenAmpersand, TokenNumber,
	}, kinds)
}
