/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package sql implements the SQLFront compiler front end: a lexical
analyzer, a recursive-descent parser with statement-level error
recovery, and a tree-walking semantic analyzer over a symbol table.

Pipeline:
=========

	text --Lexer--> []Token --Parser--> (*Node, syntax errors)
	              --SemanticAnalyzer--> (ok, semantic errors, *SymbolTable)

Lexer Overview:
===============

The Lexer transforms a raw SQL string into a stream of tokens:

	Input: "SELECT name FROM users WHERE id = 1"

	Output Tokens:
	  1. (KEYWORD, SELECT)
	  2. (IDENTIFIER, name)
	  3. (KEYWORD, FROM)
	  4. (IDENTIFIER, users)
	  5. (KEYWORD, WHERE)
	  6. (IDENTIFIER, id)
	  7. (OPERATOR, =)
	  8. (INTEGER, 1)
	  9. (EOF, )

Every token carries the 1-based line and column of its first
character. The lexer skips whitespace, `--` line comments, and
`##`-delimited block comments.

Error Recovery:
===============

The lexer never skips malformed input on its own. When NextToken
returns an error, the caller decides whether to abort or to call
Skip(), which advances exactly one character, and resume scanning.
Tokenize implements that skip-and-resume loop and collects all
lexical errors for the whole input.

Usage Example:
==============

	lexer := sql.NewLexer("SELECT * FROM users")
	for {
	    tok, err := lexer.NextToken()
	    if err != nil {
	        lexer.Skip()
	        continue
	    }
	    if tok.Type == sql.TokenEOF {
	        break
	    }
	    fmt.Println(tok)
	}
*/
package sql

import (
	"strings"
	"unicode"

	serrors "sqlfront/internal/errors"
)

// twoCharOperators maps the greedy two-character operators to their
// token types. Checked before any single-character classification.
var twoCharOperators = map[string]TokenType{
	"==": TokenOperator,
	"<>": TokenComparison,
	"!=": TokenComparison,
	"<=": TokenComparison,
	">=": TokenComparison,
	"||": TokenOperator,
	"<<": TokenOperator,
	">>": TokenOperator,
}

// Lexer scans an input text into tokens. It is stateful: each call to
// NextToken advances the cursor. A Lexer holds no state across runs;
// tokenizing the same text twice with two lexers yields identical
// sequences.
type Lexer struct {
	input  []rune
	pos    int
	line   int // 1-based, incremented after consuming '\n'
	column int // 1-based, reset to 1 after '\n'

	suggestions []KeywordSuggestion
}

// NewLexer creates a Lexer positioned at the start of text.
func NewLexer(text string) *Lexer {
	return &Lexer{
		input:  []rune(text),
		line:   1,
		column: 1,
	}
}

// current returns the rune under the cursor, or 0 at end of input.
func (l *Lexer) current() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// peek returns the rune one position ahead, or 0 past end of input.
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// atEnd reports whether the cursor is past the last rune.
func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

// advance consumes one rune, tracking line and column.
func (l *Lexer) advance() {
	if l.atEnd() {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

// Skip advances exactly one character. It is the caller-driven
// recovery step after NextToken returns an error.
func (l *Lexer) Skip() {
	l.advance()
}

// Suggestions returns the fuzzy keyword advisories recorded so far.
// They are warnings only and never affect the token stream.
func (l *Lexer) Suggestions() []KeywordSuggestion {
	return l.suggestions
}

// NextToken scans and returns the next token. At end of input it
// returns an EOF token at the final position, idempotently. On a
// lexical error the cursor is left at (or just past) the offending
// input and the caller may Skip() and retry.
func (l *Lexer) NextToken() (Token, *serrors.Error) {
	for !l.atEnd() {
		ch := l.current()

		if unicode.IsSpace(ch) {
			l.skipWhitespace()
			continue
		}

		// Line comments: -- to end of line.
		if ch == '-' && l.peek() == '-' {
			l.skipLineComment()
			continue
		}

		// Block comments: ## ... ##.
		if ch == '#' && l.peek() == '#' {
			if err := l.skipBlockComment(); err != nil {
				return Token{}, err
			}
			continue
		}

		if unicode.IsLetter(ch) || ch == '_' {
			return l.scanIdentifier(), nil
		}

		if unicode.IsDigit(ch) {
			return l.scanNumber()
		}

		if ch == '\'' {
			return l.scanString()
		}

		// Greedy two-character operators.
		if l.pos+1 < len(l.input) {
			pair := string(l.input[l.pos : l.pos+2])
			if typ, ok := twoCharOperators[pair]; ok {
				line, col := l.line, l.column
				l.advance()
				l.advance()
				return Token{Type: typ, Value: pair, Line: line, Column: col}, nil
			}
		}

		line, col := l.line, l.column

		switch {
		case ch == '=':
			l.advance()
			return Token{Type: TokenOperator, Value: "=", Line: line, Column: col}, nil
		case ch == '<' || ch == '>' || ch == '!':
			l.advance()
			return Token{Type: TokenComparison, Value: string(ch), Line: line, Column: col}, nil
		case strings.ContainsRune("+-*/%", ch):
			l.advance()
			return Token{Type: TokenOperator, Value: string(ch), Line: line, Column: col}, nil
		case strings.ContainsRune("&|^", ch):
			l.advance()
			return Token{Type: TokenOperator, Value: string(ch), Line: line, Column: col}, nil
		case strings.ContainsRune("(),;", ch):
			l.advance()
			return Token{Type: TokenDelimiter, Value: string(ch), Line: line, Column: col}, nil
		case ch == '.':
			l.advance()
			return Token{Type: TokenDot, Value: ".", Line: line, Column: col}, nil
		}

		// Cursor stays on the bad character; the caller skips it.
		return Token{}, serrors.InvalidCharacter(ch, line, col)
	}

	return Token{Type: TokenEOF, Line: l.line, Column: l.column}, nil
}

// skipWhitespace consumes a run of Unicode whitespace.
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.current()) {
		l.advance()
	}
}

// skipLineComment consumes -- up to, but not including, the newline.
func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.current() != '\n' {
		l.advance()
	}
}

// skipBlockComment consumes a ## ... ## comment. An unterminated
// comment is fatal and reports the comment's start position.
func (l *Lexer) skipBlockComment() *serrors.Error {
	startLine, startCol := l.line, l.column
	l.advance() // first #
	l.advance() // second #

	for !l.atEnd() {
		if l.current() == '#' && l.peek() == '#' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}

	return serrors.UnclosedComment(startLine, startCol)
}

// scanIdentifier consumes an identifier or keyword: a letter or
// underscore followed by alphanumerics or underscores. Exact
// upper-cased matches against the reserved-word set become KEYWORD
// tokens; everything else is returned verbatim as an IDENTIFIER,
// with a fuzzy-match advisory recorded for near misses.
func (l *Lexer) scanIdentifier() Token {
	line, col := l.line, l.column
	start := l.pos

	for !l.atEnd() {
		ch := l.current()
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			l.advance()
			continue
		}
		break
	}

	text := string(l.input[start:l.pos])
	upper := strings.ToUpper(text)

	if keywords[upper] {
		return Token{Type: TokenKeyword, Value: upper, Line: line, Column: col}
	}

	if kw, score, ok := SuggestKeyword(text); ok {
		l.suggestions = append(l.suggestions, KeywordSuggestion{
			Identifier: text,
			Keyword:    kw,
			Score:      score,
			Line:       line,
			Column:     col,
		})
	}

	return Token{Type: TokenIdentifier, Value: text, Line: line, Column: col}
}

// scanNumber consumes an integer or float literal. The mantissa is a
// run of digits with at most one decimal point; an optional e/E
// exponent takes an optional sign and a mandatory digit run. The
// token keeps the literal source text.
func (l *Lexer) scanNumber() (Token, *serrors.Error) {
	line, col := l.line, l.column
	start := l.pos
	isFloat := false

	for !l.atEnd() {
		ch := l.current()
		if unicode.IsDigit(ch) {
			l.advance()
			continue
		}
		if ch == '.' {
			if isFloat {
				return Token{}, serrors.MalformedNumber("multiple decimal points", l.line, l.column)
			}
			isFloat = true
			l.advance()
			continue
		}
		break
	}

	if !l.atEnd() && (l.current() == 'e' || l.current() == 'E') {
		isFloat = true
		l.advance()

		if !l.atEnd() && (l.current() == '+' || l.current() == '-') {
			l.advance()
		}

		if l.atEnd() || !unicode.IsDigit(l.current()) {
			return Token{}, serrors.MalformedNumber(`exponent requires digits after "e"`, l.line, l.column)
		}
		for !l.atEnd() && unicode.IsDigit(l.current()) {
			l.advance()
		}
	}

	typ := TokenInteger
	if isFloat {
		typ = TokenFloat
	}
	return Token{Type: typ, Value: string(l.input[start:l.pos]), Line: line, Column: col}, nil
}

// scanString consumes a single-quoted string literal. A doubled quote
// ('') collapses to one literal quote. A raw newline before the
// closing quote, or end of input, fails with an unclosed-string error
// at the opening quote's position. The token value keeps the
// surrounding quotes.
func (l *Lexer) scanString() (Token, *serrors.Error) {
	startLine, startCol := l.line, l.column
	l.advance() // opening quote

	var b strings.Builder
	for !l.atEnd() {
		ch := l.current()

		if ch == '\'' && l.peek() == '\'' {
			b.WriteRune('\'')
			l.advance()
			l.advance()
			continue
		}
		if ch == '\'' {
			l.advance() // closing quote
			return Token{
				Type:   TokenString,
				Value:  "'" + b.String() + "'",
				Line:   startLine,
				Column: startCol,
			}, nil
		}
		if ch == '\n' {
			return Token{}, serrors.UnclosedString(startLine, startCol)
		}

		b.WriteRune(ch)
		l.advance()
	}

	return Token{}, serrors.UnclosedString(startLine, startCol)
}

// Tokenize scans the whole text into a token sequence terminated by
// exactly one EOF token. Lexical errors are collected on the side;
// after each error the scan resumes one character further, so a
// malformed span never aborts tokenization.
func Tokenize(text string) ([]Token, []*serrors.Error) {
	lexer := NewLexer(text)

	var tokens []Token
	var errs []*serrors.Error

	for {
		tok, err := lexer.NextToken()
		if err != nil {
			errs = append(errs, err)
			lexer.Skip()
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens, errs
}
