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

package sql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	lru "github.com/hashicorp/golang-lru/v2"
)

// TokenType represents the lexical category of a token.
type TokenType int

// Token type constants.
const (
	TokenEOF        TokenType = iota // End of input
	TokenKeyword                     // Reserved word (SELECT, FROM, ...)
	TokenIdentifier                  // Identifier (table name, column name)
	TokenInteger                     // Integer literal (123)
	TokenFloat                       // Float literal (3.14, 1e-5)
	TokenString                      // String literal ('hello', quotes retained)
	TokenOperator                    // Arithmetic/bitwise operator, =, ==, ||, <<, >>
	TokenComparison                  // Comparison operator (<, >, !, <>, !=, <=, >=)
	TokenDelimiter                   // ( ) , ;
	TokenDot                         // . in qualified names
)

// String returns the category label used in diagnostics and dumps.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenKeyword:
		return "KEYWORD"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenInteger:
		return "INTEGER"
	case TokenFloat:
		return "FLOAT"
	case TokenString:
		return "STRING"
	case TokenOperator:
		return "OPERATOR"
	case TokenComparison:
		return "COMPARISON"
	case TokenDelimiter:
		return "DELIMITER"
	case TokenDot:
		return "DOT"
	default:
		return "UNKNOWN"
	}
}

// Token is a single classified lexeme with its 1-based source
// position. Tokens are immutable once produced by the lexer.
type Token struct {
	Type   TokenType // Lexical category
	Value  string    // The lexeme text (keywords upper-cased, strings quoted)
	Line   int       // 1-based line of the token's first character
	Column int       // 1-based column of the token's first character
}

// String renders the token as (TYPE, value) for display.
func (t Token) String() string {
	return fmt.Sprintf("(%s, %s)", t.Type, t.Value)
}

// keywords is the reserved-word set. An identifier whose upper-cased
// text is an exact member becomes a KEYWORD token.
var keywords = map[string]bool{
	// Core DML / DDL / clauses
	"ADD": true, "ALL": true, "ALTER": true, "AND": true, "ANY": true,
	"AS": true, "ASC": true, "BETWEEN": true, "BY": true, "CASE": true,
	"CHECK": true, "COLUMN": true, "CREATE": true, "DATABASE": true,
	"DEFAULT": true, "DELETE": true, "DESC": true, "DISTINCT": true,
	"DROP": true, "ELSE": true, "EXISTS": true, "FOREIGN": true,
	"FROM": true, "FULL": true, "GROUP": true, "HAVING": true, "IN": true,
	"INDEX": true, "INNER": true, "INSERT": true, "INTERSECT": true,
	"INTO": true, "IS": true, "JOIN": true, "KEY": true, "LEFT": true,
	"LIKE": true, "LIMIT": true, "NOT": true, "NULL": true, "ON": true,
	"OR": true, "ORDER": true, "OUTER": true, "PRIMARY": true,
	"REFERENCES": true, "RIGHT": true, "ROWNUM": true, "SELECT": true,
	"SET": true, "TABLE": true, "TOP": true, "UNION": true, "UNIQUE": true,
	"UPDATE": true, "VALUES": true, "VIEW": true, "WHERE": true,

	// Additional control / structural keywords
	"AFTER": true, "BEFORE": true, "CASCADE": true, "CONTINUE": true,
	"CROSS": true, "CURRENT_TIME": true, "DECLARE": true, "DESCRIBE": true,
	"EXCEPT": true, "FETCH": true, "FOR": true, "GRANT": true,
	"GROUPING": true, "IF": true, "IGNORE": true, "INDEXES": true,
	"INTERVAL": true, "ISNULL": true, "NATURAL": true, "OFFSET": true,
	"PARTITION": true, "REPLACE": true, "RETURNING": true, "ROLLUP": true,
	"SOME": true, "TRUNCATE": true, "USING": true, "WHEN": true,
	"WITH": true, "WITHIN": true,

	// Aggregate and built-in functions
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
	"CAST": true, "COALESCE": true, "SUBSTR": true, "LENGTH": true,
	"UPPER": true, "LOWER": true, "ROUND": true, "FLOOR": true, "CEIL": true,
}

// builtinFunctions are the reserved words the parser accepts as
// function names in expressions.
var builtinFunctions = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
	"CAST": true, "COALESCE": true, "SUBSTR": true, "LENGTH": true,
	"UPPER": true, "LOWER": true, "ROUND": true, "FLOOR": true, "CEIL": true,
}

// validDataTypes are the column type names recognized by the semantic
// analyzer. CREATE TABLE with other type names is reported but still
// registered.
var validDataTypes = map[string]bool{
	"INT": true, "INTEGER": true, "FLOAT": true, "DOUBLE": true,
	"VARCHAR": true, "TEXT": true, "CHAR": true, "BOOLEAN": true,
	"DATE": true, "DECIMAL": true, "NUMBER": true,
}

// keywordList is the sorted reserved-word list, used for fuzzy
// matching and shell tab completion.
var keywordList = func() []string {
	list := make([]string, 0, len(keywords))
	for kw := range keywords {
		list = append(list, kw)
	}
	sort.Strings(list)
	return list
}()

// KeywordList returns the reserved words in sorted order.
func KeywordList() []string {
	out := make([]string, len(keywordList))
	copy(out, keywordList)
	return out
}

// IsKeyword reports whether the upper-cased form of word is reserved.
func IsKeyword(word string) bool {
	return keywords[strings.ToUpper(word)]
}

// suggestionThreshold is the minimum normalized similarity ratio for a
// near-miss identifier to produce a keyword advisory.
const suggestionThreshold = 0.65

// suggestion is a memoized fuzzy-match result.
type suggestion struct {
	keyword string
	score   float64
	ok      bool
}

// suggestionMemo caches fuzzy-match results per identifier. The
// keyword set is immutable, so this is a pure-function memo; it is
// safe to share between lexers.
var suggestionMemo, _ = lru.New[string, suggestion](512)

// SuggestKeyword computes the nearest reserved word to the given
// identifier using a normalized Levenshtein similarity ratio. It
// returns the suggestion and its score when the similarity reaches
// the 0.65 threshold. Exact keyword matches return no suggestion.
//
// This is purely advisory: the lexer still classifies near-miss
// identifiers as IDENTIFIER tokens and exposes suggestions on a
// separate warning channel, never as lexical errors.
func SuggestKeyword(identifier string) (string, float64, bool) {
	upper := strings.ToUpper(identifier)
	if keywords[upper] {
		return "", 0, false
	}

	if memo, ok := suggestionMemo.Get(upper); ok {
		return memo.keyword, memo.score, memo.ok
	}

	best := ""
	bestScore := 0.0
	for _, kw := range keywordList {
		score := similarity(upper, kw)
		if score > bestScore {
			best, bestScore = kw, score
		}
	}

	result := suggestion{keyword: best, score: bestScore, ok: bestScore >= suggestionThreshold}
	suggestionMemo.Add(upper, result)
	if !result.ok {
		return "", 0, false
	}
	return result.keyword, result.score, true
}

// similarity returns 1 - distance/maxLen, the normalized Levenshtein
// similarity of two strings in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// KeywordSuggestion is a fuzzy-match advisory recorded by the lexer
// for an identifier that closely resembles a reserved word.
type KeywordSuggestion struct {
	Identifier string  // The identifier as written
	Keyword    string  // The nearest reserved word
	Score      float64 // Normalized similarity in [0.65, 1)
	Line       int
	Column     int
}

// String renders the advisory as a warning line.
func (s KeywordSuggestion) String() string {
	return fmt.Sprintf("Warning at line %d, column %d: identifier '%s' is close to keyword '%s' (similarity %.2f)",
		s.Line, s.Column, s.Identifier, s.Keyword, s.Score)
}

// LexemeInfo pairs a distinct lexeme with its token type, for the
// token-summary display.
type LexemeInfo struct {
	Value string
	Type  TokenType
}

// LexemeSummary returns the distinct IDENTIFIER, STRING, INTEGER and
// FLOAT lexemes of a token sequence in first-seen order.
func LexemeSummary(tokens []Token) []LexemeInfo {
	seen := make(map[string]bool)
	var out []LexemeInfo
	for _, tok := range tokens {
		switch tok.Type {
		case TokenIdentifier, TokenString, TokenInteger, TokenFloat:
			if !seen[tok.Value] {
				seen[tok.Value] = true
				out = append(out, LexemeInfo{Value: tok.Value, Type: tok.Type})
			}
		}
	}
	return out
}
