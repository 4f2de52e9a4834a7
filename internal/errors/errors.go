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
Package errors provides structured, positioned error values for SQLFront.

The front end reports problems from three independent phases, and each
phase has its own error taxonomy:

  - Lexical errors: invalid characters, unclosed strings and comments,
    malformed numeric literals. Reported by the lexer, recoverable by
    the caller via single-character skip-and-resume.
  - Syntax errors: token-expectation mismatches (with expected/found
    detail), missing clause keywords, malformed statement starts.
    Reported by the parser, recovered per statement.
  - Semantic errors: unknown tables or columns, duplicate tables,
    column/value arity mismatches, type incompatibilities, unresolved
    aliases. Reported by the semantic analyzer.

Every error carries a 1-based source line and column. Errors render as
a single human-readable line:

	Lexical Error at line 3, column 12: Invalid character '@'.
	Syntax Error at line 1, column 8: Expected 'FROM' but found 'WHERE'.
	Semantic Error at line 2, column 1: Table 'users' does not exist

No error produced by the front end is fatal to the pipeline: the
lexer, parser, and analyzer all return their best-effort partial
result alongside the accumulated error list.
*/
package errors

import "fmt"

// Code identifies a specific error condition for programmatic handling.
type Code int

// Error codes, grouped by phase.
const (
	// Lexical errors (1000-1999)
	CodeLexical          Code = 1000
	CodeInvalidCharacter Code = 1001
	CodeUnclosedString   Code = 1002
	CodeUnclosedComment  Code = 1003
	CodeMalformedNumber  Code = 1004

	// Syntax errors (2000-2999)
	CodeSyntax             Code = 2000
	CodeUnexpectedToken    Code = 2001
	CodeMissingKeyword     Code = 2002
	CodeMalformedStatement Code = 2003

	// Semantic errors (3000-3999)
	CodeSemantic        Code = 3000
	CodeTableExists     Code = 3001
	CodeTableNotFound   Code = 3002
	CodeColumnNotFound  Code = 3003
	CodeTypeMismatch    Code = 3004
	CodeArityMismatch   Code = 3005
	CodeAliasNotFound   Code = 3006
	CodeInvalidDataType Code = 3007
)

// Category identifies the phase that produced an error.
type Category string

// Error categories, one per front-end phase.
const (
	CategoryLexical  Category = "LEXICAL"
	CategorySyntax   Category = "SYNTAX"
	CategorySemantic Category = "SEMANTIC"
)

// title returns the human-readable category title used in messages.
func (c Category) title() string {
	switch c {
	case CategoryLexical:
		return "Lexical"
	case CategorySyntax:
		return "Syntax"
	case CategorySemantic:
		return "Semantic"
	default:
		return "Unknown"
	}
}

// Error is a structured front-end error with source position.
//
// Expected and Found are populated only for syntax errors caused by a
// specific token mismatch; when both are set, the error renders as
// "Expected X but found Y".
type Error struct {
	Code     Code
	Category Category
	Message  string
	Line     int
	Column   int
	Expected string
	Found    string
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Expected != "" && e.Found != "" {
		return fmt.Sprintf("%s Error at line %d, column %d: Expected '%s' but found '%s'.",
			e.Category.title(), e.Line, e.Column, e.Expected, e.Found)
	}
	return fmt.Sprintf("%s Error at line %d, column %d: %s",
		e.Category.title(), e.Line, e.Column, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithCause attaches an underlying cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// At returns a copy of the error relocated to the given position.
func (e *Error) At(line, column int) *Error {
	clone := *e
	clone.Line = line
	clone.Column = column
	return &clone
}

// ============================================================================
// Lexical Error Constructors
// ============================================================================

// InvalidCharacter reports a character that cannot start any token.
func InvalidCharacter(ch rune, line, column int) *Error {
	return &Error{
		Code:     CodeInvalidCharacter,
		Category: CategoryLexical,
		Message:  fmt.Sprintf("Invalid character '%c'.", ch),
		Line:     line,
		Column:   column,
	}
}

// UnclosedString reports a string literal with no closing quote.
// The position is the opening quote, not the point of failure.
func UnclosedString(line, column int) *Error {
	return &Error{
		Code:     CodeUnclosedString,
		Category: CategoryLexical,
		Message:  fmt.Sprintf("Unclosed string starting at line %d, column %d.", line, column),
		Line:     line,
		Column:   column,
	}
}

// UnclosedComment reports a block comment with no closing marker.
// The position is the start of the comment.
func UnclosedComment(line, column int) *Error {
	return &Error{
		Code:     CodeUnclosedComment,
		Category: CategoryLexical,
		Message:  fmt.Sprintf("Unclosed comment starting at line %d, column %d.", line, column),
		Line:     line,
		Column:   column,
	}
}

// MalformedNumber reports a numeric literal that violates the number
// grammar, e.g. a second decimal point or an exponent with no digits.
func MalformedNumber(detail string, line, column int) *Error {
	return &Error{
		Code:     CodeMalformedNumber,
		Category: CategoryLexical,
		Message:  fmt.Sprintf("Invalid number format: %s", detail),
		Line:     line,
		Column:   column,
	}
}

// ============================================================================
// Syntax Error Constructors
// ============================================================================

// SyntaxError creates a free-form syntax error.
func SyntaxError(message string, line, column int) *Error {
	return &Error{
		Code:     CodeSyntax,
		Category: CategorySyntax,
		Message:  message,
		Line:     line,
		Column:   column,
	}
}

// ExpectedFound reports a token-expectation mismatch.
func ExpectedFound(expected, found string, line, column int) *Error {
	return &Error{
		Code:     CodeUnexpectedToken,
		Category: CategorySyntax,
		Message:  fmt.Sprintf("Expected '%s' but found '%s'.", expected, found),
		Line:     line,
		Column:   column,
		Expected: expected,
		Found:    found,
	}
}

// MalformedStatement reports a statement that does not begin with a
// recognized statement keyword.
func MalformedStatement(found string, line, column int) *Error {
	return &Error{
		Code:     CodeMalformedStatement,
		Category: CategorySyntax,
		Message:  fmt.Sprintf("Expected keyword to start statement but found '%s'", found),
		Line:     line,
		Column:   column,
	}
}

// ============================================================================
// Semantic Error Constructors
// ============================================================================

// Semantic creates a semantic error with the given code and message.
func Semantic(code Code, message string, line, column int) *Error {
	return &Error{
		Code:     code,
		Category: CategorySemantic,
		Message:  message,
		Line:     line,
		Column:   column,
	}
}

// Semanticf creates a semantic error with a formatted message.
func Semanticf(code Code, line, column int, format string, args ...interface{}) *Error {
	return Semantic(code, fmt.Sprintf(format, args...), line, column)
}
