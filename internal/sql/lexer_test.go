package sql

import (
	"strings"
	"testing"
)

func TestTokenizeSimpleSelect(t *testing.T) {
	tokens, errs := Tokenize("SELECT a, b FROM t WHERE a = 1;")
	if len(errs) != 0 {
		t.Fatalf("expected no lexical errors, got %v", errs)
	}

	want := []struct {
		typ   TokenType
		value string
	}{
		{TokenKeyword, "SELECT"},
		{TokenIdentifier, "a"},
		{TokenDelimiter, ","},
		{TokenIdentifier, "b"},
		{TokenKeyword, "FROM"},
		{TokenIdentifier, "t"},
		{TokenKeyword, "WHERE"},
		{TokenIdentifier, "a"},
		{TokenOperator, "="},
		{TokenInteger, "1"},
		{TokenDelimiter, ";"},
		{TokenEOF, ""},
	}

	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w.typ || tokens[i].Value != w.value {
			t.Errorf("token %d: expected (%s, %q), got (%s, %q)",
				i, w.typ, w.value, tokens[i].Type, tokens[i].Value)
		}
	}
}

func TestTokenizeKeywordCaseFolding(t *testing.T) {
	tokens, errs := Tokenize("select FROM Where")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	for i, want := range []string{"SELECT", "FROM", "WHERE"} {
		if tokens[i].Type != TokenKeyword {
			t.Errorf("token %d: expected KEYWORD, got %s", i, tokens[i].Type)
		}
		if tokens[i].Value != want {
			t.Errorf("token %d: expected %q, got %q", i, want, tokens[i].Value)
		}
	}
}

func TestTokenizeIdentifierPreservesCase(t *testing.T) {
	tokens, _ := Tokenize("UserName _temp x1")

	want := []string{"UserName", "_temp", "x1"}
	for i, w := range want {
		if tokens[i].Type != TokenIdentifier {
			t.Errorf("token %d: expected IDENTIFIER, got %s", i, tokens[i].Type)
		}
		if tokens[i].Value != w {
			t.Errorf("token %d: expected value %q, got %q", i, w, tokens[i].Value)
		}
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, _ := Tokenize("SELECT a\nFROM t")

	want := []struct {
		line, col int
	}{
		{1, 1}, // SELECT
		{1, 8}, // a
		{2, 1}, // FROM
		{2, 6}, // t
	}

	for i, w := range want {
		if tokens[i].Line != w.line || tokens[i].Column != w.col {
			t.Errorf("token %d (%s): expected position %d:%d, got %d:%d",
				i, tokens[i].Value, w.line, w.col, tokens[i].Line, tokens[i].Column)
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	input := "SELECT a -- trailing comment\nFROM ## block\ncomment ## t"
	tokens, errs := Tokenize(input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	var values []string
	for _, tok := range tokens {
		if tok.Type != TokenEOF {
			values = append(values, tok.Value)
		}
	}
	if got := strings.Join(values, " "); got != "SELECT a FROM t" {
		t.Errorf("expected comments skipped, got tokens %q", got)
	}
}

func TestTokenizeUnclosedComment(t *testing.T) {
	_, errs := Tokenize("SELECT a ## never closed")
	if len(errs) == 0 {
		t.Fatal("expected error for unclosed comment")
	}
	if !strings.Contains(errs[0].Error(), "Unclosed comment") {
		t.Errorf("unexpected message: %v", errs[0])
	}
	// Error reports the comment's start, not where input ended.
	if errs[0].Line != 1 || errs[0].Column != 10 {
		t.Errorf("expected error at 1:10, got %d:%d", errs[0].Line, errs[0].Column)
	}
}

func TestTokenizeStringLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"'hello'", "'hello'"},
		{"''", "''"},
		{"'it''s'", "'it's'"},
		{"'a b c'", "'a b c'"},
	}

	for _, tt := range tests {
		tokens, errs := Tokenize(tt.input)
		if len(errs) != 0 {
			t.Errorf("%q: unexpected errors %v", tt.input, errs)
			continue
		}
		if tokens[0].Type != TokenString {
			t.Errorf("%q: expected STRING, got %s", tt.input, tokens[0].Type)
		}
		if tokens[0].Value != tt.want {
			t.Errorf("%q: expected value %q, got %q", tt.input, tt.want, tokens[0].Value)
		}
	}
}

func TestTokenizeUnclosedString(t *testing.T) {
	_, errs := Tokenize("SELECT 'oops")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	if errs[0].Line != 1 || errs[0].Column != 8 {
		t.Errorf("expected error at opening quote 1:8, got %d:%d", errs[0].Line, errs[0].Column)
	}
}

func TestTokenizeStringNewlineTerminates(t *testing.T) {
	tokens, errs := Tokenize("'broken\nFROM t")
	if len(errs) == 0 {
		t.Fatal("expected unclosed string error")
	}
	if errs[0].Column != 1 {
		t.Errorf("expected error at column 1, got %d", errs[0].Column)
	}

	// Scanning resumes after the error; FROM on the next line survives.
	var sawFrom bool
	for _, tok := range tokens {
		if tok.Type == TokenKeyword && tok.Value == "FROM" {
			sawFrom = true
		}
	}
	if !sawFrom {
		t.Error("expected tokenization to resume after unclosed string")
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"42", TokenInteger},
		{"0", TokenInteger},
		{"3.14", TokenFloat},
		{"10.", TokenFloat},
		{"1e5", TokenFloat},
		{"2E10", TokenFloat},
		{"1.5e-3", TokenFloat},
		{"7e+2", TokenFloat},
	}

	for _, tt := range tests {
		tokens, errs := Tokenize(tt.input)
		if len(errs) != 0 {
			t.Errorf("%q: unexpected errors %v", tt.input, errs)
			continue
		}
		if tokens[0].Type != tt.typ {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.typ, tokens[0].Type)
		}
		if tokens[0].Value != tt.input {
			t.Errorf("%q: expected literal text preserved, got %q", tt.input, tokens[0].Value)
		}
	}
}

func TestTokenizeMalformedNumbers(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"1.2.3", "multiple decimal points"},
		{"1e", "exponent requires digits"},
		{"2e+", "exponent requires digits"},
	}

	for _, tt := range tests {
		_, errs := Tokenize(tt.input)
		if len(errs) == 0 {
			t.Errorf("%q: expected error", tt.input)
			continue
		}
		if !strings.Contains(errs[0].Error(), tt.message) {
			t.Errorf("%q: expected message containing %q, got %q", tt.input, tt.message, errs[0].Error())
		}
	}
}

func TestTokenizeOperators(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"=", TokenOperator},
		{"==", TokenOperator},
		{"+", TokenOperator},
		{"*", TokenOperator},
		{"%", TokenOperator},
		{"||", TokenOperator},
		{"<<", TokenOperator},
		{">>", TokenOperator},
		{"<", TokenComparison},
		{">", TokenComparison},
		{"!", TokenComparison},
		{"<>", TokenComparison},
		{"!=", TokenComparison},
		{"<=", TokenComparison},
		{">=", TokenComparison},
	}

	for _, tt := range tests {
		tokens, errs := Tokenize(tt.input)
		if len(errs) != 0 {
			t.Errorf("%q: unexpected errors %v", tt.input, errs)
			continue
		}
		if tokens[0].Type != tt.typ || tokens[0].Value != tt.input {
			t.Errorf("%q: expected (%s, %q), got (%s, %q)",
				tt.input, tt.typ, tt.input, tokens[0].Type, tokens[0].Value)
		}
	}
}

func TestTokenizeGreedyOperatorPairs(t *testing.T) {
	// <= must win over < followed by =.
	tokens, _ := Tokenize("a<=b")
	if tokens[1].Type != TokenComparison || tokens[1].Value != "<=" {
		t.Errorf("expected (COMPARISON, <=), got (%s, %q)", tokens[1].Type, tokens[1].Value)
	}
}

func TestTokenizeQualifiedName(t *testing.T) {
	tokens, _ := Tokenize("t.col")
	want := []TokenType{TokenIdentifier, TokenDot, TokenIdentifier, TokenEOF}
	for i, typ := range want {
		if tokens[i].Type != typ {
			t.Errorf("token %d: expected %s, got %s", i, typ, tokens[i].Type)
		}
	}
}

func TestTokenizeInvalidCharacterRecovery(t *testing.T) {
	tokens, errs := Tokenize("SELECT @ FROM t")
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %d", len(errs))
	}
	if !strings.Contains(errs[0].Error(), "@") {
		t.Errorf("expected offending character in message, got %q", errs[0].Error())
	}

	// The bad character is skipped; everything else still tokenizes.
	var values []string
	for _, tok := range tokens {
		if tok.Type != TokenEOF {
			values = append(values, tok.Value)
		}
	}
	if got := strings.Join(values, " "); got != "SELECT FROM t" {
		t.Errorf("expected recovery to skip one character, got tokens %q", got)
	}
}

func TestNextTokenEOFIdempotent(t *testing.T) {
	lexer := NewLexer("a")
	if _, err := lexer.NextToken(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("unexpected error at EOF: %v", err)
		}
		if tok.Type != TokenEOF {
			t.Fatalf("call %d: expected EOF, got %s", i, tok.Type)
		}
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	input := "SELECT name, age FROM users WHERE age >= 21 ORDER BY name;"

	first, errs1 := Tokenize(input)
	second, errs2 := Tokenize(input)

	if len(errs1) != 0 || len(errs2) != 0 {
		t.Fatalf("unexpected errors: %v %v", errs1, errs2)
	}
	if len(first) != len(second) {
		t.Fatalf("runs disagree on token count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestKeywordSuggestion(t *testing.T) {
	kw, score, ok := SuggestKeyword("SELEC")
	if !ok {
		t.Fatal("expected a suggestion for SELEC")
	}
	if kw != "SELECT" {
		t.Errorf("expected SELECT, got %q", kw)
	}
	if score < suggestionThreshold {
		t.Errorf("score %f below threshold", score)
	}
}

func TestKeywordSuggestionExactMatchSilent(t *testing.T) {
	if _, _, ok := SuggestKeyword("SELECT"); ok {
		t.Error("exact keyword should produce no suggestion")
	}
}

func TestKeywordSuggestionFarIdentifierSilent(t *testing.T) {
	if kw, _, ok := SuggestKeyword("xyzzy_q"); ok {
		t.Errorf("unrelated identifier should produce no suggestion, got %q", kw)
	}
}

func TestLexerSuggestionsAreAdvisoryOnly(t *testing.T) {
	lexer := NewLexer("SELEC a FROM t")

	var tokens []Token
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("suggestion must not surface as error: %v", err)
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	// SELEC is still a plain identifier in the stream.
	if tokens[0].Type != TokenIdentifier || tokens[0].Value != "SELEC" {
		t.Errorf("expected (IDENTIFIER, SELEC), got (%s, %q)", tokens[0].Type, tokens[0].Value)
	}

	suggestions := lexer.Suggestions()
	if len(suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(suggestions))
	}
	if suggestions[0].Keyword != "SELECT" || suggestions[0].Line != 1 || suggestions[0].Column != 1 {
		t.Errorf("unexpected suggestion: %+v", suggestions[0])
	}
}

func TestLexemeSummary(t *testing.T) {
	tokens, _ := Tokenize("SELECT a, a, 'x', 1, 2.5 FROM users")

	summary := LexemeSummary(tokens)
	want := []string{"a", "'x'", "1", "2.5", "users"}

	if len(summary) != len(want) {
		t.Fatalf("expected %d distinct lexemes, got %d: %v", len(want), len(summary), summary)
	}
	for i, w := range want {
		if summary[i].Value != w {
			t.Errorf("lexeme %d: expected %q, got %q", i, w, summary[i].Value)
		}
	}
}
