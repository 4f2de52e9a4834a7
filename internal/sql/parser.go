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
Parser: Recursive Descent Parser for the SQL-like Language
==========================================================

Grammar coverage:

	statement      := select | insert | update | delete
	                | create | alter | drop
	create         := CREATE (TABLE | DATABASE | VIEW | INDEX) ...
	select         := SELECT [DISTINCT] selectList [fromClause]
	                  [whereClause] [groupBy] [having] [orderBy] [limit]
	condition      := orCond ; orCond := andCond (OR andCond)*
	andCond        := notCond (AND notCond)*
	expression     := additive ; additive := multiplicative (('+'|'-') ...)*

Error handling follows panic-mode recovery: each production returns an
error on the first expectation failure, the statement loop records it
and calls recover(), which skips the offending token and then scans
forward until it has consumed a ';', sees a statement-starting keyword,
or reaches EOF. Parsing then resumes with the next statement, so one
bad statement never hides errors in the ones that follow.
*/

package sql

import (
	stderrors "errors"
	"strings"

	serrors "sqlfront/internal/errors"
	"sqlfront/internal/logging"
)

var parserLog = logging.NewLogger("parser")

// errSync signals that a production failed and the statement loop
// should synchronize. The diagnostic itself is already recorded on
// the parser's error list when errSync is returned.
var errSync = stderrors.New("syntax error")

// statementKeywords are the keywords that can begin a statement.
// recover() stops in front of them so the next statement still parses.
var statementKeywords = map[string]bool{
	"CREATE": true, "ALTER": true, "DROP": true, "SELECT": true,
	"INSERT": true, "UPDATE": true, "DELETE": true, "WITH": true,
}

// aggregateNames are the reserved words accepted as function names in
// expressions (parsed into AggregateFunction nodes).
var aggregateNames = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
	"CAST": true, "COALESCE": true, "SUBSTR": true, "LENGTH": true,
	"UPPER": true, "LOWER": true, "ROUND": true, "FLOOR": true, "CEIL": true,
}

// Parser is a recursive descent parser over a token sequence produced
// by the lexer. The sequence must end with an EOF token; Tokenize
// guarantees that. A Parser is single-use.
type Parser struct {
	tokens []Token
	pos    int
	errors []*serrors.Error
}

// NewParser creates a parser for the given token sequence.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 {
		tokens = []Token{{Type: TokenEOF, Line: 1, Column: 1}}
	}
	return &Parser{tokens: tokens}
}

// Errors returns the syntax errors recorded so far, in source order.
func (p *Parser) Errors() []*serrors.Error {
	return p.errors
}

// current returns the token under the cursor. The cursor never moves
// past the trailing EOF token.
func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

// prev returns the most recently consumed token.
func (p *Parser) prev() Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

// peek looks one token ahead without consuming.
func (p *Parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

// advance moves to the next token, sticking at EOF.
func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// atEOF reports whether the cursor is on the EOF token.
func (p *Parser) atEOF() bool {
	return p.current().Type == TokenEOF
}

// match reports whether the current token's upper-cased value is one
// of the given values.
func (p *Parser) match(values ...string) bool {
	cur := strings.ToUpper(p.current().Value)
	for _, v := range values {
		if cur == strings.ToUpper(v) {
			return true
		}
	}
	return false
}

// matchType reports whether the current token's type is one of the
// given types.
func (p *Parser) matchType(types ...TokenType) bool {
	for _, t := range types {
		if p.current().Type == t {
			return true
		}
	}
	return false
}

// isDelim reports whether the current token is the given delimiter.
func (p *Parser) isDelim(value string) bool {
	tok := p.current()
	return tok.Type == TokenDelimiter && tok.Value == value
}

// found returns the display text for the current token in error
// messages.
func (p *Parser) found() string {
	if p.atEOF() {
		return "EOF"
	}
	return p.current().Value
}

// expect consumes a token of the given type (and, when value is
// non-empty, case-insensitive value). On mismatch it records an
// expectation error at the current token and returns errSync.
func (p *Parser) expect(typ TokenType, value string) (Token, error) {
	tok := p.current()
	want := value
	if want == "" {
		want = typ.String()
	}

	if tok.Type != typ || (value != "" && !strings.EqualFold(tok.Value, value)) {
		p.errors = append(p.errors, serrors.ExpectedFound(want, p.found(), tok.Line, tok.Column))
		return Token{}, errSync
	}

	p.advance()
	return tok, nil
}

// fail records a free-form syntax error at the current token and
// returns errSync.
func (p *Parser) fail(message string) error {
	tok := p.current()
	p.errors = append(p.errors, serrors.SyntaxError(message, tok.Line, tok.Column))
	return errSync
}

// recover scans forward to a statement boundary: it stops in front of
// a statement-starting keyword, or just past a consumed ';'. It may
// stand still when the error landed on a statement keyword; the
// statement loop forces a one-token skip in that case, so parsing
// cannot spin on one bad token.
func (p *Parser) recover() {
	for !p.atEOF() {
		tok := p.current()
		if tok.Type == TokenKeyword && statementKeywords[strings.ToUpper(tok.Value)] {
			return
		}
		p.advance()
		if tok.Type == TokenDelimiter && tok.Value == ";" {
			return
		}
	}
}

// terminal builds a Terminal node from a consumed token.
func terminal(tok Token) *Node {
	return NewNode(KindTerminal, tok.Value, tok.Line, tok.Column)
}

// Parse parses the whole token sequence into a single tree. One
// statement becomes the root itself; zero or several statements are
// wrapped in a StatementList at line 1, column 1. Syntax errors are
// collected via Errors(); a non-nil tree is returned even when
// statements failed.
func (p *Parser) Parse() *Node {
	if p.atEOF() {
		return NewNode(KindStatementList, "", 1, 1)
	}

	var statements []*Node
	for !p.atEOF() {
		start := p.pos
		stmt, err := p.parseStatement()
		if err != nil {
			p.recover()
			if p.pos == start {
				p.advance()
			}
			continue
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
		if p.isDelim(";") {
			p.advance()
		}
	}

	parserLog.Debug("parse complete", "statements", len(statements), "syntax_errors", len(p.errors))

	if len(statements) == 1 {
		return statements[0]
	}
	root := NewNode(KindStatementList, "", 1, 1)
	for _, stmt := range statements {
		root.AddChild(stmt)
	}
	return root
}

// parseStatement dispatches on the statement keyword. A lone ';'
// yields a nil statement without error.
func (p *Parser) parseStatement() (*Node, error) {
	if p.atEOF() {
		return nil, nil
	}
	if p.isDelim(";") {
		p.advance()
		return nil, nil
	}

	if !p.matchType(TokenKeyword) {
		tok := p.current()
		p.errors = append(p.errors, serrors.MalformedStatement(p.found(), tok.Line, tok.Column))
		return nil, errSync
	}

	switch strings.ToUpper(p.current().Value) {
	case "SELECT":
		return p.parseSelect()
	case "INSERT":
		return p.parseInsert()
	case "UPDATE":
		return p.parseUpdate()
	case "DELETE":
		return p.parseDelete()
	case "CREATE":
		return p.parseCreate()
	case "ALTER":
		return p.parseAlter()
	case "DROP":
		return p.parseDrop()
	default:
		return nil, p.fail("Unexpected statement keyword: '" + strings.ToUpper(p.current().Value) + "'")
	}
}

// ==================== DDL Parsing ====================

func (p *Parser) parseCreate() (*Node, error) {
	if _, err := p.expect(TokenKeyword, "CREATE"); err != nil {
		return nil, err
	}

	switch {
	case p.match("TABLE"):
		return p.parseCreateTable()
	case p.match("DATABASE"):
		return p.parseCreateDatabase()
	case p.match("VIEW"):
		return p.parseCreateView()
	case p.match("INDEX"):
		return p.parseCreateIndex()
	default:
		return nil, p.fail("Expected TABLE, DATABASE, VIEW, or INDEX after CREATE but found '" + p.found() + "'")
	}
}

func (p *Parser) parseCreateTable() (*Node, error) {
	node := NewNode(KindCreateTable, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "TABLE"); err != nil {
		return nil, err
	}

	nameTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(nameTok))

	if _, err := p.expect(TokenDelimiter, "("); err != nil {
		return nil, err
	}

	cols, err := p.parseColumnDefinitions()
	if err != nil {
		return nil, err
	}
	node.AddChild(cols)

	if _, err := p.expect(TokenDelimiter, ")"); err != nil {
		return nil, err
	}

	return node, nil
}

func (p *Parser) parseColumnDefinitions() (*Node, error) {
	node := NewNode(KindColumnList, "", p.current().Line, 0)

	for {
		colDef, err := p.parseColumnDefinition()
		if err != nil {
			return nil, err
		}
		node.AddChild(colDef)

		if p.isDelim(",") {
			p.advance()
			continue
		}
		break
	}

	return node, nil
}

func (p *Parser) parseColumnDefinition() (*Node, error) {
	node := NewNode(KindColumnDef, "", p.current().Line, 0)

	nameTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(nameTok))

	dataType, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	node.AddChild(dataType)

	for p.matchType(TokenKeyword) {
		if !p.match("PRIMARY", "FOREIGN", "UNIQUE", "NOT", "DEFAULT", "CHECK") {
			break
		}
		constraint, err := p.parseConstraint()
		if err != nil {
			return nil, err
		}
		node.AddChild(constraint)
	}

	return node, nil
}

func (p *Parser) parseDataType() (*Node, error) {
	node := NewNode(KindDataType, "", p.current().Line, 0)

	if !p.matchType(TokenKeyword, TokenIdentifier) {
		return nil, p.fail("Expected data type but found '" + p.found() + "'")
	}

	typeTok := p.current()
	node.AddChild(terminal(typeTok))
	p.advance()

	// Size specifiers like VARCHAR(50).
	if p.isDelim("(") {
		p.advance()
		sizeTok, err := p.expect(TokenInteger, "")
		if err != nil {
			return nil, err
		}
		node.AddChild(terminal(sizeTok))
		if _, err := p.expect(TokenDelimiter, ")"); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (p *Parser) parseConstraint() (*Node, error) {
	switch {
	case p.match("PRIMARY"):
		primaryTok := p.current()
		if _, err := p.expect(TokenKeyword, "PRIMARY"); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenKeyword, "KEY"); err != nil {
			return nil, err
		}
		return NewNode(KindPrimaryKey, "", primaryTok.Line, 0), nil

	case p.match("FOREIGN"):
		return p.parseForeignKey()

	case p.match("UNIQUE"):
		uniqueTok := p.current()
		if _, err := p.expect(TokenKeyword, "UNIQUE"); err != nil {
			return nil, err
		}
		return NewNode(KindUniqueConstraint, "", uniqueTok.Line, 0), nil

	case p.match("NOT"):
		notTok := p.current()
		if _, err := p.expect(TokenKeyword, "NOT"); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenKeyword, "NULL"); err != nil {
			return nil, err
		}
		return NewNode(KindConstraint, "NOT NULL", notTok.Line, 0), nil

	case p.match("DEFAULT"):
		if _, err := p.expect(TokenKeyword, "DEFAULT"); err != nil {
			return nil, err
		}
		node := NewNode(KindDefaultConstraint, "", p.current().Line, 0)
		value, err := p.parsePrimaryExpression()
		if err != nil {
			return nil, err
		}
		node.AddChild(value)
		return node, nil

	case p.match("CHECK"):
		checkTok := p.current()
		if _, err := p.expect(TokenKeyword, "CHECK"); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenDelimiter, "("); err != nil {
			return nil, err
		}
		node := NewNode(KindCheckConstraint, "", checkTok.Line, 0)
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		node.AddChild(cond)
		if _, err := p.expect(TokenDelimiter, ")"); err != nil {
			return nil, err
		}
		return node, nil

	default:
		return nil, p.fail("Expected constraint keyword but found '" + p.found() + "'")
	}
}

func (p *Parser) parseForeignKey() (*Node, error) {
	node := NewNode(KindForeignKey, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "FOREIGN"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenKeyword, "KEY"); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenDelimiter, "("); err != nil {
		return nil, err
	}
	cols, err := p.parseColumnList()
	if err != nil {
		return nil, err
	}
	node.AddChild(cols)
	if _, err := p.expect(TokenDelimiter, ")"); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenKeyword, "REFERENCES"); err != nil {
		return nil, err
	}

	tableTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(tableTok))

	if _, err := p.expect(TokenDelimiter, "("); err != nil {
		return nil, err
	}
	refCols, err := p.parseColumnList()
	if err != nil {
		return nil, err
	}
	node.AddChild(refCols)
	if _, err := p.expect(TokenDelimiter, ")"); err != nil {
		return nil, err
	}

	return node, nil
}

func (p *Parser) parseCreateDatabase() (*Node, error) {
	node := NewNode(KindCreateDatabase, "", p.current().Line, 0)
	if _, err := p.expect(TokenKeyword, "DATABASE"); err != nil {
		return nil, err
	}

	nameTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(nameTok))

	return node, nil
}

func (p *Parser) parseCreateView() (*Node, error) {
	node := NewNode(KindCreateView, "", p.current().Line, 0)
	if _, err := p.expect(TokenKeyword, "VIEW"); err != nil {
		return nil, err
	}

	nameTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(nameTok))

	if _, err := p.expect(TokenKeyword, "AS"); err != nil {
		return nil, err
	}

	sel, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	node.AddChild(sel)

	return node, nil
}

func (p *Parser) parseCreateIndex() (*Node, error) {
	node := NewNode(KindCreateIndex, "", p.current().Line, 0)
	if _, err := p.expect(TokenKeyword, "INDEX"); err != nil {
		return nil, err
	}

	nameTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(nameTok))

	if _, err := p.expect(TokenKeyword, "ON"); err != nil {
		return nil, err
	}

	tableTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(tableTok))

	if _, err := p.expect(TokenDelimiter, "("); err != nil {
		return nil, err
	}
	cols, err := p.parseColumnList()
	if err != nil {
		return nil, err
	}
	node.AddChild(cols)
	if _, err := p.expect(TokenDelimiter, ")"); err != nil {
		return nil, err
	}

	return node, nil
}

func (p *Parser) parseAlter() (*Node, error) {
	node := NewNode(KindAlterTable, "", p.current().Line, 0)
	if _, err := p.expect(TokenKeyword, "ALTER"); err != nil {
		return nil, err
	}

	if !p.match("TABLE") {
		return nil, p.fail("Expected TABLE after ALTER but found '" + p.found() + "'")
	}
	if _, err := p.expect(TokenKeyword, "TABLE"); err != nil {
		return nil, err
	}

	tableTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(tableTok))

	switch {
	case p.match("ADD"):
		if _, err := p.expect(TokenKeyword, "ADD"); err != nil {
			return nil, err
		}
		colDef, err := p.parseColumnDefinition()
		if err != nil {
			return nil, err
		}
		node.AddChild(colDef)

	case p.match("DROP"):
		if _, err := p.expect(TokenKeyword, "DROP"); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenKeyword, "COLUMN"); err != nil {
			return nil, err
		}
		colTok, err := p.expect(TokenIdentifier, "")
		if err != nil {
			return nil, err
		}
		node.AddChild(terminal(colTok))

	default:
		return nil, p.fail("Expected ADD or DROP after ALTER TABLE")
	}

	return node, nil
}

func (p *Parser) parseDrop() (*Node, error) {
	dropTok := p.current()
	if _, err := p.expect(TokenKeyword, "DROP"); err != nil {
		return nil, err
	}

	var node *Node
	switch {
	case p.match("TABLE"):
		node = NewNode(KindDropTable, "", dropTok.Line, 0)
		if _, err := p.expect(TokenKeyword, "TABLE"); err != nil {
			return nil, err
		}
	case p.match("DATABASE"):
		node = NewNode(KindDropDatabase, "", dropTok.Line, 0)
		if _, err := p.expect(TokenKeyword, "DATABASE"); err != nil {
			return nil, err
		}
	case p.match("VIEW"):
		node = NewNode(KindDropView, "", dropTok.Line, 0)
		if _, err := p.expect(TokenKeyword, "VIEW"); err != nil {
			return nil, err
		}
	case p.match("INDEX"):
		node = NewNode(KindDropIndex, "", dropTok.Line, 0)
		if _, err := p.expect(TokenKeyword, "INDEX"); err != nil {
			return nil, err
		}
	default:
		return nil, p.fail("Expected TABLE, DATABASE, VIEW, or INDEX after DROP")
	}

	nameTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(nameTok))

	return node, nil
}

// ==================== DML Parsing ====================

func (p *Parser) parseSelect() (*Node, error) {
	node := NewNode(KindSelect, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "SELECT"); err != nil {
		return nil, err
	}

	if p.match("DISTINCT") {
		distinctTok := p.current()
		if _, err := p.expect(TokenKeyword, "DISTINCT"); err != nil {
			return nil, err
		}
		node.AddChild(NewNode(KindTerminal, "DISTINCT", distinctTok.Line, 0))
	}

	selectList, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	node.AddChild(selectList)

	if p.match("FROM") {
		from, err := p.parseFromClause()
		if err != nil {
			return nil, err
		}
		node.AddChild(from)
	}

	if p.match("WHERE") {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		node.AddChild(where)
	}

	if p.match("GROUP") {
		groupBy, err := p.parseGroupByClause()
		if err != nil {
			return nil, err
		}
		node.AddChild(groupBy)
	}

	if p.match("HAVING") {
		having, err := p.parseHavingClause()
		if err != nil {
			return nil, err
		}
		node.AddChild(having)
	}

	if p.match("ORDER") {
		orderBy, err := p.parseOrderByClause()
		if err != nil {
			return nil, err
		}
		node.AddChild(orderBy)
	}

	if p.match("LIMIT") {
		limit, err := p.parseLimitClause()
		if err != nil {
			return nil, err
		}
		node.AddChild(limit)
	}

	return node, nil
}

// selectTerminators are the values that end an implicit-alias scan in
// a select list or table reference.
func (p *Parser) implicitAliasOK(stop ...string) bool {
	if p.current().Type != TokenIdentifier {
		return false
	}
	return !p.match(stop...)
}

func (p *Parser) parseSelectList() (*Node, error) {
	node := NewNode(KindSelectList, "", p.current().Line, 0)

	// SELECT *
	if p.current().Type == TokenOperator && p.current().Value == "*" {
		starTok := p.current()
		p.advance()
		node.AddChild(NewNode(KindTerminal, "*", starTok.Line, 0))
		return node, nil
	}

	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		switch {
		case p.match("AS"):
			p.advance()
			aliasTok, err := p.expect(TokenIdentifier, "")
			if err != nil {
				return nil, err
			}
			item := NewNode(KindColumn, "", expr.Line, 0)
			item.AddChild(expr)
			item.AddChild(terminal(aliasTok))
			node.AddChild(item)

		case p.implicitAliasOK("FROM", "WHERE", "GROUP", "HAVING", "ORDER", "LIMIT"):
			aliasTok, err := p.expect(TokenIdentifier, "")
			if err != nil {
				return nil, err
			}
			item := NewNode(KindColumn, "", expr.Line, 0)
			item.AddChild(expr)
			item.AddChild(terminal(aliasTok))
			node.AddChild(item)

		default:
			node.AddChild(expr)
		}

		if p.isDelim(",") {
			p.advance()
			continue
		}
		break
	}

	return node, nil
}

func (p *Parser) parseFromClause() (*Node, error) {
	node := NewNode(KindFromClause, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "FROM"); err != nil {
		return nil, err
	}

	tableRef, err := p.parseTableReference()
	if err != nil {
		return nil, err
	}
	node.AddChild(tableRef)

	for p.match("JOIN", "INNER", "LEFT", "RIGHT", "FULL", "CROSS") {
		join, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		node.AddChild(join)
	}

	return node, nil
}

func (p *Parser) parseTableReference() (*Node, error) {
	tableTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node := NewNode(KindTableName, tableTok.Value, tableTok.Line, tableTok.Column)

	switch {
	case p.match("AS"):
		p.advance()
		aliasTok, err := p.expect(TokenIdentifier, "")
		if err != nil {
			return nil, err
		}
		node.AddChild(terminal(aliasTok))

	case p.implicitAliasOK("JOIN", "INNER", "LEFT", "RIGHT", "FULL", "CROSS",
		"WHERE", "GROUP", "HAVING", "ORDER", "LIMIT"):
		aliasTok, err := p.expect(TokenIdentifier, "")
		if err != nil {
			return nil, err
		}
		node.AddChild(terminal(aliasTok))
	}

	return node, nil
}

func (p *Parser) parseJoin() (*Node, error) {
	node := NewNode(KindJoin, "", p.current().Line, 0)

	joinType := "INNER"
	switch {
	case p.match("LEFT"):
		if _, err := p.expect(TokenKeyword, "LEFT"); err != nil {
			return nil, err
		}
		joinType = "LEFT"
		if p.match("OUTER") {
			if _, err := p.expect(TokenKeyword, "OUTER"); err != nil {
				return nil, err
			}
		}
	case p.match("RIGHT"):
		if _, err := p.expect(TokenKeyword, "RIGHT"); err != nil {
			return nil, err
		}
		joinType = "RIGHT"
		if p.match("OUTER") {
			if _, err := p.expect(TokenKeyword, "OUTER"); err != nil {
				return nil, err
			}
		}
	case p.match("FULL"):
		if _, err := p.expect(TokenKeyword, "FULL"); err != nil {
			return nil, err
		}
		joinType = "FULL"
		if p.match("OUTER") {
			if _, err := p.expect(TokenKeyword, "OUTER"); err != nil {
				return nil, err
			}
		}
	case p.match("CROSS"):
		if _, err := p.expect(TokenKeyword, "CROSS"); err != nil {
			return nil, err
		}
		joinType = "CROSS"
	case p.match("INNER"):
		if _, err := p.expect(TokenKeyword, "INNER"); err != nil {
			return nil, err
		}
	}

	node.AddChild(NewNode(KindTerminal, joinType, p.prev().Line, 0))

	if _, err := p.expect(TokenKeyword, "JOIN"); err != nil {
		return nil, err
	}

	tableRef, err := p.parseTableReference()
	if err != nil {
		return nil, err
	}
	node.AddChild(tableRef)

	if p.match("ON") {
		if _, err := p.expect(TokenKeyword, "ON"); err != nil {
			return nil, err
		}
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		node.AddChild(cond)
	}

	return node, nil
}

func (p *Parser) parseWhereClause() (*Node, error) {
	node := NewNode(KindWhereClause, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "WHERE"); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	node.AddChild(cond)

	return node, nil
}

func (p *Parser) parseGroupByClause() (*Node, error) {
	node := NewNode(KindGroupByClause, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "GROUP"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenKeyword, "BY"); err != nil {
		return nil, err
	}

	cols, err := p.parseColumnList()
	if err != nil {
		return nil, err
	}
	node.AddChild(cols)

	return node, nil
}

func (p *Parser) parseHavingClause() (*Node, error) {
	node := NewNode(KindHavingClause, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "HAVING"); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	node.AddChild(cond)

	return node, nil
}

func (p *Parser) parseOrderByClause() (*Node, error) {
	node := NewNode(KindOrderByClause, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "ORDER"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenKeyword, "BY"); err != nil {
		return nil, err
	}

	for {
		item, err := p.parseSortItem()
		if err != nil {
			return nil, err
		}
		node.AddChild(item)

		if p.isDelim(",") {
			p.advance()
			continue
		}
		break
	}

	return node, nil
}

func (p *Parser) parseSortItem() (*Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	node := NewNode(KindSortItem, "", expr.Line, 0)
	node.AddChild(expr)

	if p.match("ASC") {
		ascTok := p.current()
		p.advance()
		node.AddChild(NewNode(KindTerminal, "ASC", ascTok.Line, 0))
	} else if p.match("DESC") {
		descTok := p.current()
		p.advance()
		node.AddChild(NewNode(KindTerminal, "DESC", descTok.Line, 0))
	}

	return node, nil
}

func (p *Parser) parseLimitClause() (*Node, error) {
	node := NewNode(KindLimitClause, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "LIMIT"); err != nil {
		return nil, err
	}

	limitTok, err := p.expect(TokenInteger, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(limitTok))

	return node, nil
}

func (p *Parser) parseInsert() (*Node, error) {
	node := NewNode(KindInsert, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "INSERT"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenKeyword, "INTO"); err != nil {
		return nil, err
	}

	tableTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(tableTok))

	// Optional column list.
	if p.isDelim("(") {
		p.advance()
		colList := NewNode(KindColumnList, "", p.current().Line, 0)

		for {
			colTok, err := p.expect(TokenIdentifier, "")
			if err != nil {
				return nil, err
			}
			colList.AddChild(NewNode(KindColumn, colTok.Value, colTok.Line, colTok.Column))

			if p.isDelim(",") {
				p.advance()
				continue
			}
			break
		}

		node.AddChild(colList)
		if _, err := p.expect(TokenDelimiter, ")"); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenKeyword, "VALUES"); err != nil {
		return nil, err
	}

	values, err := p.parseValueList()
	if err != nil {
		return nil, err
	}
	node.AddChild(values)

	return node, nil
}

func (p *Parser) parseUpdate() (*Node, error) {
	node := NewNode(KindUpdate, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "UPDATE"); err != nil {
		return nil, err
	}

	tableTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(tableTok))

	if _, err := p.expect(TokenKeyword, "SET"); err != nil {
		return nil, err
	}

	for {
		colTok, err := p.expect(TokenIdentifier, "")
		if err != nil {
			return nil, err
		}
		colNode := NewNode(KindColumn, colTok.Value, colTok.Line, colTok.Column)

		if _, err := p.expect(TokenOperator, "="); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		colNode.AddChild(expr)
		node.AddChild(colNode)

		if p.isDelim(",") {
			p.advance()
			continue
		}
		break
	}

	if p.match("WHERE") {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		node.AddChild(where)
	}

	return node, nil
}

func (p *Parser) parseDelete() (*Node, error) {
	node := NewNode(KindDelete, "", p.current().Line, 0)

	if _, err := p.expect(TokenKeyword, "DELETE"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenKeyword, "FROM"); err != nil {
		return nil, err
	}

	tableTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}
	node.AddChild(terminal(tableTok))

	if p.match("WHERE") {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		node.AddChild(where)
	}

	return node, nil
}

// ==================== Condition Parsing ====================

// parseCondition parses a boolean condition. Precedence, loosest
// first: OR, AND, NOT, then primary conditions.
func (p *Parser) parseCondition() (*Node, error) {
	return p.parseOrCondition()
}

func (p *Parser) parseOrCondition() (*Node, error) {
	left, err := p.parseAndCondition()
	if err != nil {
		return nil, err
	}

	for p.match("OR") {
		orTok := p.current()
		if _, err := p.expect(TokenKeyword, "OR"); err != nil {
			return nil, err
		}
		right, err := p.parseAndCondition()
		if err != nil {
			return nil, err
		}
		orNode := NewNode(KindLogicalOr, "", orTok.Line, 0)
		orNode.AddChild(left)
		orNode.AddChild(right)
		left = orNode
	}

	return left, nil
}

func (p *Parser) parseAndCondition() (*Node, error) {
	left, err := p.parseNotCondition()
	if err != nil {
		return nil, err
	}

	for p.match("AND") {
		andTok := p.current()
		if _, err := p.expect(TokenKeyword, "AND"); err != nil {
			return nil, err
		}
		right, err := p.parseNotCondition()
		if err != nil {
			return nil, err
		}
		andNode := NewNode(KindLogicalAnd, "", andTok.Line, 0)
		andNode.AddChild(left)
		andNode.AddChild(right)
		left = andNode
	}

	return left, nil
}

func (p *Parser) parseNotCondition() (*Node, error) {
	if p.match("NOT") {
		notTok := p.current()
		if _, err := p.expect(TokenKeyword, "NOT"); err != nil {
			return nil, err
		}
		inner, err := p.parseNotCondition()
		if err != nil {
			return nil, err
		}
		node := NewNode(KindLogicalNot, "", notTok.Line, 0)
		node.AddChild(inner)
		return node, nil
	}

	return p.parsePrimaryCondition()
}

func (p *Parser) parsePrimaryCondition() (*Node, error) {
	if p.isDelim("(") {
		p.advance()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenDelimiter, ")"); err != nil {
			return nil, err
		}
		return cond, nil
	}

	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	switch {
	case p.match("BETWEEN"):
		return p.parseBetween(left)
	case p.match("IN"):
		return p.parseIn(left)
	case p.match("LIKE"):
		return p.parseLike(left)
	case p.match("IS"):
		return p.parseIsNull(left)
	case p.matchType(TokenComparison, TokenOperator):
		return p.parseComparison(left)
	default:
		// Bare expression, e.g. a boolean column.
		return left, nil
	}
}

func (p *Parser) parseComparison(left *Node) (*Node, error) {
	node := NewNode(KindComparison, "", left.Line, 0)
	node.AddChild(left)

	opTok := p.current()
	if p.matchType(TokenComparison) {
		p.advance()
	} else if p.matchType(TokenOperator) && opTok.Value == "=" {
		p.advance()
	} else {
		return nil, p.fail("Expected comparison operator")
	}

	node.AddChild(terminal(opTok))

	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	node.AddChild(right)

	return node, nil
}

func (p *Parser) parseBetween(expr *Node) (*Node, error) {
	node := NewNode(KindBetween, "", p.current().Line, 0)
	node.AddChild(expr)

	if _, err := p.expect(TokenKeyword, "BETWEEN"); err != nil {
		return nil, err
	}
	low, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	node.AddChild(low)

	if _, err := p.expect(TokenKeyword, "AND"); err != nil {
		return nil, err
	}
	high, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	node.AddChild(high)

	return node, nil
}

func (p *Parser) parseIn(expr *Node) (*Node, error) {
	node := NewNode(KindInClause, "", p.current().Line, 0)
	node.AddChild(expr)

	if _, err := p.expect(TokenKeyword, "IN"); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenDelimiter, "("); err != nil {
		return nil, err
	}

	for {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		node.AddChild(value)

		if p.isDelim(",") {
			p.advance()
			continue
		}
		break
	}

	if _, err := p.expect(TokenDelimiter, ")"); err != nil {
		return nil, err
	}

	return node, nil
}

func (p *Parser) parseLike(expr *Node) (*Node, error) {
	node := NewNode(KindLikeClause, "", p.current().Line, 0)
	node.AddChild(expr)

	if _, err := p.expect(TokenKeyword, "LIKE"); err != nil {
		return nil, err
	}
	pattern, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	node.AddChild(pattern)

	return node, nil
}

func (p *Parser) parseIsNull(expr *Node) (*Node, error) {
	node := NewNode(KindIsNull, "", p.current().Line, 0)
	node.AddChild(expr)

	if _, err := p.expect(TokenKeyword, "IS"); err != nil {
		return nil, err
	}

	if p.match("NOT") {
		if _, err := p.expect(TokenKeyword, "NOT"); err != nil {
			return nil, err
		}
		node.AddChild(NewNode(KindTerminal, "NOT NULL", p.prev().Line, 0))
	} else {
		node.AddChild(NewNode(KindTerminal, "NULL", p.current().Line, 0))
	}

	if _, err := p.expect(TokenKeyword, "NULL"); err != nil {
		return nil, err
	}

	return node, nil
}

// ==================== Expression Parsing ====================

// parseExpression parses an arithmetic expression. Additive operators
// bind loosest, then multiplicative, then unary sign.
func (p *Parser) parseExpression() (*Node, error) {
	return p.parseAdditive()
}

func (p *Parser) parseAdditive() (*Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.matchType(TokenOperator) && (p.current().Value == "+" || p.current().Value == "-") {
		opTok := p.current()
		p.advance()

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		node := NewNode(KindExpression, "", opTok.Line, 0)
		node.AddChild(left)
		node.AddChild(terminal(opTok))
		node.AddChild(right)
		left = node
	}

	return left, nil
}

func (p *Parser) parseMultiplicative() (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.matchType(TokenOperator) &&
		(p.current().Value == "*" || p.current().Value == "/" || p.current().Value == "%") {
		opTok := p.current()
		p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		node := NewNode(KindExpression, "", opTok.Line, 0)
		node.AddChild(left)
		node.AddChild(terminal(opTok))
		node.AddChild(right)
		left = node
	}

	return left, nil
}

func (p *Parser) parseUnary() (*Node, error) {
	if p.matchType(TokenOperator) && (p.current().Value == "+" || p.current().Value == "-") {
		opTok := p.current()
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		node := NewNode(KindUnary, "", opTok.Line, 0)
		node.AddChild(terminal(opTok))
		node.AddChild(operand)
		return node, nil
	}

	return p.parsePrimaryExpression()
}

func (p *Parser) parsePrimaryExpression() (*Node, error) {
	// Parenthesized expression or scalar subquery.
	if p.isDelim("(") {
		if next := p.peek(); next.Type == TokenKeyword && strings.EqualFold(next.Value, "SELECT") {
			p.advance()
			sub, err := p.parseSelect()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenDelimiter, ")"); err != nil {
				return nil, err
			}
			return sub, nil
		}

		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenDelimiter, ")"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	// Built-in function call.
	if p.current().Type == TokenKeyword && aggregateNames[strings.ToUpper(p.current().Value)] {
		return p.parseAggregateCall()
	}

	// Identifier: column, qualified name, or user function call.
	if p.current().Type == TokenIdentifier {
		return p.parseColumnOrFunction()
	}

	// Literals.
	if p.matchType(TokenInteger, TokenFloat, TokenString) {
		tok := p.current()
		p.advance()
		return NewNode(KindLiteral, tok.Value, tok.Line, tok.Column), nil
	}

	if p.match("NULL") {
		tok := p.current()
		p.advance()
		return NewNode(KindLiteral, "NULL", tok.Line, tok.Column), nil
	}

	return nil, p.fail("Expected expression but found '" + p.found() + "'")
}

func (p *Parser) parseColumnOrFunction() (*Node, error) {
	colTok, err := p.expect(TokenIdentifier, "")
	if err != nil {
		return nil, err
	}

	// Qualified name: table.column or table.*
	if p.current().Type == TokenDot {
		p.advance()
		node := NewNode(KindQualifiedName, "", colTok.Line, 0)
		node.AddChild(terminal(colTok))

		if p.current().Type == TokenOperator && p.current().Value == "*" {
			starTok := p.current()
			p.advance()
			node.AddChild(NewNode(KindTerminal, "*", starTok.Line, 0))
			return node, nil
		}

		partTok, err := p.expect(TokenIdentifier, "")
		if err != nil {
			return nil, err
		}
		node.AddChild(terminal(partTok))
		return node, nil
	}

	// User-defined function call.
	if p.isDelim("(") {
		p.advance()
		node := NewNode(KindFunctionCall, colTok.Value, colTok.Line, colTok.Column)

		if !p.isDelim(")") {
			for {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				node.AddChild(arg)

				if p.isDelim(",") {
					p.advance()
					continue
				}
				break
			}
		}

		if _, err := p.expect(TokenDelimiter, ")"); err != nil {
			return nil, err
		}
		return node, nil
	}

	return NewNode(KindColumn, colTok.Value, colTok.Line, colTok.Column), nil
}

func (p *Parser) parseAggregateCall() (*Node, error) {
	funcTok := p.current()
	p.advance()

	node := NewNode(KindAggregateFunction, funcTok.Value, funcTok.Line, funcTok.Column)

	if _, err := p.expect(TokenDelimiter, "("); err != nil {
		return nil, err
	}

	if strings.EqualFold(funcTok.Value, "COUNT") {
		// COUNT(*), COUNT(DISTINCT col), COUNT(expr)
		if p.current().Type == TokenOperator && p.current().Value == "*" {
			starTok := p.current()
			p.advance()
			node.AddChild(NewNode(KindTerminal, "*", starTok.Line, 0))
		} else {
			if p.match("DISTINCT") {
				distinctTok := p.current()
				p.advance()
				node.AddChild(NewNode(KindTerminal, "DISTINCT", distinctTok.Line, 0))
			}
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			node.AddChild(arg)
		}
	} else if !p.isDelim(")") {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			node.AddChild(arg)

			if p.isDelim(",") {
				p.advance()
				continue
			}
			break
		}
	}

	if _, err := p.expect(TokenDelimiter, ")"); err != nil {
		return nil, err
	}
	return node, nil
}

// ==================== Shared List Parsing ====================

func (p *Parser) parseColumnList() (*Node, error) {
	node := NewNode(KindColumnList, "", p.current().Line, 0)

	for {
		colTok, err := p.expect(TokenIdentifier, "")
		if err != nil {
			return nil, err
		}
		node.AddChild(NewNode(KindColumn, colTok.Value, colTok.Line, colTok.Column))

		if p.isDelim(",") {
			p.advance()
			continue
		}
		break
	}

	return node, nil
}

// parseValueList parses the VALUES clause of an INSERT. Values from
// every parenthesized row group land in one flat ValueList.
func (p *Parser) parseValueList() (*Node, error) {
	node := NewNode(KindValueList, "", p.current().Line, 0)

	for {
		if _, err := p.expect(TokenDelimiter, "("); err != nil {
			return nil, err
		}

		for {
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			node.AddChild(value)

			if p.isDelim(",") {
				p.advance()
				continue
			}
			break
		}

		if _, err := p.expect(TokenDelimiter, ")"); err != nil {
			return nil, err
		}

		if p.isDelim(",") {
			p.advance()
			continue
		}
		break
	}

	return node, nil
}

// ParseSQL runs the full front end over a source text: tokenize,
// parse, and return the parse tree plus the lexical and syntax errors
// found along the way. The tree is never nil; with unusable input it
// degenerates to an empty StatementList.
func ParseSQL(text string) (*Node, []*serrors.Error, []*serrors.Error) {
	tokens, lexErrs := Tokenize(text)

	parser := NewParser(tokens)
	tree := parser.Parse()

	return tree, lexErrs, parser.Errors()
}
