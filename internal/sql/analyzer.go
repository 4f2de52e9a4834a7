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
SemanticAnalyzer: Tree-Walking Verification over the Symbol Table
=================================================================

The analyzer walks a parse tree and verifies:

  - CREATE TABLE registers tables, rejecting duplicates and flagging
    unrecognized data types (the table is still registered).
  - DROP TABLE removes tables, flagging unknown ones.
  - INSERT targets an existing table, its column list resolves, and
    the value count matches the target column count, with per-value
    type checks against the declared column types.
  - SELECT/UPDATE/DELETE build a per-query alias scope from the FROM
    clause (or target table) and resolve column and alias references
    against it.
  - Comparisons infer operand types and flag incompatible families.

Semantic errors never stop the walk: every statement is checked and
all findings are reported together. The symbol table persists across
Analyze calls on one analyzer, so DDL in an earlier batch is visible
to DML in a later one.
*/

package sql

import (
	"strconv"
	"strings"

	serrors "sqlfront/internal/errors"
	"sqlfront/internal/logging"
)

var analyzerLog = logging.NewLogger("semantic")

// numericTypes and textTypes define the type families considered
// mutually compatible in comparisons and assignments.
var numericTypes = map[string]bool{
	"INT": true, "INTEGER": true, "FLOAT": true,
	"DOUBLE": true, "DECIMAL": true, "NUMBER": true,
}

var textTypes = map[string]bool{
	"VARCHAR": true, "TEXT": true, "CHAR": true, "STRING": true,
}

// AreTypesCompatible reports whether two type names may be compared
// or assigned to one another. Members of the numeric family are
// mutually compatible, as are members of the text family. Identical
// names (case-insensitive) always match, and BOOLEAN is loosely
// compatible with both families ('true', 1, 0).
func AreTypesCompatible(type1, type2 string) bool {
	t1 := strings.ToUpper(type1)
	t2 := strings.ToUpper(type2)

	if numericTypes[t1] && numericTypes[t2] {
		return true
	}
	if textTypes[t1] && textTypes[t2] {
		return true
	}
	if t1 == t2 {
		return true
	}

	if t1 == "BOOLEAN" && (textTypes[t2] || numericTypes[t2]) {
		return true
	}
	if t2 == "BOOLEAN" && (textTypes[t1] || numericTypes[t1]) {
		return true
	}

	return false
}

// SemanticAnalyzer verifies parse trees against a symbol table. The
// symbol table accumulates DDL across calls; the error list resets on
// every Analyze.
type SemanticAnalyzer struct {
	symbols *SymbolTable
	errors  []string

	// scope maps upper-cased alias -> upper-cased table name for the
	// query currently being checked.
	scope map[string]string
}

// NewSemanticAnalyzer creates an analyzer with an empty symbol table.
func NewSemanticAnalyzer() *SemanticAnalyzer {
	return &SemanticAnalyzer{
		symbols: NewSymbolTable(),
		scope:   make(map[string]string),
	}
}

// SymbolTable exposes the analyzer's accumulated symbol table.
func (a *SemanticAnalyzer) SymbolTable() *SymbolTable {
	return a.symbols
}

// Analyze walks the tree and returns whether it is semantically
// clean, the formatted error messages in discovery order, and the
// symbol table after applying the tree's DDL.
func (a *SemanticAnalyzer) Analyze(root *Node) (bool, []string, *SymbolTable) {
	a.errors = nil
	a.scope = make(map[string]string)

	if root != nil {
		a.visit(root)
	}

	analyzerLog.Debug("analysis complete", "tables", a.symbols.Len(), "errors", len(a.errors))

	return len(a.errors) == 0, a.errors, a.symbols
}

// errorf records a formatted semantic error at a source position.
func (a *SemanticAnalyzer) errorf(code serrors.Code, line, column int, format string, args ...interface{}) {
	a.errors = append(a.errors, serrors.Semanticf(code, line, column, format, args...).Error())
}

// visit dispatches on the node kind. Kinds without a dedicated
// handler fall through to a plain child walk, so new grammar shapes
// are traversed without analyzer changes.
func (a *SemanticAnalyzer) visit(node *Node) {
	if node == nil {
		return
	}

	switch node.Kind {
	case KindCreateTable:
		a.visitCreateTable(node)
	case KindDropTable:
		a.visitDropTable(node)
	case KindInsert:
		a.visitInsert(node)
	case KindSelect:
		a.visitSelect(node)
	case KindUpdate:
		a.visitUpdate(node)
	case KindDelete:
		a.visitDelete(node)
	case KindColumn:
		a.visitColumn(node)
	case KindQualifiedName:
		a.visitQualifiedName(node)
	case KindComparison:
		a.visitComparison(node)
	default:
		a.visitChildren(node)
	}
}

func (a *SemanticAnalyzer) visitChildren(node *Node) {
	for _, child := range node.Children {
		a.visit(child)
	}
}

// ==================== DDL ====================

// visitCreateTable registers the table. Children: table name
// terminal, then the column definition list.
func (a *SemanticAnalyzer) visitCreateTable(node *Node) {
	if len(node.Children) < 2 {
		return
	}

	tableName := node.Children[0].Value
	if _, exists := a.symbols.Table(tableName); exists {
		a.errorf(serrors.CodeTableExists, node.Line, node.Column,
			"Table '%s' already exists", tableName)
		return
	}

	var columns []ColumnInfo
	for _, colDef := range node.Children[1].Children {
		if colDef.Kind != KindColumnDef || len(colDef.Children) < 2 {
			continue
		}

		colName := colDef.Children[0].Value
		typeNode := colDef.Children[1]
		dataType := ""
		if len(typeNode.Children) > 0 {
			dataType = typeNode.Children[0].Value
		}

		if !validDataTypes[strings.ToUpper(dataType)] {
			a.errorf(serrors.CodeInvalidDataType, typeNode.Line, typeNode.Column,
				"Invalid data type '%s'", dataType)
		}

		var constraints []string
		for _, constraint := range colDef.Children[2:] {
			switch constraint.Kind {
			case KindPrimaryKey:
				constraints = append(constraints, "PRIMARY KEY")
			case KindForeignKey:
				constraints = append(constraints, "FOREIGN KEY")
			default:
				if constraint.Value != "" {
					constraints = append(constraints, constraint.Value)
				} else {
					constraints = append(constraints, strings.ToUpper(constraint.Kind.String()))
				}
			}
		}

		columns = append(columns, ColumnInfo{Name: colName, DataType: dataType, Constraints: constraints})
	}

	if err := a.symbols.CreateTable(tableName, columns); err != nil {
		a.errorf(serrors.CodeTableExists, node.Line, node.Column, "%s", err.Error())
	}
}

func (a *SemanticAnalyzer) visitDropTable(node *Node) {
	if len(node.Children) == 0 {
		return
	}

	tableName := node.Children[0].Value
	if _, exists := a.symbols.Table(tableName); !exists {
		a.errorf(serrors.CodeTableNotFound, node.Line, node.Column,
			"Cannot drop table '%s': Table does not exist", tableName)
		return
	}
	a.symbols.DropTable(tableName)
}

// ==================== DML ====================

// visitInsert checks the target table, resolves an explicit column
// list, and verifies value arity and per-value type compatibility.
func (a *SemanticAnalyzer) visitInsert(node *Node) {
	if len(node.Children) < 2 {
		return
	}

	tableName := node.Children[0].Value
	tableInfo, exists := a.symbols.Table(tableName)
	if !exists {
		a.errorf(serrors.CodeTableNotFound, node.Line, node.Column,
			"Table '%s' does not exist", tableName)
		return
	}

	valueIdx := 1
	targetColumns := tableInfo.Columns()

	if node.Children[1].Kind == KindColumnList {
		targetColumns = nil
		for _, colNode := range node.Children[1].Children {
			colInfo, ok := a.symbols.Column(tableName, colNode.Value)
			if !ok {
				a.errorf(serrors.CodeColumnNotFound, colNode.Line, colNode.Column,
					"Column '%s' does not exist in table '%s'", colNode.Value, tableName)
				return
			}
			targetColumns = append(targetColumns, colInfo)
		}
		valueIdx = 2
	}

	if valueIdx >= len(node.Children) {
		return
	}
	valueList := node.Children[valueIdx]
	values := valueList.Children

	if len(values) != len(targetColumns) {
		a.errorf(serrors.CodeArityMismatch, valueList.Line, valueList.Column,
			"Column count mismatch: Expected %d values but found %d",
			len(targetColumns), len(values))
		return
	}

	for i, valueNode := range values {
		a.checkTypeCompatibility(valueNode, targetColumns[i].DataType,
			"Column '"+targetColumns[i].Name+"'")
	}
}

// visitSelect builds the query scope from the FROM clause, walks the
// whole statement inside it, then clears the scope.
func (a *SemanticAnalyzer) visitSelect(node *Node) {
	a.scope = make(map[string]string)

	if fromNode := findChild(node, KindFromClause); fromNode != nil {
		for _, child := range fromNode.Children {
			switch child.Kind {
			case KindTableName:
				a.bindTableRef(child)
			case KindJoin:
				// Join children: join type terminal, table reference,
				// optional ON condition.
				if len(child.Children) > 1 {
					a.bindTableRef(child.Children[1])
				}
			}
		}
	}

	a.visitChildren(node)
	a.scope = make(map[string]string)
}

// bindTableRef registers a table reference (with optional alias) in
// the current query scope, flagging unknown tables.
func (a *SemanticAnalyzer) bindTableRef(ref *Node) {
	tableName := ref.Value
	alias := tableName
	if len(ref.Children) > 0 {
		alias = ref.Children[0].Value
	}

	if _, exists := a.symbols.Table(tableName); !exists {
		a.errorf(serrors.CodeTableNotFound, ref.Line, ref.Column,
			"Table '%s' does not exist", tableName)
	}

	a.scope[strings.ToUpper(alias)] = strings.ToUpper(tableName)
}

// visitColumn resolves an unqualified column reference against every
// table in the current scope.
func (a *SemanticAnalyzer) visitColumn(node *Node) {
	colName := node.Value
	if colName == "" {
		// Aliased expression wrapper; the expression itself is a child.
		a.visitChildren(node)
		return
	}

	found := false
	for _, tableName := range a.scope {
		if _, ok := a.symbols.Column(tableName, colName); ok {
			found = true
			break
		}
	}

	if !found && len(a.scope) > 0 {
		a.errorf(serrors.CodeColumnNotFound, node.Line, node.Column,
			"Column '%s' does not exist in any of the referenced tables", colName)
	}

	a.visitChildren(node)
}

// visitQualifiedName resolves t.col against the scope's alias
// bindings.
func (a *SemanticAnalyzer) visitQualifiedName(node *Node) {
	if len(node.Children) < 2 {
		return
	}

	prefix := strings.ToUpper(node.Children[0].Value)
	colName := node.Children[1].Value

	tableName, bound := a.scope[prefix]
	if !bound {
		a.errorf(serrors.CodeAliasNotFound, node.Line, node.Column,
			"Table alias or name '%s' not found in current query scope", prefix)
		return
	}

	if _, ok := a.symbols.Column(tableName, colName); !ok {
		a.errorf(serrors.CodeColumnNotFound, node.Line, node.Column,
			"Column '%s' does not exist in table '%s'", colName, tableName)
	}
}

func (a *SemanticAnalyzer) visitDelete(node *Node) {
	if len(node.Children) == 0 {
		return
	}

	tableName := node.Children[0].Value
	if _, exists := a.symbols.Table(tableName); !exists {
		a.errorf(serrors.CodeTableNotFound, node.Line, node.Column,
			"Table '%s' does not exist", tableName)
	}

	upper := strings.ToUpper(tableName)
	a.scope = map[string]string{upper: upper}
	if len(node.Children) > 1 {
		a.visit(node.Children[1])
	}
	a.scope = make(map[string]string)
}

func (a *SemanticAnalyzer) visitUpdate(node *Node) {
	if len(node.Children) == 0 {
		return
	}

	tableName := node.Children[0].Value
	if _, exists := a.symbols.Table(tableName); !exists {
		a.errorf(serrors.CodeTableNotFound, node.Line, node.Column,
			"Table '%s' does not exist", tableName)
	}

	upper := strings.ToUpper(tableName)
	a.scope = map[string]string{upper: upper}
	a.visitChildren(node)
	a.scope = make(map[string]string)
}

// ==================== Type Checking ====================

// visitComparison infers the types of both operands, annotates them
// on the tree, and flags incompatible comparisons.
func (a *SemanticAnalyzer) visitComparison(node *Node) {
	if len(node.Children) < 3 {
		return
	}

	left := node.Children[0]
	right := node.Children[2]

	leftType := a.inferType(left)
	rightType := a.inferType(right)

	left.InferredType = leftType
	right.InferredType = rightType

	if leftType != "" && rightType != "" && !AreTypesCompatible(leftType, rightType) {
		a.errorf(serrors.CodeTypeMismatch, node.Line, node.Column,
			"Type mismatch in comparison: cannot compare %s with %s", leftType, rightType)
	}
}

// checkTypeCompatibility verifies a value node against a declared
// column type; unknown inferences pass silently.
func (a *SemanticAnalyzer) checkTypeCompatibility(valueNode *Node, targetType, context string) {
	valueType := a.inferType(valueNode)
	if valueType == "" {
		return
	}

	if !AreTypesCompatible(targetType, valueType) {
		a.errorf(serrors.CodeTypeMismatch, valueNode.Line, valueNode.Column,
			"%s: Type mismatch. Expected %s but found %s", context, targetType, valueType)
	}
}

// inferType guesses the type of an expression node. Literals are
// classified by their lexical shape; column operands resolve to their
// declared type through the current scope; compound expressions take
// the type of their first operand. An empty string means unknown.
func (a *SemanticAnalyzer) inferType(node *Node) string {
	switch node.Kind {
	case KindLiteral:
		return inferLiteralType(node.Value)

	case KindTerminal, KindColumn:
		for _, tableName := range a.scope {
			if colInfo, ok := a.symbols.Column(tableName, node.Value); ok {
				return colInfo.DataType
			}
		}
		return ""

	case KindExpression:
		if len(node.Children) > 0 {
			return a.inferType(node.Children[0])
		}
		return ""

	default:
		return ""
	}
}

// inferLiteralType classifies a literal lexeme.
func inferLiteralType(value string) string {
	if strings.HasPrefix(value, "'") || strings.HasPrefix(value, `"`) {
		return "VARCHAR"
	}
	if value != "" && isDigits(value) {
		return "INT"
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return "FLOAT"
	}
	switch strings.ToUpper(value) {
	case "TRUE", "FALSE":
		return "BOOLEAN"
	}
	return "UNKNOWN"
}

func isDigits(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// findChild returns the first direct child of the given kind.
func findChild(node *Node, kind NodeKind) *Node {
	for _, child := range node.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}
