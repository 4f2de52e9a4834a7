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
	"encoding/json"
	"fmt"
	"strings"
)

// NodeKind identifies the grammatical production a parse tree node
// represents.
type NodeKind int

// Parse tree node kinds.
const (
	// Top level
	KindStatement NodeKind = iota
	KindStatementList

	// DDL
	KindCreateTable
	KindCreateDatabase
	KindCreateView
	KindCreateIndex
	KindAlterTable
	KindDropTable
	KindDropDatabase
	KindDropView
	KindDropIndex

	// DML
	KindSelect
	KindInsert
	KindUpdate
	KindDelete

	// Clauses
	KindSelectList
	KindFromClause
	KindWhereClause
	KindGroupByClause
	KindHavingClause
	KindOrderByClause
	KindLimitClause

	// Sub-components
	KindColumn
	KindColumnList
	KindTableName
	KindQualifiedName
	KindCondition
	KindLogicalAnd
	KindLogicalOr
	KindLogicalNot
	KindComparison
	KindBetween
	KindInClause
	KindLikeClause
	KindIsNull

	// Functions and expressions
	KindFunctionCall
	KindAggregateFunction
	KindArgumentList
	KindExpression
	KindTerm
	KindFactor
	KindUnary
	KindLiteral

	// Values
	KindValueList

	// Column definitions
	KindColumnDef
	KindDataType
	KindConstraint
	KindPrimaryKey
	KindForeignKey
	KindUniqueConstraint
	KindCheckConstraint
	KindDefaultConstraint

	// Joins
	KindJoin
	KindJoinCondition

	// Sorting
	KindSortItem

	// Terminal
	KindTerminal
)

var nodeKindNames = map[NodeKind]string{
	KindStatement:         "Statement",
	KindStatementList:     "StatementList",
	KindCreateTable:       "CreateTable",
	KindCreateDatabase:    "CreateDatabase",
	KindCreateView:        "CreateView",
	KindCreateIndex:       "CreateIndex",
	KindAlterTable:        "AlterTable",
	KindDropTable:         "DropTable",
	KindDropDatabase:      "DropDatabase",
	KindDropView:          "DropView",
	KindDropIndex:         "DropIndex",
	KindSelect:            "Select",
	KindInsert:            "Insert",
	KindUpdate:            "Update",
	KindDelete:            "Delete",
	KindSelectList:        "SelectList",
	KindFromClause:        "FromClause",
	KindWhereClause:       "WhereClause",
	KindGroupByClause:     "GroupByClause",
	KindHavingClause:      "HavingClause",
	KindOrderByClause:     "OrderByClause",
	KindLimitClause:       "LimitClause",
	KindColumn:            "Column",
	KindColumnList:        "ColumnList",
	KindTableName:         "TableName",
	KindQualifiedName:     "QualifiedName",
	KindCondition:         "Condition",
	KindLogicalAnd:        "LogicalAnd",
	KindLogicalOr:         "LogicalOr",
	KindLogicalNot:        "LogicalNot",
	KindComparison:        "Comparison",
	KindBetween:           "Between",
	KindInClause:          "InClause",
	KindLikeClause:        "LikeClause",
	KindIsNull:            "IsNull",
	KindFunctionCall:      "FunctionCall",
	KindAggregateFunction: "AggregateFunction",
	KindArgumentList:      "ArgumentList",
	KindExpression:        "Expression",
	KindTerm:              "Term",
	KindFactor:            "Factor",
	KindUnary:             "Unary",
	KindLiteral:           "Literal",
	KindValueList:         "ValueList",
	KindColumnDef:         "ColumnDefinition",
	KindDataType:          "DataType",
	KindConstraint:        "Constraint",
	KindPrimaryKey:        "PrimaryKey",
	KindForeignKey:        "ForeignKey",
	KindUniqueConstraint:  "Unique",
	KindCheckConstraint:   "Check",
	KindDefaultConstraint: "Default",
	KindJoin:              "Join",
	KindJoinCondition:     "JoinCondition",
	KindSortItem:          "SortItem",
	KindTerminal:          "Terminal",
}

// String returns the production name used in tree dumps and JSON.
func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is a parse tree node. Internal nodes represent grammar
// productions; Terminal nodes carry the source lexeme in Value.
// InferredType is filled in by the semantic analyzer for literal and
// column operands.
type Node struct {
	Kind         NodeKind
	Value        string
	Line         int
	Column       int
	InferredType string
	Children     []*Node
}

// NewNode creates a node of the given kind with no children.
func NewNode(kind NodeKind, value string, line, column int) *Node {
	return &Node{Kind: kind, Value: value, Line: line, Column: column}
}

// AddChild appends a child, ignoring nils so optional clauses can be
// attached unconditionally.
func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// String renders the node as (Kind) or (Kind: value).
func (n *Node) String() string {
	if n.Value != "" {
		return fmt.Sprintf("(%s: %s)", n.Kind, n.Value)
	}
	return fmt.Sprintf("(%s)", n.Kind)
}

// Count returns the total number of nodes in the subtree.
func (n *Node) Count() int {
	count := 1
	for _, c := range n.Children {
		count += c.Count()
	}
	return count
}

// Depth returns the maximum depth of the subtree. A leaf has depth 1.
func (n *Node) Depth() int {
	if len(n.Children) == 0 {
		return 1
	}
	max := 0
	for _, c := range n.Children {
		if d := c.Depth(); d > max {
			max = d
		}
	}
	return 1 + max
}

// LeafCount returns the number of leaf nodes in the subtree.
func (n *Node) LeafCount() int {
	if len(n.Children) == 0 {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += c.LeafCount()
	}
	return count
}

// InternalCount returns the number of internal nodes in the subtree.
func (n *Node) InternalCount() int {
	if len(n.Children) == 0 {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += c.InternalCount()
	}
	return count
}

// Indent renders the subtree as one node per line, indented two
// spaces per level.
func (n *Node) Indent() string {
	var b strings.Builder
	n.indentInto(&b, 0)
	return b.String()
}

func (n *Node) indentInto(b *strings.Builder, level int) {
	b.WriteString(strings.Repeat("  ", level))
	b.WriteString(n.String())
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.indentInto(b, level+1)
	}
}

// label builds the display text for a node: kind, quoted value,
// inferred type annotation, and source location.
func (n *Node) label() string {
	var b strings.Builder
	b.WriteString(n.Kind.String())
	if n.Value != "" {
		fmt.Fprintf(&b, ": '%s'", n.Value)
	}
	if n.InferredType != "" {
		fmt.Fprintf(&b, " <Type: %s>", n.InferredType)
	}
	if n.Line > 0 && n.Column > 0 {
		fmt.Fprintf(&b, " (Line %d, Col %d)", n.Line, n.Column)
	} else if n.Line > 0 {
		fmt.Fprintf(&b, " (Line %d)", n.Line)
	}
	return b.String()
}

// ASCII renders the subtree with box-drawing connectors:
//
//	StatementList
//	└── Select (Line 1, Col 1)
//	    ├── SelectList
//	    │   └── Column: 'name'
//	    └── FromClause
//	        └── TableName: 'users'
func (n *Node) ASCII() string {
	var lines []string
	n.asciiInto(&lines, "", true, true)
	return strings.Join(lines, "\n") + "\n"
}

func (n *Node) asciiInto(lines *[]string, prefix string, isLast, isRoot bool) {
	if isRoot {
		*lines = append(*lines, n.label())
	} else {
		connector := "├── "
		if isLast {
			connector = "└── "
		}
		*lines = append(*lines, prefix+connector+n.label())
	}

	for i, c := range n.Children {
		last := i == len(n.Children)-1
		childPrefix := prefix
		if !isRoot {
			if isLast {
				childPrefix += "    "
			} else {
				childPrefix += "│   "
			}
		}
		c.asciiInto(lines, childPrefix, last, false)
	}
}

// nodeJSON is the wire shape of a serialized parse tree node.
type nodeJSON struct {
	Type     string      `json:"type"`
	Value    string      `json:"value,omitempty"`
	Line     int         `json:"line,omitempty"`
	Column   int         `json:"column,omitempty"`
	Inferred string      `json:"inferred_type,omitempty"`
	Children []*nodeJSON `json:"children,omitempty"`
}

func (n *Node) toJSON() *nodeJSON {
	out := &nodeJSON{
		Type:     n.Kind.String(),
		Value:    n.Value,
		Line:     n.Line,
		Column:   n.Column,
		Inferred: n.InferredType,
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.toJSON())
	}
	return out
}

// MarshalJSON serializes the subtree with stable field names, so the
// output is deterministic for identical trees.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

// TreeStats summarizes the shape of a parse tree.
type TreeStats struct {
	Nodes    int `json:"nodes"`
	Depth    int `json:"depth"`
	Leaves   int `json:"leaves"`
	Internal int `json:"internal"`
}

// Stats computes the node, depth and leaf counts for the subtree.
func (n *Node) Stats() TreeStats {
	return TreeStats{
		Nodes:    n.Count(),
		Depth:    n.Depth(),
		Leaves:   n.LeafCount(),
		Internal: n.InternalCount(),
	}
}
