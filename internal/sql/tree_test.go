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
	"strings"
	"testing"
)

func sampleTree() *Node {
	root := NewNode(KindSelect, "", 1, 1)

	selectList := NewNode(KindSelectList, "", 1, 8)
	selectList.AddChild(NewNode(KindColumn, "name", 1, 8))
	root.AddChild(selectList)

	from := NewNode(KindFromClause, "", 1, 13)
	from.AddChild(NewNode(KindTableName, "users", 1, 18))
	root.AddChild(from)

	return root
}

func TestNodeCounts(t *testing.T) {
	tree := sampleTree()

	if got := tree.Count(); got != 5 {
		t.Errorf("Count: expected 5, got %d", got)
	}
	if got := tree.Depth(); got != 3 {
		t.Errorf("Depth: expected 3, got %d", got)
	}
	if got := tree.LeafCount(); got != 2 {
		t.Errorf("LeafCount: expected 2, got %d", got)
	}
	if got := tree.InternalCount(); got != 3 {
		t.Errorf("InternalCount: expected 3, got %d", got)
	}

	stats := tree.Stats()
	if stats.Nodes != 5 || stats.Depth != 3 || stats.Leaves != 2 || stats.Internal != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestLeafPlusInternalEqualsTotal(t *testing.T) {
	inputs := []string{
		"SELECT * FROM t;",
		"SELECT a, b, COUNT(*) FROM t GROUP BY a, b;",
		"CREATE TABLE x (id INT PRIMARY KEY, name VARCHAR(10));",
		"INSERT INTO t (a, b) VALUES (1, 'x');",
	}

	for _, input := range inputs {
		tree := mustParse(t, input)
		if tree.LeafCount()+tree.InternalCount() != tree.Count() {
			t.Errorf("%q: leaves(%d) + internal(%d) != total(%d)",
				input, tree.LeafCount(), tree.InternalCount(), tree.Count())
		}
	}
}

func TestAddChildIgnoresNil(t *testing.T) {
	node := NewNode(KindSelect, "", 1, 1)
	node.AddChild(nil)
	if len(node.Children) != 0 {
		t.Errorf("expected nil child ignored, got %d children", len(node.Children))
	}
}

func TestNodeString(t *testing.T) {
	withValue := NewNode(KindColumn, "name", 1, 1)
	if got := withValue.String(); got != "(Column: name)" {
		t.Errorf("expected (Column: name), got %q", got)
	}

	bare := NewNode(KindSelectList, "", 1, 1)
	if got := bare.String(); got != "(SelectList)" {
		t.Errorf("expected (SelectList), got %q", got)
	}
}

func TestIndentRendering(t *testing.T) {
	got := sampleTree().Indent()
	want := "(Select)\n" +
		"  (SelectList)\n" +
		"    (Column: name)\n" +
		"  (FromClause)\n" +
		"    (TableName: users)\n"

	if got != want {
		t.Errorf("unexpected indent rendering:\n%s", got)
	}
}

func TestASCIIRendering(t *testing.T) {
	got := sampleTree().ASCII()

	want := strings.Join([]string{
		"Select (Line 1, Col 1)",
		"├── SelectList (Line 1, Col 8)",
		"│   └── Column: 'name' (Line 1, Col 8)",
		"└── FromClause (Line 1, Col 13)",
		"    └── TableName: 'users' (Line 1, Col 18)",
	}, "\n") + "\n"

	if got != want {
		t.Errorf("unexpected ascii rendering:\ngot:\n%swant:\n%s", got, want)
	}
}

func TestASCIIIncludesInferredType(t *testing.T) {
	node := NewNode(KindLiteral, "21", 1, 5)
	node.InferredType = "INT"

	if !strings.Contains(node.ASCII(), "<Type: INT>") {
		t.Errorf("expected type annotation, got %q", node.ASCII())
	}
}

func TestMarshalJSONFields(t *testing.T) {
	tree := sampleTree()

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["type"] != "Select" {
		t.Errorf("expected type Select, got %v", decoded["type"])
	}
	if _, hasValue := decoded["value"]; hasValue {
		t.Error("empty value should be omitted")
	}

	children, ok := decoded["children"].([]interface{})
	if !ok || len(children) != 2 {
		t.Fatalf("expected 2 children, got %v", decoded["children"])
	}

	first := children[0].(map[string]interface{})
	grandchildren := first["children"].([]interface{})
	leaf := grandchildren[0].(map[string]interface{})
	if leaf["value"] != "name" || leaf["line"] != float64(1) || leaf["column"] != float64(8) {
		t.Errorf("unexpected leaf fields: %v", leaf)
	}
}

func TestMarshalJSONDeterministic(t *testing.T) {
	tree := mustParse(t, "SELECT a FROM t WHERE a > 1;")

	first, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if string(first) != string(second) {
		t.Error("marshaling the same tree twice produced different output")
	}
}

func TestNodeKindStrings(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindStatementList, "StatementList"},
		{KindCreateTable, "CreateTable"},
		{KindColumnDef, "ColumnDefinition"},
		{KindUniqueConstraint, "Unique"},
		{KindCheckConstraint, "Check"},
		{KindDefaultConstraint, "Default"},
		{KindTerminal, "Terminal"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("kind %d: expected %q, got %q", int(tt.kind), tt.want, got)
		}
	}
}
