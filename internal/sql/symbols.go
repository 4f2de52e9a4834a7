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

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ColumnInfo is the symbol table metadata for one column.
type ColumnInfo struct {
	Name        string
	DataType    string
	Constraints []string
}

// TableInfo is the symbol table metadata for one table. Columns are
// keyed case-insensitively and keep their definition order; redefining
// a column replaces its metadata but keeps the original position.
type TableInfo struct {
	Name    string
	columns map[string]ColumnInfo
	order   []string
}

// NewTableInfo builds a TableInfo from an ordered column list.
func NewTableInfo(name string, columns []ColumnInfo) *TableInfo {
	info := &TableInfo{
		Name:    name,
		columns: make(map[string]ColumnInfo, len(columns)),
	}
	for _, col := range columns {
		info.setColumn(col)
	}
	return info
}

func (t *TableInfo) setColumn(col ColumnInfo) {
	key := strings.ToUpper(col.Name)
	if _, exists := t.columns[key]; !exists {
		t.order = append(t.order, key)
	}
	t.columns[key] = col
}

// Column looks up a column by name, case-insensitively.
func (t *TableInfo) Column(name string) (ColumnInfo, bool) {
	col, ok := t.columns[strings.ToUpper(name)]
	return col, ok
}

// Columns returns the columns in definition order.
func (t *TableInfo) Columns() []ColumnInfo {
	out := make([]ColumnInfo, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.columns[key])
	}
	return out
}

// NumColumns returns the number of columns.
func (t *TableInfo) NumColumns() int {
	return len(t.order)
}

// SymbolTable tracks the tables and columns declared by DDL
// statements. All lookups are case-insensitive. It is not safe for
// concurrent use; each analysis run owns its table.
type SymbolTable struct {
	tables map[string]*TableInfo
	order  []string
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{tables: make(map[string]*TableInfo)}
}

// CreateTable registers a new table definition. It fails when a table
// with the same upper-cased name is already registered.
func (s *SymbolTable) CreateTable(name string, columns []ColumnInfo) error {
	key := strings.ToUpper(name)
	if _, exists := s.tables[key]; exists {
		return fmt.Errorf("Table '%s' already exists", name)
	}

	s.tables[key] = NewTableInfo(name, columns)
	s.order = append(s.order, key)
	return nil
}

// Table looks up a table by name, case-insensitively.
func (s *SymbolTable) Table(name string) (*TableInfo, bool) {
	info, ok := s.tables[strings.ToUpper(name)]
	return info, ok
}

// Column looks up a column in the named table.
func (s *SymbolTable) Column(tableName, columnName string) (ColumnInfo, bool) {
	table, ok := s.Table(tableName)
	if !ok {
		return ColumnInfo{}, false
	}
	return table.Column(columnName)
}

// DropTable removes a table. It reports whether the table existed.
func (s *SymbolTable) DropTable(name string) bool {
	key := strings.ToUpper(name)
	if _, exists := s.tables[key]; !exists {
		return false
	}

	delete(s.tables, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of registered tables.
func (s *SymbolTable) Len() int {
	return len(s.tables)
}

// Tables returns the registered tables in collated name order.
func (s *SymbolTable) Tables() []*TableInfo {
	keys := make([]string, len(s.order))
	copy(keys, s.order)

	c := collate.New(language.English, collate.IgnoreCase)
	sort.Slice(keys, func(i, j int) bool {
		return c.CompareString(keys[i], keys[j]) < 0
	})

	out := make([]*TableInfo, 0, len(keys))
	for _, key := range keys {
		out = append(out, s.tables[key])
	}
	return out
}

// String renders the symbol table for display:
//
//	Symbol Table:
//	==================================================
//	Table: USERS
//	  - ID: INT (Constraints: PRIMARY KEY)
//	  - NAME: VARCHAR (Constraints: None)
//	--------------------------------------------------
//
// Tables are ordered by collated name so the dump is deterministic
// regardless of declaration order; columns keep definition order.
func (s *SymbolTable) String() string {
	var b strings.Builder
	b.WriteString("Symbol Table:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")

	if len(s.tables) == 0 {
		b.WriteString("  (Empty)\n")
	}

	for _, table := range s.Tables() {
		fmt.Fprintf(&b, "Table: %s\n", strings.ToUpper(table.Name))
		for _, col := range table.Columns() {
			constraints := "None"
			if len(col.Constraints) > 0 {
				constraints = strings.Join(col.Constraints, ", ")
			}
			fmt.Fprintf(&b, "  - %s: %s (Constraints: %s)\n",
				strings.ToUpper(col.Name), col.DataType, constraints)
		}
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}

	return b.String()
}
