package sql

import (
	"strings"
	"testing"
)

// clause returns the first direct child of the given kind.
func clause(t *testing.T, tree *Node, kind NodeKind) *Node {
	t.Helper()
	for _, child := range tree.Children {
		if child.Kind == kind {
			return child
		}
	}
	t.Fatalf("no %s clause under %s", kind, tree)
	return nil
}

func mustParse(t *testing.T, input string) *Node {
	t.Helper()
	tree, lexErrs, synErrs := ParseSQL(input)
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", lexErrs)
	}
	if len(synErrs) != 0 {
		t.Fatalf("unexpected syntax errors: %v", synErrs)
	}
	if tree == nil {
		t.Fatal("expected a parse tree")
	}
	return tree
}

func TestParseEmptyInput(t *testing.T) {
	tree := mustParse(t, "")
	if tree.Kind != KindStatementList {
		t.Errorf("expected StatementList, got %s", tree.Kind)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected no children, got %d", len(tree.Children))
	}
	if tree.Line != 1 || tree.Column != 1 {
		t.Errorf("expected position 1:1, got %d:%d", tree.Line, tree.Column)
	}
}

func TestParseSingleStatementIsRoot(t *testing.T) {
	tree := mustParse(t, "SELECT * FROM users;")
	if tree.Kind != KindSelect {
		t.Errorf("single statement should be the root, got %s", tree.Kind)
	}
}

func TestParseMultipleStatementsWrapped(t *testing.T) {
	tree := mustParse(t, "SELECT * FROM a; SELECT * FROM b;")
	if tree.Kind != KindStatementList {
		t.Fatalf("expected StatementList root, got %s", tree.Kind)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(tree.Children))
	}
	for i, child := range tree.Children {
		if child.Kind != KindSelect {
			t.Errorf("statement %d: expected Select, got %s", i, child.Kind)
		}
	}
}

func TestParseSelectShape(t *testing.T) {
	tree := mustParse(t, "SELECT name, age FROM users WHERE age > 21 ORDER BY name DESC LIMIT 10;")

	wantClauses := []NodeKind{
		KindSelectList, KindFromClause, KindWhereClause,
		KindOrderByClause, KindLimitClause,
	}
	if len(tree.Children) != len(wantClauses) {
		t.Fatalf("expected %d clauses, got %d", len(wantClauses), len(tree.Children))
	}
	for i, kind := range wantClauses {
		if tree.Children[i].Kind != kind {
			t.Errorf("clause %d: expected %s, got %s", i, kind, tree.Children[i].Kind)
		}
	}

	selectList := tree.Children[0]
	if len(selectList.Children) != 2 {
		t.Fatalf("expected 2 select items, got %d", len(selectList.Children))
	}
	if selectList.Children[0].Kind != KindColumn || selectList.Children[0].Value != "name" {
		t.Errorf("unexpected first select item: %s", selectList.Children[0])
	}
}

func TestParseSelectStar(t *testing.T) {
	tree := mustParse(t, "SELECT * FROM t;")
	selectList := tree.Children[0]
	if len(selectList.Children) != 1 {
		t.Fatalf("expected one child, got %d", len(selectList.Children))
	}
	star := selectList.Children[0]
	if star.Kind != KindTerminal || star.Value != "*" {
		t.Errorf("expected (Terminal: *), got %s", star)
	}
}

func TestParseSelectDistinct(t *testing.T) {
	tree := mustParse(t, "SELECT DISTINCT name FROM users;")
	if tree.Children[0].Kind != KindTerminal || tree.Children[0].Value != "DISTINCT" {
		t.Errorf("expected DISTINCT terminal first, got %s", tree.Children[0])
	}
}

func TestParseSelectAliases(t *testing.T) {
	tree := mustParse(t, "SELECT name AS n, age years FROM users;")

	selectList := tree.Children[0]
	for i, wantAlias := range []string{"n", "years"} {
		item := selectList.Children[i]
		if item.Kind != KindColumn || item.Value != "" {
			t.Fatalf("item %d: expected alias wrapper Column, got %s", i, item)
		}
		if len(item.Children) != 2 {
			t.Fatalf("item %d: expected expr and alias children, got %d", i, len(item.Children))
		}
		alias := item.Children[1]
		if alias.Kind != KindTerminal || alias.Value != wantAlias {
			t.Errorf("item %d: expected alias %q, got %s", i, wantAlias, alias)
		}
	}
}

func TestParseTableAlias(t *testing.T) {
	tree := mustParse(t, "SELECT u.name FROM users AS u;")

	from := tree.Children[1]
	tableRef := from.Children[0]
	if tableRef.Kind != KindTableName || tableRef.Value != "users" {
		t.Fatalf("unexpected table ref: %s", tableRef)
	}
	if len(tableRef.Children) != 1 || tableRef.Children[0].Value != "u" {
		t.Errorf("expected alias child u, got %v", tableRef.Children)
	}
}

func TestParseJoinShape(t *testing.T) {
	tree := mustParse(t, "SELECT a.x FROM a LEFT OUTER JOIN b ON a.id = b.id;")

	from := tree.Children[1]
	if len(from.Children) != 2 {
		t.Fatalf("expected table ref + join, got %d children", len(from.Children))
	}

	join := from.Children[1]
	if join.Kind != KindJoin {
		t.Fatalf("expected Join, got %s", join.Kind)
	}
	if len(join.Children) != 3 {
		t.Fatalf("expected join type, table, condition; got %d children", len(join.Children))
	}
	if join.Children[0].Value != "LEFT" {
		t.Errorf("expected join type LEFT, got %q", join.Children[0].Value)
	}
	if join.Children[1].Kind != KindTableName || join.Children[1].Value != "b" {
		t.Errorf("unexpected join table: %s", join.Children[1])
	}
	if join.Children[2].Kind != KindComparison {
		t.Errorf("expected Comparison condition, got %s", join.Children[2].Kind)
	}
}

func TestParseBareJoinDefaultsToInner(t *testing.T) {
	tree := mustParse(t, "SELECT a.x FROM a JOIN b ON a.id = b.id;")
	join := tree.Children[1].Children[1]
	if join.Children[0].Value != "INNER" {
		t.Errorf("expected INNER default, got %q", join.Children[0].Value)
	}
}

func TestParseChainedJoins(t *testing.T) {
	tree := mustParse(t, "SELECT a.x FROM a JOIN b ON a.id = b.id LEFT JOIN c ON b.id = c.id;")

	from := clause(t, tree, KindFromClause)
	if len(from.Children) != 3 {
		t.Fatalf("expected table ref + 2 joins, got %d children", len(from.Children))
	}
	if from.Children[0].Kind != KindTableName {
		t.Errorf("expected leading table ref, got %s", from.Children[0].Kind)
	}
	for i := 1; i <= 2; i++ {
		if from.Children[i].Kind != KindJoin {
			t.Errorf("child %d: expected Join, got %s", i, from.Children[i].Kind)
		}
	}
	if from.Children[2].Children[0].Value != "LEFT" {
		t.Errorf("expected second join type LEFT, got %q", from.Children[2].Children[0].Value)
	}
}

func TestParseJoinFollowedByWhere(t *testing.T) {
	tree := mustParse(t, "SELECT a.x FROM a JOIN b ON a.id = b.id WHERE a.x > 1;")
	if clause(t, tree, KindWhereClause).Children[0].Kind != KindComparison {
		t.Error("expected a Comparison under WHERE after the join")
	}
}

func TestParseConditionPrecedence(t *testing.T) {
	// NOT binds tighter than AND, AND tighter than OR.
	tree := mustParse(t, "SELECT * FROM t WHERE a = 1 OR b = 2 AND NOT c = 3;")

	cond := clause(t, tree, KindWhereClause).Children[0]
	if cond.Kind != KindLogicalOr {
		t.Fatalf("expected LogicalOr root, got %s", cond.Kind)
	}
	if cond.Children[0].Kind != KindComparison {
		t.Errorf("expected left Comparison, got %s", cond.Children[0].Kind)
	}

	and := cond.Children[1]
	if and.Kind != KindLogicalAnd {
		t.Fatalf("expected right LogicalAnd, got %s", and.Kind)
	}
	if and.Children[1].Kind != KindLogicalNot {
		t.Errorf("expected NOT under AND, got %s", and.Children[1].Kind)
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	// a + b * c parses as a + (b * c).
	tree := mustParse(t, "SELECT a + b * c FROM t;")

	expr := tree.Children[0].Children[0]
	if expr.Kind != KindExpression {
		t.Fatalf("expected Expression, got %s", expr.Kind)
	}
	if expr.Children[1].Value != "+" {
		t.Errorf("expected + at root, got %q", expr.Children[1].Value)
	}

	right := expr.Children[2]
	if right.Kind != KindExpression || right.Children[1].Value != "*" {
		t.Errorf("expected nested * on the right, got %s", right)
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	// a - b - c parses as (a - b) - c.
	tree := mustParse(t, "SELECT a - b - c FROM t;")

	expr := tree.Children[0].Children[0]
	left := expr.Children[0]
	if left.Kind != KindExpression || left.Children[1].Value != "-" {
		t.Errorf("expected nested subtraction on the left, got %s", left)
	}
	if expr.Children[2].Kind != KindColumn || expr.Children[2].Value != "c" {
		t.Errorf("expected c on the right, got %s", expr.Children[2])
	}
}

func TestParseUnaryMinus(t *testing.T) {
	tree := mustParse(t, "SELECT -5 FROM t;")
	unary := tree.Children[0].Children[0]
	if unary.Kind != KindUnary {
		t.Fatalf("expected Unary, got %s", unary.Kind)
	}
	if unary.Children[0].Value != "-" || unary.Children[1].Kind != KindLiteral {
		t.Errorf("unexpected unary shape: %v", unary.Children)
	}
}

func TestParseBetweenInLikeIsNull(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"SELECT * FROM t WHERE a BETWEEN 1 AND 10;", KindBetween},
		{"SELECT * FROM t WHERE a IN (1, 2, 3);", KindInClause},
		{"SELECT * FROM t WHERE name LIKE 'A%';", KindLikeClause},
		{"SELECT * FROM t WHERE a IS NULL;", KindIsNull},
		{"SELECT * FROM t WHERE a IS NOT NULL;", KindIsNull},
	}

	for _, tt := range tests {
		tree := mustParse(t, tt.input)
		cond := clause(t, tree, KindWhereClause).Children[0]
		if cond.Kind != tt.kind {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.kind, cond.Kind)
		}
	}
}

func TestParseIsNotNullMarker(t *testing.T) {
	tree := mustParse(t, "SELECT * FROM t WHERE a IS NOT NULL;")
	isNull := clause(t, tree, KindWhereClause).Children[0]
	if isNull.Children[1].Value != "NOT NULL" {
		t.Errorf("expected NOT NULL marker, got %q", isNull.Children[1].Value)
	}
}

func TestParseAggregates(t *testing.T) {
	tree := mustParse(t, "SELECT COUNT(*), COUNT(DISTINCT city), AVG(age) FROM users;")

	selectList := tree.Children[0]
	if len(selectList.Children) != 3 {
		t.Fatalf("expected 3 items, got %d", len(selectList.Children))
	}

	countStar := selectList.Children[0]
	if countStar.Kind != KindAggregateFunction || !strings.EqualFold(countStar.Value, "COUNT") {
		t.Fatalf("unexpected first item: %s", countStar)
	}
	if countStar.Children[0].Value != "*" {
		t.Errorf("expected * argument, got %q", countStar.Children[0].Value)
	}

	countDistinct := selectList.Children[1]
	if countDistinct.Children[0].Value != "DISTINCT" {
		t.Errorf("expected DISTINCT marker, got %q", countDistinct.Children[0].Value)
	}
	if countDistinct.Children[1].Kind != KindColumn {
		t.Errorf("expected column argument, got %s", countDistinct.Children[1].Kind)
	}
}

func TestParseUserFunctionCall(t *testing.T) {
	tree := mustParse(t, "SELECT my_func(a, 1) FROM t;")
	call := tree.Children[0].Children[0]
	if call.Kind != KindFunctionCall || call.Value != "my_func" {
		t.Fatalf("expected FunctionCall my_func, got %s", call)
	}
	if len(call.Children) != 2 {
		t.Errorf("expected 2 arguments, got %d", len(call.Children))
	}
}

func TestParseQualifiedStar(t *testing.T) {
	tree := mustParse(t, "SELECT u.* FROM users u;")
	qual := tree.Children[0].Children[0]
	if qual.Kind != KindQualifiedName {
		t.Fatalf("expected QualifiedName, got %s", qual.Kind)
	}
	if qual.Children[1].Value != "*" {
		t.Errorf("expected * part, got %q", qual.Children[1].Value)
	}
}

func TestParseScalarSubquery(t *testing.T) {
	tree := mustParse(t, "SELECT name FROM users WHERE id = (SELECT MAX(id) FROM users);")
	comparison := clause(t, tree, KindWhereClause).Children[0]
	if comparison.Children[2].Kind != KindSelect {
		t.Errorf("expected nested Select, got %s", comparison.Children[2].Kind)
	}
}

func TestParseInsertShape(t *testing.T) {
	tree := mustParse(t, "INSERT INTO users (id, name) VALUES (1, 'Ada');")
	if tree.Kind != KindInsert {
		t.Fatalf("expected Insert, got %s", tree.Kind)
	}

	if tree.Children[0].Value != "users" {
		t.Errorf("expected table users, got %q", tree.Children[0].Value)
	}

	colList := tree.Children[1]
	if colList.Kind != KindColumnList || len(colList.Children) != 2 {
		t.Fatalf("unexpected column list: %s", colList)
	}

	values := tree.Children[2]
	if values.Kind != KindValueList || len(values.Children) != 2 {
		t.Fatalf("unexpected value list: %s", values)
	}
	if values.Children[1].Kind != KindLiteral || values.Children[1].Value != "'Ada'" {
		t.Errorf("unexpected second value: %s", values.Children[1])
	}
}

func TestParseInsertMultiRowFlattens(t *testing.T) {
	tree := mustParse(t, "INSERT INTO t (a) VALUES (1), (2), (3);")
	values := tree.Children[2]
	if len(values.Children) != 3 {
		t.Errorf("expected 3 flattened values, got %d", len(values.Children))
	}
}

func TestParseUpdateShape(t *testing.T) {
	tree := mustParse(t, "UPDATE users SET name = 'Bob', age = 30 WHERE id = 1;")
	if tree.Kind != KindUpdate {
		t.Fatalf("expected Update, got %s", tree.Kind)
	}

	// Children: table, assignment columns, where.
	if tree.Children[1].Kind != KindColumn || tree.Children[1].Value != "name" {
		t.Errorf("unexpected first assignment: %s", tree.Children[1])
	}
	if tree.Children[3].Kind != KindWhereClause {
		t.Errorf("expected WhereClause last, got %s", tree.Children[3].Kind)
	}
}

func TestParseDeleteShape(t *testing.T) {
	tree := mustParse(t, "DELETE FROM users WHERE id = 1;")
	if tree.Kind != KindDelete {
		t.Fatalf("expected Delete, got %s", tree.Kind)
	}
	if tree.Children[0].Value != "users" || tree.Children[1].Kind != KindWhereClause {
		t.Errorf("unexpected delete shape: %v", tree.Children)
	}
}

func TestParseCreateTableShape(t *testing.T) {
	tree := mustParse(t, `CREATE TABLE users (
		id INT PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		balance FLOAT DEFAULT 0
	);`)

	if tree.Kind != KindCreateTable {
		t.Fatalf("expected CreateTable, got %s", tree.Kind)
	}
	if tree.Children[0].Value != "users" {
		t.Errorf("expected table name users, got %q", tree.Children[0].Value)
	}

	colList := tree.Children[1]
	if len(colList.Children) != 3 {
		t.Fatalf("expected 3 column definitions, got %d", len(colList.Children))
	}

	idCol := colList.Children[0]
	if idCol.Children[0].Value != "id" {
		t.Errorf("expected column id, got %q", idCol.Children[0].Value)
	}
	if idCol.Children[2].Kind != KindPrimaryKey {
		t.Errorf("expected PrimaryKey constraint, got %s", idCol.Children[2].Kind)
	}

	nameCol := colList.Children[1]
	dataType := nameCol.Children[1]
	if dataType.Children[0].Value != "VARCHAR" || dataType.Children[1].Value != "50" {
		t.Errorf("unexpected sized type: %v", dataType.Children)
	}
	if nameCol.Children[2].Value != "NOT NULL" {
		t.Errorf("expected NOT NULL, got %q", nameCol.Children[2].Value)
	}

	balCol := colList.Children[2]
	if balCol.Children[2].Kind != KindDefaultConstraint {
		t.Errorf("expected Default constraint, got %s", balCol.Children[2].Kind)
	}
}

func TestParseForeignKey(t *testing.T) {
	tree := mustParse(t, "CREATE TABLE orders (id INT, user_id INT FOREIGN KEY (user_id) REFERENCES users (id));")

	colList := tree.Children[1]
	userIDCol := colList.Children[1]
	fk := userIDCol.Children[2]
	if fk.Kind != KindForeignKey {
		t.Fatalf("expected ForeignKey, got %s", fk.Kind)
	}
	// Children: referencing columns, referenced table, referenced columns.
	if len(fk.Children) != 3 || fk.Children[1].Value != "users" {
		t.Errorf("unexpected foreign key shape: %v", fk.Children)
	}
}

func TestParseOtherDDL(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"CREATE DATABASE shop;", KindCreateDatabase},
		{"CREATE VIEW v AS SELECT * FROM t;", KindCreateView},
		{"CREATE INDEX idx ON t (a, b);", KindCreateIndex},
		{"ALTER TABLE t ADD c INT;", KindAlterTable},
		{"ALTER TABLE t DROP COLUMN c;", KindAlterTable},
		{"DROP TABLE t;", KindDropTable},
		{"DROP DATABASE shop;", KindDropDatabase},
		{"DROP VIEW v;", KindDropView},
		{"DROP INDEX idx;", KindDropIndex},
	}

	for _, tt := range tests {
		tree := mustParse(t, tt.input)
		if tree.Kind != tt.kind {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.kind, tree.Kind)
		}
	}
}

func TestParseExpectedFoundMessage(t *testing.T) {
	_, _, synErrs := ParseSQL("INSERT INTO t VALUES 1;")
	if len(synErrs) == 0 {
		t.Fatal("expected a syntax error")
	}
	if !strings.Contains(synErrs[0].Error(), "Expected '(' but found '1'.") {
		t.Errorf("unexpected message: %q", synErrs[0].Error())
	}
}

func TestParseErrorAtEOF(t *testing.T) {
	_, _, synErrs := ParseSQL("SELECT name FROM")
	if len(synErrs) == 0 {
		t.Fatal("expected a syntax error")
	}
	if !strings.Contains(synErrs[0].Error(), "'EOF'") {
		t.Errorf("expected EOF in message, got %q", synErrs[0].Error())
	}
}

func TestParseRecoveryAcrossStatements(t *testing.T) {
	// The malformed first statement must not hide the second.
	tree, _, synErrs := ParseSQL("SELECT FROM ???; SELECT name FROM users;")
	if len(synErrs) == 0 {
		t.Fatal("expected syntax errors from the first statement")
	}

	var selects int
	if tree.Kind == KindSelect {
		selects = 1
	} else {
		for _, child := range tree.Children {
			if child.Kind == KindSelect {
				selects++
			}
		}
	}
	if selects != 1 {
		t.Errorf("expected the second statement to survive, got %d selects", selects)
	}
}

func TestParseRecoveryStopsAtStatementKeyword(t *testing.T) {
	// No semicolon between the bad input and the next statement.
	tree, _, synErrs := ParseSQL("CREATE TABLE t id INT SELECT name FROM users;")
	if len(synErrs) == 0 {
		t.Fatal("expected syntax errors")
	}

	foundSelect := tree.Kind == KindSelect
	for _, child := range tree.Children {
		if child.Kind == KindSelect {
			foundSelect = true
		}
	}
	if !foundSelect {
		t.Error("expected recovery to resume at SELECT")
	}
}

func TestParseRecoveryKeepsStatementAtErrorToken(t *testing.T) {
	// The failure lands exactly on SELECT (a ')' was expected there);
	// recovery must stop in front of it so the statement survives.
	tree, _, synErrs := ParseSQL("CREATE TABLE t (id INT SELECT name FROM users;")
	if len(synErrs) == 0 {
		t.Fatal("expected syntax errors")
	}
	if tree.Kind != KindSelect {
		t.Errorf("expected the trailing SELECT to survive as root, got %s", tree.Kind)
	}
}

func TestParseUndispatchedKeywordTerminates(t *testing.T) {
	// WITH starts a statement but has no production; recovery stands
	// still in front of it, so the statement loop must skip it.
	_, _, synErrs := ParseSQL("WITH cte AS (SELECT 1) SELECT * FROM cte;")
	if len(synErrs) == 0 {
		t.Fatal("expected syntax errors for WITH")
	}
}

func TestParseUnknownTokenBudget(t *testing.T) {
	// A stream of junk terminates with a finite error list.
	_, _, synErrs := ParseSQL("users users users")
	if len(synErrs) == 0 {
		t.Fatal("expected errors for non-statement input")
	}
}

func TestParseLoneSemicolons(t *testing.T) {
	tree := mustParse(t, ";;;")
	if tree.Kind != KindStatementList || len(tree.Children) != 0 {
		t.Errorf("expected empty StatementList, got %s with %d children", tree.Kind, len(tree.Children))
	}
}

// collectLeaves gathers leaf values in left-to-right order.
func collectLeaves(node *Node, out *[]string) {
	if len(node.Children) == 0 {
		if node.Value != "" {
			*out = append(*out, node.Value)
		}
		return
	}
	for _, child := range node.Children {
		collectLeaves(child, out)
	}
}

func TestParseLeavesPreserveTokenOrder(t *testing.T) {
	tree := mustParse(t, "SELECT name FROM users WHERE age > 21;")

	var leaves []string
	collectLeaves(tree, &leaves)

	want := []string{"name", "users", "age", ">", "21"}
	if len(leaves) != len(want) {
		t.Fatalf("expected leaves %v, got %v", want, leaves)
	}
	for i, w := range want {
		if leaves[i] != w {
			t.Errorf("leaf %d: expected %q, got %q", i, w, leaves[i])
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	input := "SELECT a, COUNT(*) FROM t GROUP BY a HAVING COUNT(*) > 1 ORDER BY a;"

	first := mustParse(t, input).Indent()
	second := mustParse(t, input).Indent()
	if first != second {
		t.Error("identical input produced different trees")
	}
}
