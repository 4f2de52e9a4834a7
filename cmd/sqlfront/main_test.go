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

package main

import (
	"testing"

	"sqlfront/internal/sql"
)

func TestAnalyzeSkippedAfterSyntaxErrors(t *testing.T) {
	tree, lexErrs, synErrs := sql.ParseSQL("SELECT name FROM missing WHERE;")
	if len(synErrs) == 0 {
		t.Fatal("expected syntax errors")
	}

	analyzer := sql.NewSemanticAnalyzer()
	semErrs := analyzeIfClean(analyzer, tree, len(lexErrs)+len(synErrs))
	if semErrs != nil {
		t.Errorf("expected the semantic stage to be skipped, got %v", semErrs)
	}
	if analyzer.SymbolTable().Len() != 0 {
		t.Errorf("expected an untouched symbol table, got %d tables", analyzer.SymbolTable().Len())
	}
}

func TestAnalyzeRunsOnCleanInput(t *testing.T) {
	tree, lexErrs, synErrs := sql.ParseSQL("SELECT name FROM missing;")
	if len(lexErrs) != 0 || len(synErrs) != 0 {
		t.Fatalf("unexpected earlier-stage errors: %v %v", lexErrs, synErrs)
	}

	analyzer := sql.NewSemanticAnalyzer()
	semErrs := analyzeIfClean(analyzer, tree, 0)
	if len(semErrs) == 0 {
		t.Error("expected semantic errors for the unknown table")
	}
}
