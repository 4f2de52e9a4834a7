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
Package main is the entry point for the sqlfront batch analyzer.

sqlfront Overview:
==================

sqlfront runs the full front-end pipeline over a SQL source and
reports everything it finds:

 1. Tokenize the source, collecting lexical errors and keyword
    suggestions.
 2. Parse the token stream into a parse tree, collecting syntax
    errors with statement-level recovery.
 3. Walk the tree with the semantic analyzer against a symbol table.
 4. Render the requested outputs: token list, parse tree (ascii,
    indented, or JSON), tree statistics, and the symbol table dump.

The exit status is 0 when the source is clean, 1 when any error was
reported, and 2 on usage mistakes.

Usage Examples:
===============

	Analyze a file, ASCII tree plus symbol table:
	  sqlfront -symbols queries.sql

	One-off statement from the command line:
	  sqlfront -e "SELECT name FROM users WHERE age > 21;"

	Pipe from stdin, JSON tree for tooling:
	  cat schema.sql | sqlfront -format json

	Token dump only:
	  sqlfront -tokens -format none queries.sql
*/
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"sqlfront/internal/banner"
	"sqlfront/internal/config"
	"sqlfront/internal/logging"
	"sqlfront/internal/sql"
)

const (
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiGreen  = "\033[32m"
	ansiCyan   = "\033[36m"
	ansiDim    = "\033[2m"
	ansiReset  = "\033[0m"
)

// colorizer wraps ANSI codes around text when enabled.
type colorizer bool

func (c colorizer) paint(code, s string) string {
	if !c {
		return s
	}
	return code + s + ansiReset
}

func (c colorizer) errorText(s string) string   { return c.paint(ansiRed, s) }
func (c colorizer) warnText(s string) string    { return c.paint(ansiYellow, s) }
func (c colorizer) successText(s string) string { return c.paint(ansiGreen, s) }
func (c colorizer) heading(s string) string     { return c.paint(ansiCyan, s) }
func (c colorizer) dimmed(s string) string      { return c.paint(ansiDim, s) }

func printUsage() {
	fmt.Println()
	fmt.Printf("sqlfront v%s - SQL lexer, parser and semantic analyzer\n", banner.Version)
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  sqlfront [options] [file.sql]")
	fmt.Println("  sqlfront -e \"<statement>\"")
	fmt.Println("  cat input.sql | sqlfront")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -e <sql>             Analyze the given statement instead of a file")
	fmt.Println("  -format <fmt>        Tree format: ascii, tree, json, none (default: ascii)")
	fmt.Println("  -tokens              Print the token list before the tree")
	fmt.Println("  -symbols             Print the symbol table after analysis")
	fmt.Println("  -stats               Print parse tree statistics")
	fmt.Println("  -no-color            Disable ANSI colors even on a terminal")
	fmt.Println("  -log-level <level>   Log level: debug, info, warn, error (default: info)")
	fmt.Println("  -log-json            Enable JSON log output")
	fmt.Println("  -config <path>       Path to configuration file")
	fmt.Println("  -version             Show version information")
	fmt.Println("  -help                Show this help message")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Printf("  %-20s Output format (ascii, tree, json)\n", config.EnvFormat)
	fmt.Printf("  %-20s Set to 0/false to disable colors\n", config.EnvColor)
	fmt.Printf("  %-20s Log level\n", config.EnvLogLevel)
	fmt.Printf("  %-20s Path to configuration file\n", config.EnvConfigFile)
	fmt.Println()
}

func main() {
	os.Exit(run())
}

func run() int {
	cfgMgr := config.NewManager()
	if err := cfgMgr.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg := cfgMgr.Get()

	statement := flag.String("e", "", "Analyze the given statement")
	format := flag.String("format", cfg.Format, "Tree format: ascii, tree, json, none")
	showTokens := flag.Bool("tokens", false, "Print the token list")
	showSymbols := flag.Bool("symbols", false, "Print the symbol table")
	showStats := flag.Bool("stats", false, "Print parse tree statistics")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	logJSON := flag.Bool("log-json", cfg.LogJSON, "Enable JSON log output")
	configFile := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help message")

	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("sqlfront version %s\n", banner.Version)
		return 0
	}
	if *showHelp {
		printUsage()
		return 0
	}

	if *configFile != "" {
		if err := cfgMgr.LoadFromFile(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config file: %v\n", err)
			return 2
		}
		// Environment still wins over an explicit file.
		cfgMgr.LoadFromEnv()
		cfg = cfgMgr.Get()
	}

	logging.SetGlobalLevel(logging.ParseLevel(*logLevel))
	logging.SetJSONMode(*logJSON)
	log := logging.NewLogger("sqlfront")

	source, sourceName, err := readSource(*statement, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	colors := colorizer(cfg.Color && !*noColor && term.IsTerminal(int(os.Stdout.Fd())))

	runCtx := logging.NewRunContext(sourceName)
	runLog := log.With("run_id", runCtx.ID)
	runLog.Debug("analyzing source", "source", sourceName, "bytes", len(source))

	// Stage 1: tokenize.
	lexer := sql.NewLexer(source)
	var tokens []sql.Token
	var lexErrs []error
	for {
		tok, lexErr := lexer.NextToken()
		if lexErr != nil {
			lexErrs = append(lexErrs, lexErr)
			lexer.Skip()
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == sql.TokenEOF {
			break
		}
	}

	if *showTokens {
		printTokens(tokens, colors)
	}
	for _, s := range lexer.Suggestions() {
		fmt.Println(colors.warnText(s.String()))
	}

	// Stage 2: parse.
	parser := sql.NewParser(tokens)
	tree := parser.Parse()
	synErrs := parser.Errors()

	// Stage 3: analyze, only when the earlier stages were clean. A
	// recovered tree would produce misleading semantic errors.
	analyzer := sql.NewSemanticAnalyzer()
	semErrs := analyzeIfClean(analyzer, tree, len(lexErrs)+len(synErrs))
	symbols := analyzer.SymbolTable()

	for _, e := range lexErrs {
		fmt.Println(colors.errorText(e.Error()))
	}
	for _, e := range synErrs {
		fmt.Println(colors.errorText(e.Error()))
	}
	for _, msg := range semErrs {
		fmt.Println(colors.errorText(msg))
	}

	if err := printTree(tree, *format, colors); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if *showStats {
		stats := tree.Stats()
		fmt.Println(colors.heading("Tree Statistics:"))
		fmt.Printf("  Nodes:    %d\n", stats.Nodes)
		fmt.Printf("  Depth:    %d\n", stats.Depth)
		fmt.Printf("  Leaves:   %d\n", stats.Leaves)
		fmt.Printf("  Internal: %d\n", stats.Internal)
	}

	if *showSymbols {
		fmt.Print(symbols.String())
	}

	totalErrs := len(lexErrs) + len(synErrs) + len(semErrs)
	runCtx.LogComplete(log, len(lexErrs), len(synErrs), len(semErrs))

	if totalErrs > 0 {
		fmt.Println(colors.errorText(fmt.Sprintf("%d error(s) found.", totalErrs)))
		return 1
	}
	fmt.Println(colors.successText("No errors found."))
	return 0
}

// analyzeIfClean runs semantic analysis unless earlier stages already
// reported errors.
func analyzeIfClean(analyzer *sql.SemanticAnalyzer, tree *sql.Node, earlierErrors int) []string {
	if earlierErrors > 0 {
		return nil
	}
	_, semErrs, _ := analyzer.Analyze(tree)
	return semErrs
}

// readSource resolves the input: -e beats a file argument, a file
// argument beats stdin.
func readSource(statement string, args []string) (string, string, error) {
	if statement != "" {
		return statement, "<arg>", nil
	}

	if len(args) > 1 {
		return "", "", fmt.Errorf("expected at most one input file, got %d", len(args))
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", err
	}
	return string(data), "<stdin>", nil
}

// printTokens dumps the token list, one per line with positions.
func printTokens(tokens []sql.Token, colors colorizer) {
	fmt.Println(colors.heading("Tokens:"))
	for i, tok := range tokens {
		pos := fmt.Sprintf("%d:%d", tok.Line, tok.Column)
		fmt.Printf("  %3d  %-8s %s\n", i+1, colors.dimmed(pos), tok)
	}

	summary := sql.LexemeSummary(tokens)
	if len(summary) > 0 {
		fmt.Println(colors.heading("Distinct Lexemes:"))
		for _, info := range summary {
			fmt.Printf("  %-12s %s\n", info.Type, info.Value)
		}
	}
}

// printTree renders the parse tree in the requested format.
func printTree(tree *sql.Node, format string, colors colorizer) error {
	switch format {
	case "none":
		return nil
	case config.FormatASCII:
		fmt.Println(colors.heading("Parse Tree:"))
		fmt.Print(tree.ASCII())
	case config.FormatTree:
		fmt.Println(colors.heading("Parse Tree:"))
		fmt.Print(tree.Indent())
	case config.FormatJSON:
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		return fmt.Errorf("unknown format %q (want ascii, tree, json, or none)", format)
	}
	return nil
}
