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
Package main is the entry point for the interactive sqlfront shell.

Shell Overview:
===============

The sqlfront shell is a REPL (Read-Eval-Print Loop) that runs the full
front-end pipeline on each statement the user types:

 1. Read a line (statements may span several lines; input is buffered
    until a terminating semicolon)
 2. Tokenize, parse, and analyze the statement
 3. Print errors, the parse tree, and optionally tokens and symbols
 4. Repeat

The semantic analyzer is shared across the whole session, so a table
created on one line is visible to every later statement:

	sqlfront> CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(50));
	sqlfront> SELECT name FROM users WHERE id = 1;

Command Types:
==============

The shell supports two types of input:

 1. Local Commands (prefixed with \):
    - \q or \quit   : Exit the shell
    - \h or \help   : Display help information
    - \tokens       : Toggle the token dump for each statement
    - \symbols      : Print the current symbol table
    - \format <fmt> : Set the tree format (ascii, tree, json, none)
    - \reset        : Discard the symbol table and start fresh
    - \clear        : Clear the screen
    - \v or \version: Show version information

 2. SQL statements, terminated by a semicolon. A line without a
    terminating semicolon starts multi-line input; the prompt changes
    to "      -> " until the statement is complete.

Line Editing:
=============

When stdin is a terminal the shell uses readline for history (persisted
to the configured history file), keyword tab-completion, and Ctrl-C /
Ctrl-D handling. Piped input falls back to a plain line reader so the
shell stays usable in scripts:

	cat queries.sql | sqlfront-shell
*/
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
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

// isTerminal returns true if stdin is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// session holds the state shared across the whole shell session.
type session struct {
	analyzer    *sql.SemanticAnalyzer
	format      string
	showTokens  bool
	colors      colorizer
	log         *logging.Logger
	statements  int
	totalErrors int
}

// localCommands lists the backslash commands offered by tab completion.
var localCommands = []string{
	"\\q", "\\quit", "\\h", "\\help", "\\tokens", "\\symbols",
	"\\format", "\\reset", "\\clear", "\\v", "\\version",
}

// createCompleter builds the readline completer from the local commands
// and the full SQL keyword set.
func createCompleter() *readline.PrefixCompleter {
	keywords := sql.KeywordList()
	items := make([]readline.PrefixCompleterInterface, 0, len(localCommands)+len(keywords))
	for _, cmd := range localCommands {
		items = append(items, readline.PcItem(cmd))
	}
	for _, kw := range keywords {
		items = append(items, readline.PcItem(kw))
	}
	return readline.NewPrefixCompleter(items...)
}

// filterInput filters input runes for readline.
func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false // Disable Ctrl+Z
	}
	return r, true
}

// createReadlineInstance creates a configured readline instance.
func createReadlineInstance(historyFile string, colors colorizer) (*readline.Instance, error) {
	cfg := &readline.Config{
		Prompt:          colors.heading("sqlfront") + colors.dimmed(">") + " ",
		HistoryFile:     historyFile,
		AutoComplete:    createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	}
	return readline.NewEx(cfg)
}

func printUsage() {
	fmt.Println()
	fmt.Printf("sqlfront-shell v%s - interactive SQL front-end\n", banner.Version)
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  sqlfront-shell [options]")
	fmt.Println("  cat queries.sql | sqlfront-shell")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format <fmt>        Tree format: ascii, tree, json, none (default: ascii)")
	fmt.Println("  -history <path>      History file location")
	fmt.Println("  -no-color            Disable ANSI colors even on a terminal")
	fmt.Println("  -log-level <level>   Log level: debug, info, warn, error (default: info)")
	fmt.Println("  -log-json            Enable JSON log output")
	fmt.Println("  -config <path>       Path to configuration file")
	fmt.Println("  -version             Show version information")
	fmt.Println("  -help                Show this help message")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Printf("  %-22s Output format (ascii, tree, json)\n", config.EnvFormat)
	fmt.Printf("  %-22s Set to 0/false to disable colors\n", config.EnvColor)
	fmt.Printf("  %-22s History file location\n", config.EnvHistoryFile)
	fmt.Printf("  %-22s Path to configuration file\n", config.EnvConfigFile)
	fmt.Println()
}

func printHelp(colors colorizer) {
	fmt.Println(colors.heading("Local commands:"))
	fmt.Println("  \\q, \\quit       Exit the shell")
	fmt.Println("  \\h, \\help       Show this help")
	fmt.Println("  \\tokens         Toggle the token dump for each statement")
	fmt.Println("  \\symbols        Print the current symbol table")
	fmt.Println("  \\format <fmt>   Set tree format: ascii, tree, json, none")
	fmt.Println("  \\reset          Discard the symbol table and start fresh")
	fmt.Println("  \\clear          Clear the screen")
	fmt.Println("  \\v, \\version    Show version information")
	fmt.Println()
	fmt.Println(colors.heading("SQL input:"))
	fmt.Println("  Statements end with a semicolon and may span several lines.")
	fmt.Println("  Tables created in one statement are visible to later ones.")
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

	format := flag.String("format", cfg.Format, "Tree format: ascii, tree, json, none")
	history := flag.String("history", cfg.HistoryFile, "History file location")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	logJSON := flag.Bool("log-json", cfg.LogJSON, "Enable JSON log output")
	configFile := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help message")

	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("sqlfront-shell version %s\n", banner.Version)
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

	interactive := isTerminal()
	colors := colorizer(cfg.Color && !*noColor && interactive)

	sess := &session{
		analyzer: sql.NewSemanticAnalyzer(),
		format:   *format,
		colors:   colors,
		log:      logging.NewLogger("shell"),
	}

	if interactive {
		return runInteractive(sess, *history)
	}
	return runPiped(sess)
}

// runInteractive drives the readline-based REPL.
func runInteractive(sess *session, historyFile string) int {
	banner.Fprint(os.Stdout, bool(sess.colors))
	fmt.Printf("  Type %s to quit, %s for help, %s for completion\n",
		sess.colors.heading("\\q"), sess.colors.heading("\\h"), sess.colors.heading("Tab"))
	fmt.Println()

	rl, err := createReadlineInstance(historyFile, sess.colors)
	if err != nil {
		// Fall back to the plain reader if readline fails.
		fmt.Fprintf(os.Stderr, "Warning: line editing unavailable: %v\n", err)
		return runPiped(sess)
	}
	defer rl.Close()

	basePrompt := sess.colors.heading("sqlfront") + sess.colors.dimmed(">") + " "
	contPrompt := sess.colors.dimmed("      -> ")

	var buffer strings.Builder
	inMultiLine := false

	for {
		if inMultiLine {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(basePrompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if inMultiLine {
					// Cancel the pending statement.
					buffer.Reset()
					inMultiLine = false
					continue
				}
				fmt.Println(sess.colors.dimmed("(Use \\q to quit or Ctrl+D to exit)"))
				continue
			}
			if err == io.EOF {
				fmt.Println()
			}
			break
		}

		input := strings.TrimSpace(line)

		if !inMultiLine {
			if input == "" {
				continue
			}
			if strings.HasPrefix(input, "\\") {
				if quit := sess.handleLocalCommand(input); quit {
					break
				}
				continue
			}
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")

		if !statementComplete(buffer.String()) {
			inMultiLine = true
			continue
		}

		sess.execute(buffer.String())
		buffer.Reset()
		inMultiLine = false
	}

	sess.log.Info("session complete", "statements", sess.statements, "errors", sess.totalErrors)
	return 0
}

// runPiped processes stdin without readline, for scripted use. The
// whole input is split on semicolons the same way the interactive
// loop does, so files produced for the batch analyzer work here too.
func runPiped(sess *session) int {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var buffer strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if buffer.Len() == 0 {
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "\\") {
				if quit := sess.handleLocalCommand(trimmed); quit {
					return 0
				}
				continue
			}
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")

		if statementComplete(buffer.String()) {
			sess.execute(buffer.String())
			buffer.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	// Analyze whatever is left even without a terminating semicolon.
	if strings.TrimSpace(buffer.String()) != "" {
		sess.execute(buffer.String())
	}

	sess.log.Info("session complete", "statements", sess.statements, "errors", sess.totalErrors)
	if sess.totalErrors > 0 {
		return 1
	}
	return 0
}

// statementComplete reports whether the buffered input ends in a
// terminating semicolon, ignoring trailing whitespace and comments.
func statementComplete(text string) bool {
	tokens, _ := sql.Tokenize(text)
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Type == sql.TokenEOF {
			continue
		}
		return tokens[i].Type == sql.TokenDelimiter && tokens[i].Value == ";"
	}
	return false
}

// handleLocalCommand processes a backslash command. It returns true
// when the shell should exit.
func (s *session) handleLocalCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "\\q", "\\quit":
		return true
	case "\\h", "\\help":
		printHelp(s.colors)
	case "\\tokens":
		s.showTokens = !s.showTokens
		if s.showTokens {
			fmt.Println("Token dump enabled.")
		} else {
			fmt.Println("Token dump disabled.")
		}
	case "\\symbols":
		fmt.Print(s.analyzer.SymbolTable().String())
	case "\\format":
		if len(parts) != 2 {
			fmt.Println(s.colors.errorText("Usage: \\format <ascii|tree|json|none>"))
			break
		}
		switch parts[1] {
		case config.FormatASCII, config.FormatTree, config.FormatJSON, "none":
			s.format = parts[1]
			fmt.Printf("Tree format set to %s.\n", parts[1])
		default:
			fmt.Println(s.colors.errorText(fmt.Sprintf("Unknown format %q (want ascii, tree, json, or none)", parts[1])))
		}
	case "\\reset":
		s.analyzer = sql.NewSemanticAnalyzer()
		fmt.Println("Symbol table cleared.")
	case "\\clear":
		fmt.Print("\033[H\033[2J")
	case "\\v", "\\version":
		fmt.Printf("sqlfront-shell version %s\n", banner.Version)
	default:
		fmt.Println(s.colors.errorText(fmt.Sprintf("Unknown command %s. Type \\h for help.", cmd)))
	}
	return false
}

// execute runs the full pipeline on one buffered statement batch and
// prints the results.
func (s *session) execute(source string) {
	s.statements++

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

	if s.showTokens {
		fmt.Println(s.colors.heading("Tokens:"))
		for i, tok := range tokens {
			pos := fmt.Sprintf("%d:%d", tok.Line, tok.Column)
			fmt.Printf("  %3d  %-8s %s\n", i+1, s.colors.dimmed(pos), tok)
		}
	}
	for _, sug := range lexer.Suggestions() {
		fmt.Println(s.colors.warnText(sug.String()))
	}

	parser := sql.NewParser(tokens)
	tree := parser.Parse()
	synErrs := parser.Errors()

	// Analyze only clean input, so a recovered tree can neither emit
	// misleading semantic errors nor pollute the session symbol table.
	var semErrs []string
	if len(lexErrs) == 0 && len(synErrs) == 0 {
		_, semErrs, _ = s.analyzer.Analyze(tree)
	}

	for _, e := range lexErrs {
		fmt.Println(s.colors.errorText(e.Error()))
	}
	for _, e := range synErrs {
		fmt.Println(s.colors.errorText(e.Error()))
	}
	for _, msg := range semErrs {
		fmt.Println(s.colors.errorText(msg))
	}

	total := len(lexErrs) + len(synErrs) + len(semErrs)
	s.totalErrors += total
	s.log.Debug("statement analyzed", "lex_errors", len(lexErrs),
		"syntax_errors", len(synErrs), "semantic_errors", len(semErrs))

	if total > 0 {
		return
	}

	switch s.format {
	case "none":
	case config.FormatTree:
		fmt.Print(tree.Indent())
	case config.FormatJSON:
		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Println(string(data))
	default:
		fmt.Print(tree.ASCII())
	}
	fmt.Println(s.colors.successText("OK"))
}
