package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/arjpeg/helix/pkg/driver"
	"github.com/arjpeg/helix/pkg/interpreter"
	"github.com/arjpeg/helix/pkg/lexer"
	"github.com/arjpeg/helix/pkg/runtime"
)

const (
	historyFile = ".helix_history"
	promptMain  = "helix> "
	promptCont  = "   ... "
)

func runRepl(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "helix repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}

	// A project manifest in scope makes its paths and dependencies importable.
	var manifest *driver.Manifest
	var lock *driver.Lockfile
	if m, err := loadManifestFrom("."); err == nil {
		if l, lockErr := loadLockfileForManifest(m); lockErr == nil {
			manifest, lock = m, l
		} else {
			fmt.Fprintf(os.Stderr, "warning: %v\n", lockErr)
		}
	} else if !errors.Is(err, driver.ErrManifestNotFound) {
		fmt.Fprintf(os.Stderr, "warning: unable to load manifest: %v\n", err)
	}
	interp := interpreter.New(interpreterOptions(manifest, lock)...)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		return completions(interp.Names(), line)
	})

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintf(os.Stdout, "%s (type :quit to exit)\n", cliToolVersion)
	for {
		code, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		trimmed := strings.TrimSpace(code)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit" || trimmed == ":q":
			return 0
		case strings.HasPrefix(trimmed, ":"):
			fmt.Fprintln(os.Stdout, "unknown command. Type :quit to exit.")
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		evalInput(interp, code, os.Stdout, os.Stderr)
	}
}

// evalInput runs one REPL entry against the persistent interpreter. An
// interrupt cancels only this entry.
func evalInput(interp *interpreter.Interpreter, code string, stdout, stderr io.Writer) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	val, err := interp.EvaluateSource(ctx, "", code)
	if err != nil {
		reportError(stderr, err, "", code)
		return
	}
	if val != runtime.Null {
		fmt.Fprintln(stdout, runtime.Inspect(val))
	}
}

// readInput prompts until the brackets opened so far are closed. Ctrl-C at
// the prompt discards the pending input; EOF ends the session.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if openBrackets(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// openBrackets counts brackets left unclosed in src. Input that does not
// scan is reported as balanced so the error surfaces on evaluation.
func openBrackets(src string) int {
	tokens, err := lexer.Scan(src)
	if err != nil {
		return 0
	}
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			depth--
		}
	}
	return depth
}

// completions offers every visible name that extends the identifier at the
// end of line.
func completions(names []string, line string) []string {
	start := len(line)
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	prefix := line[start:]
	if prefix == "" {
		return nil
	}
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, line[:start]+name)
		}
	}
	return out
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
