package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/BHAWESHBHASKAR/Fluent.is/internal/compile"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// runRepl reads Fluent snippets and prints the Python they transpile to.
// Input spanning multiple lines is accumulated until every block opened by
// if/while/foreach/function is closed by a matching end.
func runRepl(opts compile.Options) error {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".fluent_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            colorGreen + "fluent> " + colorReset,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s%sfluent REPL%s %s(type 'exit' or Ctrl+D to quit)%s\n\n",
		colorBold, colorCyan, colorReset, colorGray, colorReset)

	var accumulated strings.Builder
	blockDepth := 0

	for {
		if blockDepth > 0 {
			rl.SetPrompt(colorGray + "...     " + colorReset)
		} else {
			rl.SetPrompt(colorGreen + "fluent> " + colorReset)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if blockDepth > 0 {
					// Cancel multi-line input.
					accumulated.Reset()
					blockDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if blockDepth == 0 && strings.TrimSpace(line) == "exit" {
			break
		}

		blockDepth += blockDelta(line)
		if blockDepth < 0 {
			blockDepth = 0
		}
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		// Unclosed blocks: keep reading.
		if blockDepth > 0 {
			continue
		}
		blockDepth = 0

		source := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		python, err := compile.Compile(source, "<repl>", opts)
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "%s%s%s\n", colorRed, err, colorReset)
			continue
		}
		fmt.Fprint(rl.Stdout(), python)
	}
	return nil
}

// blockDelta counts how many blocks a line opens minus how many it closes.
// Comments are stripped first so keywords inside them do not count; keywords
// inside string literals are a known false positive the REPL tolerates.
func blockDelta(line string) int {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	delta := 0
	for _, word := range strings.Fields(line) {
		switch word {
		case "if", "while", "foreach", "function":
			delta++
		case "end":
			delta--
		}
	}
	return delta
}
