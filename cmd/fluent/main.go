// Command fluent is the CLI entry point for the Fluent-to-Python transpiler.
//
// Usage:
//
//	fluent emit <file>             Transpile one file, print Python to stdout
//	fluent emit <file> -o out.py   Transpile one file to out.py
//	fluent build [dir]             Transpile a project per fluent.toml
//	fluent parse <file>            Print AST as JSON
//	fluent parse <file> --tree     Print the concrete parse tree
//	fluent tokens <file> [--json]  Print tokens
//	fluent repl                    Start interactive REPL
//	fluent init [dir]              Write a starter fluent.toml
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"

	"github.com/BHAWESHBHASKAR/Fluent.is/internal/ast"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/compile"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/diag"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/lexer"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/parsetree"
	"github.com/BHAWESHBHASKAR/Fluent.is/internal/project"
)

var errCommandFailed = errors.New("command failed")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		if !errors.Is(err, errCommandFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "fluent",
		Usage: "Fluent to Python transpiler",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable compiler trace logging on stderr",
			},
		},
		Commands: []*cli.Command{
			newEmitCommand(),
			newBuildCommand(),
			newParseCommand(),
			newTokensCommand(),
			newReplCommand(),
			newInitCommand(),
		},
	}
}

// newLogger builds the per-invocation trace logger. Without --debug all
// trace output is discarded.
func newLogger(c *cli.Context) zerolog.Logger {
	if !c.Bool("debug") {
		return zerolog.Nop()
	}
	writer := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})
	return zerolog.New(writer).Level(zerolog.TraceLevel).With().Timestamp().Logger()
}

// ---- emit command ----

func newEmitCommand() *cli.Command {
	return &cli.Command{
		Name:      "emit",
		Usage:     "Transpile one source file to Python",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write Python to `FILE` instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one source file")
			}
			filename := c.Args().First()
			source, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", filename, err)
			}

			opts := compile.Options{Logger: newLogger(c)}
			python, err := compile.Compile(string(source), filename, opts)
			if err != nil {
				reportCompileError(err)
				return errCommandFailed
			}

			if out := c.String("output"); out != "" {
				return os.WriteFile(out, []byte(python), 0644)
			}
			fmt.Print(python)
			return nil
		},
	}
}

// ---- build command ----

func newBuildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Transpile every source file of a project per fluent.toml",
		ArgsUsage: "[dir]",
		Action: func(c *cli.Context) error {
			start := c.Args().First()
			if start == "" {
				start = "."
			}
			configPath := project.Find(start)
			if configPath == "" {
				return fmt.Errorf("no %s found from %s upwards", project.ConfigFileName, start)
			}
			cfg, err := project.Load(configPath)
			if err != nil {
				return err
			}
			return buildProject(filepath.Dir(configPath), cfg, newLogger(c))
		},
	}
}

// buildProject transpiles every source file under the project root into
// the configured output directory, preserving relative paths.
func buildProject(root string, cfg *project.Config, log zerolog.Logger) error {
	outDir := filepath.Join(root, cfg.Build.OutDir)
	failed := 0
	compiled := 0

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Never descend into our own output.
			if path == outDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != cfg.Build.SourceExt {
			return nil
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		python, err := compile.Compile(string(source), path, compile.Options{Logger: log})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s:\n", path)
			reportCompileError(err)
			failed++
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		target := filepath.Join(outDir, strings.TrimSuffix(rel, cfg.Build.SourceExt)+".py")
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(python), 0644); err != nil {
			return err
		}
		compiled++
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s %s: %d file(s) compiled to %s\n",
		cfg.Package.Name, cfg.Package.Version, compiled, outDir)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

// ---- parse command ----

func newParseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a source file and print the AST as JSON",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tree",
				Usage: "print the concrete parse tree instead of the AST",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one source file")
			}
			filename := c.Args().First()
			source, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", filename, err)
			}

			if c.Bool("tree") {
				tree, err := compile.Parse(string(source), filename)
				if err != nil {
					reportCompileError(err)
					return errCommandFailed
				}
				fmt.Print(parsetree.Pretty(tree))
				return nil
			}

			opts := compile.Options{Logger: newLogger(c)}
			prog, err := compile.BuildAST(string(source), filename, opts)
			if err != nil {
				reportCompileError(err)
				return errCommandFailed
			}
			printJSON(ast.NodeToMap(prog))
			return nil
		},
	}
}

// ---- tokens command ----

func newTokensCommand() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "Tokenize a source file and print the tokens",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print tokens as JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one source file")
			}
			filename := c.Args().First()
			source, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", filename, err)
			}

			tokens, diags := lexer.New(string(source), filename).Tokenize()
			if c.Bool("json") {
				printTokensJSON(tokens, diags)
			} else {
				printTokensText(tokens, diags)
			}
			if diags.HasErrors() {
				return errCommandFailed
			}
			return nil
		},
	}
}

// ---- init command ----

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Write a starter fluent.toml in the given directory",
		ArgsUsage: "[dir]",
		Action: func(c *cli.Context) error {
			dir := c.Args().First()
			if dir == "" {
				d, err := os.Getwd()
				if err != nil {
					return err
				}
				dir = d
			}
			configPath := filepath.Join(dir, project.ConfigFileName)
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("%s already exists", configPath)
			}
			cfg := project.Default(dir)
			if err := cfg.Save(configPath); err != nil {
				return err
			}
			fmt.Printf("created %s\n", configPath)
			return nil
		},
	}
}

// ---- repl command ----

func newReplCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start the interactive REPL",
		Action: func(c *cli.Context) error {
			return runRepl(compile.Options{Logger: newLogger(c)})
		},
	}
}

// reportCompileError prints a compilation failure by stage: syntax errors
// print one line per diagnostic, build and generation failures print one
// message.
func reportCompileError(err error) {
	var diags diag.Diagnostics
	if errors.As(err, &diags) {
		printDiagsText(diags)
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
