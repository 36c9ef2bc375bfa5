// Package cmd implements the n command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ankitr/N-lang/ast"
	"github.com/ankitr/N-lang/compiler"
	"github.com/ankitr/N-lang/doc"
	"github.com/ankitr/N-lang/interp"
	"github.com/ankitr/N-lang/parser"
	"github.com/ankitr/N-lang/resolver"
)

// Execute runs the n CLI with the given version string. Import host
// modules via blank imports before calling this function so they
// register via init().
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "n",
		Usage:                  "A small imperative language that compiles to JavaScript",
		Version:                version,
		UseShortOptionHandling: true,
		// Allow `n script.n` as shorthand for `n run script.n`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 && strings.HasSuffix(cmd.Args().First(), ".n") {
				return runFile(cmd.Args().First(), runOptions{})
			}
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Compile and run a .n file",
				ArgsUsage: "<file.n>",
				Flags: append(commonFlags(),
					&cli.BoolFlag{
						Name:  "interp",
						Usage: "Evaluate with the reference interpreter instead of compiling",
					},
				),
				Action: runAction,
			},
			{
				Name:      "emit",
				Usage:     "Output the generated JavaScript source",
				ArgsUsage: "<file.n>",
				Flags:     commonFlags(),
				Action:    emitAction,
			},
			{
				Name:      "ast",
				Usage:     "Print the parse tree",
				ArgsUsage: "<file.n>",
				Flags:     commonFlags(),
				Action:    astAction,
			},
			{
				Name:      "check",
				Usage:     "Parse and resolve without running",
				ArgsUsage: "<file.n>",
				Flags:     commonFlags(),
				Action:    checkAction,
			},
			{
				Name:      "doc",
				Usage:     "Show host module documentation",
				ArgsUsage: "[module]",
				Action:    docAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "print",
			Usage: "Name of the host print callback in generated code",
		},
		&cli.StringFlag{
			Name:  "ambiguity",
			Usage: "Ambiguous parse handling: fail or report",
			Value: "fail",
		},
	}
}

type runOptions struct {
	print     string
	ambiguity parser.AmbiguityPolicy
	interp    bool
}

func optionsFrom(cmd *cli.Command) (runOptions, error) {
	opts := runOptions{print: cmd.String("print")}
	switch cmd.String("ambiguity") {
	case "", "fail":
		opts.ambiguity = parser.Fail
	case "report":
		opts.ambiguity = parser.Report
	default:
		return opts, fmt.Errorf("unknown --ambiguity value %q (want fail or report)", cmd.String("ambiguity"))
	}
	return opts, nil
}

func sourceArg(cmd *cli.Command) (string, string, error) {
	if cmd.NArg() < 1 {
		return "", "", fmt.Errorf("usage: n %s <file.n>", cmd.Name)
	}
	filename := cmd.Args().First()
	src, err := os.ReadFile(filename)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", filename, err)
	}
	return filename, string(src), nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	opts, err := optionsFrom(cmd)
	if err != nil {
		return err
	}
	opts.interp = cmd.Bool("interp")
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: n run <file.n>")
	}
	return runFile(cmd.Args().First(), opts)
}

func runFile(filename string, opts runOptions) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	copts := compiler.Options{Print: opts.print, Ambiguity: opts.ambiguity}
	if opts.interp {
		res, err := compiler.Parse(string(src), copts)
		if err != nil {
			return renderError(filename, string(src), err)
		}
		reportAmbiguities(res)
		if _, err := resolver.Resolve(res.Program); err != nil {
			return renderError(filename, string(src), err)
		}
		if err := interp.New(os.Stdout).Run(res.Program); err != nil {
			return renderError(filename, string(src), err)
		}
		return nil
	}
	result, err := compiler.Compile(string(src), copts)
	if err != nil {
		return renderError(filename, string(src), err)
	}
	reportResult(result)
	if err := compiler.RunJS(result.JS, opts.print, os.Stdout); err != nil {
		return renderError(filename, string(src), err)
	}
	return nil
}

func emitAction(ctx context.Context, cmd *cli.Command) error {
	opts, err := optionsFrom(cmd)
	if err != nil {
		return err
	}
	filename, src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	result, err := compiler.Compile(src, compiler.Options{Print: opts.print, Ambiguity: opts.ambiguity})
	if err != nil {
		return renderError(filename, src, err)
	}
	reportResult(result)
	fmt.Print(result.JS)
	return nil
}

func astAction(ctx context.Context, cmd *cli.Command) error {
	opts, err := optionsFrom(cmd)
	if err != nil {
		return err
	}
	filename, src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	res, err := compiler.Parse(src, compiler.Options{Ambiguity: opts.ambiguity})
	if err != nil {
		return renderError(filename, src, err)
	}
	reportAmbiguities(res)
	fmt.Println(ast.DumpProgram(res.Program))
	return nil
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	opts, err := optionsFrom(cmd)
	if err != nil {
		return err
	}
	filename, src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	res, err := compiler.Parse(src, compiler.Options{Ambiguity: opts.ambiguity})
	if err != nil {
		return renderError(filename, src, err)
	}
	reportAmbiguities(res)
	if _, err := resolver.Resolve(res.Program); err != nil {
		return renderError(filename, src, err)
	}
	fmt.Printf("%s: ok\n", filename)
	return nil
}

func docAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		fmt.Print(doc.FormatAll())
		return nil
	}
	out, err := doc.FormatModule(cmd.Args().First())
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func reportResult(result *compiler.Result) {
	if len(result.Ambiguities) == 0 {
		return
	}
	r := &parser.Result{Program: result.Program, Ambiguities: result.Ambiguities}
	fmt.Fprint(os.Stderr, r.Report())
}

func reportAmbiguities(res *parser.Result) {
	if res.Ambiguous() {
		fmt.Fprint(os.Stderr, res.Report())
	}
}
