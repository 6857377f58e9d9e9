package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/judge/internal/execution"
	"github.com/urfave/cli/v3"
)

func execCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Compile and run a source file once",
		ArgsUsage: "<source file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Usage: "cpp, python or java"},
			&cli.StringFlag{Name: "stdin", Aliases: []string{"i"}, Usage: "file fed to standard input, - for stdin"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return cli.Exit("missing source file", 2)
			}
			lang, err := languageOf(cmd.String("lang"), path)
			if err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			stdin, err := readInput(cmd.String("stdin"))
			if err != nil {
				return err
			}

			e, release, err := newEngine(cmd, false, nil)
			if err != nil {
				return err
			}
			defer release()

			res := e.Execute(ctx, execution.Request{Language: lang, Source: source, Stdin: stdin})
			printResult(res)
			if !res.IsSuccess() {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func printResult(res execution.Result) {
	fmt.Fprint(os.Stdout, res.Stdout)
	fmt.Fprint(os.Stderr, res.Stderr)
	if res.Diagnostics != "" {
		fmt.Fprintln(os.Stderr, res.Diagnostics)
	}
	status := color.New(color.FgGreen)
	if !res.IsSuccess() {
		status = color.New(color.FgRed)
	}
	line := fmt.Sprintf("%s in %s", res.Outcome, res.WallTime.Round(time.Millisecond))
	if !res.IsSuccess() {
		line = fmt.Sprintf("%s: %s", res.Outcome, res.Summary())
	}
	status.Fprintln(os.Stderr, line)
}
