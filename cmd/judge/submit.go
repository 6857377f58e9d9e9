package main

import (
	"context"
	"fmt"
	"os"

	"github.com/programme-lv/judge/internal/gatherer/termgath"
	"github.com/programme-lv/judge/internal/judge"
	"github.com/urfave/cli/v3"
)

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "Judge a source file against a stored problem",
		ArgsUsage: "<source file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "problem", Aliases: []string{"p"}, Required: true},
			&cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Usage: "cpp, python or java"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print outputs of every test case"},
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

			e, release, err := newEngine(cmd, true, nil)
			if err != nil {
				return err
			}
			defer release()

			sub := judge.Submission{Language: lang, Source: source}
			verdict, err := e.Judge(ctx, sub, cmd.String("problem"), termgath.New(cmd.Bool("verbose")))
			if err != nil {
				return err
			}
			if !verdict.Accepted() {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "Run a problem's reference solution on custom input",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "problem", Aliases: []string{"p"}, Required: true},
			&cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Value: "cpp"},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input file, - for stdin"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			input, err := readInput(cmd.String("input"))
			if err != nil {
				return err
			}
			lang, err := languageOf(cmd.String("lang"), "")
			if err != nil {
				return err
			}

			e, release, err := newEngine(cmd, true, nil)
			if err != nil {
				return err
			}
			defer release()

			res, err := e.Probe(ctx, cmd.String("problem"), lang, input)
			if err != nil {
				return fmt.Errorf("probe %s: %w", cmd.String("problem"), err)
			}
			printResult(res)
			if !res.IsSuccess() {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
