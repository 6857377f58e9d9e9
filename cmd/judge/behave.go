package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/programme-lv/judge/internal/behave"
	"github.com/programme-lv/judge/internal/gatherer/termgath"
	"github.com/programme-lv/judge/internal/judge"
	"github.com/urfave/cli/v3"
)

func behaveCommand() *cli.Command {
	return &cli.Command{
		Name:      "behave",
		Usage:     "Run TOML scenarios and check their verdicts",
		ArgsUsage: "<scenarios.toml>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print judging progress"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return cli.Exit("missing scenario file", 2)
			}
			var cases []behave.Case
			for _, path := range cmd.Args().Slice() {
				c, err := behave.ParseFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				cases = append(cases, c...)
			}

			e, release, err := newEngine(cmd, false, nil)
			if err != nil {
				return err
			}
			defer release()

			var gath judge.ResultGatherer
			if cmd.Bool("verbose") {
				gath = termgath.New(true)
			}

			failed := 0
			for _, r := range behave.Run(ctx, e, cases, gath) {
				if r.Passed() {
					color.Green("PASS %s", r)
					continue
				}
				failed++
				color.Red("FAIL %s", r)
			}
			fmt.Printf("%d/%d scenarios passed\n", len(cases)-failed, len(cases))
			if failed > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
