package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

func languagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "List the configured languages and their commands",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, release, err := newEngine(cmd, false, nil)
			if err != nil {
				return err
			}
			defer release()

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "Name", "Source", "Compile", "Execute"})
			for _, spec := range e.Languages() {
				compile := strings.Join(spec.CompileCmd, " ")
				if compile == "" {
					compile = "-"
				}
				t.AppendRow(table.Row{spec.ID, spec.Name, spec.SourceFile, compile, strings.Join(spec.ExecCmd, " ")})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
}

func problemsCommand() *cli.Command {
	return &cli.Command{
		Name:  "problems",
		Usage: "List the problems in the problem directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ds, err := openStore(cmd)
			if err != nil {
				return err
			}
			if ds == nil {
				return fmt.Errorf("problem directory %s does not exist", cmd.String("problems-dir"))
			}
			defer ds.Close()

			ids, err := ds.List()
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "Difficulty", "Name"})
			for _, id := range ids {
				p, err := ds.FindProblemByID(ctx, id)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", id, err)
					continue
				}
				t.AppendRow(table.Row{p.ID, p.Difficulty, p.Name})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
}
