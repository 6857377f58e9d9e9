package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/judge/internal/metrics"
	"github.com/programme-lv/judge/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve execute, judge and probe requests over NATS",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "nats-url", Value: env.NatsURL},
			&cli.StringFlag{Name: "subject-prefix", Value: env.NatsSubjectPrefix},
			&cli.StringFlag{Name: "queue-group", Value: env.NatsQueueGroup},
			&cli.StringFlag{Name: "metrics-addr", Value: env.MetricsAddr, Usage: "empty disables the metrics endpoint"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := slog.Default()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			rec := metrics.New(reg)

			_, statErr := os.Stat(cmd.String("problems-dir"))
			withStore := statErr == nil
			if !withStore {
				logger.Warn("problem directory not found, only inline tests can be judged", "dir", cmd.String("problems-dir"))
			}
			e, release, err := newEngine(cmd, withStore, rec)
			if err != nil {
				return err
			}
			defer release()

			nc, err := nats.Connect(cmd.String("nats-url"),
				nats.Name("judge"),
				nats.MaxReconnects(-1),
				nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
					logger.Warn("disconnected from NATS", "err", err)
				}),
				nats.ReconnectHandler(func(c *nats.Conn) {
					logger.Info("reconnected to NATS", "url", c.ConnectedUrl())
				}),
			)
			if err != nil {
				return fmt.Errorf("connect to NATS: %w", err)
			}
			defer nc.Close()

			srv := server.New(e, nc, server.Config{
				SubjectPrefix: cmd.String("subject-prefix"),
				QueueGroup:    cmd.String("queue-group"),
				RateLimit:     env.RateLimit,
				SqsRegion:     env.SqsRegion,
			}, rec, logger)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(ctx)
			})
			if addr := cmd.String("metrics-addr"); addr != "" {
				g.Go(func() error {
					return server.ServeMetrics(ctx, addr, reg, logger)
				})
			}
			return g.Wait()
		},
	}
}
