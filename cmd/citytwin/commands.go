package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/citytwin/bfs"
	"github.com/katalvlaran/citytwin/builder"
	"github.com/katalvlaran/citytwin/dijkstra"
	"github.com/katalvlaran/citytwin/internal/server"
	"github.com/katalvlaran/citytwin/metrics"
	"github.com/katalvlaran/citytwin/policy"
)

func runCmd(gf *globalFlags) *cobra.Command {
	var (
		ticks      int
		seed       int64
		policyFile string
		text       string
		asYAML     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a fixed number of ticks and print the metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ticks < 1 {
				return errors.New("--ticks must be >= 1")
			}
			cfg, err := loadConfig(gf)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Grid.Seed = &seed
				cfg.Simulation.Seed = &seed
			}

			logger := newLogger(gf.verbose)
			if !gf.verbose {
				logger.SetOutput(io.Discard)
			}
			s, err := newSession(cfg, logger, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if policyFile != "" {
				records, err := readPolicyFile(policyFile)
				if err != nil {
					return err
				}
				b, err := s.ApplyPolicy(records...)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "applied %d policy record(s) from %s (%d skipped)\n", len(b.Applied), policyFile, len(b.Skipped))
			}
			if text != "" {
				in, b, err := s.Submit(cmd.Context(), text)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "interpreted %q: %d action(s): %s\n", text, len(b.Applied), in.Reasoning)
			}

			var last metrics.Snapshot
			for i := 1; i <= ticks; i++ {
				if last, err = s.Tick(); err != nil {
					return err
				}
				if !asYAML {
					fmt.Fprintf(out, "tick %3d  congestion %6.2f  travel %8.2f  emergency %8.2f  emissions %6d\n",
						i, last.CongestionIndex, last.AvgTravelTime, last.EmergencyResponseTime, last.Emissions)
				}
			}
			if asYAML {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err = enc.Encode(s.History()); err != nil {
					return err
				}
				return enc.Close()
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 10, "number of ticks to run")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for the initial grid and ambient traffic")
	cmd.Flags().StringVarP(&policyFile, "policy", "p", "", "YAML/JSON policy records applied before the first tick")
	cmd.Flags().StringVarP(&text, "text", "t", "", "natural-language policy applied before the first tick")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the metric history as YAML")
	return cmd
}

func readPolicyFile(path string) ([]policy.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return policy.ParseRecords(f)
}

func routeCmd(gf *globalFlags) *cobra.Command {
	var policyFile string

	cmd := &cobra.Command{
		Use:   "route FROM TO",
		Short: "Print the least-cost path between two intersections of the reference city",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(gf)
			if err != nil {
				return err
			}
			g, err := builder.ReferenceCity(cfg.BuilderOptions()...)
			if err != nil {
				return err
			}
			if policyFile != "" {
				records, err := readPolicyFile(policyFile)
				if err != nil {
					return err
				}
				if g, _, err = policy.ApplyRecords(g, records...); err != nil {
					return err
				}
			}

			path, err := dijkstra.ShortestPath(g, args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(path) == 0 && args[0] != args[1] {
				fmt.Fprintf(out, "%s is unreachable from %s\n", args[1], args[0])
				reach, err := bfs.BFS(g, args[0], bfs.WithContext(cmd.Context()))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "reachable from %s: %d of %d intersection(s)\n", args[0], len(reach.Order), g.NodeCount())
				return nil
			}
			cost, err := dijkstra.PathCost(g, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\ncost %.2f over %d edge(s)\n", strings.Join(path, " -> "), cost, len(path))
			return nil
		},
	}

	cmd.Flags().StringVarP(&policyFile, "policy", "p", "", "YAML/JSON policy records applied before routing")
	return cmd
}

func serveCmd(gf *globalFlags) *cobra.Command {
	var (
		addr     string
		autoTick bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(gf)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			logger := newLogger(gf.verbose)
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			s, err := newSession(cfg, logger, metrics.NewRecorder(reg))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if autoTick {
				go func() {
					if err := s.Run(ctx, cfg.Simulation.TickInterval); err != nil {
						logger.Printf("tick loop stopped: %v", err)
					}
				}()
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.New(s, reg, logger).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				logger.Printf("listening on %s (session %s)", cfg.Server.Addr, s.ID())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err = <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Printf("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().BoolVar(&autoTick, "auto-tick", true, "advance the simulation every simulation.tick_interval")
	return cmd
}
