//go:build !lambda

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cooldown-planner/checker"
	"cooldown-planner/fight"
	"cooldown-planner/internal/config"
	"cooldown-planner/internal/metrics"
	"cooldown-planner/internal/report"
	"cooldown-planner/optimizer"
)

var rootCmd = &cobra.Command{
	Use:   "cdplan",
	Short: "Raid cooldown planner",
	Long: `cdplan assigns raid members' cooldowns to the timed attacks of an encounter.
A fight file lists spells, the roster and the attack timeline; the optimizer
picks a valid set of assignments that scores best under the configured
weights, using greedy, exhaustive or local search (or all of them).`,
	SilenceUsage: true,
}

var log *slog.Logger

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	rootCmd.AddCommand(optimizeCmd(), validateCmd(), configCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CDPLAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	log = newLogger(os.Stderr, viper.GetBool("verbose"), false)
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "run configuration (YAML)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print search progress to stderr")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// loadConfig reads --config if given and applies flag and env overrides.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.Default()
	if path := v.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if v.IsSet("strategy") {
		s := v.GetString("strategy")
		if s == "all" {
			cfg.Portfolio = cfg.Portfolio[:0]
			for _, st := range optimizer.Strategies() {
				cfg.Portfolio = append(cfg.Portfolio, st.String())
			}
		} else {
			cfg.Strategy = s
			cfg.Portfolio = nil
		}
	}
	if v.IsSet("iterations") {
		cfg.Iterations = v.GetInt("iterations")
	}
	if v.IsSet("time") {
		cfg.TimeBudget = v.GetDuration("time")
	}
	if v.IsSet("seed") {
		cfg.Seed = v.GetUint64("seed")
	}
	if v.IsSet("max-per-attack") {
		cfg.MaxPerAttack = v.GetInt("max-per-attack")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func optimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize <fight.json>",
		Short: "Compute a cooldown plan for a fight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := fight.Load(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(viper.GetViper())
			if err != nil {
				return err
			}
			runs, err := cfg.Runs()
			if err != nil {
				return err
			}
			log.Info("loaded fight", "fight", m.ID(), "attacks", len(m.Attacks()),
				"roster", len(m.Roster()), "runs", len(runs))

			if addr := viper.GetString("metrics-addr"); addr != "" {
				stop := serveMetrics(addr, runs)
				defer stop()
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			plan, err := solve(ctx, m, runs)
			if err != nil {
				return err
			}
			log.Info("plan ready", "strategy", plan.Strategy, "score", plan.Score,
				"assignments", len(plan.Assignments), "steps", plan.Iterations,
				"exhausted", plan.Exhausted, "elapsed", plan.Elapsed)

			if out := viper.GetString("out"); out != "" {
				if err := report.SavePlan(out, plan); err != nil {
					return err
				}
			}
			if path := viper.GetString("xlsx"); path != "" {
				if err := report.ExportXLSX(path, plan, m); err != nil {
					return err
				}
			}
			switch {
			case viper.GetBool("json"):
				return printJSON(plan)
			case viper.GetBool("table"):
				report.WriteTable(os.Stdout, plan, m)
			default:
				fmt.Print(report.FormatPlan(plan, m))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("strategy", "s", "", "greedy, exhaustive, local-search or all")
	f.IntP("iterations", "n", 0, "search step budget")
	f.Duration("time", 0, "wall-clock budget, e.g. 2s")
	f.Uint64("seed", 0, "local search seed")
	f.Int("max-per-attack", 0, "cap on assignments per attack (0 = attack need)")
	f.Bool("json", false, "print the plan as JSON")
	f.Bool("table", false, "print the plan as a table")
	f.StringP("out", "o", "", "save the plan (.json or .yaml)")
	f.String("xlsx", "", "export the plan as a workbook")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
	for _, name := range []string{"strategy", "iterations", "time", "seed", "max-per-attack", "json", "table", "out", "xlsx", "metrics-addr"} {
		_ = viper.BindPFlag(name, f.Lookup(name))
	}
	return cmd
}

// serveMetrics attaches a collector to every run and serves it until the
// returned stop func is called.
func serveMetrics(addr string, runs []optimizer.Config) func() {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	for i := range runs {
		runs[i].Observer = c
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", "addr", addr, "err", err)
		}
	}()
	log.Info("serving metrics", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <fight.json> <plan.(json|yaml)>",
		Short: "Check a saved plan against a fight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := fight.Load(args[0])
			if err != nil {
				return err
			}
			p, err := report.LoadPlan(args[1])
			if err != nil {
				return err
			}
			if p.FightID != m.ID() {
				log.Warn("plan was computed for another fight", "plan", p.FightID, "fight", m.ID())
			}
			states := checker.States(m, p.Assignments)
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Attack", "Character", "Spell", "State"})
			invalid := 0
			for i, a := range p.Assignments {
				if !states[i].IsValid() {
					invalid++
				}
				tw.AppendRow(table.Row{a.Attack, a.Character, a.Spell, states[i]})
			}
			tw.Render()
			if invalid > 0 {
				return fmt.Errorf("%d of %d assignments invalid", invalid, len(p.Assignments))
			}
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Inspect run configuration"}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(viper.GetViper())
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	})
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
