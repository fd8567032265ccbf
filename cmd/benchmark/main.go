package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/delaneyj/turnsignal/turn"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

const (
	configKey     = "config"
	cpuProfileKey = "cpuprofile"
)

// benchmarkConfig can be overridden from a TOML file, for example:
//
//	widths = [1, 10]
//	heights = [1, 10, 100]
//	iterations = 50
//	batch_sizes = [1, 16]
type benchmarkConfig struct {
	Widths     []int `toml:"widths"`
	Heights    []int `toml:"heights"`
	Iterations int   `toml:"iterations"`
	BatchSizes []int `toml:"batch_sizes"`
}

func defaultConfig() benchmarkConfig {
	return benchmarkConfig{
		Widths:     []int{1, 10, 100, 1_000},
		Heights:    []int{1, 10, 100},
		Iterations: 100,
		BatchSizes: []int{1, 10, 100, 1_000},
	}
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Time propagation and batched turns",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "TOML file overriding benchmark sizes",
			},
			&cli.StringFlag{
				Name:  cpuProfileKey,
				Usage: "Write a CPU profile to this file",
				Value: "default.pgo",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String(configKey))
			if err != nil {
				return err
			}

			if path := cmd.String(cpuProfileKey); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					return err
				}
				defer pprof.StopCPUProfile()
			}

			log.Info().Ints("widths", cfg.Widths).Ints("heights", cfg.Heights).Int("iterations", cfg.Iterations).Msg("warming up")
			if err := benchmarkPropagate(cfg, false); err != nil {
				return err
			}
			if err := benchmarkPropagate(cfg, true); err != nil {
				return err
			}
			return benchmarkBatch(cfg)
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("benchmark failed")
	}
}

func loadConfig(path string) (benchmarkConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load %s: %w", path, err)
	}
	if cfg.Iterations <= 0 {
		return cfg, fmt.Errorf("load %s: iterations must be positive", path)
	}
	return cfg, nil
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRow(table.Row{
		name,
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
	})
}

// benchmarkPropagate builds w chains of h consumers. Each consumer reads the
// previous link's signal and writes its own, so one source write walks the
// whole chain inside a single drain.
func benchmarkPropagate(cfg benchmarkConfig, shouldRender bool) error {
	tbl := newTable("Turn Signals")

	for _, w := range cfg.Widths {
		for _, h := range cfg.Heights {
			tach := tachymeter.New(&tachymeter.Config{Size: cfg.Iterations})

			sys := turn.NewSystem()
			src := turn.NewSignal(sys, 1)
			for i := 0; i < w; i++ {
				last := src
				for j := 0; j < h; j++ {
					prev := last
					next := turn.NewSignal(sys, 0)
					if _, err := sys.Mount(nil, "link", func(c *turn.Consumer) string {
						next.Write(prev.Read() + 1)
						return ""
					}); err != nil {
						return err
					}
					last = next
				}

				if _, err := sys.Mount(nil, "leaf", func(c *turn.Consumer) string {
					return strconv.Itoa(last.Read())
				}); err != nil {
					return err
				}
			}

			for i := 0; i < cfg.Iterations; i++ {
				start := time.Now()
				if err := sys.Turn(func() {
					src.Write(src.Peek() + 1)
				}); err != nil {
					return err
				}
				tach.AddTime(time.Since(start))
			}

			appendCalc(tbl, fmt.Sprintf("propagate: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
	return nil
}

// benchmarkBatch writes n signals in one turn, all read by one consumer.
func benchmarkBatch(cfg benchmarkConfig) error {
	tbl := newTable("Batched Turns")

	for _, n := range cfg.BatchSizes {
		tach := tachymeter.New(&tachymeter.Config{Size: cfg.Iterations})

		sys := turn.NewSystem()
		sources := make([]*turn.Signal[int], n)
		for i := range sources {
			sources[i] = turn.NewSignal(sys, i)
		}
		sum, err := sys.Mount(nil, "sum", func(c *turn.Consumer) string {
			total := 0
			for _, s := range sources {
				total += s.Read()
			}
			return strconv.Itoa(total)
		})
		if err != nil {
			return err
		}

		for i := 0; i < cfg.Iterations; i++ {
			start := time.Now()
			if err := sys.Turn(func() {
				for _, s := range sources {
					s.Write(s.Peek() + 1)
				}
			}); err != nil {
				return err
			}
			tach.AddTime(time.Since(start))
		}
		if sum.Renders() != cfg.Iterations+1 {
			return fmt.Errorf("batch %d: expected %d renders, got %d", n, cfg.Iterations+1, sum.Renders())
		}

		appendCalc(tbl, fmt.Sprintf("batch: %d writes", n), tach)
	}

	tbl.Render()
	return nil
}
