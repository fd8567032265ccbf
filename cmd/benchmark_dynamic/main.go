package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/turnsignal/turn"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	log.Info().Msg("Starting turnsignal dynamic benchmark, please wait...")
	defer log.Info().Msg("Finished turnsignal dynamic benchmark")

	perfTestCfgs := []benchmarkTestConfig{
		{
			name:           "simple component",
			width:          10,
			staticFraction: 1,
			nSources:       2,
			totalLayers:    5,
			readFraction:   0.2,
			iterations:     60000,
		},
		{
			name:           "dynamic component",
			width:          10,
			totalLayers:    10,
			staticFraction: 0.75,
			nSources:       6,
			readFraction:   0.2,
			iterations:     15000,
		},
		{
			name:           "large web app",
			width:          1000,
			totalLayers:    12,
			staticFraction: 0.95,
			nSources:       4,
			readFraction:   1,
			iterations:     700,
		},
		{
			name:           "wide dense",
			width:          1000,
			totalLayers:    5,
			staticFraction: 1,
			nSources:       25,
			readFraction:   1,
			iterations:     300,
		},
		{
			name:           "deep",
			width:          5,
			totalLayers:    500,
			staticFraction: 1,
			nSources:       3,
			readFraction:   1,
			iterations:     500,
		},
		{
			name:           "very dynamic",
			width:          100,
			totalLayers:    15,
			staticFraction: 0.5,
			nSources:       6,
			readFraction:   1,
			iterations:     2000,
		},
	}

	type results struct {
		sum      int
		count    int64
		duration time.Duration
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"framework", "size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "renders", "updateRate", "title",
	})

	testRepeats := 5
	for _, cfg := range perfTestCfgs {
		log.Info().Str("config", cfg.name).Msg("running")

		bestResult := &results{
			duration: time.Hour,
		}

		for i := 0; i <= testRepeats; i++ {
			// a fresh graph per repeat, the first one warms up
			counter := new(int64)
			sys := turn.NewSystem()
			graph, err := benchmarkMakeGraph(sys, cfg, counter)
			if err != nil {
				log.Fatal().Err(err).Str("config", cfg.name).Msg("building graph")
			}
			*counter = 0

			start := time.Now()
			sum, err := benchmarkRunGraph(sys, graph, cfg)
			duration := time.Since(start)
			if err != nil {
				log.Fatal().Err(err).Str("config", cfg.name).Msg("running graph")
			}
			if i == 0 {
				continue
			}
			log.Debug().Str("config", cfg.name).Int("repeat", i).Dur("duration", duration).Msg("repeat")

			if duration < bestResult.duration {
				bestResult.duration = duration
				bestResult.sum = sum
				bestResult.count = *counter
			}
		}

		makeTitle := func() string {
			sb := strings.Builder{}
			sb.WriteString(fmt.Sprintf("%dx%d %d sources", cfg.width, cfg.totalLayers, cfg.nSources))
			if cfg.staticFraction < 1 {
				sb.WriteString(" dynamic")
			}
			if cfg.readFraction < 1 {
				sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*cfg.readFraction))
			}
			return sb.String()
		}

		updateRate := float64(bestResult.count) / (float64(bestResult.duration) / float64(time.Millisecond))

		table.Append([]string{
			"turnsignal",
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			fmt.Sprint(cfg.readFraction),
			fmt.Sprint(cfg.staticFraction),
			humanize.Comma(cfg.iterations),
			cfg.name,
			fmt.Sprint(bestResult.duration),
			humanize.Comma(bestResult.count),
			humanize.Comma(int64(updateRate)),
			makeTitle(),
		})
	}
	table.Render()
}

type benchmarkTestConfig struct {
	name           string  // friendly name for the test, should be unique
	width          int64   // width of dependency graph to construct
	totalLayers    int64   // depth of dependency graph to construct
	staticFraction float64 // fraction of nodes that always read every source
	nSources       int64   // number of sources each node reads
	readFraction   float64 // fraction of the last layer summed after the run
	iterations     int64   // number of source writes, one turn each
}

// benchmarkNode is a consumer publishing its sum through out.
type benchmarkNode struct {
	consumer *turn.Consumer
	out      *turn.Signal[int]
}

type benchmarkGraph struct {
	sources []*turn.Signal[int]
	layers  [][]*turn.Signal[int]
}

func benchmarkMakeGraph(sys *turn.System, cfg benchmarkTestConfig, counter *int64) (*benchmarkGraph, error) {
	sources := make([]*turn.Signal[int], cfg.width)
	for i := range sources {
		sources[i] = turn.NewSignal(sys, i)
	}
	graph := &benchmarkGraph{sources: sources}

	random := rand.New(rand.NewSource(0))
	prevRow := sources
	for l := int64(0); l < cfg.totalLayers-1; l++ {
		row, err := makeBenchmarkRow(sys, prevRow, cfg, counter, random)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", l, err)
		}
		outs := make([]*turn.Signal[int], len(row))
		for i, node := range row {
			outs[i] = node.out
		}
		graph.layers = append(graph.layers, outs)
		prevRow = outs
	}
	return graph, nil
}

func makeBenchmarkRow(sys *turn.System, prevRow []*turn.Signal[int], cfg benchmarkTestConfig, counter *int64, random *rand.Rand) ([]benchmarkNode, error) {
	row := make([]benchmarkNode, len(prevRow))
	for myDex := range prevRow {
		mySources := make([]*turn.Signal[int], 0, cfg.nSources)
		for sourceDex := 0; sourceDex < int(cfg.nSources); sourceDex++ {
			mySources = append(mySources, prevRow[(myDex+sourceDex)%len(prevRow)])
		}

		out := turn.NewSignal(sys, 0)
		var render turn.RenderFunc
		if random.Float64() < cfg.staticFraction {
			render = func(c *turn.Consumer) string {
				*counter++
				sum := 0
				for _, source := range mySources {
					sum += source.Read()
				}
				out.Write(sum)
				return ""
			}
		} else {
			first := mySources[0]
			tail := mySources[1:]
			render = func(c *turn.Consumer) string {
				*counter++
				sum := first.Read()
				shouldDrop := sum&0x1 > 0
				dropDex := 0
				if len(tail) > 0 {
					dropDex = sum % len(tail)
				}
				for i := 0; i < len(tail); i++ {
					if shouldDrop && i == dropDex {
						continue
					}
					sum += tail[i].Read()
				}
				out.Write(sum)
				return ""
			}
		}

		c, err := sys.Mount(nil, "node", render)
		if err != nil {
			return nil, err
		}
		row[myDex] = benchmarkNode{consumer: c, out: out}
	}
	return row, nil
}

// benchmarkRunGraph writes one source per turn and returns the sum of the
// sampled leaves.
func benchmarkRunGraph(sys *turn.System, graph *benchmarkGraph, cfg benchmarkTestConfig) (int, error) {
	random := rand.New(rand.NewSource(0))
	leaves := graph.layers[len(graph.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - cfg.readFraction)))
	readLeaves := benchmarkRemoveElems(leaves, skipCount, random)

	for i := 0; i < int(cfg.iterations); i++ {
		sourceDex := i % len(graph.sources)
		if err := sys.Turn(func() {
			graph.sources[sourceDex].Write(i + sourceDex)
		}); err != nil {
			return 0, err
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		sum += leaf.Peek()
	}
	return sum, nil
}

func benchmarkRemoveElems[T any](src []T, rmCount int, rand *rand.Rand) []T {
	copyWithRemovals := make([]T, len(src))
	copy(copyWithRemovals, src)
	for i := 0; i < rmCount; i++ {
		rmDex := rand.Intn(len(copyWithRemovals))
		copyWithRemovals[rmDex] = copyWithRemovals[len(copyWithRemovals)-1]
		copyWithRemovals = copyWithRemovals[:len(copyWithRemovals)-1]
	}
	return copyWithRemovals
}
