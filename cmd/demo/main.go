package main

import (
	"context"
	"fmt"
	"os"

	"github.com/delaneyj/turnsignal/demo"
	"github.com/delaneyj/turnsignal/turn"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

const (
	clicksKey     = "clicks"
	logLevelKey   = "log-level"
	maxRendersKey = "max-renders"
)

func main() {
	cmd := &cli.Command{
		Name:  "demo",
		Usage: "Drive the example components through simulated clicks",
		Commands: []*cli.Command{
			{
				Name:   "counter",
				Usage:  "Increment, decrement and reset a counter",
				Flags:  demoFlags(),
				Action: runCounter,
			},
			{
				Name:   "player",
				Usage:  "Share a song signal through context",
				Flags:  demoFlags(),
				Action: runPlayer,
			},
			{
				Name:   "cats",
				Usage:  "Pass props to a card",
				Flags:  demoFlags(),
				Action: runCats,
			},
			{
				Name:   "dogs",
				Usage:  "Keep an image source in a hook",
				Flags:  demoFlags(),
				Action: runDogs,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		log.Fatal().Err(err).Msg("demo failed")
	}
}

func demoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  clicksKey,
			Usage: "Number of simulated clicks",
			Value: 3,
		},
		&cli.StringFlag{
			Name:  logLevelKey,
			Usage: "Log level (trace, debug, info, warn, error)",
			Value: "info",
		},
		&cli.IntFlag{
			Name:  maxRendersKey,
			Usage: "Renders allowed per consumer in one turn",
			Value: 100,
		},
	}
}

func runCounter(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd, "Counter")
	if err != nil {
		return err
	}

	ctr, err := demo.MountCounter(s.sys, nil)
	if err != nil {
		return err
	}
	for i := 0; i < int(cmd.Int(clicksKey)); i++ {
		if err := s.click("Increment", ctr.Increment); err != nil {
			return err
		}
	}
	if err := s.click("Decrement", ctr.Decrement); err != nil {
		return err
	}
	if err := s.click("Reset", ctr.Reset); err != nil {
		return err
	}

	s.render(ctr.Consumer())
	return nil
}

func runPlayer(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd, "Music player")
	if err != nil {
		return err
	}

	app, err := demo.MountPlayerApp(s.sys, nil)
	if err != nil {
		return err
	}
	for i := 0; i < int(cmd.Int(clicksKey)); i++ {
		if err := s.click("Shuffle", app.Player.Shuffle); err != nil {
			return err
		}
	}

	s.render(app.Consumer())
	return nil
}

func runCats(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd, "Cat card")
	if err != nil {
		return err
	}

	app, err := demo.MountCatApp(s.sys, nil, demo.CatProps{Name: demo.DefaultCat})
	if err != nil {
		return err
	}
	for i := 0; i < int(cmd.Int(clicksKey)); i++ {
		if err := s.click("Click Me", app.Card.Click); err != nil {
			return err
		}
	}

	s.render(app.Consumer())
	return nil
}

func runDogs(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd, "Hot dog")
	if err != nil {
		return err
	}

	app, err := demo.MountDogApp(s.sys, nil)
	if err != nil {
		return err
	}
	for i := 0; i < int(cmd.Int(clicksKey)); i++ {
		click, label := app.Cards.Skip, "skip"
		if i%2 == 1 {
			click, label = app.Cards.Save, "save"
		}
		if err := s.click(label, click); err != nil {
			return err
		}
	}

	s.render(app.Consumer())
	return nil
}

type session struct {
	title string
	sys   *turn.System
	host  *tableHost
	log   zerolog.Logger
}

func newSession(cmd *cli.Command, title string) (*session, error) {
	lvl, err := zerolog.ParseLevel(cmd.String(logLevelKey))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", logLevelKey, err)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Str("demo", cmd.Name).
		Logger()

	host := &tableHost{event: "mount"}
	sys := turn.NewSystem(
		turn.WithLogger(log),
		turn.WithHost(host),
		turn.WithMaxRenders(int(cmd.Int(maxRendersKey))),
		turn.WithErrorHandler(func(err error) {
			log.Error().Err(err).Msg("turn failed")
		}),
	)

	return &session{
		title: title,
		sys:   sys,
		host:  host,
		log:   log,
	}, nil
}

// click runs one event handler as a turn and labels the renders it causes.
func (s *session) click(label string, handler func() error) error {
	s.host.event = label
	s.log.Debug().Str("button", label).Msg("click")
	if err := handler(); err != nil {
		return fmt.Errorf("click %q: %w", label, err)
	}
	return nil
}

func (s *session) render(root *turn.Consumer) {
	tbl := table.NewWriter()
	tbl.SetTitle(s.title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"#", "event", "turn", "consumer", "render", "output"})
	for i, row := range s.host.rows {
		tbl.AppendRow(table.Row{i + 1, row.event, row.turn, row.consumer, row.renders, row.output})
	}
	tbl.AppendFooter(table.Row{"", "", s.sys.Turns(), "", len(s.host.rows), fmt.Sprintf("%d mounted", s.sys.Consumers())})
	tbl.Render()

	fmt.Println(demo.Markup(root))
}

type renderRow struct {
	event    string
	turn     uint64
	consumer string
	renders  int
	output   string
}

// tableHost records every evaluation for the summary table.
type tableHost struct {
	event string
	rows  []renderRow
}

func (h *tableHost) Mounted(c *turn.Consumer) {}

func (h *tableHost) Rendered(c *turn.Consumer) {
	event := h.event
	if c.Renders() == 1 {
		event = "mount"
	}
	h.rows = append(h.rows, renderRow{
		event:    event,
		turn:     c.System().Turns(),
		consumer: c.Name(),
		renders:  c.Renders(),
		output:   c.Output(),
	})
}

func (h *tableHost) Unmounted(c *turn.Consumer) {}
