package demo

import (
	"github.com/delaneyj/turnsignal/turn"
	"github.com/valyala/quicktemplate"
)

const DefaultCat = "chippu"

// CatProps is handed to a CatCard when it mounts.
type CatProps struct {
	Name string
}

type CatApp struct {
	component
	Card *CatCard
}

func MountCatApp(sys *turn.System, parent *turn.Consumer, cat CatProps) (*CatApp, error) {
	node, err := sys.Mount(parent, "App", func(c *turn.Consumer) string {
		return `<div><h1>My Cat App</h1></div>`
	})
	if err != nil {
		return nil, err
	}
	app := &CatApp{component: component{node: node}}
	if app.Card, err = MountCatCard(sys, node, cat); err != nil {
		return nil, err
	}
	return app, nil
}

type CatCard struct {
	component
	props CatProps
}

func MountCatCard(sys *turn.System, parent *turn.Consumer, props CatProps) (*CatCard, error) {
	node, err := sys.Mount(parent, "CatCard", func(c *turn.Consumer) string {
		return markup(func(qw *quicktemplate.Writer) {
			qw.N().S(`<div><h3>Hello `)
			qw.E().S(props.Name)
			qw.N().S(`</h3>`)
			button(qw, "", "Click Me")
			qw.N().S(`</div>`)
		})
	})
	if err != nil {
		return nil, err
	}
	return &CatCard{component: component{node: node}, props: props}, nil
}

// Click logs the cat's name. Nothing is written so nothing re-renders.
func (card *CatCard) Click() error {
	return card.handle(func() {
		log := card.node.System().Logger()
		log.Info().Str("cat", card.props.Name).Msg("clicked")
	})
}
