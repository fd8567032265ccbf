package demo

import (
	"github.com/delaneyj/turnsignal/turn"
	"github.com/valyala/quicktemplate"
)

const DefaultDogImage = "https://images.dog.ceo/breeds/pitbull/dog-3981540_1280.jpg"

// DogApp is a title above a card of dog pictures.
type DogApp struct {
	component
	Cards *DogCards
}

func MountDogApp(sys *turn.System, parent *turn.Consumer) (*DogApp, error) {
	node, err := sys.Mount(parent, "App", func(c *turn.Consumer) string {
		return ""
	})
	if err != nil {
		return nil, err
	}
	app := &DogApp{component: component{node: node}}

	if _, err = sys.Mount(node, "Title", func(c *turn.Consumer) string {
		return `<div><h1>Hot Dog</h1></div>`
	}); err != nil {
		return nil, err
	}
	if app.Cards, err = MountDogCards(sys, node); err != nil {
		return nil, err
	}
	return app, nil
}

type DogCards struct {
	component
}

func MountDogCards(sys *turn.System, parent *turn.Consumer) (*DogCards, error) {
	node, err := sys.Mount(parent, "DogCards", func(c *turn.Consumer) string {
		src := turn.UseHook(c, func() string { return DefaultDogImage })
		return markup(func(qw *quicktemplate.Writer) {
			qw.N().S(`<div><img src="`)
			qw.E().S(src)
			qw.N().S(`"><div>`)
			button(qw, "", "skip")
			button(qw, "", "save")
			qw.N().S(`</div></div>`)
		})
	})
	if err != nil {
		return nil, err
	}
	return &DogCards{component{node: node}}, nil
}

// Skip and Save are turns with no writes.
func (d *DogCards) Skip() error {
	return d.handle(func() {})
}

func (d *DogCards) Save() error {
	return d.handle(func() {})
}
