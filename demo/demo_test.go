package demo_test

import (
	"bytes"
	"testing"

	"github.com/delaneyj/turnsignal/demo"
	"github.com/delaneyj/turnsignal/turn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	sys := turn.NewSystem()
	ctr, err := demo.MountCounter(sys, nil)
	require.NoError(t, err)
	assert.Contains(t, ctr.Consumer().Output(), "<h1>Count: 0</h1>")

	require.NoError(t, ctr.Increment())
	require.NoError(t, ctr.Increment())
	require.NoError(t, ctr.Increment())
	require.NoError(t, ctr.Decrement())
	assert.Equal(t, 2, ctr.Count())
	assert.Equal(t, 5, ctr.Consumer().Renders())
	assert.Equal(t,
		`<div class="counter-container"><h1>Count: 2</h1><div class="button-group">`+
			`<button class="btn btn-increment">Increment</button>`+
			`<button class="btn btn-decrement">Decrement</button>`+
			`<button class="btn btn-reset">Reset</button>`+
			`</div><p>Current count: 2</p></div>`,
		ctr.Consumer().Output(),
	)

	require.NoError(t, ctr.Reset())
	assert.Equal(t, 0, ctr.Count())
	assert.Contains(t, ctr.Consumer().Output(), "<p>Current count: 0</p>")
}

func TestStatsCounter(t *testing.T) {
	sys := turn.NewSystem()
	ctr, err := demo.MountStatsCounter(sys, nil)
	require.NoError(t, err)
	assert.Contains(t, ctr.Consumer().Output(), "<p>Even: true</p><p>Doubled: 0</p>")

	require.NoError(t, ctr.Increment())
	require.NoError(t, ctr.Increment())
	require.NoError(t, ctr.Increment())
	assert.Contains(t, ctr.Consumer().Output(), "<p>Value: 3</p><p>Even: false</p><p>Doubled: 6</p>")

	require.NoError(t, ctr.Decrement())
	assert.Contains(t, ctr.Consumer().Output(), "<p>Value: 2</p><p>Even: true</p><p>Doubled: 4</p>")
}

func TestPlayerApp(t *testing.T) {
	sys := turn.NewSystem()
	app, err := demo.MountPlayerApp(sys, nil)
	require.NoError(t, err)
	assert.Equal(t, "<h3>Now playing: Drift Away</h3>", app.NowPlaying.Consumer().Output())

	require.NoError(t, app.Player.Shuffle())
	assert.Equal(t, "<h3>Now playing: Vienna</h3>", app.NowPlaying.Consumer().Output())
	assert.Equal(t, 2, app.NowPlaying.Consumer().Renders())
	assert.Equal(t, 1, app.Player.Consumer().Renders())
	assert.Equal(t, 1, app.Consumer().Renders())

	require.NoError(t, app.Player.Shuffle())
	assert.Equal(t, 2, app.NowPlaying.Consumer().Renders())

	assert.Equal(t, "<button>Shuffle</button><h3>Now playing: Vienna</h3>", demo.Markup(app.Consumer()))
}

func TestPlayerWithoutProvider(t *testing.T) {
	sys := turn.NewSystem()
	player, err := demo.MountPlayer(sys, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, player.Shuffle(), turn.ErrMissingProvider)

	label, err := demo.MountNowPlaying(sys, nil)
	require.NoError(t, err)
	assert.Equal(t, "<h3>Nothing playing</h3>", label.Consumer().Output())
}

func TestCatApp(t *testing.T) {
	var logs bytes.Buffer
	sys := turn.NewSystem(turn.WithLogger(zerolog.New(&logs)))

	app, err := demo.MountCatApp(sys, nil, demo.CatProps{Name: "<chippu>"})
	require.NoError(t, err)
	assert.Equal(t,
		`<div><h1>My Cat App</h1></div><div><h3>Hello &lt;chippu&gt;</h3><button>Click Me</button></div>`,
		demo.Markup(app.Consumer()),
	)

	require.NoError(t, app.Card.Click())
	assert.Contains(t, logs.String(), "chippu")
	assert.Contains(t, logs.String(), `"message":"clicked"`)
	assert.Equal(t, 1, app.Card.Consumer().Renders())
}

func TestDogApp(t *testing.T) {
	sys := turn.NewSystem()
	app, err := demo.MountDogApp(sys, nil)
	require.NoError(t, err)

	out := demo.Markup(app.Consumer())
	assert.Contains(t, out, "<h1>Hot Dog</h1>")
	assert.Contains(t, out, `<img src="`+demo.DefaultDogImage+`">`)

	require.NoError(t, app.Cards.Skip())
	require.NoError(t, app.Cards.Save())
	assert.Equal(t, 1, app.Cards.Consumer().Renders())
	assert.Equal(t, 3, sys.Consumers())
}
