package demo

import (
	"github.com/delaneyj/turnsignal/turn"
	"github.com/valyala/quicktemplate"
)

const (
	DefaultSong  = "Drift Away"
	ShuffledSong = "Vienna"
)

// MusicPlayer is shared down the tree; any descendant may change the song.
type MusicPlayer struct {
	Song *turn.Signal[string]
}

var MusicPlayerKey = turn.NewKey[MusicPlayer]("demo.MusicPlayer")

// PlayerApp provides a MusicPlayer to a shuffle button and a now-playing
// label that sit side by side.
type PlayerApp struct {
	component
	Player     *Player
	NowPlaying *NowPlaying
}

func MountPlayerApp(sys *turn.System, parent *turn.Consumer) (*PlayerApp, error) {
	app := &PlayerApp{}
	node, err := sys.Mount(parent, "App", func(c *turn.Consumer) string {
		song := turn.UseSignal(c, func() string { return DefaultSong })
		turn.UseContextProvider(c, MusicPlayerKey, func() MusicPlayer {
			return MusicPlayer{Song: song}
		})
		return ""
	})
	if err != nil {
		return nil, err
	}
	app.node = node

	if app.Player, err = MountPlayer(sys, node); err != nil {
		return nil, err
	}
	if app.NowPlaying, err = MountNowPlaying(sys, node); err != nil {
		return nil, err
	}
	return app, nil
}

type Player struct {
	component
}

func MountPlayer(sys *turn.System, parent *turn.Consumer) (*Player, error) {
	node, err := sys.Mount(parent, "Player", func(c *turn.Consumer) string {
		return markup(func(qw *quicktemplate.Writer) {
			button(qw, "", "Shuffle")
		})
	})
	if err != nil {
		return nil, err
	}
	return &Player{component{node: node}}, nil
}

// Shuffle changes the shared song. It fails when no ancestor provides a
// MusicPlayer.
func (p *Player) Shuffle() error {
	player, err := turn.Lookup(p.node, MusicPlayerKey)
	if err != nil {
		return err
	}
	return p.handle(func() {
		player.Song.Write(ShuffledSong)
	})
}

type NowPlaying struct {
	component
}

func MountNowPlaying(sys *turn.System, parent *turn.Consumer) (*NowPlaying, error) {
	node, err := sys.Mount(parent, "NowPlaying", func(c *turn.Consumer) string {
		player, err := turn.Lookup(c, MusicPlayerKey)
		return markup(func(qw *quicktemplate.Writer) {
			if err != nil {
				qw.N().S(`<h3>Nothing playing</h3>`)
				return
			}
			qw.N().S(`<h3>Now playing: `)
			qw.E().S(player.Song.Read())
			qw.N().S(`</h3>`)
		})
	})
	if err != nil {
		return nil, err
	}
	return &NowPlaying{component{node: node}}, nil
}
