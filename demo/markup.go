package demo

import (
	"strings"

	"github.com/delaneyj/turnsignal/turn"
	"github.com/valyala/quicktemplate"
)

// markup collects what fn writes through a pooled quicktemplate writer.
func markup(fn func(qw *quicktemplate.Writer)) string {
	var sb strings.Builder
	qw := quicktemplate.AcquireWriter(&sb)
	fn(qw)
	quicktemplate.ReleaseWriter(qw)
	return sb.String()
}

func button(qw *quicktemplate.Writer, class, label string) {
	qw.N().S(`<button`)
	if class != "" {
		qw.N().S(` class="`)
		qw.E().S(class)
		qw.N().S(`"`)
	}
	qw.N().S(`>`)
	qw.E().S(label)
	qw.N().S(`</button>`)
}

// Markup joins the last output of c and its descendants, depth first.
func Markup(c *turn.Consumer) string {
	var sb strings.Builder
	writeMarkup(&sb, c)
	return sb.String()
}

func writeMarkup(sb *strings.Builder, c *turn.Consumer) {
	sb.WriteString(c.Output())
	for _, child := range c.Children() {
		writeMarkup(sb, child)
	}
}

// component is the handle every demo component returns. Event handlers run
// through handle so each click is one turn.
type component struct {
	node *turn.Consumer
}

func (cmp *component) Consumer() *turn.Consumer {
	return cmp.node
}

func (cmp *component) handle(fn func()) error {
	return cmp.node.System().Turn(fn)
}
