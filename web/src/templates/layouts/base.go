package layouts

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/authform/internal/view"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps page content in the HTML document shell and renders any
// flash messages above it.
func Base(title string, flashes view.FlashData, content g.Node) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(pageTitle(title))),
				h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
				h.Script(h.Src(htmxSrc), g.Attr("defer")),
			),
			h.Body(
				h.Main(
					h.Class("container"),
					Flashes(flashes),
					content,
				),
			),
		),
	)
}

// Flashes renders one block per success or error flash message.
func Flashes(flashes view.FlashData) g.Node {
	return g.Group{
		g.Map(flashes.Success, func(msg string) g.Node {
			return h.Div(h.Class("flash success"), g.Attr("role", "status"), g.Text(msg))
		}),
		g.Map(flashes.Error, func(msg string) g.Node {
			return h.Div(h.Class("flash error"), g.Attr("role", "alert"), g.Text(msg))
		}),
	}
}
