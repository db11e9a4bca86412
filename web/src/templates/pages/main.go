package pages

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Main is the landing view after a successful login.
func Main(email string) g.Node {
	return h.Div(
		h.Class("card"),
		h.H1(g.Text("Welcome")),
		h.P(g.Textf("You are signed in as %s.", email)),
		h.P(h.A(h.Href("/logout"), g.Text("Log out"))),
	)
}
