package pages

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// ForgotPasswordData carries a pre-filled email to the forgot password form.
type ForgotPasswordData struct {
	Email string
}

// ForgotPassword renders the reset request form.
func ForgotPassword(data ForgotPasswordData) g.Node {
	return h.Div(
		h.Class("card"),
		h.H1(g.Text("Forgot Password")),
		h.Form(
			h.Method("post"),
			h.Action("/forgot-password"),
			h.Div(
				h.Class("field"),
				h.Label(h.For("email"), g.Text("Email :")),
				h.Input(h.ID("email"), h.Name("email"), h.Type("email"), h.Value(data.Email), h.Required()),
			),
			h.Button(h.Type("submit"), g.Text("Send reset link")),
		),
		h.P(h.A(h.Href("/auth"), g.Text("Back to login"))),
	)
}
