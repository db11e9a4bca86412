package pages

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/authform/internal/authform"
)

// Routes the auth form posts to.
const (
	AuthFieldPath  = "/auth/field"
	AuthTogglePath = "/auth/toggle"
	AuthSubmitPath = "/auth/submit"
	AuthStatusPath = "/auth/status"
	AuthForgotPath = "/auth/forgot"

	// AuthFormID is the element id htmx swaps.
	AuthFormID = "auth-form"
)

// AuthForm renders the login/signup form for a snapshot. The same fragment
// is used for the full page and for every htmx swap.
func AuthForm(s authform.Snapshot) g.Node {
	return h.Div(
		h.ID(AuthFormID),
		h.Class("card"),
		h.H1(g.Text(s.Mode.Heading())),
		h.Form(
			h.Method("post"),
			h.Action(AuthSubmitPath),
			hx.Post(AuthSubmitPath),
			hx.Target("#"+AuthFormID),
			hx.Swap("outerHTML"),

			field("email", "Email :", "email", s.Email, "username", s.FieldError(authform.FieldEmail)),
			// The password is never written back into the page.
			field("password", "Password", "password", "", passwordAutocomplete(s.Mode), s.FieldError(authform.FieldPassword)),

			h.Button(
				h.Type("submit"),
				h.ID("auth-submit"),
				g.If(s.Submitting(), h.Disabled()),
				g.Text(s.SubmitLabel()),
			),

			resultMessage(s),

			h.P(
				h.Button(
					h.Type("submit"),
					h.Class("toggle"),
					g.Attr("formaction", AuthTogglePath),
					hx.Post(AuthTogglePath),
					hx.Target("#"+AuthFormID),
					hx.Swap("outerHTML"),
					g.Text(s.ToggleLabel()),
				),
			),
		),
		h.P(
			h.A(h.Href(AuthForgotPath), g.Text("Forgot Password")),
		),
		g.If(s.Submitting(), poller()),
	)
}

func field(name, label, inputType, value, autocomplete, errMsg string) g.Node {
	return h.Div(
		h.Class("field"),
		h.Label(h.For(name), g.Text(label)),
		h.Input(
			h.ID(name),
			h.Name(name),
			h.Type(inputType),
			h.Value(value),
			h.AutoComplete(autocomplete),
			hx.Post(AuthFieldPath),
			hx.Trigger("change"),
			hx.Swap("none"),
			g.If(errMsg != "", g.Attr("aria-invalid", "true")),
		),
		g.If(errMsg != "", h.Span(h.Class("field-error"), g.Attr("role", "alert"), g.Text(errMsg))),
	)
}

func passwordAutocomplete(m authform.Mode) string {
	if m == authform.ModeSignup {
		return "new-password"
	}
	return "current-password"
}

func resultMessage(s authform.Snapshot) g.Node {
	if s.ResultMessage == "" {
		return nil
	}
	class := "result"
	switch s.Status {
	case authform.StatusSuccess:
		class += " success"
	case authform.StatusError:
		class += " error"
	}
	return h.P(h.Class(class), g.Attr("role", "status"), g.Text(s.ResultMessage))
}

// poller re-fetches the form until the pending submission resolves.
func poller() g.Node {
	return h.Div(
		hx.Get(AuthStatusPath),
		hx.Trigger("load delay:300ms"),
		hx.Target("#"+AuthFormID),
		hx.Swap("outerHTML"),
	)
}
