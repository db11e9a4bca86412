package handlers

import (
	"fmt"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/formstore"
)

const (
	formSessionName = "auth-form"
	formSessionKey  = "form_id"
)

// formID returns the id of the form mounted for this browser, if any.
func formID(c echo.Context) string {
	sess, err := session.Get(formSessionName, c)
	if err != nil {
		return ""
	}
	id, _ := sess.Values[formSessionKey].(string)
	return id
}

// sessionForm returns the form mounted for this browser session, mounting
// a new one when the session has none or its form has been swept.
func sessionForm(c echo.Context, forms *formstore.Registry) (*formstore.Entry, error) {
	entry, mounted := forms.GetOrMount(formID(c))
	if !mounted {
		return entry, nil
	}

	sess, err := session.Get(formSessionName, c)
	if err != nil {
		forms.Unmount(entry.ID)
		return nil, fmt.Errorf("load form session: %w", err)
	}
	sess.Options = &sessions.Options{Path: "/", HttpOnly: true}
	sess.Values[formSessionKey] = entry.ID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		forms.Unmount(entry.ID)
		return nil, fmt.Errorf("save form session: %w", err)
	}
	return entry, nil
}
