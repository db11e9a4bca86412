package layouts

const appName = "Auth"

// pageTitle prefixes the document title with the page heading, if any.
func pageTitle(heading string) string {
	if heading == "" {
		return appName
	}
	return heading + " - " + appName
}
