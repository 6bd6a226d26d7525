package page

import "strings"

// StyleHides reports whether an inline style declaration hides the element
// (display:none or visibility:hidden).
func StyleHides(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		value = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(value, "!important")))
		switch {
		case name == "display" && value == "none":
			return true
		case name == "visibility" && value == "hidden":
			return true
		}
	}
	return false
}

// StyleZeroSize reports whether an inline style pins width or height to zero.
func StyleZeroSize(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.ToLower(strings.TrimSpace(value))
		if (name == "width" || name == "height") && (value == "0" || value == "0px") {
			return true
		}
	}
	return false
}
