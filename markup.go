package motion

import (
	"fmt"
	"html"

	"github.com/aretw0/motion/pkg/domain"
)

// elementMarkup renders el as a div. Elements removed from the DOM render
// as nothing.
func elementMarkup(el domain.ElementFrame, body string) string {
	if !el.Rendered {
		return ""
	}
	return fmt.Sprintf(`<div data-key="%d" class="%s" style="%s">%s</div>`,
		el.Key, html.EscapeString(el.Class), html.EscapeString(el.Style), html.EscapeString(body))
}

func containerMarkup(class, style, inner string) string {
	return fmt.Sprintf(`<div class="%s" style="%s">%s</div>`,
		html.EscapeString(class), html.EscapeString(style), inner)
}
