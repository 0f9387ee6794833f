package service

import (
	"fmt"
	"html"
)

// formatPublication renders the channel post: alias prefix, then the
// HTML-escaped body.
func formatPublication(alias, text string) string {
	return fmt.Sprintf("**%s**:\n\n%s", alias, html.EscapeString(text))
}

// formatModerationPreview renders the admin-chat preview for queued media.
func formatModerationPreview(id int64, alias, caption string) string {
	return fmt.Sprintf("new media #%d from **%s** awaiting review:\n\n%s", id, alias, caption)
}
