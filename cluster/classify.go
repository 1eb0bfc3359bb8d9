// CLAUDE:SUMMARY Rule-based content-intent classifier: exploration beats reference beats general.
package cluster

import "strings"

var explorationMarkers = []string{"search", "reddit", "stackoverflow"}

var referenceMarkers = []string{"documentation", "docs", "api reference", "guide", "mdn"}

// Classify derives the content intent of a tab from its title and URL using
// case-insensitive substring rules checked in priority order. Pure and
// deterministic.
func Classify(title, url string) ContentType {
	t := strings.ToLower(title)
	u := strings.ToLower(url)

	for _, m := range explorationMarkers {
		if strings.Contains(t, m) || strings.Contains(u, m) {
			return ContentExploration
		}
	}
	if strings.Contains(u, "google.com/search") || strings.Contains(u, "reddit.com") {
		return ContentExploration
	}

	for _, m := range referenceMarkers {
		if strings.Contains(t, m) || strings.Contains(u, m) {
			return ContentReference
		}
	}
	if strings.Contains(u, "developer.mozilla.org") || strings.Contains(u, "react.dev") || strings.Contains(u, "docs.") {
		return ContentReference
	}

	return ContentGeneral
}
