package catalog

import "strings"

// audio returns the conventional clip path for an activity, e.g. /audio/bola.mp3.
func audio(content string) string {
	return "/audio/" + strings.ReplaceAll(strings.ToLower(content), " ", "-") + ".mp3"
}
