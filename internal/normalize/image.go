package normalize

import "strings"

const digestPrefix = "sha256:"

// ShortID truncates an image id to the prefix plus ten hex characters.
func ShortID(id string) string {
	if strings.HasPrefix(id, digestPrefix) {
		if len(id) > len(digestPrefix)+10 {
			return id[:len(digestPrefix)+10]
		}
		return id
	}
	if len(id) > 10 {
		return id[:10]
	}
	return id
}

// DisplayName picks the name shown for an image: its first repository tag,
// else its short id, else the empty string.
func DisplayName(tags []string, shortID string) string {
	if len(tags) > 0 && tags[0] != "" {
		return tags[0]
	}
	return shortID
}
