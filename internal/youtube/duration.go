package youtube

import (
	"regexp"
	"strconv"
)

var isoDurationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseISODuration converts the API's ISO-8601 duration (PT1H2M3S)
// into seconds. Unrecognized input yields 0, same as a missing field.
func parseISODuration(iso string) int {
	match := isoDurationRe.FindStringSubmatch(iso)
	if match == nil {
		return 0
	}
	h, _ := strconv.Atoi(zeroIfEmpty(match[1]))
	m, _ := strconv.Atoi(zeroIfEmpty(match[2]))
	s, _ := strconv.Atoi(zeroIfEmpty(match[3]))
	return h*3600 + m*60 + s
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
