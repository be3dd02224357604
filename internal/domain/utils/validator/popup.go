package validator

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxTextLength is the longest text a code holds at the lowest correction
// level.
const maxTextLength = 2953

func Text(text string, _ map[string]interface{}) bool {
	text = strings.TrimSpace(text)
	return text != "" && utf8.ValidString(text) && len(text) <= maxTextLength
}

func LogoScale(text string, _ map[string]interface{}) bool {
	_, ok := ParseLogoScale(text)
	return ok
}

// ParseLogoScale accepts "30" and "30%".
func ParseLogoScale(text string) (int, bool) {
	text = strings.TrimSuffix(strings.TrimSpace(text), "%")
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}
