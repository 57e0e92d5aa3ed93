package match

import "strings"

const regionalIndicatorOffset = 0x1F1E6 - 'A'

// FlagEmoji derives a flag from a two-letter country code using regional
// indicator symbols. Anything other than exactly two ASCII letters yields "".
func FlagEmoji(countryCode string) string {
	if len(countryCode) != 2 {
		return ""
	}
	code := strings.ToUpper(countryCode)

	var b strings.Builder
	b.Grow(8)
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(rune(c) + regionalIndicatorOffset)
	}
	return b.String()
}
