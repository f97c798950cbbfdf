package format

import "strings"

const mdSpecials = "_*`["

// EscapeMarkdown escapes Markdown (V1) special characters so user-supplied
// strings like file names can be embedded in formatted messages.
func EscapeMarkdown(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(mdSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
