package rename

import "strings"

// BuildCandidateName derives the final file name from user input, preserving
// the extension of the original file. The extension is the substring after
// the last dot of originalName; if the user text already ends with it, it is
// left untouched. An original name without a dot contributes no suffix.
func BuildCandidateName(originalName, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	ext := extensionOf(originalName)
	if ext == "" {
		return text
	}
	if strings.HasSuffix(text, ext) {
		return text
	}
	return text + ext
}

// extensionOf returns the dot-prefixed extension of name, or "" if none.
func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return name[idx:]
}
