package delivery

import "strings"

// manifestLine is one line of an .m3u8 document with its own terminator.
// Keeping the terminator per line means CRLF, LF, and a missing final
// newline all survive the rewrite byte-for-byte.
type manifestLine struct {
	text string // line content, terminator excluded
	end  string // "\n", "\r\n", or "" for an unterminated final line
}

// splitManifest breaks text into lines, preserving each line's terminator.
func splitManifest(text string) []manifestLine {
	var lines []manifestLine
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		content, end := text[start:i], "\n"
		if strings.HasSuffix(content, "\r") {
			content, end = content[:len(content)-1], "\r\n"
		}
		lines = append(lines, manifestLine{text: content, end: end})
		start = i + 1
	}
	if start < len(text) {
		lines = append(lines, manifestLine{text: text[start:]})
	}
	return lines
}

// joinManifest reassembles lines into a single document.
func joinManifest(lines []manifestLine) string {
	var b strings.Builder
	for _, ln := range lines {
		b.WriteString(ln.text)
		b.WriteString(ln.end)
	}
	return b.String()
}
