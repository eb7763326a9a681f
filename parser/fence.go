package parser

import "strings"

const fence = "```"

// StripFences removes markdown fences that enclose the entire response.
//
// The first and last non-blank lines must both start with ``` (after
// trimming) and be different lines; the lines strictly between them are
// returned joined with "\n". Anything else, including a response with
// prose around a fenced block, is returned unchanged.
func StripFences(text string) string {
	lines := strings.Split(text, "\n")

	first := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			first = i
			break
		}
	}
	if first == -1 {
		return text
	}

	last := first
	for i := len(lines) - 1; i > first; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = i
			break
		}
	}

	if first < last && isFence(lines[first]) && isFence(lines[last]) {
		return strings.Join(lines[first+1:last], "\n")
	}
	return text
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), fence)
}
