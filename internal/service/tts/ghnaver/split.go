package ghnaver

import (
	"strings"
	"unicode/utf8"
)

// MessageSize — максимальная длина части сообщения в символах (рунах).
const MessageSize = 148

// splitPunctuation — знаки, по которым сообщение режется в первую очередь.
const splitPunctuation = "!()[]?.,;:"

// SplitMessage делит длинное сообщение на части не длиннее MessageSize.
// Сначала режет по знакам препинания, затем слишком длинные фрагменты — по последнему
// пробелу до границы. Фрагмент без пробела остаётся целиком, даже если он длиннее.
// Пустые части отбрасываются; сообщение не длиннее MessageSize возвращается как есть.
func SplitMessage(message string) []string {
	if utf8.RuneCountInString(message) <= MessageSize {
		return []string{message}
	}

	fragments := strings.FieldsFunc(message, func(r rune) bool {
		return strings.ContainsRune(splitPunctuation, r)
	})

	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		for _, part := range splitBySpace(f) {
			if part != "" {
				parts = append(parts, part)
			}
		}
	}
	return parts
}

func splitBySpace(fragment string) []string {
	var out []string
	r := []rune(strings.TrimSpace(fragment))
	for len(r) > MessageSize {
		idx := lastSpace(r[:MessageSize])
		if idx < 0 {
			break
		}
		out = append(out, strings.TrimSpace(string(r[:idx])))
		r = []rune(strings.TrimLeft(string(r[idx+1:]), " "))
	}
	return append(out, strings.TrimSpace(string(r)))
}

func lastSpace(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == ' ' {
			return i
		}
	}
	return -1
}
