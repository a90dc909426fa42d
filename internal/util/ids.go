package util

import (
	"fmt"
	"strconv"
	"strings"
)

// SequenceID formats a collection identifier such as L001 or M012.
func SequenceID(prefix string, seq int) string {
	return fmt.Sprintf("%s%03d", prefix, seq)
}

// ParseSequence returns the numeric part of an identifier built by SequenceID.
// ok is false when id does not carry the prefix or the remainder is not a number.
func ParseSequence(prefix, id string) (int, bool) {
	rest, found := strings.CutPrefix(id, prefix)
	if !found || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
