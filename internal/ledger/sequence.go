package ledger

import (
	"regexp"
	"strconv"
)

var leadingNumber = regexp.MustCompile(`^(\d+),`)

// NextSequence returns one more than the largest leading row number in data,
// or 1 when no row starts with a number followed by a comma.
func NextSequence(data []string) int {
	maxSeen := 0
	for _, line := range data {
		m := leadingNumber.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > maxSeen {
			maxSeen = n
		}
	}
	return maxSeen + 1
}
