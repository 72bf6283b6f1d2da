package form

import (
	"fmt"
	"strconv"
	"strings"
)

// CodePattern returns the prefix shared by every code of kind prefix issued
// in year, e.g. "MAIN-TASK-25-".
func CodePattern(prefix string, year int) string {
	return fmt.Sprintf("%s-%02d-", prefix, year%100)
}

// NextCode returns the code following the highest sequence number among
// existing codes for prefix and year. Codes of other years or with
// non-numeric suffixes are ignored.
func NextCode(prefix string, year int, existing []string) string {
	pattern := CodePattern(prefix, year)
	max := 0
	for _, code := range existing {
		rest, ok := strings.CutPrefix(code, pattern)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", pattern, max+1)
}
