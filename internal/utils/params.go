// Package utils holds request-parameter helpers with no domain knowledge.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitValues flattens a repeated query parameter whose values may also be
// comma-separated: ["5", "1,2"] → ["5", "1", "2"]. Blank items are dropped.
func SplitValues(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Ints parses SplitValues(vals) as base-10 integers. The error names the
// first item that is not one.
func Ints(vals []string) ([]int, error) {
	parts := SplitValues(vals)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", p)
		}
		out = append(out, n)
	}
	return out, nil
}
