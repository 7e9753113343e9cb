package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Extraction patterns. The log is unstructured text produced by the
// simulator's test runner; these literals must stay bit-compatible with
// what it prints.
var (
	// Values may be separated by arbitrary text including line breaks.
	memoryPairPattern = regexp.MustCompile(`(?s)used_memory = (\d+).*?free_memory = (\d+)`)

	hitRatioPattern = regexp.MustCompile(`hit_ratio = ([\d.]+)`)

	// Field text and hex digits both match case-insensitively.
	offsetPairPattern = regexp.MustCompile(`(?is)offset.*?0x([0-9a-f]+).*?Physical offset.*?0x([0-9a-f]+)`)

	// The test runner escapes its own newlines when echoing expected and
	// actual values, so each value ends at a literal two-character "\n"
	// sequence, not at a real line break.
	expectedActualPattern = regexp.MustCompile(`(?s)\[EXPECTED\].*?=\s*(.+?)\\n.*?\[ACTUAL\].*?=\s*(.+?)\\n`)
)

// CheckMemoryAccounting verifies that every used_memory/free_memory pair
// in the text sums to expectedTotal. It stops at the first violating
// pair. No pairs at all counts as success with zero matches.
func (v *Validator) CheckMemoryAccounting(text string, expectedTotal int) bool {
	pairs := memoryPairPattern.FindAllStringSubmatch(text, -1)

	for _, m := range pairs {
		used, uerr := strconv.Atoi(m[1])
		free, ferr := strconv.Atoi(m[2])
		if uerr != nil || ferr != nil {
			v.record(Result{
				Check:   "memory_accounting",
				Matches: len(pairs),
				Detail:  fmt.Sprintf("Memory counter out of range: used=%s free=%s", m[1], m[2]),
			})
			return false
		}
		if used+free != expectedTotal {
			v.record(Result{
				Check:   "memory_accounting",
				Matches: len(pairs),
				Detail:  fmt.Sprintf("Memory invariant violated: %d + %d != %d", used, free, expectedTotal),
			})
			return false
		}
	}

	v.record(Result{
		Check:   "memory_accounting",
		OK:      true,
		Matches: len(pairs),
		Detail:  fmt.Sprintf("Memory invariant holds: used + free = %d", expectedTotal),
	})
	return true
}

// CheckHitRatio verifies that every hit_ratio value in the text lies in
// [0, 1]. A capture that does not parse as a float counts as a
// violation. Stops at the first violation.
func (v *Validator) CheckHitRatio(text string) bool {
	found := hitRatioPattern.FindAllStringSubmatch(text, -1)

	for _, m := range found {
		ratio, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			v.record(Result{
				Check:   "hit_ratio",
				Matches: len(found),
				Detail:  fmt.Sprintf("Invalid hit ratio: %s", m[1]),
			})
			return false
		}
		if ratio < 0.0 || ratio > 1.0 {
			v.record(Result{
				Check:   "hit_ratio",
				Matches: len(found),
				Detail:  fmt.Sprintf("Invalid hit ratio: %s", formatRatio(ratio)),
			})
			return false
		}
	}

	v.record(Result{
		Check:   "hit_ratio",
		OK:      true,
		Matches: len(found),
		Detail:  "All hit ratios in valid range [0, 1]",
	})
	return true
}

// formatRatio renders the parsed value, not the raw capture, so the
// message is stable across spellings ("1.50" and "1.5" both report
// 1.5). Integral values keep a trailing ".0".
func formatRatio(x float64) string {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// CheckOffsetPreservation verifies that each virtual offset and the
// physical offset that follows it carry the same hex value, ignoring
// case. Stops at the first mismatch.
func (v *Validator) CheckOffsetPreservation(text string) bool {
	pairs := offsetPairPattern.FindAllStringSubmatch(text, -1)

	for _, m := range pairs {
		virt, phys := m[1], m[2]
		if !strings.EqualFold(virt, phys) {
			v.record(Result{
				Check:   "offset_preservation",
				Matches: len(pairs),
				Detail:  fmt.Sprintf("Offset mismatch: virtual=0x%s != physical=0x%s", virt, phys),
			})
			return false
		}
	}

	v.record(Result{
		Check:   "offset_preservation",
		OK:      true,
		Matches: len(pairs),
		Detail:  "All offsets preserved in address translation",
	})
	return true
}

// CheckPowerOfTwo verifies that every integer following the named field
// is a power of two. Zero values are skipped, not flagged: only positive
// values are subject to the rule. Stops at the first violation.
func (v *Validator) CheckPowerOfTwo(text, field string) bool {
	pattern := regexp.MustCompile(regexp.QuoteMeta(field) + `.*?(\d+)`)
	found := pattern.FindAllStringSubmatch(text, -1)

	for _, m := range found {
		val, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			v.record(Result{
				Check:   "power_of_two",
				Matches: len(found),
				Detail:  fmt.Sprintf("Not power of 2: %s=%s", field, m[1]),
			})
			return false
		}
		if val > 0 && val&(val-1) != 0 {
			v.record(Result{
				Check:   "power_of_two",
				Matches: len(found),
				Detail:  fmt.Sprintf("Not power of 2: %s=%d", field, val),
			})
			return false
		}
	}

	v.record(Result{
		Check:   "power_of_two",
		OK:      true,
		Matches: len(found),
		Detail:  fmt.Sprintf("All %s values are power of 2", field),
	})
	return true
}

// CompareExpectedActual compares every [EXPECTED]/[ACTUAL] value pair by
// exact string equality after trimming surrounding whitespace. Unlike
// the invariant checks it never short-circuits: every mismatch is
// recorded, and the totals are returned for the caller to judge.
func (v *Validator) CompareExpectedActual(text string) (matches, mismatches int) {
	pairs := expectedActualPattern.FindAllStringSubmatch(text, -1)

	for _, m := range pairs {
		expected := strings.TrimSpace(m[1])
		actual := strings.TrimSpace(m[2])

		if expected == actual {
			matches++
			continue
		}
		mismatches++
		v.record(Result{
			Check:   "expected_actual",
			Matches: len(pairs),
			Detail:  fmt.Sprintf("Mismatch: expected '%s' != actual '%s'", expected, actual),
		})
	}

	return matches, mismatches
}
