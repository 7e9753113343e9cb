// Package validator checks domain invariants against captured test output.
//
// The input is an opaque text blob; nothing is parsed structurally. Each
// check scans the text for a fixed pattern, extracts the matched values,
// and judges them against one rule:
//
//   - Memory accounting: every used_memory/free_memory pair sums to the
//     configured total
//   - Hit ratio: every hit_ratio value lies in [0, 1]
//   - Offset preservation: virtual and physical offsets agree (hex,
//     case-insensitive)
//   - Power of two: every value of a named field is a power of two
//   - Expected/actual: every [EXPECTED]/[ACTUAL] pair is equal after
//     trimming
//
// The first four checks stop at the first violation; the expected/actual
// comparison scans every pair and reports each mismatch. A check that
// finds no matches at all reports success with a match count of zero, so
// callers can tell "verified clean" from "nothing to verify".
//
// Validate orchestrates the checks: category labels embedded in the test
// name select which checks run, the expected/actual comparison always
// runs, and the verdicts combine with AND.
package validator
