package validator

import (
	"io"
	"strings"

	"logcheck/internal/report"
	"logcheck/internal/rules"
)

// Result is one check outcome accumulated during a validation run.
type Result struct {
	// Check is a stable identifier for the check that produced this result.
	Check string

	// OK reports whether the check found no violation.
	OK bool

	// Matches is the number of pattern matches the check extracted. A
	// successful result with zero matches is vacuous: the rule held only
	// because nothing in the log was subject to it.
	Matches int

	// Detail is the human-readable explanation, without glyph.
	Detail string
}

// Vacuous reports whether this result passed without any evidence.
func (r Result) Vacuous() bool {
	return r.OK && r.Matches == 0
}

// Validator runs invariant checks over captured test output and
// accumulates their results for one run at a time. It is reusable across
// runs but not safe for concurrent use.
type Validator struct {
	rules   rules.Set
	out     io.Writer
	results []Result
	vacuous []string
}

// New returns a Validator that judges logs against the given rule set
// and writes its framed report to out.
func New(set rules.Set, out io.Writer) *Validator {
	return &Validator{rules: set, out: out}
}

// Results returns a copy of the results accumulated so far. Validate
// drains the accumulator, so this is mainly useful when driving the
// checks individually.
func (v *Validator) Results() []Result {
	out := make([]Result, len(v.results))
	copy(out, v.results)
	return out
}

// Vacuous returns the names of checks that passed with zero matches
// during the most recent Validate call.
func (v *Validator) Vacuous() []string {
	return v.vacuous
}

func (v *Validator) record(r Result) {
	v.results = append(v.results, r)
}

// categoryChecks maps test-name label substrings to the checks they
// select. A test name may match any number of labels; every matching
// check runs and the verdicts combine with AND.
var categoryChecks = []struct {
	label string
	run   func(*Validator, string) bool
}{
	{"PhysicalMemory", func(v *Validator, text string) bool {
		return v.CheckMemoryAccounting(text, v.rules.ExpectedTotalMemory)
	}},
	{"Cache", func(v *Validator, text string) bool {
		return v.CheckHitRatio(text)
	}},
	{"VirtualMemory", func(v *Validator, text string) bool {
		return v.CheckOffsetPreservation(text)
	}},
	{"Buddy", func(v *Validator, text string) bool {
		return v.CheckPowerOfTwo(text, v.rules.PowerOfTwoField)
	}},
}

// Validate runs every check selected by the test name plus the
// expected/actual comparison, prints the accumulated report, and returns
// the combined verdict. The result accumulator is drained before
// returning so successive runs never see stale messages.
func (v *Validator) Validate(testName, output string) bool {
	report.Header(v.out, testName)

	// Informational only; the counts never affect the verdict.
	report.Tally(v.out, v.rules.PassMarker, strings.Count(output, v.rules.PassMarker))
	report.Tally(v.out, v.rules.FailMarker, strings.Count(output, v.rules.FailMarker))

	verdict := true
	for _, c := range categoryChecks {
		if strings.Contains(testName, c.label) {
			ok := c.run(v, output)
			verdict = verdict && ok
		}
	}

	matches, mismatches := v.CompareExpectedActual(output)
	report.ExpectedActual(v.out, matches, mismatches)
	if mismatches > 0 {
		verdict = false
	}

	report.ResultsHeader(v.out)
	v.vacuous = nil
	for _, r := range v.results {
		report.ResultLine(v.out, r.OK, r.Detail)
		if r.Vacuous() {
			v.vacuous = append(v.vacuous, r.Check)
		}
	}
	v.results = v.results[:0]

	return verdict
}
