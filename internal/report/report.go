// Package report renders the framed console report for a validation run.
// The wording and frame layout are stable; callers in scripts grep for
// the banner lines, so only styling (color, weight) may vary by terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FrameWidth is the width of the `=` frames around headers and banners.
const FrameWidth = 60

var (
	frame = strings.Repeat("=", FrameWidth)

	headerStyle = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// Header writes the framed "Validating: <name>" block that opens a run.
func Header(w io.Writer, name string) {
	fmt.Fprintf(w, "\n%s\n", frame)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Validating: %s", name)))
	fmt.Fprintf(w, "%s\n\n", frame)
}

// Tally writes one informational test-case count, e.g. "Tests PASSED: 12".
func Tally(w io.Writer, marker string, count int) {
	fmt.Fprintf(w, "Tests %s: %d\n", marker, count)
}

// ExpectedActual writes the match/mismatch summary block.
func ExpectedActual(w io.Writer, matches, mismatches int) {
	fmt.Fprintf(w, "\nExpected vs Actual:\n")
	fmt.Fprintf(w, "  Matches: %d\n", matches)
	fmt.Fprintf(w, "  Mismatches: %d\n", mismatches)
}

// ResultsHeader opens the detailed results section.
func ResultsHeader(w io.Writer) {
	fmt.Fprintf(w, "\nValidation Results:\n")
}

// ResultLine writes one check outcome with its glyph.
func ResultLine(w io.Writer, ok bool, detail string) {
	if ok {
		fmt.Fprintf(w, "  %s\n", passStyle.Render("✓ "+detail))
	} else {
		fmt.Fprintf(w, "  %s\n", failStyle.Render("❌ "+detail))
	}
}

// Banner writes the framed final verdict.
func Banner(w io.Writer, ok bool) {
	fmt.Fprintf(w, "\n%s\n", frame)
	if ok {
		fmt.Fprintln(w, passStyle.Render("✓ ALL VALIDATIONS PASSED"))
	} else {
		fmt.Fprintln(w, failStyle.Render("✗ SOME VALIDATIONS FAILED"))
	}
	fmt.Fprintf(w, "%s\n", frame)
}
