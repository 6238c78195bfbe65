package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/shinji-kodama/intervalset/internal/intervalset"
	"github.com/shinji-kodama/intervalset/internal/script"
)

var (
	intervalColor = color.New(color.FgGreen)
	pointColor    = color.New(color.FgYellow)
	passColor     = color.New(color.FgGreen, color.Bold)
	failColor     = color.New(color.FgRed, color.Bold)
)

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// ColorizeSegments renders segment tokens in canonical form, colouring
// intervals and lone points differently. With colour disabled the result
// equals the plain render. The empty set is shown as "∅".
func ColorizeSegments(segments []string) string {
	if len(segments) == 0 {
		return "∅"
	}
	var b strings.Builder
	for _, seg := range segments {
		if strings.HasPrefix(seg, intervalset.SingletonGlyph) {
			b.WriteString(pointColor.Sprint(seg))
		} else {
			b.WriteString(intervalColor.Sprint(seg))
		}
		b.WriteByte(',')
	}
	return b.String()
}

// printResultText writes a script result in human-readable form:
//
//	split (int, btree): ≠0,[1,5),(5,10],
//	  stored: 1 interval, 2 markers
//	  probe 5: excluded
//	  PASS
func printResultText(w io.Writer, res *script.Result) {
	fmt.Fprintf(w, "%s (%s, %s): %s\n", res.Name, res.Kind, res.Backend, ColorizeSegments(res.Segments))
	fmt.Fprintf(w, "  stored: %s, %s\n",
		plural(res.Intervals, "interval"), plural(res.Markers, "marker"))

	for _, p := range res.Probes {
		fmt.Fprintf(w, "  probe %s: %s\n", p.Value, p.Status)
	}
	for _, v := range res.Violations {
		fmt.Fprintf(w, "  %s %s\n", failColor.Sprint("invariant:"), v)
	}
	for _, f := range res.Failures {
		fmt.Fprintf(w, "  %s %s\n", failColor.Sprint("expect:"), f)
	}
	if res.Verification != nil {
		fmt.Fprintf(w, "  verified %s\n", plural(res.Verification.Samples, "sample"))
		for _, m := range res.Verification.Mismatches {
			fmt.Fprintf(w, "  %s %s\n", failColor.Sprint("mismatch:"), m)
		}
	}

	ok := res.Passed() && (res.Verification == nil || res.Verification.OK())
	if ok {
		fmt.Fprintf(w, "  %s\n", passColor.Sprint("PASS"))
	} else {
		fmt.Fprintf(w, "  %s\n", failColor.Sprint("FAIL"))
	}
}

// plural formats a count with thousands separators and a naive plural:
// "1 marker", "12,000 ports".
func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
