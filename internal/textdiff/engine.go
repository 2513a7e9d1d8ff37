// Package textdiff turns two versions of a file into unified diff text.
// Line matching is delegated to go-difflib; this package only walks the
// opcodes and renders hunks.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Kind classifies a diff line.
type Kind int

const (
	Equal Kind = iota
	Added
	Removed
)

// Line is a single line of diff output.
type Line struct {
	Kind  Kind
	Text  string
	OldNo int // line number in the old version (0 if not applicable)
	NewNo int // line number in the new version (0 if not applicable)
}

// hunkContext is the number of unchanged lines shown around a change.
const hunkContext = 3

// Unified renders the differences between old and new as unified diff
// text with file headers and hunk markers. It returns the empty string
// when the inputs are identical.
func Unified(old, new []string, oldLabel, newLabel string) string {
	groups, err := groupedOpCodes(old, new)
	if err != nil {
		// Fall back to a whole-file rendering when the matcher fails.
		lines := naiveLines(old, new)
		if !hasChanges(lines) {
			return ""
		}
		var b strings.Builder
		writeHeader(&b, oldLabel, newLabel)
		for _, line := range lines {
			writeLine(&b, line)
		}
		return b.String()
	}

	if len(groups) == 0 {
		return ""
	}

	var b strings.Builder
	writeHeader(&b, oldLabel, newLabel)

	for _, group := range groups {
		first, last := group[0], group[len(group)-1]
		oldStart, oldLen := first.I1+1, last.I2-first.I1
		if oldLen == 0 {
			oldStart = first.I1
		}
		newStart, newLen := first.J1+1, last.J2-first.J1
		if newLen == 0 {
			newStart = first.J1
		}
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldLen, newStart, newLen)

		for _, op := range group {
			switch op.Tag {
			case 'e':
				for i := op.I1; i < op.I2; i++ {
					b.WriteString(" " + old[i] + "\n")
				}
			case 'd':
				for i := op.I1; i < op.I2; i++ {
					b.WriteString("-" + old[i] + "\n")
				}
			case 'i':
				for j := op.J1; j < op.J2; j++ {
					b.WriteString("+" + new[j] + "\n")
				}
			case 'r':
				for i := op.I1; i < op.I2; i++ {
					b.WriteString("-" + old[i] + "\n")
				}
				for j := op.J1; j < op.J2; j++ {
					b.WriteString("+" + new[j] + "\n")
				}
			}
		}
	}

	return b.String()
}

// Lines computes the full line-by-line comparison of old and new,
// including unchanged lines. Used for stats and tests.
func Lines(old, new []string) []Line {
	opcodes, err := opCodes(old, new)
	if err != nil {
		return naiveLines(old, new)
	}

	var lines []Line
	oldNo, newNo := 1, 1

	for _, op := range opcodes {
		switch op.Tag {
		case 'e':
			for i := op.I1; i < op.I2; i++ {
				lines = append(lines, Line{Kind: Equal, Text: old[i], OldNo: oldNo, NewNo: newNo})
				oldNo++
				newNo++
			}
		case 'd':
			for i := op.I1; i < op.I2; i++ {
				lines = append(lines, Line{Kind: Removed, Text: old[i], OldNo: oldNo})
				oldNo++
			}
		case 'i':
			for j := op.J1; j < op.J2; j++ {
				lines = append(lines, Line{Kind: Added, Text: new[j], NewNo: newNo})
				newNo++
			}
		case 'r':
			for i := op.I1; i < op.I2; i++ {
				lines = append(lines, Line{Kind: Removed, Text: old[i], OldNo: oldNo})
				oldNo++
			}
			for j := op.J1; j < op.J2; j++ {
				lines = append(lines, Line{Kind: Added, Text: new[j], NewNo: newNo})
				newNo++
			}
		}
	}

	return lines
}

// Stats counts added and removed lines.
func Stats(lines []Line) (added, removed int) {
	for _, line := range lines {
		switch line.Kind {
		case Added:
			added++
		case Removed:
			removed++
		}
	}
	return
}

// Split breaks file content into lines for diffing. A trailing newline
// does not produce a phantom empty line, and empty content produces an
// empty slice rather than [""].
func Split(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

func opCodes(old, new []string) (opcodes []difflib.OpCode, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("line matcher failed: %v", r)
		}
	}()

	matcher := difflib.NewMatcher(old, new)
	return matcher.GetOpCodes(), nil
}

func groupedOpCodes(old, new []string) (groups [][]difflib.OpCode, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("line matcher failed: %v", r)
		}
	}()

	matcher := difflib.NewMatcher(old, new)
	return matcher.GetGroupedOpCodes(hunkContext), nil
}

// naiveLines pairs lines positionally when the matcher is unavailable.
func naiveLines(old, new []string) []Line {
	var lines []Line
	oldNo, newNo := 1, 1
	longest := len(old)
	if len(new) > longest {
		longest = len(new)
	}

	for i := 0; i < longest; i++ {
		hasOld := i < len(old)
		hasNew := i < len(new)

		switch {
		case hasOld && hasNew && old[i] == new[i]:
			lines = append(lines, Line{Kind: Equal, Text: old[i], OldNo: oldNo, NewNo: newNo})
			oldNo++
			newNo++
		case hasOld && hasNew:
			lines = append(lines, Line{Kind: Removed, Text: old[i], OldNo: oldNo})
			lines = append(lines, Line{Kind: Added, Text: new[i], NewNo: newNo})
			oldNo++
			newNo++
		case hasOld:
			lines = append(lines, Line{Kind: Removed, Text: old[i], OldNo: oldNo})
			oldNo++
		case hasNew:
			lines = append(lines, Line{Kind: Added, Text: new[i], NewNo: newNo})
			newNo++
		}
	}

	return lines
}

func hasChanges(lines []Line) bool {
	for _, line := range lines {
		if line.Kind != Equal {
			return true
		}
	}
	return false
}

func writeHeader(b *strings.Builder, oldLabel, newLabel string) {
	fmt.Fprintf(b, "--- %s\n", oldLabel)
	fmt.Fprintf(b, "+++ %s\n", newLabel)
}

func writeLine(b *strings.Builder, line Line) {
	switch line.Kind {
	case Added:
		b.WriteString("+" + line.Text + "\n")
	case Removed:
		b.WriteString("-" + line.Text + "\n")
	default:
		b.WriteString(" " + line.Text + "\n")
	}
}
