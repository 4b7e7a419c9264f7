package plan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nickmtn/planbot/internal/db"
)

var numberedLineRe = regexp.MustCompile(`^\d+[.):]?\s`)

// isNumberedLine reports whether a line starts like a numbered task.
// It backs the closing-remark heuristic: when a plan is re-rendered
// after a toggle, the last line of the stored text is kept as a closing
// remark only if it doesn't look like a task. Inherently approximate.
func isNumberedLine(line string) bool {
	return numberedLineRe.MatchString(strings.TrimSpace(line))
}

// closingRemark returns the trailing non-task line of the stored raw
// text, or "" when the text ends on a task line.
func closingRemark(content string) string {
	lines := strings.Split(strings.TrimRight(content, "\n "), "\n")
	if len(lines) == 0 {
		return ""
	}
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" || isNumberedLine(last) {
		return ""
	}
	return last
}

// RenderChecklist rebuilds the plan message from the current task state:
// done tasks struck through, the rest plain, the original closing remark
// preserved at the bottom.
func RenderChecklist(content string, tasks []db.Task) string {
	var b strings.Builder
	for i, t := range tasks {
		if i > 0 {
			b.WriteString("\n")
		}
		if t.Done {
			fmt.Fprintf(&b, "~~%d. %s~~", t.ID, t.Text)
		} else {
			fmt.Fprintf(&b, "%d. %s", t.ID, t.Text)
		}
	}
	if remark := closingRemark(content); remark != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(remark)
	}
	return b.String()
}
