package plan

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nickmtn/planbot/internal/db"
)

// A task line is "<digits><separator><whitespace><rest>" where the
// separator is ".", ")", ":" or bare whitespace.
var taskLineRe = regexp.MustCompile(`^(\d+)[.):]?\s+(.+)$`)

var emphasisStripper = strings.NewReplacer("*", "", "_", "", "`", "")

// ParseTasks converts the provider's free-form text into the structured
// task list. The provider's output format is not contractual, so the
// parse is permissive: lines that don't look like a numbered task (the
// motivational closer, blanks, preamble) are dropped from the list but
// survive in the stored raw text. Zero parsed tasks is a valid result,
// not an error. Duplicate or out-of-order ordinals are kept as-is.
func ParseTasks(raw string) []db.Task {
	var tasks []db.Task
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(emphasisStripper.Replace(line))
		m := taskLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue // ordinal too large to matter
		}
		tasks = append(tasks, db.Task{
			ID:   id,
			Text: strings.TrimSpace(m[2]),
		})
	}
	return tasks
}
