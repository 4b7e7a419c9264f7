package plan

import (
	"testing"
)

// --- ParseTasks ---

func TestParseTasks_MixedSeparators(t *testing.T) {
	raw := "1. Finish report\n2) Call client\n**3:** Review notes\nKeep going!"
	tasks := ParseTasks(raw)

	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d: %+v", len(tasks), tasks)
	}
	want := []string{"Finish report", "Call client", "Review notes"}
	for i, task := range tasks {
		if task.ID != i+1 {
			t.Errorf("task %d: expected ordinal %d, got %d", i, i+1, task.ID)
		}
		if task.Text != want[i] {
			t.Errorf("task %d: expected text %q, got %q", i, want[i], task.Text)
		}
		if task.Done {
			t.Errorf("task %d: expected done=false", i)
		}
	}
}

func TestParseTasks_BareWhitespaceSeparator(t *testing.T) {
	tasks := ParseTasks("1 Water the plants")
	if len(tasks) != 1 || tasks[0].ID != 1 || tasks[0].Text != "Water the plants" {
		t.Errorf("expected one task 'Water the plants', got %+v", tasks)
	}
}

func TestParseTasks_DropsNonTaskLines(t *testing.T) {
	raw := "Here is your plan:\n\n1. First task\n\nYou can do it!"
	tasks := ParseTasks(raw)
	if len(tasks) != 1 || tasks[0].Text != "First task" {
		t.Errorf("expected only the numbered line, got %+v", tasks)
	}
}

func TestParseTasks_ZeroTasksIsNotAnError(t *testing.T) {
	tasks := ParseTasks("The model decided to write prose today.\nNo lists at all.")
	if len(tasks) != 0 {
		t.Errorf("expected zero tasks, got %+v", tasks)
	}
}

func TestParseTasks_Empty(t *testing.T) {
	if tasks := ParseTasks(""); len(tasks) != 0 {
		t.Errorf("expected zero tasks for empty input, got %+v", tasks)
	}
}

func TestParseTasks_KeepsDuplicateOrdinals(t *testing.T) {
	// Sloppy numbering from the provider is accepted as-is.
	tasks := ParseTasks("1. one\n1. one again\n3. three")
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != 1 || tasks[1].ID != 1 || tasks[2].ID != 3 {
		t.Errorf("expected ordinals [1 1 3], got %+v", tasks)
	}
}

func TestParseTasks_StripsEmphasisInsideText(t *testing.T) {
	tasks := ParseTasks("1. Read *one* chapter")
	if len(tasks) != 1 || tasks[0].Text != "Read one chapter" {
		t.Errorf("expected emphasis stripped, got %+v", tasks)
	}
}

func TestParseTasks_NoWhitespaceAfterSeparator(t *testing.T) {
	// "1.Finish" has no whitespace after the separator and is not a task line.
	tasks := ParseTasks("1.Finish report")
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %+v", tasks)
	}
}
