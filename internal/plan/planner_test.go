package plan

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nickmtn/planbot/internal/db"
)

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type sentPlan struct {
	chatID string
	text   string
	tasks  []db.Task
}

type fakeMessenger struct {
	texts []string
	plans []sentPlan
}

func (f *fakeMessenger) SendText(chatID, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) SendPlan(chatID, text string, tasks []db.Task) error {
	f.plans = append(f.plans, sentPlan{chatID: chatID, text: text, tasks: tasks})
	return nil
}

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func testUser(t *testing.T, d *db.DB) *db.User {
	t.Helper()
	u, err := d.GetOrCreateUser("chat-1", "alice")
	if err != nil {
		t.Fatalf("GetOrCreateUser: %v", err)
	}
	return u
}

func utcDate(daysAgo int) string {
	return time.Now().UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02")
}

// --- RunForUser ---

func TestRunForUser_GeneratesAndStores(t *testing.T) {
	d := openTestDB(t)
	u := testUser(t, d)
	d.CreateGoal(u.ID, "write a novel", "", 0)

	gen := &fakeLLM{reply: "1. Write 500 words\nYou've got this!"}
	m := &fakeMessenger{}
	New(d, gen, time.UTC).RunForUser(context.Background(), u, m)

	act, err := d.GetActivity(u.ID, utcDate(0))
	if err != nil {
		t.Fatalf("GetActivity: %v", err)
	}
	if act == nil {
		t.Fatal("expected today's record to exist")
	}
	if act.Content != gen.reply {
		t.Errorf("stored content = %q, want raw provider text", act.Content)
	}
	if len(act.Tasks) != 1 || act.Tasks[0].Text != "Write 500 words" {
		t.Errorf("stored tasks = %+v", act.Tasks)
	}

	if len(m.plans) != 1 {
		t.Fatalf("expected 1 plan message, got %d", len(m.plans))
	}
	if !strings.HasPrefix(m.plans[0].text, planHeader) {
		t.Errorf("plan message missing header: %q", m.plans[0].text)
	}
	if len(m.plans[0].tasks) != 1 {
		t.Errorf("expected 1 task control, got %d", len(m.plans[0].tasks))
	}
}

func TestRunForUser_UpsertIdempotence(t *testing.T) {
	d := openTestDB(t)
	u := testUser(t, d)
	d.CreateGoal(u.ID, "goal", "", 0)

	gen := &fakeLLM{reply: "1. First run"}
	p := New(d, gen, time.UTC)
	m := &fakeMessenger{}

	p.RunForUser(context.Background(), u, m)
	gen.reply = "1. Second run"
	p.RunForUser(context.Background(), u, m)

	act, _ := d.GetActivity(u.ID, utcDate(0))
	if act == nil {
		t.Fatal("expected a record")
	}
	if act.Content != "1. Second run" {
		t.Errorf("expected second run to win, got %q", act.Content)
	}
	if len(m.plans) != 2 {
		t.Errorf("expected both runs to send, got %d messages", len(m.plans))
	}
}

func TestRunForUser_ZeroGoalShortCircuit(t *testing.T) {
	d := openTestDB(t)
	u := testUser(t, d)

	gen := &fakeLLM{reply: "should not be called"}
	m := &fakeMessenger{}
	New(d, gen, time.UTC).RunForUser(context.Background(), u, m)

	if len(gen.prompts) != 0 {
		t.Errorf("expected no provider call, got %d", len(gen.prompts))
	}
	if act, _ := d.GetActivity(u.ID, utcDate(0)); act != nil {
		t.Errorf("expected no store write, got %+v", act)
	}
	if len(m.texts) != 1 || m.texts[0] != noGoalsMessage {
		t.Errorf("expected exactly the no-goals message, got %v", m.texts)
	}
	if len(m.plans) != 0 {
		t.Errorf("expected no plan message, got %d", len(m.plans))
	}
}

func TestRunForUser_CarryOverInclusion(t *testing.T) {
	d := openTestDB(t)
	u := testUser(t, d)
	d.CreateGoal(u.ID, "goal", "", 0)

	yesterday := []db.Task{
		{ID: 1, Text: "water the plants", Done: false},
		{ID: 2, Text: "call the plumber", Done: true},
	}
	if err := d.UpsertActivity(u.ID, utcDate(1), "raw", yesterday); err != nil {
		t.Fatalf("seeding yesterday: %v", err)
	}

	gen := &fakeLLM{reply: "1. water the plants"}
	m := &fakeMessenger{}
	New(d, gen, time.UTC).RunForUser(context.Background(), u, m)

	if len(gen.prompts) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "water the plants") {
		t.Error("unfinished task text missing from prompt")
	}
	if strings.Contains(gen.prompts[0], "call the plumber") {
		t.Error("finished task text should not be carried over")
	}
	if len(m.plans) != 1 || !strings.HasPrefix(m.plans[0].text, carryHeader) {
		t.Errorf("expected carry-over header, got %v", m.plans)
	}
}

func TestRunForUser_CarryOverWithoutGoalsStillGenerates(t *testing.T) {
	d := openTestDB(t)
	u := testUser(t, d)

	d.UpsertActivity(u.ID, utcDate(1), "raw", []db.Task{{ID: 1, Text: "leftover"}})

	gen := &fakeLLM{reply: "1. leftover"}
	m := &fakeMessenger{}
	New(d, gen, time.UTC).RunForUser(context.Background(), u, m)

	if len(gen.prompts) != 1 {
		t.Errorf("expected a provider call for carry-over only, got %d", len(gen.prompts))
	}
	if len(m.plans) != 1 {
		t.Errorf("expected a plan message, got %d", len(m.plans))
	}
}

func TestRunForUser_ProviderFailureContained(t *testing.T) {
	d := openTestDB(t)
	u := testUser(t, d)
	d.CreateGoal(u.ID, "goal", "", 0)

	gen := &fakeLLM{err: errors.New("provider down")}
	m := &fakeMessenger{}
	New(d, gen, time.UTC).RunForUser(context.Background(), u, m)

	if act, _ := d.GetActivity(u.ID, utcDate(0)); act != nil {
		t.Errorf("expected no record after provider failure, got %+v", act)
	}
	if len(m.texts) != 1 || m.texts[0] != retryNotice {
		t.Errorf("expected the retry notice, got %v", m.texts)
	}
}

func TestRunForUser_UnparseableOutputStillStored(t *testing.T) {
	d := openTestDB(t)
	u := testUser(t, d)
	d.CreateGoal(u.ID, "goal", "", 0)

	gen := &fakeLLM{reply: "Prose without any list."}
	m := &fakeMessenger{}
	New(d, gen, time.UTC).RunForUser(context.Background(), u, m)

	act, _ := d.GetActivity(u.ID, utcDate(0))
	if act == nil {
		t.Fatal("expected a record despite zero parsed tasks")
	}
	if len(act.Tasks) != 0 {
		t.Errorf("expected empty task list, got %+v", act.Tasks)
	}
	if len(m.plans) != 1 || len(m.plans[0].tasks) != 0 {
		t.Errorf("expected plan message with empty button set, got %v", m.plans)
	}
}
