package tasks

import (
	"strings"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		commands := make([]string, n)
		for i := range commands {
			commands[i] = strings.Repeat("x", i+1)
		}
		r := NewRegistry(commands)

		if r.Len() != n {
			t.Fatalf("Expected %d tasks, got %d", n, r.Len())
		}
		for i, task := range r.All() {
			if task.Index != i {
				t.Errorf("Expected index %d, got %d", i, task.Index)
			}
			if task.Command != commands[i] {
				t.Errorf("Expected command %q, got %q", commands[i], task.Command)
			}
			if !task.Running() {
				t.Errorf("Task %d should start Running, got %v", i, task.State())
			}
			if task.Content() != "" || len(task.Chunks()) != 0 {
				t.Errorf("Task %d should start with an empty log", i)
			}
		}
		if len(r.Running()) != n {
			t.Errorf("Expected %d running tasks, got %d", n, len(r.Running()))
		}
	}
}

func TestRegistry_SelectionClamps(t *testing.T) {
	r := NewRegistry([]string{"a", "b", "c"})

	tests := []struct {
		in, want int
	}{
		{0, 0},
		{2, 2},
		{3, 2},
		{100, 2},
		{-1, 0},
		{1, 1},
	}
	for _, tt := range tests {
		if got := r.SetSelection(tt.in); got != tt.want {
			t.Errorf("SetSelection(%d) = %d, want %d", tt.in, got, tt.want)
		}
		if r.Selected() != tt.want {
			t.Errorf("Selected() = %d after SetSelection(%d), want %d", r.Selected(), tt.in, tt.want)
		}
		if r.SelectedTask().Index != tt.want {
			t.Errorf("SelectedTask().Index = %d, want %d", r.SelectedTask().Index, tt.want)
		}
	}
}

func TestRegistry_AppendKeepsOrder(t *testing.T) {
	r := NewRegistry([]string{"a", "b"})
	chunks := []string{"one ", "two\n", "\x1b[31mred\x1b[0m", "", "three"}

	for _, c := range chunks {
		if !r.Append(0, c) {
			t.Fatalf("Append(%q) rejected while Running", c)
		}
	}

	got := r.Get(0).Chunks()
	if len(got) != len(chunks) {
		t.Fatalf("Expected %d chunks, got %d", len(chunks), len(got))
	}
	for i := range chunks {
		if got[i] != chunks[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], chunks[i])
		}
	}
	if r.Get(0).Content() != strings.Join(chunks, "") {
		t.Errorf("Content mismatch: %q", r.Get(0).Content())
	}
	if r.Get(1).Content() != "" {
		t.Errorf("Other task log should be untouched, got %q", r.Get(1).Content())
	}
}

func TestRegistry_MarkExitedIsOneWay(t *testing.T) {
	r := NewRegistry([]string{"a"})
	r.Append(0, "out")

	if !r.MarkExited(0, 3) {
		t.Fatal("First MarkExited should succeed")
	}
	task := r.Get(0)
	code, exited := task.ExitCode()
	if !exited || code != 3 {
		t.Errorf("Expected Exited(3), got exited=%v code=%d", exited, code)
	}
	if !strings.HasSuffix(task.Content(), "Process exited with code 3\n") {
		t.Errorf("Missing exit marker: %q", task.Content())
	}

	before := task.Content()
	if r.MarkExited(0, 0) {
		t.Error("Second MarkExited should be rejected")
	}
	if r.Append(0, "late") {
		t.Error("Append after exit should be rejected")
	}
	if r.Fail(0, -1, "nope") {
		t.Error("Fail after exit should be rejected")
	}
	if task.Content() != before {
		t.Errorf("Exited log changed: %q -> %q", before, task.Content())
	}
	if code, _ := task.ExitCode(); code != 3 {
		t.Errorf("Exit code changed to %d", code)
	}
	if len(r.Running()) != 0 {
		t.Errorf("Expected no running tasks")
	}
}

func TestRegistry_OutOfRange(t *testing.T) {
	r := NewRegistry([]string{"a"})
	if r.Get(-1) != nil || r.Get(1) != nil {
		t.Error("Get out of range should return nil")
	}
	if r.Append(5, "x") || r.MarkExited(5, 0) || r.Fail(5, 1, "x") {
		t.Error("Mutations out of range should be rejected")
	}
}

func TestRegistry_WorstExitCode(t *testing.T) {
	r := NewRegistry([]string{"a", "b", "c", "d"})
	if r.WorstExitCode() != 0 {
		t.Errorf("Expected 0 with nothing exited")
	}
	r.MarkExited(0, 0)
	if r.WorstExitCode() != 0 {
		t.Errorf("Expected 0 with only successes")
	}
	r.Fail(1, -1, "failed to start")
	if r.WorstExitCode() != 1 {
		t.Errorf("Expected sentinel to count as 1, got %d", r.WorstExitCode())
	}
	r.MarkExited(2, 143)
	r.MarkExited(3, 2)
	if r.WorstExitCode() != 143 {
		t.Errorf("Expected 143, got %d", r.WorstExitCode())
	}
}
