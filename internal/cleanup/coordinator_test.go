package cleanup

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type recordingDeleter struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingDeleter) DeleteArtifact(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *recordingDeleter) deleted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func TestCoordinator_TeardownDeletesOnce(t *testing.T) {
	deleter := &recordingDeleter{}
	c := New(deleter, zerolog.Nop())

	c.Register("vid-1")
	c.Teardown()
	c.Teardown()
	c.NavigationImminent()
	c.Teardown()

	if got := deleter.deleted(); len(got) != 1 || got[0] != "vid-1" {
		t.Fatalf("deletions = %v, want exactly one for vid-1", got)
	}
}

func TestCoordinator_NothingRegisteredIsQuiet(t *testing.T) {
	deleter := &recordingDeleter{}
	c := New(deleter, zerolog.Nop())

	c.Register("")
	c.NavigationImminent()
	c.Teardown()

	if got := deleter.deleted(); len(got) != 0 {
		t.Fatalf("deletions = %v, want none", got)
	}
	if prompt := c.LeavePrompt(); prompt != "" {
		t.Fatalf("LeavePrompt() = %q with no artifact, want blank", prompt)
	}
}

func TestCoordinator_ReRegisterDeletesPrevious(t *testing.T) {
	deleter := &recordingDeleter{}
	c := New(deleter, zerolog.Nop())

	c.Register("vid-1")
	c.Register("vid-2")
	c.Teardown()

	got := deleter.deleted()
	if len(got) != 2 {
		t.Fatalf("deletions = %v, want previous then current", got)
	}
	seen := map[string]bool{got[0]: true, got[1]: true}
	if !seen["vid-1"] || !seen["vid-2"] {
		t.Fatalf("deletions = %v, want vid-1 and vid-2", got)
	}
}

func TestCoordinator_ReRegisterSameIDDoesNotDelete(t *testing.T) {
	deleter := &recordingDeleter{}
	c := New(deleter, zerolog.Nop())

	c.Register("vid-1")
	c.Register("vid-1")

	if got := deleter.deleted(); len(got) != 0 {
		t.Fatalf("deletions = %v before teardown, want none", got)
	}
}

func TestCoordinator_RegisterAfterTeardownArmsAgain(t *testing.T) {
	deleter := &recordingDeleter{}
	c := New(deleter, zerolog.Nop())

	c.Register("vid-1")
	c.Teardown()
	c.Register("vid-2")
	c.Teardown()

	got := deleter.deleted()
	if len(got) != 2 || got[0] != "vid-1" || got[1] != "vid-2" {
		t.Fatalf("deletions = %v, want [vid-1 vid-2]", got)
	}
}

func TestCoordinator_LeavePromptWhileArtifactTracked(t *testing.T) {
	c := New(&recordingDeleter{}, zerolog.Nop())
	c.Register("vid-1")
	if prompt := c.LeavePrompt(); prompt == "" {
		t.Fatalf("LeavePrompt() blank while artifact tracked")
	}
}
