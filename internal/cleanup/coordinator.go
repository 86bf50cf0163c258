package cleanup

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/roadwatch/roadwatch/internal/detector"
)

// deleteTimeout bounds the fire-and-forget deletion so a hung server
// cannot hold up process exit indefinitely.
const deleteTimeout = 10 * time.Second

// Coordinator tracks the server-side artifact of the most recent analysis
// and deletes it exactly once when the user leaves. Deletion is best-effort
// housekeeping; the server also expires artifacts on its own schedule.
type Coordinator struct {
	mu       sync.Mutex
	deleter  detector.ArtifactDeleter
	log      zerolog.Logger
	artifact string
	fired    bool
	wg       sync.WaitGroup
}

// New returns a coordinator with no artifact registered.
func New(deleter detector.ArtifactDeleter, log zerolog.Logger) *Coordinator {
	return &Coordinator{deleter: deleter, log: log}
}

// Register records the artifact to delete on exit. A blank id is ignored.
// Registering a new artifact while another is tracked fires deletion of the
// previous one immediately: only the most recent analysis is ever kept.
func (c *Coordinator) Register(id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	previous := c.artifact
	c.artifact = id
	c.fired = false
	c.mu.Unlock()

	if previous != "" && previous != id {
		c.dispatch(previous)
	}
}

// Artifact returns the currently tracked artifact id, blank when none.
func (c *Coordinator) Artifact() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.artifact
}

// NavigationImminent fires the deletion without waiting for the result, for
// paths where the process may die before a reply arrives. At most one
// deletion is sent per registered artifact no matter how many exit paths
// run.
func (c *Coordinator) NavigationImminent() {
	c.fire()
}

// Teardown fires the deletion and waits for in-flight requests to finish
// or time out. Safe to call after NavigationImminent; the artifact is only
// deleted once.
func (c *Coordinator) Teardown() {
	c.fire()
	c.wg.Wait()
}

func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.fired || c.artifact == "" {
		c.mu.Unlock()
		return
	}
	c.fired = true
	id := c.artifact
	c.mu.Unlock()

	c.dispatch(id)
}

func (c *Coordinator) dispatch(id string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		defer cancel()
		c.log.Debug().Str("artifact", id).Msg("deleting server-side artifact")
		c.deleter.DeleteArtifact(ctx, id)
	}()
}

// LeavePrompt returns the confirmation text shown before quitting while an
// analysis is on screen, or blank when there is nothing to lose.
func (c *Coordinator) LeavePrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.artifact == "" {
		return ""
	}
	return "Leaving will discard the current analysis. Quit anyway?"
}
