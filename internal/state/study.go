package state

import (
	"context"
	"fmt"
	"time"

	"studypoints/pkg/client"
)

// StudyController drives the Idle → Active → Idle study cycle. The server
// owns accrual timing: start and stop are bare signals, and the locally
// recorded start instant is for display only.
type StudyController struct {
	store *Store
}

// NewStudyController creates a study controller over the store.
func NewStudyController(store *Store) *StudyController {
	return &StudyController{store: store}
}

// Start asks the server to open a study session. On success the local
// marker becomes active; on failure it stays idle and the server's
// reason (e.g. "session already in progress") is surfaced verbatim.
func (c *StudyController) Start(ctx context.Context) error {
	username, ok := c.store.currentUsername()
	if !ok {
		c.store.setStatus(noSessionMsg, true)
		return ErrNoSession
	}
	if !c.store.begin(opStudyStart) {
		return ErrBusy
	}
	defer c.store.end(opStudyStart)

	if err := c.store.api.StartStudy(ctx, username); err != nil {
		c.store.setStatus(client.Reason(err, studyStartFallback), true)
		return err
	}

	c.store.markStudyActive(time.Now())
	c.store.setStatus("study session started — go focus", false)
	return nil
}

// Stop asks the server to close the study session and credit the earned
// points, then re-fetches the balance so it stays server-derived. On
// failure the local marker is left untouched.
func (c *StudyController) Stop(ctx context.Context) error {
	username, ok := c.store.currentUsername()
	if !ok {
		c.store.setStatus(noSessionMsg, true)
		return ErrNoSession
	}
	if !c.store.begin(opStudyStop) {
		return ErrBusy
	}
	defer c.store.end(opStudyStop)

	if err := c.store.api.EndStudy(ctx, username); err != nil {
		c.store.setStatus(client.Reason(err, studyEndFallback), true)
		return err
	}

	if elapsed, had := c.store.clearStudy(time.Now()); had {
		c.store.setStatus(fmt.Sprintf("study complete — %ds logged, points awarded", int(elapsed.Seconds())), false)
	} else {
		c.store.setStatus("study complete — points awarded", false)
	}

	c.store.RefreshPoints(ctx) //nolint:errcheck // failure is already surfaced as status
	return nil
}
