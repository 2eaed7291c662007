package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/go-drift/onboarding/pkg/errors"
)

const motionActivityChannel = "onboarding/motion/activity"

// Motion is the singleton motion/fitness permission adapter.
var Motion Permission = NewMotionPermission()

// motionPermission adapts the motion/fitness permission. The platform API has
// no direct request callback: starting activity updates or querying
// historical activity triggers the prompt, and either the first streamed
// activity sample or the history query result indicates the prompt has
// resolved. Both signals can fire for one request; completion is delivered
// at most once.
//
// The activity stream, once started, keeps delivering until the host app
// tears it down. This adapter never stops it.
type motionPermission struct {
	*permissionType
	activity *EventChannel

	// streamStarted records that activity updates were already requested, so
	// a repeated permission request does not start a second stream.
	streamMu      sync.Mutex
	streamStarted bool
}

// NewMotionPermission returns a motion/fitness permission adapter.
func NewMotionPermission() Permission {
	return &motionPermission{
		permissionType: newPermission("motion_fitness"),
		activity:       NewEventChannel(motionActivityChannel),
	}
}

// Request triggers the motion permission prompt and blocks until it
// resolves. The returned status is re-queried after resolution because the
// resolution signals carry no grant outcome themselves.
func (p *motionPermission) Request(ctx context.Context) (Status, error) {
	p.requestMu.Lock()
	defer p.requestMu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRequestTimeout)
		defer cancel()
	}

	currentStatus, err := p.Status(ctx)
	if err != nil {
		return StatusUnknown, err
	}
	if isTerminalStatus(currentStatus) {
		return currentStatus, nil
	}

	requestID := uuid.NewString()

	// Either the streamed sample or the history result resolves the prompt;
	// the buffered channel absorbs whichever fires second.
	resolved := make(chan struct{}, 1)
	signal := func() {
		select {
		case resolved <- struct{}{}:
		default:
		}
	}

	sub := p.activity.Listen(EventHandler{
		OnEvent: func(data any) {
			m, ok := data.(map[string]any)
			if !ok {
				return
			}
			// History results are correlated by request ID; results for a
			// previous request must not resolve this one. Streamed activity
			// samples carry no ID and always count.
			if id := parseString(m["requestId"]); id != "" && id != requestID {
				return
			}
			if errMsg := parseString(m["error"]); errMsg != "" {
				errors.Report(&errors.OnboardingError{
					Op:      "motion.queryHistory",
					Kind:    errors.KindPlatform,
					Channel: motionActivityChannel,
					Err:     fmt.Errorf("%s", errMsg),
				})
			}
			signal()
		},
		OnError: func(err error) {
			errors.Report(&errors.OnboardingError{
				Op:      "motion.streamError",
				Kind:    errors.KindPlatform,
				Channel: motionActivityChannel,
				Err:     err,
			})
		},
	})
	defer sub.Cancel()

	if err := p.startUpdatesOnce(); err != nil {
		return StatusUnknown, err
	}

	if _, err := p.channel.Invoke("queryHistory", map[string]any{
		"permission": p.name,
		"requestId":  requestID,
	}); err != nil {
		// The stream request alone can still resolve the prompt; the query
		// failure is diagnostic only.
		errors.Report(&errors.OnboardingError{
			Op:      "motion.queryHistory",
			Kind:    errors.KindPlatform,
			Channel: permissionsChannel,
			Err:     err,
		})
	}

	select {
	case <-resolved:
		status, err := p.Status(context.Background())
		if err != nil {
			return StatusUnknown, nil
		}
		return status, nil
	case <-ctx.Done():
		if finalStatus, err := p.Status(context.Background()); err == nil && isTerminalStatus(finalStatus) {
			return finalStatus, nil
		}
		if ctx.Err() == context.DeadlineExceeded {
			return StatusUnknown, ErrTimeout
		}
		return StatusUnknown, ErrCanceled
	}
}

func (p *motionPermission) startUpdatesOnce() error {
	p.streamMu.Lock()
	defer p.streamMu.Unlock()
	if p.streamStarted {
		return nil
	}
	if _, err := p.channel.Invoke("startActivityUpdates", map[string]any{
		"permission": p.name,
	}); err != nil {
		return err
	}
	p.streamStarted = true
	return nil
}
