package migrator

import (
	"context"

	"github.com/looplab/fsm"

	fsmutil "github.com/airshift-io/airshift/internal/pkg/util/fsm"
	"github.com/airshift-io/airshift/pkg/log"
)

// Phase is the state of a migration session.
type Phase string

const (
	// PhaseIdle means the session has not started.
	PhaseIdle Phase = "Idle"
	// PhaseLoading means the source is being invoked.
	PhaseLoading Phase = "Loading"
	// PhaseTransferring means parcels are crossing the handoff boundary.
	PhaseTransferring Phase = "Transferring"
	// PhaseApplying means decoded data is being written to the new stores.
	PhaseApplying Phase = "Applying"
	// PhaseSucceeded means the attempt completed.
	PhaseSucceeded Phase = "Succeeded"
	// PhaseFailed means the attempt was abandoned; the boot proceeds
	// without migrated data.
	PhaseFailed Phase = "Failed"
)

const (
	eventStart    = "event_start"
	eventTransfer = "event_transfer"
	eventApply    = "event_apply"
	eventSuccess  = "event_success"
	eventFail     = "event_fail"
)

// sessionFSM tracks the single pass a migration session makes through its
// phases. There is deliberately no retry edge: a failed attempt stays
// failed for the rest of the boot.
type sessionFSM struct {
	*fsm.FSM
}

func newSessionFSM() *sessionFSM {
	f := &sessionFSM{}

	events := fsm.Events{
		{Name: eventStart, Src: []string{string(PhaseIdle)}, Dst: string(PhaseLoading)},
		{Name: eventTransfer, Src: []string{string(PhaseLoading)}, Dst: string(PhaseTransferring)},
		{Name: eventApply, Src: []string{string(PhaseTransferring)}, Dst: string(PhaseApplying)},
		{Name: eventSuccess, Src: []string{string(PhaseApplying)}, Dst: string(PhaseSucceeded)},
		{Name: eventFail, Src: []string{
			string(PhaseLoading), string(PhaseTransferring), string(PhaseApplying),
		}, Dst: string(PhaseFailed)},
	}

	callbacks := fsm.Callbacks{
		"enter_state": fsmutil.WrapEvent(f.logTransition),
	}

	f.FSM = fsm.NewFSM(string(PhaseIdle), events, callbacks)
	return f
}

func (f *sessionFSM) logTransition(ctx context.Context, e *fsm.Event) error {
	log.Debug("migration session transition", "from", e.Src, "to", e.Dst, "event", e.Event)
	return nil
}

func (f *sessionFSM) phase() Phase {
	return Phase(f.Current())
}
