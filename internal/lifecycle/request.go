// Package lifecycle holds the pure decision logic for request and activity
// state changes. Functions here take an entity snapshot and an input and
// return the mutated snapshot plus any cross-entity effect; reading and
// persisting, atomically, is the caller's job.
package lifecycle

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

var requestTransitions = map[domain.RequestState][]domain.RequestState{
	domain.RequestStateToVerify:   {domain.RequestStateToHandle, domain.RequestStateVoid},
	domain.RequestStateToHandle:   {domain.RequestStateInProgress},
	domain.RequestStateInProgress: {domain.RequestStateResolved},
	domain.RequestStateResolved:   {domain.RequestStateValidated, domain.RequestStateReopened},
	domain.RequestStateReopened:   {domain.RequestStateInProgress},
	domain.RequestStateValidated:  {domain.RequestStateToInvoice},
	domain.RequestStateToInvoice:  {domain.RequestStateInvoiced},
	domain.RequestStateInvoiced:   {domain.RequestStateClosed},
}

// InitialRequestState picks the starting state by origin channel. Requests
// arriving from unattended channels must be verified by an operator first.
func InitialRequestState(origin domain.RequestOrigin) domain.RequestState {
	switch origin {
	case domain.OriginMonitoring, domain.OriginSwitchboard, domain.OriginEmail:
		return domain.RequestStateToVerify
	default:
		return domain.RequestStateToHandle
	}
}

// RequestTransitionInput carries the target state and the metadata some
// transitions stamp onto the request.
type RequestTransitionInput struct {
	Target  domain.RequestState
	Reason  string
	ActorID string
	Now     time.Time
}

// TransitionRequest applies one legal state change and its side effects,
// returning the updated snapshot. The snapshot is untouched when the
// transition is rejected.
func TransitionRequest(r domain.Request, in RequestTransitionInput) (domain.Request, error) {
	if !requestTransitionAllowed(r.State, in.Target) {
		return r, apperrors.NewInvalidTransition(string(r.State), string(in.Target))
	}

	switch in.Target {
	case domain.RequestStateReopened:
		now := in.Now
		r.ReopenedAt = &now
		reason := in.Reason
		r.ReopenReason = &reason
	case domain.RequestStateValidated:
		actor := in.ActorID
		now := in.Now
		auto := false
		r.ValidatedByID = &actor
		r.ValidatedAt = &now
		r.AutoValidated = &auto
	}

	r.State = in.Target
	return r, nil
}

// OnActivityCreated advances a request waiting for work when its first
// activity appears. The second return value reports whether the state moved.
func OnActivityCreated(state domain.RequestState) (domain.RequestState, bool) {
	if state == domain.RequestStateToHandle {
		return domain.RequestStateInProgress, true
	}
	return state, false
}

func requestTransitionAllowed(current, target domain.RequestState) bool {
	for _, allowed := range requestTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}
