package lifecycle

import (
	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

var activityTransitions = map[domain.ActivityState][]domain.ActivityState{
	domain.ActivityStatePlanned:    {domain.ActivityStateInProgress},
	domain.ActivityStateInProgress: {domain.ActivityStateOnStandby, domain.ActivityStateCompleted},
	domain.ActivityStateOnStandby:  {domain.ActivityStateInProgress, domain.ActivityStateCompleted},
}

// ActivityEffect describes the cross-entity consequence of an activity
// transition. ResolveParent is set when completing a resolving activity
// must advance the parent request to risolta; the caller commits both
// writes inside one transaction.
type ActivityEffect struct {
	ResolveParent bool
}

// TransitionActivity applies one legal activity state change. parentState
// is the request state read within the same transaction.
func TransitionActivity(a domain.Activity, target domain.ActivityState, parentState domain.RequestState) (domain.Activity, ActivityEffect, error) {
	if !activityTransitionAllowed(a.State, target) {
		return a, ActivityEffect{}, apperrors.NewInvalidTransition(string(a.State), string(target))
	}

	a.State = target

	effect := ActivityEffect{}
	if target == domain.ActivityStateCompleted && a.Resolving && parentState == domain.RequestStateInProgress {
		effect.ResolveParent = true
	}
	return a, effect, nil
}

func activityTransitionAllowed(current, target domain.ActivityState) bool {
	for _, allowed := range activityTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}
