package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/lifecycle"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func TestInitialRequestState(t *testing.T) {
	cases := []struct {
		origin domain.RequestOrigin
		want   domain.RequestState
	}{
		{domain.OriginMonitoring, domain.RequestStateToVerify},
		{domain.OriginSwitchboard, domain.RequestStateToVerify},
		{domain.OriginEmail, domain.RequestStateToVerify},
		{domain.OriginClient, domain.RequestStateToHandle},
		{domain.OriginTechnician, domain.RequestStateToHandle},
		{domain.OriginAdmin, domain.RequestStateToHandle},
		{domain.OriginScheduler, domain.RequestStateToHandle},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, lifecycle.InitialRequestState(tc.origin), string(tc.origin))
	}
}

func TestRequestTransitionTable(t *testing.T) {
	allStates := []domain.RequestState{
		domain.RequestStateToVerify, domain.RequestStateVoid, domain.RequestStateToHandle,
		domain.RequestStateInProgress, domain.RequestStateResolved, domain.RequestStateReopened,
		domain.RequestStateValidated, domain.RequestStateToInvoice, domain.RequestStateInvoiced,
		domain.RequestStateClosed,
	}
	allowed := map[domain.RequestState][]domain.RequestState{
		domain.RequestStateToVerify:   {domain.RequestStateToHandle, domain.RequestStateVoid},
		domain.RequestStateToHandle:   {domain.RequestStateInProgress},
		domain.RequestStateInProgress: {domain.RequestStateResolved},
		domain.RequestStateResolved:   {domain.RequestStateValidated, domain.RequestStateReopened},
		domain.RequestStateReopened:   {domain.RequestStateInProgress},
		domain.RequestStateValidated:  {domain.RequestStateToInvoice},
		domain.RequestStateToInvoice:  {domain.RequestStateInvoiced},
		domain.RequestStateInvoiced:   {domain.RequestStateClosed},
	}

	for _, from := range allStates {
		for _, to := range allStates {
			req := domain.Request{ID: "r1", State: from}
			got, err := lifecycle.TransitionRequest(req, lifecycle.RequestTransitionInput{
				Target: to, ActorID: "u1", Now: fixedNow,
			})
			if contains(allowed[from], to) {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, got.State)
			} else {
				require.Error(t, err, "%s -> %s", from, to)
				var de *apperrors.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, "INVALID_TRANSITION", de.Code)
				assert.Equal(t, string(from), de.Details["current_state"])
				assert.Equal(t, string(to), de.Details["attempted_state"])
				assert.Equal(t, from, got.State, "rejected transition must not mutate state")
			}
		}
	}
}

func TestTransitionRequestValidatedStampsMetadata(t *testing.T) {
	auto := true
	req := domain.Request{
		State:         domain.RequestStateResolved,
		AutoValidated: &auto,
	}
	got, err := lifecycle.TransitionRequest(req, lifecycle.RequestTransitionInput{
		Target:  domain.RequestStateValidated,
		ActorID: "supervisor-7",
		Now:     fixedNow,
	})
	require.NoError(t, err)
	require.NotNil(t, got.ValidatedByID)
	assert.Equal(t, "supervisor-7", *got.ValidatedByID)
	require.NotNil(t, got.ValidatedAt)
	assert.Equal(t, fixedNow, *got.ValidatedAt)
	require.NotNil(t, got.AutoValidated)
	assert.False(t, *got.AutoValidated)
}

func TestTransitionRequestReopenedStampsMetadata(t *testing.T) {
	req := domain.Request{State: domain.RequestStateResolved}
	got, err := lifecycle.TransitionRequest(req, lifecycle.RequestTransitionInput{
		Target: domain.RequestStateReopened,
		Reason: "issue came back after reboot",
		Now:    fixedNow,
	})
	require.NoError(t, err)
	require.NotNil(t, got.ReopenedAt)
	assert.Equal(t, fixedNow, *got.ReopenedAt)
	require.NotNil(t, got.ReopenReason)
	assert.Equal(t, "issue came back after reboot", *got.ReopenReason)
}

func TestMonitoringRequestPath(t *testing.T) {
	req := domain.Request{State: lifecycle.InitialRequestState(domain.OriginMonitoring)}
	assert.Equal(t, domain.RequestStateToVerify, req.State)

	_, err := lifecycle.TransitionRequest(req, lifecycle.RequestTransitionInput{
		Target: domain.RequestStateInProgress, Now: fixedNow,
	})
	require.Error(t, err)

	req, err = lifecycle.TransitionRequest(req, lifecycle.RequestTransitionInput{
		Target: domain.RequestStateToHandle, Now: fixedNow,
	})
	require.NoError(t, err)
	req, err = lifecycle.TransitionRequest(req, lifecycle.RequestTransitionInput{
		Target: domain.RequestStateInProgress, Now: fixedNow,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStateInProgress, req.State)
}

func TestOnActivityCreated(t *testing.T) {
	state, moved := lifecycle.OnActivityCreated(domain.RequestStateToHandle)
	assert.True(t, moved)
	assert.Equal(t, domain.RequestStateInProgress, state)

	for _, s := range []domain.RequestState{
		domain.RequestStateToVerify, domain.RequestStateInProgress,
		domain.RequestStateResolved, domain.RequestStateClosed,
	} {
		state, moved = lifecycle.OnActivityCreated(s)
		assert.False(t, moved)
		assert.Equal(t, s, state)
	}
}

func TestActivityTransitionTable(t *testing.T) {
	allStates := []domain.ActivityState{
		domain.ActivityStatePlanned, domain.ActivityStateInProgress,
		domain.ActivityStateOnStandby, domain.ActivityStateCompleted,
	}
	allowed := map[domain.ActivityState][]domain.ActivityState{
		domain.ActivityStatePlanned:    {domain.ActivityStateInProgress},
		domain.ActivityStateInProgress: {domain.ActivityStateOnStandby, domain.ActivityStateCompleted},
		domain.ActivityStateOnStandby:  {domain.ActivityStateInProgress, domain.ActivityStateCompleted},
	}

	for _, from := range allStates {
		for _, to := range allStates {
			act := domain.Activity{ID: "a1", State: from}
			got, _, err := lifecycle.TransitionActivity(act, to, domain.RequestStateInProgress)
			if contains(allowed[from], to) {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, got.State)
			} else {
				require.Error(t, err, "%s -> %s", from, to)
				assert.Equal(t, from, got.State)
			}
		}
	}
}

func TestCompletingResolvingActivityResolvesParent(t *testing.T) {
	act := domain.Activity{State: domain.ActivityStateInProgress, Resolving: true}
	_, effect, err := lifecycle.TransitionActivity(act, domain.ActivityStateCompleted, domain.RequestStateInProgress)
	require.NoError(t, err)
	assert.True(t, effect.ResolveParent)

	// non-resolving activity leaves the parent alone
	act.Resolving = false
	_, effect, err = lifecycle.TransitionActivity(act, domain.ActivityStateCompleted, domain.RequestStateInProgress)
	require.NoError(t, err)
	assert.False(t, effect.ResolveParent)

	// resolving, but parent not in progress
	act.Resolving = true
	_, effect, err = lifecycle.TransitionActivity(act, domain.ActivityStateCompleted, domain.RequestStateResolved)
	require.NoError(t, err)
	assert.False(t, effect.ResolveParent)

	// resolving, but transition is not a completion
	act.State = domain.ActivityStateOnStandby
	_, effect, err = lifecycle.TransitionActivity(act, domain.ActivityStateInProgress, domain.RequestStateInProgress)
	require.NoError(t, err)
	assert.False(t, effect.ResolveParent)
}

func TestCheckIn(t *testing.T) {
	lat, lon := 45.4642, 9.19
	act := domain.Activity{ID: "a1", State: domain.ActivityStatePlanned}

	entry, updated, moved, err := lifecycle.CheckIn(act, false, lifecycle.CheckInInput{
		TechnicianID: "t1",
		Latitude:     &lat,
		Longitude:    &lon,
		Now:          fixedNow,
	})
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, domain.ActivityStateInProgress, updated.State)
	assert.Equal(t, fixedNow, entry.StartedAt)
	assert.Nil(t, entry.EndedAt)
	assert.Equal(t, &lat, entry.StartLatitude)

	// already-working activity keeps its state
	_, updated, moved, err = lifecycle.CheckIn(domain.Activity{ID: "a1", State: domain.ActivityStateInProgress}, false, lifecycle.CheckInInput{TechnicianID: "t1", Now: fixedNow})
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, domain.ActivityStateInProgress, updated.State)

	// open entry blocks a second check-in
	_, _, _, err = lifecycle.CheckIn(act, true, lifecycle.CheckInInput{TechnicianID: "t1", Now: fixedNow})
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CONFLICT", de.Code)
}

func TestCheckOut(t *testing.T) {
	start := fixedNow
	entry := domain.TimeEntry{ActivityID: "a1", TechnicianID: "t1", StartedAt: start}

	end := start.Add(95*time.Minute + 59*time.Second)
	closed, err := lifecycle.CheckOut(entry, end, nil)
	require.NoError(t, err)
	require.NotNil(t, closed.EndedAt)
	assert.Equal(t, end, *closed.EndedAt)
	require.NotNil(t, closed.DurationMinutes)
	assert.Equal(t, 95, *closed.DurationMinutes, "duration floors partial minutes")

	note := "replaced faulty switch"
	closed, err = lifecycle.CheckOut(entry, end, &note)
	require.NoError(t, err)
	require.NotNil(t, closed.Note)
	assert.Equal(t, note, *closed.Note)

	// closed entries cannot be checked out again
	_, err = lifecycle.CheckOut(closed, end.Add(time.Minute), nil)
	require.Error(t, err)
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
