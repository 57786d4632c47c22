package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngagementStatusCanTransitionTo(t *testing.T) {
	allowed := map[EngagementStatus][]EngagementStatus{
		EngagementStatusPending:  {EngagementStatusQuoted, EngagementStatusCancelled},
		EngagementStatusQuoted:   {EngagementStatusAccepted, EngagementStatusCancelled},
		EngagementStatusAccepted: {EngagementStatusStarted, EngagementStatusCancelled},
		EngagementStatusStarted:  {EngagementStatusCompleted, EngagementStatusCancelled},
	}
	all := []EngagementStatus{
		EngagementStatusPending,
		EngagementStatusQuoted,
		EngagementStatusAccepted,
		EngagementStatusStarted,
		EngagementStatusCompleted,
		EngagementStatusCancelled,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestEngagementStatusSkippingStates(t *testing.T) {
	assert.False(t, EngagementStatusPending.CanTransitionTo(EngagementStatusAccepted))
	assert.False(t, EngagementStatusQuoted.CanTransitionTo(EngagementStatusStarted))
	assert.False(t, EngagementStatusAccepted.CanTransitionTo(EngagementStatusCompleted))
}

func TestEngagementStatusTerminalStatesAreAbsorbing(t *testing.T) {
	for _, terminal := range []EngagementStatus{EngagementStatusCompleted, EngagementStatusCancelled} {
		assert.True(t, terminal.IsTerminal())
		for _, to := range []EngagementStatus{
			EngagementStatusPending,
			EngagementStatusQuoted,
			EngagementStatusAccepted,
			EngagementStatusStarted,
			EngagementStatusCompleted,
			EngagementStatusCancelled,
		} {
			assert.False(t, terminal.CanTransitionTo(to), "%s -> %s must be rejected", terminal, to)
		}
	}
}

func TestEngagementStatusNoReversal(t *testing.T) {
	assert.False(t, EngagementStatusQuoted.CanTransitionTo(EngagementStatusPending))
	assert.False(t, EngagementStatusAccepted.CanTransitionTo(EngagementStatusQuoted))
	assert.False(t, EngagementStatusStarted.CanTransitionTo(EngagementStatusAccepted))
}

func TestJudgeStatusTransitions(t *testing.T) {
	assert.True(t, JudgeStatusPending.CanTransitionTo(JudgeStatusAccepted))
	assert.True(t, JudgeStatusPending.CanTransitionTo(JudgeStatusDeclined))

	assert.False(t, JudgeStatusAccepted.CanTransitionTo(JudgeStatusDeclined))
	assert.False(t, JudgeStatusAccepted.CanTransitionTo(JudgeStatusPending))
	assert.False(t, JudgeStatusDeclined.CanTransitionTo(JudgeStatusAccepted))
	assert.False(t, JudgeStatusDeclined.CanTransitionTo(JudgeStatusPending))
	assert.False(t, JudgeStatusPending.CanTransitionTo(JudgeStatusPending))
}
