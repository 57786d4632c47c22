package models

type UserStatus string
type UserRole string
type EngagementStatus string
type JudgeStatus string
type UrgencyLevel string
type ReviewStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleUser    UserRole = "user"
	UserRoleArtisan UserRole = "artisan"
	UserRoleAdmin   UserRole = "admin"

	EngagementStatusPending   EngagementStatus = "pending"
	EngagementStatusQuoted    EngagementStatus = "quoted"
	EngagementStatusAccepted  EngagementStatus = "accepted"
	EngagementStatusStarted   EngagementStatus = "started"
	EngagementStatusCompleted EngagementStatus = "completed"
	EngagementStatusCancelled EngagementStatus = "cancelled"

	JudgeStatusPending  JudgeStatus = "pending"
	JudgeStatusAccepted JudgeStatus = "accepted"
	JudgeStatusDeclined JudgeStatus = "declined"

	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"

	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// engagementTransitions is the full set of legal status moves. The order is
// monotonic along pending→quoted→accepted→started→completed; cancelled is a
// terminal branch reachable from any non-terminal state.
var engagementTransitions = map[EngagementStatus][]EngagementStatus{
	EngagementStatusPending:  {EngagementStatusQuoted, EngagementStatusCancelled},
	EngagementStatusQuoted:   {EngagementStatusAccepted, EngagementStatusCancelled},
	EngagementStatusAccepted: {EngagementStatusStarted, EngagementStatusCancelled},
	EngagementStatusStarted:  {EngagementStatusCompleted, EngagementStatusCancelled},
}

// CanTransitionTo reports whether the move is in the transition table.
// Completed and cancelled have no outgoing edges.
func (s EngagementStatus) CanTransitionTo(next EngagementStatus) bool {
	for _, allowed := range engagementTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s EngagementStatus) IsTerminal() bool {
	return s == EngagementStatusCompleted || s == EngagementStatusCancelled
}

// CanTransitionTo for judge invitations: pending→accepted and
// pending→declined only, no reversal.
func (s JudgeStatus) CanTransitionTo(next JudgeStatus) bool {
	if s != JudgeStatusPending {
		return false
	}
	return next == JudgeStatusAccepted || next == JudgeStatusDeclined
}
