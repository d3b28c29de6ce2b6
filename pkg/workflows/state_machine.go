package workflows

import "fmt"

// Status is a workflow status literal as stored on the record. The values are
// the production French labels used across the HR tables.
type Status string

const (
	StatusPending   Status = "En attente"
	StatusApproved  Status = "Approuvé"
	StatusRejected  Status = "Refusé"
	StatusValidated Status = "Validé"
)

// InvalidTransitionError reports a transition that the state machine does not
// define, naming the offending target and what would have been allowed.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %q -> %q (allowed: %v)", e.From, e.To, e.Allowed)
}

// StateMachine enforces status transitions for workflow entities
type StateMachine struct {
	allowedTransitions map[Status][]Status
}

// NewApprovalMachine covers leave requests and authorizations: Pending moves
// to Approved or Rejected, both of which are terminal. Re-approving or
// re-rejecting a decided record is an invalid transition, not a silent no-op.
func NewApprovalMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[Status][]Status{
			StatusPending:  {StatusApproved, StatusRejected},
			StatusApproved: {},
			StatusRejected: {},
		},
	}
}

// NewValidationMachine covers expense reports: Pending moves to Validated or
// Rejected, both terminal.
func NewValidationMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[Status][]Status{
			StatusPending:   {StatusValidated, StatusRejected},
			StatusValidated: {},
			StatusRejected:  {},
		},
	}
}

// NewStateMachine builds a machine from an explicit transition table, for
// entities whose lifecycle does not follow the two stock shapes.
func NewStateMachine(transitions map[Status][]Status) *StateMachine {
	return &StateMachine{allowedTransitions: transitions}
}

// CanTransition checks if a status transition is allowed
func (sm *StateMachine) CanTransition(from, to Status) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// Transition returns nil when the move is legal and an
// *InvalidTransitionError otherwise.
func (sm *StateMachine) Transition(from, to Status) error {
	if sm.CanTransition(from, to) {
		return nil
	}
	return &InvalidTransitionError{From: from, To: to, Allowed: sm.AllowedTransitions(from)}
}

// AllowedTransitions returns the allowed next statuses for a given status
func (sm *StateMachine) AllowedTransitions(from Status) []Status {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []Status{}
	}
	return allowed
}

// IsTerminal reports whether no transition leads out of the status.
func (sm *StateMachine) IsTerminal(s Status) bool {
	allowed, exists := sm.allowedTransitions[s]
	return exists && len(allowed) == 0
}
