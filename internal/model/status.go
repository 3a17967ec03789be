package model

import "fmt"

// Status is the lifecycle state of a reservation.  A reservation starts as
// pending and moves through the approval chain; approverApproved and rejected
// are terminal.  The string values are part of the persisted row shape and
// must not change.
type Status string

const (
	StatusPending          Status = "pending"
	StatusAdminApproved    Status = "adminApproved"
	StatusApproverApproved Status = "approverApproved"
	StatusRejected         Status = "rejected"
)

// Role identifies the caller as reported by the identity collaborator in the
// JWT "role" claim.  Roles form a closed set; unknown strings are rejected at
// the middleware boundary.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleApprover Role = "approver"
	RoleUser     Role = "user"
)

// statusTransitions is the full state machine: for each status, the statuses
// it may move to.  Terminal states map to an empty slice.
var statusTransitions = map[Status][]Status{
	StatusPending:          {StatusAdminApproved, StatusApproverApproved, StatusRejected},
	StatusAdminApproved:    {StatusApproverApproved, StatusRejected},
	StatusApproverApproved: {},
	StatusRejected:         {},
}

// roleTargets is the permission table: the target statuses each role may set.
// An admin approval produces the visible adminApproved intermediate; it is not
// a gate, an approver may approve straight from pending.  The user role has no
// transition rights at all.
var roleTargets = map[Role][]Status{
	RoleAdmin:    {StatusAdminApproved, StatusRejected},
	RoleApprover: {StatusApproverApproved, StatusRejected},
	RoleUser:     {},
}

// IsValid reports whether the status is one of the recognized lifecycle states.
func (s Status) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	next, ok := statusTransitions[s]
	if !ok {
		return true
	}
	return len(next) == 0
}

// CanTransitionTo reports whether the state machine permits moving from s to
// target, ignoring who is asking.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsValid reports whether the role belongs to the closed role set.
func (r Role) IsValid() bool {
	_, ok := roleTargets[r]
	return ok
}

// MaySet reports whether the role is permitted to set the given target status.
func (r Role) MaySet(target Status) bool {
	for _, t := range roleTargets[r] {
		if t == target {
			return true
		}
	}
	return false
}

// ApproveTarget returns the status an approval by the given role produces:
// adminApproved for admins, approverApproved for approvers.  ok is false for
// roles without approval rights.
func ApproveTarget(r Role) (Status, bool) {
	switch r {
	case RoleAdmin:
		return StatusAdminApproved, true
	case RoleApprover:
		return StatusApproverApproved, true
	}
	return "", false
}

// TransitionSources returns every status from which the given role may move a
// reservation to target.  The repository uses the result as the allowed
// source set in its compare-and-swap UPDATE, so a racing or terminal row
// simply matches zero rows instead of being overwritten.
func TransitionSources(r Role, target Status) []Status {
	if !r.MaySet(target) {
		return nil
	}
	var sources []Status
	for from := range statusTransitions {
		if from.CanTransitionTo(target) {
			sources = append(sources, from)
		}
	}
	return sources
}

// ParseStatus converts a stored string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("unknown reservation status %q", s)
	}
	return st, nil
}

// ParseRole converts a claim string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
