package quotation

import (
	"errors"
	"fmt"
	"time"
)

type Actor string

const (
	ActorUser  Actor = "user"
	ActorAdmin Actor = "admin"
)

type Action string

const (
	ActionSubmit   Action = "submit"
	ActionRaise    Action = "raise"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionReport   Action = "report"
	ActionReupload Action = "reupload"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbiddenActor    = errors.New("action not permitted for this role")
	ErrInvalidPOState    = errors.New("invalid purchase order state")
)

// Transition is one edge of the lifecycle graph.
type Transition struct {
	Action Action
	From   Status
	To     Status
	Actor  Actor
}

// Submit has no source state; it is handled by Initial.
var transitions = []Transition{
	{ActionRaise, StatusRequested, StatusQuoted, ActorAdmin},
	{ActionApprove, StatusQuoted, StatusApproved, ActorUser},
	{ActionReject, StatusQuoted, StatusRejected, ActorUser},
	{ActionStart, StatusApproved, StatusOngoing, ActorAdmin},
	{ActionComplete, StatusOngoing, StatusCompleted, ActorAdmin},
	{ActionReport, StatusCompleted, StatusReported, ActorUser},
	{ActionReupload, StatusReported, StatusCompleted, ActorAdmin},
}

// Transitions returns a copy of the lifecycle graph.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

// Initial is the status of a newly submitted quotation.
func Initial() Status {
	return StatusRequested
}

// Next resolves the status reached by applying action from the given status.
func Next(from Status, action Action, actor Actor) (Status, error) {
	for _, t := range transitions {
		if t.From != from || t.Action != action {
			continue
		}
		if t.Actor != actor {
			return from, fmt.Errorf("%w: %s requires %s", ErrForbiddenActor, action, t.Actor)
		}
		return t.To, nil
	}
	return from, fmt.Errorf("%w: cannot %s a %s quotation", ErrInvalidTransition, action, from)
}

// Actions lists what actor may do to a quotation in status. Anything not
// listed must not be offered.
func Actions(status Status, actor Actor) []Action {
	var out []Action
	for _, t := range transitions {
		if t.From == status && t.Actor == actor {
			out = append(out, t.Action)
		}
	}
	return out
}

func Can(status Status, action Action, actor Actor) bool {
	_, err := Next(status, action, actor)
	return err == nil
}

// IsTerminal reports whether work on the quotation is finished. A completed
// quotation can still be reopened by a user report.
func IsTerminal(status Status) bool {
	return status == StatusCompleted || status == StatusRejected
}

// HoursEditable reports whether per-file hours may still change.
func HoursEditable(status Status) bool {
	return status == StatusRequested || status == StatusQuoted
}

// Apply moves q along the graph and records the change in its history.
func Apply(q *Quotation, action Action, actor Actor, userID uint, at time.Time) error {
	next, err := Next(q.Status, action, actor)
	if err != nil {
		return err
	}
	q.History = append(q.History, StatusChange{
		From:   q.Status,
		To:     next,
		Action: action,
		Actor:  actor,
		UserID: userID,
		At:     at,
	})
	q.Status = next
	return nil
}

// CanSubmitPO reports whether a purchase order may be uploaded. A PO is only
// relevant while the quote awaits a decision, and a rejected PO may be
// replaced.
func CanSubmitPO(status Status, po *POStatus) bool {
	if status != StatusQuoted {
		return false
	}
	return po == nil || *po == PORejected
}

// NextPO validates an admin decision on a pending purchase order.
func NextPO(current *POStatus, decision POStatus) (POStatus, error) {
	if current == nil || *current != PORequested {
		return "", fmt.Errorf("%w: no purchase order awaiting review", ErrInvalidPOState)
	}
	if decision != POApproved && decision != PORejected {
		return "", fmt.Errorf("%w: decision must be approved or rejected", ErrInvalidPOState)
	}
	return decision, nil
}
