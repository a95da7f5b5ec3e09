package portal

import (
	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/user"
)

// Affordances is what a viewer may do with a quotation right now. Anything
// absent here must not be offered.
type Affordances struct {
	Actions       []quotation.Action
	Approval      *quotation.ApprovalOptions
	HoursEditable bool
	SubmitPO      bool
	DecidePO      bool
}

func (a Affordances) Has(action quotation.Action) bool {
	for _, x := range a.Actions {
		if x == action {
			return true
		}
	}
	return false
}

// AffordancesFor derives the controls for viewer. Approval options are only
// computed for the owner of a quoted request.
func AffordancesFor(q quotation.Quotation, viewer user.UserDTO) Affordances {
	if viewer.Role == user.RoleAdmin {
		a := Affordances{
			Actions:       quotation.Actions(q.Status, quotation.ActorAdmin),
			HoursEditable: quotation.HoursEditable(q.Status),
		}
		if q.POStatus != nil && *q.POStatus == quotation.PORequested {
			a.DecidePO = true
		}
		return a
	}
	if !q.Owner(viewer.ID) {
		return Affordances{}
	}
	a := Affordances{
		Actions:  quotation.Actions(q.Status, quotation.ActorUser),
		SubmitPO: quotation.CanSubmitPO(q.Status, q.POStatus),
	}
	if q.Status == quotation.StatusQuoted {
		opts := quotation.Options(viewer.AvailableHours, q.RequiredHour, q.POStatus)
		a.Approval = &opts
		if !opts.Approve {
			a.Actions = withoutAction(a.Actions, quotation.ActionApprove)
		}
	}
	return a
}

func withoutAction(actions []quotation.Action, drop quotation.Action) []quotation.Action {
	out := actions[:0:0]
	for _, a := range actions {
		if a != drop {
			out = append(out, a)
		}
	}
	return out
}
