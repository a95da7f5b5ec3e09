package quotation

// Event names published on the realtime channel. Payloads carry only ids;
// subscribers re-fetch.
const (
	EventRequested   = "quotation:requested"
	EventRaised      = "quotation:raised"
	EventUpdated     = "quotation:updated"
	EventDecision    = "quotation:decision"
	EventOngoing     = "quotation:ongoing"
	EventCompleted   = "quotation:completed"
	EventHourUpdated = "quotation:hour-updated"
	EventUserUpdated = "quotation:userUpdated"
	EventReported    = "quotation:reported"
	EventPOUpdated   = "quotation:po-updated"
)

// ChangeEvents is the set a quotation view listens to.
var ChangeEvents = []string{
	EventRequested,
	EventRaised,
	EventUpdated,
	EventDecision,
	EventCompleted,
	EventOngoing,
	EventHourUpdated,
	EventUserUpdated,
	EventReported,
	EventPOUpdated,
}

// EventFor maps a lifecycle action to the event announcing it.
func EventFor(action Action) string {
	switch action {
	case ActionSubmit:
		return EventRequested
	case ActionRaise:
		return EventRaised
	case ActionApprove, ActionReject:
		return EventDecision
	case ActionStart:
		return EventOngoing
	case ActionComplete, ActionReupload:
		return EventCompleted
	case ActionReport:
		return EventReported
	}
	return EventUpdated
}
