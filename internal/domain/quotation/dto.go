package quotation

type DecisionInput struct {
	Status  Status `json:"status" binding:"required,oneof=approved rejected"`
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

type PODecisionInput struct {
	Status POStatus `json:"status" binding:"required,oneof=approved rejected"`
}

type NotesInput struct {
	Notes string `json:"notes"`
}

// HoursInput is the parsed form of the raise and update-hour requests.
type HoursInput struct {
	TotalHours *float64    `json:"totalHours,omitempty"`
	Files      []FileHours `json:"files"`
}

type ListFilter struct {
	Status Status `form:"status"`
	UserID uint   `form:"userId"`
	Search string `form:"search"`
}

type DownloadKind string

const (
	DownloadOriginal  DownloadKind = "original"
	DownloadCompleted DownloadKind = "completed"
	DownloadDocument  DownloadKind = "document"
)

type DownloadResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}
