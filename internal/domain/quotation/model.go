package quotation

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusRequested Status = "requested"
	StatusQuoted    Status = "quoted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusReported  Status = "reported"
)

func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusQuoted, StatusApproved, StatusRejected,
		StatusOngoing, StatusCompleted, StatusReported:
		return true
	}
	return false
}

type POStatus string

const (
	PORequested POStatus = "requested"
	POApproved  POStatus = "approved"
	PORejected  POStatus = "rejected"
)

type TechnicalFlag string

const (
	FlagDesignIntent     TechnicalFlag = "designIntent"
	FlagHybridModelling  TechnicalFlag = "hybridModelling"
	FlagScansToNURBS     TechnicalFlag = "scansToNURBS"
	FlagAsBuildModelling TechnicalFlag = "asBuildModelling"
)

var TechnicalFlags = []TechnicalFlag{
	FlagDesignIntent,
	FlagHybridModelling,
	FlagScansToNURBS,
	FlagAsBuildModelling,
}

func (f TechnicalFlag) Valid() bool {
	for _, known := range TechnicalFlags {
		if f == known {
			return true
		}
	}
	return false
}

type FileStatus string

const (
	FilePending   FileStatus = "pending"
	FileCompleted FileStatus = "completed"
)

type ReportStatus string

const (
	ReportOK     ReportStatus = "ok"
	ReportIssued ReportStatus = "issued"
)

// ApprovalSource records how an approval was paid for.
type ApprovalSource string

const (
	ApprovedWithHours ApprovalSource = "hours"
	ApprovedWithPO    ApprovalSource = "po"
)

// StatusChange is one entry of a quotation's audit trail.
type StatusChange struct {
	From   Status    `json:"from,omitempty"`
	To     Status    `json:"to"`
	Action Action    `json:"action"`
	Actor  Actor     `json:"actor"`
	UserID uint      `json:"userId"`
	At     time.Time `json:"at"`
}

type Quotation struct {
	ID                string                            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID            uint                              `gorm:"index;not null" json:"userId"`
	ProjectName       string                            `gorm:"size:100;not null" json:"projectName"`
	Description       string                            `gorm:"size:500" json:"description"`
	TechnicalInfo     pq.StringArray                    `gorm:"type:text[]" json:"technicalInfo"`
	Software          string                            `gorm:"size:100" json:"software,omitempty"`
	SoftwareVersion   string                            `gorm:"size:50" json:"softwareVersion,omitempty"`
	Deliverables      string                            `json:"deliverables"`
	Status            Status                            `gorm:"size:20;index;not null;default:requested" json:"status"`
	POStatus          *POStatus                         `gorm:"column:po_status;size:20" json:"poStatus,omitempty"`
	PODocument        string                            `gorm:"column:po_document" json:"poDocument,omitempty"`
	RequiredHour      float64                           `gorm:"not null;default:0" json:"requiredHour"`
	ApprovedVia       ApprovalSource                    `gorm:"size:10" json:"approvedVia,omitempty"`
	RejectionReason   string                            `json:"rejectionReason,omitempty"`
	RejectionDetails  string                            `json:"rejectionDetails,omitempty"`
	Notes             string                            `json:"notes,omitempty"`
	MainNote          string                            `json:"mainNote,omitempty"`
	QuotationDocument string                            `json:"quotationDocument,omitempty"`
	InvoiceDocument   string                            `json:"invoiceDocument,omitempty"`
	History           datatypes.JSONSlice[StatusChange] `gorm:"type:jsonb" json:"history,omitempty"`
	Files             []File                            `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"files"`
	InfoFiles         []InfoFile                        `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"infoFiles"`
	CreatedAt         time.Time                         `json:"createdAt"`
	UpdatedAt         time.Time                         `json:"updatedAt"`
}

// File is one model (or link) submitted with a quotation.
type File struct {
	ID                 string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	QuotationID        string       `gorm:"index;type:varchar(36);not null" json:"quotationId"`
	Position           int          `gorm:"not null" json:"position"`
	OriginalName       string       `json:"originalName"`
	OriginalFile       string       `json:"originalFile,omitempty"`
	OriginalLink       string       `json:"originalLink,omitempty"`
	Size               int64        `json:"size"`
	CompletedFile      string       `json:"completedFile,omitempty"`
	CompletedName      string       `json:"completedName,omitempty"`
	RequiredHour       float64      `gorm:"not null;default:0" json:"requiredHour"`
	Status             FileStatus   `gorm:"size:20;not null;default:pending" json:"status"`
	UserReportedStatus ReportStatus `gorm:"size:10" json:"userReportedStatus,omitempty"`
	ReportNote         string       `json:"reportNote,omitempty"`
}

type InfoFile struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	QuotationID string `gorm:"index;type:varchar(36);not null" json:"quotationId"`
	Object      string `json:"object"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
}

func (Quotation) TableName() string { return "quotations" }
func (File) TableName() string      { return "quotation_files" }
func (InfoFile) TableName() string  { return "quotation_info_files" }

// Owner reports whether userID submitted the quotation.
func (q Quotation) Owner(userID uint) bool {
	return q.UserID == userID
}

func (q Quotation) HasFlag(flag TechnicalFlag) bool {
	for _, f := range q.TechnicalInfo {
		if TechnicalFlag(f) == flag {
			return true
		}
	}
	return false
}

// FileByID returns the index of the file with id, or -1.
func (q Quotation) FileByID(id string) int {
	for i := range q.Files {
		if q.Files[i].ID == id {
			return i
		}
	}
	return -1
}

// ReportedFiles lists the files the user flagged as issued.
func (q Quotation) ReportedFiles() []File {
	var out []File
	for _, f := range q.Files {
		if f.UserReportedStatus == ReportIssued {
			out = append(out, f)
		}
	}
	return out
}
