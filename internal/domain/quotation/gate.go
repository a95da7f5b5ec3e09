package quotation

import "errors"

var ErrInsufficientHours = errors.New("insufficient credit hours")

// CanApprove is the credit gate in front of quoted -> approved. The boundary
// is inclusive.
func CanApprove(available, required float64) bool {
	return hundredths(available) >= hundredths(required)
}

// ApprovalOptions describes what a user can do with a quoted request given
// their balance and any purchase order on file.
type ApprovalOptions struct {
	Approve       bool    `json:"approve"`
	PurchaseHours bool    `json:"purchaseHours"`
	PurchaseOrder bool    `json:"purchaseOrder"`
	PendingPO     bool    `json:"pendingPO"`
	MissingHours  float64 `json:"missingHours"`
}

func Options(available, required float64, po *POStatus) ApprovalOptions {
	if CanApprove(available, required) || (po != nil && *po == POApproved) {
		return ApprovalOptions{Approve: true}
	}
	opts := ApprovalOptions{
		PurchaseHours: true,
		MissingHours:  fromHundredths(hundredths(required) - hundredths(available)),
	}
	if po != nil && *po == PORequested {
		opts.PendingPO = true
	} else {
		opts.PurchaseOrder = true
	}
	return opts
}
