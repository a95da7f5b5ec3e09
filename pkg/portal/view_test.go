package portal

import (
	"testing"

	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = user.UserDTO{ID: 1, Role: user.RoleAdmin}
	owner = user.UserDTO{ID: 7, Role: user.RoleUser}
)

func quotedFor(required float64) quotation.Quotation {
	return quotation.Quotation{ID: "q1", UserID: 7, Status: quotation.StatusQuoted, RequiredHour: required}
}

func TestAffordances_OwnerWithEnoughHours(t *testing.T) {
	viewer := owner
	viewer.AvailableHours = 5

	a := AffordancesFor(quotedFor(5), viewer)
	assert.True(t, a.Has(quotation.ActionApprove))
	assert.True(t, a.Has(quotation.ActionReject))
	require.NotNil(t, a.Approval)
	assert.True(t, a.Approval.Approve)
	assert.True(t, a.SubmitPO)
	assert.False(t, a.HoursEditable)
}

func TestAffordances_OwnerShortOnHours(t *testing.T) {
	viewer := owner
	viewer.AvailableHours = 1.5

	a := AffordancesFor(quotedFor(4), viewer)
	assert.False(t, a.Has(quotation.ActionApprove))
	assert.True(t, a.Has(quotation.ActionReject))
	require.NotNil(t, a.Approval)
	assert.True(t, a.Approval.PurchaseHours)
	assert.True(t, a.Approval.PurchaseOrder)
	assert.Equal(t, 2.5, a.Approval.MissingHours)
}

func TestAffordances_ApprovedPurchaseOrderUnlocksApproval(t *testing.T) {
	q := quotedFor(40)
	po := quotation.POApproved
	q.POStatus = &po

	a := AffordancesFor(q, owner)
	assert.True(t, a.Has(quotation.ActionApprove))
	assert.False(t, a.SubmitPO)
}

func TestAffordances_PendingPurchaseOrder(t *testing.T) {
	q := quotedFor(40)
	po := quotation.PORequested
	q.POStatus = &po

	a := AffordancesFor(q, owner)
	assert.False(t, a.Has(quotation.ActionApprove))
	assert.True(t, a.Approval.PendingPO)
	assert.False(t, a.SubmitPO)

	adminView := AffordancesFor(q, admin)
	assert.True(t, adminView.DecidePO)
	assert.True(t, adminView.HoursEditable)
	assert.Empty(t, adminView.Actions)
}

func TestAffordances_Admin(t *testing.T) {
	q := quotation.Quotation{UserID: 7, Status: quotation.StatusRequested}
	a := AffordancesFor(q, admin)
	assert.Equal(t, []quotation.Action{quotation.ActionRaise}, a.Actions)
	assert.True(t, a.HoursEditable)
	assert.Nil(t, a.Approval)

	q.Status = quotation.StatusCompleted
	a = AffordancesFor(q, admin)
	assert.Empty(t, a.Actions)
	assert.False(t, a.HoursEditable)
}

func TestAffordances_StrangerSeesNothing(t *testing.T) {
	stranger := user.UserDTO{ID: 99, Role: user.RoleUser, AvailableHours: 100}
	a := AffordancesFor(quotedFor(1), stranger)
	assert.Empty(t, a.Actions)
	assert.Nil(t, a.Approval)
	assert.False(t, a.SubmitPO)
}

func TestAffordances_OwnerReportsCompletedWork(t *testing.T) {
	q := quotation.Quotation{UserID: 7, Status: quotation.StatusCompleted}
	a := AffordancesFor(q, owner)
	assert.Equal(t, []quotation.Action{quotation.ActionReport}, a.Actions)
	assert.Nil(t, a.Approval)
}
