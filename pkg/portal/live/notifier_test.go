package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeMatching(t *testing.T) {
	assert.True(t, Dashboard().matches(Event{Name: "quotation:raised", QuotationID: "q1"}))
	assert.True(t, ForQuotation("q1").matches(Event{Name: "quotation:raised", QuotationID: "q1"}))
	assert.False(t, ForQuotation("q1").matches(Event{Name: "quotation:raised", QuotationID: "q2"}))
	assert.True(t, ForQuotation("q1").matches(Event{Name: "quotation:userUpdated"}))
}

func TestRegistryDispatch(t *testing.T) {
	reg := newRegistry()
	var dashboard, detail, other []string

	reg.subscribe(Dashboard(), []string{"quotation:raised", "quotation:decision"}, func(ev Event) { dashboard = append(dashboard, ev.Name) })
	reg.subscribe(ForQuotation("q1"), []string{"quotation:raised"}, func(ev Event) { detail = append(detail, ev.QuotationID) })
	unsub := reg.subscribe(Dashboard(), []string{"notification:new"}, func(ev Event) { other = append(other, ev.Name) })

	assert.Equal(t, 2, reg.dispatch(Event{Name: "quotation:raised", QuotationID: "q1"}))
	assert.Equal(t, 1, reg.dispatch(Event{Name: "quotation:raised", QuotationID: "q2"}))
	assert.Equal(t, 1, reg.dispatch(Event{Name: "quotation:decision", QuotationID: "q1"}))
	assert.Equal(t, 0, reg.dispatch(Event{Name: "quotation:unknown"}))

	assert.Equal(t, []string{"quotation:raised", "quotation:raised", "quotation:decision"}, dashboard)
	assert.Equal(t, []string{"q1"}, detail)

	unsub()
	unsub()
	assert.Equal(t, 2, reg.len())
	assert.Equal(t, 0, reg.dispatch(Event{Name: "notification:new"}))
	assert.Empty(t, other)
}

func TestPollEventsReachEverySubscriber(t *testing.T) {
	reg := newRegistry()
	reg.subscribe(ForQuotation("q1"), []string{"quotation:raised"}, func(Event) {})
	reg.subscribe(Dashboard(), []string{"notification:new"}, func(Event) {})

	assert.Equal(t, 2, reg.dispatch(Event{Name: EventPoll}))
	reg.clear()
	assert.Equal(t, 0, reg.len())
}
