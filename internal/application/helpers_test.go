package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/linskybing/scan2cad/internal/domain/upload"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/internal/repository"
	"github.com/linskybing/scan2cad/internal/repository/mock"
	"github.com/linskybing/scan2cad/internal/storage"
)

type recordingPublisher struct {
	mu        sync.Mutex
	events    []events.Event
	audiences []events.Audience
}

func (p *recordingPublisher) Publish(ev events.Event, to events.Audience) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	p.audiences = append(p.audiences, to)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Name)
	}
	return out
}

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []string
}

func (a *recordingAlerter) Alert(_ context.Context, text string) {
	a.mu.Lock()
	a.alerts = append(a.alerts, text)
	a.mu.Unlock()
}

type fixture struct {
	svc    *Services
	quotes *mock.MockQuotationRepo
	users  *mock.MockUserRepo
	notes  *mock.MockNotificationRepo
	rates  *mock.MockRateRepo
	pays   *mock.MockPaymentRepo
	store  *storage.MemoryStore
	pub    *recordingPublisher
	alerts *recordingAlerter
}

var fixedNow = time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)

// --------------------- Setup ---------------------
// setupServices wires every service over mocks. Notification writes and the
// admin lookup are always allowed so lifecycle tests only assert what they
// care about.
func setupServices(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	f := &fixture{
		quotes: mock.NewMockQuotationRepo(ctrl),
		users:  mock.NewMockUserRepo(ctrl),
		notes:  mock.NewMockNotificationRepo(ctrl),
		rates:  mock.NewMockRateRepo(ctrl),
		pays:   mock.NewMockPaymentRepo(ctrl),
		store:  storage.NewMemoryStore(),
		pub:    &recordingPublisher{},
		alerts: &recordingAlerter{},
	}
	repos := &repository.Repos{
		Quotation:    f.quotes,
		User:         f.users,
		Notification: f.notes,
		Rate:         f.rates,
		Payment:      f.pays,
	}
	f.svc = New(repos, Dependencies{
		Store:    f.store,
		Events:   f.pub,
		Alerter:  f.alerts,
		Policies: upload.DefaultPolicies(),
	})
	f.svc.Quotation.now = func() time.Time { return fixedNow }

	f.notes.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.users.EXPECT().ListAdmins().Return([]user.User{{ID: 1, Role: user.RoleAdmin}}, nil).AnyTimes()
	return f
}

func ptrFloat(v float64) *float64 { return &v }
