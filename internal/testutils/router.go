package testutils

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/linskybing/scan2cad/internal/api/middleware"
	"github.com/linskybing/scan2cad/internal/api/routes"
	"github.com/linskybing/scan2cad/internal/application"
	"github.com/linskybing/scan2cad/internal/config"
	"github.com/linskybing/scan2cad/internal/domain/upload"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/internal/repository"
	"github.com/linskybing/scan2cad/internal/repository/mock"
	"github.com/linskybing/scan2cad/internal/storage"
)

const (
	AdminID uint = 1
	OwnerID uint = 7
)

// Env is a router wired over mock repositories and an in-memory store.
type Env struct {
	Router        *gin.Engine
	Hub           *events.Hub
	Store         *storage.MemoryStore
	Services      *application.Services
	Quotations    *mock.MockQuotationRepo
	Users         *mock.MockUserRepo
	Notifications *mock.MockNotificationRepo
	Rates         *mock.MockRateRepo
	Payments      *mock.MockPaymentRepo
}

// SetupRouter builds the full route table. The admin (AdminID) and owner
// (OwnerID) accounts resolve for role checks, and notification writes always
// succeed.
func SetupRouter(t *testing.T) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JwtSecret = "test-secret"
	middleware.Init()

	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	env := &Env{
		Hub:           events.NewHub(),
		Store:         storage.NewMemoryStore(),
		Quotations:    mock.NewMockQuotationRepo(ctrl),
		Users:         mock.NewMockUserRepo(ctrl),
		Notifications: mock.NewMockNotificationRepo(ctrl),
		Rates:         mock.NewMockRateRepo(ctrl),
		Payments:      mock.NewMockPaymentRepo(ctrl),
	}
	repos := &repository.Repos{
		Quotation:    env.Quotations,
		User:         env.Users,
		Notification: env.Notifications,
		Rate:         env.Rates,
		Payment:      env.Payments,
	}
	env.Services = application.New(repos, application.Dependencies{
		Store:    env.Store,
		Events:   env.Hub,
		Policies: upload.DefaultPolicies(),
	})

	admin := user.User{ID: AdminID, Email: "admin@example.com", Role: user.RoleAdmin, Verified: true}
	owner := user.User{ID: OwnerID, Email: "owner@example.com", Role: user.RoleUser, Verified: true}
	env.Users.EXPECT().GetByID(AdminID).Return(admin, nil).AnyTimes()
	env.Users.EXPECT().GetByID(OwnerID).Return(owner, nil).AnyTimes()
	env.Users.EXPECT().ListAdmins().Return([]user.User{admin}, nil).AnyTimes()
	env.Notifications.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	r := gin.New()
	routes.RegisterRoutes(r, repos, env.Services, env.Hub)
	env.Router = r
	return env
}

// Token signs a session for userID.
func (e *Env) Token(t *testing.T, userID uint, admin bool) string {
	t.Helper()
	token, err := middleware.GenerateToken(userID, "", admin, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func (e *Env) AdminClient(t *testing.T) *HTTPClient {
	return NewHTTPClient(e.Router, e.Token(t, AdminID, true))
}

func (e *Env) OwnerClient(t *testing.T) *HTTPClient {
	return NewHTTPClient(e.Router, e.Token(t, OwnerID, false))
}
