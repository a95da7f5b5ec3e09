package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/websocket"
	"github.com/linskybing/scan2cad/internal/domain/notification"
	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/internal/repository"
	"github.com/linskybing/scan2cad/internal/testutils"
	"github.com/linskybing/scan2cad/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sampleQuotation(status quotation.Status) quotation.Quotation {
	return quotation.Quotation{
		ID:          "q1",
		UserID:      testutils.OwnerID,
		ProjectName: "Bracket",
		Status:      status,
		Files: []quotation.File{
			{ID: "f1", QuotationID: "q1", OriginalName: "a.stl", OriginalFile: "quotations/q1/original/000-a.stl", Size: 3},
		},
	}
}

func TestAuthRequired(t *testing.T) {
	env := testutils.SetupRouter(t)

	resp := testutils.NewHTTPClient(env.Router, "").GET("/quotations/my-quotations")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = testutils.NewHTTPClient(env.Router, "not-a-jwt").GET("/quotations/my-quotations")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = testutils.NewHTTPClient(env.Router, "").GET("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQuotationRoutes(t *testing.T) {
	env := testutils.SetupRouter(t)
	owner := env.OwnerClient(t)
	admin := env.AdminClient(t)

	t.Run("Create - Validation Failure", func(t *testing.T) {
		resp := owner.Multipart(http.MethodPost, "/quotations", map[string]string{"description": "x"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body response.ErrorResponse
		require.NoError(t, resp.DecodeJSON(&body))
		assert.Equal(t, "Validation failed", body.Error)
		assert.Equal(t, "Project name is required", body.Details["projectName"])
		assert.Equal(t, "At least one link is required", body.Details["links"])
		assert.Empty(t, env.Store.Keys())
	})

	t.Run("Create - Success", func(t *testing.T) {
		env.Quotations.EXPECT().Create(gomock.Any()).Return(nil)

		resp := owner.Multipart(http.MethodPost, "/quotations", map[string]string{
			"projectName":   "Bracket",
			"description":   "Model the bracket",
			"technicalInfo": "scansToNURBS",
		},
			testutils.FormFile{Field: "originalFiles", Name: "bracket.stl", Content: []byte("solid")},
			testutils.FormFile{Field: "infoFiles", Name: "brief.pdf", Content: []byte("%PDF")},
		)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))

		var q quotation.Quotation
		require.NoError(t, resp.DecodeJSON(&q))
		assert.Equal(t, quotation.StatusRequested, q.Status)
		assert.Equal(t, testutils.OwnerID, q.UserID)
		assert.Len(t, q.Files, 1)
		assert.Len(t, env.Store.Keys(), 2)
	})

	t.Run("Get - Not Found", func(t *testing.T) {
		env.Quotations.EXPECT().GetByID("missing").Return(quotation.Quotation{}, gorm.ErrRecordNotFound)
		resp := owner.GET("/quotations/missing")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("List - Admin Only", func(t *testing.T) {
		resp := owner.GET("/quotations")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		env.Quotations.EXPECT().List(quotation.ListFilter{Status: quotation.StatusQuoted}).Return([]quotation.Quotation{sampleQuotation(quotation.StatusQuoted)}, nil)
		resp = admin.GET("/quotations?status=quoted")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = admin.GET("/quotations?status=bogus")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Quote - Owner Forbidden", func(t *testing.T) {
		resp := owner.PUT("/quotations/q1/quote", quotation.HoursInput{})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Quote - Total Mismatch", func(t *testing.T) {
		env.Quotations.EXPECT().GetByID("q1").Return(sampleQuotation(quotation.StatusRequested), nil)
		resp := admin.Multipart(http.MethodPut, "/quotations/q1/quote", map[string]string{
			"totalHours": "9",
			"files":      `[{"fileId":"f1","requiredHour":2}]`,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Quote - Success", func(t *testing.T) {
		current := sampleQuotation(quotation.StatusRequested)
		env.Quotations.EXPECT().GetByID("q1").Return(current, nil)
		env.Quotations.EXPECT().GetForUpdate("q1").Return(current, nil)
		env.Quotations.EXPECT().Save(gomock.Any()).Return(nil)

		resp := admin.PUT("/quotations/q1/quote", quotation.HoursInput{
			Files: []quotation.FileHours{{FileID: "f1", RequiredHour: 2.5}},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))
		var q quotation.Quotation
		require.NoError(t, resp.DecodeJSON(&q))
		assert.Equal(t, quotation.StatusQuoted, q.Status)
		assert.Equal(t, 2.5, q.RequiredHour)
	})

	t.Run("Decision - Insufficient Hours", func(t *testing.T) {
		current := sampleQuotation(quotation.StatusQuoted)
		current.RequiredHour = 5
		env.Quotations.EXPECT().GetForUpdate("q1").Return(current, nil)
		env.Users.EXPECT().AddHours(testutils.OwnerID, -5.0).Return(0.0, repository.ErrNegativeBalance)

		resp := owner.PUT("/quotations/q1/decision", quotation.DecisionInput{Status: quotation.StatusApproved})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Decision - Invalid Status", func(t *testing.T) {
		resp := owner.PUT("/quotations/q1/decision", map[string]string{"status": "ongoing"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body response.ErrorResponse
		require.NoError(t, resp.DecodeJSON(&body))
		assert.Contains(t, body.Error, "status must be one of")
	})

	t.Run("Start - Wrong State", func(t *testing.T) {
		env.Quotations.EXPECT().GetForUpdate("q1").Return(sampleQuotation(quotation.StatusQuoted), nil)
		resp := admin.PUT("/quotations/q1/ongoing", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Purchase Order - Missing Document", func(t *testing.T) {
		resp := owner.Multipart(http.MethodPut, "/quotations/q1/po-status", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Download - Presigned Link", func(t *testing.T) {
		q := sampleQuotation(quotation.StatusRequested)
		require.NoError(t, env.Store.Put(context.Background(), q.Files[0].OriginalFile, strings.NewReader("abc"), 3, "model/stl"))
		env.Quotations.EXPECT().GetByID("q1").Return(q, nil).Times(2)

		resp := owner.GET("/quotations/q1/files/f1/download")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out quotation.DownloadResponse
		require.NoError(t, resp.DecodeJSON(&out))
		assert.Equal(t, "a.stl", out.Name)

		resp = owner.GET("/quotations/q1/files/f1/download?kind=weird")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = owner.GET("/quotations/q1/files/zzz/download")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUserRoutes(t *testing.T) {
	env := testutils.SetupRouter(t)
	owner := env.OwnerClient(t)
	admin := env.AdminClient(t)

	t.Run("Me", func(t *testing.T) {
		resp := owner.GET("/auth/me")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var me user.UserDTO
		require.NoError(t, resp.DecodeJSON(&me))
		assert.Equal(t, testutils.OwnerID, me.ID)
	})

	t.Run("Register - Binding Errors", func(t *testing.T) {
		resp := testutils.NewHTTPClient(env.Router, "").POST("/auth/register", map[string]string{"email": "nope"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body response.ErrorResponse
		require.NoError(t, resp.DecodeJSON(&body))
		assert.Equal(t, "email must be a valid email address", body.Details["Email"])
		assert.Equal(t, "password is required", body.Details["Password"])
	})

	t.Run("Hours - Self Or Admin", func(t *testing.T) {
		resp := owner.GET("/users/7/hours")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = owner.GET("/users/1/hours")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = admin.GET("/users/7/hours")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Hours - Grant Cannot Overdraw", func(t *testing.T) {
		env.Users.EXPECT().AddHours(testutils.OwnerID, -50.0).Return(0.0, repository.ErrNegativeBalance)
		resp := admin.PUT("/users/7/hours", user.GrantHoursInput{Hours: -50})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		resp = owner.PUT("/users/7/hours", user.GrantHoursInput{Hours: 50})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Purchase - Not Configured", func(t *testing.T) {
		resp := owner.POST("/payments/hours", map[string]any{"hours": 2})
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestNotificationRoutes(t *testing.T) {
	env := testutils.SetupRouter(t)
	owner := env.OwnerClient(t)

	resp := owner.GET("/notifications?limit=-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	opts := notification.ListOptions{UnreadOnly: true, Limit: 5}
	env.Notifications.EXPECT().ListByUser(gomock.Any(), testutils.OwnerID, opts).Return([]notification.Notification{{ID: "n1"}}, nil)
	resp = owner.GET("/notifications?unread=true&limit=5")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env.Notifications.EXPECT().MarkAllRead(gomock.Any(), testutils.OwnerID).Return(int64(2), nil)
	resp = owner.PUT("/notifications/read-all", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var count response.CountResponse
	require.NoError(t, resp.DecodeJSON(&count))
	assert.Equal(t, int64(2), count.Count)

	env.Notifications.EXPECT().Delete(gomock.Any(), "n9", testutils.OwnerID).Return(repository.ErrNotFound)
	resp = owner.DELETE("/notifications/n9")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSocketDeliversEvents(t *testing.T) {
	env := testutils.SetupRouter(t)
	srv := httptest.NewServer(env.Router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + env.Token(t, testutils.OwnerID, false)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.Hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	env.Hub.Publish(events.Event{Name: quotation.EventRaised, QuotationID: "other"}, events.ToUser(99))
	env.Hub.Publish(events.Event{Name: quotation.EventRaised, QuotationID: "q1"}, events.ToOwnerAndAdmins(testutils.OwnerID))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev events.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, quotation.EventRaised, ev.Name)
	assert.Equal(t, "q1", ev.QuotationID)
}
