//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/linskybing/scan2cad/internal/domain/notification"
	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/rate"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"github.com/linskybing/scan2cad/internal/repository"
	"github.com/linskybing/scan2cad/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositories(t *testing.T) {
	repos := repository.NewRepositories(testutils.SetupPostgres(t))
	ctx := context.Background()

	owner := &user.User{Email: "owner@example.com", Name: "Owner", Password: "x", Role: user.RoleUser, Verified: true, AvailableHours: 5}
	admin := &user.User{Email: "admin@example.com", Name: "Admin", Password: "x", Role: user.RoleAdmin, Verified: true}
	require.NoError(t, repos.User.Create(owner))
	require.NoError(t, repos.User.Create(admin))

	t.Run("users", func(t *testing.T) {
		got, err := repos.User.GetByEmail("owner@example.com")
		require.NoError(t, err)
		assert.Equal(t, owner.ID, got.ID)

		admins, err := repos.User.ListAdmins()
		require.NoError(t, err)
		require.Len(t, admins, 1)
		assert.Equal(t, admin.ID, admins[0].ID)

		_, err = repos.User.GetByEmail("nobody@example.com")
		assert.True(t, errors.Is(err, repository.ErrNotFound))
	})

	t.Run("hours never go negative", func(t *testing.T) {
		balance, err := repos.User.AddHours(owner.ID, -1.5)
		require.NoError(t, err)
		assert.Equal(t, 3.5, balance)

		_, err = repos.User.AddHours(owner.ID, -10)
		assert.ErrorIs(t, err, repository.ErrNegativeBalance)

		_, err = repos.User.AddHours(9999, 1)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		got, err := repos.User.GetByID(owner.ID)
		require.NoError(t, err)
		assert.Equal(t, 3.5, got.AvailableHours)
	})

	t.Run("quotations keep file order", func(t *testing.T) {
		q := &quotation.Quotation{
			ID:            "11111111-1111-1111-1111-111111111111",
			UserID:        owner.ID,
			ProjectName:   "Bracket",
			TechnicalInfo: []string{string(quotation.FlagDesignIntent)},
			Status:        quotation.StatusRequested,
			Files: []quotation.File{
				{ID: "f-b", Position: 1, OriginalName: "b.stl", Status: quotation.FilePending},
				{ID: "f-a", Position: 0, OriginalName: "a.stl", Status: quotation.FilePending},
			},
			InfoFiles: []quotation.InfoFile{{ID: "i-1", Name: "brief.pdf"}},
		}
		require.NoError(t, repos.Quotation.Create(q))

		got, err := repos.Quotation.GetByID(q.ID)
		require.NoError(t, err)
		require.Len(t, got.Files, 2)
		assert.Equal(t, "a.stl", got.Files[0].OriginalName)
		assert.Len(t, got.InfoFiles, 1)
		assert.True(t, got.HasFlag(quotation.FlagDesignIntent))

		err = repos.ExecTx(func(tx *repository.Repos) error {
			locked, err := tx.Quotation.GetForUpdate(q.ID)
			if err != nil {
				return err
			}
			locked.Status = quotation.StatusQuoted
			locked.Files[0].RequiredHour = 1.5
			locked.Files[1].RequiredHour = 2
			locked.RequiredHour = 3.5
			return tx.Quotation.Save(&locked)
		})
		require.NoError(t, err)

		got, err = repos.Quotation.GetByID(q.ID)
		require.NoError(t, err)
		assert.Equal(t, quotation.StatusQuoted, got.Status)
		assert.Equal(t, 1.5, got.Files[0].RequiredHour)

		list, err := repos.Quotation.List(quotation.ListFilter{Status: quotation.StatusQuoted, Search: "brack"})
		require.NoError(t, err)
		assert.Len(t, list, 1)

		list, err = repos.Quotation.List(quotation.ListFilter{UserID: admin.ID})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		err := repos.ExecTx(func(tx *repository.Repos) error {
			if _, err := tx.User.AddHours(owner.ID, 10); err != nil {
				return err
			}
			return errors.New("abort")
		})
		require.Error(t, err)

		got, err := repos.User.GetByID(owner.ID)
		require.NoError(t, err)
		assert.Equal(t, 3.5, got.AvailableHours)
	})

	t.Run("one active rate", func(t *testing.T) {
		a := &rate.Config{Name: "Standard", HourlyRate: 100, Currency: "BRL", Active: true}
		b := &rate.Config{Name: "Promo", HourlyRate: 80, Currency: "BRL", Active: true}
		require.NoError(t, repos.Rate.Create(a))
		require.NoError(t, repos.Rate.Create(b))
		require.NoError(t, repos.Rate.DeactivateOthers(b.ID))

		active, err := repos.Rate.GetActive()
		require.NoError(t, err)
		assert.Equal(t, b.ID, active.ID)

		require.NoError(t, repos.Rate.Delete(a.ID))
		assert.ErrorIs(t, repos.Rate.Delete(a.ID), repository.ErrNotFound)
	})

	t.Run("notifications are scoped to their user", func(t *testing.T) {
		for _, id := range []string{"n-1", "n-2"} {
			require.NoError(t, repos.Notification.Create(ctx, &notification.Notification{ID: id, UserID: owner.ID, Title: "Quote ready"}))
		}

		assert.ErrorIs(t, repos.Notification.MarkRead(ctx, "n-1", admin.ID), repository.ErrNotFound)
		require.NoError(t, repos.Notification.MarkRead(ctx, "n-1", owner.ID))
		require.NoError(t, repos.Notification.MarkRead(ctx, "n-1", owner.ID))

		unread, err := repos.Notification.ListByUser(ctx, owner.ID, notification.ListOptions{UnreadOnly: true})
		require.NoError(t, err)
		require.Len(t, unread, 1)
		assert.Equal(t, "n-2", unread[0].ID)

		n, err := repos.Notification.MarkAllRead(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		require.NoError(t, repos.Notification.Delete(ctx, "n-2", owner.ID))
		assert.ErrorIs(t, repos.Notification.Delete(ctx, "n-2", owner.ID), repository.ErrNotFound)
	})
}
