package handler

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubNotificationService struct {
	byUser  map[int64][]domain.Notification
	cleared int64
}

func (s *stubNotificationService) SaveAndNotify(ctx context.Context, userID int64, message string) error {
	return nil
}

func (s *stubNotificationService) NotifyCartUpdated(ctx context.Context, userID int64, productName string, quantity int64) {
}

func (s *stubNotificationService) List(ctx context.Context, userID int64) ([]domain.Notification, error) {
	list, ok := s.byUser[userID]
	if !ok {
		return make([]domain.Notification, 0), nil
	}
	return list, nil
}

func (s *stubNotificationService) MarkRead(ctx context.Context, id int64) error {
	if id == 404 {
		return repository.ErrNotificationNotFound
	}
	return nil
}

func (s *stubNotificationService) ClearAll(ctx context.Context, userID int64) (int64, error) {
	return s.cleared, nil
}

func newTestApp(svc *stubNotificationService) *fiber.App {
	h := NewNotificationHandler(svc, zap.NewNop())

	app := fiber.New()
	app.Get("/notifications", h.List)
	app.Patch("/notifications/:id/read", h.MarkRead)
	app.Delete("/notifications/clear-all", h.ClearAll)
	return app
}

func TestListNotificationsWithoutUserReturnsEmptyList(t *testing.T) {
	app := newTestApp(&stubNotificationService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/notifications", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(body))
}

func TestListNotificationsForUser(t *testing.T) {
	app := newTestApp(&stubNotificationService{
		byUser: map[int64][]domain.Notification{
			7: {{ID: 2, Message: "second"}, {ID: 1, Message: "first"}},
		},
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/notifications?user_id=7", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "second")
}

func TestListNotificationsBadUserID(t *testing.T) {
	app := newTestApp(&stubNotificationService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/notifications?user_id=abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMarkReadNotFound(t *testing.T) {
	app := newTestApp(&stubNotificationService{})

	resp, err := app.Test(httptest.NewRequest("PATCH", "/notifications/404/read", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestClearAllReportsCount(t *testing.T) {
	app := newTestApp(&stubNotificationService{cleared: 3})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/notifications/clear-all?user_id=7", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, fmt.Sprintf(`{"message":%q}`, "Deleted 3 notifications."), string(body))
}

func TestClearAllRequiresUserID(t *testing.T) {
	app := newTestApp(&stubNotificationService{})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/notifications/clear-all", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
