package service_test

import (
	"fmt"
	"time"

	"github.com/rizanep/waqthecombackend1/internal/repository"
)

func (s *IntegrationTestSuite) TestNotifications_NewestFirst() {
	s.seedUser(1, "alice", "alice@example.com", false)

	for i := 1; i <= 3; i++ {
		err := s.NotificationSvc.SaveAndNotify(s.Ctx, 1, fmt.Sprintf("message %d", i))
		s.Require().NoError(err)
	}

	list, err := s.NotificationSvc.List(s.Ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Require().Equal("message 3", list[0].Message)
	s.Require().Equal("message 1", list[2].Message)
	for _, n := range list {
		s.Require().False(n.IsRead)
	}
}

func (s *IntegrationTestSuite) TestNotifications_ListEmpty() {
	s.seedUser(1, "alice", "alice@example.com", false)

	list, err := s.NotificationSvc.List(s.Ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(list)
	s.Require().Empty(list)
}

func (s *IntegrationTestSuite) TestNotifications_MarkRead() {
	s.seedUser(1, "alice", "alice@example.com", false)

	s.Require().NoError(s.NotificationSvc.SaveAndNotify(s.Ctx, 1, "hello"))

	list, err := s.NotificationSvc.List(s.Ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(list, 1)

	s.Require().NoError(s.NotificationSvc.MarkRead(s.Ctx, list[0].ID))

	list, err = s.NotificationSvc.List(s.Ctx, 1)
	s.Require().NoError(err)
	s.Require().True(list[0].IsRead)

	s.Require().ErrorIs(s.NotificationSvc.MarkRead(s.Ctx, 404), repository.ErrNotificationNotFound)
}

func (s *IntegrationTestSuite) TestNotifications_ClearAll() {
	s.seedUser(1, "alice", "alice@example.com", false)
	s.seedUser(2, "bob", "bob@example.com", false)

	for i := 0; i < 4; i++ {
		s.Require().NoError(s.NotificationSvc.SaveAndNotify(s.Ctx, 1, "for alice"))
	}
	s.Require().NoError(s.NotificationSvc.SaveAndNotify(s.Ctx, 2, "for bob"))

	deleted, err := s.NotificationSvc.ClearAll(s.Ctx, 1)
	s.Require().NoError(err)
	s.Require().Equal(int64(4), deleted)

	s.Require().Zero(s.notificationCount(1))
	s.Require().Equal(int64(1), s.notificationCount(2))

	// Clearing again reports zero, not an error.
	deleted, err = s.NotificationSvc.ClearAll(s.Ctx, 1)
	s.Require().NoError(err)
	s.Require().Zero(deleted)
}

func (s *IntegrationTestSuite) TestNotifications_Prune() {
	s.seedUser(1, "alice", "alice@example.com", false)

	s.Require().NoError(s.NotificationSvc.SaveAndNotify(s.Ctx, 1, "fresh"))

	_, err := s.DbPool.Exec(s.Ctx, `
		INSERT INTO notifications (user_id, message, created_at)
		VALUES (1, 'stale', NOW() - INTERVAL '8 days')
	`)
	s.Require().NoError(err)

	deleted, err := s.notificationRepo.DeleteOlderThan(s.Ctx, time.Now().Add(-7*24*time.Hour))
	s.Require().NoError(err)
	s.Require().Equal(int64(1), deleted)

	list, err := s.NotificationSvc.List(s.Ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Require().Equal("fresh", list[0].Message)
}
