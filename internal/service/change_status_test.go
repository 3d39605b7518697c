package service_test

import (
	"fmt"
	"time"

	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/internal/service"
)

func (s *IntegrationTestSuite) placeOrder(userID, productID, quantity int64) *domain.Order {
	s.expectEvent("OrderPlaced")

	order, err := s.OrderSvc.PlaceOrder(s.Ctx, userID, productID, quantity, testShipping)
	s.Require().NoError(err)

	// Wait for the placement notifications so later assertions count only
	// status-change traffic.
	s.Require().Eventually(func() bool {
		return s.notificationCount(userID) == 1
	}, 5*time.Second, 50*time.Millisecond)

	return order
}

func (s *IntegrationTestSuite) TestChangeStatus_NotifiesOnChange() {
	s.seedUser(1, "alice", "alice@example.com", false)
	s.seedProduct(10, "Keyboard", 5)
	order := s.placeOrder(1, 10, 1)

	ch := &recordingChannel{}
	s.Hub.Subscribe(1, ch)

	s.expectEvent("OrderStatusChanged")

	updated, err := s.OrderSvc.ChangeStatus(s.Ctx, order.ID, domain.OrderStatusShipped)
	s.Require().NoError(err)
	s.Require().Equal(domain.OrderStatusShipped, updated.Status)

	expected := fmt.Sprintf("Order %d status updated to 'shipped'.", order.ID)
	s.Require().Eventually(func() bool {
		msgs := ch.messages()
		return len(msgs) == 1 && msgs[0] == expected
	}, 5*time.Second, 50*time.Millisecond)

	s.Require().Equal(int64(2), s.notificationCount(1))
}

func (s *IntegrationTestSuite) TestChangeStatus_SameStatusIsSilent() {
	s.seedUser(1, "alice", "alice@example.com", false)
	s.seedProduct(10, "Keyboard", 5)
	order := s.placeOrder(1, 10, 1)

	updated, err := s.OrderSvc.ChangeStatus(s.Ctx, order.ID, domain.OrderStatusPlaced)
	s.Require().NoError(err)
	s.Require().Equal(domain.OrderStatusPlaced, updated.Status)

	// Give any stray async work a moment, then assert nothing new landed.
	time.Sleep(200 * time.Millisecond)
	s.Require().Equal(int64(1), s.notificationCount(1))
}

func (s *IntegrationTestSuite) TestChangeStatus_CancelRestoresStock() {
	s.seedUser(1, "alice", "alice@example.com", false)
	s.seedProduct(10, "Keyboard", 5)
	order := s.placeOrder(1, 10, 3)
	s.Require().Equal(int64(2), s.productStock(10))

	s.expectEvent("OrderStatusChanged")

	updated, err := s.OrderSvc.ChangeStatus(s.Ctx, order.ID, domain.OrderStatusCancelled)
	s.Require().NoError(err)
	s.Require().Equal(domain.OrderStatusCancelled, updated.Status)
	s.Require().Equal(int64(5), s.productStock(10))

	s.Require().Eventually(func() bool {
		return s.notificationCount(1) == 2
	}, 5*time.Second, 50*time.Millisecond)

	// Cancelling again neither restocks nor notifies.
	_, err = s.OrderSvc.ChangeStatus(s.Ctx, order.ID, domain.OrderStatusCancelled)
	s.Require().NoError(err)
	s.Require().Equal(int64(5), s.productStock(10))

	time.Sleep(200 * time.Millisecond)
	s.Require().Equal(int64(2), s.notificationCount(1))
}

func (s *IntegrationTestSuite) TestChangeStatus_InvalidStatus() {
	s.seedUser(1, "alice", "alice@example.com", false)
	s.seedProduct(10, "Keyboard", 5)
	order := s.placeOrder(1, 10, 1)

	_, err := s.OrderSvc.ChangeStatus(s.Ctx, order.ID, "teleported")
	s.Require().ErrorIs(err, service.ErrInvalidOrderStatus)
}

func (s *IntegrationTestSuite) TestChangeStatus_OrderNotFound() {
	_, err := s.OrderSvc.ChangeStatus(s.Ctx, 404, domain.OrderStatusShipped)
	s.Require().ErrorIs(err, repository.ErrOrderNotFound)
}
