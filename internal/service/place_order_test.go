package service_test

import (
	"fmt"
	"sync"
	"time"

	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/internal/repository"
)

var testShipping = domain.ShippingInfo{
	Name:        "Alice",
	Phone:       "9876543210",
	AddressLine: "12 Main St",
	City:        "Kochi",
	ZipCode:     "682001",
}

func (s *IntegrationTestSuite) TestPlaceOrder_Success() {
	s.seedUser(1, "alice", "alice@example.com", false)
	s.seedUser(2, "root", "root@example.com", true)
	s.seedProduct(10, "Keyboard", 5)

	buyerCh := &recordingChannel{}
	adminCh := &recordingChannel{}
	s.Hub.Subscribe(1, buyerCh)
	s.Hub.Subscribe(2, adminCh)

	s.expectEvent("OrderPlaced")

	order, err := s.OrderSvc.PlaceOrder(s.Ctx, 1, 10, 3, testShipping)
	s.Require().NoError(err)
	s.Require().NotZero(order.ID)
	s.Require().Equal(domain.OrderStatusPlaced, order.Status)

	s.Require().Equal(int64(2), s.productStock(10))

	buyerMsg := fmt.Sprintf("Order %d placed successfully for product 'Keyboard'.", order.ID)
	adminMsg := fmt.Sprintf("New order %d placed by alice for 'Keyboard'.", order.ID)

	s.Require().Eventually(func() bool {
		return s.notificationCount(1) == 1 && s.notificationCount(2) == 1
	}, 5*time.Second, 50*time.Millisecond)

	s.Require().Equal([]string{buyerMsg}, buyerCh.messages())
	s.Require().Equal([]string{adminMsg}, adminCh.messages())
}

func (s *IntegrationTestSuite) TestPlaceOrder_InsufficientStock() {
	s.seedUser(1, "alice", "alice@example.com", false)
	s.seedProduct(10, "Keyboard", 2)

	_, err := s.OrderSvc.PlaceOrder(s.Ctx, 1, 10, 5, testShipping)
	s.Require().ErrorIs(err, repository.ErrInsufficientStock)

	s.Require().Equal(int64(2), s.productStock(10))

	var orders int64
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx, `SELECT COUNT(*) FROM orders`).Scan(&orders))
	s.Require().Zero(orders)

	s.Require().Zero(s.notificationCount(1))
}

func (s *IntegrationTestSuite) TestPlaceOrder_ProductNotFound() {
	s.seedUser(1, "alice", "alice@example.com", false)

	_, err := s.OrderSvc.PlaceOrder(s.Ctx, 1, 404, 1, testShipping)
	s.Require().ErrorIs(err, repository.ErrProductNotFound)
}

func (s *IntegrationTestSuite) TestPlaceOrder_ConcurrentLastUnit() {
	s.seedUser(1, "alice", "alice@example.com", false)
	s.seedUser(2, "bob", "bob@example.com", false)
	s.seedProduct(10, "Keyboard", 1)

	s.expectEvent("OrderPlaced")

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = s.OrderSvc.PlaceOrder(s.Ctx, 1, 10, 1, testShipping)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = s.OrderSvc.PlaceOrder(s.Ctx, 2, 10, 1, testShipping)
	}()
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.Require().ErrorIs(err, repository.ErrInsufficientStock)
		}
	}

	s.Require().Equal(1, succeeded, "exactly one order should win the last unit")
	s.Require().Zero(s.productStock(10))
}

func (s *IntegrationTestSuite) TestPlaceOrder_RollbackRestoresStock() {
	s.seedProduct(10, "Keyboard", 5)
	s.seedUser(1, "alice", "alice@example.com", false)

	// Force the order insert to fail after the reserve succeeded.
	_, err := s.DbPool.Exec(s.Ctx, `ALTER TABLE orders ADD CONSTRAINT orders_quantity_cap CHECK (quantity < 100)`)
	s.Require().NoError(err)
	defer func() {
		_, err := s.DbPool.Exec(s.Ctx, `ALTER TABLE orders DROP CONSTRAINT orders_quantity_cap`)
		s.Require().NoError(err)
	}()

	// Stock covers the request but the insert violates the cap, so the
	// reserve must roll back with it.
	s.seedProduct(11, "Monitor", 200)
	_, err = s.OrderSvc.PlaceOrder(s.Ctx, 1, 11, 150, testShipping)
	s.Require().Error(err)

	s.Require().Equal(int64(200), s.productStock(11))
	s.Require().Zero(s.notificationCount(1))
}
