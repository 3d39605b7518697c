package service_test

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/IBM/sarama/mocks"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rizanep/waqthecombackend1/internal/notifier"
	"github.com/rizanep/waqthecombackend1/internal/repository"
	"github.com/rizanep/waqthecombackend1/internal/service"
	"github.com/rizanep/waqthecombackend1/pkg/kafka"
	"github.com/rizanep/waqthecombackend1/pkg/testsuite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const notificationTopic = "notification_events"

// recordingChannel stands in for a live websocket connection.
type recordingChannel struct {
	mu     sync.Mutex
	frames []notifier.MessageFrame
}

func (c *recordingChannel) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frames = append(c.frames, v.(notifier.MessageFrame))
	return nil
}

func (c *recordingChannel) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.frames))
	for i, f := range c.frames {
		out[i] = f.Message
	}
	return out
}

type IntegrationTestSuite struct {
	testsuite.BaseSuite

	Hub             *notifier.Hub
	Dispatcher      *notifier.Dispatcher
	MockProducer    *mocks.SyncProducer
	NotificationSvc service.NotificationService
	OrderSvc        service.OrderService

	notificationRepo repository.NotificationRepository
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.BaseSuite.SetupInfrastructure("../../migrations")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.BaseSuite.TearDownInfrastructure()
}

func (s *IntegrationTestSuite) SetupTest() {
	s.BaseSuite.TruncateTable("notifications")
	s.BaseSuite.TruncateTable("orders")
	s.BaseSuite.TruncateTable("products")
	s.BaseSuite.TruncateTable("users")

	logger := zap.NewNop()

	s.productRepo = repository.NewProductRepository(s.DbPool, logger)
	s.orderRepo = repository.NewOrderRepository(s.DbPool, logger)
	s.notificationRepo = repository.NewNotificationRepository(s.DbPool, logger)
	userRepo := repository.NewUserRepository(s.DbPool, logger)

	s.Hub = notifier.NewHub(logger)
	s.Dispatcher = notifier.NewDispatcher(2, 64, logger)
	s.Dispatcher.Start(s.Ctx)

	s.MockProducer = mocks.NewSyncProducer(s.T(), nil)

	s.NotificationSvc = service.NewNotificationService(s.notificationRepo, s.Hub, s.Dispatcher, logger)
	s.OrderSvc = service.NewOrderService(
		s.DbPool,
		s.orderRepo,
		s.productRepo,
		userRepo,
		s.NotificationSvc,
		s.Dispatcher,
		kafka.NewProducerFromSarama(s.MockProducer),
		notificationTopic,
		logger,
	)
}

func (s *IntegrationTestSuite) TearDownTest() {
	if s.Dispatcher != nil {
		s.Dispatcher.Stop()
	}
}

func (s *IntegrationTestSuite) seedUser(id int64, username, email string, isAdmin bool) {
	query := `
		INSERT INTO users (id, username, name, phn, email, is_admin, password_hash)
		VALUES ($1, $2, $2, '1234567890', $3, $4, 'x')
		ON CONFLICT DO NOTHING
	`

	_, err := s.DbPool.Exec(s.Ctx, query, id, username, email, isAdmin)
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) seedProduct(id int64, name string, stock int64) {
	query := `
		INSERT INTO products (id, name, price, stock)
		VALUES ($1, $2, 5350, $3)
		ON CONFLICT DO NOTHING
	`

	_, err := s.DbPool.Exec(s.Ctx, query, id, name, stock)
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) productStock(id int64) int64 {
	var stock int64
	err := s.DbPool.QueryRow(s.Ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock)
	s.Require().NoError(err)
	return stock
}

func (s *IntegrationTestSuite) notificationCount(userID int64) int64 {
	var count int64
	err := s.DbPool.QueryRow(s.Ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count)
	s.Require().NoError(err)
	return count
}

// expectEvent queues a kafka expectation asserting the envelope's event type.
func (s *IntegrationTestSuite) expectEvent(eventType string) {
	s.MockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var wrapper struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(value, &wrapper); err != nil {
			return err
		}
		if wrapper.Event != eventType {
			return fmt.Errorf("expected event %q, got %q", eventType, wrapper.Event)
		}
		return nil
	})
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
