package handlers_test

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"finboard/dashboard/internal/models"
	"finboard/dashboard/internal/services"
)

// --- Mocks ---

// MockInvoiceService implements services.IInvoiceService
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, form map[string]string) services.Result {
	args := m.Called(ctx, form)
	return args.Get(0).(services.Result)
}
func (m *MockInvoiceService) Update(ctx context.Context, id string, form map[string]string) services.Result {
	args := m.Called(ctx, id, form)
	return args.Get(0).(services.Result)
}
func (m *MockInvoiceService) Delete(ctx context.Context, id string) services.Result {
	args := m.Called(ctx, id)
	return args.Get(0).(services.Result)
}
func (m *MockInvoiceService) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}
func (m *MockInvoiceService) Filtered(ctx context.Context, query string, page int) ([]models.InvoiceRow, error) {
	args := m.Called(ctx, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InvoiceRow), args.Error(1)
}
func (m *MockInvoiceService) TotalPages(ctx context.Context, query string) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}

// MockCustomerService implements services.ICustomerService
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) List(ctx context.Context) ([]models.CustomerField, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CustomerField), args.Error(1)
}
func (m *MockCustomerService) Table(ctx context.Context, query string) ([]models.CustomerTableRow, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CustomerTableRow), args.Error(1)
}
func (m *MockCustomerService) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}
func (m *MockCustomerService) SetAvatarURL(ctx context.Context, id, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

// MockDashboardService implements services.IDashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) CardData(ctx context.Context) (*services.CardData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CardData), args.Error(1)
}
func (m *MockDashboardService) Revenue(ctx context.Context) ([]models.Revenue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Revenue), args.Error(1)
}
func (m *MockDashboardService) LatestInvoices(ctx context.Context) ([]models.InvoiceRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InvoiceRow), args.Error(1)
}

// MockUserService implements services.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockPathCache implements handlers.IPathCache
type MockPathCache struct {
	mock.Mock
}

func (m *MockPathCache) Get(ctx context.Context, path string) ([]byte, bool) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]byte), args.Bool(1)
}
func (m *MockPathCache) Set(ctx context.Context, path string, body []byte) error {
	args := m.Called(ctx, path, body)
	return args.Error(0)
}

// MockTaskEnqueuer implements tasks.Enqueuer
type MockTaskEnqueuer struct {
	mock.Mock
}

func (m *MockTaskEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

// MockAvatarStorage implements storage.IAvatarStorage
type MockAvatarStorage struct {
	mock.Mock
}

func (m *MockAvatarStorage) GeneratePresignedPutURL(ctx context.Context, customerID, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, customerID, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *MockAvatarStorage) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockAvatarStorage) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}
func (m *MockAvatarStorage) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
