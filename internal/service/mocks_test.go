package service

import (
	"context"

	"kloudcart/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of repository.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) AddOne(ctx context.Context, userEmail, productID string) error {
	args := m.Called(ctx, userEmail, productID)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveOne(ctx context.Context, userEmail, productID string) error {
	args := m.Called(ctx, userEmail, productID)
	return args.Error(0)
}

func (m *MockCartRepository) Remove(ctx context.Context, userEmail, productID string) error {
	args := m.Called(ctx, userEmail, productID)
	return args.Error(0)
}

func (m *MockCartRepository) GetLines(ctx context.Context, userEmail string) ([]model.CartLine, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *MockCartRepository) Clear(ctx context.Context, userEmail string) error {
	args := m.Called(ctx, userEmail)
	return args.Error(0)
}

// MockReceiptRepository is a mock implementation of repository.ReceiptRepository.
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Insert(ctx context.Context, entry *model.ReceiptLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockReceiptRepository) List(ctx context.Context, limit, offset int) ([]model.ReceiptLogEntry, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReceiptLogEntry), args.Error(1)
}

func (m *MockReceiptRepository) GetByFilename(ctx context.Context, filename string) (*model.ReceiptLogEntry, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReceiptLogEntry), args.Error(1)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockGenerator is a mock implementation of receipt.Generator.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(snapshot model.OrderSnapshot) ([]byte, error) {
	args := m.Called(snapshot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockReceiptStore is a mock implementation of receipt.Store.
type MockReceiptStore struct {
	mock.Mock
}

func (m *MockReceiptStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}

func (m *MockReceiptStore) Path(filename string) (string, error) {
	args := m.Called(filename)
	return args.String(0), args.Error(1)
}

// MockSender is a mock implementation of mail.Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to string, snapshot model.OrderSnapshot, attachmentPath string) bool {
	args := m.Called(ctx, to, snapshot, attachmentPath)
	return args.Bool(0)
}

// MockSessionStore is a mock implementation of session.Store.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, userEmail string) (string, error) {
	args := m.Called(ctx, userEmail)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
