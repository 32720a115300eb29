package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecom-backend/internal/auth"
	"ecom-backend/internal/domain"
	"ecom-backend/internal/repository"
)

type memUsers struct {
	byID map[string]*domain.User
}

func (m *memUsers) Init(context.Context) error { return nil }

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrAlreadyExists
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func TestUserService_RegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := &memUsers{byID: map[string]*domain.User{}}
	hasher := auth.NewHasher(1000, 1)
	svc := NewUserService(users, hasher)

	user, err := svc.Register(ctx, RegisterInput{Email: " Ada@Example.com", Password: "password123", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash, "returned user must be sanitized")
	assert.Empty(t, user.Salt)

	stored := users.byID[user.ID]
	require.NotNil(t, stored)
	assert.Len(t, stored.PasswordHash, auth.KeyLength)
	assert.Len(t, stored.Salt, auth.SaltLength)

	id, err := auth.NewPasswordStrategy(users, hasher).Authenticate(ctx, auth.Credentials{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.ID)

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)
}

func TestUserService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	users := &memUsers{byID: map[string]*domain.User{}}
	svc := NewUserService(users, auth.NewHasher(1000, 1))

	_, err := svc.Register(ctx, RegisterInput{Email: "", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password123", Role: "root"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password123", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Email: "A@B.C", Password: "password123"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestOrderService(t *testing.T) {
	ctx := context.Background()
	orders := newFakeOrders()
	svc := NewOrderService(orders)

	order, err := svc.CreateOrder(ctx, "u-1", CreateOrderInput{TotalAmount: 25, TotalItems: 2, PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.ID)

	_, err = svc.CreateOrder(ctx, "u-2", CreateOrderInput{TotalAmount: 5})
	require.NoError(t, err)

	own, err := svc.ListOwn(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, order.ID, own[0].ID)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.CreateOrder(ctx, "u-1", CreateOrderInput{TotalAmount: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.CreateOrder(ctx, "", CreateOrderInput{TotalAmount: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
