package commands_test

import (
	"context"
	"testing"
	"time"

	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 2, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return now }

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) GetByTrackingNumberForUpdate(
	ctx context.Context, tn kernel.TrackingNumber,
) (*parcel.Parcel, error) {
	args := m.Called(ctx, tn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) SetCurrentLocation(ctx context.Context, id kernel.UUID, point kernel.GeoPoint) error {
	return m.Called(ctx, id, point).Error(0)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) FindByParcel(ctx context.Context, parcelID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) AppendRoutePoint(ctx context.Context, id kernel.UUID, tp delivery.TrackPoint) error {
	return m.Called(ctx, id, tp).Error(0)
}

func (m *MockDeliveryRepository) UpdateCurrentLocation(ctx context.Context, id kernel.UUID, tp delivery.TrackPoint) error {
	return m.Called(ctx, id, tp).Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockUoW struct {
	mock.Mock
	parcels    *MockParcelRepository
	deliveries *MockDeliveryRepository
	users      *MockUserRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		parcels:    new(MockParcelRepository),
		deliveries: new(MockDeliveryRepository),
		users:      new(MockUserRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) ParcelRepository() ports.ParcelRepository     { return m.parcels }
func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository { return m.deliveries }
func (m *MockUoW) UserRepository() ports.UserRepository         { return m.users }

func (m *MockUoW) assertAll(t *testing.T) {
	t.Helper()
	m.AssertExpectations(t)
	m.parcels.AssertExpectations(t)
	m.deliveries.AssertExpectations(t)
	m.users.AssertExpectations(t)
}

type MockUoWFactory struct{ uow *MockUoW }

func (f MockUoWFactory) Create() ports.UnitOfWork { return f.uow }

// expectTx registers a transaction that commits with commitErr.
func (m *MockUoW) expectTx(commitErr error) {
	m.On("Begin", mock.Anything).Return(nil).Once()
	m.On("Commit", mock.Anything).Return(commitErr).Once()
	m.On("Rollback", mock.Anything).Return(nil).Once()
}

// expectAbortedTx registers a transaction that is rolled back without a commit.
func (m *MockUoW) expectAbortedTx() {
	m.On("Begin", mock.Anything).Return(nil).Once()
	m.On("Rollback", mock.Anything).Return(nil).Once()
}

type MockRunner struct{ mock.Mock }

func (m *MockRunner) Run(ctx context.Context, intents []intent.Intent) {
	m.Called(ctx, intents)
}

type MockQREncoder struct{ mock.Mock }

func (m *MockQREncoder) Encode(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type people struct {
	customer *user.User
	agent    *user.User
	admin    *user.User
}

func newPeople(t *testing.T) people {
	t.Helper()
	customer, err := user.NewUser(kernel.NewUUID(), "Nadia", user.Customer, "nadia@example.com", "+8801711111111")
	require.NoError(t, err)
	agent, err := user.NewUser(kernel.NewUUID(), "Karim", user.Agent, "karim@example.com", "")
	require.NoError(t, err)
	admin, err := user.NewUser(kernel.NewUUID(), "Ops", user.Admin, "", "")
	require.NoError(t, err)
	return people{customer: customer, agent: agent, admin: admin}
}

func addresses(t *testing.T) (parcel.Address, parcel.Address) {
	t.Helper()
	pickup, err := parcel.NewAddress("House 4, Road 7", "Dhaka", nil)
	require.NoError(t, err)
	destination, err := parcel.NewAddress("Zindabazar", "Sylhet", nil)
	require.NoError(t, err)
	return pickup, destination
}

func pendingParcel(t *testing.T, customerID kernel.UUID) *parcel.Parcel {
	t.Helper()
	pickup, destination := addresses(t)
	p, err := parcel.NewParcel(parcel.Booking{
		ID:             kernel.NewUUID(),
		TrackingNumber: kernel.NewTrackingNumber(now),
		CustomerID:     customerID,
		Pickup:         pickup,
		Destination:    destination,
		Type:           parcel.Document,
		WeightKg:       0.5,
		PaymentMethod:  parcel.Prepaid,
		CODAmount:      decimal.Zero,
		CreatedAt:      now.Add(-time.Hour),
	})
	require.NoError(t, err)
	return p
}
