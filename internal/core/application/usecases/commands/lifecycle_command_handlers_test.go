package commands_test

import (
	"errors"
	"testing"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/intent"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssignAgentCommandHandler_Handle(t *testing.T) {
	t.Run("opens a delivery run when none exists", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())

		uow := newMockUoW()
		uow.expectTx(nil)
		uow.parcels.On("GetForUpdate", mock.Anything, p.ID()).Return(p, nil).Once()
		uow.users.On("Get", mock.Anything, ppl.agent.ID()).Return(ppl.agent, nil).Once()
		uow.deliveries.On("FindByParcel", mock.Anything, p.ID()).Return(nil, nil).Once()
		uow.parcels.On("Update", mock.Anything, p).Return(nil).Once()
		uow.deliveries.On("Add", mock.Anything, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once()

		runner := new(MockRunner)
		runner.On("Run", mock.Anything, mock.MatchedBy(func(in []intent.Intent) bool { return len(in) == 2 })).Once()

		cmd, err := commands.NewAssignAgentCommand(ppl.admin.Actor(), p.ID(), ppl.agent.ID())
		require.NoError(t, err)

		res, err := commands.NewAssignAgentCommandHandler(MockUoWFactory{uow}, runner, clock).Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.True(t, res.Parcel.IsAssignedTo(ppl.agent.ID()))
		assert.Equal(t, delivery.Assigned, res.Delivery.Status())
		uow.assertAll(t)
		runner.AssertExpectations(t)
	})

	t.Run("hands an existing run to the new agent", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())
		previous := kernel.NewUUID()
		d, err := delivery.NewAssignedDelivery(kernel.NewUUID(), p.ID(), previous)
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(nil)
		uow.parcels.On("GetForUpdate", mock.Anything, p.ID()).Return(p, nil).Once()
		uow.users.On("Get", mock.Anything, ppl.agent.ID()).Return(ppl.agent, nil).Once()
		uow.deliveries.On("FindByParcel", mock.Anything, p.ID()).Return(d, nil).Once()
		uow.parcels.On("Update", mock.Anything, p).Return(nil).Once()
		uow.deliveries.On("Update", mock.Anything, d).Return(nil).Once()

		runner := new(MockRunner)
		runner.On("Run", mock.Anything, mock.Anything).Once()

		cmd, err := commands.NewAssignAgentCommand(ppl.admin.Actor(), p.ID(), ppl.agent.ID())
		require.NoError(t, err)

		res, err := commands.NewAssignAgentCommandHandler(MockUoWFactory{uow}, runner, clock).Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.True(t, res.Delivery.AgentID().IsEqual(ppl.agent.ID()))
		uow.assertAll(t)
	})

	t.Run("unknown agent", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())
		missing := kernel.NewUUID()

		uow := newMockUoW()
		uow.expectAbortedTx()
		uow.parcels.On("GetForUpdate", mock.Anything, p.ID()).Return(p, nil).Once()
		uow.users.On("Get", mock.Anything, missing).
			Return(nil, errs.NewObjectNotFoundError("user", missing.String())).Once()
		runner := new(MockRunner)

		cmd, err := commands.NewAssignAgentCommand(ppl.admin.Actor(), p.ID(), missing)
		require.NoError(t, err)

		_, err = commands.NewAssignAgentCommandHandler(MockUoWFactory{uow}, runner, clock).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})
}

func TestUpdateLocationCommandHandler_Handle(t *testing.T) {
	point, err := kernel.NewGeoPoint(23.8103, 90.4125)
	require.NoError(t, err)

	t.Run("writes three independent statements without a transaction", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())
		require.NoError(t, p.PickUp(ppl.agent.ID()))
		d, err := delivery.NewPickedUpDelivery(kernel.NewUUID(), p.ID(), ppl.agent.ID(), now)
		require.NoError(t, err)

		uow := newMockUoW()
		expected := delivery.TrackPoint{Point: point, RecordedAt: now}
		mock.InOrder(
			uow.parcels.On("Get", mock.Anything, p.ID()).Return(p, nil).Once(),
			uow.deliveries.On("FindByParcel", mock.Anything, p.ID()).Return(d, nil).Once(),
			uow.parcels.On("SetCurrentLocation", mock.Anything, p.ID(), point).Return(nil).Once(),
			uow.deliveries.On("AppendRoutePoint", mock.Anything, d.ID(), expected).Return(nil).Once(),
			uow.deliveries.On("UpdateCurrentLocation", mock.Anything, d.ID(), expected).Return(nil).Once(),
		)

		runner := new(MockRunner)
		runner.On("Run", mock.Anything, mock.MatchedBy(func(in []intent.Intent) bool { return len(in) == 1 })).Once()

		cmd, err := commands.NewUpdateLocationCommand(ppl.agent.Actor(), p.ID(), point)
		require.NoError(t, err)

		_, err = commands.NewUpdateLocationCommandHandler(MockUoWFactory{uow}, runner, clock).Handle(t.Context(), cmd)

		require.NoError(t, err)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
		uow.assertAll(t)
		runner.AssertExpectations(t)
	})

	t.Run("without a delivery run only the parcel moves", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())
		require.NoError(t, p.AssignAgent(ppl.agent.ID()))

		uow := newMockUoW()
		uow.parcels.On("Get", mock.Anything, p.ID()).Return(p, nil).Once()
		uow.deliveries.On("FindByParcel", mock.Anything, p.ID()).Return(nil, nil).Once()
		uow.parcels.On("SetCurrentLocation", mock.Anything, p.ID(), point).Return(nil).Once()

		runner := new(MockRunner)
		runner.On("Run", mock.Anything, mock.Anything).Once()

		cmd, err := commands.NewUpdateLocationCommand(ppl.agent.Actor(), p.ID(), point)
		require.NoError(t, err)

		_, err = commands.NewUpdateLocationCommandHandler(MockUoWFactory{uow}, runner, clock).Handle(t.Context(), cmd)

		require.NoError(t, err)
		uow.deliveries.AssertNotCalled(t, "AppendRoutePoint", mock.Anything, mock.Anything, mock.Anything)
		uow.assertAll(t)
	})

	t.Run("unassigned agent is rejected before any write", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())

		uow := newMockUoW()
		uow.parcels.On("Get", mock.Anything, p.ID()).Return(p, nil).Once()
		uow.deliveries.On("FindByParcel", mock.Anything, p.ID()).Return(nil, nil).Once()
		runner := new(MockRunner)

		cmd, err := commands.NewUpdateLocationCommand(ppl.agent.Actor(), p.ID(), point)
		require.NoError(t, err)

		_, err = commands.NewUpdateLocationCommandHandler(MockUoWFactory{uow}, runner, clock).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, parcel.ErrNotAssignedToAgent)
		uow.parcels.AssertNotCalled(t, "SetCurrentLocation", mock.Anything, mock.Anything, mock.Anything)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})
}

func TestCompleteDeliveryCommandHandler_Handle(t *testing.T) {
	t.Run("failed keeps the reason and stamps nothing", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())
		require.NoError(t, p.PickUp(ppl.agent.ID()))
		d, err := delivery.NewPickedUpDelivery(kernel.NewUUID(), p.ID(), ppl.agent.ID(), now)
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(nil)
		uow.parcels.On("GetForUpdate", mock.Anything, p.ID()).Return(p, nil).Once()
		uow.deliveries.On("FindByParcel", mock.Anything, p.ID()).Return(d, nil).Once()
		uow.parcels.On("Update", mock.Anything, p).Return(nil).Once()
		uow.deliveries.On("Update", mock.Anything, d).Return(nil).Once()

		runner := new(MockRunner)
		runner.On("Run", mock.Anything, mock.Anything).Once()

		cmd, err := commands.NewCompleteDeliveryCommand(ppl.agent.Actor(), p.ID(), parcel.Failed,
			" recipient absent ", "", []string{"", "https://cdn.example.com/door.jpg"})
		require.NoError(t, err)

		res, err := commands.NewCompleteDeliveryCommandHandler(MockUoWFactory{uow}, runner, clock).Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, parcel.Failed, res.Parcel.Status())
		assert.Nil(t, res.Parcel.ActualDeliveryDate())
		assert.Equal(t, "recipient absent", res.Delivery.FailureReason())
		assert.Equal(t, []string{"https://cdn.example.com/door.jpg"}, res.Delivery.Photos())
		uow.assertAll(t)
	})

	t.Run("missing delivery run is not found", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())

		uow := newMockUoW()
		uow.expectAbortedTx()
		uow.parcels.On("GetForUpdate", mock.Anything, p.ID()).Return(p, nil).Once()
		uow.deliveries.On("FindByParcel", mock.Anything, p.ID()).Return(nil, nil).Once()
		runner := new(MockRunner)

		cmd, err := commands.NewCompleteDeliveryCommand(ppl.agent.Actor(), p.ID(), parcel.Delivered, "", "", nil)
		require.NoError(t, err)

		_, err = commands.NewCompleteDeliveryCommandHandler(MockUoWFactory{uow}, runner, clock).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})

	t.Run("pending is not a completion status", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())
		d, err := delivery.NewAssignedDelivery(kernel.NewUUID(), p.ID(), ppl.agent.ID())
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbortedTx()
		uow.parcels.On("GetForUpdate", mock.Anything, p.ID()).Return(p, nil).Once()
		uow.deliveries.On("FindByParcel", mock.Anything, p.ID()).Return(d, nil).Once()

		cmd, err := commands.NewCompleteDeliveryCommand(ppl.agent.Actor(), p.ID(), parcel.Pending, "", "", nil)
		require.NoError(t, err)

		_, err = commands.NewCompleteDeliveryCommandHandler(MockUoWFactory{uow}, new(MockRunner), clock).
			Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestUpdateStatusCommandHandler_Handle(t *testing.T) {
	t.Run("override mirrors onto the run and notifies", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())
		require.NoError(t, p.PickUp(ppl.agent.ID()))
		d, err := delivery.NewPickedUpDelivery(kernel.NewUUID(), p.ID(), ppl.agent.ID(), now)
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(nil)
		uow.parcels.On("GetForUpdate", mock.Anything, p.ID()).Return(p, nil).Once()
		uow.deliveries.On("FindByParcel", mock.Anything, p.ID()).Return(d, nil).Once()
		uow.users.On("Get", mock.Anything, ppl.customer.ID()).Return(ppl.customer, nil).Once()
		uow.parcels.On("Update", mock.Anything, p).Return(nil).Once()
		uow.deliveries.On("Update", mock.Anything, d).Return(nil).Once()

		runner := new(MockRunner)
		runner.On("Run", mock.Anything, mock.MatchedBy(func(in []intent.Intent) bool { return len(in) == 3 })).Once()

		cmd, err := commands.NewUpdateStatusCommand(ppl.admin.Actor(), p.ID(), parcel.Delivered, "confirmed by phone")
		require.NoError(t, err)

		res, err := commands.NewUpdateStatusCommandHandler(MockUoWFactory{uow}, runner, clock).Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.Equal(t, parcel.Delivered, res.Parcel.Status())
		assert.Equal(t, "confirmed by phone", res.Parcel.Notes())
		assert.Equal(t, delivery.Delivered, res.Delivery.Status())
		uow.assertAll(t)
		runner.AssertExpectations(t)
	})

	t.Run("agent may not override", func(t *testing.T) {
		ppl := newPeople(t)
		p := pendingParcel(t, ppl.customer.ID())

		uow := newMockUoW()
		uow.expectAbortedTx()
		uow.parcels.On("GetForUpdate", mock.Anything, p.ID()).Return(p, nil).Once()
		uow.deliveries.On("FindByParcel", mock.Anything, p.ID()).Return(nil, nil).Once()
		uow.users.On("Get", mock.Anything, mock.Anything).Return(ppl.customer, nil).Once()

		cmd, err := commands.NewUpdateStatusCommand(ppl.agent.Actor(), p.ID(), parcel.Delivered, "")
		require.NoError(t, err)

		_, err = commands.NewUpdateStatusCommandHandler(MockUoWFactory{uow}, new(MockRunner), clock).
			Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("lookup failure is returned unchanged", func(t *testing.T) {
		ppl := newPeople(t)
		id := kernel.NewUUID()
		boom := errors.New("db down")

		uow := newMockUoW()
		uow.expectAbortedTx()
		uow.parcels.On("GetForUpdate", mock.Anything, id).Return(nil, boom).Once()

		cmd, err := commands.NewUpdateStatusCommand(ppl.admin.Actor(), id, parcel.Failed, "")
		require.NoError(t, err)

		_, err = commands.NewUpdateStatusCommandHandler(MockUoWFactory{uow}, new(MockRunner), clock).
			Handle(t.Context(), cmd)

		require.ErrorIs(t, err, boom)
	})
}

func TestNewCommands_RejectInvalidInput(t *testing.T) {
	ppl := newPeople(t)

	_, err := commands.NewAssignAgentCommand(ppl.admin.Actor(), kernel.UUID{}, ppl.agent.ID())
	require.Error(t, err)

	_, err = commands.NewUpdateStatusCommand(ppl.admin.Actor(), kernel.NewUUID(), parcel.UnknownStatus, "")
	require.Error(t, err)

	_, err = commands.NewUpdateLocationCommand(ppl.agent.Actor(), kernel.NewUUID(), kernel.GeoPoint{})
	require.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)

	_, err = commands.NewCompleteDeliveryCommand(ppl.agent.Actor(), kernel.NewUUID(), parcel.UnknownStatus, "", "", nil)
	require.Error(t, err)
}
