package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technicalhatchet/fieldserve/internal/domain"
	apperrors "github.com/technicalhatchet/fieldserve/pkg/util"
)

func newTestWorkOrderService(repo *fakeWorkOrderRepo) *WorkOrderService {
	return NewWorkOrderService(WorkOrderDependencies{WorkOrderRepo: repo})
}

func TestCreateWorkOrderDefaults(t *testing.T) {
	repo := newFakeWorkOrderRepo()
	svc := newTestWorkOrderService(repo)

	order, err := svc.CreateWorkOrder(context.Background(), "user-admin", WorkOrderCreateInput{
		ClientID: "client-1",
		Title:    "Replace water heater",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusPending, order.Status)
	assert.Equal(t, domain.WorkOrderPriorityMedium, order.Priority)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "WO-"), "order number %q", order.OrderNumber)
	assert.Nil(t, order.ScheduledStart)
	assert.Nil(t, order.AssignedTechnicianID)
}

func TestCreateWorkOrderValidation(t *testing.T) {
	svc := newTestWorkOrderService(newFakeWorkOrderRepo())

	_, err := svc.CreateWorkOrder(context.Background(), "user-admin", WorkOrderCreateInput{Title: "no client"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.CreateWorkOrder(context.Background(), "user-admin", WorkOrderCreateInput{
		ClientID: "client-1",
		Title:    "bad priority",
		Priority: domain.WorkOrderPriority("asap"),
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestChangeStatusHappyPath(t *testing.T) {
	order := pendingOrder("wo-1")
	order.Status = domain.WorkOrderStatusScheduled
	repo := newFakeWorkOrderRepo(order)
	svc := newTestWorkOrderService(repo)

	updated, err := svc.ChangeStatus(context.Background(), "wo-1", domain.WorkOrderStatusInProgress, "", "user-admin")
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusInProgress, updated.Status)
	require.NotNil(t, updated.ActualStart, "starting work stamps the actual start time")
	assert.Nil(t, updated.ActualEnd)

	updated, err = svc.ChangeStatus(context.Background(), "wo-1", domain.WorkOrderStatusCompleted, "all done", "user-admin")
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusCompleted, updated.Status)
	require.NotNil(t, updated.ActualEnd, "completion stamps the actual end time")
}

func TestChangeStatusRejectsSchedulingBypass(t *testing.T) {
	svc := newTestWorkOrderService(newFakeWorkOrderRepo(pendingOrder("wo-1")))

	_, err := svc.ChangeStatus(context.Background(), "wo-1", domain.WorkOrderStatusScheduled, "", "user-admin")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestChangeStatusRejectsIllegalEdges(t *testing.T) {
	order := pendingOrder("wo-1")
	order.Status = domain.WorkOrderStatusCompleted
	svc := newTestWorkOrderService(newFakeWorkOrderRepo(order))

	_, err := svc.ChangeStatus(context.Background(), "wo-1", domain.WorkOrderStatusInProgress, "", "user-admin")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	_, err = svc.ChangeStatus(context.Background(), "wo-1", domain.WorkOrderStatusCancelled, "", "user-admin")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err), "terminal orders cannot be cancelled")
}

func TestChangeStatusUnknownOrder(t *testing.T) {
	svc := newTestWorkOrderService(newFakeWorkOrderRepo())

	_, err := svc.ChangeStatus(context.Background(), "missing", domain.WorkOrderStatusCancelled, "", "user-admin")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
