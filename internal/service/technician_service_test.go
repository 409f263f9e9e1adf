package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technicalhatchet/fieldserve/internal/domain"
	apperrors "github.com/technicalhatchet/fieldserve/pkg/util"
)

func newTestTechnicianService(workOrders *fakeWorkOrderRepo, technicians *fakeTechnicianRepo) *TechnicianService {
	return NewTechnicianService(TechnicianDependencies{
		TechnicianRepo: technicians,
		WorkOrderRepo:  workOrders,
	})
}

func TestGetAvailabilityDefaultsWhenUnset(t *testing.T) {
	tech := activeTechnician("tech-1", "Dana Field")
	svc := newTestTechnicianService(newFakeWorkOrderRepo(), newFakeTechnicianRepo(tech))

	view, err := svc.GetAvailability(context.Background(), "tech-1", at(0, 0), at(0, 0).AddDate(0, 0, 7))
	require.NoError(t, err)
	require.NotNil(t, view.Availability)
	assert.Equal(t, domain.DefaultAvailability(), view.Availability)
	assert.Empty(t, view.Appointments)
}

func TestGetAvailabilityIncludesActiveBookings(t *testing.T) {
	tech := activeTechnician("tech-1", "Dana Field")
	booked := pendingOrder("wo-1")
	booked.Status = domain.WorkOrderStatusScheduled
	booked.AssignedTechnicianID = strPtr("tech-1")
	start, end := at(9, 0), at(10, 0)
	booked.ScheduledStart, booked.ScheduledEnd = &start, &end

	done := pendingOrder("wo-2")
	done.Status = domain.WorkOrderStatusCompleted
	done.AssignedTechnicianID = strPtr("tech-1")
	done.ScheduledStart, done.ScheduledEnd = &start, &end

	svc := newTestTechnicianService(newFakeWorkOrderRepo(booked, done), newFakeTechnicianRepo(tech))

	view, err := svc.GetAvailability(context.Background(), "tech-1", at(0, 0), at(0, 0).AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, view.Appointments, 1, "completed orders do not occupy the calendar")
	assert.Equal(t, "wo-1", view.Appointments[0].ID)
}

func TestUpdateAvailability(t *testing.T) {
	tech := activeTechnician("tech-1", "Dana Field")
	svc := newTestTechnicianService(newFakeWorkOrderRepo(), newFakeTechnicianRepo(tech))

	av := &domain.Availability{
		WorkDays:  []string{"tuesday", "thursday"},
		WorkHours: domain.TimeWindow{Start: "10:00", End: "18:00"},
		Exceptions: []domain.DateException{
			{Date: "2024-07-04", Available: false, Reason: "holiday"},
		},
	}
	status := domain.TechnicianStatusOnLeave
	updated, err := svc.UpdateAvailability(context.Background(), "tech-1", av, &status, "user-admin")
	require.NoError(t, err)
	assert.Equal(t, av, updated.Availability)
	assert.Equal(t, domain.TechnicianStatusOnLeave, updated.Status)
}

func TestUpdateAvailabilityRejectsInvalidRecords(t *testing.T) {
	tech := activeTechnician("tech-1", "Dana Field")
	svc := newTestTechnicianService(newFakeWorkOrderRepo(), newFakeTechnicianRepo(tech))

	cases := []struct {
		name string
		av   *domain.Availability
	}{
		{"unknown weekday", &domain.Availability{
			WorkDays:  []string{"caturday"},
			WorkHours: domain.TimeWindow{Start: "08:00", End: "17:00"},
		}},
		{"duplicate exception dates", &domain.Availability{
			WorkDays:  []string{"monday"},
			WorkHours: domain.TimeWindow{Start: "08:00", End: "17:00"},
			Exceptions: []domain.DateException{
				{Date: "2024-06-10", Available: false},
				{Date: "2024-06-10", Available: true},
			},
		}},
		{"inverted hours", &domain.Availability{
			WorkDays:  []string{"monday"},
			WorkHours: domain.TimeWindow{Start: "17:00", End: "08:00"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateAvailability(context.Background(), "tech-1", tc.av, nil, "user-admin")
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
		})
	}
}

func TestUpdateAvailabilityUnknownTechnician(t *testing.T) {
	svc := newTestTechnicianService(newFakeWorkOrderRepo(), newFakeTechnicianRepo())

	_, err := svc.UpdateAvailability(context.Background(), "missing", domain.DefaultAvailability(), nil, "user-admin")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestGetWorkload(t *testing.T) {
	tech := activeTechnician("tech-1", "Dana Field")
	tech.Availability = &domain.Availability{
		WorkDays:  []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		WorkHours: domain.TimeWindow{Start: "08:00", End: "17:00"},
	}

	scheduled := pendingOrder("wo-1")
	scheduled.Status = domain.WorkOrderStatusScheduled
	scheduled.AssignedTechnicianID = strPtr("tech-1")
	s1, e1 := at(9, 0), at(10, 0)
	scheduled.ScheduledStart, scheduled.ScheduledEnd = &s1, &e1

	completed := pendingOrder("wo-2")
	completed.Status = domain.WorkOrderStatusCompleted
	completed.AssignedTechnicianID = strPtr("tech-1")
	s2, e2 := at(13, 0), at(15, 0)
	completed.ScheduledStart, completed.ScheduledEnd = &s2, &e2

	svc := newTestTechnicianService(newFakeWorkOrderRepo(scheduled, completed), newFakeTechnicianRepo(tech))

	workload, err := svc.GetWorkload(context.Background(), "tech-1", at(0, 0), at(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, workload.TotalJobs)
	assert.Equal(t, 1, workload.ScheduledJobs)
	assert.Equal(t, 1, workload.CompletedJobs)
	assert.Equal(t, 0, workload.InProgressJobs)
	assert.InDelta(t, 3.0, workload.TotalHours, 0.001)
	assert.Equal(t, 2, workload.JobsByDay["2024-06-10"])
	// Three booked hours against a nine hour working day.
	assert.InDelta(t, 100.0/3.0, workload.UtilizationRate, 0.01)
}

func TestGetWorkloadRejectsInvertedRange(t *testing.T) {
	svc := newTestTechnicianService(newFakeWorkOrderRepo(), newFakeTechnicianRepo(activeTechnician("tech-1", "Dana Field")))

	_, err := svc.GetWorkload(context.Background(), "tech-1", at(0, 0), at(0, 0).AddDate(0, 0, -1))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}
