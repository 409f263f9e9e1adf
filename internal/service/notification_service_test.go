package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technicalhatchet/fieldserve/internal/config"
	"github.com/technicalhatchet/fieldserve/internal/domain"
	"github.com/technicalhatchet/fieldserve/internal/events"
)

type fakeNotificationRepo struct {
	mu      sync.Mutex
	rows    map[string]*domain.Notification
	nextID  int
	created []string
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: make(map[string]*domain.Notification)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	notification.ID = "n-" + strconv.Itoa(f.nextID)
	notification.CreatedAt = time.Now()
	copied := *notification
	f.rows[notification.ID] = &copied
	f.created = append(f.created, notification.ID)
	return nil
}

func (f *fakeNotificationRepo) MarkSent(_ context.Context, id string, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	row.Status = domain.NotificationStatusSent
	row.SentAt = &sentAt
	return nil
}

func (f *fakeNotificationRepo) MarkFailed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	row.Status = domain.NotificationStatusFailed
	return nil
}

func (f *fakeNotificationRepo) ListForUser(_ context.Context, userID string, _, _ int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Notification
	for _, row := range f.rows {
		if row.UserID == userID {
			result = append(result, *row)
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) get(id string) domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.rows[id]
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func TestNotifyInAppMarksSent(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(config.NotificationConfig{}, time.Second, NotificationDependencies{
		NotificationRepo: repo,
		UserRepo:         &fakeUserRepo{},
	})

	svc.Notify(context.Background(), "user-1", "New job assignment", "details", nil)

	require.Len(t, repo.created, 1)
	row := repo.get(repo.created[0])
	assert.Equal(t, domain.NotificationStatusSent, row.Status)
	assert.Equal(t, domain.NotificationTypeInApp, row.Type)
	require.NotNil(t, row.SentAt)
}

func TestNotifyMarksFailedWhenRecipientUnknown(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(config.NotificationConfig{EmailFrom: "ops@example.com"}, time.Second, NotificationDependencies{
		NotificationRepo: repo,
		UserRepo:         &fakeUserRepo{},
	})

	svc.Notify(context.Background(), "ghost", "title", "content", nil)

	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.NotificationStatusFailed, repo.get(repo.created[0]).Status)
}

func TestTechnicianAssignedEventProducesNotification(t *testing.T) {
	repo := newFakeNotificationRepo()
	dispatcher := events.NewQueuedDispatcher(8)
	svc := NewNotificationService(config.NotificationConfig{}, time.Second, NotificationDependencies{
		NotificationRepo: repo,
		UserRepo:         &fakeUserRepo{},
		Dispatcher:       dispatcher,
	})
	svc.RegisterHandlers()

	workOrderID := "wo-1"
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		ID:          "evt-1",
		Type:        events.EventTechnicianAssigned,
		WorkOrderID: workOrderID,
		Timestamp:   time.Now(),
		Payload: events.TechnicianAssignedPayload{
			TechnicianID:     "tech-1",
			TechnicianUserID: "user-tech-1",
			Start:            at(9, 0),
			End:              at(10, 0),
		},
	}))
	dispatcher.Close()

	require.Len(t, repo.created, 1)
	row := repo.get(repo.created[0])
	assert.Equal(t, "user-tech-1", row.UserID)
	assert.Equal(t, "New job assignment", row.Title)
	require.NotNil(t, row.RelatedWorkOrderID)
	assert.Equal(t, workOrderID, *row.RelatedWorkOrderID)
	assert.Equal(t, domain.NotificationStatusSent, row.Status)
}
