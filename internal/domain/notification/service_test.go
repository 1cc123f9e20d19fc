package notification_test

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"classly/internal/common"
	"classly/internal/domain/notification"
	"classly/internal/infra/store"
	"classly/internal/model"
	"classly/internal/pagination"
)

// recordingEnqueuer captures enqueued ids without delivering anything.
type recordingEnqueuer struct {
	ids []string
	err error
}

func (e *recordingEnqueuer) EnqueueDeliver(id string) error {
	if e.err != nil {
		return e.err
	}
	e.ids = append(e.ids, id)
	return nil
}

// denyingLimiter rejects every recipient.
type denyingLimiter struct{}

func (denyingLimiter) Allow(_ context.Context, _ string) (bool, error) { return false, nil }

// brokenLimiter simulates a limiter backend outage.
type brokenLimiter struct{}

func (brokenLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return false, errors.New("redis unreachable")
}

func newService(db *gorm.DB, enq notification.Enqueuer, limiter notification.RecipientRateLimiter) *notification.Service {
	return notification.NewService(store.NewNotificationStore(db), store.NewUserDirectory(db), enq, limiter)
}

func TestDispatchPersistsPendingBeforeDelivery(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})

	enq := &recordingEnqueuer{}
	svc := newService(db, enq, nil)

	n, err := svc.Dispatch(context.Background(), &notification.SendRequest{
		RecipientID: u.ID,
		Type:        model.TypeCourseUpdate,
		Title:       "New lesson",
		Content:     "Lesson 4 is live.",
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if n.Status != model.NotificationPending {
		t.Errorf("returned status = %s, want PENDING", n.Status)
	}
	if len(enq.ids) != 1 || enq.ids[0] != n.ID {
		t.Errorf("enqueued ids = %v, want [%s]", enq.ids, n.ID)
	}

	// The pending record is visible to readers before any delivery runs.
	var persisted model.Notification
	if err := db.First(&persisted, "id = ?", n.ID).Error; err != nil {
		t.Fatal(err)
	}
	if persisted.Status != model.NotificationPending {
		t.Errorf("persisted status = %s, want PENDING", persisted.Status)
	}
	if persisted.Read {
		t.Error("new notification must start unread")
	}
}

func TestDispatchUnknownRecipientLeavesNoRecord(t *testing.T) {
	db := setupDB(t)
	svc := newService(db, &recordingEnqueuer{}, nil)

	_, err := svc.Dispatch(context.Background(), &notification.SendRequest{
		RecipientID: "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		Type:        model.TypeSystemAlert,
		Title:       "hello",
		Content:     "world",
	})
	var nf *common.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Dispatch() error = %v, want NotFoundError", err)
	}

	var count int64
	if err := db.Model(&model.Notification{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("notification count = %d, want 0", count)
	}
}

func TestDispatchEnqueueFailureMarksFailed(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})

	svc := newService(db, &recordingEnqueuer{err: errors.New("queue down")}, nil)

	_, err := svc.Dispatch(context.Background(), &notification.SendRequest{
		RecipientID: u.ID,
		Type:        model.TypeSystemAlert,
		Title:       "hello",
		Content:     "world",
	})
	if err == nil {
		t.Fatal("Dispatch() expected error when enqueue fails")
	}

	var persisted model.Notification
	if err := db.First(&persisted, "user_id = ?", u.ID).Error; err != nil {
		t.Fatal(err)
	}
	if persisted.Status != model.NotificationFailed {
		t.Errorf("persisted status = %s, want FAILED", persisted.Status)
	}
}

func TestDispatchRateLimited(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})

	svc := newService(db, &recordingEnqueuer{}, denyingLimiter{})

	_, err := svc.Dispatch(context.Background(), &notification.SendRequest{
		RecipientID: u.ID,
		Type:        model.TypeSystemAlert,
		Title:       "hello",
		Content:     "world",
	})
	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Dispatch() error = %v, want ValidationError", err)
	}
}

func TestDispatchLimiterOutageFailsOpen(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})

	svc := newService(db, &recordingEnqueuer{}, brokenLimiter{})

	if _, err := svc.Dispatch(context.Background(), &notification.SendRequest{
		RecipientID: u.ID,
		Type:        model.TypeSystemAlert,
		Title:       "hello",
		Content:     "world",
	}); err != nil {
		t.Fatalf("Dispatch() error = %v, want nil when limiter is down", err)
	}
}

func TestHistoryPagination(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})
	other := createUser(t, db, &model.User{Name: "Alan", Email: "alan@example.com", EmailNotificationsEnabled: true})

	for i := 0; i < 25; i++ {
		createPending(t, db, u.ID)
	}
	createPending(t, db, other.ID)

	svc := newService(db, &recordingEnqueuer{}, nil)

	env, err := svc.History(context.Background(), u.ID, pagination.PageRequest{Page: 1, Size: 10}.Normalize(0))
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if env.TotalItems != 25 {
		t.Errorf("TotalItems = %d, want 25", env.TotalItems)
	}
	if env.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", env.TotalPages)
	}
	if len(env.Items) != 10 {
		t.Errorf("len(Items) = %d, want 10", len(env.Items))
	}
	if env.First || env.Last || env.Empty {
		t.Errorf("middle page flags = first:%v last:%v empty:%v", env.First, env.Last, env.Empty)
	}
	for _, n := range env.Items {
		if n.UserID != u.ID {
			t.Fatalf("history leaked a notification owned by %s", n.UserID)
		}
	}
}

func TestHistoryUnknownUser(t *testing.T) {
	db := setupDB(t)
	svc := newService(db, &recordingEnqueuer{}, nil)

	_, err := svc.History(context.Background(), "1b4e28ba-2fa1-11d2-883f-0016d3cca427", pagination.PageRequest{}.Normalize(0))
	var nf *common.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("History() error = %v, want NotFoundError", err)
	}
}

func TestMarkReadScopedToOwner(t *testing.T) {
	db := setupDB(t)
	owner := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})
	stranger := createUser(t, db, &model.User{Name: "Alan", Email: "alan@example.com", EmailNotificationsEnabled: true})

	mine := createPending(t, db, owner.ID)
	theirs := createPending(t, db, stranger.ID)

	svc := newService(db, &recordingEnqueuer{}, nil)

	// The stranger's id is silently ignored; only the owned row flips.
	updated, err := svc.MarkRead(context.Background(), owner.ID, []string{mine.ID, theirs.ID})
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	var persisted model.Notification
	if err := db.First(&persisted, "id = ?", theirs.ID).Error; err != nil {
		t.Fatal(err)
	}
	if persisted.Read {
		t.Error("another user's notification must stay unread")
	}

	// Marking an already-read row again updates nothing.
	updated, err = svc.MarkRead(context.Background(), owner.ID, []string{mine.ID})
	if err != nil {
		t.Fatalf("MarkRead() second call error = %v", err)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0 on repeat", updated)
	}
}

func TestUnreadCount(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})

	first := createPending(t, db, u.ID)
	createPending(t, db, u.ID)
	createPending(t, db, u.ID)

	svc := newService(db, &recordingEnqueuer{}, nil)

	count, err := svc.UnreadCount(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("unread = %d, want 3", count)
	}

	if _, err := svc.MarkRead(context.Background(), u.ID, []string{first.ID}); err != nil {
		t.Fatal(err)
	}
	count, err = svc.UnreadCount(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("unread = %d, want 2 after mark-read", count)
	}
}

func TestDeliverPayloadRoundTrip(t *testing.T) {
	task, err := notification.NewDeliverTask("abc-123")
	if err != nil {
		t.Fatalf("NewDeliverTask() error = %v", err)
	}
	if task.Type() != notification.TaskTypeDeliver {
		t.Errorf("task type = %s, want %s", task.Type(), notification.TaskTypeDeliver)
	}
	p, err := notification.ParseDeliverPayload(task.Payload())
	if err != nil {
		t.Fatalf("ParseDeliverPayload() error = %v", err)
	}
	if p.NotificationID != "abc-123" {
		t.Errorf("NotificationID = %s, want abc-123", p.NotificationID)
	}
}
