package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"classly/internal/domain/notification"
	"classly/internal/infra/store"
	"classly/internal/model"
)

func newReaper(db *gorm.DB, enq notification.Enqueuer) *notification.Reaper {
	return notification.NewReaper(store.NewNotificationStore(db), enq, notification.ReaperConfig{
		Interval:       time.Minute,
		StaleThreshold: 10 * time.Minute,
		BatchSize:      50,
	})
}

func backdate(t *testing.T, db *gorm.DB, id string, age time.Duration) {
	t.Helper()
	err := db.Model(&model.Notification{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now().Add(-age)).Error
	if err != nil {
		t.Fatalf("backdating notification: %v", err)
	}
}

func TestSweepRecoversStalePending(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})

	// A PENDING row whose queue task vanished: nothing else will ever
	// deliver it.
	orphan := createPending(t, db, u.ID)
	backdate(t, db, orphan.ID, time.Hour)

	enq := &recordingEnqueuer{}
	r := newReaper(db, enq)

	if got := r.Sweep(context.Background()); got != 1 {
		t.Fatalf("Sweep() recovered = %d, want 1", got)
	}
	if len(enq.ids) != 1 || enq.ids[0] != orphan.ID {
		t.Errorf("re-enqueued ids = %v, want [%s]", enq.ids, orphan.ID)
	}

	// The recovery touch moved the row forward; an immediate second sweep
	// must not double-enqueue it.
	if got := r.Sweep(context.Background()); got != 0 {
		t.Errorf("second Sweep() recovered = %d, want 0", got)
	}
}

func TestSweepIgnoresFreshAndTerminalRecords(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})

	createPending(t, db, u.ID) // fresh, still plausibly in flight

	sent := createPending(t, db, u.ID)
	if err := db.Model(&model.Notification{}).Where("id = ?", sent.ID).
		Update("status", model.NotificationSent).Error; err != nil {
		t.Fatal(err)
	}
	backdate(t, db, sent.ID, time.Hour)

	enq := &recordingEnqueuer{}
	r := newReaper(db, enq)

	if got := r.Sweep(context.Background()); got != 0 {
		t.Errorf("Sweep() recovered = %d, want 0", got)
	}
	if len(enq.ids) != 0 {
		t.Errorf("re-enqueued ids = %v, want none", enq.ids)
	}
}

func TestSweepRespectsBatchSize(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})

	for i := 0; i < 5; i++ {
		n := createPending(t, db, u.ID)
		backdate(t, db, n.ID, time.Hour)
	}

	enq := &recordingEnqueuer{}
	r := notification.NewReaper(store.NewNotificationStore(db), enq, notification.ReaperConfig{
		Interval:       time.Minute,
		StaleThreshold: 10 * time.Minute,
		BatchSize:      2,
	})

	if got := r.Sweep(context.Background()); got != 2 {
		t.Errorf("Sweep() recovered = %d, want batch of 2", got)
	}
}

func TestSweepEnqueueFailure(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})
	n := createPending(t, db, u.ID)
	backdate(t, db, n.ID, time.Hour)

	r := newReaper(db, &recordingEnqueuer{err: errors.New("queue down")})

	if got := r.Sweep(context.Background()); got != 0 {
		t.Errorf("Sweep() recovered = %d, want 0 when enqueue fails", got)
	}

	var persisted model.Notification
	if err := db.First(&persisted, "id = ?", n.ID).Error; err != nil {
		t.Fatal(err)
	}
	// Still PENDING: the record stays eligible for a later sweep.
	if persisted.Status != model.NotificationPending {
		t.Errorf("status = %s, want PENDING", persisted.Status)
	}
}
