package notification_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"classly/internal/common"
	"classly/internal/domain/notification"
	"classly/internal/model"
)

func setupRouter(t *testing.T, db *gorm.DB, enq notification.Enqueuer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	h := notification.NewHandler(newService(db, enq, nil), 0)
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSendReturnsAcceptedWithPendingRecord(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})
	router := setupRouter(t, db, &recordingEnqueuer{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/notifications/send", gin.H{
		"recipientId": u.ID,
		"type":        "COURSE_UPDATE",
		"title":       "New lesson",
		"content":     "Lesson 4 is live.",
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool               `json:"success"`
		Data    model.Notification `json:"data"`
		Error   *common.APIError   `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data.Status != model.NotificationPending {
		t.Errorf("status = %s, want PENDING", resp.Data.Status)
	}
	if resp.Data.Read {
		t.Error("new notification must start unread")
	}
}

func TestSendUnknownRecipientIs404(t *testing.T) {
	db := setupDB(t)
	router := setupRouter(t, db, &recordingEnqueuer{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/notifications/send", gin.H{
		"recipientId": "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		"type":        "SYSTEM_ALERT",
		"title":       "hello",
		"content":     "world",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", w.Code, w.Body.String())
	}
}

func TestSendRejectsUnknownType(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})
	router := setupRouter(t, db, &recordingEnqueuer{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/notifications/send", gin.H{
		"recipientId": u.ID,
		"type":        "CARRIER_PIGEON",
		"title":       "hello",
		"content":     "world",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
	}
}

func TestMarkReadOverHTTP(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})
	n := createPending(t, db, u.ID)
	router := setupRouter(t, db, &recordingEnqueuer{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/"+u.ID+"/notifications/mark-read", gin.H{
		"ids": []string{n.ID},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data notification.MarkReadResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Updated != 1 {
		t.Errorf("updated = %d, want 1", resp.Data.Updated)
	}
}

func TestMarkReadEmptyIDsRejected(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})
	router := setupRouter(t, db, &recordingEnqueuer{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/users/"+u.ID+"/notifications/mark-read", gin.H{
		"ids": []string{},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
	}
}

func TestUnreadCountOverHTTP(t *testing.T) {
	db := setupDB(t)
	u := createUser(t, db, &model.User{Name: "Ada", Email: "ada@example.com", EmailNotificationsEnabled: true})
	createPending(t, db, u.ID)
	createPending(t, db, u.ID)
	router := setupRouter(t, db, &recordingEnqueuer{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/"+u.ID+"/notifications/unread-count", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data notification.UnreadCountResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Unread != 2 {
		t.Errorf("unread = %d, want 2", resp.Data.Unread)
	}
}
