package user_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"classly/internal/common"
	"classly/internal/domain/user"
	"classly/internal/model"
	"classly/internal/storage"
)

func setup(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}

	router := gin.New()
	h := user.NewHandler(user.NewStore(db), 0)
	h.RegisterRoutes(router.Group("/api/v1"))
	return db, router
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
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

func decodeUser(t *testing.T, w *httptest.ResponseRecorder) model.User {
	t.Helper()
	var resp struct {
		Success bool             `json:"success"`
		Data    model.User       `json:"data"`
		Error   *common.APIError `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return resp.Data
}

func TestCreateUser(t *testing.T) {
	_, router := setup(t)

	w := do(t, router, http.MethodPost, "/api/v1/users", gin.H{
		"name":  "Ada Lovelace",
		"email": "ada@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	u := decodeUser(t, w)
	if u.ID == "" {
		t.Error("created user has no id")
	}
	// Email delivery is opt-out, not opt-in.
	if !u.EmailNotificationsEnabled {
		t.Error("email notifications should default to enabled")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	_, router := setup(t)

	payload := gin.H{"name": "Ada", "email": "ada@example.com"}
	if w := do(t, router, http.MethodPost, "/api/v1/users", payload); w.Code != http.StatusCreated {
		t.Fatalf("first create: status %d body %s", w.Code, w.Body.String())
	}
	w := do(t, router, http.MethodPost, "/api/v1/users", payload)
	if w.Code != http.StatusConflict {
		t.Fatalf("second create: status %d, want 409; body %s", w.Code, w.Body.String())
	}
}

func TestCreateUserInvalidEmail(t *testing.T) {
	_, router := setup(t)

	w := do(t, router, http.MethodPost, "/api/v1/users", gin.H{
		"name":  "Ada",
		"email": "not-an-email",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "valid email") {
		t.Errorf("body %q should mention the email problem", w.Body.String())
	}
}

func TestGetUserNotFound(t *testing.T) {
	_, router := setup(t)

	w := do(t, router, http.MethodGet, "/api/v1/users/1b4e28ba-2fa1-11d2-883f-0016d3cca427", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUpdateUserDisablesEmailChannel(t *testing.T) {
	_, router := setup(t)

	w := do(t, router, http.MethodPost, "/api/v1/users", gin.H{"name": "Ada", "email": "ada@example.com"})
	u := decodeUser(t, w)

	w = do(t, router, http.MethodPut, "/api/v1/users/"+u.ID, gin.H{
		"name":                      "Ada",
		"email":                     "ada@example.com",
		"emailNotificationsEnabled": false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", w.Code, w.Body.String())
	}
	if got := decodeUser(t, w); got.EmailNotificationsEnabled {
		t.Error("email notifications should be disabled after update")
	}
}

func TestDeleteUser(t *testing.T) {
	_, router := setup(t)

	w := do(t, router, http.MethodPost, "/api/v1/users", gin.H{"name": "Ada", "email": "ada@example.com"})
	u := decodeUser(t, w)

	if w = do(t, router, http.MethodDelete, "/api/v1/users/"+u.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	if w = do(t, router, http.MethodGet, "/api/v1/users/"+u.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", w.Code)
	}
}

func TestAddPushSubscription(t *testing.T) {
	db, router := setup(t)

	w := do(t, router, http.MethodPost, "/api/v1/users", gin.H{"name": "Ada", "email": "ada@example.com"})
	u := decodeUser(t, w)

	w = do(t, router, http.MethodPost, "/api/v1/users/"+u.ID+"/push-subscriptions", gin.H{
		"endpoint": "https://push.example/abc",
		"p256dh":   "BNcR4keymaterial",
		"auth":     "secret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&model.PushSubscription{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("subscription count = %d, want 1", count)
	}
}

func TestAddDeviceTokenUnknownPlatform(t *testing.T) {
	_, router := setup(t)

	w := do(t, router, http.MethodPost, "/api/v1/users", gin.H{"name": "Ada", "email": "ada@example.com"})
	u := decodeUser(t, w)

	w = do(t, router, http.MethodPost, "/api/v1/users/"+u.ID+"/device-tokens", gin.H{
		"token":    "tok-1",
		"platform": "blackberry",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", w.Code, w.Body.String())
	}
}

func TestAddDeviceTokenUnknownUser(t *testing.T) {
	_, router := setup(t)

	w := do(t, router, http.MethodPost, "/api/v1/users/1b4e28ba-2fa1-11d2-883f-0016d3cca427/device-tokens", gin.H{
		"token":    "tok-1",
		"platform": "android",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", w.Code, w.Body.String())
	}
}
