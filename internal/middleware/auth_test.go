package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alertdesk_go/internal/model"
	"alertdesk_go/internal/service"
	applog "alertdesk_go/pkg/log"
	"alertdesk_go/pkg/token"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type fakeUserService struct {
	users map[string]*model.User
}

func (f *fakeUserService) Register(ctx context.Context, username, password, email string) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserService) Login(ctx context.Context, username, password string) (string, string, error) {
	return "", "", nil
}

func (f *fakeUserService) GetProfile(ctx context.Context, username string) (*model.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}

func (f *fakeUserService) Logout(ctx context.Context, tokenString string) error {
	return nil
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	applog.Init("error", "console", "")
	m.Run()
}

func newAuthRouter(jwtManager *token.JWTManager, rdb *redis.Client) *gin.Engine {
	users := &fakeUserService{users: map[string]*model.User{
		"alice": {ID: 1, Username: "alice", Role: model.RoleUser},
		"root":  {ID: 2, Username: "root", Role: model.RoleAdmin},
	}}
	r := gin.New()
	authed := r.Group("/", AuthMiddleware(jwtManager, users, rdb))
	authed.GET("/me", func(c *gin.Context) {
		user := c.MustGet(ContextKeyUser).(*model.User)
		c.String(http.StatusOK, user.Username)
	})
	authed.GET("/admin", AdminAuthMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jwtManager := token.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	r := newAuthRouter(jwtManager, rdb)

	access, refresh, err := jwtManager.GenerateToken(1, "alice", model.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if w := get(r, "/me", access); w.Code != http.StatusOK || w.Body.String() != "alice" {
		t.Fatalf("expect 200 alice, got %d %s", w.Code, w.Body.String())
	}
	if w := get(r, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expect 401 without token, got %d", w.Code)
	}
	if w := get(r, "/me", refresh); w.Code != http.StatusUnauthorized {
		t.Fatalf("expect 401 for refresh token, got %d", w.Code)
	}

	// 登出后 token 进入黑名单
	if err := mr.Set(service.TokenBlacklistPrefix+access, "alice"); err != nil {
		t.Fatalf("miniredis Set() error = %v", err)
	}
	if w := get(r, "/me", access); w.Code != http.StatusUnauthorized {
		t.Fatalf("expect 401 for blacklisted token, got %d", w.Code)
	}
}

func TestAuthMiddleware_UnknownUser(t *testing.T) {
	jwtManager := token.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	r := newAuthRouter(jwtManager, nil)

	access, _, err := jwtManager.GenerateToken(9, "ghost", model.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if w := get(r, "/me", access); w.Code != http.StatusUnauthorized {
		t.Fatalf("expect 401, got %d", w.Code)
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	jwtManager := token.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	r := newAuthRouter(jwtManager, nil)

	userToken, _, _ := jwtManager.GenerateToken(1, "alice", model.RoleUser)
	adminToken, _, _ := jwtManager.GenerateToken(2, "root", model.RoleAdmin)

	if w := get(r, "/admin", userToken); w.Code != http.StatusForbidden {
		t.Fatalf("expect 403 for normal user, got %d", w.Code)
	}
	if w := get(r, "/admin", adminToken); w.Code != http.StatusNoContent {
		t.Fatalf("expect 204 for admin, got %d", w.Code)
	}
}
