package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alertdesk_go/internal/middleware"
	"alertdesk_go/internal/model"
	"alertdesk_go/internal/service"
	applog "alertdesk_go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	registerFn   func(username, password, email string) (*model.User, error)
	loginFn      func(username, password string) (string, string, error)
	getProfileFn func(username string) (*model.User, error)
	logoutFn     func(token string) error
}

func (f *fakeUserService) Register(ctx context.Context, username, password, email string) (*model.User, error) {
	if f.registerFn == nil {
		return &model.User{ID: 1, Username: username, Email: email, Role: "USER"}, nil
	}
	return f.registerFn(username, password, email)
}

func (f *fakeUserService) Login(ctx context.Context, username, password string) (string, string, error) {
	if f.loginFn == nil {
		return "", "", service.ErrInvalidCredentials
	}
	return f.loginFn(username, password)
}

func (f *fakeUserService) GetProfile(ctx context.Context, username string) (*model.User, error) {
	if f.getProfileFn == nil {
		return nil, service.ErrUserNotFound
	}
	return f.getProfileFn(username)
}

func (f *fakeUserService) Logout(ctx context.Context, token string) error {
	if f.logoutFn == nil {
		return nil
	}
	return f.logoutFn(token)
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	applog.Init("error", "console", "")
	m.Run()
}

// withUser 模拟 AuthMiddleware 注入当前用户
func withUser(user any) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.ContextKeyUser, user)
		}
		c.Next()
	}
}

func doReq(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// envelope 对应 gin.H{"code","message","data"} 响应
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body=%s", w.Body.String())
	require.Equal(t, w.Code, env.Code)
	return env
}

func newUserRouter(svc service.UserService, current any) *gin.Engine {
	h := NewUserHandler(svc)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	authed := r.Group("/", withUser(current))
	authed.GET("/users/me", h.GetProfile)
	authed.POST("/auth/logout", h.Logout)
	return r
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		err       error
		wantCode  int
		wantEmail string
	}{
		{name: "analyst with email", body: `{"username":"analyst.kim","password":"s3cret!","email":"kim@soc.example.com"}`, wantCode: http.StatusCreated, wantEmail: "kim@soc.example.com"},
		{name: "email is optional", body: `{"username":"analyst.kim","password":"s3cret!"}`, wantCode: http.StatusCreated},
		{name: "malformed email", body: `{"username":"analyst.kim","password":"s3cret!","email":"kim-at-soc"}`, wantCode: http.StatusBadRequest},
		{name: "missing password", body: `{"username":"analyst.kim"}`, wantCode: http.StatusBadRequest},
		{name: "not json", body: `username=analyst.kim`, wantCode: http.StatusBadRequest},
		{name: "taken", body: `{"username":"analyst.kim","password":"s3cret!"}`, err: service.ErrUserAlreadyExists, wantCode: http.StatusConflict},
		{name: "store down", body: `{"username":"analyst.kim","password":"s3cret!"}`, err: service.ErrInternal, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEmail string
			svc := &fakeUserService{registerFn: func(username, password, email string) (*model.User, error) {
				gotEmail = email
				if tt.err != nil {
					return nil, tt.err
				}
				return &model.User{ID: 5, Username: username, Email: email, Role: "USER"}, nil
			}}

			w := doReq(newUserRouter(svc, nil), http.MethodPost, "/auth/register", tt.body)
			require.Equal(t, tt.wantCode, w.Code, "body=%s", w.Body.String())
			decodeEnvelope(t, w)
			if tt.wantCode == http.StatusCreated {
				require.Equal(t, tt.wantEmail, gotEmail)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc := &fakeUserService{loginFn: func(username, password string) (string, string, error) {
		switch {
		case username == "lead.ortiz" && password == "hunter2":
			return "access." + username, "refresh." + username, nil
		case username == "lead.ortiz":
			return "", "", service.ErrInvalidCredentials
		default:
			return "", "", fmt.Errorf("lookup %s: %w", username, service.ErrInternal)
		}
	}}
	r := newUserRouter(svc, nil)

	w := doReq(r, http.MethodPost, "/auth/login", `{"username":"lead.ortiz","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.Equal(t, "Login successful", env.Message)
	var tokens map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	require.Equal(t, map[string]string{"accessToken": "access.lead.ortiz", "refreshToken": "refresh.lead.ortiz"}, tokens)

	failures := []struct {
		body string
		code int
	}{
		{body: `{"username":"lead.ortiz","password":"nope"}`, code: http.StatusUnauthorized},
		{body: `{"username":"ghost","password":"whatever"}`, code: http.StatusInternalServerError},
		{body: `{"username":"lead.ortiz"}`, code: http.StatusBadRequest},
		{body: `[1,2,3]`, code: http.StatusBadRequest},
	}
	for _, f := range failures {
		w := doReq(r, http.MethodPost, "/auth/login", f.body)
		require.Equal(t, f.code, w.Code, "body %s", f.body)
		require.Empty(t, decodeEnvelope(t, w).Data)
	}
}

func TestGetProfile(t *testing.T) {
	joined := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	lead := &model.User{
		ID: 3, Username: "lead.ortiz", Email: "ortiz@soc.example.com",
		FirstName: "Ana", LastName: "Ortiz", Role: "ADMIN",
		CreatedAt: joined, UpdatedAt: joined,
	}

	tests := []struct {
		name     string
		current  any
		wantCode int
	}{
		{name: "admin", current: lead, wantCode: http.StatusOK},
		{name: "no user", current: nil, wantCode: http.StatusUnauthorized},
		{name: "wrong type", current: "lead.ortiz", wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doReq(newUserRouter(&fakeUserService{}, tt.current), http.MethodGet, "/users/me", "")
			require.Equal(t, tt.wantCode, w.Code, "body=%s", w.Body.String())
			env := decodeEnvelope(t, w)
			if tt.wantCode != http.StatusOK {
				return
			}
			var profile ProfileResponse
			require.NoError(t, json.Unmarshal(env.Data, &profile))
			require.Equal(t, uint(3), profile.ID)
			require.Equal(t, "ortiz@soc.example.com", profile.Email)
			require.Equal(t, lead.DisplayName(), profile.Name)
			require.Equal(t, "ADMIN", profile.Role)
			require.True(t, joined.Equal(profile.CreatedAt), "createdAt %v", profile.CreatedAt)
		})
	}
}

func TestLogout(t *testing.T) {
	var revoked []string
	svc := &fakeUserService{logoutFn: func(token string) error {
		if token == "broken.redis.token" {
			return service.ErrInternal
		}
		revoked = append(revoked, token)
		return nil
	}}
	r := newUserRouter(svc, &model.User{ID: 7, Username: "analyst.kim"})

	tests := []struct {
		header   string
		wantCode int
	}{
		{header: "Bearer abc.def.ghi", wantCode: http.StatusOK},
		{header: "bearer  jkl.mno.pqr", wantCode: http.StatusOK},
		{header: "", wantCode: http.StatusUnauthorized},
		{header: "Token abc.def.ghi", wantCode: http.StatusUnauthorized},
		{header: "Bearer broken.redis.token", wantCode: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		r.ServeHTTP(w, req)
		require.Equal(t, tt.wantCode, w.Code, "header %q", tt.header)
	}
	require.Equal(t, []string{"abc.def.ghi", "jkl.mno.pqr"}, revoked)
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{service.ErrInvalidInput, http.StatusBadRequest, "Invalid request parameters"},
		{fmt.Errorf("bind: %w", service.ErrInvalidInput), http.StatusBadRequest, "Invalid request parameters"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password"},
		{service.ErrUserAlreadyExists, http.StatusConflict, "User already exists"},
		{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{service.ErrAlertNotFound, http.StatusNotFound, "Alert not found"},
		{service.ErrCommentNotFound, http.StatusNotFound, "Comment not found"},
		{service.ErrCommentNotOwned, http.StatusForbidden, "Comment does not belong to user"},
		{service.ErrTagAlreadyExists, http.StatusConflict, "Tag already exists"},
		{service.ErrFeatureStoreUnavailable, http.StatusServiceUnavailable, "Feature flag store unavailable"},
		{errors.New("smtp relay exploded"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		status, message := mapServiceError(tt.err)
		if status != tt.status || message != tt.message {
			t.Errorf("mapServiceError(%v) = %d %q, want %d %q", tt.err, status, message, tt.status, tt.message)
		}
	}
}
