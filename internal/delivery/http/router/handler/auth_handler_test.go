package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"authd/config"
	"authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/router"
	"authd/internal/delivery/http/router/handler"
	"authd/internal/delivery/http/validator"
	"authd/internal/infra/auth"
	"authd/internal/infra/persistence/memory"
	"authd/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testEnvelope mirrors the response envelope for assertions.
type testEnvelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

// newTestServer wires the full HTTP stack against the in-memory repository.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Token = "test_token_secret_key_very_long_for_testing"
	cfg.Auth = &config.AuthConfig{BcryptCost: bcrypt.MinCost, TokenTTL: time.Hour}
	cfg.PasswordStrength = &config.PasswordStrengthConfig{MinLength: 8}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := memory.NewUserRepository()
	hasher := auth.NewBcryptHasher(cfg)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	uc := impl.NewAuthService(users, hasher, tokens, logger)

	e := echo.New()
	e.Validator = validator.New()
	errMW := middleware.NewErrorMiddleware(logger)
	e.HTTPErrorHandler = errMW.HandleHTTPError

	r := router.NewRouter(router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(uc, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(tokens),
	})
	r.RegisterRoutes(e)

	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body, bearer string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec, env
}

func registerAlice(t *testing.T, e *echo.Echo) (id, token string) {
	t.Helper()

	rec, env := doJSON(t, e, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","username":"alice","password":"Secret123!","fullName":"Alice Example"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	return data.User.ID, data.Token
}

func TestAuthHandler_Register(t *testing.T) {
	e := newTestServer(t)

	rec, env := doJSON(t, e, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","username":"alice","password":"Secret123!"}`, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.Code)

	var data struct {
		User struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			Username string `json:"username"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.User.ID)
	assert.Equal(t, "a@x.com", data.User.Email)
	assert.Equal(t, "alice", data.User.Username)
	assert.NotEmpty(t, data.Token)

	// The password hash never appears in the response body.
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	assert.NotContains(t, rec.Body.String(), "Secret123!")
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newTestServer(t)
	registerAlice(t, e)

	rec, env := doJSON(t, e, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","username":"alice2","password":"Another123!"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "USER_ALREADY_EXISTS", env.Error.Code)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	e := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "bad email", body: `{"email":"not-an-email","username":"alice","password":"Secret123!"}`},
		{name: "short username", body: `{"email":"a@x.com","username":"al","password":"Secret123!"}`},
		{name: "short password", body: `{"email":"a@x.com","username":"alice","password":"short"}`},
		{name: "missing fields", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, e, http.MethodPost, "/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := newTestServer(t)
	id, _ := registerAlice(t, e)

	rec, env := doJSON(t, e, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"Secret123!"}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, id, data.User.ID)
	assert.NotEmpty(t, data.Token)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	e := newTestServer(t)
	registerAlice(t, e)

	// Wrong password and unknown email return the same error shape.
	recWrong, envWrong := doJSON(t, e, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"WrongPass1!"}`, "")
	recUnknown, envUnknown := doJSON(t, e, http.MethodPost, "/auth/login",
		`{"email":"nobody@x.com","password":"Secret123!"}`, "")

	assert.Equal(t, http.StatusBadRequest, recWrong.Code)
	assert.Equal(t, http.StatusBadRequest, recUnknown.Code)
	require.NotNil(t, envWrong.Error)
	require.NotNil(t, envUnknown.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", envWrong.Error.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", envUnknown.Error.Code)
	assert.Equal(t, envWrong.Message, envUnknown.Message)
}

func TestAuthHandler_Verify(t *testing.T) {
	e := newTestServer(t)
	id, token := registerAlice(t, e)

	rec, env := doJSON(t, e, http.MethodPost, "/auth/verify", "", token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, id, data.User.ID)
	assert.NotEmpty(t, data.Token)
}

func TestAuthHandler_Verify_BodyToken(t *testing.T) {
	e := newTestServer(t)
	id, token := registerAlice(t, e)

	rec, env := doJSON(t, e, http.MethodPost, "/auth/verify", `{"token":"`+token+`"}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, id, data.User.ID)
}

func TestAuthHandler_Verify_InvalidToken(t *testing.T) {
	e := newTestServer(t)

	rec, env := doJSON(t, e, http.MethodPost, "/auth/verify", "", "not.a.token")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
}

func TestAuthHandler_Verify_MissingToken(t *testing.T) {
	e := newTestServer(t)

	rec, env := doJSON(t, e, http.MethodPost, "/auth/verify", `{}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	e := newTestServer(t)
	_, token := registerAlice(t, e)

	rec, env := doJSON(t, e, http.MethodPost, "/auth/password",
		`{"oldPassword":"Secret123!","newPassword":"Renewed456!","repeatNewPassword":"Renewed456!"}`, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	// The old password no longer logs in; the new one does.
	recOld, _ := doJSON(t, e, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"Secret123!"}`, "")
	assert.Equal(t, http.StatusBadRequest, recOld.Code)

	recNew, _ := doJSON(t, e, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"Renewed456!"}`, "")
	assert.Equal(t, http.StatusOK, recNew.Code)
}

func TestAuthHandler_ChangePassword_RepeatMismatch(t *testing.T) {
	e := newTestServer(t)
	_, token := registerAlice(t, e)

	rec, env := doJSON(t, e, http.MethodPost, "/auth/password",
		`{"oldPassword":"Secret123!","newPassword":"Renewed456!","repeatNewPassword":"Different789!"}`, token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestAuthHandler_ChangePassword_MissingBearer(t *testing.T) {
	e := newTestServer(t)

	rec, _ := doJSON(t, e, http.MethodPost, "/auth/password",
		`{"oldPassword":"Secret123!","newPassword":"Renewed456!","repeatNewPassword":"Renewed456!"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	e := newTestServer(t)
	id, token := registerAlice(t, e)

	rec, env := doJSON(t, e, http.MethodPatch, "/users/"+id,
		`{"fullName":"Alice B. Example","bio":"hello"}`, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data struct {
		ID     string         `json:"id"`
		Fields map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, id, data.ID)
	assert.Equal(t, map[string]any{"full_name": "Alice B. Example", "bio": "hello"}, data.Fields)
}

func TestAuthHandler_UpdateProfile_Unauthenticated(t *testing.T) {
	e := newTestServer(t)
	id, _ := registerAlice(t, e)

	rec, _ := doJSON(t, e, http.MethodPatch, "/users/"+id, `{"bio":"hello"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_UpdateProfile_UnknownUser(t *testing.T) {
	e := newTestServer(t)
	_, token := registerAlice(t, e)

	rec, env := doJSON(t, e, http.MethodPatch, "/users/0198c5e4-0000-7000-8000-000000000000",
		`{"bio":"hello"}`, token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "USER_NOT_FOUND", env.Error.Code)
}

func TestAuthHandler_UpdateProfile_InvalidID(t *testing.T) {
	e := newTestServer(t)
	_, token := registerAlice(t, e)

	rec, env := doJSON(t, e, http.MethodPatch, "/users/not-a-uuid", `{"bio":"hello"}`, token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestAuthHandler_UpdateProfile_EmptyBody(t *testing.T) {
	e := newTestServer(t)
	id, token := registerAlice(t, e)

	rec, env := doJSON(t, e, http.MethodPatch, "/users/"+id, `{}`, token)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestHealthCheck(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
