package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pilateslab/catalog/internal/auth"
	"github.com/pilateslab/catalog/internal/exercises"
	"github.com/pilateslab/catalog/internal/users"
)

type stubSource struct {
	grid [][]string
	err  error
}

func (s *stubSource) ReadGrid(context.Context) ([][]string, error) {
	return s.grid, s.err
}

type testEnv struct {
	handler   http.Handler
	users     *users.Service
	exercises *exercises.Service
	issuer    *auth.TokenIssuer
	source    *stubSource
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&users.User{}, &exercises.Exercise{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	usersService, err := users.NewService(users.ServiceConfig{
		Database:   db,
		IDProvider: users.NewUUIDProvider(),
	})
	if err != nil {
		t.Fatalf("failed to build users service: %v", err)
	}

	source := &stubSource{}
	exercisesService, err := exercises.NewService(exercises.ServiceConfig{
		Database:   db,
		IDProvider: exercises.NewUUIDProvider(),
		Source:     source,
		Logger:     zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to build exercises service: %v", err)
	}

	issuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte("router-test-secret"),
		Issuer:        "catalog-auth",
		Audience:      "catalog-api",
		TokenTTL:      time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to build token issuer: %v", err)
	}

	handler, err := NewHTTPHandler(Dependencies{
		TokenManager:     issuer,
		UsersService:     usersService,
		ExercisesService: exercisesService,
		Logger:           zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	return &testEnv{
		handler:   handler,
		users:     usersService,
		exercises: exercisesService,
		issuer:    issuer,
		source:    source,
	}
}

func (env *testEnv) createUser(t *testing.T, email, password, role string) users.User {
	t.Helper()
	user, err := env.users.Create(context.Background(), email, password, role)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func (env *testEnv) tokenFor(t *testing.T, user users.User) string {
	t.Helper()
	token, _, err := env.issuer.IssueToken(context.Background(), user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	env.handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(recorder.Body.Bytes(), &value); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return value
}
