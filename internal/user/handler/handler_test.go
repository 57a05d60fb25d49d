package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"dojohub/internal/account"
	"dojohub/internal/captcha"
	"dojohub/internal/dojo"
	"dojohub/internal/email"
	profilestore "dojohub/internal/profile/store"
	"dojohub/internal/user"
	"dojohub/internal/user/handler"
	"dojohub/internal/user/service"
	userstore "dojohub/internal/user/store"
	"dojohub/pkg/domain"
	"dojohub/pkg/testutil"
)

type UserHandlerSuite struct {
	suite.Suite
	users  *userstore.MemoryUserStore
	router chi.Router
}

func (s *UserHandlerSuite) SetupTest() {
	s.users = userstore.NewMemoryUserStore()
	resets := userstore.NewMemoryResetStore()
	accounts := account.NewService(s.users, resets, slog.Default())
	svc := service.NewService(
		s.users, accounts, profilestore.NewMemory(), dojo.NewMemory(),
		captcha.AlwaysPass{}, email.Noop{}, nil,
		service.Config{ResetPeriod: 24 * time.Hour},
		slog.Default(),
	)
	s.router = chi.NewRouter()
	handler.New(svc, slog.Default()).Register(s.router)
}

func TestUserHandlerSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerSuite))
}

func (s *UserHandlerSuite) do(method, path string, viewer domain.UserID, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := testutil.WithUserID(httptest.NewRequest(method, path, &buf), viewer)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *UserHandlerSuite) register(nick, emailAddr string) *user.User {
	rec := s.do(http.MethodPost, "/users/register", domain.UserID{}, service.RegisterRequest{
		Name:            "Test User",
		Nick:            nick,
		Email:           emailAddr,
		Password:        "s3cret-pw",
		CaptchaResponse: "token",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var result account.RegisterResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.Require().True(result.OK)
	return result.User
}

func (s *UserHandlerSuite) TestRegisterAndLoad() {
	registered := s.register("ada", "ada@example.com")

	s.Run("load requires auth", func() {
		rec := s.do(http.MethodGet, "/users/"+registered.ID.String(), domain.UserID{}, nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("load returns the user", func() {
		rec := s.do(http.MethodGet, "/users/"+registered.ID.String(), registered.ID, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var loaded user.User
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &loaded))
		s.Equal("ada", loaded.Nick)
	})

	s.Run("duplicate nick conflicts", func() {
		rec := s.do(http.MethodPost, "/users/register", domain.UserID{}, service.RegisterRequest{
			Nick: "ada", Email: "other@example.com",
			Password: "s3cret-pw", CaptchaResponse: "token",
		})
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *UserHandlerSuite) TestListAndSearch() {
	ada := s.register("ada", "ada@example.com")
	grace := s.register("grace", "grace@example.com")

	s.Run("list returns the named users", func() {
		rec := s.do(http.MethodPost, "/users/list", ada.ID, map[string]any{
			"ids": []string{ada.ID.String(), grace.ID.String()},
		})
		s.Require().Equal(http.StatusOK, rec.Code)

		var users []user.User
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &users))
		s.Len(users, 2)
	})

	s.Run("search matches by email substring", func() {
		rec := s.do(http.MethodGet, "/users/search?email=example", ada.ID, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var matches []service.EmailMatch
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &matches))
		s.Len(matches, 2)
	})

	s.Run("search requires a query", func() {
		rec := s.do(http.MethodGet, "/users/search", ada.ID, nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *UserHandlerSuite) TestPromote() {
	registered := s.register("ada", "ada@example.com")

	rec := s.do(http.MethodPost, "/users/"+registered.ID.String()+"/promote", registered.ID,
		map[string]any{"roles": []string{"cdf-admin"}})
	s.Require().Equal(http.StatusOK, rec.Code)

	var promoted user.User
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &promoted))
	s.Contains(promoted.Roles, "cdf-admin")
	s.Contains(promoted.Roles, "basic-user")
}

func (s *UserHandlerSuite) TestInitUserTypes() {
	rec := s.do(http.MethodGet, "/users/init-user-types", domain.UserID{}, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var types []domain.InitUserType
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &types))
	s.Len(types, 5)
}

func (s *UserHandlerSuite) TestIsChampion() {
	registered := s.register("champ", "champ@example.com")

	rec := s.do(http.MethodGet, "/users/"+registered.ID.String()+"/is-champion", registered.ID, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var status service.ChampionStatus
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &status))
	s.False(status.IsChampion)
}

func (s *UserHandlerSuite) TestResetFlow() {
	s.register("ada", "ada@example.com")

	rec := s.do(http.MethodPost, "/users/reset-password", domain.UserID{},
		service.CreateResetRequest{Email: "ada@example.com"})
	s.Require().Equal(http.StatusOK, rec.Code)

	s.Run("executing an unknown token reports why", func() {
		rec := s.do(http.MethodPost, "/users/execute-reset", domain.UserID{}, map[string]any{
			"token":    domain.NewResetID().String(),
			"password": "new-password",
			"repeat":   "new-password",
		})
		s.Require().Equal(http.StatusOK, rec.Code)

		var outcome service.ResetOutcome
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &outcome))
		s.False(outcome.OK)
		s.Equal("Reset not found.", outcome.Why)
	})
}
