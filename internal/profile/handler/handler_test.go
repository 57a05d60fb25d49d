package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"dojohub/internal/dojo"
	"dojohub/internal/profile"
	"dojohub/internal/profile/handler"
	"dojohub/internal/profile/service"
	"dojohub/internal/profile/store"
	"dojohub/pkg/domain"
	"dojohub/pkg/testutil"
)

type ProfileHandlerSuite struct {
	suite.Suite
	profiles *store.Memory
	service  *service.Service
	router   chi.Router
}

func (s *ProfileHandlerSuite) SetupTest() {
	s.profiles = store.NewMemory()
	s.service = service.NewService(s.profiles, dojo.NewMemory(), nil, slog.Default())
	s.router = chi.NewRouter()
	handler.New(s.service, slog.Default()).Register(s.router)
}

func TestProfileHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProfileHandlerSuite))
}

func (s *ProfileHandlerSuite) do(method, path string, viewer domain.UserID, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := testutil.WithUserID(httptest.NewRequest(method, path, &buf), viewer)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ProfileHandlerSuite) TestCreateRequiresAuth() {
	var anon domain.UserID
	rec := s.do(http.MethodPost, "/profiles", anon, profile.Profile{Name: "Ada"})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ProfileHandlerSuite) TestCreateAndResolve() {
	owner := domain.NewUserID()
	rec := s.do(http.MethodPost, "/profiles", owner, profile.Profile{
		UserType: domain.UserTypeMentor,
		Name:     "Ada",
		Email:    "ada@example.com",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var created profile.View
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Equal(true, created[profile.FieldOwnProfileFlag])
	s.Equal("ada@example.com", created[profile.FieldEmail])

	s.Run("stranger gets the redacted view", func() {
		rec := s.do(http.MethodGet, "/profiles/"+owner.String(), domain.NewUserID(), nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var view profile.View
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &view))
		s.Equal("Ada", view[profile.FieldName])
		s.NotContains(view, profile.FieldEmail)
	})

	s.Run("anonymous viewer is allowed", func() {
		var anon domain.UserID
		rec := s.do(http.MethodGet, "/profiles/"+owner.String(), anon, nil)
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *ProfileHandlerSuite) TestResolveErrors() {
	s.Run("malformed user id", func() {
		rec := s.do(http.MethodGet, "/profiles/not-a-uuid", domain.NewUserID(), nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown profile", func() {
		rec := s.do(http.MethodGet, "/profiles/"+domain.NewUserID().String(), domain.NewUserID(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ProfileHandlerSuite) TestYouthEndpoints() {
	guardian := domain.NewUserID()
	rec := s.do(http.MethodPost, "/profiles", guardian, profile.Profile{
		UserType: domain.UserTypeParentGuardian,
		Name:     "Parent",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/profiles/youth", guardian, service.Submission{
		Name:      "Linus",
		UserTypes: []string{"attendee-u13"},
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var saved profile.Profile
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &saved))
	s.Equal(domain.UserTypeAttendeeU13, saved.UserType)

	s.Run("update by the guardian", func() {
		rec := s.do(http.MethodPut, "/profiles/youth", guardian, service.Submission{
			UserID:  saved.UserID,
			Name:    "Linus T",
			Parents: []domain.UserID{guardian},
		})
		s.Require().Equal(http.StatusOK, rec.Code)
	})

	s.Run("update by a stranger is rejected", func() {
		rec := s.do(http.MethodPut, "/profiles/youth", domain.NewUserID(), service.Submission{
			UserID:  saved.UserID,
			Parents: []domain.UserID{guardian},
		})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}
