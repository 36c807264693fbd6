package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/auth"
	"github.com/drivelog/drivelog-be/internal/models"
	"github.com/drivelog/drivelog-be/internal/services"
)

type stubUserService struct {
	getByID func(id string) (models.User, error)
}

func (s *stubUserService) Register(username, email, phoneNumber, password string) (models.User, error) {
	return models.User{}, nil
}

func (s *stubUserService) AuthenticateUser(phoneNumber, password string) (models.User, error) {
	return models.User{}, nil
}

func (s *stubUserService) GetUserByID(id string) (models.User, error) {
	return s.getByID(id)
}

func (s *stubUserService) UpdateUser(id string, upd services.UserUpdate) (models.User, error) {
	return models.User{}, nil
}

func doGetMe(t *testing.T, svc services.UserServiceProvider) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewUserHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	ctx := context.WithValue(req.Context(), auth.UserClaimsKey, &auth.Claims{UserID: "u1", Username: "driver"})
	rec := httptest.NewRecorder()
	handler.GetMe(rec, req.WithContext(ctx))
	return rec
}

func TestGetMeErrorMapping(t *testing.T) {
	t.Run("missing user is not found", func(t *testing.T) {
		rec := doGetMe(t, &stubUserService{getByID: func(id string) (models.User, error) {
			return models.User{}, apperr.NotFound("user", id)
		}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("storage failure is a server error", func(t *testing.T) {
		rec := doGetMe(t, &stubUserService{getByID: func(id string) (models.User, error) {
			return models.User{}, errors.New("database is locked")
		}})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
