package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/tablegate/internal/auth/domain"
	"github.com/allisson/tablegate/internal/auth/http/dto"
)

func performLogin(t *testing.T, uc *mockAuthUseCase, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewTokenHandler(uc, testLogger())
	router := gin.New()
	router.POST("/v1/token", handler.LoginHandler)

	req := httptest.NewRequest(http.MethodPost, "/v1/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTokenHandler_LoginHandler(t *testing.T) {
	t.Run("Success_ValidCredentials", func(t *testing.T) {
		uc := &mockAuthUseCase{}
		expiresAt := time.Now().UTC().Add(15 * time.Minute).Truncate(time.Second)
		uc.On("Login", mock.Anything, "service-account", "correct horse battery staple").
			Return(&authDomain.TokenOutput{
				AccessToken: "signed-token",
				TokenType:   "Bearer",
				ExpiresAt:   expiresAt,
			}, nil).
			Once()

		form := url.Values{}
		form.Set("username", "service-account")
		form.Set("password", "correct horse battery staple")

		w := performLogin(t, uc, form)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.TokenResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, expiresAt, resp.ExpiresAt.UTC())
		uc.AssertExpectations(t)
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		uc := &mockAuthUseCase{}
		uc.On("Login", mock.Anything, "service-account", "wrong").
			Return(nil, authDomain.ErrInvalidCredentials).
			Once()

		form := url.Values{}
		form.Set("username", "service-account")
		form.Set("password", "wrong")

		w := performLogin(t, uc, form)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_MissingFields", func(t *testing.T) {
		uc := &mockAuthUseCase{}

		form := url.Values{}
		form.Set("username", "service-account")

		w := performLogin(t, uc, form)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Login")
	})

	t.Run("Error_BlankUsername", func(t *testing.T) {
		uc := &mockAuthUseCase{}

		form := url.Values{}
		form.Set("username", "   ")
		form.Set("password", "whatever")

		w := performLogin(t, uc, form)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Login")
	})
}
