package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-study-keeper/internal/service"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setup      func(f *fixture)
		wantStatus int
		wantToken  string
		wantKind   string
	}{
		{
			name: "success returns bearer token",
			body: models.User{Email: "ana@uni.edu", Password: "secreto1"},
			setup: func(f *fixture) {
				f.auth.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).Return(models.User{UserID: 7, Email: "ana@uni.edu"}, nil)
				f.auth.EXPECT().CreateToken(gomock.Any(), models.User{UserID: 7, Email: "ana@uni.edu"}).Return(models.Token{SignedString: "jwt"}, nil)
			},
			wantStatus: http.StatusOK,
			wantToken:  "Bearer jwt",
		},
		{
			name: "email taken",
			body: models.User{Email: "ana@uni.edu", Password: "secreto1"},
			setup: func(f *fixture) {
				f.auth.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrLoginAlreadyExists)
			},
			wantStatus: http.StatusConflict,
			wantKind:   "conflict",
		},
		{
			name: "invalid email",
			body: models.User{Email: "ana@", Password: "secreto1"},
			setup: func(f *fixture) {
				f.auth.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).
					Return(models.User{}, &validators.FieldError{Field: "email", Message: "is not a valid e-mail", Err: validators.ErrInvalidEmail})
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "validation",
		},
		{
			name:       "broken json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "bad_request",
		},
		{
			name:       "unknown field",
			body:       `{"email":"a@b.co","password":"secreto1","admin":true}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty body",
			body:       nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "token creation fails",
			body: models.User{Email: "ana@uni.edu", Password: "secreto1"},
			setup: func(f *fixture) {
				f.auth.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).Return(models.User{UserID: 7}, nil)
				f.auth.EXPECT().CreateToken(gomock.Any(), gomock.Any()).Return(models.Token{}, service.ErrTokenCreationFailed)
			},
			wantStatus: http.StatusInternalServerError,
			wantKind:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			rec := f.do(t, http.MethodPost, "/api/user/register", tt.body, nil)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantToken, rec.Header().Get("Authorization"))
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, decodeBody[models.ErrorResponse](t, rec).Kind)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		loginErr   error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "wrong password", loginErr: service.ErrWrongPassword, wantStatus: http.StatusUnauthorized},
		{name: "unknown user looks like wrong password", loginErr: store.ErrNoUserWasFound, wantStatus: http.StatusUnauthorized},
		{name: "empty fields", loginErr: service.ErrInvalidDataProvided, wantStatus: http.StatusBadRequest},
		{name: "storage down", loginErr: store.ErrTransient, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			user := models.User{UserID: 3, Email: "ana@uni.edu"}
			if tt.loginErr != nil {
				f.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.User{}, tt.loginErr)
			} else {
				f.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(user, nil)
				f.auth.EXPECT().CreateToken(gomock.Any(), user).Return(models.Token{SignedString: "jwt"}, nil)
			}

			rec := f.do(t, http.MethodPost, "/api/user/login", models.User{Email: "ana@uni.edu", Password: "secreto1"}, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.loginErr == nil {
				assert.Equal(t, "Bearer jwt", rec.Header().Get("Authorization"))
			}
		})
	}
}

func TestLogout_SignsOutAndDropsSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/dashboard", nil, authed())
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, f.sessions.Len())

	f.auth.EXPECT().SignOut(gomock.Any(), testUser).Return(nil)
	rec = f.do(t, http.MethodPost, "/api/user/logout", nil, authed())

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestPasswordReset_AnonymousRequest(t *testing.T) {
	f := newFixture(t)
	f.auth.EXPECT().SendPasswordReset(gomock.Any(), "ana@uni.edu").Return(nil)

	rec := f.do(t, http.MethodPost, "/api/user/password-reset", models.PasswordReset{Email: " ana@uni.edu "}, nil)

	require.Equal(t, http.StatusAccepted, rec.Code)
	resp := decodeBody[models.MutationResponse](t, rec)
	assert.Equal(t, "committed", resp.Status)
	assert.NotEmpty(t, resp.Message)
}

func TestPasswordReset_InvalidEmail(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/user/password-reset", models.PasswordReset{Email: "nope"}, nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "email", decodeBody[models.ErrorResponse](t, rec).Field)
}

func TestPasswordResetConfirm(t *testing.T) {
	f := newFixture(t)
	f.auth.EXPECT().ResetPassword(gomock.Any(), "reset-jwt", "nuevo123").Return(nil)
	f.auth.EXPECT().ResetPassword(gomock.Any(), "old-jwt", "nuevo123").Return(service.ErrTokenIsExpiredOrInvalid)

	rec := f.do(t, http.MethodPost, "/api/user/password-reset/confirm", models.PasswordResetConfirm{Token: "reset-jwt", NewPassword: "nuevo123"}, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/user/password-reset/confirm", models.PasswordResetConfirm{Token: "old-jwt", NewPassword: "nuevo123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
