package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitassist/internal/middleware"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoginChecker := NewMockloginChecker(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockLoginChecker)

	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		expectedStatusCode int
		mockIsLogged       bool
		mockIsLoggedCalled bool
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/a/login",
			method:             "POST",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "BodyfatEstimateAllowedWithoutToken",
			path:               "/bodyfat/estimate",
			method:             "POST",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "NotAllowedPathWithoutToken",
			path:               "/profile",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/progress",
			method:             "POST",
			token:              "valid-token",
			expectedStatusCode: http.StatusOK,
			mockIsLogged:       true,
			mockIsLoggedCalled: true,
		},
		{
			name:               "InvalidToken",
			path:               "/progress",
			method:             "POST",
			token:              "invalid-token",
			expectedStatusCode: http.StatusUnauthorized,
			mockIsLogged:       false,
			mockIsLoggedCalled: true,
		},
		{
			name:               "OptionsRequestAlwaysAllowed",
			path:               "/progress",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
	}

	sessionUserID := uuid.New()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.mockIsLoggedCalled {
				mockLoginChecker.EXPECT().
					IsLogged(gomock.Any(), tc.token).
					Return(tc.mockIsLogged, nil)
				if tc.mockIsLogged {
					mockLoginChecker.EXPECT().
						SessionUserID(gomock.Any(), tc.token).
						Return(sessionUserID, nil)
				}
			}

			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("X-FITASSIST-TOKEN", tc.token)
			}

			rr := httptest.NewRecorder()
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.mockIsLogged {
					gotUserID, ok := middleware.UserIDFromContext(r.Context())
					assert.True(t, ok)
					assert.Equal(t, sessionUserID, gotUserID)
				}
				w.WriteHeader(http.StatusOK)
			})

			authMiddleware.AuthCheck()(nextHandler).ServeHTTP(rr, req)
			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}
