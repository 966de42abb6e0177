package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
	"github.com/pageza/recipeshare/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*gorm.DB, *service.AuthService) {
	db := testhelpers.NewSQLiteDB(t)
	return db, service.NewAuthService(db, "test-secret", time.Hour)
}

func TestRegister(t *testing.T) {
	_, authSvc := setupAuthTest(t)

	resp, err := authSvc.Register(context.Background(), &types.RegisterRequest{
		Name:     " Aisha ",
		Email:    "Aisha@Example.com",
		Password: "biryani123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Aisha", resp.User.Name)
	assert.Equal(t, "aisha@example.com", resp.User.Email)
	assert.True(t, resp.User.IsActive)
	assert.Empty(t, resp.User.CreatedRecipes)
	assert.Empty(t, resp.User.FavoriteRecipes)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(resp.User.PasswordHash), []byte("biryani123")))

	claims, err := authSvc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, authSvc := setupAuthTest(t)
	req := &types.RegisterRequest{Name: "Aisha", Email: "aisha@example.com", Password: "biryani123"}

	_, err := authSvc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = authSvc.Register(context.Background(), &types.RegisterRequest{Name: "Other", Email: "AISHA@example.com", Password: "karahi123"})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	_, authSvc := setupAuthTest(t)

	tests := []struct {
		name  string
		req   types.RegisterRequest
		field string
	}{
		{"missing name", types.RegisterRequest{Email: "a@example.com", Password: "secret1"}, "name"},
		{"bad email", types.RegisterRequest{Name: "Aisha", Email: "nope", Password: "secret1"}, "email"},
		{"short password", types.RegisterRequest{Name: "Aisha", Email: "a@example.com", Password: "abc"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := authSvc.Register(context.Background(), &req)
			require.ErrorIs(t, err, service.ErrValidationFailed)
			var e *service.Error
			require.ErrorAs(t, err, &e)
			assert.Contains(t, e.Fields, tt.field)
		})
	}
}

func TestLogin(t *testing.T) {
	db, authSvc := setupAuthTest(t)
	reg, err := authSvc.Register(context.Background(), &types.RegisterRequest{Name: "Aisha", Email: "aisha@example.com", Password: "biryani123"})
	require.NoError(t, err)

	resp, err := authSvc.Login(context.Background(), &types.LoginRequest{Email: "aisha@example.com", Password: "biryani123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	_, err = authSvc.Login(context.Background(), &types.LoginRequest{Email: "aisha@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = authSvc.Login(context.Background(), &types.LoginRequest{Email: "nobody@example.com", Password: "biryani123"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	users := service.NewUserService(db, service.DefaultPaging())
	require.NoError(t, users.DeactivateUser(context.Background(), reg.User.ID, reg.User.ID))
	_, err = authSvc.Login(context.Background(), &types.LoginRequest{Email: "aisha@example.com", Password: "biryani123"})
	assert.ErrorIs(t, err, service.ErrAccessDenied)
}

func TestValidateToken(t *testing.T) {
	_, authSvc := setupAuthTest(t)
	userID := uuid.New()

	token, err := authSvc.GenerateToken(userID)
	require.NoError(t, err)
	claims, err := authSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)

	other := service.NewAuthService(nil, "another-secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = authSvc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestValidateTokenExpired(t *testing.T) {
	_, authSvc := setupAuthTest(t)

	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: uuid.New(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = authSvc.ValidateToken(expired)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	_, authSvc := setupAuthTest(t)

	claims := &types.TokenClaims{UserID: uuid.New()}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = authSvc.ValidateToken(unsigned)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
