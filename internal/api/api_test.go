package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
	"github.com/pageza/recipeshare/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
}

type session struct {
	token string
	id    string
}

func setupTestAPI(t *testing.T, images service.IImageService) *testAPI {
	gin.SetMode(gin.TestMode)
	db := testhelpers.NewSQLiteDB(t)
	authSvc := service.NewAuthService(db, "test-secret", time.Hour)
	favorites := service.NewFavoritesCoordinator(db)

	services := Services{
		Auth:       authSvc,
		Recipes:    service.NewRecipeService(db, favorites, service.DefaultPaging()),
		Users:      service.NewUserService(db, service.DefaultPaging()),
		Categories: service.NewCategoryService(db),
	}
	if images != nil {
		services.Images = images
	}

	router := gin.New()
	SetupAPI(router, services, NewGuards(authSvc, db, nil), 10)
	return &testAPI{t: t, router: router, db: db}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *testAPI) register(name string) session {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    strings.ToLower(name) + "@example.com",
		"password": "biryani123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(a.t, w)
	user := body["user"].(map[string]interface{})
	return session{token: body["token"].(string), id: user["id"].(string)}
}

func recipeBody(name, category string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"image":       "https://images.example.com/biryani.jpg",
		"ingredients": "basmati rice, beef, yogurt, onions, spices",
		"steps":       "Marinate the beef, par-boil the rice, layer and cook on dum.",
		"category":    category,
		"time":        "45 mins",
	}
}

func (a *testAPI) createRecipe(s session, name, category string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/recipes", s.token, recipeBody(name, category))
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(a.t, w)["recipe"].(map[string]interface{})["id"].(string)
}

func TestAuthRoutes(t *testing.T) {
	a := setupTestAPI(t, nil)
	a.register("Aisha")

	w := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Aisha", "email": "aisha@example.com", "password": "biryani123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decode(t, w)["code"])

	w = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "aisha@example.com", "password": "biryani123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])

	w = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "aisha@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.Contains(t, body["fields"], "email")
}

func TestRecipeLifecycle(t *testing.T) {
	a := setupTestAPI(t, nil)
	alice := a.register("Aisha")
	bilal := a.register("Bilal")

	id := a.createRecipe(alice, "Beef Biryani", "dinner")

	w := a.do(http.MethodGet, "/api/v1/recipes/category/dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipes := decode(t, w)["recipes"].([]interface{})
	require.Len(t, recipes, 1)
	assert.Equal(t, "Aisha", recipes[0].(map[string]interface{})["author"].(map[string]interface{})["name"])

	w = a.do(http.MethodPost, "/api/v1/users/favorites/"+id, bilal.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = a.do(http.MethodPost, "/api/v1/users/favorites/"+id, bilal.token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_FAVORITED", decode(t, w)["code"])

	w = a.do(http.MethodGet, "/api/v1/recipes/favorites", bilal.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["recipes"], 1)

	w = a.do(http.MethodDelete, "/api/v1/recipes/"+id, bilal.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodDelete, "/api/v1/recipes/"+id, alice.token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, "/api/v1/recipes/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["code"])

	w = a.do(http.MethodGet, "/api/v1/users/"+bilal.id, bilal.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Empty(t, user["favorite_recipes"])
	assert.Equal(t, "bilal@example.com", user["email"])
}

func TestCreateRecipeRoute(t *testing.T) {
	a := setupTestAPI(t, nil)
	alice := a.register("Aisha")

	w := a.do(http.MethodPost, "/api/v1/recipes", "", recipeBody("Beef Biryani", "dinner"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/api/v1/recipes", alice.token, recipeBody("Eggs Benedict", "brunch"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "category")

	w = a.do(http.MethodPost, "/api/v1/recipes", alice.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLikeRoutes(t *testing.T) {
	a := setupTestAPI(t, nil)
	alice := a.register("Aisha")
	bilal := a.register("Bilal")
	id := a.createRecipe(alice, "Chicken Karahi", "dinner")

	w := a.do(http.MethodPost, "/api/v1/recipes/"+id+"/like", bilal.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["likes_count"])

	w = a.do(http.MethodPost, "/api/v1/recipes/"+id+"/like", bilal.token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_LIKED", decode(t, w)["code"])

	w = a.do(http.MethodDelete, "/api/v1/recipes/"+id+"/like", bilal.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["likes_count"])

	w = a.do(http.MethodDelete, "/api/v1/recipes/"+id+"/like", bilal.token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NOT_LIKED", decode(t, w)["code"])

	w = a.do(http.MethodPost, "/api/v1/recipes/not-a-uuid/like", bilal.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRoutes(t *testing.T) {
	a := setupTestAPI(t, nil)
	alice := a.register("Aisha")
	for i := 0; i < 25; i++ {
		a.createRecipe(alice, fmt.Sprintf("Recipe %02d", i), "lunch")
	}

	w := a.do(http.MethodGet, "/api/v1/recipes?page=3&limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["recipes"], 5)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["pages"])
	assert.Equal(t, float64(25), pagination["total"])

	w = a.do(http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["recipes"], 10)

	w = a.do(http.MethodGet, "/api/v1/recipes?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/v1/recipes?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/v1/recipes/search?q=recipe&limit=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["recipes"], 3)

	w = a.do(http.MethodGet, "/api/v1/recipes/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/v1/recipes/my-recipes?limit=50", alice.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["recipes"], 25)

	w = a.do(http.MethodGet, "/api/v1/recipes/my-recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserRoutes(t *testing.T) {
	a := setupTestAPI(t, nil)
	alice := a.register("Aisha")
	bilal := a.register("Bilal")

	w := a.do(http.MethodGet, "/api/v1/users", alice.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["users"], 2)

	w = a.do(http.MethodGet, "/api/v1/users/"+alice.id, bilal.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode(t, w)["user"], "email")

	w = a.do(http.MethodPut, "/api/v1/users/"+alice.id, bilal.token, map[string]string{"name": "Mallory"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPut, "/api/v1/users/"+alice.id, alice.token, map[string]string{"name": "Aisha Khan"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Aisha Khan", decode(t, w)["user"].(map[string]interface{})["name"])

	w = a.do(http.MethodDelete, "/api/v1/users/"+alice.id, alice.token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodPost, "/api/v1/recipes", alice.token, recipeBody("Beef Biryani", "dinner"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodGet, "/api/v1/users/"+alice.id, bilal.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["user"].(map[string]interface{})["is_active"])

	w = a.do(http.MethodGet, "/api/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCategoryRoutes(t *testing.T) {
	a := setupTestAPI(t, nil)
	alice := a.register("Aisha")
	a.createRecipe(alice, "Halwa Puri", "breakfast")

	w := a.do(http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	categories := decode(t, w)["categories"].([]interface{})
	require.Len(t, categories, 4)
	assert.Equal(t, "breakfast", categories[0].(map[string]interface{})["name"])

	w = a.do(http.MethodPost, "/api/v1/categories/breakfast/recount", alice.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["recipe_count"])

	w = a.do(http.MethodPost, "/api/v1/categories/brunch/recount", alice.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, "/api/v1/categories", alice.token, map[string]string{
		"name": "lunch", "display_name": "Lunch", "emoji": "🥪", "color": "#00AA00",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	display := "Brekkie"
	w = a.do(http.MethodPut, "/api/v1/categories/breakfast", alice.token, map[string]*string{"display_name": &display})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, display, decode(t, w)["category"].(map[string]interface{})["display_name"])

	w = a.do(http.MethodPut, "/api/v1/categories/breakfast", "", map[string]*string{"display_name": &display})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func multipartImage(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImageUploadRoute(t *testing.T) {
	images := &testhelpers.MockImageService{}
	a := setupTestAPI(t, images)
	alice := a.register("Aisha")

	png := []byte("\x89PNG\r\n\x1a\n")
	images.On("Upload", mock.Anything, uuid.MustParse(alice.id), png).
		Return(&types.ImageUploadResponse{URL: "https://cdn.example.com/images/x.png", Key: "images/x.png"}, nil).
		Once()

	body, contentType := multipartImage(t, "image", png)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+alice.token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "https://cdn.example.com/images/x.png", decode(t, w)["url"])

	body, contentType = multipartImage(t, "photo", []byte("data"))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+alice.token)
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	images.AssertExpectations(t)
	images.AssertNumberOfCalls(t, "Upload", 1)
}

func TestImageUploadValidationError(t *testing.T) {
	images := &testhelpers.MockImageService{}
	a := setupTestAPI(t, images)
	alice := a.register("Aisha")

	images.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &service.Error{Kind: service.KindValidationFailed, Message: "unsupported image type"})

	body, contentType := multipartImage(t, "image", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+alice.token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode(t, w)["code"])
}

func TestImageUploadDisabled(t *testing.T) {
	a := setupTestAPI(t, nil)
	alice := a.register("Aisha")

	w := a.do(http.MethodPost, "/api/v1/images", alice.token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
