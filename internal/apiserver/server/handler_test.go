package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"kitchen-server/internal/apiserver/auth"
	"kitchen-server/internal/shared/model"
	"kitchen-server/internal/shared/storage"
)

// mockStore 实现 storage.PersistentStore 的内存版本
type mockStore struct {
	users    map[string]*model.User
	recipes  map[string]*model.Recipe
	messages []*model.SupportMessage
}

func newMockStore() *mockStore {
	return &mockStore{
		users:   make(map[string]*model.User),
		recipes: make(map[string]*model.Recipe),
	}
}

func (m *mockStore) CreateUser(ctx context.Context, user *model.User) error {
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrDuplicate
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.users[username], nil
}

func (m *mockStore) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	m.recipes[recipe.ID] = recipe
	return nil
}

func (m *mockStore) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	return m.recipes[id], nil
}

func (m *mockStore) ListRecipes(ctx context.Context, limit int) ([]*model.Recipe, error) {
	out := []*model.Recipe{}
	for _, r := range m.recipes {
		if len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) ListRecipesByOwner(ctx context.Context, owner string, limit int) ([]*model.Recipe, error) {
	out := []*model.Recipe{}
	for _, r := range m.recipes {
		if r.Owner == owner && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateRecipe(ctx context.Context, id string, upd *model.RecipeUpdate) error {
	r, ok := m.recipes[id]
	if !ok {
		return storage.ErrNotFound
	}
	if upd.Origin != nil {
		r.Origin = *upd.Origin
	}
	if upd.FoodName != nil {
		r.FoodName = *upd.FoodName
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (m *mockStore) DeleteRecipe(ctx context.Context, id string) error {
	if _, ok := m.recipes[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.recipes, id)
	return nil
}

func (m *mockStore) CreateSupportMessage(ctx context.Context, msg *model.SupportMessage) error {
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockStore) Close() error { return nil }

var _ storage.PersistentStore = (*mockStore)(nil)

var testAuthCfg = auth.Config{JWTSecret: "router-test-secret", AccessTokenTTL: 30 * time.Minute}

// TestRouter 通过完整路由链验证注册 → 登录 → 认证访问的端到端行为
//
// NewMetrics 使用全局 Prometheus 注册表，Handler 在整个测试二进制中
// 只能创建一次，所以所有路由行为在一个测试里按子测试组织。
func TestRouter(t *testing.T) {
	store := newMockStore()
	h := NewHandler(store, testAuthCfg, []string{"http://localhost:3000"})
	router := h.Router()

	do := func(method, path, body, contentType, token string) *httptest.ResponseRecorder {
		var r *http.Request
		if body == "" {
			r = httptest.NewRequest(method, path, nil)
		} else {
			r = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		if contentType != "" {
			r.Header.Set("Content-Type", contentType)
		}
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		return w
	}

	t.Run("health", func(t *testing.T) {
		w := do("GET", "/health", "", "", "")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("signup", func(t *testing.T) {
		w := do("POST", "/user/", `{"username":"alice","password":"pw123","email":"a@x.com"}`, "application/json", "")
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
		}
		if strings.Contains(w.Body.String(), "hashed_password") {
			t.Error("hashed_password leaked")
		}
	})

	var token string
	t.Run("login", func(t *testing.T) {
		form := url.Values{"username": {"alice"}, "password": {"pw123"}}
		w := do("POST", "/token", form.Encode(), "application/x-www-form-urlencoded", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		var resp struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.TokenType != "bearer" || resp.AccessToken == "" {
			t.Fatalf("unexpected token response: %+v", resp)
		}
		token = resp.AccessToken
	})

	t.Run("login bad credentials", func(t *testing.T) {
		form := url.Values{"username": {"alice"}, "password": {"wrong"}}
		w := do("POST", "/token", form.Encode(), "application/x-www-form-urlencoded", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
		if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
			t.Errorf("WWW-Authenticate = %q, want %q", got, "Bearer")
		}
	})

	t.Run("me", func(t *testing.T) {
		w := do("GET", "/users/me", "", "", token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		var raw map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &raw)
		if raw["username"] != "alice" {
			t.Errorf("username = %v", raw["username"])
		}
	})

	t.Run("me without token", func(t *testing.T) {
		w := do("GET", "/users/me", "", "", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
		if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
			t.Errorf("WWW-Authenticate = %q, want %q", got, "Bearer")
		}
	})

	t.Run("me with expired token", func(t *testing.T) {
		expiredCfg := testAuthCfg
		expiredCfg.AccessTokenTTL = -time.Second
		expired, err := auth.GenerateAccessToken(expiredCfg, "alice")
		if err != nil {
			t.Fatalf("GenerateAccessToken: %v", err)
		}
		w := do("GET", "/users/me", "", "", expired)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
		if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
			t.Errorf("WWW-Authenticate = %q, want %q", got, "Bearer")
		}
	})

	var recipeID string
	t.Run("create recipe", func(t *testing.T) {
		w := do("POST", "/recipes/", `{"food_name":"Jollof Rice","origin":"Nigeria"}`, "application/json", token)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
		}
		var got model.Recipe
		json.Unmarshal(w.Body.Bytes(), &got)
		if got.Owner != "alice" {
			t.Errorf("owner = %q, want %q", got.Owner, "alice")
		}
		recipeID = got.ID
	})

	t.Run("create recipe without token", func(t *testing.T) {
		w := do("POST", "/recipes/", `{"food_name":"x"}`, "application/json", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("read recipes public", func(t *testing.T) {
		w := do("GET", "/recipes/", "", "", "")
		if w.Code != http.StatusOK {
			t.Errorf("list: status = %d, want 200", w.Code)
		}
		w = do("GET", "/recipes/"+recipeID, "", "", "")
		if w.Code != http.StatusOK {
			t.Errorf("get: status = %d, want 200", w.Code)
		}
	})

	t.Run("update recipe", func(t *testing.T) {
		w := do("PUT", "/recipes/"+recipeID, `{"origin":"West Africa"}`, "application/json", token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		var got model.Recipe
		json.Unmarshal(w.Body.Bytes(), &got)
		if got.Origin != "West Africa" || got.FoodName != "Jollof Rice" {
			t.Errorf("unexpected recipe after partial update: %+v", got)
		}
	})

	t.Run("my items", func(t *testing.T) {
		w := do("GET", "/users/me/items", "", "", token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp struct {
			Recipes []*model.Recipe `json:"recipes"`
		}
		json.Unmarshal(w.Body.Bytes(), &resp)
		if len(resp.Recipes) != 1 {
			t.Errorf("recipes len = %d, want 1", len(resp.Recipes))
		}
	})

	t.Run("delete recipe", func(t *testing.T) {
		w := do("DELETE", "/recipes/"+recipeID, "", "", token)
		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})

	t.Run("support public", func(t *testing.T) {
		w := do("POST", "/support", `{"message":"hi"}`, "application/json", "")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200: %s", w.Code, w.Body.String())
		}
		if len(store.messages) != 1 {
			t.Errorf("messages len = %d, want 1", len(store.messages))
		}
	})

	t.Run("disabled user rejected", func(t *testing.T) {
		store.users["alice"].Disabled = true
		defer func() { store.users["alice"].Disabled = false }()

		w := do("GET", "/users/me", "", "", token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		r := httptest.NewRequest("OPTIONS", "/recipes/", nil)
		r.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Allow-Origin = %q", got)
		}
	})

	t.Run("cors unknown origin", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/health", nil)
		r.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		w := do("GET", "/metrics", "", "", "")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/recipes/recipe-abc123", "/recipes/{id}"},
		{"/recipes/", "/recipes/"},
		{"/health", "/health"},
		{"/users/me", "/users/me"},
		// 未知路径归入固定桶，避免标签基数爆炸
		{"/health/anything", "other"},
		{"/favicon.ico", "other"},
		{"/users/someone-else", "other"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
