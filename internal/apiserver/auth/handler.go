package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"time"

	"kitchen-server/internal/shared/model"
	"kitchen-server/internal/shared/storage"
)

// userRecipeLimit /users/me/items 单次返回的菜谱上限
const userRecipeLimit = 100

// Store 认证处理器依赖的存储接口
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListRecipesByOwner(ctx context.Context, owner string, limit int) ([]*model.Recipe, error)
}

// Handler 认证 HTTP 处理器
type Handler struct {
	store Store
	cfg   Config
}

// NewHandler 创建认证处理器
func NewHandler(store Store, cfg Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /token", h.Login)
	mux.HandleFunc("POST /user/{$}", h.Signup)
	mux.HandleFunc("GET /users/me", h.Me)
	mux.HandleFunc("GET /users/me/items", h.MyRecipes)
}

// ============================================================================
// 请求/响应类型
// ============================================================================

type signupRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ============================================================================
// Handlers
// ============================================================================

// Login 用户登录，表单编码的 username/password 换取 Bearer 令牌
//
// 用户不存在和密码错误返回完全相同的 401 响应，
// 防止通过响应差异枚举用户名。
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		log.Printf("[auth.login] GetUserByUsername error: %v", err)
		if errors.Is(err, storage.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !CheckPassword(password, user.HashedPassword) {
		writeUnauthorized(w, "incorrect username or password")
		return
	}

	token, err := GenerateAccessToken(h.cfg, user.Username)
	if err != nil {
		log.Printf("[auth.login] GenerateAccessToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Printf("[auth] User logged in: %s", user.Username)
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Signup 用户注册
// 成功返回 201 和公开视图，密码哈希绝不出现在响应中
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "username, password and email are required")
		return
	}
	if !isValidEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email format")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("[auth.signup] HashPassword error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: hash,
		Disabled:       false,
		CreatedAt:      time.Now(),
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		log.Printf("[auth.signup] CreateUser error: %v", err)
		if errors.Is(err, storage.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	log.Printf("[auth] User registered: %s", user.Username)
	writeJSON(w, http.StatusCreated, user.Public())
}

// Me 获取当前用户的公开视图
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetCurrentUser(r.Context())
	if user == nil {
		writeUnauthorized(w, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}

// MyRecipes 获取当前用户创建的菜谱
func (h *Handler) MyRecipes(w http.ResponseWriter, r *http.Request) {
	user := GetCurrentUser(r.Context())
	if user == nil {
		writeUnauthorized(w, "not authenticated")
		return
	}

	recipes, err := h.store.ListRecipesByOwner(r.Context(), user.Username, userRecipeLimit)
	if err != nil {
		log.Printf("[auth.items] ListRecipesByOwner error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list recipes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": recipes})
}

// ============================================================================
// 工具函数
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
