// Package recipe 菜谱领域 - HTTP 处理
package recipe

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"kitchen-server/internal/apiserver/auth"
	"kitchen-server/internal/shared/model"
	"kitchen-server/internal/shared/storage"
)

// listLimit 列表接口单次返回上限
const listLimit = 1000

// Handler 菜谱 HTTP 处理器
type Handler struct {
	store storage.RecipeStore
}

// NewHandler 创建菜谱处理器
func NewHandler(store storage.RecipeStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册菜谱相关路由
// 读接口公开，写接口由认证中间件保护
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /recipes/{$}", h.List)
	mux.HandleFunc("POST /recipes/{$}", h.Create)
	mux.HandleFunc("GET /recipes/{id}", h.Get)
	mux.HandleFunc("PUT /recipes/{id}", h.Update)
	mux.HandleFunc("DELETE /recipes/{id}", h.Delete)
}

// createRequest 创建菜谱的显式请求结构
// owner 不接受客户端提交，创建时由服务端从认证用户写入
type createRequest struct {
	FoodName            string  `json:"food_name"`
	Origin              string  `json:"origin"`
	EatenWith           string  `json:"eaten_with"`
	AsAppetizer         bool    `json:"as_appetizer"`
	AsMain              bool    `json:"as_main"`
	AsDessert           bool    `json:"as_dessert"`
	Ingredients         string  `json:"ingredients"`
	Directions          string  `json:"directions"`
	NutritionalBenefits string  `json:"nutritional_benefits"`
	Chef                string  `json:"chef"`
	Contact             *string `json:"contact,omitempty"`
}

// List 获取菜谱列表（公开）
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.store.ListRecipes(r.Context(), listLimit)
	if err != nil {
		log.Printf("[recipe] ListRecipes error: %v", err)
		writeStoreError(w, err, "failed to list recipes")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": recipes})
}

// Create 创建菜谱，owner 标记为当前认证用户
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.GetCurrentUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FoodName == "" {
		writeError(w, http.StatusBadRequest, "food_name is required")
		return
	}

	now := time.Now()
	recipe := &model.Recipe{
		ID:                  generateID("recipe"),
		FoodName:            req.FoodName,
		Origin:              req.Origin,
		EatenWith:           req.EatenWith,
		AsAppetizer:         req.AsAppetizer,
		AsMain:              req.AsMain,
		AsDessert:           req.AsDessert,
		Ingredients:         req.Ingredients,
		Directions:          req.Directions,
		NutritionalBenefits: req.NutritionalBenefits,
		Chef:                req.Chef,
		Contact:             req.Contact,
		Owner:               user.Username,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := h.store.CreateRecipe(r.Context(), recipe); err != nil {
		log.Printf("[recipe] CreateRecipe error: %v", err)
		writeStoreError(w, err, "failed to create recipe")
		return
	}

	log.Printf("[recipe] Recipe created: %s by %s", recipe.ID, recipe.Owner)
	writeJSON(w, http.StatusCreated, recipe)
}

// Get 获取菜谱详情（公开）
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	recipe, err := h.store.GetRecipe(r.Context(), id)
	if err != nil {
		log.Printf("[recipe] GetRecipe error: %v", err)
		writeStoreError(w, err, "failed to get recipe")
		return
	}
	if recipe == nil {
		writeError(w, http.StatusNotFound, "recipe not found")
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// Update 部分更新菜谱，只提交需要变更的字段，返回更新后的文档
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var upd model.RecipeUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.UpdateRecipe(r.Context(), id, &upd); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "recipe not found")
			return
		}
		log.Printf("[recipe] UpdateRecipe error: %v", err)
		writeStoreError(w, err, "failed to update recipe")
		return
	}

	recipe, err := h.store.GetRecipe(r.Context(), id)
	if err != nil || recipe == nil {
		log.Printf("[recipe] GetRecipe after update error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load updated recipe")
		return
	}

	log.Printf("[recipe] Recipe updated: %s", id)
	writeJSON(w, http.StatusOK, recipe)
}

// Delete 删除菜谱
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.store.DeleteRecipe(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "recipe not found")
			return
		}
		log.Printf("[recipe] DeleteRecipe error: %v", err)
		writeStoreError(w, err, "failed to delete recipe")
		return
	}

	log.Printf("[recipe] Recipe deleted: %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// 工具函数
// ============================================================================

func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError 按领域错误映射 HTTP 状态码，瞬时故障返回 503
func writeStoreError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, storage.ErrUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, message)
}
