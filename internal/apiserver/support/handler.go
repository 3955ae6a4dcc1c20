// Package support 反馈消息 - 公开的留言接收接口
package support

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"kitchen-server/internal/shared/model"
	"kitchen-server/internal/shared/storage"
)

// Handler 反馈消息 HTTP 处理器
type Handler struct {
	store storage.SupportStore
}

// NewHandler 创建反馈处理器
func NewHandler(store storage.SupportStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册反馈相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /support", h.Receive)
}

// Receive 接收用户反馈并入库
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	msg := &model.SupportMessage{
		ID:         generateID("support"),
		Message:    req.Message,
		ReceivedAt: time.Now(),
	}
	if err := h.store.CreateSupportMessage(r.Context(), msg); err != nil {
		log.Printf("[support] CreateSupportMessage error: %v", err)
		if errors.Is(err, storage.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save message")
		return
	}

	log.Printf("[support] Message received: %s", msg.ID)
	writeJSON(w, http.StatusOK, map[string]string{"detail": "message received"})
}

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
