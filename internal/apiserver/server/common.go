// Package server 路由配置与核心基础设施
//
// 本包将请求分发到各领域独立包：
//   - auth/: 登录、注册、当前用户
//   - recipe/: 菜谱 CRUD
//   - support/: 反馈消息
//
// 文件组织：
//   - common.go: Handler 定义和通用工具函数
//   - handler.go: 路由配置与中间件链
//   - metrics.go: Prometheus 指标
package server

import (
	"encoding/json"
	"net/http"

	"kitchen-server/internal/apiserver/auth"
	"kitchen-server/internal/shared/storage"
)

// Handler API 处理器
//
// Handler 是所有 HTTP API 的入口，负责：
//   - 路由请求到对应的领域处理器
//   - 持有存储层连接和认证配置
type Handler struct {
	store          storage.PersistentStore // MongoDB 存储层
	authCfg        auth.Config             // JWT 密钥与有效期
	allowedOrigins []string                // CORS 白名单
	metrics        *Metrics                // Prometheus 指标
}

// NewHandler 创建 Handler 实例
func NewHandler(store storage.PersistentStore, authCfg auth.Config, allowedOrigins []string) *Handler {
	return &Handler{
		store:          store,
		authCfg:        authCfg,
		allowedOrigins: allowedOrigins,
		metrics:        NewMetrics("api"),
	}
}

// writeJSON 将数据以 JSON 格式写入 HTTP 响应
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Health 健康检查接口
//
// 路由: GET /health
//
// 用于负载均衡器和监控系统检查服务状态。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
