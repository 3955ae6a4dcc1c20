package server

import (
	"net/http"

	"kitchen-server/internal/apiserver/auth"
	"kitchen-server/internal/apiserver/recipe"
	"kitchen-server/internal/apiserver/support"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 健康检查:
//   - GET /health - 服务健康检查
//   - GET /metrics - Prometheus 指标
//
// 认证 (Auth):
//   - POST /token          - 表单登录，换取 Bearer 令牌
//   - POST /user/          - 注册
//   - GET  /users/me       - 当前用户（需认证）
//   - GET  /users/me/items - 当前用户的菜谱（需认证）
//
// 菜谱 (Recipe):
//   - GET    /recipes/     - 列出菜谱（公开）
//   - POST   /recipes/     - 创建菜谱（需认证）
//   - GET    /recipes/{id} - 菜谱详情（公开）
//   - PUT    /recipes/{id} - 部分更新（需认证）
//   - DELETE /recipes/{id} - 删除（需认证）
//
// 反馈 (Support):
//   - POST /support - 接收留言（公开）
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	// Auth 接口
	authHandler := auth.NewHandler(h.store, h.authCfg)
	authHandler.RegisterRoutes(mux)

	// Recipe 接口
	recipeHandler := recipe.NewHandler(h.store)
	recipeHandler.RegisterRoutes(mux)

	// Support 接口
	supportHandler := support.NewHandler(h.store)
	supportHandler.RegisterRoutes(mux)

	// 应用指标中间件
	apiHandler := h.metrics.MetricsMiddleware(mux)

	// 应用认证中间件（中间件自己放行公开路由）
	authedHandler := auth.Middleware(h.authCfg, h.store)(apiHandler)

	// 应用 CORS 中间件
	return corsMiddleware(h.allowedOrigins, authedHandler)
}

// corsMiddleware 添加 CORS 头支持跨域请求
// 只回显白名单中的 Origin，允许携带凭证
func corsMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
