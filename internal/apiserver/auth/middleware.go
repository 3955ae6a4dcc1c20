package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"kitchen-server/internal/shared/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 免认证路由前缀
var publicPrefixes = []string{
	"/health",
	"/metrics",
}

// 免认证路由精确匹配
var publicExact = map[string]bool{
	"POST /token":   true,
	"POST /user/":   true,
	"POST /support": true,
}

// isPublicRoute 判断路由是否免认证
// 菜谱读取接口公开，写接口需要认证
func isPublicRoute(method, path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	if publicExact[method+" "+path] {
		return true
	}
	if method == http.MethodGet && strings.HasPrefix(path, "/recipes/") {
		return true
	}
	return false
}

// authFailures 按内部原因统计认证失败
// 对外 HTTP 响应统一为 401，不区分原因（防用户名枚举）
var authFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "api",
		Name:      "auth_failures_total",
		Help:      "Total bearer authentication failures by internal reason",
	},
	[]string{"reason"},
)

// writeUnauthorized 统一的 401 响应，携带 WWW-Authenticate 头
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// Middleware 创建 Bearer 认证中间件
//
// 认证流程（每个请求独立）：
//  1. 提取 Authorization: Bearer <token>
//  2. 验证签名和有效期，取出 sub
//  3. 按 sub 查询用户
//  4. 拒绝 disabled 用户
//  5. 将用户注入 context 供下游使用
//
// 任何一步失败都返回相同的 401 响应，具体原因只记录在日志和指标中。
func Middleware(cfg Config, store storage.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 公开路由：直接放行
			if isPublicRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// 提取 Bearer Token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				authFailures.WithLabelValues("missing_header").Inc()
				writeUnauthorized(w, "not authenticated")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				authFailures.WithLabelValues("malformed_header").Inc()
				writeUnauthorized(w, "not authenticated")
				return
			}

			// 解析 JWT
			claims, err := ParseToken(cfg, parts[1])
			if err != nil {
				log.Printf("[auth] token parse error: %v", err)
				authFailures.WithLabelValues("invalid_token").Inc()
				writeUnauthorized(w, "could not validate credentials")
				return
			}

			// 解析出的 sub 必须对应现存用户
			// 存储失败和用户不存在对外不做区分
			user, err := store.GetUserByUsername(r.Context(), claims.Subject)
			if err != nil {
				log.Printf("[auth] user lookup error for %q: %v", claims.Subject, err)
				if errors.Is(err, storage.ErrUnavailable) {
					authFailures.WithLabelValues("store_unavailable").Inc()
				} else {
					authFailures.WithLabelValues("store_error").Inc()
				}
				writeUnauthorized(w, "could not validate credentials")
				return
			}
			if user == nil {
				authFailures.WithLabelValues("unknown_user").Inc()
				writeUnauthorized(w, "could not validate credentials")
				return
			}

			// 停用账号：令牌本身有效也拒绝
			if user.Disabled {
				log.Printf("[auth] inactive user rejected: %s", user.Username)
				authFailures.WithLabelValues("inactive_user").Inc()
				writeUnauthorized(w, "could not validate credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCurrentUser(r.Context(), user)))
		})
	}
}
