package handler

import "net/http"

type ContextKey string

var (
	IDCtxKey ContextKey = "id"
)

// idFromContext 读取 pathID 中间件解析出的路径参数
func idFromContext(r *http.Request) int64 {
	return r.Context().Value(IDCtxKey).(int64)
}
