package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"InjectContainer/internal/shared/transport"
	"InjectContainer/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 统一写访问日志，业务码优先取响应体里的 `code` 字段。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		bw := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		switch code, ok := parseBizCode(bw.body.Bytes()); {
		case ok:
			transport.SetBizCode(ctx, transport.BizCode(code))
		case c.Writer.Status() >= http.StatusBadRequest:
			transport.SetBizCode(ctx, transport.BizCode(c.Writer.Status()))
		default:
			transport.SetBizCode(ctx, transport.BizCode(transport.OK))
		}
		transport.WriteAccessLog(ctx, log)
	}
}

func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}
	var payload struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == nil {
		return 0, false
	}
	return *payload.Code, true
}
