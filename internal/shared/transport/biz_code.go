package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体里的业务码，0 表示成功。
const (
	OK           = 0
	InvalidParam = 400
	NotFound     = 404
	SystemError  = 500
	Unavailable  = 503
)

// Response 是 HTTP 接口统一的响应体。
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Code: OK, Msg: "ok", Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}
