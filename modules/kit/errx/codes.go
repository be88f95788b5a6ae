package errx

// 跨包统一的系统类错误码。
//
// 约束：
// - 这里只放“技术类”错误码，便于日志归一化
// - 容器/业务相关的错误码由各自的包定义（例如 inject.CodeBindingNotFound）

const (
	// CodeInternal 表示不可预期的内部错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖暂不可用（例如容器正在重建）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeReqParamError 表示入参非法（例如无法解析的枚举名）。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
