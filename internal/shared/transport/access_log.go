package transport

import (
	"context"
	"time"

	"InjectContainer/internal/constant"
	"InjectContainer/modules/kit/logx"
	"InjectContainer/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 是请求级日志上下文。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContextWithParent 创建带 AccessLog 的 context（保留父 context 的取消信号）。
func NewContextWithParent(parent context.Context, action string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx = tracex.WithSpanID(tracex.EnsureTraceID(ctx), "http")

	al := &AccessLog{
		BizCode:   BizCode(SystemError),
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// SetErrorReason 设置失败原因，空串忽略。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// WriteAccessLog 输出访问日志，result 字段使用执行状态的文案。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	status := constant.StatusOf(al.BizCode == BizCode(OK))
	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
		zap.Stringer("status", status),
		zap.String("result", status.Description()),
	}
	if status == constant.Failure && al.ErrorReason != "" {
		fields = append(fields, zap.String("error_reason", al.ErrorReason))
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(al.BizCode), fields...)
}
