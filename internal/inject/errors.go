package inject

import "InjectContainer/modules/kit/errx"

const (
	CodeBindingNotFound    errx.Code = "INJECT_BINDING_NOT_FOUND"
	CodeBindingDuplicate   errx.Code = "INJECT_BINDING_DUPLICATE"
	CodeCircularDependency errx.Code = "INJECT_CIRCULAR_DEPENDENCY"
	CodeTypeMismatch       errx.Code = "INJECT_TYPE_MISMATCH"
	CodeInvalidScope       errx.Code = "INJECT_INVALID_SCOPE"
	CodeFactoryFailed      errx.Code = "INJECT_FACTORY_FAILED"
)

// 哨兵错误：通过 WithData/WithCause 派生，不要直接修改。
var (
	ErrBindingNotFound    = errx.NewBiz(CodeBindingNotFound, "未找到绑定")
	ErrBindingDuplicate   = errx.NewBiz(CodeBindingDuplicate, "绑定已存在")
	ErrCircularDependency = errx.NewBiz(CodeCircularDependency, "存在循环依赖")
	ErrTypeMismatch       = errx.NewSys(CodeTypeMismatch, "绑定类型不匹配")
	ErrInvalidScope       = errx.NewBiz(CodeInvalidScope, "非法的作用域")
	ErrFactoryFailed      = errx.NewSys(CodeFactoryFailed, "构造实例失败")
)
