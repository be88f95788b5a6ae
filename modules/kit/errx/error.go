package errx

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"
)

// Code 是错误码，对外语义的稳定标识。
type Code string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
)

// Error 是通用错误模型：
// - code/msg：对外语义
// - data：上下文（只读，派生时复制）
// - cause：原始错误链，仅用于溯源
// - stack：系统类错误第一次挂 cause 时捕获
type Error struct {
	code  Code
	msg   string
	data  map[string]any
	cause error
	stack []uintptr
	kind  kind
}

// NewBiz 创建业务类错误，不捕获栈。
func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindBiz}
}

// NewSys 创建系统类错误。
func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindSys}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	head := string(e.code)
	if e.msg != "" {
		head = fmt.Sprintf("%s: %s", e.code, e.msg)
	}
	if e.cause == nil {
		return head
	}
	return fmt.Sprintf("%s: %v", head, e.cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只按错误码判断语义是否相同，忽略 msg/data/cause。
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string {
	return string(e.Code())
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// IsSys 报告是否为系统类错误。
func (e *Error) IsSys() bool {
	return e != nil && e.kind == kindSys
}

// Data 返回 data 的拷贝。
func (e *Error) Data() map[string]any {
	if e == nil || e.data == nil {
		return nil
	}
	return maps.Clone(e.data)
}

func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	return slices.Clone(e.stack)
}

func (e *Error) derive() *Error {
	return &Error{
		code:  e.code,
		msg:   e.msg,
		data:  maps.Clone(e.data),
		cause: e.cause,
		stack: slices.Clone(e.stack),
		kind:  e.kind,
	}
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.derive()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

func (e *Error) WithDataMap(data map[string]any) *Error {
	next := e.derive()
	if len(data) == 0 {
		return next
	}
	if next.data == nil {
		next.data = make(map[string]any, len(data))
	}
	maps.Copy(next.data, data)
	return next
}

func (e *Error) WithCause(cause error) *Error {
	next := e.derive()
	next.cause = cause
	// 下层已经有栈就不再重复捕获。
	if next.kind == kindSys && cause != nil && len(next.stack) == 0 && !hasStackInChain(cause) {
		next.stack = captureStack(3)
	}
	return next
}

// CodeOf 沿错误链取第一个 errx 错误码，找不到返回空串。
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return ""
}

func captureStack(skip int) []uintptr {
	const maxDepth = 64
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	const maxDepth = 32
	for i := 0; i < maxDepth && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
