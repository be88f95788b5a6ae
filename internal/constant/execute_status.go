package constant

import (
	"strings"

	"InjectContainer/modules/kit/errx"
)

// ExecuteStatus 表示一次执行的结果。
type ExecuteStatus uint8

const (
	Failure ExecuteStatus = iota
	Success
)

var executeStatusNames = [...]string{
	Failure: "FAILURE",
	Success: "SUCCESS",
}

var executeStatusDescriptions = [...]string{
	Failure: "失败",
	Success: "成功",
}

// Values 按声明顺序返回全部取值。
func Values() []ExecuteStatus {
	return []ExecuteStatus{Failure, Success}
}

// StatusOf 把布尔结果映射为 ExecuteStatus。
func StatusOf(ok bool) ExecuteStatus {
	if ok {
		return Success
	}
	return Failure
}

func (s ExecuteStatus) Valid() bool {
	return int(s) < len(executeStatusNames)
}

// Description 返回展示用的文案，非法值返回空串。
func (s ExecuteStatus) Description() string {
	if !s.Valid() {
		return ""
	}
	return executeStatusDescriptions[s]
}

func (s ExecuteStatus) String() string {
	if !s.Valid() {
		return ""
	}
	return executeStatusNames[s]
}

// ParseExecuteStatus 按名称解析（大小写不敏感）。
func ParseExecuteStatus(name string) (ExecuteStatus, error) {
	for _, s := range Values() {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return Failure, errx.ErrReqParamERR.WithData("execute_status", name)
}

func (s ExecuteStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errx.ErrReqParamERR.WithData("execute_status", int(s))
	}
	return []byte(s.String()), nil
}

func (s *ExecuteStatus) UnmarshalText(text []byte) error {
	v, err := ParseExecuteStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
