package inject

import "strings"

// Scope 决定一个绑定每次解析时是否复用实例。
type Scope uint8

const (
	// ScopeSingleton 整个容器生命周期内只构造一次。
	ScopeSingleton Scope = iota
	// ScopePrototype 每次解析都重新构造。
	ScopePrototype
)

var scopeNames = [...]string{
	ScopeSingleton: "singleton",
	ScopePrototype: "prototype",
}

func (s Scope) Valid() bool {
	return int(s) < len(scopeNames)
}

func (s Scope) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return scopeNames[s]
}

func ParseScope(name string) (Scope, error) {
	for i, n := range scopeNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Scope(i), nil
		}
	}
	return ScopeSingleton, ErrInvalidScope.WithData("scope", name)
}

func (s Scope) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrInvalidScope.WithData("scope", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText 让 viper/mapstructure 能把配置里的字符串直接解码成 Scope。
func (s *Scope) UnmarshalText(text []byte) error {
	v, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

