package models

import "InjectContainer/internal/inject"

// IdentityProbe 持有两个外部注入的 SharedResource，判断它们是否是同一个实例。
type IdentityProbe struct {
	first  *SharedResource
	second *SharedResource
}

// IdentityProbeConstructor 标记 NewIdentityProbe 可由容器注入两个参数。
var IdentityProbeConstructor inject.Ctor2[*SharedResource, *SharedResource, *IdentityProbe] = NewIdentityProbe

// NewIdentityProbe 原样保存两个引用，不做校验。
func NewIdentityProbe(first, second *SharedResource) *IdentityProbe {
	return &IdentityProbe{first: first, second: second}
}

// IsSame 按引用比较，字段相同的两个实例仍然不同。
func (p *IdentityProbe) IsSame() bool {
	return p.first == p.second
}
