package models

// SharedResource 是被注入的共享依赖，只关心实例身份。
type SharedResource struct {
	Name string
}

func NewSharedResource(name string) *SharedResource {
	return &SharedResource{Name: name}
}
