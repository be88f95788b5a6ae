package models

import (
	"sync"
	"testing"
)

func TestIsSame_同一实例(t *testing.T) {
	r := NewSharedResource("shme")
	if !NewIdentityProbe(r, r).IsSame() {
		t.Fatalf("期望同一实例返回 true")
	}
}

func TestIsSame_不同实例(t *testing.T) {
	if NewIdentityProbe(NewSharedResource("a"), NewSharedResource("b")).IsSame() {
		t.Fatalf("期望不同实例返回 false")
	}
}

func TestIsSame_字段相同但不是同一实例(t *testing.T) {
	r1 := &SharedResource{Name: "shme"}
	r2 := &SharedResource{Name: "shme"}
	if *r1 != *r2 {
		t.Fatalf("前置条件：两个实例字段应相同")
	}
	if NewIdentityProbe(r1, r2).IsSame() {
		t.Fatalf("期望按身份而非字段比较")
	}
}

func TestIsSame_都为空(t *testing.T) {
	if !NewIdentityProbe(nil, nil).IsSame() {
		t.Fatalf("期望两个空引用视为相同")
	}
	if NewIdentityProbe(NewSharedResource("a"), nil).IsSame() {
		t.Fatalf("期望空引用与实例不同")
	}
}

func TestIsSame_并发读取(t *testing.T) {
	r := NewSharedResource("shme")
	p := IdentityProbeConstructor(r, r)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !p.IsSame() {
				t.Errorf("期望并发读取结果一致")
			}
		}()
	}
	wg.Wait()
}
