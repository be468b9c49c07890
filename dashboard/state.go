package dashboard

import (
	"sync"

	"github.com/BerniceZTT/breezy_end/models"
)

// Selection 当前选中的联系人，全局唯一
type Selection struct {
	mu      sync.RWMutex
	contact *models.Contact
}

// Set 选中联系人
func (s *Selection) Set(contact models.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contact = &contact
}

// Get 当前选中的联系人，未选中时为 nil
func (s *Selection) Get() *models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.contact == nil {
		return nil
	}
	c := *s.contact
	return &c
}

// Clear 取消选中
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contact = nil
}

// View 单个视图的加载状态、错误与数据
type View[T any] struct {
	mu      sync.RWMutex
	loading bool
	err     string
	data    T
}

// Loading 是否加载中
func (v *View[T]) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

// Err 最近一次加载的错误信息
func (v *View[T]) Err() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

// Data 最近一次成功加载的数据
func (v *View[T]) Data() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.data
}

// ClearError 清除错误
func (v *View[T]) ClearError() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = ""
}

// load 执行加载：开始时置 loading 并清除错误，结束时无论成败都复位 loading；失败时清空数据
func (v *View[T]) load(fn func() (T, error)) (T, error) {
	v.mu.Lock()
	v.loading = true
	v.err = ""
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.loading = false
		v.mu.Unlock()
	}()

	data, err := fn()

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		var zero T
		v.err = err.Error()
		v.data = zero
		return zero, err
	}
	v.data = data
	return data, nil
}
