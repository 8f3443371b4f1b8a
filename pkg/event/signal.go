// Package event 提供类型化的 post-save 信号：仓库在保存记录后调用 Send，
// 已注册的接收者同步执行，拿到记录本身以及"是否新建"标志。
package event

import (
	"context"
	"sync"
)

// Receiver 是信号接收者。接收者没有返回值，内部错误需要自行记录。
type Receiver[T any] func(ctx context.Context, instance *T, created bool)

type registration[T any] struct {
	id string
	fn Receiver[T]
}

// Signal 保存某一类记录的接收者列表。零值可直接使用。
type Signal[T any] struct {
	mu        sync.RWMutex
	receivers []registration[T]
}

// NewSignal 创建一个空信号。
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Connect 以 id 注册接收者。同一个 id 重复注册时原地替换，调用顺序不变。
func (s *Signal[T]) Connect(id string, fn Receiver[T]) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.receivers {
		if s.receivers[i].id == id {
			s.receivers[i].fn = fn
			return
		}
	}
	s.receivers = append(s.receivers, registration[T]{id: id, fn: fn})
}

// Disconnect 注销 id 对应的接收者，返回是否确实移除了。
func (s *Signal[T]) Disconnect(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.receivers {
		if s.receivers[i].id == id {
			s.receivers = append(s.receivers[:i], s.receivers[i+1:]...)
			return true
		}
	}
	return false
}

// Connected 判断 id 是否已注册。
func (s *Signal[T]) Connected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.receivers {
		if r.id == id {
			return true
		}
	}
	return false
}

// Send 按注册顺序依次调用接收者。
// 先拷贝一份快照再调用，接收者内部可以安全地 Connect/Disconnect。
func (s *Signal[T]) Send(ctx context.Context, instance *T, created bool) {
	if s == nil {
		return
	}
	s.mu.RLock()
	snapshot := make([]registration[T], len(s.receivers))
	copy(snapshot, s.receivers)
	s.mu.RUnlock()

	for _, r := range snapshot {
		r.fn(ctx, instance, created)
	}
}
