// Package libctx provides a generic, concurrency-safe key/value map bound
// to a context.Context, trimmed from nabbar-golib/context. It backs the
// engine's process/connection maps and a component's command-handler
// registry.
package libctx

import (
	"context"
	"sync"
)

// FuncWalk is called for each key/value pair during Walk; returning false
// stops the iteration early.
type FuncWalk[T comparable] func(key T, val interface{}) bool

// Config is a concurrency-safe map keyed by T, carrying an embedded
// context.Context so callers can select on cancellation alongside map
// access.
type Config[T comparable] interface {
	context.Context

	Load(key T) (val interface{}, ok bool)
	Store(key T, val interface{})
	Delete(key T)
	LoadOrStore(key T, val interface{}) (actual interface{}, loaded bool)
	LoadAndDelete(key T) (val interface{}, loaded bool)

	Len() int
	Keys() []T
	Walk(fct FuncWalk[T])
	Clean()
}

type cfg[T comparable] struct {
	context.Context
	m sync.Map
}

// New returns a Config bound to ctx (context.Background if nil).
func New[T comparable](ctx context.Context) Config[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return &cfg[T]{Context: ctx}
}

func (c *cfg[T]) Load(key T) (interface{}, bool)      { return c.m.Load(key) }
func (c *cfg[T]) Store(key T, val interface{})        { c.m.Store(key, val) }
func (c *cfg[T]) Delete(key T)                        { c.m.Delete(key) }
func (c *cfg[T]) LoadOrStore(key T, val interface{}) (interface{}, bool) {
	return c.m.LoadOrStore(key, val)
}
func (c *cfg[T]) LoadAndDelete(key T) (interface{}, bool) { return c.m.LoadAndDelete(key) }

func (c *cfg[T]) Len() int {
	n := 0
	c.m.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func (c *cfg[T]) Keys() []T {
	res := make([]T, 0)
	c.m.Range(func(k, _ interface{}) bool {
		res = append(res, k.(T))
		return true
	})
	return res
}

func (c *cfg[T]) Walk(fct FuncWalk[T]) {
	c.m.Range(func(k, v interface{}) bool {
		return fct(k.(T), v)
	})
}

func (c *cfg[T]) Clean() {
	for _, k := range c.Keys() {
		c.m.Delete(k)
	}
}
