// Package eventloop 提供单协程事件循环
// 联系人列表模型不加锁，所有对模型的访问都通过 Loop 投递到同一个协程上串行执行
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrClosed 循环已经停止
var ErrClosed = errors.New("eventloop: closed")

// Loop 单协程任务循环
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// New 创建容量为 size 的任务队列
func New(size int) *Loop {
	return &Loop{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Run 在当前协程上执行任务，直到 ctx 取消或调用 Close
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return
		case <-l.done:
			return
		case task := <-l.tasks:
			l.exec(task)
		}
	}
}

func (l *Loop) exec(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("event loop task panic", zap.Any("recover", rec))
		}
	}()
	task()
}

// Post 异步投递任务
func (l *Loop) Post(task func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.tasks <- task:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Call 投递任务并等待其执行完毕
// 不能在循环自身的协程上调用，否则会死锁
func (l *Loop) Call(ctx context.Context, task func()) error {
	finished := make(chan struct{})
	var panicked any
	err := l.Post(func() {
		defer close(finished)
		defer func() {
			if rec := recover(); rec != nil {
				panicked = rec
			}
		}()
		task()
	})
	if err != nil {
		return err
	}
	select {
	case <-finished:
		if panicked != nil {
			return fmt.Errorf("eventloop: task panic: %v", panicked)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

// Close 停止循环，已排队但未执行的任务被丢弃
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}
