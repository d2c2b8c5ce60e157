// Package logging holds the logger shared by every kakimoji package.
//
// By default nothing is logged. Call SetLogger to route render failures,
// font fallbacks and cache rebuilds to a real handler.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger 替换全局 logger；传入 nil 恢复为静默。
//
// 使用的级别：
//   - [slog.LevelDebug]: 背景缓存重建、字体加载
//   - [slog.LevelWarn]: 单个对象渲染失败、字体回退、素材缺失
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
