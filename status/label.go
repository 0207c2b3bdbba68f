package status

import "sync/atomic"

// Label is a string metric cell, exported as an info gauge
type Label struct {
	v atomic.Pointer[string]
}

// Set stores v and returns the previous label
func (l *Label) Set(v string) string {
	if prev := l.v.Swap(&v); prev != nil {
		return *prev
	}
	return ""
}

func (l *Label) Value() string {
	if p := l.v.Load(); p != nil {
		return *p
	}
	return ""
}
