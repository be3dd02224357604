package service

import (
	"sync/atomic"

	"github.com/Badsnus/tabqr/internal/domain/entity"
)

// Surface is the display a popup renders into. Every render takes a sequence
// number from Begin; a finished frame replaces the current one only when its
// number is higher, so a slow render can never overwrite a newer one.
// The zero value is ready to use.
type Surface struct {
	next    atomic.Uint64
	current atomic.Pointer[entity.Frame]
}

func NewSurface() *Surface {
	return &Surface{}
}

// Begin reserves the sequence number for a new render.
func (s *Surface) Begin() uint64 {
	return s.next.Add(1)
}

// Present installs frame unless a frame with the same or a higher sequence
// number is already shown. It reports whether frame was installed.
func (s *Surface) Present(frame entity.Frame) bool {
	for {
		cur := s.current.Load()
		if cur != nil && cur.Seq >= frame.Seq {
			return false
		}
		if s.current.CompareAndSwap(cur, &frame) {
			return true
		}
	}
}

// Current returns the frame on display, empty before the first render.
func (s *Surface) Current() entity.Frame {
	if f := s.current.Load(); f != nil {
		return *f
	}
	return entity.Frame{}
}
