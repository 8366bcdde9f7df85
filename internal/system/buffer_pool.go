package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// CanvasPool hands out frame canvases by size. Every frame of a movie has
// the figure's size, so after the first few frames all canvases are reused.
type CanvasPool struct {
	mu    sync.Mutex
	sizes map[image.Point]*sync.Pool

	gets   atomic.Int64
	allocs atomic.Int64
}

// CanvasStats counts canvases handed out and how many had to be allocated.
type CanvasStats struct {
	Gets      int64
	Allocated int64
}

func (s CanvasStats) Reused() int64 {
	return s.Gets - s.Allocated
}

// DefaultCanvasPool serves callers that don't track their own stats.
var DefaultCanvasPool = NewCanvasPool()

func NewCanvasPool() *CanvasPool {
	return &CanvasPool{sizes: make(map[image.Point]*sync.Pool)}
}

func (p *CanvasPool) poolFor(size image.Point) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	pool, ok := p.sizes[size]
	if !ok {
		pool = &sync.Pool{New: func() any {
			p.allocs.Add(1)
			return image.NewRGBA(image.Rectangle{Max: size})
		}}
		p.sizes[size] = pool
	}
	return pool
}

// Get returns a canvas with origin (0, 0). Its pixels are left over from
// the previous frame; the figure repaints all of them.
func (p *CanvasPool) Get(size image.Point) *image.RGBA {
	p.gets.Add(1)
	return p.poolFor(size).Get().(*image.RGBA)
}

// Put returns a canvas obtained from Get. Other images are ignored.
func (p *CanvasPool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) {
		return
	}
	p.mu.Lock()
	pool, ok := p.sizes[img.Rect.Max]
	p.mu.Unlock()
	if ok {
		pool.Put(img)
	}
}

func (p *CanvasPool) Stats() CanvasStats {
	return CanvasStats{Gets: p.gets.Load(), Allocated: p.allocs.Load()}
}
