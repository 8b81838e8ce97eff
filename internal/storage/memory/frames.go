package memory

import (
	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/pkg/cmap"
)

// FrameCache keeps the latest frame per camera id.
type FrameCache struct {
	frames *cmap.Map[string, domain.Frame]
}

// NewFrameCache creates an empty frame cache.
func NewFrameCache() *FrameCache {
	return &FrameCache{frames: cmap.New[string, domain.Frame]()}
}

// Put stores a frame, replacing any older frame for the same camera.
// Frames older than the cached one are ignored.
func (c *FrameCache) Put(f domain.Frame) {
	c.frames.Update(f.CameraID, func(cur domain.Frame, exists bool) domain.Frame {
		if exists && f.ReceivedAt.Before(cur.ReceivedAt) {
			return cur
		}
		return f
	})
}

// Get returns the latest frame for a camera.
func (c *FrameCache) Get(cameraID string) (domain.Frame, bool) {
	return c.frames.Get(cameraID)
}

// Drop removes the cached frame for a camera.
func (c *FrameCache) Drop(cameraID string) {
	c.frames.Delete(cameraID)
}

// Cameras returns the ids of cameras with a cached frame.
func (c *FrameCache) Cameras() []string {
	return c.frames.Keys()
}

// Len returns the number of cached frames.
func (c *FrameCache) Len() int {
	return c.frames.Count()
}
