// Package cache provides a small generic LRU used to keep recent effect
// outputs.
//
//	c := cache.NewLRU[float32, *image.RGBA](4)
//	c.Put(96, img)
//	img, ok := c.Get(96)
//
// LRU is not safe for concurrent use; callers hold their own lock.
package cache
