package cache

// lruNode is a node in a doubly-linked LRU list.
// The node stores its key for O(1) deletion from the parent map.
type lruNode[K comparable, V any] struct {
	key   K
	value V
	prev  *lruNode[K, V]
	next  *lruNode[K, V]
}

// LRU is a fixed-capacity cache that evicts the least recently used entry.
//
// The head of the list is the most recently used entry, the tail the least.
type LRU[K comparable, V any] struct {
	capacity int
	items    map[K]*lruNode[K, V]
	head     *lruNode[K, V]
	tail     *lruNode[K, V]
	onEvict  func(K, V)
}

// NewLRU creates a cache holding at most capacity entries (minimum 1).
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: max(1, capacity),
		items:    make(map[K]*lruNode[K, V], max(1, capacity)),
	}
}

// OnEvict registers fn to run for entries dropped by capacity or Clear.
func (c *LRU[K, V]) OnEvict(fn func(K, V)) { c.onEvict = fn }

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int { return len(c.items) }

// Cap returns the capacity.
func (c *LRU[K, V]) Cap() int { return c.capacity }

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	node, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(node)
	return node.value, true
}

// Peek returns the value for key without changing its position.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	node, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return node.value, true
}

// Put stores value under key, evicting the oldest entry when full.
func (c *LRU[K, V]) Put(key K, value V) {
	if node, ok := c.items[key]; ok {
		node.value = value
		c.moveToFront(node)
		return
	}
	if len(c.items) >= c.capacity {
		c.evictOldest()
	}
	node := &lruNode[K, V]{key: key, value: value}
	c.pushFront(node)
	c.items[key] = node
}

// Delete removes key. It reports whether the key was present.
func (c *LRU[K, V]) Delete(key K) bool {
	node, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(node)
	delete(c.items, key)
	return true
}

// Clear removes every entry.
func (c *LRU[K, V]) Clear() {
	if c.onEvict != nil {
		for node := c.head; node != nil; node = node.next {
			c.onEvict(node.key, node.value)
		}
	}
	clear(c.items)
	c.head, c.tail = nil, nil
}

func (c *LRU[K, V]) evictOldest() {
	node := c.tail
	if node == nil {
		return
	}
	c.unlink(node)
	delete(c.items, node.key)
	if c.onEvict != nil {
		c.onEvict(node.key, node.value)
	}
}

func (c *LRU[K, V]) pushFront(node *lruNode[K, V]) {
	node.prev = nil
	node.next = c.head
	if c.head != nil {
		c.head.prev = node
	}
	c.head = node
	if c.tail == nil {
		c.tail = node
	}
}

func (c *LRU[K, V]) moveToFront(node *lruNode[K, V]) {
	if node == c.head {
		return
	}
	c.unlink(node)
	c.pushFront(node)
}

// unlink removes node from the list and clears its pointers.
func (c *LRU[K, V]) unlink(node *lruNode[K, V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		c.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		c.tail = node.prev
	}
	node.prev = nil
	node.next = nil
}
