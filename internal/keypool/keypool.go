package keypool

// Intn is the subset of a random source needed to pick a key
type Intn interface {
	IntN(n int) int
}

// Pool is the set of keys believed to currently exist in the simulated store. Keys are held in a slice
// so that a uniform pick is O(1), and an index map makes removal O(1) by swapping with the last element.
// It is not safe for concurrent use
type Pool struct {
	keys  []string
	index map[string]int
}

// New initializes an empty Pool
func New() *Pool {
	return &Pool{
		index: make(map[string]int),
	}
}

// Add inserts the key into the pool. Adding a key that is already present is a no-op
func (p *Pool) Add(key string) {
	if _, ok := p.index[key]; ok {
		return
	}
	p.index[key] = len(p.keys)
	p.keys = append(p.keys, key)
}

// Remove deletes the key from the pool and reports whether it was present
func (p *Pool) Remove(key string) bool {
	i, ok := p.index[key]
	if !ok {
		return false
	}
	last := len(p.keys) - 1
	if i != last {
		moved := p.keys[last]
		p.keys[i] = moved
		p.index[moved] = i
	}
	p.keys[last] = ""
	p.keys = p.keys[:last]
	delete(p.index, key)
	return true
}

func (p *Pool) Contains(key string) bool {
	_, ok := p.index[key]
	return ok
}

// Pick returns a key chosen uniformly at random from the pool. It panics if the pool is empty
func (p *Pool) Pick(src Intn) string {
	if len(p.keys) == 0 {
		panic("keypool: Pick called on empty pool")
	}
	return p.keys[src.IntN(len(p.keys))]
}

// Keys returns a copy of all keys in the pool, in no particular order
func (p *Pool) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

func (p *Pool) Len() int {
	return len(p.keys)
}
