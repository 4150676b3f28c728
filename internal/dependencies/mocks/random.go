package mocks

import (
	"sync"

	"github.com/mcoot/rocketbingo/internal/dependencies/random"
)

// MockRandom replays queued results. Once a queue runs dry Intn returns 0,
// which makes random.Shuffle leave a slice in a predictable rotation, and
// String walks the alphabet so successive calls still differ.
type MockRandom struct {
	mu       sync.Mutex
	ints     []int
	strings  []string
	fallback int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued int clamped into [0, n)
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// String returns the next queued string
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.strings) == 0 {
		if length <= 0 || len(alphabet) == 0 {
			return ""
		}
		result := make([]byte, length)
		for i := range result {
			result[i] = alphabet[(r.fallback+i)%len(alphabet)]
		}
		r.fallback++
		return string(result)
	}
	v := r.strings[0]
	r.strings = r.strings[1:]
	return v
}

// QueueIntn adds values to the Intn queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, values...)
}

// QueueString adds values to the String queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strings = append(r.strings, values...)
}

// Pending returns how many queued values have not been consumed
func (r *MockRandom) Pending() (ints, strings int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ints), len(r.strings)
}
