package mocks

import (
	"fmt"

	"github.com/ftpong/pong-server/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing. String results
// are consumed from a queue; when the queue is empty a deterministic
// sequential value is produced so ID generation in tests never collides.
type MockRandom struct {
	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int
	autoCounter   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued result, or a sequential fallback value
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex < len(r.StringResults) {
		result := r.StringResults[r.stringIndex]
		r.stringIndex++
		return result
	}
	r.autoCounter++
	return fmt.Sprintf("mock%04d", r.autoCounter)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}
