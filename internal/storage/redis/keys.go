package redis

import (
	"fmt"

	"github.com/ftpong/pong-server/internal/model"
)

// Key prefix for all archive data
const keyPrefix = "ftpong"

// matchKey returns the Redis key for one archived match
func matchKey(id model.GameID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchIndexKey returns the Redis key for the LIST of match keys, newest
// first
func matchIndexKey() string {
	return fmt.Sprintf("%s:idx:matches", keyPrefix)
}
