// Package memory implements the storage contracts over in-process
// collections. It serves as the fallback backend when the document store is
// unreachable: no persistence across restarts, linear scans instead of
// indexes. Unlike the repositories it stands in for, it holds everything
// behind per-repository locks because handlers run concurrently.
package memory

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/wangfeiwest163/toolshub/internal/database"
)

// NewStore builds a fallback store seeded with the fixed tool catalog.
func NewStore() *database.Store {
	ids := newIDSource()

	return database.NewStore(
		newToolRepository(seedTools()),
		newURLRepository(ids),
		newUserRepository(ids),
		newEventRepository(ids),
		true,
		nil,
	)
}

// idSource hands out synthetic ids derived from the startup timestamp.
type idSource struct {
	next atomic.Int64
}

func newIDSource() *idSource {
	s := &idSource{}
	s.next.Store(time.Now().UnixMilli())
	return s
}

func (s *idSource) ID() string {
	return strconv.FormatInt(s.next.Add(1), 10)
}
