package server

import (
	"sync"
	"time"
)

// buildStatus tracks the current build state for the status endpoint and
// error display. The serve daemon keeps serving the last good site when a
// rebuild fails.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuildID  string
	lastBuiltAt  time.Time
	lastPosts    int
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess(buildID string, posts int) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuildID = buildID
	bs.lastBuiltAt = time.Now()
	bs.lastPosts = posts
	bs.hasGoodBuild = true
}

type statusSnapshot struct {
	Healthy     bool      `json:"healthy"`
	LastBuildID string    `json:"last_build_id,omitempty"`
	LastBuiltAt time.Time `json:"last_built_at,omitempty"`
	Posts       int       `json:"posts"`
	LastError   string    `json:"last_error,omitempty"`
}

func (bs *buildStatus) snapshot() statusSnapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	snap := statusSnapshot{
		Healthy:     bs.hasGoodBuild && bs.lastError == nil,
		LastBuildID: bs.lastBuildID,
		LastBuiltAt: bs.lastBuiltAt,
		Posts:       bs.lastPosts,
	}
	if bs.lastError != nil {
		snap.LastError = bs.lastError.Error()
	}
	return snap
}
