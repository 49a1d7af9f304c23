package state

import (
	"sync"

	"github.com/samber/lo"

	"microblog-lite/internal/model"
)

// PostStore is the in-memory cache of the remote post collection. It is
// mutated only by orchestrator intents; views read snapshots.
type PostStore struct {
	mu    sync.RWMutex
	items []model.Post

	status map[Op]Status
	errs   map[Op]string
	last   Status

	policy     UpdatePolicy
	staleGuard bool

	listSeq       int64
	listCompleted int64
}

func NewPostStore(policy UpdatePolicy, staleGuard bool) *PostStore {
	if policy == "" {
		policy = UpdateAppend
	}
	s := &PostStore{
		status:     make(map[Op]Status),
		errs:       make(map[Op]string),
		last:       StatusIdle,
		policy:     policy,
		staleGuard: staleGuard,
	}
	for _, op := range []Op{OpList, OpCreate, OpUpdate, OpDelete} {
		s.status[op] = StatusIdle
	}
	return s
}

// Begin flips op to loading. For list requests use BeginList so the
// response can be checked for staleness.
func (s *PostStore) Begin(op Op) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[op] = StatusLoading
	s.errs[op] = ""
	s.last = StatusLoading
}

// BeginList starts a list request and returns its sequence number.
func (s *PostStore) BeginList() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[OpList] = StatusLoading
	s.errs[OpList] = ""
	s.last = StatusLoading
	s.listSeq++
	return s.listSeq
}

// CompleteList replaces the whole collection with the response. When the
// stale guard is on, a response whose request was overtaken by a newer
// completed list request is discarded and false is returned.
func (s *PostStore) CompleteList(seq int64, posts []model.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staleGuard && seq < s.listCompleted {
		return false
	}
	if seq > s.listCompleted {
		s.listCompleted = seq
	}

	s.items = append([]model.Post(nil), posts...)
	s.status[OpList] = StatusSucceeded
	s.last = StatusSucceeded
	return true
}

// CompleteCreate appends the returned post. The follow-up list refresh
// is what finally settles the collection.
func (s *PostStore) CompleteCreate(p model.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, p)
	s.status[OpCreate] = StatusSucceeded
	s.last = StatusSucceeded
}

// CompleteUpdate applies the configured update policy. Under
// UpdateAppend the returned post is pushed even when the pre-update
// entry is still present, so the list may show a duplicate until the
// refresh lands.
func (s *PostStore) CompleteUpdate(p model.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy == UpdateReplace {
		if _, idx, ok := lo.FindIndexOf(s.items, func(item model.Post) bool { return item.ID == p.ID }); ok {
			s.items[idx] = p
		} else {
			s.items = append(s.items, p)
		}
	} else {
		s.items = append(s.items, p)
	}

	s.status[OpUpdate] = StatusSucceeded
	s.last = StatusSucceeded
}

// CompleteDelete filters out the post whose id was sent in the request,
// trusting the request payload rather than the response echo.
func (s *PostStore) CompleteDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = lo.Filter(s.items, func(item model.Post, _ int) bool { return item.ID != id })
	s.status[OpDelete] = StatusSucceeded
	s.last = StatusSucceeded
}

// FailList records a list failure. The failed request still counts as
// completed for the stale guard, so an older in-flight list response
// cannot land after it and resurrect state the newer request already
// superseded.
func (s *PostStore) FailList(seq int64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.listCompleted {
		s.listCompleted = seq
	}
	s.status[OpList] = StatusFailed
	s.errs[OpList] = msg
	s.last = StatusFailed
}

// Fail records the error for op; no domain mutation is applied.
func (s *PostStore) Fail(op Op, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[op] = StatusFailed
	s.errs[op] = msg
	s.last = StatusFailed
}

func (s *PostStore) Items() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Post(nil), s.items...)
}

func (s *PostStore) Find(id string) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.items, func(item model.Post) bool { return item.ID == id })
}

func (s *PostStore) StatusOf(op Op) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[op]
}

// LastStatus reports whichever operation settled most recently, the
// coarse flag the original UI rendered its single spinner from.
func (s *PostStore) LastStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *PostStore) ErrorOf(op Op) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errs[op]
}
