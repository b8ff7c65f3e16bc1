package job

import (
	"sync"

	"github.com/google/uuid"
)

// Table is the shell's job table: an insertion-ordered collection of Jobs
// keyed by job_id. job_id is a monotonically increasing counter that is
// never reused while the job it names is live.
type Table struct {
	mu     sync.Mutex
	order  []*Job
	byID   map[int]*Job
	nextID int
}

// NewTable returns an empty Table with job ids starting at 1.
func NewTable() *Table {
	return &Table{byID: make(map[int]*Job), nextID: 1}
}

func (t *Table) add(pgid, members int, command string, state State) *Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	j := &Job{
		ID:        t.nextID,
		PGID:      pgid,
		Command:   command,
		State:     state,
		LaunchID:  uuid.New(),
		remaining: members,
	}
	t.nextID++
	t.order = append(t.order, j)
	t.byID[j.ID] = j
	return j
}

// Get looks up a Job by id.
func (t *Table) Get(id int) (*Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.byID[id]
	return j, ok
}

// List returns a snapshot of all live Jobs in insertion order.
func (t *Table) List() []*Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Job, len(t.order))
	copy(out, t.order)
	return out
}

func (t *Table) remove(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byID, id)
	for i, j := range t.order {
		if j.ID == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
