package game

type EventKind string

const (
	EventFired        EventKind = "fired"
	EventHit          EventKind = "hit"
	EventDestroyed    EventKind = "destroyed"
	EventReleased     EventKind = "released"
	EventStateChanged EventKind = "state"
)

// Event is one journal entry. Other is the second party when there is one:
// the victim of a hit or the projectile owner of a release.
type Event struct {
	T      float64
	Tick   uint64
	Kind   EventKind
	Entity EntityID
	Other  EntityID
	Amount int
	Detail string
}

// Journal keeps the most recent events in a fixed ring.
type Journal struct {
	buf   []Event
	head  int
	size  int
	limit int
	total uint64
}

func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = JournalCapacity
	}
	return &Journal{buf: make([]Event, capacity), limit: capacity}
}

func (j *Journal) push(e Event) {
	j.buf[j.head] = e
	j.head = (j.head + 1) % j.limit
	if j.size < j.limit {
		j.size++
	}
	j.total++
}

func (j *Journal) Len() int { return j.size }

// Total counts every event ever pushed, including overwritten ones.
func (j *Journal) Total() uint64 { return j.total }

// Events returns the retained events, oldest first.
func (j *Journal) Events() []Event {
	out := make([]Event, 0, j.size)
	start := (j.head - j.size + j.limit) % j.limit
	for i := 0; i < j.size; i++ {
		out = append(out, j.buf[(start+i)%j.limit])
	}
	return out
}

func (j *Journal) Count(kind EventKind) int {
	n := 0
	for _, e := range j.Events() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Drain returns the retained events, oldest first, and empties the journal.
func (j *Journal) Drain() []Event {
	out := j.Events()
	j.head, j.size = 0, 0
	return out
}

// Tail returns the events pushed after the first seq events, as far as the
// ring still holds them, together with the new sequence number.
func (j *Journal) Tail(seq uint64) ([]Event, uint64) {
	if seq >= j.total {
		return nil, j.total
	}
	n := j.total - seq
	if n > uint64(j.size) {
		n = uint64(j.size)
	}
	all := j.Events()
	return all[len(all)-int(n):], j.total
}
