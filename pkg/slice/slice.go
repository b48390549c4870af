package slice

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/seanmeissimilly/alinfo/pkg/action"
	"github.com/seanmeissimilly/alinfo/pkg/localstore"
	"github.com/seanmeissimilly/alinfo/pkg/logging"
)

// Entity is a portal record identified by an integer id. Implementations
// should be value types.
type Entity interface {
	EntityID() int
}

// State is a snapshot of a family's store.
type State[E Entity] struct {
	Items    []E
	Selected *E
	Loading  bool
	// Error is empty until an action is rejected.
	Error   string
	Success bool
}

// Policy decides what happens to settlements that arrive out of order.
type Policy int

const (
	// LastSettled reduces every settlement; the last one to arrive wins.
	LastSettled Policy = iota
	// LastDispatched drops a settlement when a newer action of the same kind
	// was dispatched on the family after it.
	LastDispatched
)

func (p Policy) String() string {
	if p == LastDispatched {
		return "discard"
	}
	return "keep"
}

// ParsePolicy parses the staleResponses config value: "keep" (or empty) or "discard".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "keep":
		return LastSettled, nil
	case "discard":
		return LastDispatched, nil
	default:
		return LastSettled, fmt.Errorf("invalid stale response policy %q (expected keep or discard)", s)
	}
}

// Options configures a Slice.
type Options struct {
	Policy Policy
	// Persister and Key, when both set, mirror Selected to local storage and
	// rehydrate it on creation.
	Persister localstore.Persister
	Key       string
	Logger    *slog.Logger
}

// Slice is the store of one resource family.
type Slice[E Entity] struct {
	family string
	opts   Options
	log    *slog.Logger

	mu       sync.Mutex
	state    State[E]
	latest   map[action.Kind]uint64
	inflight int
	commits  uint64 // guarded by mu

	// notifyMu guards subs and delivered. Deliveries run in commit order:
	// commit n waits on turn until delivered == n.
	notifyMu  sync.Mutex
	turn      *sync.Cond
	delivered uint64
	subs      map[int]func(State[E])
	nextSub   int
}

// New creates the store of family. The selected entity is rehydrated from
// opts.Persister; a missing or unreadable blob leaves it empty.
func New[E Entity](family string, opts Options) *Slice[E] {
	s := &Slice[E]{
		family: family,
		opts:   opts,
		log:    logging.Component(opts.Logger, "slice").With("family", family),
		latest: make(map[action.Kind]uint64),
		subs:   make(map[int]func(State[E])),
	}
	s.turn = sync.NewCond(&s.notifyMu)
	s.rehydrate()
	return s
}

func (s *Slice[E]) persistent() bool {
	return s.opts.Persister != nil && s.opts.Key != ""
}

func (s *Slice[E]) rehydrate() {
	if !s.persistent() {
		return
	}
	data, err := s.opts.Persister.Load(s.opts.Key)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			s.log.Warn("failed to load persisted state", "key", s.opts.Key, "error", err)
		}
		return
	}
	var e E
	if err := json.Unmarshal(data, &e); err != nil {
		s.log.Warn("ignoring corrupt persisted state", "key", s.opts.Key, "error", err)
		return
	}
	if e.EntityID() == 0 {
		return
	}
	s.state.Selected = &e
}

// persistLocked mirrors Selected to the persister. Callers hold s.mu.
func (s *Slice[E]) persistLocked() {
	if !s.persistent() {
		return
	}
	var err error
	if s.state.Selected == nil {
		err = s.opts.Persister.Remove(s.opts.Key)
	} else {
		var data []byte
		if data, err = json.Marshal(s.state.Selected); err == nil {
			err = s.opts.Persister.Save(s.opts.Key, data)
		}
	}
	if err != nil {
		s.log.Warn("failed to persist state", "key", s.opts.Key, "error", err)
	}
}

// Family returns the family name the slice was created with.
func (s *Slice[E]) Family() string {
	return s.family
}

// State returns a copy of the current state.
func (s *Slice[E]) State() State[E] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Slice[E]) snapshotLocked() State[E] {
	st := s.state
	if st.Items != nil {
		st.Items = slices.Clone(st.Items)
	}
	if st.Selected != nil {
		sel := *st.Selected
		st.Selected = &sel
	}
	return st
}

// Subscribe registers fn to be called with the new state after every
// transition, in transition order. fn may read State and subscribe or
// unsubscribe, but must not dispatch actions on the same slice synchronously.
// The returned function removes the subscription.
func (s *Slice[E]) Subscribe(fn func(State[E])) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		delete(s.subs, id)
	}
}

// commit releases s.mu and publishes the committed state to subscribers.
// Callers hold s.mu. No lock is held while subscribers run.
func (s *Slice[E]) commit() {
	snap := s.snapshotLocked()
	seq := s.commits
	s.commits++
	s.mu.Unlock()

	s.notifyMu.Lock()
	for s.delivered != seq {
		s.turn.Wait()
	}
	subs := make([]func(State[E]), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.notifyMu.Unlock()

	defer func() {
		s.notifyMu.Lock()
		s.delivered++
		s.turn.Broadcast()
		s.notifyMu.Unlock()
	}()
	for _, fn := range subs {
		fn(snap)
	}
}

// reduce applies one phase of an action. onPending and onFulfilled carry the
// kind-specific effects on Items and Selected; either may be nil. persist
// marks effects that change Selected.
func (s *Slice[E]) reduce(meta action.Meta, phase action.Phase, message string, onPending, onFulfilled func(*State[E]), persist bool) {
	s.mu.Lock()

	switch phase {
	case action.Pending:
		s.inflight++
		if meta.Seq > s.latest[meta.Kind] {
			s.latest[meta.Kind] = meta.Seq
		}
		s.state.Loading = true
		if onPending != nil {
			onPending(&s.state)
		}

	case action.Fulfilled, action.Rejected:
		if s.inflight > 0 {
			s.inflight--
		}
		if s.opts.Policy == LastDispatched && meta.Seq < s.latest[meta.Kind] {
			s.log.Debug("dropping stale settlement", "kind", meta.Kind, "seq", meta.Seq,
				"latest", s.latest[meta.Kind], "phase", phase)
		} else if phase == action.Fulfilled {
			s.state.Success = true
			if onFulfilled != nil {
				onFulfilled(&s.state)
				if persist {
					s.persistLocked()
				}
			}
		} else {
			s.state.Error = message
		}
		if s.opts.Policy == LastDispatched {
			s.state.Loading = s.inflight > 0
		} else {
			s.state.Loading = false
		}
	}

	s.commit()
}

// ListSink reduces list actions: pending empties Items and fulfilled
// replaces them with the server's order.
func (s *Slice[E]) ListSink() action.Sink[[]E] {
	return func(o action.Outcome[[]E]) {
		s.reduce(o.Meta, o.Phase, o.Message,
			func(st *State[E]) { st.Items = []E{} },
			func(st *State[E]) { st.Items = append([]E{}, o.Value...) },
			false)
	}
}

// EntitySink reduces details, create and update actions: fulfilled replaces
// Selected with the payload.
func (s *Slice[E]) EntitySink() action.Sink[E] {
	return func(o action.Outcome[E]) {
		s.reduce(o.Meta, o.Phase, o.Message, nil,
			func(st *State[E]) {
				v := o.Value
				st.Selected = &v
			},
			true)
	}
}

// DeleteSink reduces delete actions: fulfilled removes the item whose id is
// the payload's id, or the requested id when the server returned no entity.
// Nothing is removed when neither is known or no item matches.
func (s *Slice[E]) DeleteSink() action.Sink[E] {
	return func(o action.Outcome[E]) {
		s.reduce(o.Meta, o.Phase, o.Message, nil,
			func(st *State[E]) {
				id := o.Value.EntityID()
				if id == 0 {
					id = o.Meta.ID
				}
				if id == 0 {
					return
				}
				st.Items = slices.DeleteFunc(st.Items, func(e E) bool { return e.EntityID() == id })
			},
			false)
	}
}

// FlagSink returns a sink for actions that report through the family's
// flags without touching Items or Selected, such as posting a comment.
func FlagSink[E Entity, R any](s *Slice[E]) action.Sink[R] {
	return func(o action.Outcome[R]) {
		s.reduce(o.Meta, o.Phase, o.Message, nil, nil, false)
	}
}

// Select replaces Selected without a request, e.g. when a session is set
// from the command line.
func (s *Slice[E]) Select(e E) {
	s.mu.Lock()
	s.state.Selected = &e
	s.persistLocked()
	s.commit()
}

// ClearSelected empties Selected and removes its persisted copy.
func (s *Slice[E]) ClearSelected() {
	s.mu.Lock()
	s.state.Selected = nil
	s.persistLocked()
	s.commit()
}
