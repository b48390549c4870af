package action

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/seanmeissimilly/alinfo/pkg/httpclient"
	"github.com/seanmeissimilly/alinfo/pkg/logging"
)

// Phase is the lifecycle state of a dispatched action.
type Phase int

const (
	Pending Phase = iota
	Fulfilled
	Rejected
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Kind identifies the operation an action performs within its family.
type Kind string

const (
	KindList    Kind = "list"
	KindDetails Kind = "details"
	KindCreate  Kind = "create"
	KindUpdate  Kind = "update"
	KindDelete  Kind = "delete"
	KindComment Kind = "comment"
)

// Meta describes one dispatch.
type Meta struct {
	Family string
	Kind   Kind
	// ID is the entity id the action was asked for, 0 when there is none.
	ID int
	// RequestID and Seq are assigned by Run.
	RequestID string
	Seq       uint64
}

// Outcome is one phase of an action as delivered to a Sink.
type Outcome[R any] struct {
	Meta  Meta
	Phase Phase
	// Value is the parsed payload of a fulfilled action.
	Value R
	// Message is the displayable reason of a rejected action.
	Message string
	// Err is the underlying failure of a rejected action. It is kept for the
	// dispatching caller; stores record Message only.
	Err error
}

// Sink receives every phase of an action, in order.
type Sink[R any] func(Outcome[R])

// Dispatcher numbers actions. One Dispatcher is shared by all families of an
// application so sequence numbers are comparable.
type Dispatcher struct {
	seq atomic.Uint64
	log *slog.Logger
}

// NewDispatcher creates a Dispatcher. A nil logger disables logging.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{log: logging.Component(logger, "action")}
}

func (d *Dispatcher) stamp(meta Meta) Meta {
	meta.Seq = d.seq.Add(1)
	meta.RequestID = uuid.NewString()
	return meta
}

// Run executes fn as an action. Guards are evaluated first; the first failing
// guard aborts the action with a *GuardError and nothing is emitted. Otherwise
// Pending is emitted, fn is called, and Fulfilled or Rejected is emitted with
// the result. The returned Outcome is the settled phase.
//
// The returned error is non-nil only for guard failures.
func Run[R any](ctx context.Context, d *Dispatcher, meta Meta, sink Sink[R], fn func(context.Context) (R, error), guards ...Guard) (Outcome[R], error) {
	if err := CheckGuards(meta, guards...); err != nil {
		d.log.Debug("action blocked", "family", meta.Family, "kind", meta.Kind, "reason", err)
		return Outcome[R]{Meta: meta}, err
	}

	meta = d.stamp(meta)
	emit := func(o Outcome[R]) {
		if sink != nil {
			sink(o)
		}
	}

	d.log.Debug("action dispatched", "family", meta.Family, "kind", meta.Kind, "id", meta.ID,
		"requestId", meta.RequestID, "seq", meta.Seq)
	emit(Outcome[R]{Meta: meta, Phase: Pending})

	value, err := fn(ctx)
	if err != nil {
		out := Outcome[R]{Meta: meta, Phase: Rejected, Message: httpclient.Message(err), Err: err}
		d.log.Debug("action rejected", "family", meta.Family, "kind", meta.Kind,
			"requestId", meta.RequestID, "message", out.Message)
		emit(out)
		return out, nil
	}

	out := Outcome[R]{Meta: meta, Phase: Fulfilled, Value: value}
	d.log.Debug("action fulfilled", "family", meta.Family, "kind", meta.Kind, "requestId", meta.RequestID)
	emit(out)
	return out, nil
}

// Adapt returns a Sink[R] that forwards every outcome to sink with its value
// converted by f. f is only applied to fulfilled outcomes.
func Adapt[R, S any](sink Sink[S], f func(R) S) Sink[R] {
	return func(o Outcome[R]) {
		out := Outcome[S]{Meta: o.Meta, Phase: o.Phase, Message: o.Message, Err: o.Err}
		if o.Phase == Fulfilled {
			out.Value = f(o.Value)
		}
		sink(out)
	}
}
