// Package slice holds the state of one resource family and is its single
// writer.
//
// A Slice exposes Sinks that receive action outcomes and reduce them:
//
//	| Phase     | Loading | Error     | Success | Items / Selected                          |
//	|-----------|---------|-----------|---------|-------------------------------------------|
//	| pending   | true    | unchanged | unchanged | list: Items emptied                     |
//	| fulfilled | false   | unchanged | true    | list: Items replaced; details/create/update: Selected replaced; delete: matching id removed |
//	| rejected  | false   | message   | unchanged | unchanged                               |
//
// Error and Success are never reset. Concurrent actions on one family share
// the flags, so with the default LastSettled policy the action that settles
// last decides them. LastDispatched drops settlements that were superseded by
// a newer dispatch of the same kind.
package slice
