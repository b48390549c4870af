// Package action runs one request against the portal API as a three-phase
// lifecycle: Pending, then Fulfilled or Rejected.
//
// Every phase is delivered to a Sink, normally a resource store, which turns
// it into a state transition. Errors never travel past the action boundary as
// error values: a rejection carries only the displayable message produced by
// httpclient.Message. Guards run before anything is emitted, so a failed
// guard leaves the sink untouched and no request is made.
//
//	out, err := action.Run(ctx, d, action.Meta{Family: "app", Kind: action.KindList},
//		appSlice.ListSink(), func(ctx context.Context) ([]portal.App, error) { ... })
package action
