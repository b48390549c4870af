// Package portal is the typed client of the AlInfo departmental portal.
//
// It defines the portal's entities, the payloads each operation sends, and
// one service per resource family (apps, multimedia, blog, suggestion,
// user). Every operation is an action: it reports pending, fulfilled and
// rejected phases to the family's slice.Slice and returns the settled
// outcome. A State groups the five families and is built once per process:
//
//	st := portal.NewState(portal.Deps{BackendURL: "http://localhost:8000"})
//	out, err := st.Apps.List(ctx, portal.ListRequest{Token: token})
//
// The returned error is non-nil only when a client-side guard blocked the
// operation. Server and network failures are reported by the outcome and
// recorded in the family's Error field.
package portal
