// Package cli provides the command-line interface for alinfo.
//
// Every command dispatches actions on a portal.State and renders what the
// family's store holds once they settle:
//   - app, multimedia, blog, suggestion: list, get, create, update, delete
//   - blog comment: comment on an entry and show it refreshed
//   - multimedia classifications: the classification catalogue
//   - user: list, get, admins, update, upload-image
//   - session: set, show, logout
//   - config: show, init
//   - version
//
// A rejected action prints the family's error and exits non-zero. A guard
// failure (missing session, insufficient role, weak password) prints the
// guard message without contacting the portal.
//
// Usage:
//
//	alinfo session set 7 --token $TOKEN
//	alinfo multimedia list --classification 2 --search manual
//	alinfo blog list --where 'user == "ana"' --json
//	alinfo app list --jsonpath '$[*].title'
package cli
