// Package view derives what the CLI shows from store state: title search,
// classification filters, sorting, author joins and date formatting. Every
// function is pure and returns a new slice.
package view

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/seanmeissimilly/alinfo/pkg/portal"
	"github.com/seanmeissimilly/alinfo/pkg/slice"
)

// SearchTitle keeps the items whose title contains query, ignoring case.
// An empty query keeps every item.
func SearchTitle[T any](items []T, query string, title func(T) string) []T {
	if query == "" {
		return slices.Clone(items)
	}
	fold := cases.Fold()
	q := fold.String(query)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.Contains(fold.String(title(it)), q) {
			out = append(out, it)
		}
	}
	return out
}

// ByClassification keeps the multimedia entries whose classification is in
// ids. No ids keeps every entry.
func ByClassification(items []portal.Multimedia, ids ...int) []portal.Multimedia {
	if len(ids) == 0 {
		return slices.Clone(items)
	}
	return slices.DeleteFunc(slices.Clone(items), func(m portal.Multimedia) bool {
		return !slices.Contains(ids, m.Classification)
	})
}

// SortByIDDesc returns items ordered by id, newest first.
func SortByIDDesc[E slice.Entity](items []E) []E {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b E) int { return cmp.Compare(b.EntityID(), a.EntityID()) })
	return out
}

// Joined is an item paired with its author. Author is nil when no user with
// the item's user name is known.
type Joined[T any] struct {
	Item   T            `json:"item"`
	Author *portal.User `json:"author,omitempty"`
}

// JoinUsers pairs every item with the user whose user name equals author(item).
func JoinUsers[T any](items []T, users []portal.User, author func(T) string) []Joined[T] {
	byName := make(map[string]portal.User, len(users))
	for _, u := range users {
		byName[u.UserName] = u
	}
	out := make([]Joined[T], 0, len(items))
	for _, it := range items {
		j := Joined[T]{Item: it}
		if u, ok := byName[author(it)]; ok {
			j.Author = &u
		}
		out = append(out, j)
	}
	return out
}

// Admins keeps the users with the admin role.
func Admins(users []portal.User) []portal.User {
	return slices.DeleteFunc(slices.Clone(users), func(u portal.User) bool { return u.Role != portal.RoleAdmin })
}

// OwnedBy keeps the items written by userName.
func OwnedBy[T any](items []T, userName string, author func(T) string) []T {
	return slices.DeleteFunc(slices.Clone(items), func(it T) bool { return author(it) != userName })
}

// ClassificationName returns the description of classification id, or the
// id itself when the catalogue does not know it.
func ClassificationName(catalogue []portal.Classification, id int) string {
	for _, c := range catalogue {
		if c.ID == id {
			return c.Description
		}
	}
	return strconv.Itoa(id)
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// FormatDate renders a server timestamp as DD-MM-YYYY. Values that do not
// parse are returned unchanged.
func FormatDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02-01-2006")
		}
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t.Format("02-01-2006")
		}
	}
	return s
}
