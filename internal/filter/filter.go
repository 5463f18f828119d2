// Package filter suppresses events matching the configured ignore lists.
package filter

import (
	"strings"

	"github.com/logdna/ansible-logdna/internal/model"
)

// Filter holds the four ignore lists. Status matching is case-insensitive;
// action, role and play matching is exact. A nil or empty list matches
// nothing. Filter has no mutable state and is safe to share.
type Filter struct {
	statuses []string // stored lower-cased
	actions  []string
	roles    []string
	plays    []string
}

// New builds a Filter from the configured ignore lists.
func New(statuses, actions, roles, plays []string) *Filter {
	f := &Filter{
		statuses: make([]string, len(statuses)),
		actions:  actions,
		roles:    roles,
		plays:    plays,
	}
	for i, s := range statuses {
		f.statuses[i] = strings.ToLower(s)
	}
	return f
}

// Suppress reports whether an event with the given coordinates should be
// dropped before any metadata is built or delivered.
func (f *Filter) Suppress(action, role, play string, status model.Status) bool {
	return contains(f.statuses, strings.ToLower(string(status))) ||
		contains(f.actions, action) ||
		contains(f.roles, role) ||
		contains(f.plays, play)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
