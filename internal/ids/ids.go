package ids

import "github.com/segmentio/ksuid"

// New returns a time-sortable unique id for users, goals and contributions.
func New() string {
	return ksuid.New().String()
}
