// Package idgen produces identifiers for history actions.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// ActionPrefix marks history action ids.
const ActionPrefix = "act_"

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator of RFC 9562 v7 UUIDs. They sort by creation time.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed prepends prefix to every id produced by gen.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Sequence returns a Generator of "<prefix><n>" ids counting from 1.
func Sequence(prefix string) Generator {
	var n atomic.Uint64
	return func() string {
		return fmt.Sprintf("%s%d", prefix, n.Add(1))
	}
}

// Actions is the default generator for action ids.
func Actions() Generator {
	return Prefixed(ActionPrefix, UUIDv7())
}
