package store_test

import (
	"testing"

	"github.com/termevents/termevents/pkg/store"
	"github.com/termevents/termevents/pkg/store/storetest"
)

func TestSessions(t *testing.T) {
	tStore, cleanup := store.MustGetTempStore()
	defer cleanup()
	storetest.TestSessions(t, tStore)
}

func TestInputs(t *testing.T) {
	tStore, cleanup := store.MustGetTempStore()
	defer cleanup()
	storetest.TestInputs(t, tStore)
}
