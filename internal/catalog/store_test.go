package catalog

import (
	"testing"

	"songbid/internal/video"
)

func TestInMemoryStore_Prepend_newest_first(t *testing.T) {
	store := NewInMemoryStore()
	store.Prepend(video.Record{ID: "a"})
	store.Prepend(video.Record{ID: "b"})

	all := store.All()
	if len(all) != 2 || all[0].ID != "b" || all[1].ID != "a" {
		t.Errorf("expected [b a], got %v", all)
	}

	got, ok := store.Get("a")
	if !ok || got.ID != "a" {
		t.Errorf("Get(a): ok=%v got %v", ok, got)
	}
}

func TestInMemoryStore_All_returns_copy(t *testing.T) {
	store := NewInMemoryStore()
	store.Prepend(video.Record{ID: "a"})

	all := store.All()
	all[0].ID = "mutated"

	if _, ok := store.Get("a"); !ok {
		t.Error("mutating All() result should not affect the store")
	}
	if store.All()[0].ID != "a" {
		t.Error("store contents changed through copy")
	}
}

func TestInMemoryStore_Reset(t *testing.T) {
	store := NewInMemoryStore()
	store.Prepend(video.Record{ID: "a"})
	store.Reset()

	if len(store.All()) != 0 {
		t.Error("expected empty store after Reset")
	}
	if _, ok := store.Get("a"); ok {
		t.Error("expected Get to miss after Reset")
	}
}
