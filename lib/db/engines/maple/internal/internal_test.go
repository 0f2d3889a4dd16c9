package internal

import (
	"testing"

	"github.com/ValentinKolb/dDoc/lib/document"
)

func TestCollectionOrder(t *testing.T) {
	c := NewCollection()
	for _, id := range []string{"c", "a", "b", "a"} {
		c.Put(id, document.String(id))
	}

	if c.Len() != 3 {
		t.Fatalf("expected 3 documents, got %d", c.Len())
	}

	var ids []string
	c.Ascend(func(id string, doc document.Value) bool {
		ids = append(ids, id)
		return true
	})
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("expected ids in order [a b c], got %v", ids)
	}
}

func TestCollectionRemoveAndClear(t *testing.T) {
	c := NewCollection()
	c.Put("x", document.Null())
	c.Put("y", document.Null())

	if !c.Remove("x") {
		t.Errorf("expected Remove to report an existing document")
	}
	if c.Remove("x") {
		t.Errorf("expected second Remove to be a no-op")
	}
	if _, ok := c.Get("x"); ok {
		t.Errorf("removed document still found")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty collection after Clear, got %d", c.Len())
	}
	count := 0
	c.Ascend(func(string, document.Value) bool {
		count++
		return true
	})
	if count != 0 {
		t.Errorf("expected no ids after Clear, got %d", count)
	}
}
