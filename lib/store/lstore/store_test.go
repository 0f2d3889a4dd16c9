package lstore

import (
	"testing"

	"github.com/ValentinKolb/dDoc/lib/db"
	"github.com/ValentinKolb/dDoc/lib/db/engines/maple"
	"github.com/ValentinKolb/dDoc/lib/store"
	storetesting "github.com/ValentinKolb/dDoc/lib/store/testing"
)

func TestLocalStore(t *testing.T) {
	storetesting.RunStoreTests(t, "LocalStore", func(t *testing.T) store.IStore {
		return NewLocalStore(func() db.DocDB {
			return maple.NewMapleDB(nil)
		})
	})
}
