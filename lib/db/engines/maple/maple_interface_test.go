package maple

import (
	"testing"

	"github.com/ValentinKolb/dDoc/lib/db"
	dbtesting "github.com/ValentinKolb/dDoc/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunDocDBTests(t, "MapleDB", func() db.DocDB {
		return NewMapleDB(nil)
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunDocDBBenchmarks(b, "MapleDB", func() db.DocDB {
		return NewMapleDB(nil)
	})
}
