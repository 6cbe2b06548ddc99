package routingtable_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Postmaster-Live/postmaster/internal/handlerid"
	"github.com/Postmaster-Live/postmaster/internal/routingtable"
)

func TestTable_UpsertGetEvict(t *testing.T) {
	tbl := routingtable.New()
	id := handlerid.New()

	_, ok := tbl.Get(id)
	assert.False(t, ok)

	tbl.Upsert(id, routingtable.Entry{Topic: "events"})
	entry, ok := tbl.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "events", entry.Topic)
	assert.Equal(t, 1, tbl.Len())

	tbl.Evict(id)
	_, ok = tbl.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())
}

func TestTable_ConcurrentAccess(t *testing.T) {
	tbl := routingtable.New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := handlerid.New()
			tbl.Upsert(id, routingtable.Entry{Topic: "t"})
			tbl.Get(id)
			tbl.Evict(id)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, tbl.Len())
}
