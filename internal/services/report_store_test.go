package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReportStorePutGet(t *testing.T) {
	store := NewReportStore(time.Minute, storeLogger())

	summary := Summary{ReportID: "id-1", Rows: 42, GeneratedAt: time.Now()}
	store.Put(summary, []byte("deck-bytes"))

	rep, err := store.Get("id-1")
	require.NoError(t, err)
	assert.Equal(t, 42, rep.Summary.Rows)
	assert.Equal(t, []byte("deck-bytes"), rep.Deck)
}

func TestReportStoreUnknownID(t *testing.T) {
	store := NewReportStore(time.Minute, storeLogger())

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestReportStoreExpiry(t *testing.T) {
	store := NewReportStore(time.Nanosecond, storeLogger())
	store.Put(Summary{ReportID: "fleeting"}, []byte("x"))

	time.Sleep(5 * time.Millisecond)

	_, err := store.Get("fleeting")
	assert.ErrorIs(t, err, ErrReportNotFound)

	// janitor actually removes the entry
	store.evictExpired()
	assert.Equal(t, 0, store.Len())
}

func TestReportStoreListNewestFirst(t *testing.T) {
	store := NewReportStore(time.Minute, storeLogger())
	base := time.Now()
	store.Put(Summary{ReportID: "old", GeneratedAt: base.Add(-time.Hour)}, nil)
	store.Put(Summary{ReportID: "new", GeneratedAt: base}, nil)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ReportID)
	assert.Equal(t, "old", list[1].ReportID)
}
