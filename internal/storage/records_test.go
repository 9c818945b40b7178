package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/errs"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/types"
)

func testLog() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// brokenStore fails every operation, simulating a store outage.
type brokenStore struct{}

func (brokenStore) Insert(context.Context, types.TranscriptionRecord) error {
	return errors.New("store unreachable")
}
func (brokenStore) GetByID(context.Context, string) (types.TranscriptionRecord, error) {
	return types.TranscriptionRecord{}, errors.New("store unreachable")
}
func (brokenStore) List(context.Context, string) ([]types.TranscriptionRecord, error) {
	return nil, errors.New("store unreachable")
}
func (brokenStore) Delete(context.Context, string) error { return errors.New("store unreachable") }
func (brokenStore) Search(context.Context, string) ([]types.TranscriptionRecord, error) {
	return nil, errors.New("store unreachable")
}
func (brokenStore) Close() error { return nil }

func TestSaveAssignsIDAndTimestamp(t *testing.T) {
	t.Parallel()

	r := NewRecords(NewMemoryStore(), testLog())
	saved, err := r.Save(context.Background(), types.TranscriptionRecord{
		Title:      "episode one",
		SourceType: types.SourceFile,
		SourceName: "episode1.mp3",
		Text:       "hello world",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := r.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got.Text)
}

func TestGetAllLazilyCreatesSampleOnce(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	r := NewRecords(store, testLog())

	first := r.GetAll(context.Background(), "")
	require.Len(t, first, 1)
	assert.Equal(t, SampleID, first[0].ID)
	assert.Equal(t, types.SourceSample, first[0].SourceType)

	second := r.GetAll(context.Background(), "")
	require.Len(t, second, 1)

	// Exactly one sample exists in the store afterward
	all, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, SampleID, all[0].ID)
}

func TestGetAllOrderingAndFilter(t *testing.T) {
	t.Parallel()

	r := NewRecords(NewMemoryStore(), testLog())
	base := time.Now().UTC()

	for i, rec := range []types.TranscriptionRecord{
		{ID: "a", Title: "oldest", SourceType: types.SourceFile, SourceName: "a.mp3", Text: "x"},
		{ID: "b", Title: "middle", SourceType: types.SourceYouTube, SourceName: "https://youtu.be/b", Text: "y"},
		{ID: "c", Title: "newest", SourceType: types.SourceFile, SourceName: "c.mp3", Text: "z"},
	} {
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := r.Save(context.Background(), rec)
		require.NoError(t, err)
	}

	all := r.GetAll(context.Background(), "")
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	files := r.GetAll(context.Background(), types.SourceFile)
	require.Len(t, files, 2)
	assert.Equal(t, "c", files[0].ID)
}

func TestGetByIDSampleSkipsStore(t *testing.T) {
	t.Parallel()

	// The broken store would fail any round trip, so answering the sample id
	// proves none happens.
	r := NewRecords(brokenStore{}, testLog())
	rec, err := r.GetByID(context.Background(), SampleID)
	require.NoError(t, err)
	assert.Equal(t, SampleID, rec.ID)
}

func TestGetByIDNotFound(t *testing.T) {
	t.Parallel()

	r := NewRecords(NewMemoryStore(), testLog())
	_, err := r.GetByID(context.Background(), "no-such-id")
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestReadPathsDegradeToSampleOnOutage(t *testing.T) {
	t.Parallel()

	r := NewRecords(brokenStore{}, testLog())

	all := r.GetAll(context.Background(), "")
	require.Len(t, all, 1)
	assert.Equal(t, SampleID, all[0].ID)

	rec, err := r.GetByID(context.Background(), "some-id")
	require.NoError(t, err)
	assert.Equal(t, SampleID, rec.ID)

	found := r.Search(context.Background(), "anything")
	require.Len(t, found, 1)
	assert.Equal(t, SampleID, found[0].ID)
}

func TestDeleteSampleAlwaysRejected(t *testing.T) {
	t.Parallel()

	// Rejected on an empty store
	r := NewRecords(NewMemoryStore(), testLog())
	assert.Equal(t, errs.RejectedDeletion, errs.KindOf(r.Delete(context.Background(), SampleID)))

	// Rejected without even reaching a broken store
	r = NewRecords(brokenStore{}, testLog())
	assert.Equal(t, errs.RejectedDeletion, errs.KindOf(r.Delete(context.Background(), SampleID)))
}

func TestDeleteRegularRecord(t *testing.T) {
	t.Parallel()

	r := NewRecords(NewMemoryStore(), testLog())
	saved, err := r.Save(context.Background(), types.TranscriptionRecord{
		Title: "t", SourceType: types.SourceFile, SourceName: "t.mp3", Text: "text",
	})
	require.NoError(t, err)

	require.NoError(t, r.Delete(context.Background(), saved.ID))
	assert.Equal(t, errs.NotFound, errs.KindOf(r.Delete(context.Background(), saved.ID)))
}

func TestSearchMatchesText(t *testing.T) {
	t.Parallel()

	r := NewRecords(NewMemoryStore(), testLog())
	_, err := r.Save(context.Background(), types.TranscriptionRecord{
		Title: "a", SourceType: types.SourceFile, SourceName: "a.mp3", Text: "the quick brown fox",
	})
	require.NoError(t, err)
	_, err = r.Save(context.Background(), types.TranscriptionRecord{
		Title: "b", SourceType: types.SourceFile, SourceName: "b.mp3", Text: "lazy dog",
	})
	require.NoError(t, err)

	found := r.Search(context.Background(), "brown")
	require.Len(t, found, 1)
	assert.Equal(t, "a", found[0].Title)

	assert.Empty(t, r.Search(context.Background(), "zebra"))
}
