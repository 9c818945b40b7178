package storage

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/errs"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/types"
)

// SampleID is the reserved id of the default sample record. It can never be
// deleted, and listing an empty store materializes it.
const SampleID = "00000000-0000-0000-0000-000000000001"

// Records is the store facade: server-assigned timestamps, lazy creation of
// the default sample, and read-path degradation to the sample when the
// backing store is unreachable.
type Records struct {
	store Store
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewRecords wraps a Store.
func NewRecords(store Store, log logrus.FieldLogger) *Records {
	return &Records{store: store, log: log, now: time.Now}
}

// sampleRecord builds the default sample. CreatedAt is assigned at insert
// time, like any other record.
func sampleRecord() types.TranscriptionRecord {
	return types.TranscriptionRecord{
		ID:         SampleID,
		Title:      "Sample Test Video",
		SourceType: types.SourceSample,
		SourceName: "RPReplay_Final1701485574.mov",
		Text: "This is a sample transcription. Upload an audio or video file, " +
			"or paste a YouTube link, to create your own.",
	}
}

// Save persists a record, assigning id and created_at server-side when
// absent. Transient store failures are retried with exponential backoff;
// the final error is returned for the caller to log.
func (r *Records) Save(ctx context.Context, rec types.TranscriptionRecord) (types.TranscriptionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	err := backoff.Retry(func() error {
		return r.store.Insert(ctx, rec)
	}, policy)
	if err != nil {
		return rec, err
	}

	r.log.WithField("id", rec.ID).Info("transcription saved")
	return rec, nil
}

// GetAll lists records newest first. An empty store lazily materializes the
// default sample exactly once; a failing store degrades to the sample rather
// than surfacing the outage.
func (r *Records) GetAll(ctx context.Context, sourceType string) []types.TranscriptionRecord {
	records, err := r.store.List(ctx, sourceType)
	if err != nil {
		r.log.Warnf("store list failed, serving default sample: %v", err)
		return []types.TranscriptionRecord{r.sampleWithTimestamp()}
	}

	if len(records) == 0 && sourceType == "" {
		sample := r.ensureSample(ctx)
		return []types.TranscriptionRecord{sample}
	}
	if records == nil {
		records = []types.TranscriptionRecord{}
	}
	return records
}

// GetByID fetches one record. The reserved sample id is answered without a
// store round trip; store failures degrade to the sample.
func (r *Records) GetByID(ctx context.Context, id string) (types.TranscriptionRecord, error) {
	if id == SampleID {
		return r.sampleWithTimestamp(), nil
	}

	rec, err := r.store.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return types.TranscriptionRecord{}, errs.New(errs.NotFound, "transcription %s not found", id)
	}
	if err != nil {
		r.log.Warnf("store get failed, serving default sample: %v", err)
		return r.sampleWithTimestamp(), nil
	}
	return rec, nil
}

// Delete removes a record. Deleting the reserved sample is rejected without
// touching the store.
func (r *Records) Delete(ctx context.Context, id string) error {
	if id == SampleID {
		return errs.New(errs.RejectedDeletion, "the sample transcription cannot be deleted")
	}

	err := r.store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return errs.New(errs.NotFound, "transcription %s not found", id)
	}
	return err
}

// Search matches transcript text, newest first. Store failures degrade to
// the sample like the other read paths.
func (r *Records) Search(ctx context.Context, term string) []types.TranscriptionRecord {
	records, err := r.store.Search(ctx, term)
	if err != nil {
		r.log.Warnf("store search failed, serving default sample: %v", err)
		return []types.TranscriptionRecord{r.sampleWithTimestamp()}
	}
	if records == nil {
		records = []types.TranscriptionRecord{}
	}
	return records
}

// ensureSample inserts the default sample if it is absent. Keyed on the
// reserved id, so repeated calls never create duplicates.
func (r *Records) ensureSample(ctx context.Context) types.TranscriptionRecord {
	if rec, err := r.store.GetByID(ctx, SampleID); err == nil {
		return rec
	}

	sample := sampleRecord()
	sample.CreatedAt = r.now().UTC()
	if err := r.store.Insert(ctx, sample); err != nil {
		r.log.Warnf("failed to materialize default sample: %v", err)
	}
	return sample
}

func (r *Records) sampleWithTimestamp() types.TranscriptionRecord {
	sample := sampleRecord()
	sample.CreatedAt = r.now().UTC()
	return sample
}
