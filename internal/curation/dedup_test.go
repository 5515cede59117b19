package curation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"VentureScanner/internal/domain"
)

type fakePendingStore struct {
	open map[string]bool
}

func (f *fakePendingStore) Insert(context.Context, domain.PendingPost) (string, error) {
	return "", errors.New("not used")
}

func (f *fakePendingStore) Get(context.Context, string) (domain.PendingPost, error) {
	return domain.PendingPost{}, errors.New("not used")
}

func (f *fakePendingStore) UpdateStatus(context.Context, string, domain.DraftStatus) error {
	return errors.New("not used")
}

func (f *fakePendingStore) HasOpenDraft(_ context.Context, url string) (bool, error) {
	return f.open[url], nil
}

func (f *fakePendingStore) SelectApproved(context.Context, domain.Region, int) ([]domain.PendingPost, error) {
	return nil, nil
}

func (f *fakePendingStore) ExpireOlderThan(context.Context, time.Time) (int, error) {
	return 0, nil
}

type fakePostedStore struct {
	published map[string]bool
	titles    []string
}

func (f *fakePostedStore) Exists(_ context.Context, urlText string) (bool, error) {
	return f.published[urlText], nil
}

func (f *fakePostedStore) Insert(context.Context, domain.PostedNews) error { return nil }

func (f *fakePostedStore) RecentTitles(context.Context, int) ([]string, error) {
	return f.titles, nil
}

type fakeFeedbackStore struct {
	rejected []domain.NegativeConstraint
}

func (f *fakeFeedbackStore) InsertConstraint(context.Context, domain.NegativeConstraint) error {
	return nil
}

func (f *fakeFeedbackStore) ListConstraints(context.Context) ([]domain.NegativeConstraint, error) {
	return nil, nil
}

func (f *fakeFeedbackStore) RecentRejected(context.Context, int) ([]domain.NegativeConstraint, error) {
	return f.rejected, nil
}

func (f *fakeFeedbackStore) InsertMetric(context.Context, domain.PostMetric) error { return nil }

type scriptedJudge struct {
	verdicts map[string]bool
	err      error
	calls    int
}

func (j *scriptedJudge) IsDuplicate(_ context.Context, candidate domain.Candidate, _ []string) (bool, error) {
	j.calls++
	if j.err != nil {
		return false, j.err
	}
	return j.verdicts[candidate.URL], nil
}

func newTestDedup(pending *fakePendingStore, posted *fakePostedStore, rejects *fakeFeedbackStore, judge *scriptedJudge) *Deduplicator {
	if pending == nil {
		pending = &fakePendingStore{}
	}
	if posted == nil {
		posted = &fakePostedStore{}
	}
	if rejects == nil {
		rejects = &fakeFeedbackStore{}
	}
	var d *Deduplicator
	if judge == nil {
		d = NewDeduplicator(pending, posted, rejects, nil, nil)
	} else {
		d = NewDeduplicator(pending, posted, rejects, judge, nil)
	}
	return d
}

func TestFilterSeenIsIdempotent(t *testing.T) {
	t.Parallel()

	posted := &fakePostedStore{published: map[string]bool{"https://example.com/a": true}}
	dedup := newTestDedup(nil, posted, nil, nil)

	candidates := []domain.Candidate{
		{Title: "A", URL: "https://example.com/a"},
		{Title: "B", URL: "https://example.com/b"},
	}

	fresh, err := dedup.FilterSeen(context.Background(), candidates)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	require.Equal(t, "B", fresh[0].Title)

	// Re-running over the same input changes nothing.
	again, err := dedup.FilterSeen(context.Background(), candidates)
	require.NoError(t, err)
	require.Equal(t, fresh, again)
}

func TestFilterSeenDropsOpenDrafts(t *testing.T) {
	t.Parallel()

	pending := &fakePendingStore{open: map[string]bool{"https://example.com/a": true}}
	dedup := newTestDedup(pending, nil, nil, nil)

	fresh, err := dedup.FilterSeen(context.Background(), []domain.Candidate{
		{Title: "A", URL: "https://example.com/a"},
	})
	require.NoError(t, err)
	require.Empty(t, fresh)
}

func TestPickFreshSkipsSemanticDuplicates(t *testing.T) {
	t.Parallel()

	posted := &fakePostedStore{titles: []string{"Fund X raises $5M"}}
	judge := &scriptedJudge{verdicts: map[string]bool{"https://a": true}}
	dedup := newTestDedup(nil, posted, nil, judge)

	best, err := dedup.PickFresh(context.Background(), []domain.Candidate{
		{Title: "Fund X closes round", URL: "https://a"},
		{Title: "Fund Y launches", URL: "https://b"},
	})
	require.NoError(t, err)
	require.Equal(t, "https://b", best.URL)
	require.Equal(t, 2, judge.calls)
}

func TestPickFreshAllDuplicates(t *testing.T) {
	t.Parallel()

	posted := &fakePostedStore{titles: []string{"covered"}}
	judge := &scriptedJudge{verdicts: map[string]bool{"https://a": true, "https://b": true}}
	dedup := newTestDedup(nil, posted, nil, judge)

	_, err := dedup.PickFresh(context.Background(), []domain.Candidate{
		{URL: "https://a"}, {URL: "https://b"},
	})
	require.ErrorIs(t, err, ErrAllDuplicates)
}

func TestPickFreshEmptyInput(t *testing.T) {
	t.Parallel()

	dedup := newTestDedup(nil, nil, nil, nil)
	_, err := dedup.PickFresh(context.Background(), nil)
	require.ErrorIs(t, err, ErrAllDuplicates)
}

func TestPickFreshSkipsJudgeWithoutHistory(t *testing.T) {
	t.Parallel()

	judge := &scriptedJudge{verdicts: map[string]bool{"https://a": true}}
	dedup := newTestDedup(nil, nil, nil, judge)

	best, err := dedup.PickFresh(context.Background(), []domain.Candidate{{URL: "https://a"}})
	require.NoError(t, err)
	require.Equal(t, "https://a", best.URL)
	require.Zero(t, judge.calls)
}

func TestPickFreshJudgeFailureAssumesFresh(t *testing.T) {
	t.Parallel()

	posted := &fakePostedStore{titles: []string{"covered"}}
	judge := &scriptedJudge{err: errors.New("model down")}
	dedup := newTestDedup(nil, posted, nil, judge)

	best, err := dedup.PickFresh(context.Background(), []domain.Candidate{{URL: "https://a"}})
	require.NoError(t, err)
	require.Equal(t, "https://a", best.URL)
}

func TestTopicKeyCollapsesSameStory(t *testing.T) {
	t.Parallel()

	stop := map[string]struct{}{"startup": {}, "raises": {}}

	a := TopicKey("Kazakh startup Cerebra raises funding from Almaty investors", stop)
	b := TopicKey("Cerebra funding: Kazakh market gets a new AI player", stop)

	require.NotEmpty(t, a)
	require.Equal(t, a, b)
}

func TestTopicKeyEmptyForShortTitles(t *testing.T) {
	t.Parallel()

	require.Empty(t, TopicKey("a b c", nil))
}
