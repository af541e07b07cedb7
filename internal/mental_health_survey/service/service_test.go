package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

func student(year, age, course, gender, dep, anx, panic, treat string) domain.Record {
	return domain.Record{
		YearOfStudy: year, Age: age, Course: course, Gender: gender, CGPA: "3.00 - 3.49",
		MaritalStatus: "No", Depression: dep, Anxiety: anx, PanicAttack: panic, Treatment: treat,
	}
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		student("year 1", "18", "Engineering", "Female", "Yes", "No", "No", "No"),
		student("Year 2", "21", "Law", "Male", "No", "No", "No", "No"),
		student("year 1", "19", "BIT", "Male", "Yes", "Yes", "No", "Yes"),
	}
}

// memCache is an in-memory OutputCache.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) key(version, kind, param string) string {
	return version + ":" + kind + ":" + param
}

func (c *memCache) Get(_ context.Context, version, kind, param string, dst any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.entries[c.key(version, kind, param)]
	if !ok {
		return domain.ErrCacheMiss
	}
	return json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, version, kind, param string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(version, kind, param)] = b
	return nil
}

func (c *memCache) InvalidateVersion(_ context.Context, version string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if len(k) > len(version) && k[:len(version)+1] == version+":" {
			delete(c.entries, k)
		}
	}
	return nil
}

type memStore struct {
	snaps []domain.Snapshot
}

func (m *memStore) Create(_ context.Context, s *domain.Snapshot) error {
	m.snaps = append(m.snaps, *s)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*domain.Snapshot, error) {
	for i := range m.snaps {
		if m.snaps[i].ID == id {
			return &m.snaps[i], nil
		}
	}
	return nil, domain.ErrSnapshotNotFound
}

func (m *memStore) ListRecent(_ context.Context, limit int) ([]domain.Snapshot, error) {
	if len(m.snaps) < limit {
		limit = len(m.snaps)
	}
	return m.snaps[:limit], nil
}

func TestDatasetReloadKeepsPreviousOnFailure(t *testing.T) {
	fail := false
	ds := NewDataset("survey.csv", func(ctx context.Context, path string) ([]domain.Record, error) {
		if fail {
			return nil, &domain.LoadError{Source: path, Reason: "boom"}
		}
		return sampleRecords(), nil
	})

	_, _, err := ds.View()
	assert.ErrorIs(t, err, domain.ErrDatasetNotLoaded)

	require.NoError(t, ds.Reload(context.Background()))
	version := ds.Version()
	assert.Len(t, version, 16)
	assert.Equal(t, 3, ds.Len())

	fail = true
	err = ds.Reload(context.Background())
	assert.ErrorIs(t, err, domain.ErrLoad)
	assert.Equal(t, version, ds.Version())
	assert.Equal(t, 3, ds.Len())
}

func TestDatasetRecordsIsACopy(t *testing.T) {
	ds := NewStaticDataset(sampleRecords())
	recs := ds.Records()
	recs[0].Gender = "changed"
	assert.Equal(t, "Female", ds.Records()[0].Gender)
}

func TestDatasetVersionIsContentHash(t *testing.T) {
	a := NewStaticDataset(sampleRecords())
	b := NewStaticDataset(sampleRecords())
	assert.Equal(t, a.Version(), b.Version())

	other := sampleRecords()
	other[1].Age = "22"
	assert.NotEqual(t, a.Version(), NewStaticDataset(other).Version())
}

func TestAnalyzeDefaults(t *testing.T) {
	res, err := Analyze(context.Background(), sampleRecords(), Selection{})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.RecordCount)
	assert.Equal(t, domain.FieldGender, res.Selection.Field)
	require.Len(t, res.Frequencies, 2)
	assert.Equal(t, "male", res.Frequencies[0].Value)
	assert.Nil(t, res.CrossTab)
	assert.Len(t, res.Flow.Stages, 4)
	assert.Equal(t, 3, res.Flow.Placed)
	assert.True(t, res.Matrix.Symmetric())
	assert.Equal(t, "All Students", res.Tree.Name)
	assert.Empty(t, res.Issues)
}

func TestAnalyzeRejectsUnknownSelections(t *testing.T) {
	_, err := Analyze(context.Background(), sampleRecords(), Selection{Stages: []string{"year", "planet"}})
	assert.ErrorIs(t, err, domain.ErrUnknownStage)

	_, err = Analyze(context.Background(), sampleRecords(), Selection{View: "Astrology"})
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	_, err = Analyze(context.Background(), sampleRecords(), Selection{Stages: []string{"year"}})
	assert.ErrorIs(t, err, domain.ErrTooFewStages)
}

func TestAnalyzeCrossTab(t *testing.T) {
	res, err := Analyze(context.Background(), sampleRecords(), Selection{Field: domain.FieldYear, By: domain.FieldGender})
	require.NoError(t, err)
	require.NotEmpty(t, res.CrossTab)
	assert.Equal(t, "Year 1", res.CrossTab[0].Value)
	assert.Equal(t, 2, res.CrossTab[0].Total)
}

func TestAnalyzeFileWritesRunArtifacts(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "survey.csv")
	body := "Choose your gender,Age,What is your course?,Your current year of Study,What is your CGPA?,Marital status,Do you have Depression?,Do you have Anxiety?,Do you have Panic attack?,Did you seek any specialist for a treatment?\n" +
		"Female,18,Engineering,year 1,3.00 - 3.49,No,Yes,No,Yes,No\n" +
		"Male,21,Law,year 2,3.50 - 4.00,No,No,No,No,No\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(body), 0o644))

	out := filepath.Join(dir, "out")
	res, err := AnalyzeFile(context.Background(), csvPath, out, Selection{})
	require.NoError(t, err)

	runDir := filepath.Join(out, "runs", res.RunID)
	for _, name := range []string{"analysis.json", "analysis.yaml", "flow.dot"} {
		_, err := os.Stat(filepath.Join(runDir, name))
		assert.NoError(t, err, name)
	}
	assert.Equal(t, filepath.Join(runDir, "flow.dot"), res.DOTPath)
}

func TestAnalyzeFileLoadError(t *testing.T) {
	_, err := AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), t.TempDir(), Selection{})
	assert.ErrorIs(t, err, domain.ErrLoad)
}

func TestSurveyServiceCachesOutputs(t *testing.T) {
	ResetMetrics()
	cache := newMemCache()
	svc := NewSurveyService(NewStaticDataset(sampleRecords()), cache, nil)
	ctx := context.Background()

	first, err := svc.Frequencies(ctx, domain.FieldGender, "")
	require.NoError(t, err)
	second, err := svc.Frequencies(ctx, domain.FieldGender, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	m := GetMetrics()
	assert.Equal(t, int64(1), m.CacheMisses)
	assert.Equal(t, int64(1), m.CacheHits)
}

func TestSurveyServiceQueries(t *testing.T) {
	svc := NewSurveyService(NewStaticDataset(sampleRecords()), nil, nil)
	ctx := context.Background()

	combos, err := svc.Combinations(ctx)
	require.NoError(t, err)
	total := 0
	for _, c := range combos {
		total += c.Count
	}
	assert.Equal(t, 3, total)

	detail, err := svc.CombinationDetail(ctx, "nothing here")
	require.NoError(t, err)
	assert.Empty(t, detail)

	g, err := svc.Flow(ctx, "year,treatment")
	require.NoError(t, err)
	assert.Len(t, g.Stages, 2)

	_, err = svc.Flow(ctx, "year,zodiac")
	assert.ErrorIs(t, err, domain.ErrUnknownStage)

	cond, err := svc.ConditionFlow(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, cond.Edges)

	m, err := svc.Matrix(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Get("18", "Depression"))

	tree, err := svc.Hierarchy(ctx, "stem")
	require.NoError(t, err)
	assert.Equal(t, "STEM", tree.Name)

	_, err = svc.Hierarchy(ctx, "Astrology")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestStaticDatasetReloadHasNoSource(t *testing.T) {
	ds := NewStaticDataset(sampleRecords())
	err := ds.Reload(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSource)
	assert.NotErrorIs(t, err, domain.ErrDatasetNotLoaded)

	records, _, err := ds.View()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		SetLogLevel("info")
	})

	l := NewLogger(context.Background())
	SetLogLevel("warn")
	l.LogInfof("op", "dropped=%d", 1)
	l.LogWarnf("op", "kept=%d", 2)
	assert.NotContains(t, buf.String(), "dropped=1")
	assert.Contains(t, buf.String(), "[warn] request_id=none operation=op kept=2")

	buf.Reset()
	SetLogLevel("ERROR")
	l.LogWarnf("op", "dropped=%d", 3)
	l.LogError("op", errors.New("boom"))
	assert.NotContains(t, buf.String(), "dropped=3")
	assert.Contains(t, buf.String(), "[error] request_id=none operation=op error=boom")

	buf.Reset()
	SetLogLevel("debug")
	l.LogInfof("op", "kept=%d", 4)
	assert.Contains(t, buf.String(), "[info] request_id=none operation=op kept=4")
}

func TestSurveyServiceNotLoaded(t *testing.T) {
	svc := NewSurveyService(NewDataset("x.csv", nil), nil, nil)
	_, err := svc.Matrix(context.Background())
	assert.ErrorIs(t, err, domain.ErrDatasetNotLoaded)
}

func TestSurveyServiceReloadInvalidatesOldVersion(t *testing.T) {
	calls := 0
	ds := NewDataset("survey.csv", func(ctx context.Context, path string) ([]domain.Record, error) {
		calls++
		recs := sampleRecords()
		if calls > 1 {
			recs = append(recs, student("Year 3", "23", "Nursing", "Female", "No", "Yes", "No", "No"))
		}
		return recs, nil
	})
	cache := newMemCache()
	svc := NewSurveyService(ds, cache, nil)
	ctx := context.Background()

	require.NoError(t, svc.Reload(ctx))
	_, err := svc.Matrix(ctx)
	require.NoError(t, err)
	assert.Len(t, cache.entries, 1)

	require.NoError(t, svc.Reload(ctx))
	assert.Empty(t, cache.entries)
}

func TestSurveyServiceSnapshots(t *testing.T) {
	ctx := context.Background()
	disabled := NewSurveyService(NewStaticDataset(sampleRecords()), nil, nil)
	_, err := disabled.CreateSnapshot(ctx, Selection{})
	assert.ErrorIs(t, err, domain.ErrStoreDisabled)
	assert.False(t, disabled.SnapshotsEnabled())

	store := &memStore{}
	svc := NewSurveyService(NewStaticDataset(sampleRecords()), nil, store)
	snap, err := svc.CreateSnapshot(ctx, Selection{})
	require.NoError(t, err)
	assert.Equal(t, 3, snap.RecordCount)
	assert.Equal(t, svc.Dataset().Version(), snap.DatasetVersion)

	var res Result
	require.NoError(t, json.Unmarshal(snap.Result, &res))
	assert.Equal(t, snap.ID, res.RunID)

	got, err := svc.GetSnapshot(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)

	_, err = svc.GetSnapshot(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	list, err := svc.ListSnapshots(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

type countingReloader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingReloader) Reload(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(&countingReloader{}, "not a cron spec")
	assert.Error(t, s.Start())
}

func TestSchedulerRunReload(t *testing.T) {
	r := &countingReloader{err: fmt.Errorf("wrapped: %w", errors.New("disk gone"))}
	s := NewScheduler(r, "")
	assert.Equal(t, DefaultReloadSpec, s.spec)
	s.runReload()
	assert.Equal(t, 1, r.calls)
}
