package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/aggregate"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/flow"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/hierarchy"
	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/matrix"
)

// OutputCache stores builder outputs keyed by dataset version.
type OutputCache interface {
	Get(ctx context.Context, version, kind, param string, dst any) error
	Set(ctx context.Context, version, kind, param string, v any) error
	InvalidateVersion(ctx context.Context, version string) error
}

// SnapshotStore persists pipeline runs.
type SnapshotStore interface {
	Create(ctx context.Context, s *domain.Snapshot) error
	GetByID(ctx context.Context, id string) (*domain.Snapshot, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Snapshot, error)
}

// Cache kinds.
const (
	KindFrequencies   = "frequencies"
	KindCombinations  = "combinations"
	KindFlow          = "flow"
	KindConditionFlow = "flow_conditions"
	KindMatrix        = "matrix"
	KindHierarchy     = "hierarchy"
)

type FrequencyView struct {
	Field    domain.Field            `json:"field"`
	By       domain.Field            `json:"by,omitempty"`
	Entries  []domain.FrequencyEntry `json:"entries,omitempty"`
	CrossTab []domain.CrossTabRow    `json:"cross_tab,omitempty"`
}

// SurveyService answers builder queries against the current dataset.
// cache and store may be nil.
type SurveyService struct {
	dataset    *Dataset
	cache      OutputCache
	store      SnapshotStore
	categories []hierarchy.Category
}

func NewSurveyService(dataset *Dataset, cache OutputCache, store SnapshotStore) *SurveyService {
	return &SurveyService{
		dataset:    dataset,
		cache:      cache,
		store:      store,
		categories: hierarchy.DefaultCategories(),
	}
}

func (s *SurveyService) Dataset() *Dataset { return s.dataset }

func (s *SurveyService) Categories() []hierarchy.Category { return s.categories }

func (s *SurveyService) SnapshotsEnabled() bool { return s.store != nil }

// cached serves kind/param from the cache or builds and stores it.
func cached[T any](ctx context.Context, s *SurveyService, kind, param string, build func([]domain.Record) (T, error)) (T, error) {
	var zero T
	records, version, err := s.dataset.View()
	if err != nil {
		return zero, err
	}
	log := NewLogger(ctx)
	if s.cache != nil {
		var hit T
		err := s.cache.Get(ctx, version, kind, param, &hit)
		if err == nil {
			recordCacheHit()
			return hit, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.LogWarnf("cache_get", "kind=%s param=%s error=%v", kind, param, err)
		}
		recordCacheMiss()
	}
	out, err := build(records)
	if err != nil {
		return zero, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, version, kind, param, out); err != nil {
			log.LogWarnf("cache_set", "kind=%s param=%s error=%v", kind, param, err)
		}
	}
	return out, nil
}

func (s *SurveyService) Frequencies(ctx context.Context, field, by domain.Field) (*FrequencyView, error) {
	return cached(ctx, s, KindFrequencies, string(field)+"|"+string(by), func(records []domain.Record) (*FrequencyView, error) {
		v := &FrequencyView{Field: field, By: by}
		if by == "" {
			v.Entries = aggregate.Frequencies(records, field)
			if v.Entries == nil {
				v.Entries = []domain.FrequencyEntry{}
			}
			return v, nil
		}
		v.CrossTab = aggregate.CrossTab(records, field, by)
		if v.CrossTab == nil {
			v.CrossTab = []domain.CrossTabRow{}
		}
		return v, nil
	})
}

func (s *SurveyService) Combinations(ctx context.Context) ([]domain.CombinationEntry, error) {
	return cached(ctx, s, KindCombinations, "all", func(records []domain.Record) ([]domain.CombinationEntry, error) {
		out := aggregate.Combinations(records, aggregate.DefaultConditionFlags)
		if out == nil {
			out = []domain.CombinationEntry{}
		}
		return out, nil
	})
}

// CombinationDetail returns the gender breakdown for one combination key.
func (s *SurveyService) CombinationDetail(ctx context.Context, key string) ([]domain.FrequencyEntry, error) {
	return cached(ctx, s, KindCombinations, "key="+key, func(records []domain.Record) ([]domain.FrequencyEntry, error) {
		out := aggregate.CombinationDetail(records, aggregate.DefaultConditionFlags, key)
		if out == nil {
			out = []domain.FrequencyEntry{}
		}
		return out, nil
	})
}

func (s *SurveyService) Flow(ctx context.Context, stages string) (*domain.FlowGraph, error) {
	parsed, err := flow.ParseStages(stages)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(parsed))
	for i, st := range parsed {
		names[i] = st.Name
	}
	return cached(ctx, s, KindFlow, strings.Join(names, ","), func(records []domain.Record) (*domain.FlowGraph, error) {
		return flow.Build(records, parsed)
	})
}

func (s *SurveyService) ConditionFlow(ctx context.Context) (*domain.FlowGraph, error) {
	return cached(ctx, s, KindConditionFlow, "year", func(records []domain.Record) (*domain.FlowGraph, error) {
		return flow.BuildConditionStatus(records), nil
	})
}

func (s *SurveyService) Matrix(ctx context.Context) (*domain.Matrix, error) {
	return cached(ctx, s, KindMatrix, "default", func(records []domain.Record) (*domain.Matrix, error) {
		return matrix.BuildDefault(records), nil
	})
}

func (s *SurveyService) Hierarchy(ctx context.Context, view string) (*domain.TreeNode, error) {
	if view == "" {
		view = hierarchy.ViewAll
	}
	if !strings.EqualFold(view, hierarchy.ViewAll) {
		cat, err := hierarchy.Find(s.categories, view)
		if err != nil {
			return nil, err
		}
		view = cat.Name
	}
	return cached(ctx, s, KindHierarchy, view, func(records []domain.Record) (*domain.TreeNode, error) {
		return hierarchy.BuildView(records, s.categories, view)
	})
}

// Reload re-reads the dataset and drops cached outputs of the old version
// when the content changed.
func (s *SurveyService) Reload(ctx context.Context) error {
	old := s.dataset.Version()
	if err := s.dataset.Reload(ctx); err != nil {
		return err
	}
	if s.cache != nil && old != "" && old != s.dataset.Version() {
		if err := s.cache.InvalidateVersion(ctx, old); err != nil {
			NewLogger(ctx).LogWarnf("cache_invalidate", "version=%s error=%v", old, err)
		}
	}
	return nil
}

// CreateSnapshot runs the full pipeline and persists the result.
func (s *SurveyService) CreateSnapshot(ctx context.Context, sel Selection) (*domain.Snapshot, error) {
	if s.store == nil {
		return nil, domain.ErrStoreDisabled
	}
	records, version, err := s.dataset.View()
	if err != nil {
		return nil, err
	}
	res, err := Analyze(ctx, records, sel)
	if err != nil {
		return nil, err
	}
	res.DatasetVersion = version
	body, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	snap := &domain.Snapshot{
		ID:             res.RunID,
		DatasetVersion: version,
		RecordCount:    res.RecordCount,
		SkippedRows:    res.Flow.Skipped,
		Result:         body,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Create(ctx, snap); err != nil {
		NewLogger(ctx).LogError("snapshot_create", err)
		return nil, err
	}
	recordSnapshotSave()
	return snap, nil
}

func (s *SurveyService) GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error) {
	if s.store == nil {
		return nil, domain.ErrStoreDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrSnapshotNotFound
	}
	return s.store.GetByID(ctx, id)
}

func (s *SurveyService) ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	if s.store == nil {
		return nil, domain.ErrStoreDisabled
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListRecent(ctx, limit)
}
