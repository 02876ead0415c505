package services

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/yigit/notehub/internal/app/models"
)

var referenceCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "notehub_reference_cache_total",
	Help: "Reference list lookups, by list and result (hit or miss).",
}, []string{"list", "result"})

const (
	subjectsKey   = "subjects"
	professorsKey = "professors"
)

// ReferenceService lists the subjects and professors a note can point at.
// The lists are read-only for clients and cached for a short TTL.
type ReferenceService interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListProfessors(ctx context.Context) ([]models.Professor, error)
	Invalidate()
}

type referenceServiceImpl struct {
	store      ReferenceStore
	subjects   *expirable.LRU[string, []models.Subject]
	professors *expirable.LRU[string, []models.Professor]
}

// NewReferenceService creates a ReferenceService with an expirable LRU cache
func NewReferenceService(store ReferenceStore, size int, ttl time.Duration) ReferenceService {
	if size <= 0 {
		size = 1
	}
	return &referenceServiceImpl{
		store:      store,
		subjects:   expirable.NewLRU[string, []models.Subject](size, nil, ttl),
		professors: expirable.NewLRU[string, []models.Professor](size, nil, ttl),
	}
}

// ListSubjects returns all subjects sorted by name
func (s *referenceServiceImpl) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	if cached, ok := s.subjects.Get(subjectsKey); ok {
		referenceCacheTotal.WithLabelValues(subjectsKey, "hit").Inc()
		return cached, nil
	}
	referenceCacheTotal.WithLabelValues(subjectsKey, "miss").Inc()

	subjects, err := s.store.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	s.subjects.Add(subjectsKey, subjects)
	return subjects, nil
}

// ListProfessors returns all professors sorted by name
func (s *referenceServiceImpl) ListProfessors(ctx context.Context) ([]models.Professor, error) {
	if cached, ok := s.professors.Get(professorsKey); ok {
		referenceCacheTotal.WithLabelValues(professorsKey, "hit").Inc()
		return cached, nil
	}
	referenceCacheTotal.WithLabelValues(professorsKey, "miss").Inc()

	professors, err := s.store.ListProfessors(ctx)
	if err != nil {
		return nil, err
	}
	s.professors.Add(professorsKey, professors)
	return professors, nil
}

// Invalidate drops the cached lists
func (s *referenceServiceImpl) Invalidate() {
	s.subjects.Purge()
	s.professors.Purge()
}
