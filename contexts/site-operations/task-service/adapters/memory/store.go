package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"zodchiy/contexts/site-operations/task-service/domain/entities"
	domainerrors "zodchiy/contexts/site-operations/task-service/domain/errors"
	"zodchiy/contexts/site-operations/task-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	tasks    map[string]entities.Task
	evidence map[string][]entities.Evidence
}

func NewStore(seed []entities.Task) *Store {
	tasks := make(map[string]entities.Task, len(seed))
	for _, item := range seed {
		if item.Version == 0 {
			item.Version = 1
		}
		tasks[item.TaskID] = item
	}
	return &Store{
		tasks:    tasks,
		evidence: make(map[string][]entities.Evidence),
	}
}

func (s *Store) CreateTask(_ context.Context, task entities.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.TaskID]; exists {
		return domainerrors.ErrInvalidTaskInput
	}
	s.tasks[task.TaskID] = task
	return nil
}

func (s *Store) GetTask(_ context.Context, taskID string) (entities.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.tasks[strings.TrimSpace(taskID)]
	if !exists {
		return entities.Task{}, domainerrors.ErrTaskNotFound
	}
	return item, nil
}

func (s *Store) ListTasks(_ context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Task, 0, len(s.tasks))
	for _, item := range s.tasks {
		if strings.TrimSpace(filter.ProjectID) != "" && item.ProjectID != strings.TrimSpace(filter.ProjectID) {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].TaskID < items[j].TaskID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateTask(_ context.Context, task entities.Task, expectedVersion int64) (entities.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.tasks[task.TaskID]
	if !exists {
		return entities.Task{}, domainerrors.ErrTaskNotFound
	}
	if existing.Version != expectedVersion {
		return entities.Task{}, domainerrors.ErrConcurrentModification
	}
	task.Version = expectedVersion + 1
	task.CreatedAt = existing.CreatedAt
	s.tasks[task.TaskID] = task
	return task, nil
}

func (s *Store) AddEvidence(_ context.Context, evidence entities.Evidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[evidence.TaskID]; !exists {
		return domainerrors.ErrTaskNotFound
	}
	s.evidence[evidence.TaskID] = append(s.evidence[evidence.TaskID], evidence)
	return nil
}

func (s *Store) ListEvidence(_ context.Context, taskID string) ([]entities.Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.Evidence(nil), s.evidence[strings.TrimSpace(taskID)]...), nil
}

func (s *Store) EvidenceCount(_ context.Context, taskID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.evidence[strings.TrimSpace(taskID)]), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
