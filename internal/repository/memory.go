package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/subeerhaldar/graphql-demo/internal/metrics"
	"github.com/subeerhaldar/graphql-demo/internal/models"
)

// MemoryStore keeps employees in process memory, keyed by a monotonically increasing id.
type MemoryStore struct {
	mu        sync.RWMutex
	employees map[int]models.Employee
	lastID    int

	// writer holds a token while a session is open.
	writer  chan struct{}
	metrics *metrics.Metrics
}

func NewMemoryStore(appMetrics *metrics.Metrics) *MemoryStore {
	return &MemoryStore{
		employees: make(map[int]models.Employee),
		writer:    make(chan struct{}, 1),
		metrics:   appMetrics,
	}
}

// List returns a snapshot of all committed employees ordered by id.
func (s *MemoryStore) List(_ context.Context) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Employee, 0, len(s.employees))
	for _, id := range slices.Sorted(maps.Keys(s.employees)) {
		result = append(result, s.employees[id])
	}

	return result, nil
}

// Find returns a copy of the committed employee with the given id.
func (s *MemoryStore) Find(_ context.Context, identifier int) (models.Employee, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[identifier]

	return employee, ok, nil
}

// Begin waits until no other session is open, or ctx is done.
func (s *MemoryStore) Begin(ctx context.Context) (EmployeeSession, error) {
	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to begin session: %w", ctx.Err())
	}

	return &memorySession{store: s, staged: make(map[int]*models.Employee)}, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of committed employees.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.employees)
}

func (s *MemoryStore) nextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++

	return s.lastID
}

func (s *MemoryStore) release() {
	<-s.writer
}

type memorySession struct {
	store *MemoryStore
	// staged maps an id to its pending value; a nil value marks a removal.
	staged map[int]*models.Employee
	order  []int
	closed bool
}

func (ms *memorySession) Find(ctx context.Context, identifier int) (models.Employee, bool, error) {
	if ms.closed {
		return models.Employee{}, false, ErrSessionClosed
	}
	if pending, ok := ms.staged[identifier]; ok {
		if pending == nil {
			return models.Employee{}, false, nil
		}
		return *pending, true, nil
	}

	return ms.store.Find(ctx, identifier)
}

func (ms *memorySession) Add(_ context.Context, employee *models.Employee) error {
	if ms.closed {
		return ErrSessionClosed
	}

	// ids handed out here are never reused, even if the session is rolled back.
	employee.ID = ms.store.nextID()
	ms.stage(employee.ID, *employee)

	return nil
}

func (ms *memorySession) Update(ctx context.Context, employee models.Employee) error {
	_, found, err := ms.Find(ctx, employee.ID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("failed to update employee %d: %w", employee.ID, ErrNotFound)
	}

	ms.stage(employee.ID, employee)

	return nil
}

func (ms *memorySession) Remove(ctx context.Context, identifier int) error {
	_, found, err := ms.Find(ctx, identifier)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("failed to remove employee %d: %w", identifier, ErrNotFound)
	}

	if _, ok := ms.staged[identifier]; !ok {
		ms.order = append(ms.order, identifier)
	}
	ms.staged[identifier] = nil

	return nil
}

func (ms *memorySession) stage(identifier int, employee models.Employee) {
	if _, ok := ms.staged[identifier]; !ok {
		ms.order = append(ms.order, identifier)
	}
	ms.staged[identifier] = &employee
}

func (ms *memorySession) Commit(_ context.Context) error {
	if ms.closed {
		return ErrSessionClosed
	}

	ms.store.mu.Lock()
	for _, id := range ms.order {
		if pending := ms.staged[id]; pending != nil {
			ms.store.employees[id] = *pending
		} else {
			delete(ms.store.employees, id)
		}
	}
	size := len(ms.store.employees)
	ms.store.mu.Unlock()

	if ms.store.metrics != nil {
		ms.store.metrics.EmployeesStored.Set(float64(size))
	}

	ms.close()

	return nil
}

func (ms *memorySession) Rollback(_ context.Context) error {
	if ms.closed {
		return nil
	}

	ms.close()

	return nil
}

func (ms *memorySession) close() {
	ms.closed = true
	ms.staged = nil
	ms.order = nil
	ms.store.release()
}
