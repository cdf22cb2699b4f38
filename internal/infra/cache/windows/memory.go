package windows

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
)

type memoryEntry struct {
	day       availability.ResolvedDay
	gen       Generation
	expiresAt time.Time
}

// Memory in-process кэш с TTL. Просроченные записи удаляются лениво при чтении.
type Memory struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	allGen   int64
	scopeGen map[string]int64
	ttl      time.Duration
	now      func() time.Time
}

// NewMemory создает in-memory кэш; ttl <= 0 означает записи без срока жизни
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries:  make(map[string]memoryEntry),
		scopeGen: make(map[string]int64),
		ttl:      ttl,
		now:      time.Now,
	}
}

// generation текущее поколение scope; вызывается под mu
func (m *Memory) generation(barberID *int64) Generation {
	return Generation{All: m.allGen, Scope: m.scopeGen[scope(barberID)]}
}

func (m *Memory) Get(_ context.Context, barberID *int64, date time.Time) (availability.ResolvedDay, Generation, bool, error) {
	k := key(barberID, date)

	m.mu.RLock()
	entry, ok := m.entries[k]
	gen := m.generation(barberID)
	m.mu.RUnlock()

	if !ok || entry.gen != gen {
		return availability.ResolvedDay{}, gen, false, nil
	}

	if m.expired(entry) {
		m.mu.Lock()
		// запись могли перезаписать между RUnlock и Lock
		if current, ok := m.entries[k]; ok && m.expired(current) {
			delete(m.entries, k)
		}
		m.mu.Unlock()
		return availability.ResolvedDay{}, gen, false, nil
	}

	return cloneDay(entry.day), gen, true, nil
}

// Set сохраняет окна, только если с момента Get не было инвалидации
func (m *Memory) Set(_ context.Context, barberID *int64, date time.Time, gen Generation, day availability.ResolvedDay) error {
	entry := memoryEntry{day: cloneDay(day), gen: gen}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation(barberID) != gen {
		return nil
	}
	m.entries[key(barberID, date)] = entry

	return nil
}

func (m *Memory) InvalidateBarber(ctx context.Context, barberID *int64) error {
	if barberID == nil {
		return m.InvalidateAll(ctx)
	}

	s := scope(barberID)
	prefix := s + ":"

	m.mu.Lock()
	m.scopeGen[s]++
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()

	return nil
}

func (m *Memory) InvalidateAll(context.Context) error {
	m.mu.Lock()
	m.allGen++
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

func (m *Memory) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt)
}

// Len число записей, включая еще не удаленные просроченные
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// cloneDay копирует окна, чтобы вызывающий код не мог изменить закэшированное значение
func cloneDay(day availability.ResolvedDay) availability.ResolvedDay {
	windows := make([]availability.Interval, len(day.Windows))
	copy(windows, day.Windows)
	day.Windows = windows
	return day
}
