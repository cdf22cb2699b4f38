// Package windows caches resolved open windows per (barber, date).
// Resolved windows depend only on operating hours rules and date constraints, so any
// write to those must invalidate the affected barber (or everything for shared writes).
//
// Every invalidation bumps a generation counter. Get reports the generation it observed
// and Set stores the value only under that generation, so a reader that loaded rules
// before a concurrent invalidation cannot put the stale day back.
package windows

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

var (
	// ErrCacheBackend возвращается при ошибке обращения к хранилищу кэша
	ErrCacheBackend = errors.New("windows.cache: backend error")

	// ErrEncode возвращается при ошибке сериализации значения
	ErrEncode = errors.New("windows.cache: failed to encode value")
)

// Generation счетчики инвалидаций: общий (All) и мастера (Scope)
type Generation struct {
	All   int64
	Scope int64
}

func (g Generation) String() string {
	return strconv.FormatInt(g.All, 10) + "." + strconv.FormatInt(g.Scope, 10)
}

// Cache кэш рассчитанных окон.
// Get возвращает поколение, под которым вызывающий код должен вызвать Set после промаха.
type Cache interface {
	Get(ctx context.Context, barberID *int64, date time.Time) (availability.ResolvedDay, Generation, bool, error)
	Set(ctx context.Context, barberID *int64, date time.Time, gen Generation, day availability.ResolvedDay) error
	// InvalidateBarber удаляет записи мастера; nil означает общее расписание и чистит всё
	InvalidateBarber(ctx context.Context, barberID *int64) error
	InvalidateAll(ctx context.Context) error
}

const sharedScope = "shared"

// scope часть ключа, определяющая мастера
func scope(barberID *int64) string {
	if barberID == nil {
		return sharedScope
	}
	return "barber:" + strconv.FormatInt(*barberID, 10)
}

// key ключ записи: "<scope>:<YYYY-MM-DD>"
func key(barberID *int64, date time.Time) string {
	return scope(barberID) + ":" + date.Format(domain.DateFormat)
}

// Nop кэш-заглушка для cache.driver = "none"
type Nop struct{}

func (Nop) Get(context.Context, *int64, time.Time) (availability.ResolvedDay, Generation, bool, error) {
	return availability.ResolvedDay{}, Generation{}, false, nil
}

func (Nop) Set(context.Context, *int64, time.Time, Generation, availability.ResolvedDay) error {
	return nil
}

func (Nop) InvalidateBarber(context.Context, *int64) error { return nil }

func (Nop) InvalidateAll(context.Context) error { return nil }
