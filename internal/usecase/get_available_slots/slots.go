package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// resolveDay берет окна дня из кэша, при промахе считает их по правилам и ограничениям.
// Ошибки кэша не критичны: логируем и считаем окна заново.
// Поколение фиксируется до чтения правил, поэтому параллельное изменение расписания
// не оставит в кэше устаревшие окна.
func (uc *UseCase) resolveDay(ctx context.Context, barberID *int64, date time.Time) (availability.ResolvedDay, error) {
	day, gen, ok, err := uc.cache.Get(ctx, barberID, date)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: windows cache get failed: %v", err)
	}
	if ok {
		uc.metrics.CacheHit()
		return day, nil
	}
	uc.metrics.CacheMiss()

	rules, err := uc.scheduleRepo.GetRulesByBarber(ctx, barberID)
	if err != nil {
		return availability.ResolvedDay{}, fmt.Errorf("failed to get operating hours: %w", err)
	}

	constraints, err := uc.scheduleRepo.GetConstraintsInRange(ctx, barberID, date, date)
	if err != nil {
		return availability.ResolvedDay{}, fmt.Errorf("failed to get date constraints: %w", err)
	}

	day = availability.ResolveDay(barberID, date, rules, constraints)

	if err := uc.cache.Set(ctx, barberID, date, gen, day); err != nil {
		uc.logger.Warn("GetAvailableSlots: windows cache set failed: %v", err)
	}

	return day, nil
}

// bookingsFilter выборка бронирований, которые могут занимать время мастера на дату
func bookingsFilter(barberID *int64, date time.Time, scope availability.ScopeMode) domain.BookingsFilter {
	filter := domain.BookingsFilter{
		StartDate:       &date,
		EndDate:         &date,
		IncludeInactive: false, // Только активные бронирования
	}

	if barberID == nil {
		filter.OnlyShared = true
	} else {
		filter.BarberID = barberID
		filter.WithShared = scope == availability.ScopeWithShared
	}

	return filter
}

// toAvailableSlots преобразует времена начала в слоты ответа
func toAvailableSlots(starts []types.TimeOfDay, duration int) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, len(starts))
	for i, start := range starts {
		slots[i] = domain.AvailableSlot{StartTime: start, DurationMinutes: duration}
	}
	return slots
}

// noticeAdjustedNow сдвигает "сейчас" на минимальное время до бронирования
func noticeAdjustedNow(now time.Time, noticeMinutes int) time.Time {
	return now.Add(time.Duration(noticeMinutes) * time.Minute)
}
