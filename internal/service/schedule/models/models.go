package models

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модели

// BreakRequest перерыв внутри рабочего дня
type BreakRequest struct {
	StartTime types.TimeOfDay
	EndTime   types.TimeOfDay
}

// UpsertRuleRequest создание или замена правила мастера на день недели
type UpsertRuleRequest struct {
	UserID              int64
	BarberID            *int64 // nil - правило заведения по умолчанию
	DayOfWeek           time.Weekday
	OpenTime            types.TimeOfDay
	CloseTime           types.TimeOfDay
	Breaks              []BreakRequest
	SlotDurationMinutes int
	IsActive            bool
}

// ToDomainRule конвертирует request в domain модель
func (r *UpsertRuleRequest) ToDomainRule() *domain.OperatingHoursRule {
	rule := &domain.OperatingHoursRule{
		BarberID:            r.BarberID,
		DayOfWeek:           r.DayOfWeek,
		OpenTime:            r.OpenTime,
		CloseTime:           r.CloseTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		IsActive:            r.IsActive,
	}
	for _, b := range r.Breaks {
		rule.Breaks = append(rule.Breaks, domain.Break{StartTime: b.StartTime, EndTime: b.EndTime})
	}
	return rule
}

// CreateConstraintRequest закрытие части дня (или всего дня) на дату
type CreateConstraintRequest struct {
	UserID    int64
	BarberID  *int64 // nil - ограничение для всех мастеров
	Date      time.Time
	StartTime types.TimeOfDay
	EndTime   types.TimeOfDay
	Reason    *string
}

// ToDomainConstraint конвертирует request в domain модель
func (r *CreateConstraintRequest) ToDomainConstraint() *domain.DateConstraint {
	return &domain.DateConstraint{
		BarberID:  r.BarberID,
		Date:      domain.DateOnly(r.Date),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Reason:    r.Reason,
	}
}

// UpdateSettingsRequest частичное обновление настроек; обновляются только указанные поля
type UpdateSettingsRequest struct {
	UserID                  int64
	BarberID                *int64
	BufferMinutes           *int
	AdvanceBookingDays      *int
	MinBookingNoticeMinutes *int
	IncludeSharedBookings   *bool
}

// ApplyToSettings применяет обновления к настройкам
func (r *UpdateSettingsRequest) ApplyToSettings(s *domain.BookingSettings) {
	if r.BufferMinutes != nil {
		s.BufferMinutes = *r.BufferMinutes
	}
	if r.AdvanceBookingDays != nil {
		s.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		s.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.IncludeSharedBookings != nil {
		s.IncludeSharedBookings = *r.IncludeSharedBookings
	}
}

// Response модели

// BreakResponse перерыв
type BreakResponse struct {
	StartTime types.TimeOfDay `json:"startTime"`
	EndTime   types.TimeOfDay `json:"endTime"`
}

// RuleResponse правило рабочих часов
type RuleResponse struct {
	ID                  int64           `json:"id"`
	BarberID            *int64          `json:"barberId,omitempty"`
	DayOfWeek           int             `json:"dayOfWeek"` // 0 - воскресенье
	OpenTime            types.TimeOfDay `json:"openTime"`
	CloseTime           types.TimeOfDay `json:"closeTime"`
	Breaks              []BreakResponse `json:"breaks"`
	SlotDurationMinutes int             `json:"slotDurationMinutes"`
	IsActive            bool            `json:"isActive"`
}

// ConstraintResponse ограничение на дату
type ConstraintResponse struct {
	ID        int64           `json:"id"`
	BarberID  *int64          `json:"barberId,omitempty"`
	Date      string          `json:"date"`
	StartTime types.TimeOfDay `json:"startTime"`
	EndTime   types.TimeOfDay `json:"endTime"`
	Reason    *string         `json:"reason,omitempty"`
}

// SettingsResponse настройки бронирования
type SettingsResponse struct {
	BarberID                *int64 `json:"barberId,omitempty"`
	BufferMinutes           int    `json:"bufferMinutes"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
	IncludeSharedBookings   bool   `json:"includeSharedBookings"`
	IsDefault               bool   `json:"isDefault"` // настройки не сохранены, используются значения по умолчанию
}

// ScheduleResponse недельное расписание мастера и ближайшие ограничения
type ScheduleResponse struct {
	BarberID    *int64               `json:"barberId,omitempty"`
	Rules       []RuleResponse       `json:"rules"`
	Constraints []ConstraintResponse `json:"constraints"`
	Settings    SettingsResponse     `json:"settings"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.OperatingHoursRule) RuleResponse {
	resp := RuleResponse{
		ID:                  r.ID,
		BarberID:            r.BarberID,
		DayOfWeek:           int(r.DayOfWeek),
		OpenTime:            r.OpenTime,
		CloseTime:           r.CloseTime,
		Breaks:              make([]BreakResponse, 0, len(r.Breaks)),
		SlotDurationMinutes: r.SlotDurationMinutes,
		IsActive:            r.IsActive,
	}
	for _, b := range r.Breaks {
		resp.Breaks = append(resp.Breaks, BreakResponse{StartTime: b.StartTime, EndTime: b.EndTime})
	}
	return resp
}

// FromDomainConstraint конвертирует domain модель в DTO
func FromDomainConstraint(c *domain.DateConstraint) ConstraintResponse {
	return ConstraintResponse{
		ID:        c.ID,
		BarberID:  c.BarberID,
		Date:      c.Date.Format(domain.DateFormat),
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		Reason:    c.Reason,
	}
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.BookingSettings, isDefault bool) SettingsResponse {
	return SettingsResponse{
		BarberID:                s.BarberID,
		BufferMinutes:           s.BufferMinutes,
		AdvanceBookingDays:      s.AdvanceBookingDays,
		MinBookingNoticeMinutes: s.MinBookingNoticeMinutes,
		IncludeSharedBookings:   s.IncludeSharedBookings,
		IsDefault:               isDefault,
	}
}
