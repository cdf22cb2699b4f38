package domain

import "time"

// BookingSettings booking rules of the shop.
// Supports hierarchical configuration:
// 1. Barber-specific (barber_id)
// 2. Shop-wide (barber_id NULL)
type BookingSettings struct {
	ID                      int64
	BarberID                *int64 // NULL = settings for all barbers
	BufferMinutes           int    // mandatory gap between consecutive bookings
	AdvanceBookingDays      int    // 0 = unlimited
	MinBookingNoticeMinutes int
	IncludeSharedBookings   bool // bookings without a barber also block this barber
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsGlobal returns true if these are the shop-wide settings
func (s *BookingSettings) IsGlobal() bool {
	return s.BarberID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (s *BookingSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// DefaultBookingSettings settings used when nothing is stored
func DefaultBookingSettings() *BookingSettings {
	return &BookingSettings{
		BufferMinutes:           DefaultBufferMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		IncludeSharedBookings:   DefaultIncludeSharedBookings,
	}
}
