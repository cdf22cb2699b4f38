package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes     = 30
	DefaultBufferMinutes           = 0
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
	DefaultIncludeSharedBookings   = true
	DefaultHorizonDays             = 14
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MaxBufferMinutes            = 240
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxReasonLength             = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов неактивных бронирований
// Используется для фильтрации при подсчёте доступных слотов
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledByBusiness,
	StatusNoShow,
}

// ActiveStatuses список статусов активных бронирований
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
