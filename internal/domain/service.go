package domain

// Service catalogue entry (haircut, beard trim, ...)
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int // 0 = use the slot duration of the operating hours rule
	Price           float64
	IsActive        bool
}
