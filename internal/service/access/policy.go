package access

// Policy решает, кто может управлять расписанием и бронированиями мастера.
// Менеджеры заведения управляют всеми мастерами и общим ресурсом,
// мастер управляет только собой (его ID пользователя совпадает с barberId).
type Policy struct {
	managers map[int64]struct{}
}

// NewPolicy создает политику доступа по списку менеджеров
func NewPolicy(managerIDs []int64) *Policy {
	managers := make(map[int64]struct{}, len(managerIDs))
	for _, id := range managerIDs {
		managers[id] = struct{}{}
	}
	return &Policy{managers: managers}
}

// IsManager проверяет, что пользователь менеджер заведения
func (p *Policy) IsManager(userID int64) bool {
	_, ok := p.managers[userID]
	return ok
}

// CanManageBarber проверяет права на расписание и бронирования мастера.
// nil barberID означает общий ресурс заведения.
func (p *Policy) CanManageBarber(userID int64, barberID *int64) bool {
	if p.IsManager(userID) {
		return true
	}
	return barberID != nil && *barberID == userID
}
