package availability

import "errors"

// ErrInvalidQuery возвращается при нарушении контракта запроса (отрицательная длительность, буфер и т.п.)
var ErrInvalidQuery = errors.New("availability: invalid query")
