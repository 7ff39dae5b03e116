package domain

import "time"

// User описывает владельца продукта. Управляется подсистемой аутентификации,
// здесь используется только для чтения.
type User struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
}
