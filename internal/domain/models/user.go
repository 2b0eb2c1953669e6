package models

import "time"

// роли пользователей
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User представляет пользователя бэк-офиса
type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	PassHash  []byte    `db:"password" json:"-"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"` // может быть пустым, в БД NULL
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
