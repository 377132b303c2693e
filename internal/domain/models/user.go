package models

import "time"

// User представляет зарегистрированного пользователя
type User struct {
	ID        int64
	Name      string // уникальное, буквенно-цифровое, 4-12 символов
	Email     string // уникальный
	PassHash  []byte
	CreatedAt time.Time
}
