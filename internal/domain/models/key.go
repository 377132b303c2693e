package models

import "time"

// Key - пара ключей, выдаваемая при каждом логине.
// PublicKey передаётся в токене, SecretKey используется для его подписи.
type Key struct {
	ID        int64
	UserID    int64
	PublicKey string
	SecretKey string
	CreatedAt time.Time
}
