package models

// Coin - отслеживаемая монета. Торговать можно только активными.
type Coin struct {
	ID       int64
	Name     string // идентификатор у поставщика котировок, например "bitcoin"
	IsActive bool
}
