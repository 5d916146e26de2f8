package domain

import "time"

// User is a registered donor. TotalWasteDivertedKg accumulates the weight of
// every clothing/other donation and only ever grows.
type User struct {
	ID                   string
	Username             string
	Email                string
	PasswordHash         string
	TotalWasteDivertedKg float64
	CreatedAt            time.Time
}
