package domain

import "context"

// UserRepository defines access methods for donor accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	TopByDivertedWeight(ctx context.Context, limit int) ([]User, error)
}

// MoneyLeaderboardEntry is a donor's summed monetary giving.
type MoneyLeaderboardEntry struct {
	Username    string
	TotalAmount float64
}

// DonationRepository handles donation persistence. Create must insert the
// donation and, for weight-bearing kinds, add the weight to the donor's
// cumulative counter in the same transaction.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	ListByUser(ctx context.Context, userID string) ([]Donation, error)
	TotalDivertedKg(ctx context.Context) (float64, error)
	TopMoneyDonors(ctx context.Context, limit int) ([]MoneyLeaderboardEntry, error)
}

// CenterRepository reads collection-center reference data.
type CenterRepository interface {
	List(ctx context.Context) ([]Center, error)
	GetByID(ctx context.Context, id string) (*Center, error)
}
