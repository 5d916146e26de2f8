package repo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"greencycle/internal/domain"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// Create inserts the donation and, for weight-bearing kinds, adds the weight
// to the donor's cumulative counter. Both writes run in one transaction: the
// counter update is a single atomic expression so concurrent donations from
// the same donor cannot lose updates.
func (r *DonationRepositoryPG) Create(ctx context.Context, donation *domain.Donation) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
INSERT INTO donations (id, user_id, center_id, kind, weight_kg, image_key, grade, amount, currency, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`, donation.ID, donation.UserID, donation.CenterID, donation.Kind, donation.WeightKg,
			donation.ImageKey, donation.Grade, donation.Amount, donation.Currency,
			donation.Description, donation.CreatedAt)
		if err != nil {
			return err
		}
		if !donation.Kind.HasWeight() {
			return nil
		}
		tag, err := tx.Exec(ctx, `
UPDATE users
SET total_waste_diverted_kg = total_waste_diverted_kg + $1
WHERE id = $2;
`, *donation.WeightKg, donation.UserID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ListByUser returns the donor's donations, newest first.
func (r *DonationRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Donation, error) {
	query, args, err := psql.
		Select("id", "user_id", "center_id", "kind", "weight_kg", "image_key", "grade", "amount", "currency", "description", "created_at").
		From("donations").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.UserID, &d.CenterID, &d.Kind, &d.WeightKg, &d.ImageKey, &d.Grade, &d.Amount, &d.Currency, &d.Description, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// TotalDivertedKg sums every recorded donation weight across the program.
func (r *DonationRepositoryPG) TotalDivertedKg(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(weight_kg), 0) FROM donations;`).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// TopMoneyDonors returns donors ranked by their summed monetary giving.
func (r *DonationRepositoryPG) TopMoneyDonors(ctx context.Context, limit int) ([]domain.MoneyLeaderboardEntry, error) {
	query, args, err := psql.
		Select("u.username", "SUM(d.amount) AS total_donated").
		From("donations d").
		Join("users u ON u.id = d.user_id").
		Where(sq.Eq{"d.kind": domain.DonationKindMoney}).
		GroupBy("u.username").
		OrderBy("total_donated DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.MoneyLeaderboardEntry
	for rows.Next() {
		var e domain.MoneyLeaderboardEntry
		if err := rows.Scan(&e.Username, &e.TotalAmount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)
