package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"minibnb/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// erDupEntry is MySQL's duplicate-key error; unique constraints on
// (listing_id, cohost_id) and (listing_id, guest_id, host_id) surface as it.
const erDupEntry = 1062

func isDupEntry(err error) bool {
	var me *driver.MySQLError
	return errors.As(err, &me) && me.Number == erDupEntry
}

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func marshalList(xs []string) string {
	if xs == nil {
		xs = []string{}
	}
	b, _ := json.Marshal(xs)
	return string(b)
}

// ---- users ----

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, getUserSQL, id)

	var u domain.User
	var passwordHash, githubID sql.NullString
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&passwordHash,
		&githubID,
		&u.IsHost,
		&u.GrantCount,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	u.PasswordHash = strPtr(passwordHash)
	u.GithubID = strPtr(githubID)
	return u, nil
}

func (r *Repo) UpdateProfile(ctx context.Context, id int64, upd domain.ProfileUpdate) (domain.User, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if upd.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *upd.FirstName)
	}
	if upd.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *upd.LastName)
	}
	if len(sets) == 0 {
		return r.GetUser(ctx, id)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return domain.User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetUser(ctx, id); gerr != nil {
			return domain.User{}, gerr
		}
	}
	return r.GetUser(ctx, id)
}

func (r *Repo) SetHost(ctx context.Context, id int64) (domain.User, error) {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET is_host = TRUE, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id); err != nil {
		return domain.User{}, err
	}
	return r.GetUser(ctx, id)
}

// GetUserByEmail exists for the seeder and tests; the auth service owns the
// regular login path.
func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return r.GetUser(ctx, id)
}

// CreateUser exists for the seeder and tests; the auth service owns the
// regular signup path.
func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, first_name, last_name, password_hash, github_id, is_host)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Email, u.FirstName, u.LastName, valStr(u.PasswordHash), valStr(u.GithubID), u.IsHost)
	if err != nil {
		return domain.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	return r.GetUser(ctx, id)
}

// ---- listings ----

func scanListing(row interface{ Scan(...any) error }) (domain.Listing, error) {
	var l domain.Listing
	var imagesJSON, amenitiesJSON []byte
	if err := row.Scan(
		&l.ID,
		&l.HostID,
		&l.Title,
		&l.Description,
		&l.Address,
		&l.City,
		&l.Country,
		&l.PriceCents,
		&l.MaxGuests,
		&l.Bedrooms,
		&l.Bathrooms,
		&imagesJSON,
		&amenitiesJSON,
		&l.Rules,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Listing{}, domain.ErrNotFound
		}
		return domain.Listing{}, err
	}
	_ = json.Unmarshal(imagesJSON, &l.Images)
	_ = json.Unmarshal(amenitiesJSON, &l.Amenities)
	return l, nil
}

func (r *Repo) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE id = ?", id)
	return scanListing(row)
}

func (r *Repo) ListListings(ctx context.Context, q domain.ListingsQuery) (domain.ListingsPage, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.City != nil {
		where = append(where, "city LIKE ?")
		args = append(args, "%"+*q.City+"%")
	}
	if q.Country != nil {
		where = append(where, "country LIKE ?")
		args = append(args, "%"+*q.Country+"%")
	}
	if q.MinPriceCents != nil {
		where = append(where, "price_cents >= ?")
		args = append(args, *q.MinPriceCents)
	}
	if q.MaxPriceCents != nil {
		where = append(where, "price_cents <= ?")
		args = append(args, *q.MaxPriceCents)
	}
	if q.MaxGuests != nil {
		where = append(where, "max_guests >= ?")
		args = append(args, *q.MaxGuests)
	}
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE "+strings.Join(where, " AND ")+
			" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return domain.ListingsPage{}, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return domain.ListingsPage{}, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return domain.ListingsPage{}, err
	}
	return domain.ListingsPage{Items: out, Total: len(out)}, nil
}

func (r *Repo) listListingsWhere(ctx context.Context, clause string, args ...any) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+listingColumns+" FROM listings WHERE "+clause+" ORDER BY created_at DESC, id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) ListListingsByHost(ctx context.Context, hostID int64) ([]domain.Listing, error) {
	return r.listListingsWhere(ctx, "host_id = ?", hostID)
}

func (r *Repo) ListListingsByIDs(ctx context.Context, ids []int64) ([]domain.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = "?"
		args[i] = id
	}
	return r.listListingsWhere(ctx, fmt.Sprintf("id IN (%s)", strings.Join(ph, ",")), args...)
}

func (r *Repo) CreateListing(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	res, err := r.db.ExecContext(ctx, insertListingSQL,
		l.HostID,
		l.Title,
		l.Description,
		l.Address,
		l.City,
		l.Country,
		l.PriceCents,
		l.MaxGuests,
		l.Bedrooms,
		l.Bathrooms,
		marshalList(l.Images),
		marshalList(l.Amenities),
		l.Rules,
	)
	if err != nil {
		return domain.Listing{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Listing{}, err
	}
	return r.GetListing(ctx, id)
}

func (r *Repo) UpdateListing(ctx context.Context, id int64, upd domain.ListingUpdate) (domain.Listing, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.City != nil {
		add("city", *upd.City)
	}
	if upd.Country != nil {
		add("country", *upd.Country)
	}
	if upd.PriceCents != nil {
		add("price_cents", *upd.PriceCents)
	}
	if upd.MaxGuests != nil {
		add("max_guests", *upd.MaxGuests)
	}
	if upd.Bedrooms != nil {
		add("bedrooms", *upd.Bedrooms)
	}
	if upd.Bathrooms != nil {
		add("bathrooms", *upd.Bathrooms)
	}
	if upd.Images != nil {
		add("images", marshalList(upd.Images))
	}
	if upd.Amenities != nil {
		add("amenities", marshalList(upd.Amenities))
	}
	if upd.Rules != nil {
		add("rules", *upd.Rules)
	}
	if len(sets) == 0 {
		return r.GetListing(ctx, id)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx,
		"UPDATE listings SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return domain.Listing{}, err
	}
	return r.GetListing(ctx, id)
}

func (r *Repo) DeleteListing(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM listings WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
