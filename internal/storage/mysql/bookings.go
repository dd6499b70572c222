package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"minibnb/internal/domain"
)

func scanBooking(row interface{ Scan(...any) error }) (domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(
		&b.ID,
		&b.ListingID,
		&b.GuestID,
		&b.CheckIn,
		&b.CheckOut,
		&b.Guests,
		&b.TotalCents,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	return scanBooking(row)
}

func (r *Repo) ListBookingsForGuest(ctx context.Context, guestID int64) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listGuestBookingsSQL, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var title, city sql.NullString
		var imagesJSON []byte
		if err := rows.Scan(
			&b.ID, &b.ListingID, &b.GuestID, &b.CheckIn, &b.CheckOut, &b.Guests,
			&b.TotalCents, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&title, &city, &imagesJSON,
		); err != nil {
			return nil, err
		}
		b.ListingTitle = strPtr(title)
		b.ListingCity = strPtr(city)
		_ = json.Unmarshal(imagesJSON, &b.ListingImages)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) ListBookingsForHost(ctx context.Context, hostID int64) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listHostBookingsSQL, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) ListBookingsForListing(ctx context.Context, listingID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	clause := "listing_id = ?"
	args := []any{listingID}
	if len(statuses) > 0 {
		ph := make([]string, len(statuses))
		for i, s := range statuses {
			ph[i] = "?"
			args = append(args, string(s))
		}
		clause += " AND status IN (" + strings.Join(ph, ",") + ")"
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE "+clause+" ORDER BY check_in ASC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateBooking inserts the booking with the conflict check inside one
// transaction. The listing row is locked first, so two overlapping requests
// on the same listing serialize and the loser sees the winner's row in the
// conflict count.
func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Booking{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var listingID int64
	if err := tx.QueryRowContext(ctx, lockListingSQL, b.ListingID).Scan(&listingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	var conflicts int
	if err := tx.QueryRowContext(ctx, countConflictsSQL,
		b.ListingID, b.CheckOut, b.CheckIn).Scan(&conflicts); err != nil {
		return domain.Booking{}, err
	}
	if conflicts > 0 {
		return domain.Booking{}, domain.Conflict(domain.CodeDateConflict, "requested dates are not available")
	}

	res, err := tx.ExecContext(ctx, insertBookingSQL,
		b.ListingID, b.GuestID, b.CheckIn, b.CheckOut, b.Guests, b.TotalCents, string(b.Status))
	if err != nil {
		return domain.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Booking{}, err
	}
	created, err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id))
	if err != nil {
		return domain.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Booking{}, err
	}
	return created, nil
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (domain.Booking, error) {
	if _, err := r.db.ExecContext(ctx, updateBookingStatusSQL, string(status), id); err != nil {
		return domain.Booking{}, err
	}
	// Read back; a missing row surfaces as ErrNotFound here.
	return r.GetBooking(ctx, id)
}
