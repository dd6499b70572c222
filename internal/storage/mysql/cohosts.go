package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"minibnb/internal/domain"
)

func scanPermission(row interface{ Scan(...any) error }) (domain.CohostPermission, error) {
	var p domain.CohostPermission
	if err := row.Scan(
		&p.ID,
		&p.ListingID,
		&p.HostID,
		&p.CohostID,
		&p.CanEditListing,
		&p.CanManageBookings,
		&p.CanRespondMessages,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CohostPermission{}, domain.ErrNotFound
		}
		return domain.CohostPermission{}, err
	}
	return p, nil
}

func (r *Repo) GetPermission(ctx context.Context, id int64) (domain.CohostPermission, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+permissionColumns+" FROM cohost_permissions WHERE id = ?", id)
	return scanPermission(row)
}

func (r *Repo) FindPermission(ctx context.Context, listingID, cohostID int64) (domain.CohostPermission, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+permissionColumns+" FROM cohost_permissions WHERE listing_id = ? AND cohost_id = ?",
		listingID, cohostID)
	return scanPermission(row)
}

func (r *Repo) listPermissionsWhere(ctx context.Context, clause string, args ...any) ([]domain.CohostPermission, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+permissionColumns+" FROM cohost_permissions WHERE "+clause+" ORDER BY created_at DESC, id DESC",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CohostPermission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) ListPermissionsForHost(ctx context.Context, hostID int64) ([]domain.CohostPermission, error) {
	return r.listPermissionsWhere(ctx, "host_id = ?", hostID)
}

func (r *Repo) ListPermissionsForCohost(ctx context.Context, cohostID int64) ([]domain.CohostPermission, error) {
	return r.listPermissionsWhere(ctx, "cohost_id = ?", cohostID)
}

func (r *Repo) CreatePermission(ctx context.Context, p domain.CohostPermission) (domain.CohostPermission, error) {
	res, err := r.db.ExecContext(ctx, insertPermissionSQL,
		p.ListingID, p.HostID, p.CohostID,
		p.CanEditListing, p.CanManageBookings, p.CanRespondMessages)
	if err != nil {
		if isDupEntry(err) {
			return domain.CohostPermission{}, domain.Conflict(domain.CodeDuplicateGrant,
				"user already has a grant on this listing")
		}
		return domain.CohostPermission{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.CohostPermission{}, err
	}
	return r.GetPermission(ctx, id)
}

func (r *Repo) UpdatePermission(ctx context.Context, id int64, upd domain.CohostUpdate) (domain.CohostPermission, error) {
	sets := []string{}
	args := []any{}
	if upd.CanEditListing != nil {
		sets = append(sets, "can_edit_listing = ?")
		args = append(args, *upd.CanEditListing)
	}
	if upd.CanManageBookings != nil {
		sets = append(sets, "can_manage_bookings = ?")
		args = append(args, *upd.CanManageBookings)
	}
	if upd.CanRespondMessages != nil {
		sets = append(sets, "can_respond_messages = ?")
		args = append(args, *upd.CanRespondMessages)
	}
	if len(sets) == 0 {
		return r.GetPermission(ctx, id)
	}
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx,
		"UPDATE cohost_permissions SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return domain.CohostPermission{}, err
	}
	return r.GetPermission(ctx, id)
}

func (r *Repo) DeletePermission(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cohost_permissions WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
