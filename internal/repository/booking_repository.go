package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/labcare/booking-gateway/internal/model"
)

// BookingRepo records bookings the gateway has successfully submitted to
// the lab backend and serves the "my bookings" history listing. The
// upstream remains the source of truth; this table is a local ledger so
// history queries do not fan out to the upstream on every page view.
// Items belonging to a booking live in the booking_items table. All
// timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateWithItems inserts the booking and all of its items inside one
// transaction. The generated local ID and creation timestamp are populated
// on the provided record. A partial insert never survives; if any item
// fails, the whole booking is rolled back.
func (r *BookingRepo) CreateWithItems(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking insert: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b.CreatedAt = time.Now().UTC()
	const q = `INSERT INTO bookings
		(user_id, upstream_id, name, date, time_slot, status, payment_mode, payment_status, total_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.UserID, b.UpstreamID, b.Name, b.Date, b.TimeSlot,
		b.Status, b.PaymentMode, b.PaymentStatus, b.TotalAmount, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("booking insert id: %w", err)
	}
	b.ID = uint64(id)

	if len(b.Items) > 0 {
		placeholders := make([]string, 0, len(b.Items))
		args := make([]any, 0, len(b.Items)*6)
		for i := range b.Items {
			it := &b.Items[i]
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?)")
			args = append(args, b.ID, it.Type, it.Name, it.Price, it.TestID, it.PackageID)
		}
		qi := `INSERT INTO booking_items (booking_id, type, name, price, test_id, package_id) VALUES ` +
			strings.Join(placeholders, ", ")
		if _, err := tx.ExecContext(ctx, qi, args...); err != nil {
			return fmt.Errorf("insert booking items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking insert: %w", err)
	}
	committed = true
	return nil
}

// ListByUser returns one page of the user's bookings, newest first, plus
// the total count for the pagination envelope. status filters on the
// recorded booking status when non-empty.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, status string, page, limit int) ([]model.Booking, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	where := "WHERE user_id = ?"
	args := []any{userID}
	if status != "" {
		where += " AND status = ?"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	q := `SELECT id, user_id, upstream_id, name, date, time_slot, status, payment_mode, payment_status, total_amount, created_at
		FROM bookings ` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	ids := make([]any, 0)
	for rows.Next() {
		var b model.Booking
		var upstreamID sql.NullString
		if err := rows.Scan(
			&b.ID, &b.UserID, &upstreamID, &b.Name, &b.Date, &b.TimeSlot,
			&b.Status, &b.PaymentMode, &b.PaymentStatus, &b.TotalAmount, &b.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		if upstreamID.Valid {
			b.UpstreamID = upstreamID.String
		}
		bookings = append(bookings, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings: %w", err)
	}
	if len(bookings) == 0 {
		return bookings, total, nil
	}

	if err := r.attachItems(ctx, bookings, ids); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// GetByUser fetches one booking with its items. ErrNotFound is returned
// when no booking has the id; ErrForbidden when it belongs to another user.
func (r *BookingRepo) GetByUser(ctx context.Context, userID, bookingID uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, upstream_id, name, date, time_slot, status, payment_mode, payment_status, total_amount, created_at
		FROM bookings WHERE id = ?`
	var b model.Booking
	var upstreamID sql.NullString
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
		&b.ID, &b.UserID, &upstreamID, &b.Name, &b.Date, &b.TimeSlot,
		&b.Status, &b.PaymentMode, &b.PaymentStatus, &b.TotalAmount, &b.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if upstreamID.Valid {
		b.UpstreamID = upstreamID.String
	}

	one := []model.Booking{b}
	if err := r.attachItems(ctx, one, []any{b.ID}); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// attachItems loads the items for every listed booking in one IN query and
// distributes them onto their parents.
func (r *BookingRepo) attachItems(ctx context.Context, bookings []model.Booking, ids []any) error {
	q := `SELECT id, booking_id, type, name, price, test_id, package_id FROM booking_items
		WHERE booking_id IN (?` + strings.Repeat(", ?", len(ids)-1) + `) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return fmt.Errorf("list booking items: %w", err)
	}
	defer rows.Close()

	byBooking := make(map[uint64]*model.Booking, len(bookings))
	for i := range bookings {
		byBooking[bookings[i].ID] = &bookings[i]
	}
	for rows.Next() {
		var (
			it        model.BookingItem
			bookingID uint64
			testID    sql.NullInt64
			packageID sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &bookingID, &it.Type, &it.Name, &it.Price, &testID, &packageID); err != nil {
			return fmt.Errorf("scan booking item: %w", err)
		}
		if testID.Valid {
			v := int(testID.Int64)
			it.TestID = &v
		}
		if packageID.Valid {
			v := int(packageID.Int64)
			it.PackageID = &v
		}
		if b, ok := byBooking[bookingID]; ok {
			b.Items = append(b.Items, it)
		}
	}
	return rows.Err()
}
