package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/room-reservation/internal/model"
)

// reservationCols lists the columns of the reservations table in scan order.
// Keep it in sync with scanReservation.
const reservationCols = `id, reference, room_id, user_id, booking_date, start_time, end_time,
	   number_of_users, reservation_type, reservation_reason, phone,
	   reservation_status, rejection_reason, created_at, updated_at`

// overlapPred selects rows whose [start_time, end_time) interval overlaps the
// bound (start, end) pair.  It is the SQL form of model.TimeSlot.Overlaps:
// touching intervals do not match.  Bind order: end first, then start.
const overlapPred = `NOT (end_time <= ? OR start_time >= ?)`

// ReservationRepo provides persistence for reservations.  It owns every write
// path: creation behind the conflict check, compare-and-swap status updates
// and owner-verified deletion.  Timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// scanReservation reads one row in reservationCols order.
func scanReservation(row interface{ Scan(dest ...any) error }) (*model.Reservation, error) {
	var (
		res         model.Reservation
		bookingDate time.Time
		statusStr   string
		reason      sql.NullString
		rejection   sql.NullString
	)
	err := row.Scan(
		&res.ID, &res.Reference, &res.RoomID, &res.UserID, &bookingDate,
		&res.StartTime, &res.EndTime, &res.NumberOfUsers, &res.ReservationType,
		&reason, &res.Phone, &statusStr, &rejection, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.BookingDate = bookingDate.Format(model.DateLayout)
	status, err := model.ParseStatus(statusStr)
	if err != nil {
		return nil, err
	}
	res.Status = status
	if reason.Valid {
		v := reason.String
		res.ReservationReason = &v
	}
	if rejection.Valid {
		v := rejection.String
		res.RejectionReason = &v
	}
	return &res, nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindConflicts returns every non-rejected reservation for the room and date
// whose interval overlaps [start, end).  Rejected reservations free their slot
// and are never conflicts.  Pass excludeID != 0 to let a reservation being
// edited ignore itself.  This method performs no writes and is safe to call
// speculatively; the result is advisory, creation re-checks under its lock.
func (r *ReservationRepo) FindConflicts(ctx context.Context, roomID uint64, date string, start, end string, excludeID uint64) ([]model.Reservation, error) {
	q := `SELECT ` + reservationCols + `
		  FROM reservations
		  WHERE room_id = ? AND booking_date = ? AND reservation_status <> ? AND ` + overlapPred
	args := []any{roomID, date, string(model.StatusRejected), start, end}
	if excludeID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	q += ` ORDER BY start_time ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// findConflictsTx is the transactional variant used during creation, after the
// room/date lock has been taken, so the rows it sees cannot change before the
// insert commits.
func findConflictsTx(ctx context.Context, tx *sql.Tx, roomID uint64, date, start, end string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationCols + `
		  FROM reservations
		  WHERE room_id = ? AND booking_date = ? AND reservation_status <> ? AND ` + overlapPred + `
		  ORDER BY start_time ASC`
	rows, err := tx.QueryContext(ctx, q, roomID, date, string(model.StatusRejected), start, end)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// Create inserts the reservation unless its slot conflicts with an existing
// non-rejected reservation.  The conflict re-check and the insert run in one
// transaction serialized per (room_id, booking_date) by a MySQL named lock, so
// two concurrent bookings for overlapping slots cannot both succeed.  On
// conflict it returns the overlapping rows together with ErrConflict.  On
// success the generated ID and DB-default fields are populated on res.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) ([]model.Reservation, error) {
	// The named lock is session scoped, so pin one connection for GET_LOCK,
	// the transaction and RELEASE_LOCK alike.
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	lockKey := fmt.Sprintf("room_slot:%d:%s", res.RoomID, res.BookingDate)
	var got sql.NullInt64
	if err := conn.QueryRowContext(ctx, `SELECT GET_LOCK(?, 5)`, lockKey).Scan(&got); err != nil {
		return nil, err
	}
	if !got.Valid || got.Int64 != 1 {
		return nil, fmt.Errorf("timed out waiting for room %d on %s", res.RoomID, res.BookingDate)
	}
	// Release on the same session before the connection returns to the pool.
	defer func() {
		_, _ = conn.ExecContext(context.Background(), `DO RELEASE_LOCK(?)`, lockKey)
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	conflicts, err := findConflictsTx(ctx, tx, res.RoomID, res.BookingDate, res.StartTime, res.EndTime)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return conflicts, ErrConflict
	}

	const ins = `INSERT INTO reservations
				 (reference, room_id, user_id, booking_date, start_time, end_time,
				  number_of_users, reservation_type, reservation_reason, phone, reservation_status)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins,
		res.Reference, res.RoomID, res.UserID, res.BookingDate, res.StartTime, res.EndTime,
		res.NumberOfUsers, res.ReservationType, res.ReservationReason, res.Phone, string(res.Status),
	)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	full, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, res.ID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	*res = *full
	return nil, nil
}

// GetByID returns one reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetByIDForUser returns a reservation when it belongs to the given user.  It
// returns ErrReservationNotFound when no such row exists and ErrForbidden when
// the reservation belongs to someone else.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error) {
	res, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, ErrForbidden
	}
	return res, nil
}

// ListByUser returns the user's reservation history, newest first.  When no
// reservations exist, an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListByStatus returns reservations awaiting a decision in the given status,
// oldest first, so approval queues drain in arrival order.
func (r *ReservationRepo) ListByStatus(ctx context.Context, status model.Status) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE reservation_status = ? ORDER BY created_at ASC, id ASC`,
		string(status))
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// ListByRoomDate returns the non-rejected reservations for a room on a date,
// ordered by start time.  It backs the public day schedule view.
func (r *ReservationRepo) ListByRoomDate(ctx context.Context, roomID uint64, date string) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations
		 WHERE room_id = ? AND booking_date = ? AND reservation_status <> ?
		 ORDER BY start_time ASC`,
		roomID, date, string(model.StatusRejected))
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// UpdateStatus moves a reservation to target if its current status is one of
// sources.  The WHERE clause pins the allowed source set, so a concurrent
// transition loses cleanly: zero rows match and the caller gets
// ErrInvalidState instead of overwriting the winner.  A rejection requires a
// non-empty reason; any other target clears rejection_reason.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, sources []model.Status, target model.Status, reason *string) (*model.Reservation, error) {
	if len(sources) == 0 {
		return nil, ErrInvalidState
	}
	if target == model.StatusRejected {
		if reason == nil || strings.TrimSpace(*reason) == "" {
			return nil, fmt.Errorf("%w: rejection_reason is required", model.ErrValidation)
		}
		trimmed := strings.TrimSpace(*reason)
		reason = &trimmed
	} else {
		reason = nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sources)), ",")
	q := `UPDATE reservations
		  SET reservation_status = ?, rejection_reason = ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ? AND reservation_status IN (` + placeholders + `)`
	args := []any{string(target), reason, id}
	for _, s := range sources {
		args = append(args, string(s))
	}
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// Determine whether the row is missing or simply not eligible.
		var current string
		err := r.db.QueryRowContext(ctx,
			`SELECT reservation_status FROM reservations WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrInvalidState
	}
	return r.GetByID(ctx, id)
}

// DeleteByOwner removes a reservation when it belongs to the given user.  The
// ownership check and delete share one transaction with the row locked, so a
// concurrent approval cannot slip between them.  Deletion is a hard delete:
// cancellation removes the row entirely rather than recording a status.
func (r *ReservationRepo) DeleteByOwner(ctx context.Context, id, userID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var owner uint64
	err = tx.QueryRowContext(ctx, `SELECT user_id FROM reservations WHERE id = ? FOR UPDATE`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReservationNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
