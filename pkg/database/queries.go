package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"space-booking-backend/pkg/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// dialect captures what differs between the Postgres and SQLite backends.
type dialect struct {
	name        string
	numbered    bool // $1, $2 ... instead of ?
	isDuplicate func(err error) bool
}

// rebind 将 ? 占位符转换为目标驱动的占位符格式
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// classify maps driver uniqueness / serialization failures to ErrDuplicate.
func (d dialect) classify(err error) error {
	if err == nil {
		return nil
	}
	if d.isDuplicate != nil && d.isDuplicate(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// sqlQueries implements Queries over any execer. The same SQL runs on both
// backends; only placeholders and error codes differ.
type sqlQueries struct {
	conn    execer
	dialect dialect
}

func (q *sqlQueries) exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := q.conn.ExecContext(ctx, q.dialect.rebind(query), args...)
	return q.dialect.classify(err)
}

func (q *sqlQueries) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return q.conn.QueryRowContext(ctx, q.dialect.rebind(query), args...)
}

func (q *sqlQueries) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return q.conn.QueryContext(ctx, q.dialect.rebind(query), args...)
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// ================= Users =================

const userColumns = `email, name, group_id, day`

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.Email, &u.Name, &u.GroupID, &u.Day)
	return u, err
}

func (q *sqlQueries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (q *sqlQueries) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	return q.listUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY email LIMIT ? OFFSET ?`, limit, skip)
}

func (q *sqlQueries) ListUsersByGroup(ctx context.Context, groupID int64) ([]models.User, error) {
	return q.listUsers(ctx, `SELECT `+userColumns+` FROM users WHERE group_id = ? ORDER BY email`, groupID)
}

func (q *sqlQueries) listUsers(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (q *sqlQueries) CreateUser(ctx context.Context, user *models.User) error {
	err := q.exec(ctx, `INSERT INTO users (email, name, group_id, day) VALUES (?, ?, ?, ?)`,
		user.Email, user.Name, user.GroupID, user.Day)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (q *sqlQueries) DeleteUser(ctx context.Context, email string) error {
	if err := q.exec(ctx, `DELETE FROM users WHERE email = ?`, email); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ================= Groups =================

func scanGroup(row interface{ Scan(...interface{}) error }) (models.Group, error) {
	var g models.Group
	err := row.Scan(&g.ID, &g.SpaceID)
	return g, err
}

func (q *sqlQueries) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	g, err := scanGroup(q.queryRow(ctx, `SELECT id, space_id FROM "groups" WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "group")
	}
	return &g, nil
}

func (q *sqlQueries) GetGroupBySpace(ctx context.Context, spaceID int64) (*models.Group, error) {
	g, err := scanGroup(q.queryRow(ctx, `SELECT id, space_id FROM "groups" WHERE space_id = ? ORDER BY id LIMIT 1`, spaceID))
	if err != nil {
		return nil, notFound(err, "group")
	}
	return &g, nil
}

func (q *sqlQueries) ListGroups(ctx context.Context, skip, limit int) ([]models.Group, error) {
	rows, err := q.query(ctx, `SELECT id, space_id FROM "groups" ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// CreateGroup inserts the group and fills in the store-assigned ID.
func (q *sqlQueries) CreateGroup(ctx context.Context, group *models.Group) error {
	err := q.queryRow(ctx, `INSERT INTO "groups" (space_id) VALUES (?) RETURNING id`, group.SpaceID).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", q.dialect.classify(err))
	}
	return nil
}

func (q *sqlQueries) DeleteGroup(ctx context.Context, id int64) error {
	if err := q.exec(ctx, `DELETE FROM "groups" WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

// ================= Spaces =================

func scanSpace(row interface{ Scan(...interface{}) error }) (models.Space, error) {
	var s models.Space
	err := row.Scan(&s.SpaceID, &s.Disabled)
	return s, err
}

func (q *sqlQueries) GetSpace(ctx context.Context, spaceID int64) (*models.Space, error) {
	s, err := scanSpace(q.queryRow(ctx, `SELECT space_id, disabled FROM spaces WHERE space_id = ?`, spaceID))
	if err != nil {
		return nil, notFound(err, "space")
	}
	return &s, nil
}

func (q *sqlQueries) ListSpaces(ctx context.Context, skip, limit int) ([]models.Space, error) {
	rows, err := q.query(ctx, `SELECT space_id, disabled FROM spaces ORDER BY space_id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}
	defer rows.Close()

	spaces := []models.Space{}
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		spaces = append(spaces, s)
	}
	return spaces, rows.Err()
}

func (q *sqlQueries) CreateSpace(ctx context.Context, space *models.Space) error {
	if err := q.exec(ctx, `INSERT INTO spaces (space_id, disabled) VALUES (?, ?)`, space.SpaceID, space.Disabled); err != nil {
		return fmt.Errorf("failed to create space: %w", err)
	}
	return nil
}

func (q *sqlQueries) DeleteSpace(ctx context.Context, spaceID int64) error {
	if err := q.exec(ctx, `DELETE FROM spaces WHERE space_id = ?`, spaceID); err != nil {
		return fmt.Errorf("failed to delete space: %w", err)
	}
	return nil
}

// ================= Reservations =================

const reservationColumns = `date, space_id, user_id`

func scanReservation(row interface{ Scan(...interface{}) error }) (models.Reservation, error) {
	var r models.Reservation
	err := row.Scan(&r.Date, &r.SpaceID, &r.UserID)
	return r, err
}

func (q *sqlQueries) findReservation(ctx context.Context, query string, args ...interface{}) (*models.Reservation, error) {
	r, err := scanReservation(q.queryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err, "reservation")
	}
	return &r, nil
}

func (q *sqlQueries) FindReservationBySpaceDate(ctx context.Context, spaceID int64, date models.Date) (*models.Reservation, error) {
	return q.findReservation(ctx,
		`SELECT `+reservationColumns+` FROM space_availability WHERE space_id = ? AND date = ? LIMIT 1`,
		spaceID, date)
}

func (q *sqlQueries) FindReservationByUserDate(ctx context.Context, userID string, date models.Date) (*models.Reservation, error) {
	return q.findReservation(ctx,
		`SELECT `+reservationColumns+` FROM space_availability WHERE date = ? AND user_id = ? LIMIT 1`,
		date, userID)
}

func (q *sqlQueries) FindReservation(ctx context.Context, spaceID int64, userID string, date models.Date) (*models.Reservation, error) {
	return q.findReservation(ctx,
		`SELECT `+reservationColumns+` FROM space_availability WHERE date = ? AND user_id = ? AND space_id = ? LIMIT 1`,
		date, userID, spaceID)
}

func (q *sqlQueries) ListReservations(ctx context.Context, skip, limit int) ([]models.Reservation, error) {
	return q.listReservations(ctx,
		`SELECT `+reservationColumns+` FROM space_availability ORDER BY date, space_id LIMIT ? OFFSET ?`,
		limit, skip)
}

func (q *sqlQueries) ListReservationsByDate(ctx context.Context, date models.Date) ([]models.Reservation, error) {
	return q.listReservations(ctx,
		`SELECT `+reservationColumns+` FROM space_availability WHERE date = ? ORDER BY space_id`, date)
}

func (q *sqlQueries) ListReservationsByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	return q.listReservations(ctx,
		`SELECT `+reservationColumns+` FROM space_availability WHERE user_id = ? ORDER BY date, space_id`, userID)
}

func (q *sqlQueries) listReservations(ctx context.Context, query string, args ...interface{}) ([]models.Reservation, error) {
	rows, err := q.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	reservations := []models.Reservation{}
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

func (q *sqlQueries) CreateReservation(ctx context.Context, r *models.Reservation) error {
	err := q.exec(ctx, `INSERT INTO space_availability (space_id, user_id, date) VALUES (?, ?, ?)`,
		r.SpaceID, r.UserID, r.Date)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (q *sqlQueries) DeleteReservation(ctx context.Context, spaceID int64, userID string, date models.Date) error {
	err := q.exec(ctx, `DELETE FROM space_availability WHERE date = ? AND user_id = ? AND space_id = ?`,
		date, userID, spaceID)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}

// ================= Transactions =================

// runInTx 在单个事务中执行 fn，出错或 panic 时回滚
func runInTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, d dialect, fn func(q Queries) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", d.classify(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&sqlQueries{conn: tx, dialect: d}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", d.classify(err))
	}
	return nil
}
