// Package stubserver is an in-process stand-in for the FitMate backend,
// used for local development and end-to-end testing of the admin console.
package stubserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fitmate/admin-console/internal/models"
)

// Store errors.
var (
	ErrNotFound = errors.New("not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	email     TEXT NOT NULL,
	role      TEXT NOT NULL,
	joined_at TEXT NOT NULL,
	active    INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS messages (
	id           TEXT PRIMARY KEY,
	sender_id    TEXT NOT NULL,
	sender_name  TEXT NOT NULL,
	sender_role  TEXT NOT NULL,
	recipient_id TEXT NOT NULL,
	body         TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	is_read      INTEGER NOT NULL DEFAULT 0,
	read_at      TEXT
);

CREATE TABLE IF NOT EXISTS equipment (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	category         TEXT NOT NULL,
	status           TEXT NOT NULL,
	purchased_at     TEXT NOT NULL,
	last_serviced_at TEXT
);

CREATE TABLE IF NOT EXISTS schedule (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	trainer_id TEXT NOT NULL,
	room       TEXT NOT NULL,
	starts_at  TEXT NOT NULL,
	ends_at    TEXT NOT NULL,
	capacity   INTEGER NOT NULL,
	booked     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	amount_cents INTEGER NOT NULL,
	due_at       TEXT NOT NULL,
	paid_at      TEXT
);

CREATE TABLE IF NOT EXISTS settings (
	id                    INTEGER PRIMARY KEY CHECK (id = 1),
	gym_name              TEXT NOT NULL,
	currency              TEXT NOT NULL,
	opening_hours         TEXT NOT NULL,
	notify_on_new_member  INTEGER NOT NULL,
	notify_on_payment_due INTEGER NOT NULL
);
`

// Store is the sqlite-backed state of the stub backend.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// OpenStore opens (and migrates) the sqlite database at path. ":memory:"
// keeps everything in-process.
func OpenStore(path string, opts ...StoreOption) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps :memory: databases coherent and avoids
	// sqlite write contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	store := &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateAccount registers an admin login.
func (s *Store) CreateAccount(ctx context.Context, email, passwordHash string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash) VALUES (?, ?, ?)`,
		id, email, passwordHash)
	if err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}
	return id, nil
}

// AccountByEmail returns the account id and password hash for an email.
func (s *Store) AccountByEmail(ctx context.Context, email string) (id, passwordHash string, err error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM accounts WHERE email = ?`, email)
	if err := row.Scan(&id, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrNotFound
		}
		return "", "", fmt.Errorf("account lookup: %w", err)
	}
	return id, passwordHash, nil
}

// CreateUser adds a gym member.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := models.ValidateRole(user.Role); err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.JoinedAt.IsZero() {
		user.JoinedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, joined_at, active) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, string(user.Role),
		user.JoinedAt.Format(time.RFC3339), boolToInt(user.Active))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// ListUsers returns all gym members, trainers first, then by name.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, role, joined_at, active FROM users ORDER BY role DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			user     models.User
			role     string
			joinedAt string
			active   int
		)
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &role, &joinedAt, &active); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.Role = models.Role(role)
		user.Active = active != 0
		user.JoinedAt, _ = time.Parse(time.RFC3339, joinedAt)
		users = append(users, user)
	}
	return users, rows.Err()
}

// InsertMessage stores a message.
func (s *Store) InsertMessage(ctx context.Context, msg *models.Message, recipientID string) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}
	var readAt *string
	if msg.ReadAt != nil {
		formatted := msg.ReadAt.Format(time.RFC3339)
		readAt = &formatted
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, sender_name, sender_role, recipient_id, body, created_at, is_read, read_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Sender.ID, msg.Sender.Name, string(msg.Sender.Role),
		recipientID, msg.Body, msg.CreatedAt.Format(time.RFC3339),
		boolToInt(msg.IsRead), readAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Inbox lists messages addressed to the given account, newest first.
func (s *Store) Inbox(ctx context.Context, accountID string) ([]models.Message, error) {
	return s.listMessages(ctx, `recipient_id = ?`, accountID)
}

// Outbox lists messages sent by the given account, newest first.
func (s *Store) Outbox(ctx context.Context, accountID string) ([]models.Message, error) {
	return s.listMessages(ctx, `sender_id = ?`, accountID)
}

func (s *Store) listMessages(ctx context.Context, where string, arg any) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sender_id, sender_name, sender_role, body, created_at, is_read, read_at
		 FROM messages WHERE `+where+` ORDER BY created_at DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var (
			msg       models.Message
			role      string
			createdAt string
			isRead    int
			readAt    sql.NullString
		)
		if err := rows.Scan(&msg.ID, &msg.Sender.ID, &msg.Sender.Name, &role,
			&msg.Body, &createdAt, &isRead, &readAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Sender.Role = models.Role(role)
		msg.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		msg.IsRead = isRead != 0
		if readAt.Valid {
			parsed, _ := time.Parse(time.RFC3339, readAt.String)
			msg.ReadAt = &parsed
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkMessageRead flips a message to read. It is idempotent: marking an
// already-read message succeeds without touching its read timestamp.
func (s *Store) MarkMessageRead(ctx context.Context, id, recipientID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE messages SET is_read = 1, read_at = COALESCE(read_at, ?)
		 WHERE id = ? AND recipient_id = ?`,
		s.now().Format(time.RFC3339), id, recipientID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertEquipment adds a tracked piece of equipment.
func (s *Store) InsertEquipment(ctx context.Context, item *models.Equipment) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	var serviced *string
	if item.LastServicedAt != nil {
		formatted := item.LastServicedAt.Format(time.RFC3339)
		serviced = &formatted
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO equipment (id, name, category, status, purchased_at, last_serviced_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Category, string(item.Status),
		item.PurchasedAt.Format(time.RFC3339), serviced)
	if err != nil {
		return fmt.Errorf("insert equipment: %w", err)
	}
	return nil
}

// ListEquipment returns all equipment by name.
func (s *Store) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, status, purchased_at, last_serviced_at FROM equipment ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var items []models.Equipment
	for rows.Next() {
		var (
			item        models.Equipment
			status      string
			purchasedAt string
			servicedAt  sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &status, &purchasedAt, &servicedAt); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		item.Status = models.EquipmentStatus(status)
		item.PurchasedAt, _ = time.Parse(time.RFC3339, purchasedAt)
		if servicedAt.Valid {
			parsed, _ := time.Parse(time.RFC3339, servicedAt.String)
			item.LastServicedAt = &parsed
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// InsertScheduleEntry adds a class to the schedule.
func (s *Store) InsertScheduleEntry(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedule (id, title, trainer_id, room, starts_at, ends_at, capacity, booked)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Title, entry.TrainerID, entry.Room,
		entry.StartsAt.Format(time.RFC3339), entry.EndsAt.Format(time.RFC3339),
		entry.Capacity, entry.Booked)
	if err != nil {
		return fmt.Errorf("insert schedule entry: %w", err)
	}
	return nil
}

// ListSchedule returns schedule entries ordered by start time.
func (s *Store) ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, trainer_id, room, starts_at, ends_at, capacity, booked
		 FROM schedule ORDER BY starts_at`)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		var (
			entry    models.ScheduleEntry
			startsAt string
			endsAt   string
		)
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.TrainerID, &entry.Room,
			&startsAt, &endsAt, &entry.Capacity, &entry.Booked); err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		entry.StartsAt, _ = time.Parse(time.RFC3339, startsAt)
		entry.EndsAt, _ = time.Parse(time.RFC3339, endsAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// InsertPayment records a billing entry.
func (s *Store) InsertPayment(ctx context.Context, userID string, amountCents int64, dueAt time.Time, paidAt *time.Time) error {
	var paid *string
	if paidAt != nil {
		formatted := paidAt.Format(time.RFC3339)
		paid = &formatted
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, user_id, amount_cents, due_at, paid_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), userID, amountCents, dueAt.Format(time.RFC3339), paid)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// Settings returns the single settings row, creating defaults on first use.
func (s *Store) Settings(ctx context.Context) (*models.Settings, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT gym_name, currency, opening_hours, notify_on_new_member, notify_on_payment_due
		 FROM settings WHERE id = 1`)

	var (
		settings   models.Settings
		newMember  int
		paymentDue int
	)
	err := row.Scan(&settings.GymName, &settings.Currency, &settings.OpeningHours, &newMember, &paymentDue)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := models.Settings{
			GymName:            "FitMate",
			Currency:           "USD",
			OpeningHours:       "06:00-22:00",
			NotifyOnNewMember:  true,
			NotifyOnPaymentDue: true,
		}
		if err := s.UpdateSettings(ctx, &defaults); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	settings.NotifyOnNewMember = newMember != 0
	settings.NotifyOnPaymentDue = paymentDue != 0
	return &settings, nil
}

// UpdateSettings replaces the settings row.
func (s *Store) UpdateSettings(ctx context.Context, settings *models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (id, gym_name, currency, opening_hours, notify_on_new_member, notify_on_payment_due)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			gym_name = excluded.gym_name,
			currency = excluded.currency,
			opening_hours = excluded.opening_hours,
			notify_on_new_member = excluded.notify_on_new_member,
			notify_on_payment_due = excluded.notify_on_payment_due`,
		settings.GymName, settings.Currency, settings.OpeningHours,
		boolToInt(settings.NotifyOnNewMember), boolToInt(settings.NotifyOnPaymentDue))
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
