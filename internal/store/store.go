package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/vassetti/patter/internal/logging"
	"github.com/vassetti/patter/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS channels (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	topic TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guid TEXT NOT NULL UNIQUE,
	channel_id INTEGER NOT NULL REFERENCES channels(id),
	author TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_channel ON messages(channel_id, id);
`

// DefaultPath returns the shared board database, ~/.patter/patter.db.
// PATTER_DB overrides it.
func DefaultPath() string {
	if p := os.Getenv("PATTER_DB"); p != "" {
		return p
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".patter", "patter.db")
}

// Store is the shared message board. Several processes append to the
// same file, so the connection runs in WAL mode with a busy timeout.
type Store struct {
	db   *sql.DB
	path string
	log  zerolog.Logger
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=2000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: path, log: logging.Component("store")}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// EnsureChannel returns the id of the named channel, creating it if
// needed.
func (s *Store) EnsureChannel(name, topic string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO channels (name, topic, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, topic, time.Now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to create channel: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return res.LastInsertId()
	}

	var id int64
	if err := s.db.QueryRow(`SELECT id FROM channels WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to look up channel: %w", err)
	}
	return id, nil
}

// Channels lists every channel with its last message, newest first.
func (s *Store) Channels() ([]models.Channel, error) {
	query := `
		SELECT
			c.id,
			c.name,
			c.topic,
			COALESCE(m.author, ''),
			COALESCE(m.body, ''),
			COALESCE(m.created_at, 0)
		FROM channels c
		LEFT JOIN (
			SELECT channel_id, author, body, created_at
			FROM messages
			WHERE id IN (
				SELECT MAX(id)
				FROM messages
				GROUP BY channel_id
			)
		) m ON c.id = m.channel_id
		ORDER BY COALESCE(m.created_at, c.created_at) DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		var ch models.Channel
		var lastNano int64
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Topic, &ch.LastAuthor, &ch.LastBody, &lastNano); err != nil {
			s.log.Warn().Err(err).Msg("skipping unreadable channel row")
			continue
		}
		if lastNano > 0 {
			ch.LastTime = time.Unix(0, lastNano)
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

// Messages returns all messages in a channel, oldest first.
func (s *Store) Messages(channelID int64) ([]models.Message, error) {
	return s.MessagesSince(channelID, 0)
}

// MessagesSince returns the channel's messages with id > sinceID,
// oldest first. The watcher uses this to fetch only rows written by
// other processes since the last sync.
func (s *Store) MessagesSince(channelID, sinceID int64) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, guid, channel_id, author, body, created_at
		FROM messages
		WHERE channel_id = ? AND id > ?
		ORDER BY id ASC`, channelID, sinceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var sentNano int64
		if err := rows.Scan(&msg.ID, &msg.GUID, &msg.ChannelID, &msg.Author, &msg.Body, &sentNano); err != nil {
			s.log.Warn().Err(err).Msg("skipping unreadable message row")
			continue
		}
		if sentNano > 0 {
			msg.SentAt = time.Unix(0, sentNano)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Append writes one message and fills in its ID, GUID, and timestamp.
func (s *Store) Append(msg *models.Message) error {
	if msg.GUID == "" {
		msg.GUID = uuid.NewString()
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}

	res, err := s.db.Exec(
		`INSERT INTO messages (guid, channel_id, author, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.GUID, msg.ChannelID, msg.Author, msg.Body, msg.SentAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	msg.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read message id: %w", err)
	}
	return nil
}
