// Package catalog persists virtual-track fingerprints across playlists.
//
// The catalog is the downstream consumer of the track fingerprint: because
// two tracks with identical resource lists always hash identically, a small
// SQLite table keyed on (fingerprint, playlist) is enough to spot the same
// track being reused by different playlists without ever comparing resource
// lists. Writers take a file lock so concurrent CLI invocations serialize.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"cplscan/internal/cpl"
	"cplscan/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS tracks (
    fingerprint    TEXT NOT NULL,
    playlist_id    TEXT NOT NULL,
    content_title  TEXT NOT NULL,
    kind           TEXT NOT NULL,
    track_id       TEXT NOT NULL,
    duration       TEXT NOT NULL,
    resource_count INTEGER NOT NULL,
    recorded_at    TEXT NOT NULL,
    PRIMARY KEY (fingerprint, playlist_id)
);
CREATE INDEX IF NOT EXISTS idx_tracks_fingerprint ON tracks (fingerprint);
`

// Entry is one recorded virtual track.
type Entry struct {
	Fingerprint   string    `json:"fingerprint"`
	PlaylistID    string    `json:"playlist_id"`
	ContentTitle  string    `json:"content_title"`
	Kind          string    `json:"kind"`
	TrackID       string    `json:"track_id"`
	Duration      string    `json:"duration"`
	ResourceCount int       `json:"resource_count"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// Duplicate groups the entries sharing one fingerprint across playlists.
type Duplicate struct {
	Fingerprint string  `json:"fingerprint"`
	Entries     []Entry `json:"entries"`
}

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// Open initializes or connects to the catalog database and applies the
// schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	logger = logging.NewComponentLogger(logger, "catalog")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}

	return &Store{
		db:     db,
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Record stores every virtual track of playlist, keyed by the playlist's Id
// or, when absent, by source (typically the file path). Re-recording the
// same playlist replaces its rows. Returns the number of tracks recorded.
func (s *Store) Record(ctx context.Context, playlist *cpl.CompositionPlaylist, source string) (int, error) {
	if err := s.lock.Lock(); err != nil {
		return 0, fmt.Errorf("acquire catalog lock: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("release catalog lock", logging.Error(err))
		}
	}()

	playlistID := playlist.ID
	if playlistID == "" {
		playlistID = source
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	recorded := 0
	for _, vt := range playlist.VirtualTracks {
		info := vt.Info()
		_, err := s.db.ExecContext(
			ctx,
			`INSERT OR REPLACE INTO tracks (
                fingerprint, playlist_id, content_title, kind,
                track_id, duration, resource_count, recorded_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			info.Fingerprint,
			playlistID,
			playlist.ContentTitle,
			string(vt.Kind()),
			info.TrackID,
			info.Duration.Timecode(),
			info.ResourceCount,
			now,
		)
		if err != nil {
			return recorded, fmt.Errorf("record track %s: %w", info.TrackID, err)
		}
		recorded++
	}

	s.logger.Info("recorded playlist",
		"playlist_id", playlistID, "tracks", recorded)
	return recorded, nil
}

// Tracks returns every recorded entry, newest first.
func (s *Store) Tracks(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, playlist_id, content_title, kind,
                track_id, duration, resource_count, recorded_at
           FROM tracks
          ORDER BY recorded_at DESC, fingerprint`)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Duplicates returns the fingerprints recorded under more than one playlist,
// each with its full entry list in recording order.
func (s *Store) Duplicates(ctx context.Context) ([]Duplicate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, playlist_id, content_title, kind,
                track_id, duration, resource_count, recorded_at
           FROM tracks
          WHERE fingerprint IN (
                SELECT fingerprint FROM tracks
                 GROUP BY fingerprint
                HAVING COUNT(DISTINCT playlist_id) > 1)
          ORDER BY fingerprint, recorded_at`)
	if err != nil {
		return nil, fmt.Errorf("query duplicates: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	var dupes []Duplicate
	for _, entry := range entries {
		if len(dupes) == 0 || dupes[len(dupes)-1].Fingerprint != entry.Fingerprint {
			dupes = append(dupes, Duplicate{Fingerprint: entry.Fingerprint})
		}
		last := &dupes[len(dupes)-1]
		last.Entries = append(last.Entries, entry)
	}
	return dupes, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var recordedAt string
		if err := rows.Scan(
			&entry.Fingerprint, &entry.PlaylistID, &entry.ContentTitle,
			&entry.Kind, &entry.TrackID, &entry.Duration,
			&entry.ResourceCount, &recordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan track row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
			entry.RecordedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate track rows: %w", err)
	}
	return entries, nil
}
