package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	subject    TEXT NOT NULL,
	note       TEXT NOT NULL DEFAULT '',
	catalog    TEXT NOT NULL,
	seed       INTEGER NOT NULL,
	started_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	session_id     TEXT NOT NULL REFERENCES sessions(id),
	trial          INTEGER NOT NULL,
	city_1         TEXT NOT NULL,
	city_2         TEXT NOT NULL,
	population_1   INTEGER NOT NULL,
	population_2   INTEGER NOT NULL,
	choice         TEXT NOT NULL,
	correct_answer TEXT NOT NULL,
	result         TEXT NOT NULL,
	rt_ms          REAL NOT NULL,
	key            TEXT NOT NULL,
	pos            TEXT NOT NULL,
	PRIMARY KEY (session_id, trial)
);

CREATE INDEX IF NOT EXISTS idx_sessions_subject ON sessions(subject);
`

// ArchiveSink mirrors the records of a session into a SQLite database
// shared by all sessions run on this machine.
type ArchiveSink struct {
	db   *sql.DB
	info SessionInfo
}

func OpenArchive(path string, info SessionInfo) (*ArchiveSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "archive: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "archive: exec %s", pragma)
		}
	}
	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "archive: migrate")
	}
	return &ArchiveSink{db: db, info: info}, nil
}

// Header registers the session row.
func (a *ArchiveSink) Header() error {
	_, err := a.db.ExecContext(context.Background(),
		`INSERT INTO sessions (id, subject, note, catalog, seed, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.info.ID, a.info.Subject, a.info.Note, a.info.Catalog, int64(a.info.Seed), a.info.StartedAt.UTC(),
	)
	return eris.Wrapf(err, "archive: insert session %s", a.info.ID)
}

func (a *ArchiveSink) Append(rec Record) error {
	_, err := a.db.ExecContext(context.Background(),
		`INSERT INTO records (session_id, trial, city_1, city_2, population_1, population_2,
			choice, correct_answer, result, rt_ms, key, pos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.info.ID, rec.Trial, rec.City1, rec.City2, rec.Population1, rec.Population2,
		rec.Choice.String(), rec.Answer.String(), rec.Result(),
		float64(rec.RT)/float64(time.Millisecond), rec.Key, rec.Position.String(),
	)
	return eris.Wrapf(err, "archive: insert record %d", rec.Trial)
}

// Records returns the archived records of a session in trial order.
func (a *ArchiveSink) Records(ctx context.Context, sessionID string) ([]Record, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT s.subject, r.trial, r.city_1, r.city_2, r.population_1, r.population_2,
			r.choice, r.correct_answer, r.rt_ms, r.key, r.pos
		FROM records r JOIN sessions s ON s.id = r.session_id
		WHERE r.session_id = ? ORDER BY r.trial`,
		sessionID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "archive: query records")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec                 Record
			choice, answer, pos string
			rtMS                float64
		)
		if err := rows.Scan(&rec.SubjectID, &rec.Trial, &rec.City1, &rec.City2,
			&rec.Population1, &rec.Population2, &choice, &answer, &rtMS, &rec.Key, &pos); err != nil {
			return nil, eris.Wrap(err, "archive: scan record")
		}
		rec.Choice = parseSide(choice)
		rec.Answer = parseSide(answer)
		rec.Position = parsePosition(pos)
		rec.RT = time.Duration(rtMS * float64(time.Millisecond))
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "archive: iterate records")
}

func (a *ArchiveSink) Close() error {
	return a.db.Close()
}

func parseSide(s string) Side {
	if s == SideCity1.String() {
		return SideCity1
	}
	return SideCity2
}

func parsePosition(s string) Position {
	if s == PositionOneTwo.String() {
		return PositionOneTwo
	}
	return PositionTwoOne
}
