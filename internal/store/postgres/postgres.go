// Package postgres implements the store interfaces on PostgreSQL via the pgx
// stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const ddl = `
CREATE TABLE IF NOT EXISTS profiles (
    user_id                 TEXT PRIMARY KEY,
    values_json             JSONB NOT NULL,
    preferences_json        JSONB NOT NULL,
    settings_json           JSONB NOT NULL,
    total_content_processed INTEGER NOT NULL DEFAULT 0,
    total_decisions_made    INTEGER NOT NULL DEFAULT 0,
    creation_time           TIMESTAMPTZ NOT NULL,
    update_time             TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS value_snapshots (
    snapshot_id   TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    profile_json  JSONB NOT NULL,
    creation_time TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_value_snapshots_user ON value_snapshots(user_id, creation_time);

CREATE TABLE IF NOT EXISTS rules (
    user_id       TEXT NOT NULL,
    rule_id       TEXT NOT NULL,
    rule_json     JSONB NOT NULL,
    creation_time TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (user_id, rule_id)
);

CREATE TABLE IF NOT EXISTS decisions (
    decision_id   TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    content_id    TEXT NOT NULL,
    action        TEXT NOT NULL,
    decision_json JSONB NOT NULL,
    creation_time TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_user ON decisions(user_id, creation_time);

CREATE TABLE IF NOT EXISTS feedback (
    feedback_id   TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL,
    decision_id   TEXT NOT NULL,
    feedback_json JSONB NOT NULL,
    creation_time TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_user ON feedback(user_id, creation_time);

CREATE TABLE IF NOT EXISTS events (
    event_id      TEXT PRIMARY KEY,
    user_id       TEXT,
    level         TEXT NOT NULL,
    code          TEXT NOT NULL,
    message       TEXT NOT NULL,
    metadata_json JSONB,
    creation_time TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_time ON events(creation_time);
`

// Bootstrap ensures Postgres is reachable and the schema exists.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil // No DSN configured, skip bootstrap
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Profiles() store.Profiles   { return &profiles{db: s.db} }
func (s *pgStore) Rules() store.Rules         { return &rules{db: s.db} }
func (s *pgStore) Decisions() store.Decisions { return &decisions{db: s.db} }
func (s *pgStore) Feedback() store.Feedback   { return &feedback{db: s.db} }
func (s *pgStore) Events() store.Events       { return &events{db: s.db} }

func (s *pgStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *pgStore) Close() error                         { return s.db.Close() }

// --- Profiles ---

type profiles struct{ db *sql.DB }

func (p *profiles) Create(ctx context.Context, m *model.UserProfile) (*model.UserProfile, error) {
	valuesJSON, err := json.Marshal(m.Values)
	if err != nil {
		return nil, err
	}
	prefsJSON, err := json.Marshal(m.Preferences)
	if err != nil {
		return nil, err
	}
	settingsJSON, err := json.Marshal(m.Settings)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_, err = p.db.ExecContext(ctx, `
        INSERT INTO profiles (user_id, values_json, preferences_json, settings_json,
            total_content_processed, total_decisions_made, creation_time, update_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, m.UserID, valuesJSON, prefsJSON, settingsJSON,
		m.TotalContentProcessed, m.TotalDecisionsMade, now, now)
	if err != nil {
		return nil, err
	}

	out := *m
	out.CreationTime = now
	out.UpdateTime = now
	return &out, nil
}

func (p *profiles) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	row := p.db.QueryRowContext(ctx, `
        SELECT user_id, values_json, preferences_json, settings_json,
               total_content_processed, total_decisions_made, creation_time, update_time
        FROM profiles WHERE user_id=$1
    `, userID)

	var out model.UserProfile
	var valuesJSON, prefsJSON, settingsJSON []byte
	err := row.Scan(&out.UserID, &valuesJSON, &prefsJSON, &settingsJSON,
		&out.TotalContentProcessed, &out.TotalDecisionsMade, &out.CreationTime, &out.UpdateTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", userID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(valuesJSON, &out.Values); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(prefsJSON, &out.Preferences); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(settingsJSON, &out.Settings); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *profiles) Update(ctx context.Context, m *model.UserProfile) error {
	valuesJSON, err := json.Marshal(m.Values)
	if err != nil {
		return err
	}
	prefsJSON, err := json.Marshal(m.Preferences)
	if err != nil {
		return err
	}
	settingsJSON, err := json.Marshal(m.Settings)
	if err != nil {
		return err
	}

	res, err := p.db.ExecContext(ctx, `
        UPDATE profiles SET values_json=$1, preferences_json=$2, settings_json=$3,
            total_content_processed=$4, total_decisions_made=$5, update_time=$6
        WHERE user_id=$7
    `, valuesJSON, prefsJSON, settingsJSON,
		m.TotalContentProcessed, m.TotalDecisionsMade, time.Now().UTC(), m.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile %s: %w", m.UserID, model.ErrNotFound)
	}
	return nil
}

func (p *profiles) AppendValueSnapshot(ctx context.Context, userID string, v model.ValueProfile) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
        INSERT INTO value_snapshots (snapshot_id, user_id, profile_json, creation_time)
        VALUES ($1,$2,$3,$4)
    `, uuid.New().String(), userID, raw, time.Now().UTC())
	return err
}

func (p *profiles) ListValueSnapshots(ctx context.Context, userID string, limit int) ([]model.ValueProfile, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx, `
        SELECT profile_json FROM value_snapshots
        WHERE user_id=$1 ORDER BY creation_time ASC LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ValueProfile
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v model.ValueProfile
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// --- Rules ---

type rules struct{ db *sql.DB }

func (r *rules) Create(ctx context.Context, userID string, rule *model.InterventionRule) (*model.InterventionRule, error) {
	out := *rule
	if out.RuleID == "" {
		out.RuleID = uuid.New().String()
	}
	now := time.Now().UTC()
	out.CreationTime = now
	out.UpdateTime = now

	raw, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO rules (user_id, rule_id, rule_json, creation_time)
        VALUES ($1,$2,$3,$4)
    `, userID, out.RuleID, raw, now)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *rules) List(ctx context.Context, userID string) ([]model.InterventionRule, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT rule_json FROM rules WHERE user_id=$1 ORDER BY creation_time ASC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.InterventionRule
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rule model.InterventionRule
		if err := json.Unmarshal(raw, &rule); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *rules) Delete(ctx context.Context, userID, ruleID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rules WHERE user_id=$1 AND rule_id=$2`, userID, ruleID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rule %s: %w", ruleID, model.ErrNotFound)
	}
	return nil
}

// --- Decisions ---

type decisions struct{ db *sql.DB }

func (d *decisions) Create(ctx context.Context, m *model.InterventionDecision) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `
        INSERT INTO decisions (decision_id, user_id, content_id, action, decision_json, creation_time)
        VALUES ($1,$2,$3,$4,$5,$6)
    `, m.DecisionID, m.UserID, m.ContentID, string(m.Decision), raw, m.Timestamp)
	return err
}

func (d *decisions) Get(ctx context.Context, userID, decisionID string) (*model.InterventionDecision, error) {
	row := d.db.QueryRowContext(ctx, `
        SELECT decision_json FROM decisions WHERE user_id=$1 AND decision_id=$2
    `, userID, decisionID)
	var raw []byte
	err := row.Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("decision %s: %w", decisionID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var out model.InterventionDecision
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *decisions) List(ctx context.Context, userID string, limit int) ([]*model.InterventionDecision, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.db.QueryContext(ctx, `
        SELECT decision_json FROM decisions WHERE user_id=$1 ORDER BY creation_time DESC LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.InterventionDecision
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var dec model.InterventionDecision
		if err := json.Unmarshal(raw, &dec); err != nil {
			return nil, err
		}
		out = append(out, &dec)
	}
	return out, rows.Err()
}

func (d *decisions) CountByAction(ctx context.Context, userID string) (map[model.Action]int, error) {
	rows, err := d.db.QueryContext(ctx, `
        SELECT action, COUNT(*) FROM decisions WHERE user_id=$1 GROUP BY action
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := map[model.Action]int{}
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, err
		}
		out[model.Action(action)] = n
	}
	return out, rows.Err()
}

// --- Feedback ---

type feedback struct{ db *sql.DB }

func (f *feedback) Create(ctx context.Context, fb *model.UserFeedback) error {
	raw, err := json.Marshal(fb)
	if err != nil {
		return err
	}
	_, err = f.db.ExecContext(ctx, `
        INSERT INTO feedback (feedback_id, user_id, decision_id, feedback_json, creation_time)
        VALUES ($1,$2,$3,$4,$5)
    `, fb.FeedbackID, fb.UserID, fb.DecisionID, raw, fb.Timestamp)
	return err
}

func (f *feedback) ListByUser(ctx context.Context, userID string, limit int) ([]model.UserFeedback, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := f.db.QueryContext(ctx, `
        SELECT feedback_json FROM feedback WHERE user_id=$1 ORDER BY creation_time DESC LIMIT $2
    `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.UserFeedback
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var fb model.UserFeedback
		if err := json.Unmarshal(raw, &fb); err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

// --- Events ---

type events struct{ db *sql.DB }

func (e *events) Append(ctx context.Context, ev *model.Event) error {
	var metaJSON []byte
	if len(ev.Metadata) > 0 {
		raw, err := json.Marshal(ev.Metadata)
		if err != nil {
			return err
		}
		metaJSON = raw
	}
	var userID *string
	if ev.UserID != "" {
		userID = &ev.UserID
	}
	_, err := e.db.ExecContext(ctx, `
        INSERT INTO events (event_id, user_id, level, code, message, metadata_json, creation_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, ev.EventID, userID, string(ev.Level), ev.Code, ev.Message, metaJSON, ev.Timestamp)
	return err
}

func (e *events) List(ctx context.Context, q model.EventQuery) ([]model.Event, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	b := sq.Select("event_id", "user_id", "level", "code", "message", "metadata_json", "creation_time").
		From("events").
		OrderBy("creation_time DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)
	if q.UserID != "" {
		b = b.Where(sq.Eq{"user_id": q.UserID})
	}
	if q.Level != "" {
		b = b.Where(sq.Eq{"level": string(q.Level)})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var userID *string
		var metaJSON []byte
		var level string
		if err := rows.Scan(&ev.EventID, &userID, &level, &ev.Code, &ev.Message, &metaJSON, &ev.Timestamp); err != nil {
			return nil, err
		}
		ev.Level = model.EventLevel(level)
		if userID != nil {
			ev.UserID = *userID
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &ev.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
