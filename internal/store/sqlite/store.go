// Package sqlite implements the store interfaces on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/focusgate/focusgate/internal/model"
	"github.com/focusgate/focusgate/internal/store"
)

type sqliteStore struct{ db *sql.DB }

// New opens (or creates) a SQLite database at path and ensures the schema.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection (used by the factory and tests).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

func (s *sqliteStore) Profiles() store.Profiles   { return &profiles{db: s.db} }
func (s *sqliteStore) Rules() store.Rules         { return &rules{db: s.db} }
func (s *sqliteStore) Decisions() store.Decisions { return &decisions{db: s.db} }
func (s *sqliteStore) Feedback() store.Feedback   { return &feedback{db: s.db} }
func (s *sqliteStore) Events() store.Events       { return &events{db: s.db} }

func (s *sqliteStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *sqliteStore) Close() error                         { return s.db.Close() }

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
	_, err = p.db.ExecContext(ctx, `INSERT INTO Profiles
        (UserId, ValuesJson, PreferencesJson, SettingsJson, TotalContentProcessed, TotalDecisionsMade, CreationTime, UpdateTime)
        VALUES (?,?,?,?,?,?,?,?)`,
		m.UserID, string(valuesJSON), string(prefsJSON), string(settingsJSON),
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
	row := p.db.QueryRowContext(ctx, `SELECT UserId, ValuesJson, PreferencesJson, SettingsJson,
        TotalContentProcessed, TotalDecisionsMade, CreationTime, UpdateTime
        FROM Profiles WHERE UserId = ?`, userID)

	var out model.UserProfile
	var valuesJSON, prefsJSON, settingsJSON string
	err := row.Scan(&out.UserID, &valuesJSON, &prefsJSON, &settingsJSON,
		&out.TotalContentProcessed, &out.TotalDecisionsMade, &out.CreationTime, &out.UpdateTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", userID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(valuesJSON), &out.Values); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(prefsJSON), &out.Preferences); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(settingsJSON), &out.Settings); err != nil {
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

	res, err := p.db.ExecContext(ctx, `UPDATE Profiles SET ValuesJson = ?, PreferencesJson = ?,
        SettingsJson = ?, TotalContentProcessed = ?, TotalDecisionsMade = ?, UpdateTime = ?
        WHERE UserId = ?`,
		string(valuesJSON), string(prefsJSON), string(settingsJSON),
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
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO ValueSnapshots (SnapshotId, UserId, ProfileJson, CreationTime) VALUES (?,?,?,?)`,
		uuid.New().String(), userID, string(raw), time.Now().UTC())
	return err
}

func (p *profiles) ListValueSnapshots(ctx context.Context, userID string, limit int) ([]model.ValueProfile, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT ProfileJson FROM ValueSnapshots WHERE UserId = ? ORDER BY CreationTime ASC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ValueProfile
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v model.ValueProfile
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
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
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO Rules (UserId, RuleId, RuleJson, CreationTime) VALUES (?,?,?,?)`,
		userID, out.RuleID, string(raw), now)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *rules) List(ctx context.Context, userID string) ([]model.InterventionRule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT RuleJson FROM Rules WHERE UserId = ? ORDER BY CreationTime ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.InterventionRule
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rule model.InterventionRule
		if err := json.Unmarshal([]byte(raw), &rule); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *rules) Delete(ctx context.Context, userID, ruleID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM Rules WHERE UserId = ? AND RuleId = ?`, userID, ruleID)
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
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO Decisions (DecisionId, UserId, ContentId, Action, DecisionJson, CreationTime) VALUES (?,?,?,?,?,?)`,
		m.DecisionID, m.UserID, m.ContentID, string(m.Decision), string(raw), m.Timestamp)
	return err
}

func (d *decisions) Get(ctx context.Context, userID, decisionID string) (*model.InterventionDecision, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT DecisionJson FROM Decisions WHERE UserId = ? AND DecisionId = ?`, userID, decisionID)
	var raw string
	err := row.Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("decision %s: %w", decisionID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var out model.InterventionDecision
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *decisions) List(ctx context.Context, userID string, limit int) ([]*model.InterventionDecision, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT DecisionJson FROM Decisions WHERE UserId = ? ORDER BY CreationTime DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.InterventionDecision
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var dec model.InterventionDecision
		if err := json.Unmarshal([]byte(raw), &dec); err != nil {
			return nil, err
		}
		out = append(out, &dec)
	}
	return out, rows.Err()
}

func (d *decisions) CountByAction(ctx context.Context, userID string) (map[model.Action]int, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT Action, COUNT(*) FROM Decisions WHERE UserId = ? GROUP BY Action`, userID)
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
	_, err = f.db.ExecContext(ctx,
		`INSERT INTO Feedback (FeedbackId, UserId, DecisionId, FeedbackJson, CreationTime) VALUES (?,?,?,?,?)`,
		fb.FeedbackID, fb.UserID, fb.DecisionID, string(raw), fb.Timestamp)
	return err
}

func (f *feedback) ListByUser(ctx context.Context, userID string, limit int) ([]model.UserFeedback, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := f.db.QueryContext(ctx,
		`SELECT FeedbackJson FROM Feedback WHERE UserId = ? ORDER BY CreationTime DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.UserFeedback
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var fb model.UserFeedback
		if err := json.Unmarshal([]byte(raw), &fb); err != nil {
			return nil, err
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

// --- Events ---

type events struct{ db *sql.DB }

func (e *events) Append(ctx context.Context, ev *model.Event) error {
	var metaJSON *string
	if len(ev.Metadata) > 0 {
		raw, err := json.Marshal(ev.Metadata)
		if err != nil {
			return err
		}
		s := string(raw)
		metaJSON = &s
	}
	var userID *string
	if ev.UserID != "" {
		userID = &ev.UserID
	}
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO Events (EventId, UserId, Level, Code, Message, MetadataJson, CreationTime) VALUES (?,?,?,?,?,?,?)`,
		ev.EventID, userID, string(ev.Level), ev.Code, ev.Message, metaJSON, ev.Timestamp)
	return err
}

func (e *events) List(ctx context.Context, q model.EventQuery) ([]model.Event, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	b := sq.Select("EventId", "UserId", "Level", "Code", "Message", "MetadataJson", "CreationTime").
		From("Events").
		OrderBy("CreationTime DESC").
		Limit(uint64(limit))
	if q.UserID != "" {
		b = b.Where(sq.Eq{"UserId": q.UserID})
	}
	if q.Level != "" {
		b = b.Where(sq.Eq{"Level": string(q.Level)})
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

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var userID, metaJSON *string
		var level string
		if err := rows.Scan(&ev.EventID, &userID, &level, &ev.Code, &ev.Message, &metaJSON, &ev.Timestamp); err != nil {
			return nil, err
		}
		ev.Level = model.EventLevel(level)
		if userID != nil {
			ev.UserID = *userID
		}
		if metaJSON != nil && *metaJSON != "" {
			if err := json.Unmarshal([]byte(*metaJSON), &ev.Metadata); err != nil {
				return nil, err
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
