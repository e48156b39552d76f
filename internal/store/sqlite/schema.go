package sqlite

import (
	"context"
	"database/sql"
)

// ddl creates the local schema. Structured fields are stored as JSON text so
// the schema stays stable while the model evolves.
const ddl = `
CREATE TABLE IF NOT EXISTS Profiles (
    UserId                TEXT PRIMARY KEY,
    ValuesJson            TEXT NOT NULL,
    PreferencesJson       TEXT NOT NULL,
    SettingsJson          TEXT NOT NULL,
    TotalContentProcessed INTEGER NOT NULL DEFAULT 0,
    TotalDecisionsMade    INTEGER NOT NULL DEFAULT 0,
    CreationTime          TIMESTAMP NOT NULL,
    UpdateTime            TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS ValueSnapshots (
    SnapshotId   TEXT PRIMARY KEY,
    UserId       TEXT NOT NULL,
    ProfileJson  TEXT NOT NULL,
    CreationTime TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_value_snapshots_user ON ValueSnapshots(UserId, CreationTime);

CREATE TABLE IF NOT EXISTS Rules (
    UserId       TEXT NOT NULL,
    RuleId       TEXT NOT NULL,
    RuleJson     TEXT NOT NULL,
    CreationTime TIMESTAMP NOT NULL,
    PRIMARY KEY (UserId, RuleId)
);

CREATE TABLE IF NOT EXISTS Decisions (
    DecisionId   TEXT PRIMARY KEY,
    UserId       TEXT NOT NULL,
    ContentId    TEXT NOT NULL,
    Action       TEXT NOT NULL,
    DecisionJson TEXT NOT NULL,
    CreationTime TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_user ON Decisions(UserId, CreationTime);

CREATE TABLE IF NOT EXISTS Feedback (
    FeedbackId   TEXT PRIMARY KEY,
    UserId       TEXT NOT NULL,
    DecisionId   TEXT NOT NULL,
    FeedbackJson TEXT NOT NULL,
    CreationTime TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_feedback_user ON Feedback(UserId, CreationTime);

CREATE TABLE IF NOT EXISTS Events (
    EventId      TEXT PRIMARY KEY,
    UserId       TEXT,
    Level        TEXT NOT NULL,
    Code         TEXT NOT NULL,
    Message      TEXT NOT NULL,
    MetadataJson TEXT,
    CreationTime TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_time ON Events(CreationTime);
`

// EnsureSchema creates all tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, ddl)
	return err
}
