package cognition

import (
	"database/sql"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
)

// migrations returns the cognition module's database migrations.
func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create analyses, alerts and thresholds tables",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS cognition_analyses (
						seq                INTEGER PRIMARY KEY AUTOINCREMENT,
						id                 TEXT NOT NULL UNIQUE,
						patient_id         TEXT NOT NULL,
						session_id         TEXT NOT NULL DEFAULT '',
						coherence          REAL NOT NULL,
						clarity            REAL NOT NULL,
						lexical_richness   REAL NOT NULL,
						memory             REAL NOT NULL,
						emotion            REAL NOT NULL,
						orientation        REAL NOT NULL,
						reasoning          REAL NOT NULL,
						attention          REAL NOT NULL,
						global_score       REAL NOT NULL,
						unique_words       REAL NOT NULL DEFAULT 0,
						total_words        REAL NOT NULL DEFAULT 0,
						avg_word_length    REAL NOT NULL DEFAULT 0,
						pauses             REAL NOT NULL DEFAULT 0,
						repetitions        REAL NOT NULL DEFAULT 0,
						observations       TEXT NOT NULL DEFAULT '',
						alert_tags         TEXT NOT NULL DEFAULT '[]',
						is_baseline_member INTEGER NOT NULL DEFAULT 0,
						analyzed_at        DATETIME NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_cognition_analyses_patient ON cognition_analyses(patient_id, analyzed_at)`,

					`CREATE TABLE IF NOT EXISTS cognition_alerts (
						seq             INTEGER PRIMARY KEY AUTOINCREMENT,
						id              TEXT NOT NULL UNIQUE,
						patient_id      TEXT NOT NULL,
						clinician_id    TEXT NOT NULL,
						analysis_id     TEXT NOT NULL REFERENCES cognition_analyses(id),
						severity        TEXT NOT NULL,
						message         TEXT NOT NULL DEFAULT '',
						deviations      TEXT NOT NULL DEFAULT '[]',
						recommendations TEXT NOT NULL DEFAULT '[]',
						read            INTEGER NOT NULL DEFAULT 0,
						read_at         DATETIME,
						read_by         TEXT NOT NULL DEFAULT '',
						created_at      DATETIME NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_cognition_alerts_clinician ON cognition_alerts(clinician_id, read)`,
					`CREATE INDEX IF NOT EXISTS idx_cognition_alerts_patient ON cognition_alerts(patient_id)`,
					`CREATE INDEX IF NOT EXISTS idx_cognition_alerts_created ON cognition_alerts(created_at)`,

					`CREATE TABLE IF NOT EXISTS cognition_alert_actions (
						seq         INTEGER PRIMARY KEY AUTOINCREMENT,
						id          TEXT NOT NULL UNIQUE,
						alert_id    TEXT NOT NULL REFERENCES cognition_alerts(id),
						actor_id    TEXT NOT NULL,
						type        TEXT NOT NULL,
						description TEXT NOT NULL DEFAULT '',
						occurred_at DATETIME NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_cognition_alert_actions_alert ON cognition_alert_actions(alert_id)`,

					`CREATE TABLE IF NOT EXISTS cognition_thresholds (
						clinician_id      TEXT PRIMARY KEY,
						minimum_deviation REAL NOT NULL,
						bands             TEXT NOT NULL,
						updated_at        DATETIME NOT NULL
					)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version:     2,
			Description: "create care assignments table",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS care_assignments (
						clinician_id TEXT NOT NULL,
						patient_id   TEXT NOT NULL,
						is_primary   INTEGER NOT NULL DEFAULT 0,
						assigned_at  DATETIME NOT NULL,
						PRIMARY KEY (clinician_id, patient_id)
					)`,
					`CREATE INDEX IF NOT EXISTS idx_care_assignments_patient ON care_assignments(patient_id)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
