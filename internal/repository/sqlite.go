package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
	"github.com/abrezinsky/rollart/internal/catalog"
	"github.com/abrezinsky/rollart/internal/scoring"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			open BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			has_short BOOLEAN DEFAULT 0,
			has_long BOOLEAN DEFAULT 1,
			status TEXT NOT NULL DEFAULT 'UNSTARTED',
			display_order INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS skaters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			team TEXT,
			display_order INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT '',
			short_score REAL NOT NULL DEFAULT 0,
			long_score REAL NOT NULL DEFAULT 0,
			total_score REAL NOT NULL DEFAULT 0,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS programs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category_id INTEGER,
			skater_id INTEGER,
			skater_name TEXT NOT NULL,
			team TEXT,
			segment TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'STOP',
			falls INTEGER NOT NULL DEFAULT 0,
			skating_skills REAL NOT NULL DEFAULT 0,
			transitions REAL NOT NULL DEFAULT 0,
			choreography REAL NOT NULL DEFAULT 0,
			performance REAL NOT NULL DEFAULT 0,
			penalization REAL NOT NULL DEFAULT 0,
			technical_score REAL NOT NULL DEFAULT 0,
			components_score REAL NOT NULL DEFAULT 0,
			score REAL NOT NULL DEFAULT 0,
			total_score REAL NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE,
			FOREIGN KEY (skater_id) REFERENCES skaters(id) ON DELETE CASCADE,
			UNIQUE(skater_id, segment)
		)`,
		`CREATE TABLE IF NOT EXISTS boxes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			program_id INTEGER NOT NULL,
			box_order INTEGER NOT NULL,
			box_type TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE,
			UNIQUE(program_id, box_order)
		)`,
		`CREATE TABLE IF NOT EXISTS elements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			box_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			code TEXT NOT NULL,
			value_label TEXT NOT NULL DEFAULT 'Base',
			label TEXT,
			kind TEXT,
			bonus TEXT,
			star BOOLEAN DEFAULT 0,
			time BOOLEAN DEFAULT 0,
			grade INTEGER NOT NULL DEFAULT 0,
			base_value REAL NOT NULL DEFAULT 0,
			stared_value REAL NOT NULL DEFAULT 0,
			FOREIGN KEY (box_id) REFERENCES boxes(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_session ON categories(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_skaters_category ON skaters(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_programs_category ON programs(category_id, segment)`,
		`CREATE INDEX IF NOT EXISTS idx_boxes_program ON boxes(program_id)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_box ON elements(box_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// Insert default settings if not exists
	// Note: base_url is intentionally not set here - it's set by app.go
	// with the detected LAN IP address on startup
	defaultSettings := map[string]string{
		"livescore_url": "",
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// nullID stores zero ids as NULL
func nullID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

// ==================== Session Methods ====================

// CreateSession inserts a session and returns its id
func (r *Repository) CreateSession(ctx context.Context, s *scoring.Session) (int64, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO sessions (name, open) VALUES (?, ?)`, s.Name, s.Open)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = id
	return id, nil
}

// GetSession retrieves a session by id
func (r *Repository) GetSession(ctx context.Context, id int64) (*scoring.Session, error) {
	var s scoring.Session
	err := r.db.QueryRowContext(ctx, `SELECT id, name, open, created_at FROM sessions WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Open, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOpenSession returns the open session, ErrNotFound when none is open
func (r *Repository) GetOpenSession(ctx context.Context) (*scoring.Session, error) {
	var s scoring.Session
	err := r.db.QueryRowContext(ctx, `SELECT id, name, open, created_at FROM sessions WHERE open = 1 ORDER BY id DESC LIMIT 1`).
		Scan(&s.ID, &s.Name, &s.Open, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSessions returns every session, newest first
func (r *Repository) ListSessions(ctx context.Context) ([]*scoring.Session, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, open, created_at FROM sessions ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*scoring.Session
	for rows.Next() {
		var s scoring.Session
		if err := rows.Scan(&s.ID, &s.Name, &s.Open, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

// SetSessionOpen opens or closes a session
func (r *Repository) SetSessionOpen(ctx context.Context, id int64, open bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sessions SET open = ? WHERE id = ?`, open, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// OpenSessionExists reports whether any session is open
func (r *Repository) OpenSessionExists(ctx context.Context) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE open = 1`).Scan(&count)
	return count > 0, err
}

// requireRow turns an update that touched nothing into ErrNotFound
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== Category Methods ====================

const categoryColumns = `id, session_id, name, has_short, has_long, status, display_order`

func scanCategory(row interface{ Scan(...interface{}) error }) (*scoring.Category, error) {
	var c scoring.Category
	var status string
	if err := row.Scan(&c.ID, &c.SessionID, &c.Name, &c.Short, &c.Long, &status, &c.Order); err != nil {
		return nil, err
	}
	c.Status = scoring.CategoryStatus(status)
	return &c, nil
}

// CreateCategory inserts a category and returns its id
func (r *Repository) CreateCategory(ctx context.Context, c *scoring.Category) (int64, error) {
	status := c.Status
	if status == "" {
		status = scoring.CategoryUnstarted
	}
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (session_id, name, has_short, has_long, status, display_order)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.SessionID, c.Name, c.Short, c.Long, string(status), c.Order)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = id
	c.Status = status
	return id, nil
}

// UpdateCategory updates name, segments, status and order
func (r *Repository) UpdateCategory(ctx context.Context, c *scoring.Category) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, has_short = ?, has_long = ?, status = ?, display_order = ?
		WHERE id = ?
	`, c.Name, c.Short, c.Long, string(c.Status), c.Order, c.ID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// GetCategory retrieves a category by id
func (r *Repository) GetCategory(ctx context.Context, id int64) (*scoring.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

// ListCategories returns the categories of a session in display order
func (r *Repository) ListCategories(ctx context.Context, sessionID int64) ([]*scoring.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE session_id = ?
		ORDER BY display_order, id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*scoring.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SetCategoryStatus persists a category status
func (r *Repository) SetCategoryStatus(ctx context.Context, id int64, status scoring.CategoryStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE categories SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DeleteCategory removes a category with its skaters and programs
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ==================== Skater Methods ====================

const skaterColumns = `s.id, s.category_id, s.name, s.team, s.display_order, s.status, s.short_score, s.long_score, s.total_score`

func scanSkater(row interface{ Scan(...interface{}) error }) (*scoring.Skater, error) {
	var s scoring.Skater
	var team sql.NullString
	var status string
	if err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &team, &s.Order, &status, &s.ShortScore, &s.LongScore, &s.TotalScore); err != nil {
		return nil, err
	}
	s.Team = team.String
	s.Status = scoring.SkaterStatus(status)
	return &s, nil
}

func (r *Repository) listSkaters(ctx context.Context, query string, arg interface{}) ([]*scoring.Skater, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skaters []*scoring.Skater
	for rows.Next() {
		s, err := scanSkater(rows)
		if err != nil {
			return nil, err
		}
		skaters = append(skaters, s)
	}
	return skaters, rows.Err()
}

// CreateSkater inserts a skater and returns its id
func (r *Repository) CreateSkater(ctx context.Context, s *scoring.Skater) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO skaters (category_id, name, team, display_order, status, short_score, long_score, total_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.CategoryID, s.Name, s.Team, s.Order, string(s.Status), s.ShortScore, s.LongScore, s.TotalScore)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = id
	return id, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func updateSkater(ctx context.Context, db execer, s *scoring.Skater) error {
	result, err := db.ExecContext(ctx, `
		UPDATE skaters SET name = ?, team = ?, display_order = ?, status = ?, short_score = ?, long_score = ?, total_score = ?
		WHERE id = ?
	`, s.Name, s.Team, s.Order, string(s.Status), s.ShortScore, s.LongScore, s.TotalScore, s.ID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateSkater writes every skater field
func (r *Repository) UpdateSkater(ctx context.Context, s *scoring.Skater) error {
	return updateSkater(ctx, r.db, s)
}

// SettleSkater writes a skater's recorded scores and its category's status
// in one transaction
func (r *Repository) SettleSkater(ctx context.Context, s *scoring.Skater, status scoring.CategoryStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateSkater(ctx, tx, s); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `UPDATE categories SET status = ? WHERE id = ?`, string(status), s.CategoryID)
	if err != nil {
		return err
	}
	if err := requireRow(result); err != nil {
		return err
	}
	return tx.Commit()
}

// GetSkater retrieves a skater by id
func (r *Repository) GetSkater(ctx context.Context, id int64) (*scoring.Skater, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+skaterColumns+` FROM skaters s WHERE s.id = ?`, id)
	s, err := scanSkater(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

// ListSkaters returns the skaters of a category in starting order
func (r *Repository) ListSkaters(ctx context.Context, categoryID int64) ([]*scoring.Skater, error) {
	return r.listSkaters(ctx, `
		SELECT `+skaterColumns+` FROM skaters s
		WHERE s.category_id = ?
		ORDER BY s.display_order, s.id
	`, categoryID)
}

// ListSessionSkaters returns the skaters of every category of a session
func (r *Repository) ListSessionSkaters(ctx context.Context, sessionID int64) ([]*scoring.Skater, error) {
	return r.listSkaters(ctx, `
		SELECT `+skaterColumns+` FROM skaters s
		JOIN categories c ON s.category_id = c.id
		WHERE c.session_id = ?
		ORDER BY c.display_order, s.display_order, s.id
	`, sessionID)
}

// DeleteSkater removes a skater with their programs
func (r *Repository) DeleteSkater(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skaters WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ==================== Program Methods ====================

const programColumns = `p.id, p.category_id, p.skater_id, p.skater_name, p.team, p.segment, p.status, p.falls,
	p.skating_skills, p.transitions, p.choreography, p.performance,
	p.penalization, p.technical_score, p.components_score, p.score, p.total_score`

func scanProgram(row interface{ Scan(...interface{}) error }) (*scoring.Program, error) {
	var p scoring.Program
	var categoryID, skaterID sql.NullInt64
	var team sql.NullString
	var segment, status string
	if err := row.Scan(&p.ID, &categoryID, &skaterID, &p.SkaterName, &team, &segment, &status, &p.Falls,
		&p.Components.SkatingSkills, &p.Components.Transitions, &p.Components.Choreography, &p.Components.Performance,
		&p.Penalization, &p.TechnicalScore, &p.ComponentsScore, &p.Score, &p.TotalScore); err != nil {
		return nil, err
	}
	p.CategoryID = categoryID.Int64
	p.SkaterID = skaterID.Int64
	p.Team = team.String
	p.Segment = scoring.Segment(segment)
	p.Status = scoring.Status(status)
	return &p, nil
}

// SaveProgram creates or updates a program and rewrites its boxes and
// elements in one transaction.
func (r *Repository) SaveProgram(ctx context.Context, p *scoring.Program) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	args := []interface{}{
		nullID(p.CategoryID), nullID(p.SkaterID), p.SkaterName, p.Team, string(p.Segment), string(p.Status), p.Falls,
		p.Components.SkatingSkills, p.Components.Transitions, p.Components.Choreography, p.Components.Performance,
		p.Penalization, p.TechnicalScore, p.ComponentsScore, p.Score, p.TotalScore,
	}

	if p.ID == 0 {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO programs (category_id, skater_id, skater_name, team, segment, status, falls,
				skating_skills, transitions, choreography, performance,
				penalization, technical_score, components_score, score, total_score)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, args...)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = id
	} else {
		result, err := tx.ExecContext(ctx, `
			UPDATE programs SET category_id = ?, skater_id = ?, skater_name = ?, team = ?, segment = ?, status = ?, falls = ?,
				skating_skills = ?, transitions = ?, choreography = ?, performance = ?,
				penalization = ?, technical_score = ?, components_score = ?, score = ?, total_score = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, append(args, p.ID)...)
		if err != nil {
			return err
		}
		if err := requireRow(result); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM elements WHERE box_id IN (SELECT id FROM boxes WHERE program_id = ?)`, p.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM boxes WHERE program_id = ?`, p.ID); err != nil {
		return err
	}

	for _, b := range p.Boxes {
		result, err := tx.ExecContext(ctx, `INSERT INTO boxes (program_id, box_order, box_type) VALUES (?, ?, ?)`,
			p.ID, b.Order, string(b.Type))
		if err != nil {
			return err
		}
		boxID, err := result.LastInsertId()
		if err != nil {
			return err
		}
		b.ID = boxID

		for i, e := range b.Elements {
			bonus, err := json.Marshal(e.Bonus)
			if err != nil {
				return err
			}
			result, err := tx.ExecContext(ctx, `
				INSERT INTO elements (box_id, position, code, value_label, label, kind, bonus, star, time, grade, base_value, stared_value)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, boxID, i, e.Code, e.ValueLabel, e.Label, e.Kind.String(), string(bonus), e.Star, e.Time, e.Grade, e.BaseValue, e.StaredValue)
			if err != nil {
				return err
			}
			if e.ID, err = result.LastInsertId(); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// loadBoxes attaches boxes and elements to a program
func (r *Repository) loadBoxes(ctx context.Context, p *scoring.Program) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, box_order, box_type FROM boxes
		WHERE program_id = ?
		ORDER BY box_order
	`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[int64]*scoring.Box)
	p.Boxes = nil
	for rows.Next() {
		var b scoring.Box
		var boxType string
		if err := rows.Scan(&b.ID, &b.Order, &boxType); err != nil {
			return err
		}
		b.Type = scoring.BoxType(boxType)
		p.Boxes = append(p.Boxes, &b)
		byID[b.ID] = &b
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	elRows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.box_id, e.code, e.value_label, e.label, e.kind, e.bonus, e.star, e.time, e.grade, e.base_value, e.stared_value
		FROM elements e
		JOIN boxes b ON e.box_id = b.id
		WHERE b.program_id = ?
		ORDER BY b.box_order, e.position
	`, p.ID)
	if err != nil {
		return err
	}
	defer elRows.Close()

	for elRows.Next() {
		var e scoring.Element
		var boxID int64
		var label, kind, bonus sql.NullString
		if err := elRows.Scan(&e.ID, &boxID, &e.Code, &e.ValueLabel, &label, &kind, &bonus,
			&e.Star, &e.Time, &e.Grade, &e.BaseValue, &e.StaredValue); err != nil {
			return err
		}
		e.Label = label.String
		e.Kind = catalog.ParseKind(kind.String)
		if bonus.Valid && bonus.String != "" && bonus.String != "null" {
			if err := json.Unmarshal([]byte(bonus.String), &e.Bonus); err != nil {
				return err
			}
		}
		if b, ok := byID[boxID]; ok {
			b.Elements = append(b.Elements, &e)
		}
	}
	if err := elRows.Err(); err != nil {
		return err
	}
	p.RestoreLastElement()
	return nil
}

// GetProgram retrieves a program with its boxes and elements
func (r *Repository) GetProgram(ctx context.Context, id int64) (*scoring.Program, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs p WHERE p.id = ?`, id)
	p, err := scanProgram(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadBoxes(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindProgram returns a skater's program for a segment
func (r *Repository) FindProgram(ctx context.Context, skaterID int64, segment scoring.Segment) (*scoring.Program, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs p WHERE p.skater_id = ? AND p.segment = ?`,
		skaterID, string(segment))
	p, err := scanProgram(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadBoxes(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPrograms returns the programs of a category segment in starting order
func (r *Repository) ListPrograms(ctx context.Context, categoryID int64, segment scoring.Segment) ([]*scoring.Program, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+programColumns+` FROM programs p
		LEFT JOIN skaters s ON p.skater_id = s.id
		WHERE p.category_id = ? AND p.segment = ?
		ORDER BY s.display_order, p.id
	`, categoryID, string(segment))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []*scoring.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, p := range programs {
		if err := r.loadBoxes(ctx, p); err != nil {
			return nil, err
		}
	}
	return programs, nil
}

// DeleteProgram removes a program with its boxes
func (r *Repository) DeleteProgram(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ==================== Database Management Methods ====================

// validTables defines which tables can be safely cleared
var validTables = map[string]bool{
	"elements": true, "boxes": true, "programs": true, "skaters": true,
	"categories": true, "sessions": true, "settings": true,
}

// ClearTable clears all data from a table
// Only allows clearing whitelisted tables to prevent SQL injection
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	// Validate table name against whitelist
	if !validTables[table] {
		return ErrInvalidTable
	}

	// Safe to use string concatenation now that we've validated the table name
	_, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}
