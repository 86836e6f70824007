package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Lislejoem/social-garden/internal/storage"
	"github.com/Lislejoem/social-garden/pkg/types"
)

// ContactStore implements storage.ContactStore using SQLite.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore opens a SQLite database, configures WAL mode, and creates
// the schema.
func NewContactStore(dsn string) (*ContactStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Using a single open connection
	// serialises writes and avoids SQLITE_BUSY errors under concurrent load.
	// WAL mode allows concurrent readers to proceed without blocking the writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set busy timeout so that callers wait instead of getting an immediate
	// SQLITE_BUSY error when the connection is held by another goroutine.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &ContactStore{db: db}, nil
}

// CreateContact inserts a new contact row (without children).
func (s *ContactStore) CreateContact(ctx context.Context, contact *types.Contact) error {
	if err := validateContact(contact); err != nil {
		return err
	}

	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
	}
	if contact.UpdatedAt.IsZero() {
		contact.UpdatedAt = contact.CreatedAt
	}
	if contact.Cadence == "" {
		contact.Cadence = types.DefaultCadence
	}

	return s.insertContact(ctx, s.db, contact)
}

// execer abstracts *sql.DB and *sql.Tx so insert helpers can run inside or
// outside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *ContactStore) insertContact(ctx context.Context, e execer, contact *types.Contact) error {
	socials := contact.Socials
	if socials == nil {
		socials = &types.Socials{}
	}

	_, err := e.ExecContext(ctx, `
		INSERT INTO contacts (
			id, name, avatar_url, location, birthday, cadence,
			social_instagram, social_linkedin, social_twitter, social_phone, social_email,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		contact.ID, contact.Name,
		nullString(contact.AvatarURL), nullString(contact.Location), nullTime(contact.Birthday),
		string(contact.Cadence),
		nullString(socials.Instagram), nullString(socials.LinkedIn), nullString(socials.Twitter),
		nullString(socials.Phone), nullString(socials.Email),
		contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// GetContact retrieves a contact by ID with all child collections populated.
// Interactions come back newest first.
func (s *ContactStore) GetContact(ctx context.Context, id string) (*types.Contact, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: contact ID is required", storage.ErrInvalidInput)
	}
	return s.getContactWhere(ctx, "id = ?", id)
}

// FindContactByName resolves a contact by case-insensitive exact name match.
func (s *ContactStore) FindContactByName(ctx context.Context, name string) (*types.Contact, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: contact name is required", storage.ErrInvalidInput)
	}
	return s.getContactWhere(ctx, "lower(name) = lower(?)", name)
}

func (s *ContactStore) getContactWhere(ctx context.Context, where string, arg interface{}) (*types.Contact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, avatar_url, location, birthday, cadence,
		       social_instagram, social_linkedin, social_twitter, social_phone, social_email,
		       created_at, updated_at
		FROM contacts WHERE `+where, arg)

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	if err := s.loadChildren(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(r rowScanner) (*types.Contact, error) {
	var contact types.Contact
	var avatarURL, location sql.NullString
	var birthday sql.NullTime
	var cadence string
	var instagram, linkedin, twitter, phone, email sql.NullString

	err := r.Scan(
		&contact.ID, &contact.Name, &avatarURL, &location, &birthday, &cadence,
		&instagram, &linkedin, &twitter, &phone, &email,
		&contact.CreatedAt, &contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	contact.AvatarURL = avatarURL.String
	contact.Location = location.String
	if birthday.Valid {
		t := birthday.Time
		contact.Birthday = &t
	}
	contact.Cadence = types.Cadence(cadence)

	if instagram.Valid || linkedin.Valid || twitter.Valid || phone.Valid || email.Valid {
		contact.Socials = &types.Socials{
			Instagram: instagram.String,
			LinkedIn:  linkedin.String,
			Twitter:   twitter.String,
			Phone:     phone.String,
			Email:     email.String,
		}
	}

	return &contact, nil
}

func (s *ContactStore) loadChildren(ctx context.Context, contact *types.Contact) error {
	// Preferences
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contact_id, category, content, created_at
		FROM preferences WHERE contact_id = ? ORDER BY created_at, id
	`, contact.ID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p types.Preference
		var category string
		if err := rows.Scan(&p.ID, &p.ContactID, &category, &p.Content, &p.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan preference: %w", err)
		}
		p.Category = types.PreferenceCategory(category)
		contact.Preferences = append(contact.Preferences, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate preferences: %w", err)
	}

	// Interactions, newest first
	irows, err := s.db.QueryContext(ctx, `
		SELECT id, contact_id, type, occurred_at, summary, created_at
		FROM interactions WHERE contact_id = ? ORDER BY occurred_at DESC, id
	`, contact.ID)
	if err != nil {
		return fmt.Errorf("failed to load interactions: %w", err)
	}
	defer irows.Close()
	for irows.Next() {
		var in types.Interaction
		var itype string
		if err := irows.Scan(&in.ID, &in.ContactID, &itype, &in.OccurredAt, &in.Summary, &in.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan interaction: %w", err)
		}
		in.Type = types.InteractionType(itype)
		contact.Interactions = append(contact.Interactions, in)
	}
	if err := irows.Err(); err != nil {
		return fmt.Errorf("failed to iterate interactions: %w", err)
	}

	// Seedlings
	srows, err := s.db.QueryContext(ctx, `
		SELECT id, contact_id, content, status, created_at, planted_at
		FROM seedlings WHERE contact_id = ? ORDER BY created_at, id
	`, contact.ID)
	if err != nil {
		return fmt.Errorf("failed to load seedlings: %w", err)
	}
	defer srows.Close()
	for srows.Next() {
		var sd types.Seedling
		var status string
		var plantedAt sql.NullTime
		if err := srows.Scan(&sd.ID, &sd.ContactID, &sd.Content, &status, &sd.CreatedAt, &plantedAt); err != nil {
			return fmt.Errorf("failed to scan seedling: %w", err)
		}
		sd.Status = types.SeedlingStatus(status)
		if plantedAt.Valid {
			t := plantedAt.Time
			sd.PlantedAt = &t
		}
		contact.Seedlings = append(contact.Seedlings, sd)
	}
	if err := srows.Err(); err != nil {
		return fmt.Errorf("failed to iterate seedlings: %w", err)
	}

	// Family members
	frows, err := s.db.QueryContext(ctx, `
		SELECT id, contact_id, name, relation, created_at
		FROM family_members WHERE contact_id = ? ORDER BY created_at, id
	`, contact.ID)
	if err != nil {
		return fmt.Errorf("failed to load family members: %w", err)
	}
	defer frows.Close()
	for frows.Next() {
		var fm types.FamilyMember
		if err := frows.Scan(&fm.ID, &fm.ContactID, &fm.Name, &fm.Relation, &fm.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan family member: %w", err)
		}
		contact.FamilyMembers = append(contact.FamilyMembers, fm)
	}
	if err := frows.Err(); err != nil {
		return fmt.Errorf("failed to iterate family members: %w", err)
	}

	return nil
}

// ListContacts retrieves contacts with pagination and filtering. Only the
// most recent interaction per contact is attached, enough to derive health.
func (s *ContactStore) ListContacts(ctx context.Context, opts storage.ListOptions) (*storage.PaginatedResult[types.Contact], error) {
	// Normalize options (must be done before ORDER BY construction to prevent SQL injection)
	opts.Normalize()

	var conditions []string
	var args []interface{}

	if opts.Cadence != "" {
		conditions = append(conditions, "cadence = ?")
		args = append(args, string(opts.Cadence))
	}
	if opts.NameContains != "" {
		conditions = append(conditions, "lower(name) LIKE '%' || lower(?) || '%'")
		args = append(args, opts.NameContains)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM contacts" + whereClause
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := `
		SELECT id, name, avatar_url, location, birthday, cadence,
		       social_instagram, social_linkedin, social_twitter, social_phone, social_email,
		       created_at, updated_at
		FROM contacts` + whereClause

	// Sorting is safe from SQL injection due to Normalize() whitelist validation above
	query += fmt.Sprintf(" ORDER BY %s %s", opts.SortBy, opts.SortOrder)
	query += " LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, opts.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []types.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	// Attach the single most recent interaction per listed contact.
	for i := range contacts {
		row := s.db.QueryRowContext(ctx, `
			SELECT id, contact_id, type, occurred_at, summary, created_at
			FROM interactions WHERE contact_id = ?
			ORDER BY occurred_at DESC, id LIMIT 1
		`, contacts[i].ID)

		var in types.Interaction
		var itype string
		err := row.Scan(&in.ID, &in.ContactID, &itype, &in.OccurredAt, &in.Summary, &in.CreatedAt)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load latest interaction: %w", err)
		}
		in.Type = types.InteractionType(itype)
		contacts[i].Interactions = []types.Interaction{in}
	}

	return &storage.PaginatedResult[types.Contact]{
		Items:    contacts,
		Total:    total,
		Page:     opts.Page,
		PageSize: opts.Limit,
		HasMore:  opts.Offset()+len(contacts) < total,
	}, nil
}

// UpdateContact modifies an existing contact's own fields (not children).
func (s *ContactStore) UpdateContact(ctx context.Context, contact *types.Contact) error {
	if err := validateContact(contact); err != nil {
		return err
	}

	socials := contact.Socials
	if socials == nil {
		socials = &types.Socials{}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE contacts SET
			name = ?, avatar_url = ?, location = ?, birthday = ?, cadence = ?,
			social_instagram = ?, social_linkedin = ?, social_twitter = ?,
			social_phone = ?, social_email = ?,
			updated_at = ?
		WHERE id = ?
	`,
		contact.Name, nullString(contact.AvatarURL), nullString(contact.Location),
		nullTime(contact.Birthday), string(contact.Cadence),
		nullString(socials.Instagram), nullString(socials.LinkedIn), nullString(socials.Twitter),
		nullString(socials.Phone), nullString(socials.Email),
		contact.UpdatedAt, contact.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteContact removes a contact; child rows go with it via cascade.
func (s *ContactStore) DeleteContact(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: contact ID is required", storage.ErrInvalidInput)
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ApplyMerge applies one merge commit as a single transaction.
func (s *ContactStore) ApplyMerge(ctx context.Context, req storage.ApplyMergeRequest) error {
	if req.Contact == nil {
		return fmt.Errorf("%w: merge request requires a contact", storage.ErrInvalidInput)
	}
	if err := validateContact(req.Contact); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin merge transaction: %w", err)
	}
	defer tx.Rollback()

	if req.IsNewContact {
		if err := s.insertContact(ctx, tx, req.Contact); err != nil {
			return err
		}
	} else {
		socials := req.Contact.Socials
		if socials == nil {
			socials = &types.Socials{}
		}
		result, err := tx.ExecContext(ctx, `
			UPDATE contacts SET
				name = ?, avatar_url = ?, location = ?, birthday = ?, cadence = ?,
				social_instagram = ?, social_linkedin = ?, social_twitter = ?,
				social_phone = ?, social_email = ?,
				updated_at = ?
			WHERE id = ?
		`,
			req.Contact.Name, nullString(req.Contact.AvatarURL), nullString(req.Contact.Location),
			nullTime(req.Contact.Birthday), string(req.Contact.Cadence),
			nullString(socials.Instagram), nullString(socials.LinkedIn), nullString(socials.Twitter),
			nullString(socials.Phone), nullString(socials.Email),
			req.Contact.UpdatedAt, req.Contact.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update contact in merge: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return storage.ErrNotFound
		}
	}

	for i := range req.Preferences {
		p := &req.Preferences[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO preferences (id, contact_id, category, content, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, p.ID, p.ContactID, string(p.Category), p.Content, p.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert preference: %w", err)
		}
	}

	for i := range req.FamilyMembers {
		fm := &req.FamilyMembers[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO family_members (id, contact_id, name, relation, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, fm.ID, fm.ContactID, fm.Name, fm.Relation, fm.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert family member: %w", err)
		}
	}

	for i := range req.Seedlings {
		sd := &req.Seedlings[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO seedlings (id, contact_id, content, status, created_at, planted_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, sd.ID, sd.ContactID, sd.Content, string(sd.Status), sd.CreatedAt, nullTime(sd.PlantedAt)); err != nil {
			return fmt.Errorf("failed to insert seedling: %w", err)
		}
	}

	if req.Interaction != nil {
		in := req.Interaction
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO interactions (id, contact_id, type, occurred_at, summary, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, in.ID, in.ContactID, string(in.Type), in.OccurredAt, in.Summary, in.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert interaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit merge: %w", err)
	}
	return nil
}

// AddInteraction appends a single interaction outside the merge path.
func (s *ContactStore) AddInteraction(ctx context.Context, interaction *types.Interaction) error {
	if interaction == nil || interaction.ID == "" || interaction.ContactID == "" {
		return fmt.Errorf("%w: interaction requires ID and contact ID", storage.ErrInvalidInput)
	}
	if !types.IsValidInteractionType(interaction.Type) {
		return fmt.Errorf("%w: unknown interaction type %q", storage.ErrInvalidInput, interaction.Type)
	}

	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now()
	}
	if interaction.OccurredAt.IsZero() {
		interaction.OccurredAt = interaction.CreatedAt
	}

	exists, err := s.contactExists(ctx, interaction.ContactID)
	if err != nil {
		return err
	}
	if !exists {
		return storage.ErrNotFound
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interactions (id, contact_id, type, occurred_at, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, interaction.ID, interaction.ContactID, string(interaction.Type),
		interaction.OccurredAt, interaction.Summary, interaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// UpdateSeedlingStatus transitions a seedling's status. ACTIVE -> PLANTED is
// the only legal move; planting an already-PLANTED seedling is a no-op.
func (s *ContactStore) UpdateSeedlingStatus(ctx context.Context, seedlingID string, status types.SeedlingStatus) error {
	if seedlingID == "" {
		return fmt.Errorf("%w: seedling ID is required", storage.ErrInvalidInput)
	}
	if !types.IsValidSeedlingStatus(status) {
		return fmt.Errorf("%w: unknown seedling status %q", storage.ErrInvalidInput, status)
	}

	var current string
	err := s.db.QueryRowContext(ctx, "SELECT status FROM seedlings WHERE id = ?", seedlingID).Scan(&current)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read seedling status: %w", err)
	}

	switch {
	case types.SeedlingStatus(current) == status:
		// No-op, including planting an already-PLANTED seedling.
		return nil
	case types.SeedlingStatus(current) == types.SeedlingPlanted && status == types.SeedlingActive:
		return storage.ErrInvalidTransition
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE seedlings SET status = ?, planted_at = CURRENT_TIMESTAMP WHERE id = ?
	`, string(status), seedlingID)
	if err != nil {
		return fmt.Errorf("failed to update seedling status: %w", err)
	}
	return nil
}

// DeletePreference removes a single preference row.
func (s *ContactStore) DeletePreference(ctx context.Context, preferenceID string) error {
	return s.deleteChildRow(ctx, "preferences", preferenceID)
}

// DeleteFamilyMember removes a single family member row.
func (s *ContactStore) DeleteFamilyMember(ctx context.Context, familyMemberID string) error {
	return s.deleteChildRow(ctx, "family_members", familyMemberID)
}

func (s *ContactStore) deleteChildRow(ctx context.Context, table, id string) error {
	if id == "" {
		return fmt.Errorf("%w: ID is required", storage.ErrInvalidInput)
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Close closes the underlying database connection.
func (s *ContactStore) Close() error {
	return s.db.Close()
}

func (s *ContactStore) contactExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check contact existence: %w", err)
	}
	return count > 0, nil
}

func validateContact(contact *types.Contact) error {
	if contact == nil {
		return storage.ErrInvalidInput
	}
	if contact.ID == "" {
		return fmt.Errorf("%w: contact ID is required", storage.ErrInvalidInput)
	}
	if contact.Name == "" {
		return fmt.Errorf("%w: contact name is required", storage.ErrInvalidInput)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Compile-time assertion.
var _ storage.ContactStore = (*ContactStore)(nil)
