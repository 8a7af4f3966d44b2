package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agencydesk/crm-api/internal/entity"
	"github.com/agencydesk/crm-api/internal/usecase"
)

// ContactRepository works against one organization's tenant database
// (libsql), so queries use ? placeholders and timestamps travel as RFC3339
// text.
type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

const contactColumns = `id, first_name, last_name, email, current_carrier, plan_type,
	effective_date, birth_date, tobacco_user, gender, state, zip_code,
	phone_number, agent_id, status, last_emailed_date, created_at, updated_at`

func (r *ContactRepository) List(ctx context.Context, limit int) ([]entity.Contact, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT %s FROM contacts ORDER BY created_at DESC LIMIT ?`, contactColumns)

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) FindByID(ctx context.Context, id int64) (*entity.Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE id = ?`, contactColumns)
	c, err := scanContact(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) (*entity.Contact, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	if c.Status == "" {
		c.Status = entity.ContactStatusNew
	}
	query := `
		INSERT INTO contacts (first_name, last_name, email, current_carrier, plan_type,
			effective_date, birth_date, tobacco_user, gender, state, zip_code,
			phone_number, agent_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.DB.ExecContext(ctx, query,
		c.FirstName, c.LastName, strings.ToLower(c.Email), c.CurrentCarrier, c.PlanType,
		c.EffectiveDate, c.BirthDate, boolToInt(c.TobaccoUser), c.Gender, c.State, c.ZipCode,
		c.PhoneNumber, c.AgentID, c.Status, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrEmailAlreadyExists
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) (*entity.Contact, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		UPDATE contacts
		SET first_name = ?, last_name = ?, email = ?, current_carrier = ?, plan_type = ?,
			effective_date = ?, birth_date = ?, tobacco_user = ?, gender = ?, state = ?,
			zip_code = ?, phone_number = ?, agent_id = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.DB.ExecContext(ctx, query,
		c.FirstName, c.LastName, strings.ToLower(c.Email), c.CurrentCarrier, c.PlanType,
		c.EffectiveDate, c.BirthDate, boolToInt(c.TobaccoUser), c.Gender, c.State,
		c.ZipCode, c.PhoneNumber, c.AgentID, c.Status, now, c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrEmailAlreadyExists
		}
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, entity.ErrContactNotFound
	}
	return r.FindByID(ctx, c.ID)
}

func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepository) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT email FROM contacts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *ContactRepository) MarkEmailed(ctx context.Context, id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.DB.ExecContext(ctx,
		`UPDATE contacts SET last_emailed_date = ?, updated_at = ? WHERE id = ?`,
		now, now, id,
	)
	return err
}

// ImportBatch writes staged import rows in one transaction. Each row's
// insert-or-update decision re-checks the email inside the transaction so
// rows written earlier in the same batch are observed; with overwrite
// disabled, a row whose email appeared concurrently is skipped rather than
// double-inserted. Any failure rolls the whole batch back.
func (r *ContactRepository) ImportBatch(ctx context.Context, staged []usecase.NormalizedContact, overwrite bool) (inserted, updated int, err error) {
	if len(staged) == 0 {
		return 0, 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, row := range staged {
		var existingID int64
		scanErr := tx.QueryRowContext(ctx,
			`SELECT id FROM contacts WHERE lower(email) = ?`, row.Email,
		).Scan(&existingID)

		switch {
		case errors.Is(scanErr, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx, `
				INSERT INTO contacts (first_name, last_name, email, current_carrier, plan_type,
					effective_date, birth_date, tobacco_user, gender, state, zip_code,
					phone_number, agent_id, status, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				row.FirstName, row.LastName, row.Email, row.CurrentCarrier, row.PlanType,
				row.EffectiveDate, row.BirthDate, boolToInt(row.TobaccoUser), row.Gender,
				row.State, row.ZipCode, row.PhoneNumber, row.AgentID, entity.ContactStatusNew,
				now, now,
			)
			if err != nil {
				return 0, 0, fmt.Errorf("inserting %s: %w", row.Email, err)
			}
			inserted++

		case scanErr != nil:
			err = scanErr
			return 0, 0, err

		case overwrite:
			_, err = tx.ExecContext(ctx, `
				UPDATE contacts
				SET first_name = ?, last_name = ?, current_carrier = ?, plan_type = ?,
					effective_date = ?, birth_date = ?, tobacco_user = ?, gender = ?,
					state = ?, zip_code = ?, phone_number = ?, agent_id = ?, updated_at = ?
				WHERE id = ?`,
				row.FirstName, row.LastName, row.CurrentCarrier, row.PlanType,
				row.EffectiveDate, row.BirthDate, boolToInt(row.TobaccoUser), row.Gender,
				row.State, row.ZipCode, row.PhoneNumber, row.AgentID, now, existingID,
			)
			if err != nil {
				return 0, 0, fmt.Errorf("updating %s: %w", row.Email, err)
			}
			updated++
		}
		// exists without overwrite: already rejected during screening or
		// inserted by a concurrent import; leave it untouched.
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}

type contactScanner interface {
	Scan(dest ...any) error
}

func scanContact(row contactScanner) (*entity.Contact, error) {
	var c entity.Contact
	var tobacco int
	var agentID sql.NullInt64
	var lastEmailed sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.CurrentCarrier, &c.PlanType,
		&c.EffectiveDate, &c.BirthDate, &tobacco, &c.Gender, &c.State, &c.ZipCode,
		&c.PhoneNumber, &agentID, &c.Status, &lastEmailed, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.TobaccoUser = tobacco != 0
	if agentID.Valid {
		c.AgentID = &agentID.Int64
	}
	if lastEmailed.Valid {
		if t, err := time.Parse(time.RFC3339, lastEmailed.String); err == nil {
			c.LastEmailedAt = &t
		}
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
