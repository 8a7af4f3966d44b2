package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/agencydesk/crm-api/internal/entity"
)

type OrganizationRepository struct {
	DB *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{DB: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *entity.Organization) error {
	query := `
		INSERT INTO organizations (id, name, email, subscription_tier, agent_limit, contact_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		org.ID,
		org.Name,
		org.Email,
		org.SubscriptionTier,
		org.AgentLimit,
		org.ContactLimit,
		org.CreatedAt,
		org.UpdatedAt,
	)
	return err
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*entity.Organization, error) {
	query := `
		SELECT id, name, email, subscription_tier, agent_limit, contact_limit,
		       database_name, database_url, database_token, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`
	var org entity.Organization
	var dbName, dbURL, dbToken sql.NullString

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&org.Email,
		&org.SubscriptionTier,
		&org.AgentLimit,
		&org.ContactLimit,
		&dbName,
		&dbURL,
		&dbToken,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}

	org.DatabaseName = dbName.String
	org.DatabaseURL = dbURL.String
	org.DatabaseToken = dbToken.String
	return &org, nil
}

// UpdateDatabaseCredentials persists the tenant database location after
// provisioning so later accesses skip the hosting API.
func (r *OrganizationRepository) UpdateDatabaseCredentials(ctx context.Context, id, dbName, dbURL, dbToken string) error {
	query := `
		UPDATE organizations
		SET database_name = $2, database_url = $3, database_token = $4, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, dbName, dbURL, dbToken)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrOrganizationNotFound
	}
	return nil
}

// FindStalled returns organizations created before the cutoff that never
// provisioned a database and have no agents. The cleanup worker deletes them.
func (r *OrganizationRepository) FindStalled(ctx context.Context, cutoff time.Time) ([]entity.Organization, error) {
	query := `
		SELECT o.id, o.name, o.email, o.subscription_tier, o.agent_limit, o.contact_limit,
		       o.database_name, o.database_url, o.database_token, o.created_at, o.updated_at
		FROM organizations o
		WHERE o.database_url IS NULL
		  AND o.created_at < $1
		  AND NOT EXISTS (SELECT 1 FROM agents a WHERE a.organization_id = o.id)
	`
	rows, err := r.DB.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []entity.Organization
	for rows.Next() {
		var org entity.Organization
		var dbName, dbURL, dbToken sql.NullString
		if err := rows.Scan(
			&org.ID, &org.Name, &org.Email, &org.SubscriptionTier,
			&org.AgentLimit, &org.ContactLimit,
			&dbName, &dbURL, &dbToken,
			&org.CreatedAt, &org.UpdatedAt,
		); err != nil {
			return nil, err
		}
		org.DatabaseName = dbName.String
		org.DatabaseURL = dbURL.String
		org.DatabaseToken = dbToken.String
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	return err
}
