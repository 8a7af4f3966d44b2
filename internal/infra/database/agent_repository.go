package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agencydesk/crm-api/internal/entity"
)

type AgentRepository struct {
	DB *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{DB: db}
}

func (r *AgentRepository) Create(ctx context.Context, a *entity.Agent) (*entity.Agent, error) {
	query := `
		INSERT INTO agents (organization_id, first_name, last_name, email, phone, role, state_licenses, carrier_contracts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	licenses, err := json.Marshal(stringsOrEmpty(a.StateLicenses))
	if err != nil {
		return nil, err
	}
	contracts, err := json.Marshal(stringsOrEmpty(a.CarrierContracts))
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx, query,
		a.OrganizationID,
		a.FirstName,
		a.LastName,
		a.Email,
		a.Phone,
		a.Role,
		licenses,
		contracts,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, entity.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return a, nil
}

func (r *AgentRepository) FindByID(ctx context.Context, orgID string, id int64) (*entity.Agent, error) {
	query := `
		SELECT id, organization_id, first_name, last_name, email, phone, role,
		       state_licenses, carrier_contracts, created_at, updated_at
		FROM agents
		WHERE organization_id = $1 AND id = $2
	`
	return r.scanAgent(r.DB.QueryRowContext(ctx, query, orgID, id))
}

func (r *AgentRepository) ListByOrganization(ctx context.Context, orgID string) ([]entity.Agent, error) {
	query := `
		SELECT id, organization_id, first_name, last_name, email, phone, role,
		       state_licenses, carrier_contracts, created_at, updated_at
		FROM agents
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []entity.Agent
	for rows.Next() {
		agent, err := r.scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

func (r *AgentRepository) DeleteByOrganization(ctx context.Context, orgID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM agents WHERE organization_id = $1`, orgID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AgentRepository) scanAgent(row rowScanner) (*entity.Agent, error) {
	var a entity.Agent
	var licenses, contracts []byte

	err := row.Scan(
		&a.ID,
		&a.OrganizationID,
		&a.FirstName,
		&a.LastName,
		&a.Email,
		&a.Phone,
		&a.Role,
		&licenses,
		&contracts,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrAgentNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(licenses, &a.StateLicenses); err != nil {
		a.StateLicenses = nil
	}
	if err := json.Unmarshal(contracts, &a.CarrierContracts); err != nil {
		a.CarrierContracts = nil
	}
	return &a, nil
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
