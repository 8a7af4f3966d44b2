package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/entity"
)

// TenantDatabaseDeleter tears down an organization's hosted database.
type TenantDatabaseDeleter interface {
	DeleteDatabase(ctx context.Context, name string) error
}

// DeleteOrganizationUseCase removes a tenant: its hosted contact database,
// its agents, then the registry row. The database delete is best-effort so a
// platform outage never leaves the registry row undeletable.
type DeleteOrganizationUseCase struct {
	Orgs    OrganizationRepositoryInterface
	Agents  AgentRepositoryInterface
	Hosting TenantDatabaseDeleter
	Log     *zap.Logger
}

func NewDeleteOrganizationUseCase(
	orgs OrganizationRepositoryInterface,
	agents AgentRepositoryInterface,
	hosting TenantDatabaseDeleter,
	log *zap.Logger,
) *DeleteOrganizationUseCase {
	return &DeleteOrganizationUseCase{Orgs: orgs, Agents: agents, Hosting: hosting, Log: log}
}

func (uc *DeleteOrganizationUseCase) Execute(ctx context.Context, orgID string) error {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return &DomainError{Code: "VALIDATION_ERROR", Message: "organization id is required"}
	}

	org, err := uc.Orgs.FindByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, entity.ErrOrganizationNotFound) {
			return &DomainError{Code: "ORGANIZATION_NOT_FOUND", Message: "organization not found"}
		}
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load organization: " + err.Error()}
	}

	if org.DatabaseName != "" {
		if err := uc.Hosting.DeleteDatabase(ctx, org.DatabaseName); err != nil {
			uc.Log.Warn("tenant database delete failed, continuing teardown",
				zap.String("organization_id", orgID),
				zap.String("database_name", org.DatabaseName),
				zap.Error(err))
		}
	}

	if err := uc.Agents.DeleteByOrganization(ctx, orgID); err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to delete agents: " + err.Error()}
	}
	if err := uc.Orgs.Delete(ctx, orgID); err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to delete organization: " + err.Error()}
	}

	uc.Log.Info("organization deleted", zap.String("organization_id", orgID))
	return nil
}
