package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/entity"
)

// CreateOrganizationUseCase handles tenant signup: a registry row plus the
// initial admin agent. The tenant contact database itself is provisioned
// lazily on first real use, not here.
type CreateOrganizationUseCase struct {
	Orgs   OrganizationRepositoryInterface
	Agents AgentRepositoryInterface
	Log    *zap.Logger
}

func NewCreateOrganizationUseCase(
	orgs OrganizationRepositoryInterface,
	agents AgentRepositoryInterface,
	log *zap.Logger,
) *CreateOrganizationUseCase {
	return &CreateOrganizationUseCase{Orgs: orgs, Agents: agents, Log: log}
}

func (uc *CreateOrganizationUseCase) Execute(ctx context.Context, input CreateOrganizationInput) (*CreateOrganizationOutput, error) {
	if errs := validateCreateOrganizationInput(input); len(errs) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed: " + strings.Join(errs, ", "),
		}
	}

	org := entity.NewOrganization(input.Name, input.Email, input.Tier)
	admin := &entity.Agent{
		OrganizationID: org.ID,
		FirstName:      strings.TrimSpace(input.AdminFirstName),
		LastName:       strings.TrimSpace(input.AdminLastName),
		Email:          strings.ToLower(strings.TrimSpace(input.AdminEmail)),
		Phone:          strings.TrimSpace(input.AdminPhone),
		Role:           entity.RoleAdmin,
	}

	// Registry row and admin agent are separate statements against the
	// central database; compensate the first if the second fails.
	txn := NewTransaction(uc.Log)
	txn.AddOperation("create_organization", func(ctx context.Context) error {
		return uc.Orgs.Create(ctx, org)
	})
	txn.AddCompensation("delete_organization", func(ctx context.Context) error {
		return uc.Orgs.Delete(ctx, org.ID)
	})
	txn.AddOperation("create_admin_agent", func(ctx context.Context) error {
		created, err := uc.Agents.Create(ctx, admin)
		if err != nil {
			return err
		}
		admin = created
		return nil
	})

	if err := txn.Execute(ctx); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to create organization: " + err.Error(),
		}
	}

	uc.Log.Info("organization created",
		zap.String("organization_id", org.ID),
		zap.String("tier", org.SubscriptionTier))

	return &CreateOrganizationOutput{
		ID:           org.ID,
		Name:         org.Name,
		Tier:         org.SubscriptionTier,
		AdminAgentID: admin.ID,
	}, nil
}

func validateCreateOrganizationInput(input CreateOrganizationInput) []string {
	var errs []string
	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, "email is required")
	} else if !emailRe.MatchString(strings.ToLower(strings.TrimSpace(input.Email))) {
		errs = append(errs, "email is invalid")
	}
	if strings.TrimSpace(input.AdminFirstName) == "" {
		errs = append(errs, "admin_first_name is required")
	}
	if strings.TrimSpace(input.AdminLastName) == "" {
		errs = append(errs, "admin_last_name is required")
	}
	if strings.TrimSpace(input.AdminEmail) == "" {
		errs = append(errs, "admin_email is required")
	} else if !emailRe.MatchString(strings.ToLower(strings.TrimSpace(input.AdminEmail))) {
		errs = append(errs, "admin_email is invalid")
	}
	if tier := input.Tier; tier != "" && tier != entity.TierBasic && tier != entity.TierPro {
		errs = append(errs, "subscription_tier must be basic or pro")
	}
	return errs
}
