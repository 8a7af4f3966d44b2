package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/entity"
)

// MockOrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *entity.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id string) (*entity.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAgentRepository
type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) Create(ctx context.Context, a *entity.Agent) (*entity.Agent, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindByID(ctx context.Context, orgID string, id int64) (*entity.Agent, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Agent), args.Error(1)
}

func (m *MockAgentRepository) ListByOrganization(ctx context.Context, orgID string) ([]entity.Agent, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Agent), args.Error(1)
}

func (m *MockAgentRepository) DeleteByOrganization(ctx context.Context, orgID string) error {
	args := m.Called(ctx, orgID)
	return args.Error(0)
}

func validSignup() CreateOrganizationInput {
	return CreateOrganizationInput{
		Name:           "Acme Insurance Group",
		Email:          "ops@acme.example.com",
		Tier:           entity.TierPro,
		AdminFirstName: "Ada",
		AdminLastName:  "Admin",
		AdminEmail:     "ada@acme.example.com",
	}
}

func TestCreateOrganizationSuccess(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	agents := new(MockAgentRepository)

	orgs.On("Create", mock.Anything, mock.Anything).Return(nil)
	agents.On("Create", mock.Anything, mock.Anything).Return(&entity.Agent{ID: 1, Role: entity.RoleAdmin}, nil)

	uc := NewCreateOrganizationUseCase(orgs, agents, zap.NewNop())
	output, err := uc.Execute(context.Background(), validSignup())

	assert.NoError(t, err)
	assert.NotEmpty(t, output.ID)
	assert.Equal(t, entity.TierPro, output.Tier)
	assert.Equal(t, int64(1), output.AdminAgentID)
	orgs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateOrganizationValidation(t *testing.T) {
	uc := NewCreateOrganizationUseCase(new(MockOrganizationRepository), new(MockAgentRepository), zap.NewNop())

	input := validSignup()
	input.Name = ""
	input.AdminEmail = "not-an-email"

	output, err := uc.Execute(context.Background(), input)

	assert.Nil(t, output)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	assert.Contains(t, domainErr.Message, "name is required")
	assert.Contains(t, domainErr.Message, "admin_email is invalid")
}

func TestCreateOrganizationCompensatesWhenAdminFails(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	agents := new(MockAgentRepository)

	orgs.On("Create", mock.Anything, mock.Anything).Return(nil)
	orgs.On("Delete", mock.Anything, mock.Anything).Return(nil)
	agents.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("unique violation"))

	uc := NewCreateOrganizationUseCase(orgs, agents, zap.NewNop())
	output, err := uc.Execute(context.Background(), validSignup())

	assert.Nil(t, output)
	var techErr *TechnicalError
	assert.ErrorAs(t, err, &techErr)
	orgs.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteOrganizationTearsDownTenant(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	agents := new(MockAgentRepository)
	hosting := new(MockHostingDeleter)

	org := &entity.Organization{ID: "org-1", DatabaseName: "tenant-org-1"}
	orgs.On("FindByID", mock.Anything, "org-1").Return(org, nil)
	hosting.On("DeleteDatabase", mock.Anything, "tenant-org-1").Return(nil)
	agents.On("DeleteByOrganization", mock.Anything, "org-1").Return(nil)
	orgs.On("Delete", mock.Anything, "org-1").Return(nil)

	uc := NewDeleteOrganizationUseCase(orgs, agents, hosting, zap.NewNop())
	err := uc.Execute(context.Background(), "org-1")

	assert.NoError(t, err)
	hosting.AssertExpectations(t)
	agents.AssertExpectations(t)
}

func TestDeleteOrganizationSurvivesHostingFailure(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	agents := new(MockAgentRepository)
	hosting := new(MockHostingDeleter)

	org := &entity.Organization{ID: "org-1", DatabaseName: "tenant-org-1"}
	orgs.On("FindByID", mock.Anything, "org-1").Return(org, nil)
	hosting.On("DeleteDatabase", mock.Anything, "tenant-org-1").Return(errors.New("api down"))
	agents.On("DeleteByOrganization", mock.Anything, "org-1").Return(nil)
	orgs.On("Delete", mock.Anything, "org-1").Return(nil)

	uc := NewDeleteOrganizationUseCase(orgs, agents, hosting, zap.NewNop())
	err := uc.Execute(context.Background(), "org-1")

	assert.NoError(t, err, "tenant teardown is best effort")
}

func TestDeleteOrganizationNotFound(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	orgs.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrOrganizationNotFound)

	uc := NewDeleteOrganizationUseCase(orgs, new(MockAgentRepository), new(MockHostingDeleter), zap.NewNop())
	err := uc.Execute(context.Background(), "missing")

	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ORGANIZATION_NOT_FOUND", domainErr.Code)
}

// MockHostingDeleter
type MockHostingDeleter struct {
	mock.Mock
}

func (m *MockHostingDeleter) DeleteDatabase(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
