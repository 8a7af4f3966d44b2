package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // tenant database driver
	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/entity"
	"github.com/agencydesk/crm-api/internal/infra/http/middleware"
	"github.com/agencydesk/crm-api/internal/infra/integration/turso"
	"github.com/agencydesk/crm-api/internal/usecase"
)

// ErrTenantDatabaseDeleted means the registry holds credentials for a
// database the hosting provider no longer knows about. This is a
// configuration problem, distinct from a database that has not propagated
// yet.
var ErrTenantDatabaseDeleted = errors.New("tenant database was deleted from the hosting provider")

// HostingAPI is the slice of the Turso platform client the provisioner uses.
type HostingAPI interface {
	CreateDatabase(ctx context.Context, name string) (*turso.Database, error)
	ListDatabaseNames(ctx context.Context) ([]string, error)
	CreateToken(ctx context.Context, dbName string) (string, error)
}

// OrganizationRegistry is the slice of the central registry the provisioner
// reads and writes.
type OrganizationRegistry interface {
	FindByID(ctx context.Context, id string) (*entity.Organization, error)
	UpdateDatabaseCredentials(ctx context.Context, id, dbName, dbURL, dbToken string) error
}

// TenantProvisioner maps an organization to its isolated contact database,
// creating it through the hosting API the first time the organization needs
// one. Open connections are cached per organization for the process
// lifetime. First-time setup is serialized per organization, so one tenant's
// provisioning never holds up another tenant's cached lookup.
type TenantProvisioner struct {
	orgs OrganizationRegistry
	api  HostingAPI
	log  *zap.Logger

	mu    sync.Mutex
	conns map[string]*sql.DB
	locks map[string]*sync.Mutex

	pollAttempts int
	pollInterval time.Duration
}

func NewTenantProvisioner(orgs OrganizationRegistry, api HostingAPI, log *zap.Logger) *TenantProvisioner {
	return &TenantProvisioner{
		orgs:         orgs,
		api:          api,
		log:          log,
		conns:        make(map[string]*sql.DB),
		locks:        make(map[string]*sync.Mutex),
		pollAttempts: 3,
		pollInterval: 2 * time.Second,
	}
}

// GetOrInit returns the organization's tenant database connection,
// provisioning the database and persisting its credentials on first access.
func (p *TenantProvisioner) GetOrInit(ctx context.Context, orgID string) (*sql.DB, error) {
	if db, ok := p.cached(orgID); ok {
		return db, nil
	}

	lock := p.orgLock(orgID)
	lock.Lock()
	defer lock.Unlock()

	// another request may have finished setup while we waited
	if db, ok := p.cached(orgID); ok {
		return db, nil
	}

	org, err := p.orgs.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if !org.HasDatabase() {
		if err := p.provision(ctx, org); err != nil {
			return nil, err
		}
	} else if err := p.verifyVisible(ctx, org.DatabaseName); err != nil {
		return nil, err
	}

	db, err := openTenantDB(org.DatabaseURL, org.DatabaseToken)
	if err != nil {
		return nil, fmt.Errorf("opening tenant database for %s: %w", orgID, err)
	}
	if err := ensureTenantSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing tenant schema for %s: %w", orgID, err)
	}

	p.mu.Lock()
	p.conns[orgID] = db
	p.mu.Unlock()
	return db, nil
}

func (p *TenantProvisioner) cached(orgID string) (*sql.DB, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	db, ok := p.conns[orgID]
	return db, ok
}

func (p *TenantProvisioner) orgLock(orgID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[orgID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[orgID] = lock
	}
	return lock
}

// ContactStore satisfies usecase.TenantStoreProvider.
func (p *TenantProvisioner) ContactStore(ctx context.Context, orgID string) (usecase.TenantContactStore, error) {
	db, err := p.GetOrInit(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return NewContactRepository(db), nil
}

// Invalidate drops a cached connection, forcing re-verification on next use.
func (p *TenantProvisioner) Invalidate(orgID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if db, ok := p.conns[orgID]; ok {
		db.Close()
		delete(p.conns, orgID)
	}
}

func (p *TenantProvisioner) provision(ctx context.Context, org *entity.Organization) error {
	name := tenantDatabaseName(org.ID)

	created, err := p.api.CreateDatabase(ctx, name)
	if err != nil {
		middleware.RecordIntegrationError("turso")
		return fmt.Errorf("creating tenant database: %w", err)
	}
	token, err := p.api.CreateToken(ctx, created.Name)
	if err != nil {
		middleware.RecordIntegrationError("turso")
		return fmt.Errorf("minting tenant database token: %w", err)
	}
	url := "libsql://" + created.Hostname

	if err := p.orgs.UpdateDatabaseCredentials(ctx, org.ID, created.Name, url, token); err != nil {
		return fmt.Errorf("persisting tenant database credentials: %w", err)
	}

	org.DatabaseName = created.Name
	org.DatabaseURL = url
	org.DatabaseToken = token

	middleware.RecordTenantProvisioned()
	p.log.Info("tenant database provisioned",
		zap.String("organization_id", org.ID),
		zap.String("database", created.Name))
	return nil
}

// verifyVisible checks that a database we hold credentials for still exists
// on the hosting side, polling a few times to ride out propagation delay
// before declaring it deleted.
func (p *TenantProvisioner) verifyVisible(ctx context.Context, dbName string) error {
	var lastErr error
	for attempt := 0; attempt < p.pollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.pollInterval):
			}
		}

		names, err := p.api.ListDatabaseNames(ctx)
		if err != nil {
			middleware.RecordIntegrationError("turso")
			lastErr = err
			continue
		}
		for _, name := range names {
			if name == dbName {
				return nil
			}
		}
		lastErr = ErrTenantDatabaseDeleted
	}

	if errors.Is(lastErr, ErrTenantDatabaseDeleted) {
		return fmt.Errorf("database %s: %w", dbName, ErrTenantDatabaseDeleted)
	}
	return fmt.Errorf("verifying tenant database %s: %w", dbName, lastErr)
}

func openTenantDB(url, token string) (*sql.DB, error) {
	dsn := url
	if token != "" {
		dsn += "?authToken=" + token
	}
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func tenantDatabaseName(orgID string) string {
	// Turso database names are lowercase with dashes; the org UUID already is.
	return "tenant-" + strings.ToLower(orgID)
}

var tenantSchema = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		current_carrier TEXT NOT NULL DEFAULT '',
		plan_type TEXT NOT NULL DEFAULT '',
		effective_date TEXT NOT NULL DEFAULT '',
		birth_date TEXT NOT NULL DEFAULT '',
		tobacco_user INTEGER NOT NULL DEFAULT 0,
		gender TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		zip_code TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		agent_id INTEGER,
		status TEXT NOT NULL DEFAULT 'New',
		last_emailed_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_email ON contacts (lower(email))`,
}

func ensureTenantSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range tenantSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
