package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/entity"
	"github.com/agencydesk/crm-api/internal/location"
)

type ImportContactsUseCase struct {
	Tenants  TenantStoreProvider
	Carriers CarrierCatalog
	Zips     *location.Service
	Log      *zap.Logger
}

func NewImportContactsUseCase(
	tenants TenantStoreProvider,
	carriers CarrierCatalog,
	zips *location.Service,
	log *zap.Logger,
) *ImportContactsUseCase {
	return &ImportContactsUseCase{
		Tenants:  tenants,
		Carriers: carriers,
		Zips:     zips,
		Log:      log,
	}
}

// ExecuteCSV parses an uploaded CSV file and runs the import pipeline on it.
// Row numbers in the report are offset by one for the header row.
func (uc *ImportContactsUseCase) ExecuteCSV(
	ctx context.Context,
	orgID string,
	file io.Reader,
	overwrite bool,
	agentID *int64,
	caller *entity.Agent,
) (*ImportReport, error) {
	header, rows, err := ParseContactsCSV(file)
	if err != nil {
		return nil, &DomainError{
			Code:    "INVALID_FILE",
			Message: "could not parse CSV file: " + err.Error(),
		}
	}

	return uc.Execute(ctx, ImportContactsInput{
		OrganizationID:    orgID,
		Header:            header,
		Rows:              rows,
		RowOffset:         1,
		OverwriteExisting: overwrite,
		AgentID:           agentID,
		Caller:            caller,
	})
}

// Execute drives the full pipeline: header gate, per-row validation, carrier
// normalization, duplicate screening, transactional write phase and report
// assembly. Row-level failures never abort the import; it returns an error
// only for structural failures (tenant database unreachable, write phase
// rolled back).
func (uc *ImportContactsUseCase) Execute(ctx context.Context, input ImportContactsInput) (*ImportReport, error) {
	required := RequiredImportColumns()

	// Header gate: no row is read when any required column is missing.
	if missing := missingColumns(input.Header, required); len(missing) > 0 {
		return &ImportReport{
			Success: false,
			Message: "Missing required columns: " + strings.Join(missing, ", "),
		}, nil
	}

	store, err := uc.Tenants.ContactStore(ctx, input.OrganizationID)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "TENANT_DB_UNAVAILABLE",
			Message: "could not reach organization database: " + err.Error(),
		}
	}

	existingEmails, err := store.ListEmails(ctx)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "TENANT_DB_UNAVAILABLE",
			Message: "could not load existing contacts: " + err.Error(),
		}
	}
	existing := make(map[string]bool, len(existingEmails))
	for _, e := range existingEmails {
		existing[strings.ToLower(e)] = true
	}

	// Carrier lookup is non-essential: on failure every carrier passes
	// through verbatim, flagged for review, instead of failing the import.
	catalog, err := uc.Carriers.ListAll(ctx)
	if err != nil {
		uc.Log.Warn("carrier catalog unavailable, passing carrier names through",
			zap.Error(err), zap.String("organization_id", input.OrganizationID))
		catalog = nil
	}

	assignedAgent := resolveAgentID(input.AgentID, input.Caller)

	var staged []NormalizedContact
	var errorRows []errorRow
	var convertedRows []convertedRow

	for i, row := range input.Rows {
		rowNum := i + 1 + input.RowOffset

		normalized, errs := ValidateContactRow(row, required, uc.Zips)
		if len(errs) > 0 {
			errorRows = append(errorRows, errorRow{
				RowNumber: rowNum,
				Values:    row,
				Message:   strings.Join(errs, "; "),
			})
			continue
		}

		// Pre-screen against the loaded email set; the write phase
		// re-checks per row inside the transaction.
		if existing[normalized.Email] && !input.OverwriteExisting {
			errorRows = append(errorRows, errorRow{
				RowNumber: rowNum,
				Values:    row,
				Message:   fmt.Sprintf("Duplicate email: %s already exists", normalized.OriginalEmail),
			})
			continue
		}

		match := NormalizeCarrier(normalized.CurrentCarrier, catalog)
		if match.WasConverted {
			convertedRows = append(convertedRows, convertedRow{
				RowNumber:       rowNum,
				Values:          row,
				OriginalCarrier: normalized.CurrentCarrier,
			})
		}
		normalized.CurrentCarrier = match.StandardizedName
		normalized.AgentID = assignedAgent

		staged = append(staged, *normalized)
	}

	inserted, updated, err := store.ImportBatch(ctx, staged, input.OverwriteExisting)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "IMPORT_WRITE_FAILED",
			Message: "import write phase failed, no rows were committed: " + err.Error(),
		}
	}

	exportCols := exportColumns(input.Header, required)
	report := &ImportReport{
		Success:              true,
		TotalRows:            len(staged) + len(errorRows),
		ValidRows:            len(staged),
		ErrorRows:            len(errorRows),
		ConvertedCarrierRows: len(convertedRows),
		ErrorCSV:             buildErrorCSV(exportCols, errorRows),
		ConvertedCarriersCSV: buildConvertedCSV(exportCols, convertedRows),
		SupportedCarriers:    catalog,
	}
	report.Message = fmt.Sprintf(
		"Processed %d rows: %d imported (%d new, %d updated), %d rejected, %d unrecognized carriers",
		report.TotalRows, report.ValidRows, inserted, updated, report.ErrorRows, report.ConvertedCarrierRows,
	)

	uc.Log.Info("contact import finished",
		zap.String("organization_id", input.OrganizationID),
		zap.Int("total_rows", report.TotalRows),
		zap.Int("valid_rows", report.ValidRows),
		zap.Int("error_rows", report.ErrorRows),
		zap.Int("converted_carrier_rows", report.ConvertedCarrierRows),
		zap.Bool("overwrite", input.OverwriteExisting),
	)

	return report, nil
}

// resolveAgentID picks the agent new contacts are assigned to: an explicit
// request value wins; otherwise an importing agent gets their own id; admins
// and anonymous imports leave contacts unassigned.
func resolveAgentID(requested *int64, caller *entity.Agent) *int64 {
	if requested != nil {
		return requested
	}
	if caller != nil && caller.Role == entity.RoleAgent {
		id := caller.ID
		return &id
	}
	return nil
}

// exportColumns is the column order for the error and converted-carrier CSV
// exports: the required columns, plus Phone Number when the upload had it.
func exportColumns(header []string, required []string) []string {
	cols := append([]string(nil), required...)
	for _, col := range header {
		if strings.TrimSpace(col) == ColPhoneNumber {
			cols = append(cols, ColPhoneNumber)
			break
		}
	}
	return cols
}
