package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/agencydesk/crm-api/internal/entity"
	"github.com/agencydesk/crm-api/internal/usecase"
)

func stagedRow(email string) usecase.NormalizedContact {
	return usecase.NormalizedContact{
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          email,
		CurrentCarrier: "Aetna",
		PlanType:       "MA",
		EffectiveDate:  "2024-01-01",
		BirthDate:      "1960-05-15",
		Gender:         "F",
		State:          "NY",
		ZipCode:        "10001",
		PhoneNumber:    "5551234567",
	}
}

func TestImportBatchInsertsNewRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM contacts WHERE lower\(email\) = \?`).
		WithArgs("jane@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO contacts`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewContactRepository(db)
	inserted, updated, err := repo.ImportBatch(context.Background(),
		[]usecase.NormalizedContact{stagedRow("jane@example.com")}, false)

	assert.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 0, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBatchOverwriteUpdatesExistingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM contacts WHERE lower\(email\) = \?`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(`UPDATE contacts`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewContactRepository(db)
	inserted, updated, err := repo.ImportBatch(context.Background(),
		[]usecase.NormalizedContact{stagedRow("jane@example.com")}, true)

	assert.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 1, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBatchSkipsExistingWithoutOverwrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM contacts WHERE lower\(email\) = \?`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	repo := NewContactRepository(db)
	inserted, updated, err := repo.ImportBatch(context.Background(),
		[]usecase.NormalizedContact{stagedRow("jane@example.com")}, false)

	assert.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 0, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBatchRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM contacts WHERE lower\(email\) = \?`).
		WithArgs("jane@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO contacts`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	repo := NewContactRepository(db)
	inserted, updated, err := repo.ImportBatch(context.Background(),
		[]usecase.NormalizedContact{stagedRow("jane@example.com")}, false)

	assert.Error(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 0, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBatchEmptySliceIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewContactRepository(db)
	inserted, updated, err := repo.ImportBatch(context.Background(), nil, false)

	assert.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 0, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO contacts`).
		WillReturnError(errors.New("SQLite error: UNIQUE constraint failed: contacts.email"))

	repo := NewContactRepository(db)
	_, err = repo.Create(context.Background(), &entity.Contact{
		FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
	})

	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingContact(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM contacts WHERE id = \?`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewContactRepository(db)
	err = repo.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, entity.ErrContactNotFound)
}

func TestListEmails(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT email FROM contacts`).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).
			AddRow("a@example.com").
			AddRow("b@example.com"))

	repo := NewContactRepository(db)
	emails, err := repo.ListEmails(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, emails)
}
