package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTransactionRunsOperationsInOrder(t *testing.T) {
	var order []string

	txn := NewTransaction(zap.NewNop())
	txn.AddOperation("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	txn.AddOperation("second", func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	err := txn.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestTransactionCompensatesInReverseOrder(t *testing.T) {
	var order []string

	txn := NewTransaction(zap.NewNop())
	txn.AddOperation("a", func(ctx context.Context) error { return nil })
	txn.AddCompensation("undo_a", func(ctx context.Context) error {
		order = append(order, "undo_a")
		return nil
	})
	txn.AddOperation("b", func(ctx context.Context) error { return nil })
	txn.AddCompensation("undo_b", func(ctx context.Context) error {
		order = append(order, "undo_b")
		return nil
	})
	txn.AddOperation("c", func(ctx context.Context) error {
		return errors.New("boom")
	})

	err := txn.Execute(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "operation 'c' failed")
	assert.Equal(t, []string{"undo_b", "undo_a"}, order)
}

func TestTransactionFirstOperationFailureCompensatesNothing(t *testing.T) {
	compensated := false

	txn := NewTransaction(zap.NewNop())
	txn.AddOperation("only", func(ctx context.Context) error {
		return errors.New("boom")
	})
	txn.AddCompensation("undo_only", func(ctx context.Context) error {
		compensated = true
		return nil
	})

	err := txn.Execute(context.Background())

	assert.Error(t, err)
	assert.False(t, compensated)
}

func TestTransactionLogsFailedCompensation(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	txn := NewTransaction(zap.New(core))
	txn.AddOperation("create", func(ctx context.Context) error { return nil })
	txn.AddCompensation("undo_create", func(ctx context.Context) error {
		return errors.New("delete failed")
	})
	txn.AddOperation("link", func(ctx context.Context) error {
		return errors.New("boom")
	})

	err := txn.Execute(context.Background())

	assert.Error(t, err)
	entries := logs.FilterMessage("compensation failed, stores may be inconsistent").All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "undo_create", entries[0].ContextMap()["compensation"])
}
