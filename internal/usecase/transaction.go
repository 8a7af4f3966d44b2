package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Transaction runs a list of operations in order and, when one fails, runs
// the compensations registered for the operations that already succeeded, in
// reverse order. Used where the writes span stores that share no SQL
// transaction (central registry plus a hosting API).
type Transaction struct {
	operations    []Operation
	compensations []Compensation
	log           *zap.Logger
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction(log *zap.Logger) *Transaction {
	return &Transaction{
		operations:    []Operation{},
		compensations: []Compensation{},
		log:           log,
	}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
}

func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	t.compensations = append(t.compensations, Compensation{name, fn})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		if i < len(t.compensations) {
			comp := t.compensations[i]
			if err := comp.Fn(ctx); err != nil {
				t.log.Warn("compensation failed, stores may be inconsistent",
					zap.String("compensation", comp.Name),
					zap.Error(err))
			}
		}
	}
}
