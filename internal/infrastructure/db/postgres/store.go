package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

// Store runs multi-repository units of work in one database transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ ports.Store = (*Store)(nil)

func (s *Store) WithTransaction(ctx context.Context, fn func(tx ports.TxRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepositories{db: tx})
	})
}

type txRepositories struct {
	db *gorm.DB
}

func (t txRepositories) Users() ports.UserRepository             { return NewUserRepository(t.db) }
func (t txRepositories) Enrollments() ports.EnrollmentRepository { return NewEnrollmentRepository(t.db) }
func (t txRepositories) Payments() ports.PaymentRepository       { return NewPaymentRepository(t.db) }
func (t txRepositories) Activities() ports.ActivityRepository    { return NewActivityRepository(t.db) }
