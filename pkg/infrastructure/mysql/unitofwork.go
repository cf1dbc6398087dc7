package mysql

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
)

func NewUnitOfWork(db *sqlx.DB) model.UnitOfWork {
	return &unitOfWork{db: db}
}

type unitOfWork struct {
	db *sqlx.DB
}

func (u *unitOfWork) Execute(ctx context.Context, fn func(provider model.RepositoryProvider) error) (err error) {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(tx)
			panic(p)
		}
		if err != nil {
			rollback(tx)
			return
		}
		err = errors.Wrap(tx.Commit(), "failed to commit transaction")
	}()

	return fn(&repositoryProvider{tx: tx})
}

func rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil {
		log.WithError(err).Error("failed to rollback transaction")
	}
}

type repositoryProvider struct {
	tx *sqlx.Tx
}

func (p *repositoryProvider) OrderRepository() model.OrderRepository {
	return NewOrderRepository(p.tx)
}

func (p *repositoryProvider) TransactionRepository() model.TransactionRepository {
	return NewTransactionRepository(p.tx)
}

func (p *repositoryProvider) CustomerRepository() model.CustomerRepository {
	return NewCustomerRepository(p.tx)
}
