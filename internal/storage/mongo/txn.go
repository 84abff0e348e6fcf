package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mridulgandhi29/real-estate-tracker/internal/domain"
)

// TxnRunner wraps a function in a MongoDB multi-document transaction. When
// the deployment cannot run transactions at all (standalone server), the
// attempt is reported as domain.ErrTxnUnsupported so the caller can retry
// the same effects without a transaction. Every other failure aborts the
// transaction, leaves no partial state, and is propagated untranslated.
type TxnRunner struct {
	client *mongo.Client
}

func NewTxnRunner(client *mongo.Client) *TxnRunner {
	return &TxnRunner{client: client}
}

func (r *TxnRunner) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		if isTxnUnsupported(err) {
			return domain.ErrTxnUnsupported
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		if isTxnUnsupported(err) {
			return domain.ErrTxnUnsupported
		}
		return err
	}
	return nil
}
