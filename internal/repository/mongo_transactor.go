package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/mansoorceksport/fitbuddy/internal/domain"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTransactor runs a unit of work in a multi-document transaction.
// Requires a replica set or sharded cluster.
type MongoTransactor struct {
	client *mongo.Client
}

func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	return &MongoTransactor{client: client}
}

// WithinTransaction commits when fn succeeds and aborts otherwise. It does
// not retry. Repositories must be called with the ctx passed to fn.
// Callbacks registered with domain.AfterCommit run after a successful commit.
func (t *MongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txCtx, runCommitHooks := domain.TrackCommitHooks(ctx)
	err = mongo.WithSession(txCtx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(); err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}

		if err := fn(sc); err != nil {
			if abortErr := session.AbortTransaction(sc); abortErr != nil {
				log.Printf("Error aborting transaction: %v", abortErr)
			}
			return err
		}

		if err := session.CommitTransaction(sc); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	runCommitHooks(context.WithoutCancel(ctx))
	return nil
}
