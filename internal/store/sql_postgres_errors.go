package store

import (
	"github.com/jackc/pgerrcode"
)

// ErrorClassification is the result of [ErrorClassificator.Classify].
// Retryable errors reach callers wrapped in [ErrTransient], which the
// account gateway reports as a transient store failure.
type ErrorClassification int

const (
	// NonRetryable is the default: constraint violations, bad data and
	// anything unrecognised.
	NonRetryable ErrorClassification = iota
	// Retryable marks failures that may succeed on a later attempt.
	Retryable
)

// retryablePgCodes lists the SQLSTATEs worth another attempt: lost
// connections (class 08), rollbacks and deadlocks (class 40), pool
// exhaustion (53300) and server restarts (class 57).
var retryablePgCodes = map[string]struct{}{
	pgerrcode.ConnectionException:                     {},
	pgerrcode.ConnectionDoesNotExist:                  {},
	pgerrcode.ConnectionFailure:                       {},
	pgerrcode.TransactionRollback:                     {},
	pgerrcode.SerializationFailure:                    {},
	pgerrcode.DeadlockDetected:                        {},
	pgerrcode.TooManyConnections:                      {},
	pgerrcode.CannotConnectNow:                        {},
	pgerrcode.AdminShutdown:                           {},
	pgerrcode.LockNotAvailable:                        {},
	pgerrcode.SQLClientUnableToEstablishSQLConnection: {},
}

// PostgresErrorClassifier implements [ErrorClassificator] for pgx errors.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier].
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify looks up the SQLSTATE carried by err. Errors that are not
// *pgconn.PgError are [NonRetryable].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	return classifyPgCode(postgresError(err))
}

func classifyPgCode(code string) ErrorClassification {
	if _, ok := retryablePgCodes[code]; ok {
		return Retryable
	}
	return NonRetryable
}
