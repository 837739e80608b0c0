package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// LogFields flattens err into structured logging fields: the top-level
// message, the domain code and its retryability, the unwrap chain, and —
// when a Postgres server error hides in the chain — the SQLSTATE code,
// constraint and detail. Fields without a value are left out.
func LogFields(err error) map[string]any {
	if err == nil {
		return nil
	}

	fields := map[string]any{
		"error": err.Error(),
	}

	if typed := As(err); typed != nil {
		fields["error_code"] = typed.Code()
		fields["error_retryable"] = MetadataFor(typed.Code()).Retryable
	}

	var chain []string
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	if len(chain) > 0 {
		fields["error_chain"] = chain
	}

	if code, constraint, detail, ok := pgError(err); ok {
		fields["pg_code"] = code
		if constraint != "" {
			fields["pg_constraint"] = constraint
		}
		if detail != "" {
			fields["pg_detail"] = detail
		}
	}

	return fields
}

// pgError extracts the server-side diagnostics from either Postgres driver.
func pgError(err error) (code, constraint, detail string, ok bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, pgxErr.Detail, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, pqErr.Detail, true
	}

	return "", "", "", false
}
