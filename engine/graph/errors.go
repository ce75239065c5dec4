package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// Sentinel errors for store failures. Callers match with errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrStatementFailed     = errors.New("statement failed")
	ErrFilesystem          = errors.New("filesystem error")
)

var sentinels = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrConstraintViolation,
	ErrStoreUnavailable,
	ErrStatementFailed,
	ErrFilesystem,
}

// classify maps a driver error onto the sentinel taxonomy. Only the server
// error code is carried over; raw driver messages stay out of wrapped errors
// so they never leak to external callers.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err
		}
	}
	if neo4j.IsConnectivityError(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	var srvErr *db.Neo4jError
	if errors.As(err, &srvErr) {
		if strings.Contains(srvErr.Code, "ConstraintValidationFailed") {
			return fmt.Errorf("%w: %s", ErrConstraintViolation, srvErr.Code)
		}
		return fmt.Errorf("%w: %s", ErrStatementFailed, srvErr.Code)
	}
	return fmt.Errorf("%w: %v", ErrStatementFailed, err)
}
