// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
// Storage failures are sorted into the closed [apperr.Kind] taxonomy so callers never
// inspect driver messages: a missing row is NotFound, a unique violation is Conflict,
// and everything else (permission denied, timeouts, lost connections) is DataAccess.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/TheClumsyRaccoon/safecampus-panel/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// resource names the entity for NotFound messages (e.g. "Profile").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack.
	if apperr.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.DataAccess("The data store did not answer in time, please retry", err)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.InvalidTextRepresentation:
			// A malformed key (not a uuid) matches no row.
			return apperr.NotFound(resource)
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(fmt.Sprintf("%s already exists", resource))
		case pgerrcode.InsufficientPrivilege:
			return apperr.DataAccess("Permission denied by the data store", err)
		case pgerrcode.QueryCanceled:
			return apperr.DataAccess("The data store did not answer in time, please retry", err)
		}
	}

	return apperr.DataAccess("The data store is unavailable, please retry", err)
}
