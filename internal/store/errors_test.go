// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPgCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: ""},
		{name: "pg error", err: &pgconn.PgError{Code: pgUniqueViolation}, want: pgUniqueViolation},
		{name: "wrapped pg error", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgForeignKeyViolation}), want: pgForeignKeyViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pgCode(tt.err); got != tt.want {
				t.Errorf("pgCode() = %q, want %q", got, tt.want)
			}
		})
	}
}
