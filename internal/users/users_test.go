package users

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "email constraint",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			want: ErrEmailTaken,
		},
		{
			name: "username constraint",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"},
			want: ErrUsernameTaken,
		},
		{
			name: "wrapped violation",
			err:  fmt.Errorf("inserting user: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}),
			want: ErrEmailTaken,
		},
		{
			name: "other constraint",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_google_id_key"},
			want: nil,
		},
		{
			name: "other pg error",
			err:  &pgconn.PgError{Code: "23503"},
			want: nil,
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, mapUniqueViolation(tt.err))
		})
	}
}
