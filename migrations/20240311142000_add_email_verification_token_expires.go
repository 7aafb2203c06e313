package migrations

import (
	"context"

	"github.com/consensuslabs/storefront/backend/internal/schema"
)

func addEmailVerificationTokenExpires() Migration {
	return Migration{
		Name:        "20240311142000-add-email-verification-token-expires",
		Description: "Add nullable users.email_verification_token_expires after email_verification_token",
		Up: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.AddColumn(ctx, "users", schema.Column{
				Name:     "email_verification_token_expires",
				Type:     schema.Date,
				Nullable: true,
				After:    "email_verification_token",
			})
		},
		Down: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.DropColumn(ctx, "users", "email_verification_token_expires")
		},
	}
}
