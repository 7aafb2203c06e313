package migrations

import (
	"context"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/schema"
)

// userV1 is the users table as first created
type userV1 struct {
	ID                     uint64    `gorm:"primaryKey;autoIncrement"`
	Email                  string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash           string    `gorm:"size:255;not null"`
	EmailVerificationToken *string   `gorm:"size:255"`
	EmailVerified          bool      `gorm:"not null;default:false"`
	CreatedAt              time.Time `gorm:"not null"`
	UpdatedAt              time.Time `gorm:"not null"`
}

func (userV1) TableName() string { return "users" }

func createUsers() Migration {
	return Migration{
		Name:        "20240105090000-create-users",
		Description: "Create users table",
		Up: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.CreateTable(ctx, &userV1{})
		},
		Down: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.DropTable(ctx, &userV1{})
		},
	}
}
