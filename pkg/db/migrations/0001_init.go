package migrations

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

type Role struct {
	RoleID uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey"`
	Type   string    `gorm:"column:type;type:text;not null"`
}

type User struct {
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey"`
	Username         string     `gorm:"column:username;type:text;not null"`
	Email            string     `gorm:"column:email;type:text;not null"`
	PasswordHash     string     `gorm:"column:password_hash;type:text;not null"`
	DeactivatedOn    *time.Time `gorm:"column:deactivated_on;type:timestamptz"`
	GDPRSignedOn     *time.Time `gorm:"column:gdpr_signed_on;type:timestamptz"`
	ConcurrencyToken uuid.UUID  `gorm:"column:concurrency_token;type:uuid;not null;default:gen_random_uuid()"`
}

// UserRole deliberately carries no primary key: the association table allows
// duplicate (user_id, role_id) pairs.
type UserRole struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	RoleID uuid.UUID `gorm:"column:role_id;type:uuid;not null"`

	User User `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Role Role `gorm:"foreignKey:RoleID;references:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func upInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).AutoMigrate(
		&Role{},
		&User{},
		&UserRole{},
	); err != nil {
		return err
	}

	m := gormDB.WithContext(ctx).Migrator()
	if err := m.CreateConstraint(&UserRole{}, "User"); err != nil {
		return err
	}
	if err := m.CreateConstraint(&UserRole{}, "Role"); err != nil {
		return err
	}

	return nil
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).Migrator().DropTable(
		&UserRole{},
		&User{},
		&Role{},
	); err != nil {
		return err
	}

	return nil
}
