package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID                string         `gorm:"type:text;primaryKey"`
	DisplayName       *string        `gorm:"type:text"`
	Email             *string        `gorm:"type:text;index:idx_users_email"`
	UserPrincipalName *string        `gorm:"type:text"`
	RawJSON           datatypes.JSON `gorm:"column:raw_json"`
	// LastSynced is filled by the database default; the importer never sets it.
	LastSynced time.Time `gorm:"column:last_synced;not null;default:CURRENT_TIMESTAMP;<-:false"`
}

func (User) TableName() string {
	return "users"
}
