package model

import (
	"time"

	"github.com/google/uuid"
)

// User carries only the fields the registration and settlement flows need
// (identity plus the customer data sent to the payment gateway).
type User struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`

	UserFullName  string `gorm:"column:user_full_name;not null" json:"user_full_name"`
	UserEmail     string `gorm:"column:user_email;not null;uniqueIndex" json:"user_email"`
	UserCPF       string `gorm:"column:user_cpf;not null" json:"user_cpf"`
	UserCellphone string `gorm:"column:user_cellphone;not null" json:"user_cellphone"`
	UserIsActive  bool   `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`
	UserIsWorker  bool   `gorm:"column:user_is_worker;not null;default:false" json:"user_is_worker"`

	CreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (User) TableName() string { return "users" }
