package models

import "gorm.io/gorm"

// Roles form a closed set; anything else is rejected at creation.
const (
	RoleAdmin      = "admin"
	RoleCaseWorker = "case_worker"
)

type User struct {
	gorm.Model
	Username     string `gorm:"not null;unique" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null" json:"role"`
	Email        string `json:"email"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCaseWorker
}
