package model

import "stayops/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID     = "id"
	FieldRole   = "role"
	FieldActive = "active"

	DependencyName = "user_directory"
)

// User is a directory entry. The role stored here overrides the role claimed by the token.
type User struct {
	ID       string `db:"id"`
	TenantID string `db:"tenant_id"`
	FullName string `db:"full_name"`
	Role     string `db:"role"`
	Active   bool   `db:"active"`
	model.Metadata
}
