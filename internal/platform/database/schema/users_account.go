// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema centralises table and column names so SQL in the repositories
// never hard-codes identifiers twice.
package schema

// UserAccountTable represents the 'users.account' table (credentials only).
type UserAccountTable struct {
	Table     string
	ID        string
	Email     string
	Password  string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Email:     "email",
	Password:  "passwordhash",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.Password, t.CreatedAt, t.UpdatedAt}
}
