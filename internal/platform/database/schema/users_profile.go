// Copyright (c) 2026 SafeCampus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserProfileTable represents the 'users.profile' table, keyed by the account id.
type UserProfileTable struct {
	Table     string
	UID       string
	Email     string
	Role      string
	CreatedAt string
}

// UserProfile is the schema definition for users.profile
var UserProfile = UserProfileTable{
	Table:     "users.profile",
	UID:       "uid",
	Email:     "email",
	Role:      "role",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserProfileTable) Columns() []string {
	return []string{t.UID, t.Email, t.Role, t.CreatedAt}
}
