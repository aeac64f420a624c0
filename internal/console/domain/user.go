package domain

import "time"

type UserStatus string

const (
	UserActive  UserStatus = "ACTIVE"
	UserBlocked UserStatus = "BLOCKED"
)

type UserField string

const (
	UserName        UserField = "name"
	UserEmail       UserField = "email"
	UserPhone       UserField = "phone"
	UserRole        UserField = "role"
	UserStatusField UserField = "status"
	UserCreatedAt   UserField = "created_at"
)

var UserColumns = []UserField{UserName, UserEmail, UserPhone, UserRole, UserStatusField, UserCreatedAt}

var UserSearchKeys = []UserField{UserName, UserEmail, UserPhone}

// User is one row of the user administration screen.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

func (u User) RowID() string { return u.ID }

func (u User) WithRowID(id string) User {
	u.ID = id
	return u
}

func (u User) PhoneNumber() string { return u.Phone }

func (u User) Field(f UserField) string {
	switch f {
	case UserName:
		return u.Name
	case UserEmail:
		return u.Email
	case UserPhone:
		return u.Phone
	case UserRole:
		return u.Role
	case UserStatusField:
		return string(u.Status)
	case UserCreatedAt:
		return formatTime(u.CreatedAt)
	}
	return ""
}

func ParseUserField(name string) (UserField, error) {
	return parseField(name, UserColumns)
}
