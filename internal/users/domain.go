package users

import "time"

// User represents a console account. PasswordHash never leaves the backend.
type User struct {
	ID           string     `json:"id"`
	UserName     string     `json:"userName"`
	PasswordHash string     `json:"-"`
	Phone        string     `json:"phone,omitempty"`
	Mail         string     `json:"mail,omitempty"`
	RealName     string     `json:"realName,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	BirthDay     *time.Time `json:"birthDay,omitempty"`
	AvatarURL    string     `json:"avatarUrl,omitempty"`
	Status       string     `json:"status"`
	HasDeleted   bool       `json:"hasDeleted"`
	Remark       string     `json:"remark,omitempty"`
	RoleIDs      []string   `json:"roleIds"`
	CreatedTime  time.Time  `json:"createdTime"`
	UpdatedTime  *time.Time `json:"updatedTime,omitempty"`
	CreatedBy    string     `json:"createdBy,omitempty"`
	UpdatedBy    string     `json:"updatedBy,omitempty"`
}

// CreateInput carries the fields accepted when creating an account.
type CreateInput struct {
	ID        string   `json:"id" validate:"required"`
	UserName  string   `json:"userName" validate:"required"`
	Password  string   `json:"password" validate:"required,min=6"`
	RoleIDs   []string `json:"roleIds" validate:"required,min=1"`
	Phone     string   `json:"phone"`
	Mail      string   `json:"mail"`
	RealName  string   `json:"realName"`
	Gender    string   `json:"gender"`
	AvatarURL string   `json:"avatarUrl"`
	Status    string   `json:"status"`
	Remark    string   `json:"remark"`
}

// UpdateInput carries the fields accepted when updating an account. The
// current password must be supplied; an empty new password keeps the old one.
type UpdateInput struct {
	ID          string   `json:"id" validate:"required"`
	OldPassword string   `json:"oldPassword" validate:"required"`
	Password    string   `json:"password"`
	UserName    string   `json:"userName"`
	RoleIDs     []string `json:"roleIds" validate:"required,min=1"`
	Phone       string   `json:"phone"`
	Mail        string   `json:"mail"`
	RealName    string   `json:"realName"`
	Gender      string   `json:"gender"`
	AvatarURL   string   `json:"avatarUrl"`
	Status      string   `json:"status"`
	Remark      string   `json:"remark"`
}

// Counts aggregates account and role totals for the dashboard.
type Counts struct {
	Users int64 `json:"users"`
	Roles int64 `json:"roles"`
}
