package roles

import "time"

// Role represents a permission grouping granted to users and menus.
type Role struct {
	ID          string     `json:"id"`
	RoleName    string     `json:"roleName"`
	CodeType    string     `json:"codeType"`
	Status      string     `json:"status"`
	Remark      string     `json:"remark,omitempty"`
	CreatedTime time.Time  `json:"createdTime"`
	UpdatedTime *time.Time `json:"updatedTime,omitempty"`
}

// CreateInput carries the fields accepted when creating a role.
type CreateInput struct {
	ID       string `json:"id" validate:"required"`
	RoleName string `json:"roleName" validate:"required"`
	CodeType string `json:"codeType"`
	Status   string `json:"status"`
	Remark   string `json:"remark"`
}

// UpdateInput carries the fields accepted when updating a role.
type UpdateInput struct {
	ID       string `json:"id" validate:"required"`
	RoleName string `json:"roleName" validate:"required"`
	CodeType string `json:"codeType"`
	Status   string `json:"status"`
	Remark   string `json:"remark"`
}

// Filter narrows role listings. Empty fields match everything.
type Filter struct {
	RoleName string
	CodeType string
}

// UserCount pairs a role with the number of users holding it.
type UserCount struct {
	RoleID    string `json:"roleId"`
	RoleName  string `json:"roleName"`
	UserCount int64  `json:"userCount"`
}

// CountSummary aggregates role totals for the dashboard.
type CountSummary struct {
	RoleCount int64       `json:"roleCount"`
	PerRole   []UserCount `json:"roleWithUsersCount"`
}
