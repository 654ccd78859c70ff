package settings

import "time"

// Setting is a named product profile. At most one profile is enabled at a
// time; the enabled one drives the console's public metadata.
type Setting struct {
	ID                 string     `json:"id"`
	ProductName        string     `json:"productName"`
	ProductVersion     string     `json:"productVersion,omitempty"`
	ProductDescription string     `json:"productDescription,omitempty"`
	AllowSignup        bool       `json:"allowSignup"`
	HasEnabled         bool       `json:"hasEnabled"`
	Remark             string     `json:"remark,omitempty"`
	CreatedTime        time.Time  `json:"createdTime"`
	UpdatedTime        *time.Time `json:"updatedTime,omitempty"`
}

// CreateInput carries the fields accepted when creating a profile.
type CreateInput struct {
	ID                 string `json:"id" validate:"required"`
	ProductName        string `json:"productName" validate:"required"`
	ProductVersion     string `json:"productVersion"`
	ProductDescription string `json:"productDescription"`
	AllowSignup        bool   `json:"allowSignup"`
	HasEnabled         bool   `json:"hasEnabled"`
	Remark             string `json:"remark"`
}

// UpdateInput carries the fields accepted when updating a profile.
type UpdateInput struct {
	ID                 string `json:"id" validate:"required"`
	ProductName        string `json:"productName" validate:"required"`
	ProductVersion     string `json:"productVersion"`
	ProductDescription string `json:"productDescription"`
	AllowSignup        bool   `json:"allowSignup"`
	HasEnabled         bool   `json:"hasEnabled"`
	Remark             string `json:"remark"`
}
