package menu

import "time"

// Menu is a flat navigation record. Hierarchy is expressed through ParentID
// and materialized into Node trees on demand.
type Menu struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	PCIcon      string     `json:"pcIcon,omitempty"`
	MobileIcon  string     `json:"mobileIcon,omitempty"`
	Sort        int        `json:"sort"`
	ParentID    string     `json:"parentId,omitempty"`
	PCRoute     string     `json:"pcRoute,omitempty"`
	MobileRoute string     `json:"mobileRoute,omitempty"`
	Status      string     `json:"status"`
	Remark      string     `json:"remark,omitempty"`
	RoleIDs     []string   `json:"roleIds"`
	CreatedTime time.Time  `json:"createdTime"`
	UpdatedTime *time.Time `json:"updatedTime,omitempty"`
}

// Node is a menu with its resolved children. Trees are freshly allocated per
// call; callers own the returned structure.
type Node struct {
	Menu
	ParentName string  `json:"parentName,omitempty"`
	Children   []*Node `json:"children,omitempty"`
}

// CreateInput carries the fields accepted when creating a menu.
type CreateInput struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Code        string   `json:"code" validate:"required"`
	PCIcon      string   `json:"pcIcon"`
	MobileIcon  string   `json:"mobileIcon"`
	Sort        int      `json:"sort"`
	ParentID    string   `json:"parentId"`
	PCRoute     string   `json:"pcRoute"`
	MobileRoute string   `json:"mobileRoute"`
	Status      string   `json:"status"`
	Remark      string   `json:"remark"`
	RoleIDs     []string `json:"roleIds" validate:"required,min=1"`
}

// UpdateInput carries the fields accepted when updating a menu.
type UpdateInput struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Code        string   `json:"code" validate:"required"`
	PCIcon      string   `json:"pcIcon"`
	MobileIcon  string   `json:"mobileIcon"`
	Sort        int      `json:"sort"`
	ParentID    string   `json:"parentId"`
	PCRoute     string   `json:"pcRoute"`
	MobileRoute string   `json:"mobileRoute"`
	Status      string   `json:"status"`
	Remark      string   `json:"remark"`
	RoleIDs     []string `json:"roleIds" validate:"required,min=1"`
}
