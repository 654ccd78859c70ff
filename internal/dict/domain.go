package dict

import "time"

// Dict is one entry of a typed lookup table. Entries sharing a DictType form
// the value set for that type.
type Dict struct {
	ID          string     `json:"id"`
	DictType    string     `json:"dictType"`
	Name        string     `json:"name"`
	Value       string     `json:"value"`
	Sort        int        `json:"sort"`
	Status      string     `json:"status"`
	Remark      string     `json:"remark,omitempty"`
	CreatedTime time.Time  `json:"createdTime"`
	UpdatedTime *time.Time `json:"updatedTime,omitempty"`
}

// CreateInput carries the fields accepted when creating an entry.
type CreateInput struct {
	ID       string `json:"id" validate:"required"`
	DictType string `json:"dictType" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Value    string `json:"value" validate:"required"`
	Sort     int    `json:"sort"`
	Status   string `json:"status"`
	Remark   string `json:"remark"`
}

// UpdateInput carries the fields accepted when updating an entry.
type UpdateInput struct {
	ID       string `json:"id" validate:"required"`
	DictType string `json:"dictType" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Value    string `json:"value" validate:"required"`
	Sort     int    `json:"sort"`
	Status   string `json:"status"`
	Remark   string `json:"remark"`
}
