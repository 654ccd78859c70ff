package invites

import "time"

// InviteCode gates self-registration when the invite switch is on. The id is
// the code itself. A code is single use; UsedUserID records who consumed it.
type InviteCode struct {
	ID           string     `json:"id"`
	UsedUserID   string     `json:"usedUserId,omitempty"`
	UsedUserName string     `json:"usedUserName,omitempty"`
	Status       string     `json:"status"`
	Remark       string     `json:"remark,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreatedTime  time.Time  `json:"createdTime"`
	UpdatedTime  *time.Time `json:"updatedTime,omitempty"`
}

// CreateInput carries the fields accepted when minting codes. An empty ID
// gets a generated one.
type CreateInput struct {
	ID        string     `json:"id"`
	Remark    string     `json:"remark"`
	ExpiresAt *time.Time `json:"expiresAt"`
}
