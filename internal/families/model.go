package families

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses lists every family status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusRejected}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Family is a household followed by a mentor.
type Family struct {
	ID              string     `json:"id"`
	MentorID        string     `json:"mentorId"`
	ResponsibleName string     `json:"responsibleName"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address,omitempty"`
	City            string     `json:"city,omitempty"`
	MembersCount    int        `json:"membersCount"`
	Status          Status     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
}

type CreateInput struct {
	ResponsibleName string `json:"responsibleName"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	MembersCount    int    `json:"membersCount"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	ResponsibleName *string `json:"responsibleName"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	City            *string `json:"city"`
	MembersCount    *int    `json:"membersCount"`
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
