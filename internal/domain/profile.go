package domain

import "time"

type ProfileType string

const (
	ProfileTypeHost   ProfileType = "HOST"   // store owner renting out shelf space
	ProfileTypeTenant ProfileType = "TENANT" // brand renting a shelf
)

type Profile struct {
	ID    int32       `json:"id"`
	Type  ProfileType `json:"type"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	// Bank destination for host payouts.
	BankAccountHolder string    `json:"bank_account_holder,omitempty"`
	IBAN              string    `json:"iban,omitempty"`
	CreatedOn         time.Time `json:"created_on"`
}

type ActorRole string

const (
	ActorRoleAdmin   ActorRole = "ADMIN"
	ActorRoleProfile ActorRole = "PROFILE"
)

// Actor identifies the caller of a command: a profile acting for itself, or
// a platform administrator.
type Actor struct {
	ProfileID int32     `json:"profile_id"`
	Role      ActorRole `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == ActorRoleAdmin
}
