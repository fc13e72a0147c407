package entity

import (
	"maps"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleAnalyst  Role = "analyst"
	RoleViewer   Role = "viewer"
	RoleInvestor Role = "investor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleAnalyst, RoleViewer, RoleInvestor:
		return true
	}
	return false
}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

func (s UserStatus) Valid() bool { return s == UserActive || s == UserInactive }

// Permissions maps a dashboard feature to whether the user may use it.
type Permissions map[string]bool

// Features known to the dashboard.
const (
	PermDashboard      = "dashboard"
	PermFunds          = "funds"
	PermKYC            = "kyc"
	PermDueDiligence   = "due_diligence"
	PermCommunications = "communications"
	PermDocuments      = "documents"
	PermUsers          = "users"
	PermSettings       = "settings"
)

// DefaultPermissions returns the feature set granted to a role when none is supplied.
func DefaultPermissions(r Role) Permissions {
	all := []string{PermDashboard, PermFunds, PermKYC, PermDueDiligence, PermCommunications, PermDocuments, PermUsers, PermSettings}
	p := make(Permissions, len(all))
	for _, f := range all {
		p[f] = false
	}
	switch r {
	case RoleAdmin:
		for _, f := range all {
			p[f] = true
		}
	case RoleManager:
		for _, f := range all {
			p[f] = f != PermSettings
		}
	case RoleAnalyst:
		p[PermDashboard], p[PermFunds], p[PermKYC], p[PermDueDiligence], p[PermDocuments] = true, true, true, true, true
	case RoleViewer:
		p[PermDashboard], p[PermFunds], p[PermDocuments] = true, true, true
	case RoleInvestor:
		p[PermDashboard], p[PermDocuments], p[PermCommunications] = true, true, true
	}
	return p
}

// User is the aggregate root for back-office accounts.
// InvestorID is set iff Role is investor and never changes once assigned.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         Role        `json:"role"`
	Status       UserStatus  `json:"status"`
	InvestorID   string      `json:"investor_id,omitempty"`
	Permissions  Permissions `json:"permissions"`
	PasswordHash string      `json:"-"`
	LastLogin    *time.Time  `json:"last_login,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (u User) Clone() User {
	u.Permissions = maps.Clone(u.Permissions)
	if u.LastLogin != nil {
		t := *u.LastLogin
		u.LastLogin = &t
	}
	return u
}

func (u User) Key() string { return u.ID }
