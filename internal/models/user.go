package models

type User struct {
	ID          string `json:"user_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"-"`
	Role        string `json:"role,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Rôles possibles d'un utilisateur.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// Identity est l'identité d'un appelant authentifié, extraite du JWT.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
