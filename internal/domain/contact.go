package domain

import "time"

// Contact is one row of the agency's book of business. Date fields are
// ISO strings (YYYY-MM-DD) end to end; the database stores them as text
// and the UI renders them as-is.
type Contact struct {
	ID              int64     `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phone_number"`
	CurrentCarrier  string    `json:"current_carrier"`
	PlanType        string    `json:"plan_type"`
	EffectiveDate   string    `json:"effective_date"`
	BirthDate       string    `json:"birth_date"`
	TobaccoUser     bool      `json:"tobacco_user"`
	Gender          string    `json:"gender"`
	State           string    `json:"state"`
	ZipCode         string    `json:"zip_code"`
	AgentID         *int64    `json:"agent_id,omitempty"`
	LastEmailedDate string    `json:"last_emailed_date,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Agent is a licensed agent who owns contacts.
type Agent struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Carrier is one supported-carrier catalog entry: the canonical insurer
// name plus the free-text aliases the import wizard matches against.
type Carrier struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}
