// Package eventpass holds the typed schemas and resource clients for the
// EventPass API. Every endpoint gets an explicit request/response type,
// validated at the client boundary instead of loose maps.
package eventpass

import "time"

// Role is a user's access level.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// UserProfile is the authenticated user as returned by GET /auth/me and the
// users resource.
type UserProfile struct {
	ID              int64   `json:"id,omitempty"`
	DisplayName     string  `json:"name,omitempty"`
	Email           string  `json:"email,omitempty"`
	Role            Role    `json:"role,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	PhoneNumber     *string `json:"phone_number,omitempty"`
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	DisplayName     *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty"`
	PhoneNumber     *string `json:"phone_number,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// Apply merges the patch into a copy of the profile.
func (p ProfilePatch) Apply(profile UserProfile) UserProfile {
	if p.DisplayName != nil {
		profile.DisplayName = *p.DisplayName
	}
	if p.Email != nil {
		profile.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		profile.PhoneNumber = p.PhoneNumber
	}
	if p.ProfileImageURL != nil {
		profile.ProfileImageURL = p.ProfileImageURL
	}
	return profile
}

// VenueType categorises venues (stadium, theatre, club).
type VenueType struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Venue is a physical location events run at.
type Venue struct {
	ID          int64      `json:"id,omitempty"`
	Name        string     `json:"name,omitempty"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
	Capacity    int        `json:"capacity,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	VenueTypeID int64      `json:"venue_type_id,omitempty"`
	VenueType   *VenueType `json:"venue_type,omitempty"`
}

// EventType categorises events (concert, conference, sport).
type EventType struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Organizer runs events on the platform.
type Organizer struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Event is a sellable happening. TicketQuota and TicketsSold come from the
// backend's inventory accounting; the client only derives availability from
// them, it never mutates them.
type Event struct {
	ID          int64      `json:"id,omitempty"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	StartsAt    time.Time  `json:"starts_at,omitempty"`
	EndsAt      time.Time  `json:"ends_at,omitempty"`
	TicketPrice float64    `json:"ticket_price,omitempty"`
	TicketQuota int        `json:"ticket_quota,omitempty"`
	TicketsSold int        `json:"tickets_sold,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	VenueID     int64      `json:"venue_id,omitempty"`
	EventTypeID int64      `json:"event_type_id,omitempty"`
	OrganizerID int64      `json:"organizer_id,omitempty"`
	Venue       *Venue     `json:"venue,omitempty"`
	EventType   *EventType `json:"event_type,omitempty"`
	Organizer   *Organizer `json:"organizer,omitempty"`
}

// TransactionStatus is the backend's view of a purchase.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionPaid      TransactionStatus = "paid"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction is one ticket purchase. TicketCode and QRCodeURL are generated
// by the backend on payment capture.
type Transaction struct {
	ID         int64             `json:"id,omitempty"`
	UserID     int64             `json:"user_id,omitempty"`
	EventID    int64             `json:"event_id,omitempty"`
	Quantity   int               `json:"quantity,omitempty"`
	UnitPrice  float64           `json:"unit_price,omitempty"`
	Total      float64           `json:"total,omitempty"`
	Status     TransactionStatus `json:"status,omitempty"`
	TicketCode string            `json:"ticket_code,omitempty"`
	QRCodeURL  string            `json:"qr_code_url,omitempty"`
	CreatedAt  time.Time         `json:"created_at,omitempty"`
	Event      *Event            `json:"event,omitempty"`
	User       *UserProfile      `json:"user,omitempty"`
}
