package eventpass

import (
	"context"
	"net/url"
	"strconv"

	"github.com/eventpass/eventpass-go/httpclient"
)

// ImageUpload is binary content attached to an image-bearing create/update.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// UsersService manages user accounts (admin back office).
type UsersService struct {
	resource[UserProfile]
}

// UserFields is the writable subset of a user record.
type UserFields struct {
	DisplayName string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password,omitempty"`
	Role        Role    `json:"role,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

func (f UserFields) form() *httpclient.Form {
	form := httpclient.NewForm().
		Set("name", f.DisplayName).
		Set("email", f.Email)
	if f.Password != "" {
		form.Set("password", f.Password)
	}
	if f.Role != "" {
		form.Set("role", string(f.Role))
	}
	if f.PhoneNumber != nil {
		form.Set("phone_number", *f.PhoneNumber)
	}
	return form
}

// CreateWithImage creates a user with a profile image, submitted multipart.
func (s *UsersService) CreateWithImage(ctx context.Context, fields UserFields, image ImageUpload) (*UserProfile, error) {
	form := fields.form().File("profile_image", image.Filename, image.Content)
	return s.createMultipart(ctx, form)
}

// UpdateWithImage updates a user including a new profile image. Routed as a
// POST with the PUT method override.
func (s *UsersService) UpdateWithImage(ctx context.Context, id int64, fields UserFields, image ImageUpload) (*UserProfile, error) {
	form := fields.form().File("profile_image", image.Filename, image.Content)
	return s.updateMultipart(ctx, id, form)
}

// VenuesService manages venues.
type VenuesService struct {
	resource[Venue]
}

// VenueFields is the writable subset of a venue record.
type VenueFields struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Capacity    int    `json:"capacity"`
	VenueTypeID int64  `json:"venue_type_id"`
}

func (f VenueFields) form() *httpclient.Form {
	return httpclient.NewForm().
		Set("name", f.Name).
		Set("address", f.Address).
		Set("city", f.City).
		Set("capacity", strconv.Itoa(f.Capacity)).
		Set("venue_type_id", strconv.FormatInt(f.VenueTypeID, 10))
}

func (s *VenuesService) CreateWithImage(ctx context.Context, fields VenueFields, image ImageUpload) (*Venue, error) {
	form := fields.form().File("image", image.Filename, image.Content)
	return s.createMultipart(ctx, form)
}

func (s *VenuesService) UpdateWithImage(ctx context.Context, id int64, fields VenueFields, image ImageUpload) (*Venue, error) {
	form := fields.form().File("image", image.Filename, image.Content)
	return s.updateMultipart(ctx, id, form)
}

// VenueTypesService manages venue categories.
type VenueTypesService struct {
	resource[VenueType]
}

// EventTypesService manages event categories.
type EventTypesService struct {
	resource[EventType]
}

// OrganizersService manages event organizers.
type OrganizersService struct {
	resource[Organizer]
}

// EventsService manages events.
type EventsService struct {
	resource[Event]
}

// EventFields is the writable subset of an event record.
type EventFields struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartsAt    string  `json:"starts_at"`
	EndsAt      string  `json:"ends_at"`
	TicketPrice float64 `json:"ticket_price"`
	TicketQuota int     `json:"ticket_quota"`
	VenueID     int64   `json:"venue_id"`
	EventTypeID int64   `json:"event_type_id"`
	OrganizerID int64   `json:"organizer_id"`
}

func (f EventFields) form() *httpclient.Form {
	return httpclient.NewForm().
		Set("name", f.Name).
		Set("description", f.Description).
		Set("starts_at", f.StartsAt).
		Set("ends_at", f.EndsAt).
		Set("ticket_price", strconv.FormatFloat(f.TicketPrice, 'f', 2, 64)).
		Set("ticket_quota", strconv.Itoa(f.TicketQuota)).
		Set("venue_id", strconv.FormatInt(f.VenueID, 10)).
		Set("event_type_id", strconv.FormatInt(f.EventTypeID, 10)).
		Set("organizer_id", strconv.FormatInt(f.OrganizerID, 10))
}

func (s *EventsService) CreateWithImage(ctx context.Context, fields EventFields, image ImageUpload) (*Event, error) {
	form := fields.form().File("image", image.Filename, image.Content)
	return s.createMultipart(ctx, form)
}

func (s *EventsService) UpdateWithImage(ctx context.Context, id int64, fields EventFields, image ImageUpload) (*Event, error) {
	form := fields.form().File("image", image.Filename, image.Content)
	return s.updateMultipart(ctx, id, form)
}

// TransactionsService manages ticket purchases.
type TransactionsService struct {
	resource[Transaction]
}

// PurchaseRequest creates a transaction for the current user. The backend
// owns inventory decrement and payment capture.
type PurchaseRequest struct {
	EventID  int64 `json:"event_id"`
	Quantity int   `json:"quantity"`
}

// ListForUser returns purchases belonging to one user (purchase history).
func (s *TransactionsService) ListForUser(ctx context.Context, userID int64, pr httpclient.PageRequest) (httpclient.Page[Transaction], error) {
	q := url.Values{}
	if pr.Page > 0 {
		q.Set("page", strconv.Itoa(pr.Page))
	}
	if pr.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(pr.PerPage))
	}
	q.Set("user_id", strconv.FormatInt(userID, 10))

	var page httpclient.Page[Transaction]
	if err := s.client.GetJSON(ctx, s.path, q, &page); err != nil {
		return httpclient.Page[Transaction]{}, err
	}
	return page, nil
}

// API aggregates every EventPass resource client over one shared pipeline.
type API struct {
	Auth         *AuthAPI
	Users        *UsersService
	Venues       *VenuesService
	VenueTypes   *VenueTypesService
	Events       *EventsService
	EventTypes   *EventTypesService
	Organizers   *OrganizersService
	Transactions *TransactionsService
}

// NewAPI wires all resource clients onto a single HTTP pipeline so bearer
// attachment and the 401 retry apply uniformly.
func NewAPI(client *httpclient.Client) *API {
	return &API{
		Auth:         NewAuthAPI(client),
		Users:        &UsersService{resource[UserProfile]{client: client, path: "/users"}},
		Venues:       &VenuesService{resource[Venue]{client: client, path: "/venues"}},
		VenueTypes:   &VenueTypesService{resource[VenueType]{client: client, path: "/venuetypes"}},
		Events:       &EventsService{resource[Event]{client: client, path: "/events"}},
		EventTypes:   &EventTypesService{resource[EventType]{client: client, path: "/eventtypes"}},
		Organizers:   &OrganizersService{resource[Organizer]{client: client, path: "/organizers"}},
		Transactions: &TransactionsService{resource[Transaction]{client: client, path: "/transactions"}},
	}
}
