package store

// Collection keys. Each key maps to exactly one JSON document.
const (
	KeyCurrentSession = "currentSession"
	KeyUsers          = "users"
	KeySectors        = "sectors"
	KeyRoles          = "roles"
	KeyBookings       = "bookings"
	KeySettings       = "settings"
)

// User is the persisted account document. PriorPasswordHash is written only
// when a non-privileged user is promoted and is cleared again on demotion.
type User struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Sector            string `json:"sector"`
	Role              string `json:"role"`
	PasswordHash      string `json:"passwordHash"`
	PriorPasswordHash string `json:"priorPasswordHash,omitempty"`
}

// Sector is a named organizational unit users belong to.
type Sector struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Role is a named position. Privilege is an explicit capability flag rather
// than a name comparison.
type Role struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Privileged bool   `json:"privileged"`
}

// Booking reserves one contiguous hour range of the room on a calendar day.
// Date uses the YYYY-MM-DD layout; StartTime is an integer hour.
type Booking struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	StartTime int    `json:"startTime"`
	Duration  int    `json:"duration"`
}

// AppSettings is the singleton branding and configuration document.
type AppSettings struct {
	LogoURL                string `json:"logoUrl"`
	BackgroundImageURL     string `json:"backgroundImageUrl"`
	HomeBackgroundImageURL string `json:"homeBackgroundImageUrl"`
	AdminSecretCode        string `json:"adminSecretCode"`
	ShareableURL           string `json:"shareableUrl"`
}
