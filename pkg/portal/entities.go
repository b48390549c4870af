package portal

// Role is a user's permission level on the portal.
type Role string

const (
	RoleReader Role = "reader"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// User is a portal account. Token is only present on the signed-in user.
type User struct {
	ID       int    `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Bio      string `json:"bio,omitempty"`
	Image    string `json:"image,omitempty"`
	Role     Role   `json:"role"`
	Token    string `json:"token,omitempty"`
}

func (u User) EntityID() int { return u.ID }

// App is an entry of the applications catalogue.
type App struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Version        string `json:"version"`
	Description    string `json:"description"`
	Classification int    `json:"applicationclassification"`
	// Data is the URL of the downloadable file.
	Data string `json:"data,omitempty"`
	User string `json:"user"`
	Date string `json:"date"`
}

func (a App) EntityID() int { return a.ID }

// Multimedia is a document or video of the multimedia library.
type Multimedia struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Classification int    `json:"multimediaclassification"`
	Data           string `json:"data,omitempty"`
	User           string `json:"user"`
	Date           string `json:"date"`
}

func (m Multimedia) EntityID() int { return m.ID }

// Classification is an entry of the multimedia classification catalogue.
type Classification struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

func (c Classification) EntityID() int { return c.ID }

// Comment is a reply to a blog entry.
type Comment struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	User string `json:"user"`
	Date string `json:"date"`
}

// Blog is a forum entry.
type Blog struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Image    string    `json:"image,omitempty"`
	User     string    `json:"user"`
	Date     string    `json:"date"`
	Comments []Comment `json:"comments,omitempty"`
}

func (b Blog) EntityID() int { return b.ID }

// Suggestion is an entry of the suggestions and complaints box.
type Suggestion struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	User  string `json:"user"`
	Date  string `json:"date"`
}

func (s Suggestion) EntityID() int { return s.ID }
