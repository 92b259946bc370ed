package domain

import "time"

// DataSession is a proxy/domain-bound account record, unrelated to auth
// sessions. FileName points at the currently attached uploaded bundle, if any.
type DataSession struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Proxy      string    `json:"proxy"`
	Domain     string    `json:"domain,omitempty"`
	IsLoggedIn bool      `json:"is_logged_in"`
	FileName   string    `json:"file_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// UserCount is how many permission profiles reference this session.
	// Populated only by list queries.
	UserCount int `json:"user_count,omitempty"`
}

// WhitelistedDomain is an approved domain name that permission profiles may
// reference.
type WhitelistedDomain struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
