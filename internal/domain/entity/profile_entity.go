package entity

import "time"

// SocialNetworks lists the keys retained in Profile.Social.
var SocialNetworks = []string{"youtube", "twitter", "facebook", "linkedin", "instagram"}

// Profile is one per user and embeds its experience and education entries,
// both kept newest-first.
type Profile struct {
	ID             string            `json:"_id"`
	UserID         string            `json:"-"`
	Company        string            `json:"company,omitempty"`
	Website        string            `json:"website,omitempty"`
	Location       string            `json:"location,omitempty"`
	Status         string            `json:"status"`
	Bio            string            `json:"bio,omitempty"`
	GitHubUsername string            `json:"githubusername,omitempty"`
	Skills         []string          `json:"skills"`
	Social         map[string]string `json:"social"`
	Experience     []Experience      `json:"experience"`
	Education      []Education       `json:"education"`
	CreatedAt      time.Time         `json:"date"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type Experience struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	ID           string     `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// IsSocialNetwork reports whether key is one of SocialNetworks.
func IsSocialNetwork(key string) bool {
	for _, n := range SocialNetworks {
		if n == key {
			return true
		}
	}
	return false
}

// ProfileSummary is the searchable projection of a profile and its owner.
type ProfileSummary struct {
	UserID   string   `json:"user_id"`
	Name     string   `json:"name"`
	Avatar   string   `json:"avatar"`
	Status   string   `json:"status"`
	Company  string   `json:"company,omitempty"`
	Location string   `json:"location,omitempty"`
	Skills   []string `json:"skills"`
}
