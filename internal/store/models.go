package store

import "time"

type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Site is one funnel site: a bundle of pages sharing design-system tokens.
type Site struct {
	ID        string
	Name      string
	Slug      string
	Tokens    string // design-system tokens JSON, "" when unset
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Page holds one page-builder document. Doc is the raw persisted JSON exactly
// as the editor last saved it; normalization happens on read, never on write.
type Page struct {
	ID        string
	SiteID    string
	Title     string
	Slug      string
	Status    string // draft | published
	Doc       string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)
