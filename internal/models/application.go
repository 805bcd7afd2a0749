package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus tracks a grant application through the funnel.
type ApplicationStatus string

const (
	StatusStarted   ApplicationStatus = "started"
	StatusDraft     ApplicationStatus = "draft"
	StatusSubmitted ApplicationStatus = "submitted"
	StatusReviewed  ApplicationStatus = "reviewed"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
	StatusFailed    ApplicationStatus = "failed"
)

// Terminal reports whether the status ends the funnel.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Succeeded reports whether the application attempt itself went through.
// A failed attempt may be retried and replaces its prior entry in place.
func (s ApplicationStatus) Succeeded() bool {
	return s != StatusFailed
}

// Application is the latest attempt for a given grant.
type Application struct {
	GrantID     int64             `json:"grant_id"`
	GrantTitle  string            `json:"grant_title"`
	Funder      string            `json:"funder"`
	Amount      string            `json:"amount"`
	Status      ApplicationStatus `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	SessionID   string            `json:"session_id,omitempty"`
	LiveViewURL string            `json:"live_view_url,omitempty"`
	PDFLink     string            `json:"pdf_link,omitempty"`
	PDFDeadline string            `json:"pdf_deadline,omitempty"`
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrganizationProfile is the stored per-user organization descriptor.
type OrganizationProfile struct {
	UserID        uuid.UUID `json:"user_id"`
	LegalName     string    `json:"legal_name"`
	OperatingName string    `json:"operating_name,omitempty"`
	OrgStructure  string    `json:"org_structure,omitempty"`
	NAICSCode     string    `json:"naics_code,omitempty"`
	SectorTags    []string  `json:"sector_tags,omitempty"`
	Street        string    `json:"street,omitempty"`
	City          string    `json:"city,omitempty"`
	Province      string    `json:"province,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	Country       string    `json:"country,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Info converts a stored profile into the search request shape.
func (p OrganizationProfile) Info() OrganizationInfo {
	info := OrganizationInfo{
		LegalName:     p.LegalName,
		OperatingName: p.OperatingName,
		OrgStructure:  p.OrgStructure,
		NAICSCode:     p.NAICSCode,
		SectorTags:    p.SectorTags,
	}
	if p.Street != "" || p.City != "" || p.Province != "" || p.PostalCode != "" || p.Country != "" {
		info.Address = &Address{
			Street:     p.Street,
			City:       p.City,
			Province:   p.Province,
			PostalCode: p.PostalCode,
			Country:    p.Country,
		}
	}
	return info
}
