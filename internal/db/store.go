package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmercer/grantscout/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Organization profiles

func (s *Store) GetOrganizationProfile(ctx context.Context, userID uuid.UUID) (*models.OrganizationProfile, error) {
	var p models.OrganizationProfile
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, legal_name, COALESCE(operating_name, ''), COALESCE(org_structure, ''),
		       COALESCE(naics_code, ''), COALESCE(sector_tags, '{}'),
		       COALESCE(street, ''), COALESCE(city, ''), COALESCE(province, ''),
		       COALESCE(postal_code, ''), COALESCE(country, ''), updated_at
		FROM organization_profiles
		WHERE user_id = $1
	`, userID).Scan(
		&p.UserID, &p.LegalName, &p.OperatingName, &p.OrgStructure,
		&p.NAICSCode, &p.SectorTags,
		&p.Street, &p.City, &p.Province,
		&p.PostalCode, &p.Country, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get organization profile: %w", err)
	}
	return &p, nil
}

func (s *Store) UpsertOrganizationProfile(ctx context.Context, p models.OrganizationProfile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO organization_profiles
			(user_id, legal_name, operating_name, org_structure, naics_code, sector_tags,
			 street, city, province, postal_code, country, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			legal_name = EXCLUDED.legal_name,
			operating_name = EXCLUDED.operating_name,
			org_structure = EXCLUDED.org_structure,
			naics_code = EXCLUDED.naics_code,
			sector_tags = EXCLUDED.sector_tags,
			street = EXCLUDED.street,
			city = EXCLUDED.city,
			province = EXCLUDED.province,
			postal_code = EXCLUDED.postal_code,
			country = EXCLUDED.country,
			updated_at = NOW()
	`, p.UserID, p.LegalName, p.OperatingName, p.OrgStructure, p.NAICSCode, p.SectorTags,
		p.Street, p.City, p.Province, p.PostalCode, p.Country)
	if err != nil {
		return fmt.Errorf("upsert organization profile: %w", err)
	}
	return nil
}

// Applications
//
// One row per (user, grant): a retry overwrites the earlier attempt, which
// keeps the stored funnel aligned with the in-memory tracker.

func (s *Store) UpsertApplication(ctx context.Context, userID uuid.UUID, app models.Application) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO applications
			(user_id, grant_id, grant_title, funder, amount, status,
			 session_id, live_view_url, pdf_link, pdf_deadline, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, grant_id) DO UPDATE SET
			grant_title = EXCLUDED.grant_title,
			funder = EXCLUDED.funder,
			amount = EXCLUDED.amount,
			status = EXCLUDED.status,
			session_id = EXCLUDED.session_id,
			live_view_url = EXCLUDED.live_view_url,
			pdf_link = EXCLUDED.pdf_link,
			pdf_deadline = EXCLUDED.pdf_deadline,
			attempted_at = EXCLUDED.attempted_at
	`, userID, app.GrantID, app.GrantTitle, app.Funder, app.Amount, string(app.Status),
		app.SessionID, app.LiveViewURL, app.PDFLink, app.PDFDeadline, app.Timestamp)
	if err != nil {
		return fmt.Errorf("upsert application: %w", err)
	}
	return nil
}

func (s *Store) GetApplication(ctx context.Context, userID uuid.UUID, grantID int64) (*models.Application, error) {
	var a models.Application
	var status string
	err := s.pool.QueryRow(ctx, `
		SELECT grant_id, grant_title, COALESCE(funder, ''), COALESCE(amount, ''), status,
		       COALESCE(session_id, ''), COALESCE(live_view_url, ''),
		       COALESCE(pdf_link, ''), COALESCE(pdf_deadline, ''), attempted_at
		FROM applications
		WHERE user_id = $1 AND grant_id = $2
	`, userID, grantID).Scan(
		&a.GrantID, &a.GrantTitle, &a.Funder, &a.Amount, &status,
		&a.SessionID, &a.LiveViewURL, &a.PDFLink, &a.PDFDeadline, &a.Timestamp,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	a.Status = models.ApplicationStatus(status)
	return &a, nil
}

func (s *Store) ListApplications(ctx context.Context, userID uuid.UUID) ([]models.Application, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT grant_id, grant_title, COALESCE(funder, ''), COALESCE(amount, ''), status,
		       COALESCE(session_id, ''), COALESCE(live_view_url, ''),
		       COALESCE(pdf_link, ''), COALESCE(pdf_deadline, ''), attempted_at
		FROM applications
		WHERE user_id = $1
		ORDER BY attempted_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var a models.Application
		var status string
		err := rows.Scan(
			&a.GrantID, &a.GrantTitle, &a.Funder, &a.Amount, &status,
			&a.SessionID, &a.LiveViewURL, &a.PDFLink, &a.PDFDeadline, &a.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		a.Status = models.ApplicationStatus(status)
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// SucceededGrantIDs returns the grants this user already has a non-failed
// application for. The match list hides these.
func (s *Store) SucceededGrantIDs(ctx context.Context, userID uuid.UUID) (map[int64]bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT grant_id FROM applications
		WHERE user_id = $1 AND status <> 'failed'
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("succeeded grant ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
