package policy

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/normanking/manifold/pkg/adapter"
	"github.com/normanking/manifold/pkg/callctx"
)

// Wildcard matches any adapter or capability in a grant.
const Wildcard = "*"

// Grant entitles a principal to one capability of one adapter. Adapter and
// capability may be the wildcard.
type Grant struct {
	Principal  string    `json:"principal"`
	Adapter    string    `json:"adapter"`
	Capability string    `json:"capability"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store provides database operations for grants and API keys.
type Store struct {
	db *sql.DB
}

// NewStore creates a grant store with the given database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the store's tables if they do not exist.
func (s *Store) Init(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS grants (
			principal  TEXT NOT NULL,
			adapter    TEXT NOT NULL,
			capability TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE(principal, adapter, capability)
		);
		CREATE TABLE IF NOT EXISTS api_keys (
			principal  TEXT PRIMARY KEY,
			key_hash   TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_grants_principal ON grants(principal);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init policy store: %w", err)
	}
	return nil
}

// ───────────────────────────────────────────────────────────────────────────────
// GRANT OPERATIONS
// ───────────────────────────────────────────────────────────────────────────────

// AddGrant records a grant. Re-adding an existing grant is a no-op.
func (s *Store) AddGrant(ctx context.Context, g Grant) error {
	query := `
		INSERT OR IGNORE INTO grants (principal, adapter, capability, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, g.Principal, g.Adapter, g.Capability, time.Now()); err != nil {
		return fmt.Errorf("add grant: %w", err)
	}
	return nil
}

// RemoveGrant deletes a grant. Removing an unknown grant is a no-op.
func (s *Store) RemoveGrant(ctx context.Context, g Grant) error {
	query := `DELETE FROM grants WHERE principal = ? AND adapter = ? AND capability = ?`
	if _, err := s.db.ExecContext(ctx, query, g.Principal, g.Adapter, g.Capability); err != nil {
		return fmt.Errorf("remove grant: %w", err)
	}
	return nil
}

// GrantsFor returns every grant recorded for a principal.
func (s *Store) GrantsFor(ctx context.Context, principal string) ([]Grant, error) {
	query := `
		SELECT principal, adapter, capability, created_at
		FROM grants
		WHERE principal = ?
		ORDER BY adapter, capability
	`
	rows, err := s.db.QueryContext(ctx, query, principal)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		if err := rows.Scan(&g.Principal, &g.Adapter, &g.Capability, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	return grants, nil
}

// HasGrant reports whether a principal holds a grant covering the adapter
// and capability, honoring wildcards in stored grants.
func (s *Store) HasGrant(ctx context.Context, principal, adapterID, capabilityID string) (bool, error) {
	query := `
		SELECT COUNT(1) FROM grants
		WHERE principal = ?
		  AND (adapter = ? OR adapter = ?)
		  AND (capability = ? OR capability = ?)
	`
	var count int
	err := s.db.QueryRowContext(ctx, query, principal, adapterID, Wildcard, capabilityID, Wildcard).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check grant: %w", err)
	}
	return count > 0, nil
}

// ───────────────────────────────────────────────────────────────────────────────
// API KEY OPERATIONS
// ───────────────────────────────────────────────────────────────────────────────

// SetAPIKey stores the bcrypt hash of a principal's API key, replacing any
// previous key.
func (s *Store) SetAPIKey(ctx context.Context, principal, key string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash api key: %w", err)
	}

	query := `
		INSERT INTO api_keys (principal, key_hash, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(principal) DO UPDATE SET key_hash = excluded.key_hash, created_at = excluded.created_at
	`
	if _, err := s.db.ExecContext(ctx, query, principal, string(hash), time.Now()); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}
	return nil
}

// VerifyAPIKey checks a presented key against the stored hash. A wrong key
// or unknown principal yields ErrInvalidAPIKey / ErrUnknownPrincipal; other
// errors indicate the store itself failed.
func (s *Store) VerifyAPIKey(ctx context.Context, principal, key string) error {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT key_hash FROM api_keys WHERE principal = ?`, principal).Scan(&hash)
	if err == sql.ErrNoRows {
		return ErrUnknownPrincipal
	}
	if err != nil {
		return fmt.Errorf("load api key: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) != nil {
		return ErrInvalidAPIKey
	}
	return nil
}

// StorePolicy authorizes requests against the grant store. Anonymous calls
// are denied as a value; store failures surface as errors so an outage is
// never mistaken for "access denied".
type StorePolicy struct {
	store *Store
}

// NewStorePolicy creates a policy over an initialized store.
func NewStorePolicy(store *Store) *StorePolicy {
	return &StorePolicy{store: store}
}

// Authorize implements adapter.AuthorizationPolicy.
func (p *StorePolicy) Authorize(ctx context.Context, cc *callctx.Context, a adapter.Adapter, cap adapter.Capability) (bool, error) {
	if cc == nil || cc.Principal() == nil {
		return false, nil
	}
	return p.store.HasGrant(ctx, cc.Principal().Subject, a.Info().ID, cap.ID())
}
