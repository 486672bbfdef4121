package gcal

import (
	"context"
	"errors"
	"time"

	"github.com/yunokim/fitplan/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
)

var ErrNotConnected = errors.New("calendar not connected")

type SyncStatus string

const (
	SyncStatusIdle    SyncStatus = "idle"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusError   SyncStatus = "error"
)

// Connection is the per-user Google Calendar link. Connected vs
// disconnected is simply row presence; sync status is orthogonal and
// only meaningful while connected.
type Connection struct {
	UserID         uuid.UUID  `json:"userId"`
	AccountEmail   string     `json:"accountEmail"`
	AccessToken    string     `json:"-"`
	RefreshToken   string     `json:"-"`
	TokenExpiresAt time.Time  `json:"tokenExpiresAt"`
	TokenExpired   bool       `json:"tokenExpired"`
	LastSyncAt     *time.Time `json:"lastSyncAt,omitempty"`
	SyncStatus     SyncStatus `json:"syncStatus"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Token rebuilds the oauth2 token for API calls. The token source
// created from it refreshes expired access tokens transparently when a
// refresh token is present.
func (c *Connection) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		Expiry:       c.TokenExpiresAt,
		TokenType:    "Bearer",
	}
}

// Usable reports whether the connection can serve remote calls:
// not flagged expired, or still refreshable.
func (c *Connection) Usable() bool {
	if c.TokenExpired {
		return false
	}
	if c.RefreshToken == "" && !c.TokenExpiresAt.IsZero() && c.TokenExpiresAt.Before(time.Now()) {
		return false
	}
	return true
}

type ConnectionRepo struct {
	db *pgxpool.Pool
}

func NewConnectionRepo(db *pgxpool.Pool) *ConnectionRepo {
	return &ConnectionRepo{
		db: db,
	}
}

// Save upserts the connection row for the user. Saving resets the sync
// state: a fresh token means a clean slate.
func (r *ConnectionRepo) Save(ctx context.Context, c *Connection) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendarConnection.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", c.UserID.String()))

	if c.SyncStatus == "" {
		c.SyncStatus = SyncStatusIdle
	}
	now := time.Now()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO calendar_connection
				(user_id, account_email, access_token, refresh_token, token_expires_at,
				token_expired, last_sync_at, sync_status, error_message, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			ON CONFLICT (user_id) DO UPDATE
				SET account_email = EXCLUDED.account_email,
					access_token = EXCLUDED.access_token,
					refresh_token = EXCLUDED.refresh_token,
					token_expires_at = EXCLUDED.token_expires_at,
					token_expired = EXCLUDED.token_expired,
					sync_status = EXCLUDED.sync_status,
					error_message = EXCLUDED.error_message,
					updated_at = EXCLUDED.updated_at;`,
		c.UserID, c.AccountEmail, c.AccessToken, c.RefreshToken, c.TokenExpiresAt,
		c.TokenExpired, c.LastSyncAt, c.SyncStatus, c.ErrorMessage, now,
	)
	return err
}

func (r *ConnectionRepo) Get(ctx context.Context, userID uuid.UUID) (_ *Connection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendarConnection.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var c Connection
	err = r.db.QueryRow(
		ctx,
		`
			SELECT
				user_id, account_email, access_token, refresh_token, token_expires_at,
				token_expired, last_sync_at, sync_status, error_message, created_at, updated_at
			FROM calendar_connection
			WHERE user_id = $1;`,
		userID,
	).Scan(
		&c.UserID, &c.AccountEmail, &c.AccessToken, &c.RefreshToken, &c.TokenExpiresAt,
		&c.TokenExpired, &c.LastSyncAt, &c.SyncStatus, &c.ErrorMessage, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotConnected
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *ConnectionRepo) UpdateSyncStatus(ctx context.Context, userID uuid.UUID, status SyncStatus, errorMessage string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendarConnection.updateSyncStatus")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("sync.status", string(status)))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE calendar_connection
			SET sync_status = $1, error_message = $2, updated_at = $3
			WHERE user_id = $4;`,
		status, errorMessage, time.Now(), userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotConnected
	}
	return nil
}

func (r *ConnectionRepo) UpdateLastSync(ctx context.Context, userID uuid.UUID, at time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendarConnection.updateLastSync")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE calendar_connection SET last_sync_at = $1, updated_at = $1 WHERE user_id = $2;`,
		at, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotConnected
	}
	return nil
}

func (r *ConnectionRepo) SetTokenExpired(ctx context.Context, userID uuid.UUID, expired bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendarConnection.setTokenExpired")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE calendar_connection SET token_expired = $1, updated_at = $2 WHERE user_id = $3;`,
		expired, time.Now(), userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotConnected
	}
	return nil
}

func (r *ConnectionRepo) Delete(ctx context.Context, userID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calendarConnection.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	tag, err := r.db.Exec(ctx, `DELETE FROM calendar_connection WHERE user_id = $1;`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotConnected
	}
	return nil
}
