package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"time"

	"apex-business/internal/common/database"
	"apex-business/internal/common/errors"
	"apex-business/internal/common/logger"
	"apex-business/internal/models"
)

// ProfileCacheKey is the Redis key of a user's cached profile.
func ProfileCacheKey(userID string) string {
	return "user:profile:" + userID
}

// ProfileVersionKey counts profile writes. A cached entry is only served
// while its version matches, so a read that raced an update cannot keep
// the old row alive.
func ProfileVersionKey(userID string) string {
	return "user:profile:version:" + userID
}

type cachedProfile struct {
	Version int64          `json:"version"`
	Profile models.Profile `json:"profile"`
}

// ProfileRepository stores one business profile per user. Reads go through
// Redis when a client is configured; cache errors never fail a request.
type ProfileRepository struct {
	db     *sql.DB
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewProfileRepository(db *sql.DB, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		redis:  redis,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"repository": "profiles"}),
	}
}

// Get returns PROFILE_NOT_FOUND until the user completes onboarding.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	version, cacheOK := r.cacheVersion(ctx, userID)
	if cacheOK {
		if p := r.cached(ctx, userID, version); p != nil {
			return p, nil
		}
	}

	var p models.Profile
	var experience string
	query := `SELECT name, email, business_idea, capital, experience, location, team_size
		FROM user_profiles WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.Name, &p.Email, &p.BusinessIdea, &p.Capital, &experience, &p.Location, &p.TeamSize,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewProfileNotFoundError(userID)
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError("get profile", err)
	}
	p.Experience = models.Experience(experience)

	if cacheOK {
		r.cache(ctx, userID, version, &p)
	}
	return &p, nil
}

// Upsert replaces the stored profile, bumps its cache version and drops the
// cached copy.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, p models.Profile) error {
	query := `INSERT INTO user_profiles
		(user_id, name, email, business_idea, capital, experience, location, team_size, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			business_idea = EXCLUDED.business_idea,
			capital = EXCLUDED.capital,
			experience = EXCLUDED.experience,
			location = EXCLUDED.location,
			team_size = EXCLUDED.team_size,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		userID, p.Name, p.Email, p.BusinessIdea, p.Capital, string(p.Experience), p.Location, p.TeamSize)
	if err != nil {
		return errors.NewDatabaseQueryFailedError("upsert profile", err)
	}

	if r.redis != nil {
		if _, err := r.redis.Incr(ctx, ProfileVersionKey(userID)); err != nil {
			r.logger.Warn("Failed to bump profile cache version", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
		if err := r.redis.Del(ctx, ProfileCacheKey(userID)); err != nil {
			r.logger.Warn("Failed to invalidate profile cache", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
	}
	return nil
}

// cacheVersion reports the current write version; false means the cache is
// unusable for this request.
func (r *ProfileRepository) cacheVersion(ctx context.Context, userID string) (int64, bool) {
	if r.redis == nil {
		return 0, false
	}
	data, err := r.redis.Get(ctx, ProfileVersionKey(userID))
	if stderrors.Is(err, database.ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		r.logger.Warn("Profile cache read failed", map[string]interface{}{"userId": userID, "error": err.Error()})
		return 0, false
	}
	version, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, false
	}
	return version, true
}

func (r *ProfileRepository) cached(ctx context.Context, userID string, version int64) *models.Profile {
	data, err := r.redis.Get(ctx, ProfileCacheKey(userID))
	if err != nil {
		if !stderrors.Is(err, database.ErrCacheMiss) {
			r.logger.Warn("Profile cache read failed", map[string]interface{}{"userId": userID, "error": err.Error()})
		}
		return nil
	}
	var entry cachedProfile
	if err := json.Unmarshal(data, &entry); err != nil || entry.Version != version {
		return nil
	}
	return &entry.Profile
}

func (r *ProfileRepository) cache(ctx context.Context, userID string, version int64, p *models.Profile) {
	data, err := json.Marshal(cachedProfile{Version: version, Profile: *p})
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, ProfileCacheKey(userID), data, r.ttl); err != nil {
		r.logger.Debug("Profile cache write failed", map[string]interface{}{"userId": userID, "error": err.Error()})
	}
}
