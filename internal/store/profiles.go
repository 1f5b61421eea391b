// Package store implements the engine's collaborator interfaces on Postgres
// via pgxpool prepared statements (registered in internal/db).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sportsedge/engage/internal/cache"
	"github.com/sportsedge/engage/internal/notify"
)

// Profiles reads user profiles (preferences, favorites, engagement rates).
// An optional cache fronts reads during batch fan-out: a batch of thousands
// re-reads hot profiles without hammering Postgres.
type Profiles struct {
	pool  *pgxpool.Pool
	cache *cache.Cache
}

// NewProfiles creates a profile store. Pass a nil cache to disable caching.
func NewProfiles(pool *pgxpool.Pool, c *cache.Cache) *Profiles {
	return &Profiles{pool: pool, cache: c}
}

// GetUser assembles the engine's read model for one user from the users,
// user_follows, and engagement_stats tables. Returns notify.ErrNotFound for
// unknown ids.
func (s *Profiles) GetUser(ctx context.Context, id string) (*notify.UserProfile, error) {
	if s.cache != nil {
		if data, _, ok := s.cache.Get(profileKey(id)); ok {
			var p notify.UserProfile
			if err := json.Unmarshal(data, &p); err == nil {
				return &p, nil
			}
		}
	}

	var rawPrefs []byte
	err := s.pool.QueryRow(ctx, "get_user_prefs", id).Scan(&rawPrefs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notify.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user prefs: %w", err)
	}

	profile := &notify.UserProfile{
		ID:              id,
		EngagementStats: make(map[notify.Type]float64),
	}
	if len(rawPrefs) > 0 {
		if err := json.Unmarshal(rawPrefs, &profile.Preferences); err != nil {
			return nil, fmt.Errorf("decode prefs for %s: %w", id, err)
		}
	}

	if err := s.loadFollows(ctx, profile); err != nil {
		return nil, err
	}
	if err := s.loadRates(ctx, profile); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(profile); err == nil {
			s.cache.Set(profileKey(id), data, cache.TTLProfile)
		}
	}
	return profile, nil
}

func (s *Profiles) loadFollows(ctx context.Context, p *notify.UserProfile) error {
	rows, err := s.pool.Query(ctx, "get_user_follows", p.ID)
	if err != nil {
		return fmt.Errorf("get user follows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entityType, entityID string
		if err := rows.Scan(&entityType, &entityID); err != nil {
			return fmt.Errorf("scan follow: %w", err)
		}
		switch entityType {
		case "team":
			p.Favorites.Teams = append(p.Favorites.Teams, entityID)
		case "player":
			p.Favorites.Players = append(p.Favorites.Players, entityID)
		}
	}
	return rows.Err()
}

func (s *Profiles) loadRates(ctx context.Context, p *notify.UserProfile) error {
	rows, err := s.pool.Query(ctx, "get_user_rates", p.ID)
	if err != nil {
		return fmt.Errorf("get engagement rates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var rate float64
		if err := rows.Scan(&typ, &rate); err != nil {
			return fmt.Errorf("scan rate: %w", err)
		}
		p.EngagementStats[notify.Type(typ)] = rate
	}
	return rows.Err()
}

// Invalidate drops a user's cached profile, e.g. after a preference write.
func (s *Profiles) Invalidate(id string) {
	if s.cache != nil {
		s.cache.Delete(profileKey(id))
	}
}

// FollowersOf returns the distinct user ids following any of the given
// entities. Used by the event listener to resolve candidate users when the
// event carries no explicit recipient list.
func (s *Profiles) FollowersOf(ctx context.Context, entityType string, entityIDs []string) ([]string, error) {
	rows, err := s.pool.Query(ctx, "get_followers_of", entityType, entityIDs)
	if err != nil {
		return nil, fmt.Errorf("get followers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan follower: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func profileKey(id string) string {
	return "profile:" + id
}
