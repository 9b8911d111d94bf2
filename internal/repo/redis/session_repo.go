package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/auth"
)

const (
	sessionPrefix      = "session:"
	refreshPrefix      = "refresh:"
	userSessionsPrefix = "user_sessions:"
)

// SessionRepo keeps sessions as JSON blobs keyed by sid, with a refresh
// token pointing back at its sid and a per-user set for bulk logout.
type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

type sessionBlob struct {
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
	Refresh   string `json:"refresh"`
}

func (r *SessionRepo) Create(ctx context.Context, session authsvc.SessionRecord, refreshToken string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(session.SID) == "" || strings.TrimSpace(refreshToken) == "" || session.UserID <= 0 {
		return authsvc.ErrInvalidInput
	}

	return r.write(ctx, session, refreshToken)
}

func (r *SessionRepo) GetSession(ctx context.Context, sid string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, fmt.Errorf("redis client is nil")
	}

	session, _, err := r.load(ctx, sid)
	return session, err
}

func (r *SessionRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, fmt.Errorf("redis client is nil")
	}

	sid, err := r.client.Get(ctx, refreshKey(refreshToken)).Result()
	if errors.Is(err, goredis.Nil) {
		return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
	}
	if err != nil {
		return authsvc.SessionRecord{}, fmt.Errorf("get refresh pointer: %w", err)
	}

	session, blob, err := r.load(ctx, sid)
	if err != nil {
		if errors.Is(err, authsvc.ErrSessionNotFound) {
			return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
		}
		return authsvc.SessionRecord{}, err
	}
	if blob.Refresh != refreshToken {
		return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
	}

	return session, nil
}

func (r *SessionRepo) RotateRefresh(ctx context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	session, err := r.GetByRefreshToken(ctx, oldRefreshToken)
	if err != nil {
		return err
	}
	if sid != "" && sid != session.SID {
		return authsvc.ErrRefreshNotFound
	}

	session.ExpiresAt = expiresAt
	if err := r.client.Del(ctx, refreshKey(oldRefreshToken)).Err(); err != nil {
		return fmt.Errorf("drop old refresh pointer: %w", err)
	}

	return r.write(ctx, session, newRefreshToken)
}

func (r *SessionRepo) DeleteSession(ctx context.Context, sid string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}

	session, blob, err := r.load(ctx, sid)
	if err != nil {
		if errors.Is(err, authsvc.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sid))
	if blob.Refresh != "" {
		pipe.Del(ctx, refreshKey(blob.Refresh))
	}
	pipe.SRem(ctx, userSessionsKey(session.UserID), sid)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return authsvc.ErrInvalidInput
	}

	sids, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	for _, sid := range sids {
		if err := r.DeleteSession(ctx, sid); err != nil {
			return err
		}
	}

	if err := r.client.Del(ctx, userSessionsKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete user sessions key: %w", err)
	}

	return nil
}

func (r *SessionRepo) write(ctx context.Context, session authsvc.SessionRecord, refreshToken string) error {
	raw, err := json.Marshal(sessionBlob{
		UserID:    session.UserID,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt.Unix(),
		Refresh:   refreshToken,
	})
	if err != nil {
		return fmt.Errorf("marshal session blob: %w", err)
	}

	ttl := ttlFor(session.ExpiresAt)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.SID), raw, ttl)
	pipe.Set(ctx, refreshKey(refreshToken), session.SID, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.SID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write redis session: %w", err)
	}

	return nil
}

func (r *SessionRepo) load(ctx context.Context, sid string) (authsvc.SessionRecord, sessionBlob, error) {
	raw, err := r.client.Get(ctx, sessionKey(sid)).Result()
	if errors.Is(err, goredis.Nil) {
		return authsvc.SessionRecord{}, sessionBlob{}, authsvc.ErrSessionNotFound
	}
	if err != nil {
		return authsvc.SessionRecord{}, sessionBlob{}, fmt.Errorf("get session blob: %w", err)
	}

	var blob sessionBlob
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return authsvc.SessionRecord{}, sessionBlob{}, fmt.Errorf("unmarshal session blob: %w", err)
	}
	if blob.UserID <= 0 {
		return authsvc.SessionRecord{}, sessionBlob{}, authsvc.ErrUnauthorized
	}

	return authsvc.SessionRecord{
		SID:       sid,
		UserID:    blob.UserID,
		Role:      blob.Role,
		ExpiresAt: time.Unix(blob.ExpiresAt, 0).UTC(),
	}, blob, nil
}

func ttlFor(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func sessionKey(sid string) string {
	return sessionPrefix + sid
}

func refreshKey(token string) string {
	return refreshPrefix + token
}

func userSessionsKey(userID int64) string {
	return userSessionsPrefix + strconv.FormatInt(userID, 10)
}
