package redis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure CookieJar implements http.CookieJar
var _ http.CookieJar = (*CookieJar)(nil)

const (
	cookieKeyPrefix = "alto:cookies:"
	cookieKeyTTL    = 30 * 24 * time.Hour
	cookieOpTimeout = 3 * time.Second
)

// storedCookie is the hash value kept per cookie name
type storedCookie struct {
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// CookieJar struct - http.CookieJar persisted in a Redis hash under the same scope as the
// token, so the HttpOnly refresh cookie survives re-running the CLI in one shell.
// The jar serves a single API host; domains are not tracked.
type CookieJar struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewCookieJar func
func NewCookieJar(client *redis.Client, scope string) *CookieJar {
	return &CookieJar{
		client: client,
		key:    cookieKeyPrefix + scope,
		now:    time.Now,
	}
}

// SetCookies stores or deletes cookies from a response
func (j *CookieJar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	ctx, cancel := context.WithTimeout(context.Background(), cookieOpTimeout)
	defer cancel()

	now := j.now()
	for _, c := range cookies {
		expires := c.Expires
		if c.MaxAge > 0 {
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}

		if c.MaxAge < 0 || (!expires.IsZero() && !expires.After(now)) {
			if err := j.client.HDel(ctx, j.key, c.Name).Err(); err != nil {
				logrus.Warnf("Failed to delete cookie %s: %v", c.Name, err)
			}
			continue
		}

		data, err := json.Marshal(storedCookie{Value: c.Value, Path: c.Path, Expires: expires})
		if err != nil {
			continue
		}
		if err := j.client.HSet(ctx, j.key, c.Name, data).Err(); err != nil {
			logrus.Warnf("Failed to store cookie %s: %v", c.Name, err)
			continue
		}
	}

	if err := j.client.Expire(ctx, j.key, cookieKeyTTL).Err(); err != nil {
		logrus.Debugf("Failed to set cookie jar TTL: %v", err)
	}
}

// Cookies returns the unexpired cookies whose path matches u
func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	ctx, cancel := context.WithTimeout(context.Background(), cookieOpTimeout)
	defer cancel()

	all, err := j.client.HGetAll(ctx, j.key).Result()
	if err != nil {
		logrus.Warnf("Failed to read cookies: %v", err)
		return nil
	}

	now := j.now()
	var cookies []*http.Cookie
	for name, raw := range all {
		var sc storedCookie
		if err := json.Unmarshal([]byte(raw), &sc); err != nil {
			continue
		}
		if !sc.Expires.IsZero() && !sc.Expires.After(now) {
			continue
		}
		if !pathMatch(u.Path, sc.Path) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: sc.Value})
	}
	return cookies
}

func pathMatch(requestPath, cookiePath string) bool {
	if cookiePath == "" || cookiePath == "/" {
		return true
	}
	if requestPath == "" {
		requestPath = "/"
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	return len(requestPath) == len(cookiePath) ||
		strings.HasSuffix(cookiePath, "/") ||
		requestPath[len(cookiePath)] == '/'
}
