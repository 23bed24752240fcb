// Package config reads per-publisher settings from viper.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/agentstation/specmap/internal/transport"
	"github.com/agentstation/specmap/pkg/constants"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	// Check OS env directly first
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// Source holds the overrides for one publisher catalog.
type Source struct {
	URL   string
	Auth  string
	Token string
}

// SourceFor returns the configured overrides for a publisher. Keys are
// sources.<id>.url, sources.<id>.auth and sources.<id>.token; the token may
// also come from SPECMAP_<ID>_TOKEN.
func SourceFor(id publishers.ID) Source {
	prefix := "sources." + id.String() + "."
	src := Source{
		URL:   viper.GetString(prefix + "url"),
		Auth:  viper.GetString(prefix + "auth"),
		Token: viper.GetString(prefix + "token"),
	}
	if src.Token == "" {
		src.Token = GetString(TokenEnv(id))
	}
	return src
}

// TokenEnv is the environment variable holding a publisher's access token.
func TokenEnv(id publishers.ID) string {
	return "SPECMAP_" + strings.ToUpper(id.String()) + "_TOKEN"
}

// URLs returns the catalog URL overrides for the given publishers.
func URLs(ids []publishers.ID) map[publishers.ID]string {
	urls := make(map[publishers.ID]string, len(ids))
	for _, id := range ids {
		if u := SourceFor(id).URL; u != "" {
			urls[id] = u
		}
	}
	return urls
}

// Publishers returns the configured publisher selection. An empty
// selection means every known publisher.
func Publishers() ([]publishers.ID, error) {
	names := viper.GetStringSlice("publishers")
	if len(names) == 0 {
		return publishers.IDs(), nil
	}

	seen := make(map[publishers.ID]bool, len(names))
	ids := make([]publishers.ID, 0, len(names))
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := publishers.ParseID(part)
			if err != nil {
				return nil, err
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// HTTP holds the transport settings shared by every source.
type HTTP struct {
	Timeout   time.Duration
	CacheTTL  time.Duration
	Retries   int
	UserAgent string
}

// HTTPSettings reads http_timeout, cache_ttl, max_retries and user_agent,
// falling back to the package defaults.
func HTTPSettings() HTTP {
	h := HTTP{
		Timeout:   viper.GetDuration("http_timeout"),
		CacheTTL:  viper.GetDuration("cache_ttl"),
		Retries:   constants.MaxRetries,
		UserAgent: viper.GetString("user_agent"),
	}
	if h.Timeout <= 0 {
		h.Timeout = constants.DefaultHTTPTimeout
	}
	if h.CacheTTL <= 0 {
		h.CacheTTL = constants.CacheTTL
	}
	if viper.IsSet("max_retries") {
		h.Retries = viper.GetInt("max_retries")
	}
	if h.UserAgent == "" {
		h.UserAgent = constants.DefaultUserAgent
	}
	return h
}

// ClientFactory returns a constructor of transport clients that share one
// response cache and apply each publisher's auth overrides. The hook, when
// non-nil, observes every HTTP attempt.
func ClientFactory(hook func(publishers.ID, transport.Attempt)) func(publishers.ID) *transport.Client {
	h := HTTPSettings()
	cache := transport.NewCache(h.CacheTTL, constants.CacheCleanupInterval)

	return func(id publishers.ID) *transport.Client {
		opts := []transport.Option{
			transport.WithTimeout(h.Timeout),
			transport.WithRetries(h.Retries),
			transport.WithUserAgent(h.UserAgent),
			transport.WithCache(cache),
		}
		src := SourceFor(id)
		if src.Token != "" {
			auth := src.Auth
			if auth == "" {
				auth = "bearer"
			}
			opts = append(opts, transport.WithAuth(transport.ParseAuth(auth), src.Token))
		}
		if hook != nil {
			opts = append(opts, transport.WithAttemptHook(func(a transport.Attempt) { hook(id, a) }))
		}
		return transport.New(opts...)
	}
}

// S3 holds the optional publishing target.
type S3 struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// Enabled reports whether a bucket is configured.
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

// S3Settings reads the s3.* keys.
func S3Settings() S3 {
	return S3{
		Bucket:    viper.GetString("s3.bucket"),
		Prefix:    viper.GetString("s3.prefix"),
		Region:    viper.GetString("s3.region"),
		Endpoint:  viper.GetString("s3.endpoint"),
		PathStyle: viper.GetBool("s3.path_style"),
	}
}

// Format returns the configured output format, json or yaml.
func Format() (string, error) {
	format := strings.ToLower(strings.TrimSpace(viper.GetString("format")))
	switch format {
	case "":
		return constants.DefaultFormat, nil
	case "json", "yaml":
		return format, nil
	case "yml":
		return "yaml", nil
	default:
		return "", &errors.ValidationError{
			Field:   "format",
			Value:   format,
			Message: fmt.Sprintf("unsupported format %q (use json or yaml)", format),
		}
	}
}
