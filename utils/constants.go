// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// WebhookEventPrefix is the prefix for processed payment-event dedupe keys.
const WebhookEventPrefix = "pmtEvent:"

// WebhookEventTTL bounds how long a processed event id is remembered.
const WebhookEventTTL = 24 * time.Hour
