// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package responses

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	httptypes "github.com/canonical/assessment-service/internal/http/types"
	"github.com/canonical/assessment-service/internal/logging"
)

// RateLimiter throttles anonymous submissions per client. Counters live in
// process memory and are keyed by a salted digest of the client address, so
// no address is ever stored or logged.
type RateLimiter struct {
	limiter *limiter.Limiter
	salt    []byte

	logger logging.LoggerInterface
}

// NewRateLimiter takes a ulule/limiter formatted rate such as "120-M".
func NewRateLimiter(rate string, logger logging.LoggerInterface) (*RateLimiter, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid submission rate %q: %w", rate, err)
	}

	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	return &RateLimiter{
		limiter: limiter.New(memory.NewStore(), r),
		salt:    salt,
		logger:  logger,
	}, nil
}

func (l *RateLimiter) key(r *http.Request) string {
	h := sha256.New()
	h.Write(l.salt)
	h.Write([]byte(l.limiter.GetIP(r).String()))
	return hex.EncodeToString(h.Sum(nil))
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lctx, err := l.limiter.Get(r.Context(), l.key(r))
		if err != nil {
			l.logger.Errorf("rate limit check failed: %v", err)
			httptypes.WriteError(w, err, l.logger)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))

		if lctx.Reached {
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
			httptypes.WriteJSON(w, http.StatusTooManyRequests, httptypes.ErrorResponse{
				Status:  http.StatusTooManyRequests,
				Message: "too many requests",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
