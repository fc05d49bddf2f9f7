package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"alegria_backend/pkg/utils"
)

// RateLimitMiddleware limits requests per client IP. rate uses the limiter
// format "<limit>-<period>", e.g. "300-M".
func RateLimitMiddleware(rate string) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}

	instance := limiter.New(memory.NewStore(), parsed)
	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusTooManyRequests, utils.ErrCodeTooManyRequests, "Too many requests.", "Limit: "+rate))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			utils.LogError(err, "RateLimitMiddleware: limiter store failed")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Rate limiter failure.", "Internal error"))
		}),
	), nil
}
