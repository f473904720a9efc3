package screen

import (
	"time"

	catrate "github.com/joeycumines/go-catrate"
	"github.com/rs/zerolog"
)

// Checker reports drawing failures. Failures are logged at most once per second and ten
// times per minute per call site, since a broken draw call fails again on every frame.
type Checker struct {
	log     zerolog.Logger
	limiter *catrate.Limiter
}

// NewChecker makes a Checker logging to log.
func NewChecker(log zerolog.Logger) *Checker {
	return &Checker{
		log: log,
		limiter: catrate.NewLimiter(map[time.Duration]int{
			time.Second: 1,
			time.Minute: 10,
		}),
	}
}

// Check logs err, if not nil, under site. It reports whether err was not nil.
func (c *Checker) Check(site string, err error) bool {
	if err == nil {
		return false
	}
	if _, ok := c.limiter.Allow(site); ok {
		c.log.Error().Err(err).Str("site", site).Msg("draw failed")
	}
	return true
}
