package visit

import (
	"io"
	"net/http"
	"time"

	"github.com/bogdanSgithub/autovitals-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	TrackerCookie = "trackerId"
	trackerMaxAge = 365 * 24 * time.Hour
)

// Tracker tags browsers with a long-lived id and appends one line per visit
// to its writer.
type Tracker struct {
	log zerolog.Logger
}

func NewTracker(w io.Writer) *Tracker {
	return &Tracker{log: logger.New(w)}
}

// Middleware records the visit before handing over to the route.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		trackerID := t.Track(c)
		c.Set(TrackerCookie, trackerID)
		c.Next()
	}
}

// Track returns the caller's tracker id, issuing a new one if the request
// carried none, and logs the visit.
func (t *Tracker) Track(c *gin.Context) string {
	trackerID, err := c.Cookie(TrackerCookie)
	if err != nil || !validID(trackerID) {
		trackerID = uuid.NewString()
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     TrackerCookie,
			Value:    trackerID,
			Path:     "/",
			MaxAge:   int(trackerMaxAge / time.Second),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})
	}

	t.log.Info().
		Str("tracker_id", trackerID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.RequestURI()).
		Msg("visit")

	return trackerID
}

func validID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
