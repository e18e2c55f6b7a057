package core

import (
	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/labstack/echo/v4"
)

// DenyError translates a policy denial into the transport taxonomy:
// unauthenticated actors get a 401, everything else a 403 carrying the
// stable machine readable reason. Not-found is never produced here - the
// controllers check resource existence before consulting the policy.
func DenyError(decision accesscontrol.Decision) *echo.HTTPError {
	if decision.Allowed {
		return nil
	}

	switch decision.Reason {
	case accesscontrol.ReasonUnauthenticated:
		return echo.NewHTTPError(401, echo.Map{
			"message": "authentication required",
			"reason":  string(accesscontrol.ReasonUnauthenticated),
		})
	default:
		return echo.NewHTTPError(403, echo.Map{
			"message": "forbidden",
			"reason":  string(decision.Reason),
		})
	}
}
