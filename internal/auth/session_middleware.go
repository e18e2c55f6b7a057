// Copyright (C) 2024 JuniorHub Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package auth

import (
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/labstack/echo/v4"
)

// SessionMiddleware derives the actor from a bearer access token. An
// invalid or missing token does NOT abort the request - the policy denies
// with an unauthenticated reason later if the route requires an actor,
// while public reads keep working.
//
// Verified tokens are cached in a short lived LRU so that a burst of
// requests from the same client does not redo the signature check.
func SessionMiddleware(tokens *TokenService) echo.MiddlewareFunc {
	cache := expirable.NewLRU[string, accesscontrol.Actor](1024, nil, time.Minute)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := bearerToken(ctx)
			if token == "" {
				core.SetSession(ctx, accesscontrol.NoActor)
				return next(ctx)
			}

			if actor, ok := cache.Get(token); ok {
				core.SetSession(ctx, actor)
				return next(ctx)
			}

			subjectID, role, err := tokens.Verify(token, TokenClassAccess)
			if err != nil {
				slog.Debug("could not verify access token", "err", err)
				core.SetSession(ctx, accesscontrol.NoActor)
				return next(ctx)
			}

			actor := accesscontrol.Actor{SubjectID: subjectID, Role: role}
			cache.Add(token, actor)
			core.SetSession(ctx, actor)
			return next(ctx)
		}
	}
}

func bearerToken(ctx echo.Context) string {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
