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

package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/juniorhub-dev/juniorhub/cmd/juniorhub/api"
	"github.com/juniorhub-dev/juniorhub/internal/core"

	_ "github.com/lib/pq"
)

var release string // Will be filled at build time

func initSentry() {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:           os.Getenv("ERROR_TRACKING_DSN"),
		Release:       release,
		EnableTracing: false,
	}); err != nil {
		slog.Error("could not initialize sentry", "err", err)
	}
}

func main() {
	core.LoadConfig() // nolint: errcheck
	core.InitLogger()

	if os.Getenv("ERROR_TRACKING_DSN") != "" {
		initSentry()

		defer func() {
			if err := recover(); err != nil {
				sentry.CurrentHub().Recover(err)
				sentry.Flush(time.Second * 5)
			}
		}()
	}

	db, err := core.DatabaseFactory()
	if err != nil {
		slog.Error(err.Error())
		panic(errors.New("failed to setup database connection"))
	}

	api.Start(db)
}
