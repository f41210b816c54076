package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

// Ping checks that the API answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.send(ctx, request{method: http.MethodGet, path: "/health", public: true})
	return err
}

// WaitReady pings the API with exponential backoff until it answers or
// maxElapsed passes. Structured API errors other than 5xx stop the wait.
func (c *Client) WaitReady(ctx context.Context, maxElapsed time.Duration) error {
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := c.Ping(ctx)
		if err == nil {
			return struct{}{}, nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(maxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Debug().Err(err).Int("attempt", attempt).Dur("next", next).Msg("api not ready")
		}),
	)
	return err
}
