package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	retry "github.com/appleboy/go-httpretry"
)

// ErrInvalidRetryPolicy is returned when a RetryPolicy has negative values
// or a MaxDelay below its InitialDelay.
var ErrInvalidRetryPolicy = errors.New("invalid retry policy")

// RetryPolicy bounds the exponential backoff applied to idempotent
// platform requests (subscription list/create, activity fetches).
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func (p RetryPolicy) validate() error {
	switch {
	case p.MaxRetries < 0:
		return fmt.Errorf("%w: max retries %d", ErrInvalidRetryPolicy, p.MaxRetries)
	case p.InitialDelay < 0:
		return fmt.Errorf("%w: initial delay %s", ErrInvalidRetryPolicy, p.InitialDelay)
	case p.MaxDelay < p.InitialDelay:
		return fmt.Errorf(
			"%w: max delay %s below initial delay %s",
			ErrInvalidRetryPolicy, p.MaxDelay, p.InitialDelay,
		)
	}
	return nil
}

// NewRetryClient layers policy on top of httpClient.
func NewRetryClient(httpClient *http.Client, policy RetryPolicy) (*retry.Client, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}

	rc, err := retry.NewRealtimeClient(
		retry.WithHTTPClient(httpClient),
		retry.WithMaxRetries(policy.MaxRetries),
		retry.WithInitialRetryDelay(policy.InitialDelay),
		retry.WithMaxRetryDelay(policy.MaxDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("build retry client: %w", err)
	}
	return rc, nil
}
