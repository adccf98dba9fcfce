package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrSessionExpired is the terminal authentication error. It is returned when
// no refresh credential is stored or when the refresh exchange fails; the
// stored credentials are cleared in both cases and the user has to log in again.
var ErrSessionExpired = errors.New("session expired, please login again")

// State is the refresh state of a Coordinator.
type State int

const (
	Idle State = iota
	Refreshing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Refreshing:
		return "refreshing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type outcome struct {
	access string
	err    error
}

// Coordinator serializes access-token refreshes. At most one refresh exchange
// is in flight; callers that need a fresh credential while it runs are queued
// and released, in arrival order, with the exchange's result.
type Coordinator struct {
	store     CredentialStore
	refresher Refresher

	mu        sync.Mutex
	state     State
	queue     []chan outcome
	exchanges int

	// release delivers res to one queued caller. Tests replace it to observe order.
	release func(ch chan outcome, res outcome)
}

// NewCoordinator creates a Coordinator in the Idle state.
func NewCoordinator(store CredentialStore, refresher Refresher) *Coordinator {
	return &Coordinator{store: store, refresher: refresher, release: deliver}
}

func deliver(ch chan outcome, res outcome) { ch <- res }

// Acquire returns an access credential to replace stale, the one a request was
// rejected with. If another caller already replaced it, the stored credential
// is returned without contacting the server. The exchange runs detached from
// ctx cancellation: once started it always completes. A queued caller whose
// ctx is done stops waiting and gets ctx.Err(). Without a store there is no
// refresh credential and ErrSessionExpired is returned.
func (c *Coordinator) Acquire(ctx context.Context, stale string) (string, error) {
	c.mu.Lock()

	if c.state == Refreshing {
		ch := make(chan outcome, 1)
		c.queue = append(c.queue, ch)
		pending := len(c.queue)
		c.mu.Unlock()

		log.Debug().Int("pending", pending).Msg("Waiting for in-flight token refresh")
		select {
		case res := <-ch:
			return res.access, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if c.store == nil || c.refresher == nil {
		c.mu.Unlock()
		log.Info().Msg("No credential store configured")
		return "", ErrSessionExpired
	}
	creds, err := c.store.Get()
	if err != nil {
		c.mu.Unlock()
		return "", fmt.Errorf("failed to read stored credentials: %w", err)
	}

	if creds != nil && creds.Access != "" && creds.Access != stale {
		c.mu.Unlock()
		return creds.Access, nil
	}

	if creds == nil || creds.Refresh == "" {
		if err := c.store.Clear(); err != nil {
			log.Warn().Err(err).Msg("Failed to clear credentials")
		}
		c.mu.Unlock()
		log.Info().Msg("No refresh token stored")
		return "", ErrSessionExpired
	}

	c.state = Refreshing
	c.exchanges++
	refresh := creds.Refresh
	c.mu.Unlock()

	log.Info().Msg("Access token rejected, refreshing...")
	access, err := c.exchange(context.WithoutCancel(ctx), refresh)
	return c.finish(refresh, access, err)
}

// exchange calls the refresher, turning a panic into an exchange error so the
// coordinator always leaves Refreshing.
func (c *Coordinator) exchange(ctx context.Context, refresh string) (access string, err error) {
	defer func() {
		if r := recover(); r != nil {
			access, err = "", fmt.Errorf("token refresh panicked: %v", r)
		}
	}()
	return c.refresher.Refresh(ctx, refresh)
}

// finish stores the exchange result, releases every queued caller in order
// and returns the coordinator to Idle.
func (c *Coordinator) finish(refresh, access string, exchangeErr error) (string, error) {
	if exchangeErr == nil && access == "" {
		exchangeErr = errors.New("refresh response did not contain an access token")
	}

	c.mu.Lock()
	var res outcome
	if exchangeErr != nil {
		if err := c.store.Clear(); err != nil {
			log.Warn().Err(err).Msg("Failed to clear credentials")
		}
		res = outcome{err: fmt.Errorf("%w: %w", ErrSessionExpired, exchangeErr)}
		log.Error().Err(exchangeErr).Int("pending", len(c.queue)).Msg("Token refresh failed")
	} else {
		// The refresh credential is kept as is; the server does not rotate it.
		if err := c.store.Set(access, refresh); err != nil {
			log.Error().Err(err).Msg("Failed to save refreshed token")
		}
		res = outcome{access: access}
		log.Info().Int("pending", len(c.queue)).Msg("Token refreshed and saved successfully.")
	}
	queue := c.queue
	c.queue = nil
	c.state = Idle
	c.mu.Unlock()

	release := c.release
	if release == nil {
		release = deliver
	}
	for _, ch := range queue {
		release(ch, res)
	}
	return res.access, res.err
}

// State returns the current refresh state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending returns the number of callers waiting on the in-flight refresh.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Exchanges returns how many refresh exchanges have been started.
func (c *Coordinator) Exchanges() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exchanges
}
