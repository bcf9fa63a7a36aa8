// Package memory is an in-process ports.SubscriberStore. It backs local
// runs and tests; data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
)

// Store keeps subscribers in maps guarded by one RWMutex.
type Store struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.Subscriber
	byToken map[string]string
	now     func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byEmail: make(map[string]*domain.Subscriber),
		byToken: make(map[string]string),
		now:     time.Now,
	}
}

// FindByEmail implements ports.SubscriberStore.
func (s *Store) FindByEmail(_ context.Context, email string) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntitySubscriber, email)
	}

	cp := *sub

	return &cp, nil
}

// FindByToken implements ports.SubscriberStore.
func (s *Store) FindByToken(_ context.Context, token string) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email, ok := s.byToken[token]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntitySubscriber, "")
	}

	cp := *s.byEmail[email]

	return &cp, nil
}

// Insert implements ports.SubscriberStore.
func (s *Store) Insert(_ context.Context, sub *domain.Subscriber) error {
	email := domain.NormalizeEmail(sub.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return domain.NewConflictError(domain.EntitySubscriber, "email already registered")
	}

	if _, ok := s.byToken[sub.UnsubscribeToken]; ok {
		return domain.NewConflictError(domain.EntitySubscriber, "unsubscribe token already in use")
	}

	cp := *sub
	cp.Email = email

	now := s.now().UTC()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}

	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = now
	}

	s.byEmail[email] = &cp
	s.byToken[cp.UnsubscribeToken] = email

	return nil
}

// UpdateByEmail implements ports.SubscriberStore.
func (s *Store) UpdateByEmail(_ context.Context, email string, update domain.SubscriberUpdate) (*domain.Subscriber, error) {
	email = domain.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.byEmail[email]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntitySubscriber, email)
	}

	if update.UnsubscribeToken != nil && *update.UnsubscribeToken != sub.UnsubscribeToken {
		if _, taken := s.byToken[*update.UnsubscribeToken]; taken {
			return nil, domain.NewConflictError(domain.EntitySubscriber, "unsubscribe token already in use")
		}

		delete(s.byToken, sub.UnsubscribeToken)
		sub.UnsubscribeToken = *update.UnsubscribeToken
		s.byToken[sub.UnsubscribeToken] = email
	}

	if update.Subscribed != nil {
		sub.Subscribed = *update.Subscribed
	}

	if update.Timezone != nil {
		sub.Timezone = *update.Timezone
	}

	sub.UpdatedAt = s.now().UTC()
	cp := *sub

	return &cp, nil
}

// ListSubscribed implements ports.SubscriberStore. Results are ordered by
// creation time, then email.
func (s *Store) ListSubscribed(context.Context) ([]domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Subscriber, 0, len(s.byEmail))
	for _, sub := range s.byEmail {
		if sub.Subscribed {
			out = append(out, *sub)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}

		return out[i].Email < out[j].Email
	})

	return out, nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "subscriber-store" }

// Check implements ports.HealthChecker. The memory store is always healthy.
func (s *Store) Check(context.Context) error { return nil }
