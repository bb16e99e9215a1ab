package services

import (
	"context"
	"errors"
	"sync"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/domain/models"
)

type fakeIdentities struct {
	mu        sync.Mutex
	users     map[string]models.Identity
	lookupErr error
	changeErr error
	changes   []passwordChange
}

type passwordChange struct {
	UserID     int64
	Credential string
	Password   string
}

func newFakeIdentities(users ...models.Identity) *fakeIdentities {
	f := &fakeIdentities{users: map[string]models.Identity{}}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeIdentities) FindByEmail(_ context.Context, email string) (models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return models.Identity{}, f.lookupErr
	}
	u, ok := f.users[email]
	if !ok {
		return models.Identity{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (f *fakeIdentities) ChangePassword(_ context.Context, identity models.Identity, credential, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.changeErr != nil {
		return f.changeErr
	}
	f.changes = append(f.changes, passwordChange{UserID: identity.ID, Credential: credential, Password: password})
	return nil
}

func (f *fakeIdentities) changeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.changes)
}

type sentMessage struct {
	To, Subject, Body string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (s *recordingSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMessage{To: to, Subject: subject, Body: body})
	return nil
}

type fakeGames struct {
	games []models.Game
	err   error
}

func (f fakeGames) List(context.Context) ([]models.Game, error) { return f.games, f.err }

func (f fakeGames) GetByID(_ context.Context, id int64) (models.Game, error) {
	if f.err != nil {
		return models.Game{}, f.err
	}
	for _, g := range f.games {
		if g.ID == id {
			return g, nil
		}
	}
	return models.Game{}, domain.NotFoundError{Resource: "game"}
}

type fakePurchases struct {
	purchases []models.Purchase
	err       error
}

func (f fakePurchases) List(context.Context) ([]models.Purchase, error) { return f.purchases, f.err }

func (f fakePurchases) GetByID(_ context.Context, id int64) (models.Purchase, error) {
	if f.err != nil {
		return models.Purchase{}, f.err
	}
	for _, p := range f.purchases {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Purchase{}, domain.NotFoundError{Resource: "purchase"}
}

var errStoreDown = errors.New("store down")
