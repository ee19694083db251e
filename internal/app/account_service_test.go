package app_test

import (
	"context"
	"errors"
	"testing"

	"nursing-album-service/internal/domain"
)

func TestRegisterOpensSession(t *testing.T) {
	f := newFixture(t, fixedRandom{})
	ctx := context.Background()

	session, user, err := f.accounts.Register(ctx, domain.Registration{Name: "Ana", Email: "Ana@Example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.Token == "" || session.Email != anaEmail {
		t.Fatalf("unexpected session %+v", session)
	}
	if user.Password != "" || user.Coins != domain.StartingCoins || user.Level != domain.StartingLevel {
		t.Fatalf("unexpected profile %+v", user)
	}

	resolved, err := f.accounts.Resolve(ctx, session.Token)
	if err != nil || resolved.Email != anaEmail {
		t.Fatalf("expected session to resolve, got %+v %v", resolved, err)
	}

	lb := f.hub.Snapshot()
	if len(lb.Entries) != 2 {
		t.Fatalf("expected leaderboard refreshed on register, got %+v", lb.Entries)
	}
}

func TestRegisterRejectsDuplicateAndInvalid(t *testing.T) {
	f := newFixture(t, fixedRandom{})
	ctx := context.Background()
	f.register(t, "Ana", anaEmail)

	_, _, err := f.accounts.Register(ctx, domain.Registration{Name: "Outra", Email: "ANA@example.com", Password: "x"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	cases := []domain.Registration{
		{Name: "", Email: "bia@example.com", Password: "pw"},
		{Name: "Bia", Email: "not-an-email", Password: "pw"},
		{Name: "Bia", Email: "bia@example.com", Password: ""},
	}
	for _, reg := range cases {
		if _, _, err := f.accounts.Register(ctx, reg); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", reg, err)
		}
	}
}

func TestLoginLogout(t *testing.T) {
	f := newFixture(t, fixedRandom{})
	ctx := context.Background()
	f.register(t, "Ana", anaEmail)

	if _, _, err := f.accounts.Login(ctx, anaEmail, "wrong"); !errors.Is(err, domain.ErrAuthFailure) {
		t.Fatalf("expected auth failure, got %v", err)
	}
	session, user, err := f.accounts.Login(ctx, "ANA@EXAMPLE.COM", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Name != "Ana" {
		t.Fatalf("unexpected user %+v", user)
	}

	me, err := f.accounts.Me(ctx, session)
	if err != nil || me.Email != anaEmail || me.Password != "" {
		t.Fatalf("unexpected me %+v %v", me, err)
	}

	if err := f.accounts.Logout(ctx, session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.accounts.Resolve(ctx, session.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
	if _, err := f.accounts.Resolve(ctx, ""); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected empty token rejected, got %v", err)
	}
}
