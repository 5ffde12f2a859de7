package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/phonebook-service/internal/domain"
)

type repositories struct {
	users   UserRepository
	numbers PhoneNumberRepository
}

// missingID is a well formed identifier that matches no row.
const missingID = "7a0c3b4e-9f1d-4c2a-8b6e-5d4f3a2b1c0e"

func runRepositoryContract(t *testing.T, newRepos func(t *testing.T) repositories) {
	t.Run("create and find user", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		user := &domain.User{Email: "a@example.com", PasswordHash: "hash"}
		if err := repos.users.Create(ctx, user); err != nil {
			t.Fatalf("create: %v", err)
		}
		if user.ID == "" || user.CreatedAt.IsZero() {
			t.Fatalf("expected generated id and timestamps, got %+v", user)
		}

		byEmail, err := repos.users.GetByEmail(ctx, "a@example.com")
		if err != nil {
			t.Fatalf("get by email: %v", err)
		}
		bySubject, err := repos.users.FindBySubject(ctx, user.ID)
		if err != nil {
			t.Fatalf("find by subject: %v", err)
		}
		if byEmail.ID != user.ID || bySubject.Email != "a@example.com" || bySubject.PasswordHash != "hash" {
			t.Fatalf("lookups disagree: %+v / %+v", byEmail, bySubject)
		}
		if !bySubject.CreatedAt.Equal(user.CreatedAt) {
			t.Fatalf("created at = %v, want %v", bySubject.CreatedAt, user.CreatedAt)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		if err := repos.users.Create(ctx, &domain.User{Email: "dup@example.com", PasswordHash: "x"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		err := repos.users.Create(ctx, &domain.User{Email: "dup@example.com", PasswordHash: "y"})
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		for _, id := range []string{missingID, "not-a-uuid"} {
			if _, err := repos.users.FindBySubject(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Fatalf("find %q: expected ErrNotFound, got %v", id, err)
			}
		}
		if _, err := repos.users.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if err := repos.users.Delete(ctx, missingID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("delete: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("phone numbers follow their owner", func(t *testing.T) {
		repos := newRepos(t)
		ctx := context.Background()

		owner := &domain.User{Email: "owner@example.com", PasswordHash: "x"}
		other := &domain.User{Email: "other@example.com", PasswordHash: "x"}
		for _, u := range []*domain.User{owner, other} {
			if err := repos.users.Create(ctx, u); err != nil {
				t.Fatalf("create user: %v", err)
			}
		}

		for _, n := range []string{"+15550001", "+15550002"} {
			if err := repos.numbers.Create(ctx, &domain.PhoneNumber{Number: n, UserID: owner.ID}); err != nil {
				t.Fatalf("create number: %v", err)
			}
		}
		if err := repos.numbers.Create(ctx, &domain.PhoneNumber{Number: "+15550003", UserID: other.ID}); err != nil {
			t.Fatalf("create number: %v", err)
		}
		err := repos.numbers.Create(ctx, &domain.PhoneNumber{Number: "+15550001", UserID: other.ID})
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}

		numbers, err := repos.numbers.ListByUser(ctx, owner.ID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(numbers) != 2 || numbers[0].Number != "+15550001" || numbers[1].Number != "+15550002" {
			t.Fatalf("unexpected numbers %+v", numbers)
		}

		if err := repos.users.Delete(ctx, owner.ID); err != nil {
			t.Fatalf("delete owner: %v", err)
		}
		numbers, err = repos.numbers.ListByUser(ctx, owner.ID)
		if err != nil {
			t.Fatalf("list after delete: %v", err)
		}
		if len(numbers) != 0 {
			t.Fatalf("expected numbers to be removed with their owner, got %+v", numbers)
		}
		if _, err := repos.users.FindBySubject(ctx, owner.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected deleted owner to be gone, got %v", err)
		}
	})
}
