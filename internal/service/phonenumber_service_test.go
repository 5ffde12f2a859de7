package service

import (
	"context"
	"net/http"
	"testing"
)

func TestPhoneNumberService(t *testing.T) {
	f := newAuthFixture(t, testAuthConfig())
	ctx := context.Background()
	numbers := NewPhoneNumberService(f.numbers)

	owner, err := f.service.RegisterUser(ctx, "owner@example.com", "pw")
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	other, err := f.service.RegisterUser(ctx, "other@example.com", "pw")
	if err != nil {
		t.Fatalf("register other: %v", err)
	}

	created, err := numbers.Create(ctx, owner.ID, "  +14155552671 ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Number != "+14155552671" || created.UserID != owner.ID || created.ID == "" {
		t.Fatalf("unexpected number %+v", created)
	}

	_, err = numbers.Create(ctx, other.ID, "+14155552671")
	requireDomainError(t, err, http.StatusBadRequest, "number already registered")

	_, err = numbers.Create(ctx, owner.ID, "   ")
	requireDomainError(t, err, http.StatusBadRequest, "number required")

	list, err := numbers.List(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	list, err = numbers.List(ctx, other.ID)
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no numbers for other user, got %+v", list)
	}
}

func TestPhoneNumberServiceNormalizesToE164(t *testing.T) {
	f := newAuthFixture(t, testAuthConfig())
	ctx := context.Background()
	numbers := NewPhoneNumberService(f.numbers)

	owner, err := f.service.RegisterUser(ctx, "owner@example.com", "pw")
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}

	created, err := numbers.Create(ctx, owner.ID, "+1 415 555 2671")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Number != "+14155552671" {
		t.Fatalf("stored %q, want E.164 form", created.Number)
	}

	// The same number written differently is still a duplicate.
	for _, variant := range []string{"+14155552671", "+1 (415) 555-2671", "+1-415-555-2671"} {
		_, err := numbers.Create(ctx, owner.ID, variant)
		requireDomainError(t, err, http.StatusBadRequest, "number already registered")
	}

	uk, err := numbers.Create(ctx, owner.ID, "+44 121 234 5678")
	if err != nil {
		t.Fatalf("create uk: %v", err)
	}
	if uk.Number != "+441212345678" {
		t.Fatalf("stored %q, want E.164 form", uk.Number)
	}

	list, err := numbers.List(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected two stored numbers, got %+v", list)
	}
}

func TestPhoneNumberServiceRejectsInvalidNumbers(t *testing.T) {
	f := newAuthFixture(t, testAuthConfig())
	ctx := context.Background()
	numbers := NewPhoneNumberService(f.numbers)

	owner, err := f.service.RegisterUser(ctx, "owner@example.com", "pw")
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}

	for _, input := range []string{"hello", "4155552671", "+1", "+15551234", "+999999999999999999"} {
		_, err := numbers.Create(ctx, owner.ID, input)
		requireDomainError(t, err, http.StatusBadRequest, "invalid phone number")
	}

	list, err := numbers.List(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("invalid numbers were stored: %+v", list)
	}
}
