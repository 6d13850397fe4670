package store_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/example/room-agenda/internal/store"
	"github.com/example/room-agenda/internal/testfixtures"
)

func TestStoreGetMissingKey(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewStoreHarness(t)

	var users []store.User
	err := harness.Store.Get(context.Background(), store.KeyUsers, &users)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorePutGetRoundTrip(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewStoreHarness(t)
	ctx := context.Background()

	want := []store.Booking{
		testfixtures.NewBooking(testfixtures.WithBookingID("b1"), testfixtures.WithOwner("u1"), testfixtures.WithSlot("2024-06-03", 10, 2)),
		testfixtures.NewBooking(testfixtures.WithBookingID("b2"), testfixtures.WithOwner("u2"), testfixtures.WithSlot("2024-06-05", 14, 1)),
	}
	if err := harness.Store.Put(ctx, store.KeyBookings, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []store.Booking
	if err := harness.Store.Get(ctx, store.KeyBookings, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestStorePutOverwritesDocument(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewStoreHarness(t)
	ctx := context.Background()

	if err := harness.Store.Put(ctx, store.KeySettings, store.AppSettings{AdminSecretCode: "first"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := harness.Store.Put(ctx, store.KeySettings, store.AppSettings{AdminSecretCode: "second"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var settings store.AppSettings
	if err := harness.Store.Get(ctx, store.KeySettings, &settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.AdminSecretCode != "second" {
		t.Fatalf("expected overwrite, got %q", settings.AdminSecretCode)
	}
}

func TestStorePutAllWritesEveryKey(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewStoreHarness(t)
	ctx := context.Background()

	users := []store.User{
		testfixtures.NewUser(testfixtures.WithUserID("u1"), testfixtures.WithEmail("a@b.com")),
		testfixtures.NewUser(testfixtures.WithRole("Administrador"), testfixtures.WithSector(""), testfixtures.WithPasswordHash("encoded")),
	}
	bookings := []store.Booking{{ID: "b1", UserID: "u1", Date: "2024-06-03", StartTime: 9, Duration: 1}}

	err := harness.Store.PutAll(ctx, []store.Entry{
		{Key: store.KeyUsers, Value: users},
		{Key: store.KeyBookings, Value: bookings},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var gotUsers []store.User
	if err := harness.Store.Get(ctx, store.KeyUsers, &gotUsers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var gotBookings []store.Booking
	if err := harness.Store.Get(ctx, store.KeyBookings, &gotBookings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(gotUsers, users) || !reflect.DeepEqual(gotBookings, bookings) {
		t.Fatalf("expected both documents to be written, got %+v / %+v", gotUsers, gotBookings)
	}
}

func TestStorePing(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewStoreHarness(t)
	if err := harness.Store.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
