package core_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"

	"dairyfarm/internal/core"
)

var tagPattern = regexp.MustCompile(`^CTL\d{4}\d{4}$`)

func strPtr(s string) *string { return &s }

func decPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func TestCattleService_CreateGeneratesTag(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	owner := registerTestUser(t, pool, "owner@example.com")
	cattle := core.NewCattleService(pool)

	animal, err := cattle.Create(ctx, owner.ID, core.CattleInput{
		Name:           strPtr("Daisy"),
		Breed:          "Holstein",
		Gender:         "female",
		MilkProduction: decPtr(28.5),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !tagPattern.MatchString(animal.TagNumber) {
		t.Errorf("tag %q does not match CTLyymmNNNN", animal.TagNumber)
	}
	if animal.HealthStatus != "healthy" {
		t.Errorf("HealthStatus = %q, want default healthy", animal.HealthStatus)
	}

	var validationErr *core.ValidationError
	if _, err := cattle.Create(ctx, owner.ID, core.CattleInput{Gender: "female"}); !errors.As(err, &validationErr) {
		t.Fatalf("missing breed err = %v, want ValidationError", err)
	}
}

func TestCattleService_ListIsFarmWide(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	alice := registerTestUser(t, pool, "alice@example.com")
	bob := registerTestUser(t, pool, "bob@example.com")
	cattle := core.NewCattleService(pool)

	for _, owner := range []*core.User{alice, bob} {
		if _, err := cattle.Create(ctx, owner.ID, core.CattleInput{Breed: "Jersey", Gender: "female"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	// Herd metrics are farm-wide: every caller sees all animals.
	herd, err := cattle.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(herd) != 2 {
		t.Errorf("herd size = %d, want 2", len(herd))
	}
}

func TestCattleService_MutationsOwnerOrAdmin(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	owner := registerTestUser(t, pool, "owner@example.com")
	other := registerTestUser(t, pool, "other@example.com")
	cattle := core.NewCattleService(pool)

	animal, err := cattle.Create(ctx, owner.ID, core.CattleInput{Breed: "Guernsey", Gender: "female"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var notFoundErr *core.NotFoundError
	_, err = cattle.Update(ctx, animal.ID, other.ID, core.RoleUser, core.CattleInput{HealthStatus: "sick"})
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("foreign update err = %v, want NotFoundError", err)
	}

	updated, err := cattle.Update(ctx, animal.ID, owner.ID, core.RoleUser, core.CattleInput{
		HealthStatus:   "sick",
		MilkProduction: decPtr(10),
	})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.HealthStatus != "sick" {
		t.Errorf("HealthStatus = %q, want sick", updated.HealthStatus)
	}
	if updated.Breed != "Guernsey" {
		t.Errorf("Breed = %q, want unchanged Guernsey", updated.Breed)
	}

	if err := cattle.Delete(ctx, animal.ID, other.ID, core.RoleUser); !errors.As(err, &notFoundErr) {
		t.Fatalf("foreign delete err = %v, want NotFoundError", err)
	}
	if err := cattle.Delete(ctx, animal.ID, other.ID, core.RoleAdmin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
