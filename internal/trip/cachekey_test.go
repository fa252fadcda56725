package trip_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wanderplan/wanderplan/internal/trip"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := trip.DeriveKey("Mumbai", "Paris", 5, "50000", 2, "Leisure")
	k2 := trip.DeriveKey("Mumbai", "Paris", 5, "50000", 2, "Leisure")
	assert.Equal(t, k1, k2)
}

func TestDeriveKey_CaseAndWhitespaceInsensitive(t *testing.T) {
	base := trip.DeriveKey("Mumbai", "Paris", 5, "50000", 2, "Leisure")

	assert.Equal(t, base, trip.DeriveKey("  mumbai ", "PARIS", 5, "50000", 2, "leisure"))
	assert.Equal(t, base, trip.DeriveKey("MUMBAI", " paris\t", 5, " 50000 ", 2, " Leisure"))
}

func TestDeriveKey_SensitiveToEachField(t *testing.T) {
	base := trip.DeriveKey("Mumbai", "Paris", 5, "50000", 2, "Leisure")

	assert.NotEqual(t, base, trip.DeriveKey("Delhi", "Paris", 5, "50000", 2, "Leisure"), "origin")
	assert.NotEqual(t, base, trip.DeriveKey("Mumbai", "Rome", 5, "50000", 2, "Leisure"), "destination")
	assert.NotEqual(t, base, trip.DeriveKey("Mumbai", "Paris", 6, "50000", 2, "Leisure"), "days")
	assert.NotEqual(t, base, trip.DeriveKey("Mumbai", "Paris", 5, "60000", 2, "Leisure"), "budget")
	assert.NotEqual(t, base, trip.DeriveKey("Mumbai", "Paris", 5, "50000", 3, "Leisure"), "travelers")
	assert.NotEqual(t, base, trip.DeriveKey("Mumbai", "Paris", 5, "50000", 2, "Adventure"), "travel style")
}

func TestDeriveKey_EmptyStyleDefaultsToLeisure(t *testing.T) {
	assert.Equal(t,
		trip.DeriveKey("Mumbai", "Paris", 5, "50000", 2, ""),
		trip.DeriveKey("Mumbai", "Paris", 5, "50000", 2, "Leisure"))
}

func TestDeriveKey_FixedLength(t *testing.T) {
	k := trip.DeriveKey("Mumbai", "Paris", 5, "50000", 2, "Leisure")
	assert.Len(t, k, 64)
	assert.Regexp(t, "^[0-9a-f]+$", k)
}
