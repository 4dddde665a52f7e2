package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrenchDate(t *testing.T) {
	day := time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jeudi 05 Février 2026", FrenchDate(day))

	day = time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Dimanche 31 Août 2025", FrenchDate(day))
}
