package grimoire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hangeulsoft/koreanparty/internal/grimoire"
)

func TestXPForMasteryLevel(t *testing.T) {
	assert.Equal(t, 1, grimoire.XPForMasteryLevel(1))
	assert.Equal(t, 5, grimoire.XPForMasteryLevel(2))
	assert.Equal(t, 20, grimoire.XPForMasteryLevel(3))
	assert.Equal(t, 50, grimoire.XPForMasteryLevel(4))
	assert.Equal(t, 0, grimoire.XPForMasteryLevel(0), "out-of-range levels contribute nothing")
	assert.Equal(t, 0, grimoire.XPForMasteryLevel(7))
	assert.Equal(t, 0, grimoire.XPForMasteryLevel(-1))
}

func TestTotalExperience(t *testing.T) {
	assert.Equal(t, 0, grimoire.TotalExperience(nil))
	assert.Equal(t, 76, grimoire.TotalExperience([]int{1, 2, 3, 4}))
	assert.Equal(t, 55, grimoire.TotalExperience([]int{4, 2, 9}), "invalid levels skipped")
}

func TestTotalExperience_Idempotent(t *testing.T) {
	levels := []int{1, 1, 2, 3, 4, 4}
	first := grimoire.TotalExperience(levels)
	second := grimoire.TotalExperience(levels)
	assert.Equal(t, first, second)
}

func TestWizardLevel(t *testing.T) {
	assert.Equal(t, 1, grimoire.WizardLevel(0))
	assert.Equal(t, 1, grimoire.WizardLevel(99))
	assert.Equal(t, 2, grimoire.WizardLevel(100))
	assert.Equal(t, 2, grimoire.WizardLevel(150))
	assert.Equal(t, 3, grimoire.WizardLevel(200))
	assert.Equal(t, 1, grimoire.WizardLevel(-5))
}

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 0, grimoire.XPForLevel(0))
	assert.Equal(t, 100, grimoire.XPForLevel(1))
	assert.Equal(t, 282, grimoire.XPForLevel(2))
	assert.Equal(t, 519, grimoire.XPForLevel(3))
}
