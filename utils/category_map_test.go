package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCategoryToName(t *testing.T) {
	assert.Equal(t, "Industrial Pumps", MapCategoryToName("pumps"))
	assert.Equal(t, "Industrial Pumps", MapCategoryToName("  PUMPS "))
	assert.Equal(t, "Valves & Fittings", MapCategoryToName("valves"))

	// Unknown codes degrade to a readable title-cased name
	assert.Equal(t, "Cnc Machines", MapCategoryToName("cnc-machines"))
}

func TestMapSubcategoryToName(t *testing.T) {
	assert.Equal(t, "Ball Valves", MapSubcategoryToName("ball-valve"))
	assert.Equal(t, "Three Phase", MapSubcategoryToName("Three-Phase"))
	assert.Equal(t, "Custom Spares", MapSubcategoryToName("custom-spares"))
}

func TestCapitalizeWords(t *testing.T) {
	assert.Equal(t, "Gear Pump", CapitalizeWords("gear pump"))
	assert.Equal(t, "Gear Pump", CapitalizeWords("GEAR PUMP"))
	assert.Equal(t, "", CapitalizeWords(""))
}
