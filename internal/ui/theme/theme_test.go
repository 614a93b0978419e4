package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestShadeClampsFactor(t *testing.T) {
	c := rl.NewColor(200, 100, 50, 255)
	assert.Equal(t, rl.NewColor(100, 50, 25, 255), Shade(c, 0.5))
	assert.Equal(t, c, Shade(c, 2))
	assert.Equal(t, rl.NewColor(0, 0, 0, 255), Shade(c, -1))
}

func TestBuildingColorFallback(t *testing.T) {
	assert.Equal(t, BuildingColors["EnergyFactory"], BuildingColor("EnergyFactory"))
	assert.Equal(t, BuildingDefault, BuildingColor("Windmill"))
}

func TestMixEndpoints(t *testing.T) {
	a := rl.NewColor(0, 0, 0, 0)
	b := rl.NewColor(200, 100, 50, 250)
	assert.Equal(t, a, mix(a, b, -1))
	assert.Equal(t, b, mix(a, b, 1))
	assert.Equal(t, rl.NewColor(100, 50, 25, 125), mix(a, b, 0.5))
}
