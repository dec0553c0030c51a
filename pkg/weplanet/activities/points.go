package activities

import (
	"math"

	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// BasePoints is awarded for any activity before the CO2 bonus
const BasePoints = 10

// Multipliers weights the points of each category
var Multipliers = map[models.ActivityCategory]float64{
	models.CategoryRecycle:        1.0,
	models.CategoryEnergySaving:   1.2,
	models.CategoryWaterSaving:    1.1,
	models.CategoryTransportation: 1.5,
	models.CategoryWasteReduction: 1.3,
	models.CategoryGreenPurchase:  1.4,
	models.CategoryOther:          1.0,
}

// CalculatePoints scores an activity: ten points plus ten per kg of CO2 saved,
// scaled by the category multiplier. Every activity is worth at least one point.
func CalculatePoints(category models.ActivityCategory, co2Reduction float64) int {
	multiplier, ok := Multipliers[category]
	if !ok {
		multiplier = 1.0
	}
	if co2Reduction < 0 {
		co2Reduction = 0
	}
	raw := float64(BasePoints+int(math.Floor(co2Reduction*10))) * multiplier
	points := int(math.Floor(raw + 1e-9))
	if points < 1 {
		return 1
	}
	return points
}
