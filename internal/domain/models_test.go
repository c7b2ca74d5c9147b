package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPlanUnmarshalAcceptsLine1(t *testing.T) {
	var plans []MonthlyPlan
	payload := `[
		{"itemCode": "A1", "item1": "Shirt", "line1": "313", "plans": {"202506": 2000}},
		{"itemCode": "B2", "area": "121"}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &plans))
	require.Len(t, plans, 2)

	assert.Equal(t, "313", plans[0].Area)
	assert.Equal(t, "313-A1", plans[0].Key())
	assert.Equal(t, 2000.0, plans[0].Plans["202506"])

	assert.Equal(t, "121", plans[1].Area)
	assert.NotNil(t, plans[1].Plans)
}

func TestRawRecordDateKey(t *testing.T) {
	assert.Equal(t, "20250601", RawRecord{Date: " 20250601 ", Week: "20250530"}.DateKey())
	assert.Equal(t, "20250530", RawRecord{Week: "20250530"}.DateKey())
}

func TestWorkDays(t *testing.T) {
	wd := WorkDays{"202506": 20, "202507": 0}
	assert.Equal(t, 20, wd.Divisor("202506"))
	assert.Equal(t, 1, wd.Divisor("202507"))
	assert.Equal(t, 1, wd.Divisor("202508"))
	assert.True(t, wd.Has("202507"))
	assert.False(t, wd.Has("202508"))
	assert.Equal(t, 20, wd.Total())

	defaults := DefaultWorkDays()
	defaults["202506"] = 1
	assert.Equal(t, 21, DefaultWorkDays()["202506"])
	assert.Equal(t, 263, DefaultWorkDays().Total())
}

func TestAreaCatalog(t *testing.T) {
	catalog := NewAreaCatalog(nil)
	assert.Equal(t, []string{"111", "121", "161", "312", "313", "315"}, catalog.Codes())

	a, ok := catalog.ByName("sewing")
	require.True(t, ok)
	assert.Equal(t, "313", a.Code)
	assert.Equal(t, UnitManDay, a.Unit)

	a, ok = catalog.ByCode("121")
	require.True(t, ok)
	assert.Equal(t, UnitKilogram, a.Unit)

	_, ok = catalog.ByCode("999")
	assert.False(t, ok)

	custom := NewAreaCatalog([]Area{{Code: "900", Name: "Dyeing", Unit: UnitKilogram}})
	assert.Equal(t, []string{"900"}, custom.Codes())
}

func TestParseAggregationMode(t *testing.T) {
	mode, ok := ParseAggregationMode("plan")
	assert.True(t, ok)
	assert.Equal(t, ModePlan, mode)

	_, ok = ParseAggregationMode("weekly")
	assert.False(t, ok)
}
