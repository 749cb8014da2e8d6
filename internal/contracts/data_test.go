package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearlyAccountMap_CurrentView(t *testing.T) {
	m := YearlyAccountMap{
		"매출액":   {Current: 1000, Prior: 800, PriorPrior: 600},
		"당기순이익": {Current: 100, Prior: 80, PriorPrior: -50},
	}

	view := m.CurrentView()

	assert.Len(t, view, 2)
	assert.Equal(t, 1000.0, view["매출액"])
	assert.Equal(t, 100.0, view["당기순이익"])
}

func TestShiftYear(t *testing.T) {
	tests := []struct {
		year   string
		delta  int
		want   string
		wantOK bool
	}{
		{"2023", -1, "2022", true},
		{"2023", -2, "2021", true},
		{"2000", 1, "2001", true},
		{"FY23", -1, "", false},
		{"", -1, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			got, ok := ShiftYear(tt.year, tt.delta)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEmptyMetricsResponse_JSON(t *testing.T) {
	resp := NewEmptyMetricsResponse("샘플전자")
	assert.True(t, resp.IsEmpty())

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	// 빈 배열은 null이 아니라 []로 직렬화되어야 함
	var decoded map[string]map[string]json.RawMessage
	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	assert.JSONEq(t, `"샘플전자"`, string(top["companyName"]))

	delete(top, "companyName")
	raw, _ := json.Marshal(top)
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for group, fields := range decoded {
		for name, value := range fields {
			assert.Equal(t, "[]", string(value), "%s.%s", group, name)
		}
	}
}
