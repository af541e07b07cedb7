package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

func threeRecords() []domain.Record {
	return []domain.Record{
		{Age: "19", Depression: "Yes", Anxiety: "No", PanicAttack: "No", Gender: "Male"},
		{Age: "19", Depression: "Yes", Anxiety: "Yes", PanicAttack: "No", Gender: "Female"},
		{Age: "22", Depression: "No", Anxiety: "No", PanicAttack: "No", Gender: "Male"},
	}
}

func TestBuildDefaultScenario(t *testing.T) {
	m := BuildDefault(threeRecords())
	require.Len(t, m.Names, 10)
	assert.Equal(t, []string{"18", "19", "20", "21", "22", "23", "24", "Depression", "Anxiety", "Panic attack"}, m.Names)

	assert.Equal(t, 2, m.Get("19", "Depression"))
	assert.Equal(t, 1, m.Get("19", "Anxiety"))
	assert.Equal(t, 0, m.Get("19", "Panic attack"))
	for _, col := range m.Names {
		assert.Equal(t, 0, m.Get("22", col))
	}
	assert.True(t, m.Symmetric())
}

func TestBuildIsSymmetric(t *testing.T) {
	records := []domain.Record{
		{Age: "18", Depression: "yes", Anxiety: "Yes", PanicAttack: "YES"},
		{Age: "24", PanicAttack: "Yes"},
		{Age: "25", Depression: "Yes"},
		{Age: "17", Depression: "Yes"},
		{Age: "abc", Depression: "Yes"},
		{Age: "", Anxiety: "Yes"},
	}
	m := BuildDefault(records)
	for i := range m.Cells {
		assert.Equal(t, 0, m.Cells[i][i])
		for j := range m.Cells {
			assert.Equal(t, m.Cells[i][j], m.Cells[j][i])
		}
	}

	total := 0
	for _, row := range m.Cells {
		for _, c := range row {
			total += c
		}
	}
	// 4 qualifying flags, each counted in a cell and its mirror
	assert.Equal(t, 8, total)
}

func TestBuildCustomNodeSet(t *testing.T) {
	m, err := Build(threeRecords(), []int{19}, []domain.Field{domain.FieldAnxiety})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {1, 0}}, m.Cells)
}

func TestBuildEmptyNodeSet(t *testing.T) {
	_, err := Build(threeRecords(), nil, DefaultConditions)
	assert.ErrorIs(t, err, domain.ErrEmptyNodeSet)

	_, err = Build(threeRecords(), AgeRange(18, 24), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyNodeSet)
}

func TestAgeRange(t *testing.T) {
	assert.Equal(t, []int{18, 19, 20}, AgeRange(18, 20))
	assert.Empty(t, AgeRange(5, 1))
}
