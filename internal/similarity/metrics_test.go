package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"Action", "Drama"}, []string{"Action", "Drama"}, 1.0},
		{"partial overlap", []string{"Action", "Sci-Fi"}, []string{"Action", "Drama"}, 1.0 / 3.0},
		{"disjoint", []string{"Comedy"}, []string{"Horror"}, 0},
		{"case and whitespace insensitive", []string{" action ", "DRAMA"}, []string{"Action", "drama"}, 1.0},
		{"duplicates collapse", []string{"Action", "action"}, []string{"Action"}, 1.0},
		{"both empty", nil, nil, 0},
		{"left empty", []string{}, []string{"Action"}, 0},
		{"right empty", []string{"Action"}, []string{}, 0},
		{"blank entries ignored", []string{"  "}, []string{"Action"}, 0},
		{"no fuzzy matching", []string{"Sci-Fi"}, []string{"Science Fiction"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SetSimilarity(tt.a, tt.b), 1e-12)
		})
	}
}

func TestSetSimilarity_Symmetric(t *testing.T) {
	sets := [][]string{
		nil,
		{"Action"},
		{"Action", "Drama", "Thriller"},
		{"drama", "Romance"},
		{"Tom Hanks", "Meg Ryan", "Bill Pullman"},
	}
	for _, a := range sets {
		for _, b := range sets {
			assert.Equal(t, SetSimilarity(a, b), SetSimilarity(b, a), "a=%v b=%v", a, b)
		}
	}
}

func TestSetSimilarity_SelfIsOne(t *testing.T) {
	for _, s := range [][]string{{"A"}, {"A", "B", "C"}, {"Keanu Reeves", "Carrie-Anne Moss"}} {
		assert.Equal(t, 1.0, SetSimilarity(s, s))
	}
}

func TestCategoricalEquality(t *testing.T) {
	assert.Equal(t, 1.0, CategoricalEquality("Christopher Nolan", "christopher nolan"))
	assert.Equal(t, 1.0, CategoricalEquality("  Jane Doe", "Jane Doe  "))
	assert.Equal(t, 0.0, CategoricalEquality("Jane Doe", "John Doe"))
	assert.Equal(t, CategoricalEquality("a", "b"), CategoricalEquality("b", "a"))
}

func TestYearProximity(t *testing.T) {
	const y = 1999

	assert.Equal(t, 1.0, YearProximity(y, y))
	assert.Equal(t, 1.0, YearProximity(y, y+5))
	assert.Equal(t, 1.0, YearProximity(y, y-5))
	assert.Less(t, YearProximity(y, y+6), 1.0)
	assert.InDelta(t, 0.88, YearProximity(y, y+6), 1e-12)
	assert.InDelta(t, 0.5, YearProximity(y, y+25), 1e-12)
	assert.Equal(t, 0.0, YearProximity(y, y+50))
	assert.Equal(t, 0.0, YearProximity(y, y+80))
	assert.Equal(t, YearProximity(1980, 2012), YearProximity(2012, 1980))
}

func TestYearProximity_UnknownYear(t *testing.T) {
	// 0 marks an unknown year; it sits far from any real release date.
	assert.Equal(t, 0.0, YearProximity(0, 2010))
}
