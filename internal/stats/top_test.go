package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/keytutor/internal/model"
)

func TestTopLetters(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "b", Correct: 3, Incorrect: 1},
		{Char: "a", Correct: 2, Incorrect: 0},
		{Char: "A", Correct: 1, Incorrect: 1},
		{Char: " ", Correct: 40},
		{Char: ".", Correct: 9},
		{Char: "c", Correct: 1},
	}
	assert.Equal(t, []string{"a", "b"}, TopLetters(aggs, 2))
	assert.Equal(t, []string{"a", "b", "c"}, TopLetters(aggs, 10))
	assert.Nil(t, TopLetters(aggs, 0))
	assert.Empty(t, TopLetters(nil, 3))
}

func TestTopLettersFoldsCyrillic(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "Ж", Correct: 2},
		{Char: "ж", Correct: 2},
		{Char: "а", Correct: 3},
	}
	assert.Equal(t, []string{"ж", "а"}, TopLetters(aggs, 2))
}
