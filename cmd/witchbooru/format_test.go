package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/witchbooru/witchbooru/tagger"
)

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "long_hair", encodeURIComponent("long_hair"))
	assert.Equal(t, "hatsune_miku_(cosplay)", encodeURIComponent("hatsune_miku_(cosplay)"))
	assert.Equal(t, "%3E_%3C", encodeURIComponent(">_<"))
	assert.Equal(t, "a%20b%2Fc%3F", encodeURIComponent("a b/c?"))
	assert.Equal(t, "%C3%A9", encodeURIComponent("é"))
}

func TestFormatPrediction(t *testing.T) {
	p := &tagger.Prediction{
		General: []tagger.Tag{
			{Name: "1girl", Score: 0.9},
			{Name: "long hair", Score: 0.55},
		},
		Character: []tagger.Tag{{Name: "hatsune_miku", Score: 0.25}},
	}
	out := formatPrediction(p)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	assert.True(t, strings.HasPrefix(lines[0], " General tag"))
	assert.Contains(t, lines[0], "Character")
	assert.Equal(t, strings.Repeat("─", 11+scoreWidth+3)+" "+strings.Repeat("─", 12+scoreWidth+3), lines[1])

	assert.Contains(t, lines[2], wikiURL+"1girl")
	assert.Contains(t, lines[2], strings.Repeat("▄", 7)+" ")
	assert.Contains(t, lines[2], "0.900")
	assert.Contains(t, lines[2], wikiURL+"hatsune_miku")
	assert.Contains(t, lines[2], "0.250")

	assert.Contains(t, lines[3], wikiURL+"long%20hair")
	assert.Contains(t, lines[3], "0.550")
	assert.NotContains(t, lines[3], "hatsune")
}

func TestFormatPredictionEmpty(t *testing.T) {
	out := formatPrediction(&tagger.Prediction{})
	assert.Len(t, strings.Split(out, "\n"), 2)
}
