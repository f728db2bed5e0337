package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffPair(t *testing.T) {
	base := time.Now().UTC()
	earlier := recordWithScore(t, base, "img-alt", "html-lang", "landmarks")
	later := recordWithScore(t, base.Add(time.Hour), "landmarks", "form-labels")

	diff := DiffPair(earlier, later)

	assert.Equal(t, earlier.ID, diff.EarlierID)
	assert.Equal(t, later.ID, diff.LaterID)
	assert.Equal(t, []string{"html-lang", "img-alt"}, diff.Fixed)
	assert.Equal(t, []string{"form-labels"}, diff.Introduced)
}

func TestDiffPairIgnoresCountChanges(t *testing.T) {
	base := time.Now().UTC()
	earlier := recordWithScore(t, base, "img-alt")
	later := recordWithScore(t, base.Add(time.Hour), "img-alt")
	later.Issues[0].Count = 9

	diff := DiffPair(earlier, later)
	assert.Empty(t, diff.Fixed)
	assert.Empty(t, diff.Introduced)
}

func TestDiffPairNoChanges(t *testing.T) {
	base := time.Now().UTC()
	diff := DiffPair(recordWithScore(t, base), recordWithScore(t, base.Add(time.Hour)))

	assert.NotNil(t, diff.Fixed)
	assert.NotNil(t, diff.Introduced)
	assert.Empty(t, diff.Fixed)
	assert.Empty(t, diff.Introduced)
}

func TestDiffHistory(t *testing.T) {
	base := time.Now().UTC()
	history := []*Record{
		recordWithScore(t, base, "img-alt", "html-lang"),
		recordWithScore(t, base.Add(time.Hour), "img-alt"),
		recordWithScore(t, base.Add(2*time.Hour), "img-alt", "link-name"),
	}

	diffs := DiffHistory(history)
	require.Len(t, diffs, 2)
	assert.Equal(t, []string{"html-lang"}, diffs[0].Fixed)
	assert.Empty(t, diffs[0].Introduced)
	assert.Empty(t, diffs[1].Fixed)
	assert.Equal(t, []string{"link-name"}, diffs[1].Introduced)
}

func TestDiffHistoryShort(t *testing.T) {
	assert.Empty(t, DiffHistory(nil))
	assert.Empty(t, DiffHistory([]*Record{recordWithScore(t, time.Now())}))
}
