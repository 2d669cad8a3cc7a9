package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const listingUrl = "https://ost.51cto.com/postlist"

func TestParseListingCandidates(t *testing.T) {
	content := `<html><body><ul class="infinite-list">
		<li><a href="https://ost.51cto.com/posts/33501"><h3 class="title-h3">First title</h3></a></li>
		<li><a href="/posts/33502">Relative link title
some subtitle</a></li>
		<li><a href="https://ost.51cto.com/posts/draft"></a></li>
		<li><span>no link in this row</span></li>
	</ul></body></html>`

	candidates, err := parseListing(content, listingUrl, NewDummyLogger())
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	require.Equal(t, "https://ost.51cto.com/posts/33501", candidates[0].Url)
	require.Equal(t, "First title", candidates[0].Title)
	require.NotNil(t, candidates[0].MaybeId)
	require.Equal(t, int64(33501), *candidates[0].MaybeId)

	require.Equal(t, "https://ost.51cto.com/posts/33502", candidates[1].Url)
	require.Equal(t, "Relative link title", candidates[1].Title)
	require.NotNil(t, candidates[1].MaybeId)
	require.Equal(t, int64(33502), *candidates[1].MaybeId)

	require.Equal(t, untitledPlaceholder, candidates[2].Title)
	require.Nil(t, candidates[2].MaybeId)
}

func TestPartitionCandidates(t *testing.T) {
	id := func(value int64) *int64 { return &value }
	candidates := []Candidate{
		{Url: "u1", Title: "old", MaybeId: id(33400)},
		{Url: "u2", Title: "at floor", MaybeId: id(33500)},
		{Url: "u3", Title: "new", MaybeId: id(33501)},
		{Url: "u4", Title: "unparsable", MaybeId: nil},
	}

	partition := partitionCandidates(candidates, 33500, NewDummyLogger())
	require.Equal(t, 2, partition.OldCount)
	require.Len(t, partition.Eligible, 2)
	require.Equal(t, "u3", partition.Eligible[0].Url)
	require.Equal(t, "u4", partition.Eligible[1].Url)
	require.False(t, partition.AllOld)
}

func TestPartitionAllOld(t *testing.T) {
	id := func(value int64) *int64 { return &value }
	candidates := []Candidate{
		{Url: "u1", Title: "old", MaybeId: id(100)},
		{Url: "u2", Title: "older", MaybeId: id(99)},
	}

	partition := partitionCandidates(candidates, 33500, NewDummyLogger())
	require.True(t, partition.AllOld)
	require.Empty(t, partition.Eligible)
}

func TestPartitionEmptyPageIsNotAllOld(t *testing.T) {
	partition := partitionCandidates(nil, 33500, NewDummyLogger())
	require.False(t, partition.AllOld)
	require.Empty(t, partition.Eligible)
	require.Equal(t, 0, partition.OldCount)
}
