package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlag(t *testing.T) {
	cases := map[string]bool{
		"true":   true,
		"TRUE":   true,
		" True ": true,
		"":       false,
		"false":  false,
		"1":      false,
		"t":      false,
		"on":     false,
		"yes":    false,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseFlag(raw), "raw %q", raw)
	}
}

func TestNoticeListQueryToFilter(t *testing.T) {
	filter := NoticeListQuery{Category: " tender ", Priority: "on", Search: "  ", Archived: "1"}.ToFilter()

	require.NotNil(t, filter.Category)
	assert.Equal(t, "tender", *filter.Category)
	require.NotNil(t, filter.Priority)
	assert.False(t, *filter.Priority)
	assert.Nil(t, filter.Search)
	assert.False(t, filter.Archived)

	filter = NoticeListQuery{Archived: "true"}.ToFilter()
	assert.Nil(t, filter.Priority)
	assert.True(t, filter.Archived)
}

func TestUpdateNoticeRequestNormalizeKeepsAbsentFields(t *testing.T) {
	link := "  "
	req := UpdateNoticeRequest{Link: &link}
	req.Normalize()

	require.NotNil(t, req.Link)
	assert.Equal(t, "", *req.Link)
	assert.Nil(t, req.Title)
}
