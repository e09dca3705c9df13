package nntp

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHead_HeaderFolding(t *testing.T) {
	resp, err := decodeChunks[HeadResponse](
		"221 42 <abc@example.org> head follows\r\n" +
			"Subject: Hello\r\n" +
			" World\r\n" +
			"From: joe@example.org\r\n" +
			"Received: one\r\n" +
			"Received: two\r\n" +
			"\tcontinued\r\n" +
			".\r\n")
	require.NoError(t, err)
	require.True(t, resp.OK())

	h := resp.Body
	assert.Equal(t, 42, h.Number)
	assert.Equal(t, "<abc@example.org>", h.ID)
	assert.Equal(t, "Hello World", h.Header.Get("Subject"))
	assert.Equal(t, "joe@example.org", h.Header.Get("from"))
	assert.Equal(t, []string{"one", "two continued"}, h.Header.Values("Received"))
	assert.Empty(t, h.Header.Get("Newsgroups"))
}

func TestHead_FoldWithoutKeyIgnored(t *testing.T) {
	resp, err := decodeChunks[HeadResponse]("221 1 <a@b>\r\n continuation\r\nSubject: x\r\n.\r\n")
	require.NoError(t, err)
	assert.Equal(t, Header{"Subject": {"x"}}, resp.Body.Header)
}

func TestHead_FoldAfterMalformedLine(t *testing.T) {
	resp, err := decodeChunks[HeadResponse](
		"221 1 <a@b>\r\nSubject: x\r\nnot a header\r\n continued\r\nFrom: y\r\n.\r\n")
	require.NoError(t, err)
	assert.Equal(t, Header{"Subject": {"x"}, "From": {"y"}}, resp.Body.Header)
}

func TestArticle_Body(t *testing.T) {
	resp, err := decodeChunks[ArticleResponse](
		"220 3 <m@x> article\r\n" +
			"Subject: Test\r\n" +
			"\r\n" +
			"line one\r\n" +
			"line two\r\n" +
			".\r\n")
	require.NoError(t, err)

	a := resp.Body
	assert.Equal(t, 3, a.Number)
	assert.Equal(t, "<m@x>", a.ID)
	assert.Equal(t, "Test", a.Header.Get("Subject"))
	assert.Equal(t, "line one\r\nline two", string(a.Body))
}

func TestArticle_NotFound(t *testing.T) {
	resp, err := decodeChunks[ArticleResponse]("430 no article with that message-id\r\n")
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Nil(t, resp.Body.Body)
}

func TestDate(t *testing.T) {
	resp, err := decodeChunks[DateResponse]("111 20240315123045\r\n")
	require.NoError(t, err)
	assert.Equal(t, "20240315123045", resp.Body.Text)
	assert.Equal(t, time.Date(2024, 3, 15, 12, 30, 45, 0, time.UTC), resp.Body.Time)

	_, err = decodeChunks[DateResponse]("111 yesterday\r\n")
	assert.True(t, errors.Is(err, ErrFieldDecode))
}

func TestAuthinfo(t *testing.T) {
	resp, err := decodeChunks[AuthinfoResponse]("381 password required\r\n")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "password required", resp.Body.Text)

	resp, err = decodeChunks[AuthinfoResponse]("481 rejected\r\n")
	require.NoError(t, err)
	assert.False(t, resp.OK())
}

func TestListActive(t *testing.T) {
	resp, err := decodeChunks[ListActiveResponse](
		"215 list follows\r\n" +
			"alt.test 0000000010 0000000001 y\r\n" +
			"comp.lang.go 200 100 m\r\n" +
			"misc.closed 5 1 n\r\n" +
			".\r\n")
	require.NoError(t, err)
	assert.Equal(t, []ActiveGroup{
		{Name: "alt.test", High: 10, Low: 1, Status: PostingPermitted},
		{Name: "comp.lang.go", High: 200, Low: 100, Status: Moderated},
		{Name: "misc.closed", High: 5, Low: 1, Status: PostingNotPermitted},
	}, resp.Body.Groups)
	assert.Equal(t, "moderated", resp.Body.Groups[1].Status.String())
}

func TestListActive_BadStatus(t *testing.T) {
	_, err := decodeChunks[ListActiveResponse]("215 list\r\nalt.test 1 1 x\r\n.\r\n")
	assert.True(t, errors.Is(err, ErrFieldDecode))
}

func TestListActive_Empty(t *testing.T) {
	resp, err := decodeChunks[ListActiveResponse]("215 list follows\r\n.\r\n")
	require.NoError(t, err)
	assert.Empty(t, resp.Body.Groups)
}

func TestListActiveTimes(t *testing.T) {
	resp, err := decodeChunks[ListActiveTimesResponse](
		"215 times\r\nalt.test 930445408 usenet@example.org\r\n.\r\n")
	require.NoError(t, err)
	assert.Equal(t, []GroupTimes{
		{Name: "alt.test", Created: 930445408, Creator: "usenet@example.org"},
	}, resp.Body.Groups)
}

func TestListNewsgroups(t *testing.T) {
	resp, err := decodeChunks[ListNewsgroupsResponse](
		"215 descriptions\r\n" +
			"alt.test\tA group for testing things\r\n" +
			"comp.lang.go The Go programming language\r\n" +
			"misc.bare\r\n" +
			".\r\n")
	require.NoError(t, err)
	assert.Equal(t, []GroupDescription{
		{Name: "alt.test", Description: "A group for testing things"},
		{Name: "comp.lang.go", Description: "The Go programming language"},
		{Name: "misc.bare"},
	}, resp.Body.Groups)
}

func TestNewgroups(t *testing.T) {
	since := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))
	line, err := Encode(NewgroupsRequest{Since: since})
	require.NoError(t, err)
	assert.Equal(t, "NEWGROUPS 20240102 020405 GMT\r\n", string(line))

	resp, err := decodeChunks[NewgroupsResponse]("231 new groups\r\nalt.new 3 1 y\r\nalt.other 0 1 n\r\n.\r\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"alt.new 3 1 y", "alt.other 0 1 n"}, resp.Body.Groups)
}

func TestXover(t *testing.T) {
	resp, err := decodeChunks[XoverResponse](
		"224 overview information follows\r\n" +
			"1\tFirst\tjoe@example.org\tMon, 02 Jan 2006 15:04:05 -0700\t<1@x>\t\t1234\t17\r\n" +
			"2\tSecond\tann@example.org\tTue, 03 Jan 06 10:00:00 GMT\t<2@x>\t<1@x>\t\t\r\n" +
			"3\tBroken\tbob@example.org\tnot a date\t<3@x>\t\t1\t1\r\n" +
			".\r\n")
	require.NoError(t, err)
	require.Len(t, resp.Body.Overviews, 2)

	first := resp.Body.Overviews[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "First", first.Subject)
	assert.Equal(t, "joe@example.org", first.Author)
	assert.Equal(t, time.Date(2006, 1, 2, 22, 4, 5, 0, time.UTC), first.Date)
	assert.Equal(t, "<1@x>", first.MessageID)
	assert.Equal(t, 1234, first.Bytes)
	assert.Equal(t, 17, first.Lines)

	second := resp.Body.Overviews[1]
	assert.Equal(t, 2, second.Number)
	assert.Equal(t, time.Date(2006, 1, 3, 10, 0, 0, 0, time.UTC), second.Date)
	assert.Equal(t, "<1@x>", second.References)
	assert.Zero(t, second.Bytes)
	assert.Zero(t, second.Lines)
}

func TestXover_BadNumber(t *testing.T) {
	_, err := decodeChunks[XoverResponse]("224 ok\r\nabc\tx\ty\tz\r\n.\r\n")
	assert.True(t, errors.Is(err, ErrFieldDecode))
}

func TestParseOverviewDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"Mon, 02 Jan 2006 15:04:05 +0000", time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC), true},
		{"2 Jan 2006 15:04:05 +0100", time.Date(2006, 1, 2, 14, 4, 5, 0, time.UTC), true},
		{"Mon, 02 Jan 06 15:04:05 UTC", time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC), true},
		{"Mon, 02 Jan 2006 15:04:05 GMT", time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := parseOverviewDate(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.True(t, tt.want.Equal(got), "%q: got %v", tt.in, got)
		}
	}
}
