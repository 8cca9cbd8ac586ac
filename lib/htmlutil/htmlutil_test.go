package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "  Intro to   Logic \n", expected: "Intro to Logic"},
		{in: "COM 1300", expected: "COM 1300"},
		{in: "\t\n", expected: ""},
		{in: "Web\x07Registered", expected: "WebRegistered"},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeText(test.in))
	}
}

func TestCellTexts(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
<table><tr><td> 12345 </td><td><b>MAT</b> 1412</td><td></td></tr></table>`))
	require.NoError(t, err)

	require.Equal(t, []string{"12345", "MAT 1412", ""}, CellTexts(doc.Find("td")))
}

func TestNormalizeTextNbsp(t *testing.T) {
	require.Equal(t, "3.000 Credits", NormalizeText("3.000\u00a0\u00a0Credits"))
}
