package banner

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/altpin_registered.html
var altpinRegisteredPage []byte

//go:embed testdata/altpin_empty.html
var altpinEmptyPage []byte

//go:embed testdata/altpin_header_only.html
var altpinHeaderOnlyPage []byte

//go:embed testdata/regs_result.html
var regsResultPage []byte

func parseDoc(t testing.TB, page []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func scrapedRecords() []Record {
	speaking := speakingRecord()
	speaking["MESG"] = "DUMMY"
	calculus := calculusRecord()
	calculus["MESG"] = "DUMMY"
	return []Record{speaking, calculus}
}

func TestSessionCookie(t *testing.T) {
	header := http.Header{}
	header.Add("Set-Cookie", "ABC=1")
	session, err := SessionCookie(header)
	require.NoError(t, err)
	require.Equal(t, "ABC=1", session)

	header.Add("Set-Cookie", "DEF=2")
	session, err = SessionCookie(header)
	require.NoError(t, err)
	require.Equal(t, "ABC=1", session)

	_, err = SessionCookie(http.Header{})
	require.ErrorIs(t, err, ErrMissingSessionCookie)
}

func TestExistingRecords(t *testing.T) {
	doc := parseDoc(t, altpinRegisteredPage)
	records := ExistingRecords(context.Background(), doc, DefaultRecordsSelector)

	diff := cmp.Diff(scrapedRecords(), records)
	if diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestExistingRecordsNoTable(t *testing.T) {
	for name, page := range map[string][]byte{
		"no table":    altpinEmptyPage,
		"header only": altpinHeaderOnlyPage,
	} {
		t.Run(name, func(t *testing.T) {
			records := ExistingRecords(context.Background(), parseDoc(t, page), DefaultRecordsSelector)
			require.NotNil(t, records)
			require.Empty(t, records)
		})
	}
}

func TestExistingRecordsCustomSelector(t *testing.T) {
	doc := parseDoc(t, altpinRegisteredPage)

	records := ExistingRecords(context.Background(), doc, `table[summary="Current Schedule"]`)
	require.Len(t, records, 2)
	require.Equal(t, "67890", records[1]["CRN_IN"])

	records = ExistingRecords(context.Background(), doc, "table#does-not-exist")
	require.Empty(t, records)
}

func TestResultTables(t *testing.T) {
	doc := parseDoc(t, regsResultPage)

	registered := ResultTableAt(doc, DefaultRegisteredSelector)
	expectedRegistered := ResultTable{
		Headers: []string{"Status", "CRN", "Subj", "Crse", "Title"},
		Rows: [][]string{
			{"**Web Registered** on Apr 02, 2022", "12345", "COM", "1300", "Public Speaking"},
			{"**Web Registered** on May 06, 2022", "24680", "PHI", "2101", "Intro to Logic"},
		},
	}
	diff := cmp.Diff(expectedRegistered, registered)
	if diff != "" {
		t.Fatalf("registered table mismatch (-want +got):\n%s", diff)
	}

	errs := ResultTableAt(doc, DefaultErrorsSelector)
	expectedErrors := ResultTable{
		Headers: []string{"Status", "CRN", "Subj", "Crse"},
		Rows: [][]string{
			{"Closed Section", "111213", "BIO", "1011"},
		},
	}
	diff = cmp.Diff(expectedErrors, errs)
	if diff != "" {
		t.Fatalf("error table mismatch (-want +got):\n%s", diff)
	}
}

func TestResultTableMissing(t *testing.T) {
	doc := parseDoc(t, altpinEmptyPage)
	rt := ResultTableAt(doc, DefaultErrorsSelector)
	require.Empty(t, rt.Headers)
	require.Empty(t, rt.Rows)
}

func TestSelectorsWithDefaults(t *testing.T) {
	require.Equal(t, DefaultSelectors(), Selectors{}.withDefaults())

	custom := Selectors{Errors: "table.errortext"}.withDefaults()
	require.Equal(t, "table.errortext", custom.Errors)
	require.Equal(t, DefaultRecordsSelector, custom.Records)
	require.Equal(t, DefaultRegisteredSelector, custom.Registered)
}
