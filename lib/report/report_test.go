package report

import (
	"bannerreg/lib/scrapers/banner"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	result := banner.Result{
		ExistingRecords: 2,
		Registered: banner.ResultTable{
			Headers: []string{"Status", "CRN", "Subj", "Crse", "Title"},
			Rows: [][]string{
				{"**Web Registered**", "12345", "COM", "1300", "Public Speaking"},
				{"**Web Registered**", "67890", "MAT", "1412", "Calculus II"},
			},
		},
		Errors: banner.ResultTable{
			Headers: []string{"Status", "CRN", "Subj"},
			Rows: [][]string{
				{"Closed Section", "111213", "BIO"},
			},
		},
		Elapsed: 412 * time.Millisecond,
	}

	out := Render(result)
	require.Contains(t, out, "Elapsed Time: 412 ms")
	require.Contains(t, out, "Existing registrations: 2")
	require.Contains(t, out, "Successfully Registered for")
	require.Contains(t, out, "Error Messages for")
	for _, cell := range []string{"12345", "67890", "Calculus II", "Closed Section", "111213"} {
		require.Contains(t, out, cell)
	}
}

func TestRenderEmpty(t *testing.T) {
	out := Render(banner.Result{})
	require.Contains(t, out, "Successfully Registered for: none")
	require.Contains(t, out, "Error Messages for: none")
}

func TestEmailConfigEnabled(t *testing.T) {
	require.False(t, EmailConfig{}.Enabled())
	require.False(t, EmailConfig{Server: "smtp.example.com"}.Enabled())
	require.True(t, EmailConfig{Server: "smtp.example.com", To: []string{"me@example.com"}}.Enabled())
}
