package restyutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestInstrumentClientRedacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Set-Cookie", "SESSID=secretsession;")
		w.Write([]byte("<html>welcome</html>"))
	}))
	defer server.Close()

	out := memoryOutput{}
	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, out)

	_, err := client.R().
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetHeader("Cookie", "TESTID=set; POKEHAYU=SRV_1").
		SetBody("sid=800123456&PIN=999999").
		Post("/twbkwbis.P_ValLogin")
	require.NoError(t, err)

	require.Len(t, out, 1)
	message := out["001"]
	require.Contains(t, message, "POST "+server.URL+"/twbkwbis.P_ValLogin")
	require.Contains(t, message, "sid=800123456&PIN=REDACTED")
	require.Contains(t, message, "<html>welcome</html>")
	require.NotContains(t, message, "999999")
	require.NotContains(t, message, "secretsession")
}

func TestInstrumentClientNilOutput(t *testing.T) {
	client := resty.New()
	InstrumentClient(client, nil)
}

func TestInstrumentClientWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>User Login</html>"))
	}))
	defer server.Close()

	out := memoryOutput{}
	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, out)

	var res *resty.Response
	require.NotPanics(t, func() {
		var err error
		res, err = client.R().Get("/twbkwbis.P_WWWLogin")
		require.NoError(t, err)
	})
	require.Equal(t, "", FormatRequestBody(res.Request.RawRequest))

	require.Len(t, out, 1)
	message := out["001"]
	require.Contains(t, message, "GET "+server.URL+"/twbkwbis.P_WWWLogin")
	// the request body section is empty
	require.Contains(t, message, "\n\n\n\n---- RESPONSE ----")
	require.Contains(t, message, "<html>User Login</html>")
}

func TestFormatRequestBodyNil(t *testing.T) {
	require.Equal(t, "", FormatRequestBody(nil))
	require.Equal(t, "", FormatRequestBody(&http.Request{}))
}
