package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticketbooker/internal/components/telemetry"
	"ticketbooker/internal/sites"

	"github.com/stretchr/testify/require"
)

const landing = `<!doctype html>
<html>
<head><title>
	Thai Ticket Major | Concert
</title></head>
<body>
	<a class="btn-signin item d-none d-lg-inline-block" href="#">เข้าสู่ระบบ</a>
	<a href="/concert/blackpink-world-tour.html">BLACKPINK WORLD TOUR [BORN PINK] BANGKOK</a>
	<a href="/concert/other.html">Other show</a>
</body>
</html>`

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/concert/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Write([]byte(landing))
	})
	mux.HandleFunc("/down/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/plain/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Maintenance</title></head><body>back soon</body></html>`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestCheck(t *testing.T) {
	server := newServer(t)
	tel := telemetry.NewRecorder()
	p := NewProber(tel, 5*time.Second)

	site := sites.Site{ID: "thaiticketmajor", BaseURL: server.URL + "/concert/"}
	result := p.Check(context.Background(), site, "blackpink")

	require.NoError(t, result.Err)
	require.True(t, result.Reachable())
	require.Equal(t, http.StatusOK, result.StatusCode)
	require.Equal(t, "Thai Ticket Major | Concert", result.Title)
	require.True(t, result.LoginFound)
	require.Len(t, result.ConcertLinks, 1)
	require.Equal(t, server.URL+"/concert/blackpink-world-tour.html", result.ConcertLinks[0].Href)
}

func TestCheckWithoutLogin(t *testing.T) {
	server := newServer(t)
	p := NewProber(telemetry.NewRecorder(), 5*time.Second)

	result := p.Check(context.Background(), sites.Site{ID: "x", BaseURL: server.URL + "/plain/"}, "")

	require.True(t, result.Reachable())
	require.Equal(t, "Maintenance", result.Title)
	require.False(t, result.LoginFound)
	require.Empty(t, result.ConcertLinks)
}

func TestCheckErrorStatus(t *testing.T) {
	server := newServer(t)
	p := NewProber(telemetry.NewRecorder(), 5*time.Second)

	result := p.Check(context.Background(), sites.Site{ID: "x", BaseURL: server.URL + "/down/"}, "")

	require.False(t, result.Reachable())
	require.Equal(t, http.StatusServiceUnavailable, result.StatusCode)
	require.ErrorContains(t, result.Err, "503")
}

func TestCheckAll(t *testing.T) {
	server := newServer(t)
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	p := NewProber(telemetry.NewRecorder(), 5*time.Second)
	results := p.CheckAll(context.Background(), []sites.Site{
		{ID: "up", BaseURL: server.URL + "/concert/"},
		{ID: "gone", BaseURL: closedURL},
	}, "")

	require.Len(t, results, 2)
	require.Equal(t, "up", results[0].Site)
	require.True(t, results[0].Reachable())
	require.Equal(t, "gone", results[1].Site)
	require.False(t, results[1].Reachable())
	require.Error(t, results[1].Err)
}
