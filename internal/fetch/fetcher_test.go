package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/logger"
)

const announcementHTML = `<!DOCTYPE html>
<html>
<head><title>Recruitment</title><style>body { color: red; }</style></head>
<body>
  <script>trackVisit();</script>
  <h1>Junior   Engineer Recruitment</h1>
  <p>Last date to apply: 20/12/2026</p>
</body>
</html>`

func TestFetchHTMLExtractsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(announcementHTML))
	}))
	defer srv.Close()

	f := New(5*time.Second, logger.NewNop())
	content, err := f.Fetch(context.Background(), domain.Notice{URL: srv.URL})
	require.NoError(t, err)

	assert.Contains(t, content.RawText, "Junior Engineer Recruitment")
	assert.Contains(t, content.RawText, "Last date to apply: 20/12/2026")
	assert.NotContains(t, content.RawText, "trackVisit")
	assert.NotContains(t, content.RawText, "color: red")
	assert.NotEmpty(t, content.HTMLContent)
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(5*time.Second, logger.NewNop())
	_, err := f.Fetch(context.Background(), domain.Notice{URL: srv.URL})

	assert.Error(t, err)
}

func TestFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>   </body></html>"))
	}))
	defer srv.Close()

	f := New(5*time.Second, logger.NewNop())
	_, err := f.Fetch(context.Background(), domain.Notice{URL: srv.URL})

	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("https://a.gov/notice.PDF", ""))
	assert.True(t, isPDF("https://a.gov/notice", "application/pdf"))
	assert.False(t, isPDF("https://a.gov/notice.html", "text/html"))
}

func TestNormalizeText(t *testing.T) {
	in := "  line one \t with   gaps  \n\n\n\n line two  "
	assert.Equal(t, "line one with gaps\n\nline two", normalizeText(in))
}
