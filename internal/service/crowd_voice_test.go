package service

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/crowd_voice/internal/biz"
	"github.com/iWorld-y/crowd_voice/internal/conf"
	"github.com/iWorld-y/crowd_voice/internal/data"
	"github.com/iWorld-y/crowd_voice/pkg/fetcher"
	dm "github.com/iWorld-y/crowd_voice/pkg/model"
)

const pasted = "I tried the new release this morning and honestly it is a big improvement over the last one."

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, url string) (*fetcher.Page, error) {
	if url == "https://example.com/thread" {
		return &fetcher.Page{URL: url, FinalURL: url, StatusCode: 200, Title: "Launch Day", Text: "We shipped it!", Content: "<p>We shipped it!</p>"}, nil
	}
	return nil, &fetcher.FetchError{Kind: fetcher.KindHTTPStatus, URL: url, StatusCode: 404, Status: "Not Found"}
}

type stubAnalyzer struct{}

func (stubAnalyzer) Summary(ctx context.Context, req dm.SummaryRequest) (*dm.Summary, error) {
	return &dm.Summary{Summary: "People like the release."}, nil
}

func (stubAnalyzer) KeyPoints(ctx context.Context, req dm.KeyPointsRequest) (*dm.KeyPoints, error) {
	return &dm.KeyPoints{KeyPoints: []string{"Faster builds"}}, nil
}

func (stubAnalyzer) Sentiment(ctx context.Context, req dm.SentimentRequest) (*dm.Sentiment, error) {
	return &dm.Sentiment{Sentiment: "positive", Score: 0.7, Explanation: "upbeat"}, nil
}

func (stubAnalyzer) Links(ctx context.Context, req dm.LinksRequest) (dm.Links, error) {
	return dm.Links{}, nil
}

func (stubAnalyzer) WordCloud(ctx context.Context, req dm.WordCloudRequest) (dm.WordCloud, error) {
	return dm.WordCloud{{Text: "release", Value: 80}}, nil
}

func (stubAnalyzer) ActionItems(ctx context.Context, req dm.ActionItemsRequest) (*dm.ActionItems, error) {
	return &dm.ActionItems{}, nil
}

func (stubAnalyzer) HeaderImage(ctx context.Context, req dm.HeaderImageRequest) (*dm.HeaderImage, error) {
	return &dm.HeaderImage{ImageURL: "data:image/png;base64,AAAA"}, nil
}

func newTestServer(t *testing.T) *http.Server {
	t.Helper()
	d, cleanup, err := data.NewData(&conf.Analysis{}, log.DefaultLogger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cleanup)
	uc, err := biz.NewAnalysisUseCase(data.NewSessionRepo(d, log.DefaultLogger), stubFetcher{}, stubAnalyzer{}, &conf.Analysis{}, log.DefaultLogger)
	if err != nil {
		t.Fatal(err)
	}
	srv := http.NewServer(http.Timeout(5 * time.Second))
	RegisterCrowdVoiceHTTPServer(srv, NewCrowdVoiceService(uc, log.DefaultLogger))
	return srv
}

func do(srv *http.Server, method, path, body string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

type snapshot struct {
	ID        string `json:"id"`
	Phase     string `json:"phase"`
	PageTitle string `json:"pageTitle"`
	Analyses  map[string]struct {
		Status string `json:"status"`
	} `json:"analyses"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) snapshot {
	t.Helper()
	var s snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return s
}

func TestCreateSession_InputBoundary(t *testing.T) {
	srv := newTestServer(t)
	long := strings.Repeat("a", maxTextChars+1)

	tests := []struct {
		name string
		body string
	}{
		{"empty", `{}`},
		{"both", `{"url":"https://example.com","text":"` + pasted + `"}`},
		{"short text", `{"text":"too short"}`},
		{"long text", `{"text":"` + long + `"}`},
		{"bad url", `{"url":"http://"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(srv, "POST", "/api/sessions", tt.body)
			if rec.Code != 400 || !strings.Contains(rec.Body.String(), "INVALID_SOURCE") {
				t.Errorf("code = %d body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreateSession_Text(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, "POST", "/api/sessions", `{"text":"  `+pasted+`  "}`)
	if rec.Code != 200 {
		t.Fatalf("code = %d body = %s", rec.Code, rec.Body.String())
	}
	created := decode(t, rec)
	if created.ID == "" {
		t.Fatal("missing session id")
	}

	rec = do(srv, "GET", "/api/sessions/"+created.ID+"?wait=true", "")
	got := decode(t, rec)
	if got.Phase != string(dm.PhaseComplete) {
		t.Errorf("phase = %s", got.Phase)
	}
	if got.Analyses["links"].Status != "notApplicable" || got.Analyses["summary"].Status != "succeeded" {
		t.Errorf("analyses = %+v", got.Analyses)
	}

	rec = do(srv, "GET", "/api/sessions/"+created.ID+"/sections/summary", "")
	if rec.Code != 200 || rec.Body.String() != "People like the release." {
		t.Errorf("section = %d %q", rec.Code, rec.Body.String())
	}
	rec = do(srv, "GET", "/api/sessions/"+created.ID+"/sections/headerImage", "")
	if rec.Code != 409 {
		t.Errorf("headerImage section code = %d", rec.Code)
	}

	rec = do(srv, "POST", "/api/sessions/"+created.ID+"/analyses/links/refresh", "")
	if rec.Code != 409 || !strings.Contains(rec.Body.String(), "NOT_REFRESHABLE") {
		t.Errorf("links refresh = %d %s", rec.Code, rec.Body.String())
	}
	rec = do(srv, "POST", "/api/sessions/"+created.ID+"/analyses/video/refresh", "")
	if rec.Code != 400 || !strings.Contains(rec.Body.String(), "UNKNOWN_ANALYSIS") {
		t.Errorf("unknown refresh = %d %s", rec.Code, rec.Body.String())
	}
}

func TestExport(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, "POST", "/api/sessions", `{"url":"example.com/thread"}`)
	id := decode(t, rec).ID
	got := decode(t, do(srv, "GET", "/api/sessions/"+id+"?wait=true", ""))
	if got.PageTitle != "Launch Day" {
		t.Errorf("pageTitle = %q", got.PageTitle)
	}

	rec = do(srv, "GET", "/api/sessions/"+id+"/export.md?download=true", "")
	if rec.Code != 200 {
		t.Fatalf("export code = %d body = %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "crowd-voice-launch-day-") || !strings.HasSuffix(cd, `.md"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if body := rec.Body.String(); !strings.Contains(body, "**Title:** Launch Day") || !strings.Contains(body, "## Discussion Summary") {
		t.Errorf("markdown = %s", body)
	}

	rec = do(srv, "GET", "/api/sessions/"+id+"/export.html", "")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), "<h2>Discussion Summary</h2>") {
		t.Errorf("html = %d %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "" {
		t.Errorf("inline export has Content-Disposition %q", cd)
	}
}

func TestExport_NothingToExport(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, "POST", "/api/sessions", `{"url":"https://example.com/missing"}`)
	id := decode(t, rec).ID
	got := decode(t, do(srv, "GET", "/api/sessions/"+id+"?wait=true", ""))
	if got.Phase != string(dm.PhaseError) {
		t.Fatalf("phase = %s", got.Phase)
	}

	rec = do(srv, "GET", "/api/sessions/"+id+"/export.md", "")
	if rec.Code != 409 || !strings.Contains(rec.Body.String(), "NOTHING_TO_EXPORT") {
		t.Errorf("export = %d %s", rec.Code, rec.Body.String())
	}
}

func TestGetSession_NotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := do(srv, "GET", "/api/sessions/nope", "")
	if rec.Code != 404 || !strings.Contains(rec.Body.String(), "SESSION_NOT_FOUND") {
		t.Errorf("code = %d body = %s", rec.Code, rec.Body.String())
	}
}
