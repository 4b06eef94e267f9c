package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/MalekSoula7/AI-Career-Studio/internal/adapters/http/api"
	service "github.com/MalekSoula7/AI-Career-Studio/internal/app"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/questionbank"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func newTestServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	bank := questionbank.New(questionbank.WithSet("", []model.Question{
		{ID: "q1", Prompt: "Walk me through a recent project.", Category: "behavioral",
			Hints: []string{"project", "impact"}},
		{ID: "q2", Prompt: "How would you scale this system?", Category: "technical",
			Hints: []string{"scale", "cache", "shard"}},
	}))
	svc := service.New(
		service.WithBank(bank),
		service.WithQuestionTimeout(time.Hour),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, svc
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, ts.URL+"/sessions", `{"role":"","skills":["go"]}`)
	var out struct {
		SessionID string `json:"session_id"`
	}
	decodeBody(t, resp, &out)
	if out.SessionID == "" {
		t.Fatal("empty session id")
	}
	return out.SessionID
}

func TestSessionEndpoints(t *testing.T) {
	Convey("Given the API server over a live orchestrator", t, func() {
		ts, _ := newTestServer(t)

		Convey("POST /sessions creates a session and returns the first question", func() {
			resp := postJSON(t, ts.URL+"/sessions", `{"role":"","skills":[]}`)
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)

			var out struct {
				SessionID string         `json:"session_id"`
				Question  model.Question `json:"question"`
			}
			decodeBody(t, resp, &out)
			So(out.SessionID, ShouldNotBeEmpty)
			So(out.Question.ID, ShouldEqual, "q1")
		})

		Convey("POST /sessions with a malformed body is a 400", func() {
			resp := postJSON(t, ts.URL+"/sessions", `{not json`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()
		})

		Convey("Submitting answers walks the session to completion", func() {
			id := createSession(t, ts)

			resp := postJSON(t, fmt.Sprintf("%s/sessions/%s/answers", ts.URL, id),
				`{"question_index":0,"transcript":"We shipped the project with measurable impact."}`)
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			resp.Body.Close()

			// Stale resubmission of the same index is still acknowledged.
			resp = postJSON(t, fmt.Sprintf("%s/sessions/%s/answers", ts.URL, id),
				`{"question_index":0,"transcript":"again"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			resp.Body.Close()

			resp = postJSON(t, fmt.Sprintf("%s/sessions/%s/answers", ts.URL, id),
				`{"question_index":1,"transcript":"Add a cache layer and shard by user."}`)
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			resp.Body.Close()

			Convey("and the report becomes available", func() {
				resp, err := http.Get(fmt.Sprintf("%s/sessions/%s/report", ts.URL, id))
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var insights model.FinalInsights
				decodeBody(t, resp, &insights)
				So(insights.OverallScore, ShouldBeGreaterThanOrEqualTo, 0)
				So(insights.OverallScore, ShouldBeLessThanOrEqualTo, 100)
			})
		})

		Convey("GET /sessions/{id}/report before completion is a 409", func() {
			id := createSession(t, ts)

			resp, err := http.Get(fmt.Sprintf("%s/sessions/%s/report", ts.URL, id))
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
			resp.Body.Close()
		})

		Convey("POST /sessions/{id}/attention accepts a sample", func() {
			id := createSession(t, ts)

			resp := postJSON(t, fmt.Sprintf("%s/sessions/%s/attention", ts.URL, id),
				`{"attention":0.8,"smiling":true,"faces":1}`)
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			resp.Body.Close()
		})

		Convey("POST /sessions/{id}/end finalizes early", func() {
			id := createSession(t, ts)

			resp := postJSON(t, fmt.Sprintf("%s/sessions/%s/end", ts.URL, id), `{}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			resp.Body.Close()

			resp, err := http.Get(fmt.Sprintf("%s/sessions/%s/report", ts.URL, id))
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			resp.Body.Close()
		})

		Convey("GET /sessions/{id}/events drains buffered events once", func() {
			id := createSession(t, ts)

			resp, err := http.Get(fmt.Sprintf("%s/sessions/%s/events", ts.URL, id))
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var events []map[string]any
			decodeBody(t, resp, &events)
			So(len(events), ShouldBeGreaterThan, 0)

			resp, err = http.Get(fmt.Sprintf("%s/sessions/%s/events", ts.URL, id))
			So(err, ShouldBeNil)
			decodeBody(t, resp, &events)
			So(events, ShouldBeEmpty)
		})

		Convey("Unknown session ids map to 404", func() {
			resp := postJSON(t, ts.URL+"/sessions/missing/join", `{}`)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			resp.Body.Close()

			resp, err := http.Get(ts.URL + "/sessions/missing/report")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			resp.Body.Close()
		})

		Convey("Joining a completed session is a 409", func() {
			id := createSession(t, ts)
			resp := postJSON(t, fmt.Sprintf("%s/sessions/%s/end", ts.URL, id), `{}`)
			resp.Body.Close()

			resp = postJSON(t, fmt.Sprintf("%s/sessions/%s/join", ts.URL, id), `{}`)
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
			resp.Body.Close()
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given the API server", t, func() {
		ts, _ := newTestServer(t)

		Convey("GET /healthz responds with a liveness body", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var body map[string]string
			decodeBody(t, resp, &body)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("GET /stats exposes service statistics", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var stats map[string]any
			decodeBody(t, resp, &stats)
			So(stats["started"], ShouldEqual, true)
		})
	})
}
