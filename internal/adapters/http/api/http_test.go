package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hackfest/vibeboard/internal/adapters/http/api"
	"github.com/hackfest/vibeboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps is a scripted Dependencies implementation.
type fakeDeps struct {
	analyzed    model.ScoreRecord
	analyzeErr  error
	refreshed   model.RefreshSummary
	refreshErr  error
	scores      []model.ScoreRecord
	scoresErr   error
	commentary  []model.CommentaryEvent
	lastRefresh time.Time

	analyzedTeam model.Team
}

func (f *fakeDeps) AnalyzeOne(_ context.Context, team model.Team) (model.ScoreRecord, error) {
	f.analyzedTeam = team
	return f.analyzed, f.analyzeErr
}

func (f *fakeDeps) Refresh(_ context.Context) (model.RefreshSummary, error) {
	return f.refreshed, f.refreshErr
}

func (f *fakeDeps) Scores(_ context.Context) ([]model.ScoreRecord, error) {
	return f.scores, f.scoresErr
}

func (f *fakeDeps) Commentary(_ context.Context) ([]model.CommentaryEvent, error) {
	return f.commentary, nil
}

func (f *fakeDeps) LastRefresh() time.Time { return f.lastRefresh }

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details []string        `json:"details"`
}

func do(handler http.Handler, method, path, body string, header http.Header) (*httptest.ResponseRecorder, response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp response
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	return rr, resp
}

func TestAnalyzeEndpoint(t *testing.T) {
	Convey("Given the API router", t, func() {
		deps := &fakeDeps{analyzed: model.ScoreRecord{TeamID: "t1", Total: 12.5}}
		router := api.NewServer(deps).Router()

		Convey("When the body is valid", func() {
			rr, resp := do(router, http.MethodPost, "/api/analyze",
				`{"teamId":"t1","teamName":"Nebula","repo":"https://github.com/x/y","track":1}`, nil)

			Convey("Then it analyzes and returns the record", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(resp.Success, ShouldBeTrue)
				So(deps.analyzedTeam.ID, ShouldEqual, "t1")
				So(deps.analyzedTeam.Track, ShouldEqual, 1)
			})
		})

		Convey("When fields are missing or mistyped", func() {
			rr, resp := do(router, http.MethodPost, "/api/analyze",
				`{"teamId":"","repo":"https://gitlab.com/x/y","track":"one"}`, nil)

			Convey("Then it returns 400 listing every offending field", func() {
				So(rr.Code, ShouldEqual, http.StatusBadRequest)
				So(resp.Success, ShouldBeFalse)
				So(strings.Join(resp.Details, " "), ShouldContainSubstring, "teamId")
				So(strings.Join(resp.Details, " "), ShouldContainSubstring, "teamName")
				So(strings.Join(resp.Details, " "), ShouldContainSubstring, "github.com")
				So(strings.Join(resp.Details, " "), ShouldContainSubstring, "track")
			})
		})

		Convey("When the body is not JSON", func() {
			rr, _ := do(router, http.MethodPost, "/api/analyze", "not json", nil)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When analysis fails downstream", func() {
			deps.analyzeErr = errors.New("store offline")
			rr, resp := do(router, http.MethodPost, "/api/analyze",
				`{"teamId":"t1","teamName":"Nebula","repo":"https://github.com/x/y","track":2}`, nil)

			So(rr.Code, ShouldEqual, http.StatusInternalServerError)
			So(resp.Success, ShouldBeFalse)
		})
	})
}

func TestRefreshEndpoint(t *testing.T) {
	Convey("Given a development-mode server", t, func() {
		deps := &fakeDeps{refreshed: model.RefreshSummary{TeamsProcessed: 3}}
		router := api.NewServer(deps, api.WithRefreshAuth("s3cret", false)).Router()

		Convey("Then refresh needs no auth and answers on GET and POST", func() {
			for _, method := range []string{http.MethodGet, http.MethodPost} {
				rr, resp := do(router, method, "/api/refresh", "", nil)
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(resp.Success, ShouldBeTrue)
			}
		})
	})

	Convey("Given a production-mode server with a secret", t, func() {
		deps := &fakeDeps{refreshed: model.RefreshSummary{TeamsProcessed: 3}}
		router := api.NewServer(deps, api.WithRefreshAuth("s3cret", true)).Router()

		Convey("When no bearer token is sent", func() {
			rr, resp := do(router, http.MethodPost, "/api/refresh", "", nil)
			So(rr.Code, ShouldEqual, http.StatusUnauthorized)
			So(resp.Success, ShouldBeFalse)
		})

		Convey("When the wrong token is sent", func() {
			h := http.Header{}
			h.Set("Authorization", "Bearer nope")
			rr, _ := do(router, http.MethodPost, "/api/refresh", "", h)
			So(rr.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When the right token is sent", func() {
			h := http.Header{}
			h.Set("Authorization", "Bearer s3cret")
			rr, resp := do(router, http.MethodPost, "/api/refresh", "", h)
			So(rr.Code, ShouldEqual, http.StatusOK)
			So(resp.Success, ShouldBeTrue)
		})
	})

	Convey("Given a refresh that fails to persist", t, func() {
		deps := &fakeDeps{refreshErr: errors.New("disk full")}
		router := api.NewServer(deps).Router()

		rr, resp := do(router, http.MethodPost, "/api/refresh", "", nil)
		So(rr.Code, ShouldEqual, http.StatusInternalServerError)
		So(resp.Success, ShouldBeFalse)
	})
}

func TestLeaderboardEndpoint(t *testing.T) {
	Convey("Given a populated board", t, func() {
		rank := 1
		now := time.Now().UTC()
		deps := &fakeDeps{
			scores:      []model.ScoreRecord{{TeamID: "a", Total: 12, CurrentRank: &rank}},
			commentary:  []model.CommentaryEvent{{ID: "e1", Message: "A is on fire"}},
			lastRefresh: now,
		}
		router := api.NewServer(deps).Router()

		Convey("When fetched", func() {
			rr, resp := do(router, http.MethodGet, "/api/leaderboard", "", nil)

			Convey("Then the full payload comes back", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(resp.Success, ShouldBeTrue)

				var data struct {
					Scores      []model.ScoreRecord     `json:"scores"`
					Commentary  []model.CommentaryEvent `json:"commentary"`
					LastRefresh *time.Time              `json:"lastRefresh"`
				}
				So(json.Unmarshal(resp.Data, &data), ShouldBeNil)
				So(data.Scores, ShouldHaveLength, 1)
				So(data.Commentary, ShouldHaveLength, 1)
				So(data.LastRefresh, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a store that fails to read", t, func() {
		deps := &fakeDeps{scoresErr: errors.New("locked")}
		router := api.NewServer(deps).Router()

		Convey("When fetched", func() {
			rr, resp := do(router, http.MethodGet, "/api/leaderboard", "", nil)

			Convey("Then it still answers 200 with an empty valid payload", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(resp.Success, ShouldBeFalse)
				So(resp.Error, ShouldContainSubstring, "locked")

				var data struct {
					Scores     []model.ScoreRecord     `json:"scores"`
					Commentary []model.CommentaryEvent `json:"commentary"`
				}
				So(json.Unmarshal(resp.Data, &data), ShouldBeNil)
				So(data.Scores, ShouldNotBeNil)
				So(data.Scores, ShouldBeEmpty)
			})
		})
	})
}

func TestHealthAndMetrics(t *testing.T) {
	Convey("Given the router", t, func() {
		router := api.NewServer(&fakeDeps{}).Router()

		Convey("Then healthz answers ok", func() {
			rr, resp := do(router, http.MethodGet, "/healthz", "", nil)
			So(rr.Code, ShouldEqual, http.StatusOK)
			So(resp.Success, ShouldBeTrue)
		})

		Convey("Then metrics exposes the registry", func() {
			rr, _ := do(router, http.MethodGet, "/metrics", "", nil)
			So(rr.Code, ShouldEqual, http.StatusOK)
			So(rr.Body.String(), ShouldContainSubstring, "vibeboard")
		})
	})
}
