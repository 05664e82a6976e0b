package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	. "github.com/smartystreets/goconvey/convey"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"narrator/internal/config"
	"narrator/internal/narrator"
	"narrator/internal/pkg/cache"
	"narrator/internal/pkg/metrics"
	"narrator/internal/pkg/speech/mock"
	"narrator/internal/pkg/storage/local"
	scanRepo "narrator/internal/repository/scan"
	storyRepo "narrator/internal/repository/story"
	"narrator/internal/service"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	srv    *Server
	engine *mock.Engine
	reader *sdkmetric.ManualReader
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := metrics.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	store, err := local.NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	settings := narrator.NewMemoryStore()
	eng := &mock.Engine{WordBoundaries: true}
	narration := service.NewNarrationService(eng, settings, narrator.NewBroadcaster(16), narrator.Options{Metrics: m})
	t.Cleanup(narration.Close)

	cfg := &config.Config{Server: config.ServerConfig{Port: 8080, Mode: "test"}}
	srv := NewWithServices(cfg, Services{
		Prosody:   service.NewProsodyService(cache.NewMemoryCache(), 0, store, settings, m),
		Scan:      service.NewScanService(scanRepo.NewMemoryScanRepo()),
		Story:     service.NewStoryService(storyRepo.NewMemoryStoryRepo()),
		Narration: narration,
	}, m)

	return &testServer{srv: srv, engine: eng, reader: reader}
}

func (ts *testServer) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHealthAndMiddleware(t *testing.T) {
	Convey("健康检查与中间件", t, func() {
		ts := newTestServer(t)

		w, _ := ts.do(http.MethodGet, "/health", nil)
		So(w.Code, ShouldEqual, http.StatusOK)
		So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)

		w, _ = ts.do(http.MethodGet, "/ready", nil)
		So(w.Code, ShouldEqual, http.StatusOK)

		Convey("沿用客户端的请求ID", func() {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("X-Request-ID", "abc-123")
			w := httptest.NewRecorder()
			ts.srv.Engine().ServeHTTP(w, req)
			So(w.Header().Get("X-Request-ID"), ShouldEqual, "abc-123")
		})

		Convey("CORS 预检", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/scans", nil)
			req.Header.Set("Origin", "http://localhost:8081")
			w := httptest.NewRecorder()
			ts.srv.Engine().ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNoContent)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
		})

		Convey("记录请求耗时", func() {
			var rm metricdata.ResourceMetrics
			So(ts.reader.Collect(context.Background(), &rm), ShouldBeNil)

			var found bool
			for _, sm := range rm.ScopeMetrics {
				for _, met := range sm.Metrics {
					if met.Name == "narrator.http.request.duration" {
						found = true
					}
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}

func TestScanRoutes(t *testing.T) {
	Convey("提取历史接口", t, func() {
		ts := newTestServer(t)

		w, env := ts.do(http.MethodPost, "/api/v1/scans", map[string]any{
			"type":    "manual",
			"content": "Bonjour le monde.",
		})
		So(w.Code, ShouldEqual, http.StatusCreated)
		So(env.Code, ShouldEqual, 0)

		var created struct {
			ID string `json:"id"`
		}
		So(json.Unmarshal(env.Data, &created), ShouldBeNil)
		So(created.ID, ShouldNotBeEmpty)

		w, _ = ts.do(http.MethodGet, "/api/v1/scans/"+created.ID, nil)
		So(w.Code, ShouldEqual, http.StatusOK)

		w, env = ts.do(http.MethodGet, "/api/v1/scans/absent", nil)
		So(w.Code, ShouldEqual, http.StatusNotFound)
		So(env.Code, ShouldEqual, 40401)

		Convey("校验失败返回 400", func() {
			w, env := ts.do(http.MethodPost, "/api/v1/scans", map[string]any{"type": "fax", "content": "x"})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(env.Code, ShouldEqual, 40001)

			w, _ = ts.do(http.MethodPost, "/api/v1/scans", map[string]any{"type": "ocr", "content": ""})
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			w, _ = ts.do(http.MethodPost, "/api/v1/scans", map[string]any{"type": "web", "content": "x", "original_url": "nope"})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("删除", func() {
			w, _ := ts.do(http.MethodDelete, "/api/v1/scans/"+created.ID, nil)
			So(w.Code, ShouldEqual, http.StatusOK)

			w, env := ts.do(http.MethodGet, "/api/v1/scans", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var list struct {
				Total int64 `json:"total"`
			}
			So(json.Unmarshal(env.Data, &list), ShouldBeNil)
			So(list.Total, ShouldEqual, 0)
		})
	})
}

func TestStoryRoutes(t *testing.T) {
	Convey("书架接口", t, func() {
		ts := newTestServer(t)

		w, env := ts.do(http.MethodPost, "/api/v1/stories", map[string]any{"content": "Il pleut sur la ville."})
		So(w.Code, ShouldEqual, http.StatusCreated)

		var st struct {
			ID         string `json:"id"`
			Title      string `json:"title"`
			WordCount  int    `json:"word_count"`
			IsFavorite bool   `json:"is_favorite"`
			Category   string `json:"category"`
		}
		So(json.Unmarshal(env.Data, &st), ShouldBeNil)
		So(st.Title, ShouldEqual, "Il pleut sur la ville.")
		So(st.WordCount, ShouldEqual, 5)
		So(st.Category, ShouldEqual, "personal")

		w, env = ts.do(http.MethodPost, "/api/v1/stories/"+st.ID+"/favorite", nil)
		So(w.Code, ShouldEqual, http.StatusOK)
		So(json.Unmarshal(env.Data, &st), ShouldBeNil)
		So(st.IsFavorite, ShouldBeTrue)

		w, env = ts.do(http.MethodPatch, "/api/v1/stories/"+st.ID, map[string]any{"category": "poetry"})
		So(w.Code, ShouldEqual, http.StatusOK)
		So(json.Unmarshal(env.Data, &st), ShouldBeNil)
		So(st.Category, ShouldEqual, "poetry")

		w, _ = ts.do(http.MethodGet, "/api/v1/stories?category=poetry&favorites=true", nil)
		So(w.Code, ShouldEqual, http.StatusOK)

		w, _ = ts.do(http.MethodGet, "/api/v1/stories?category=roman", nil)
		So(w.Code, ShouldEqual, http.StatusBadRequest)

		w, _ = ts.do(http.MethodDelete, "/api/v1/stories/"+st.ID, nil)
		So(w.Code, ShouldEqual, http.StatusOK)
		w, _ = ts.do(http.MethodGet, "/api/v1/stories/"+st.ID, nil)
		So(w.Code, ShouldEqual, http.StatusNotFound)
	})
}

func TestProsodyRoutes(t *testing.T) {
	Convey("韵律接口", t, func() {
		ts := newTestServer(t)

		w, env := ts.do(http.MethodPost, "/api/v1/prosody/analyze", map[string]any{
			"text":     "Bonjour! Comment allez-vous?",
			"language": "fr-FR",
		})
		So(w.Code, ShouldEqual, http.StatusOK)
		var analysis struct {
			Segments []struct {
				SentenceType string `json:"sentence_type"`
			} `json:"segments"`
		}
		So(json.Unmarshal(env.Data, &analysis), ShouldBeNil)
		So(len(analysis.Segments), ShouldEqual, 2)
		So(analysis.Segments[1].SentenceType, ShouldEqual, "question")

		w, _ = ts.do(http.MethodPost, "/api/v1/prosody/analyze", map[string]any{})
		So(w.Code, ShouldEqual, http.StatusBadRequest)

		Convey("导出 SSML 并下载", func() {
			w, env := ts.do(http.MethodPost, "/api/v1/prosody/ssml?export=true", map[string]any{"text": "Attention! Voici la suite."})
			So(w.Code, ShouldEqual, http.StatusOK)
			var res struct {
				SSML string `json:"ssml"`
				Key  string `json:"key"`
			}
			So(json.Unmarshal(env.Data, &res), ShouldBeNil)
			So(res.Key, ShouldStartWith, "ssml/")

			w, _ = ts.do(http.MethodGet, "/api/v1/prosody/exports/"+res.Key, nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, res.SSML)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/ssml+xml")
		})

		Convey("人设", func() {
			w, _ := ts.do(http.MethodGet, "/api/v1/prosody/voice-profiles", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			w, _ = ts.do(http.MethodGet, "/api/v1/prosody/voice-profiles/dramatique", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			w, _ = ts.do(http.MethodGet, "/api/v1/prosody/voice-profiles/pirate", nil)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			w, _ = ts.do(http.MethodPost, "/api/v1/prosody/voice-profiles/recommend", map[string]any{"text": "Il était une fois."})
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("句段语音参数", func() {
			w, _ := ts.do(http.MethodPost, "/api/v1/prosody/speech-params", map[string]any{"text": "Un. Deux."})
			So(w.Code, ShouldEqual, http.StatusOK)
			w, env := ts.do(http.MethodPost, "/api/v1/prosody/speech-params", map[string]any{"text": "Un.", "personality": "pirate"})
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(env.Code, ShouldEqual, 40401)
		})
	})
}

func TestNarrationRoutes(t *testing.T) {
	Convey("朗读与设置接口", t, func() {
		ts := newTestServer(t)

		w, env := ts.do(http.MethodPut, "/api/v1/settings", map[string]any{"language": "fr-CA", "rate": 1.2})
		So(w.Code, ShouldEqual, http.StatusOK)
		var vs narrator.VoiceSettings
		So(json.Unmarshal(env.Data, &vs), ShouldBeNil)
		So(vs.Language, ShouldEqual, "fr-CA")
		So(vs.Rate, ShouldEqual, 1.2)

		w, env = ts.do(http.MethodPost, "/api/v1/narration/start", map[string]any{"text": "Bonjour."})
		So(w.Code, ShouldEqual, http.StatusOK)
		var started struct {
			RunID string `json:"run_id"`
		}
		So(json.Unmarshal(env.Data, &started), ShouldBeNil)
		So(started.RunID, ShouldNotBeEmpty)

		call, ok := ts.engine.LastSpeak()
		So(ok, ShouldBeTrue)
		So(call.Options.Language, ShouldEqual, "fr-CA")

		w, env = ts.do(http.MethodGet, "/api/v1/narration/status", nil)
		So(w.Code, ShouldEqual, http.StatusOK)
		var st narrator.Status
		So(json.Unmarshal(env.Data, &st), ShouldBeNil)
		So(st.RunID, ShouldEqual, started.RunID)
		So(st.IsSpeaking, ShouldBeTrue)

		Convey("暂停不受支持", func() {
			w, env := ts.do(http.MethodPost, "/api/v1/narration/pause", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var res struct {
				Success bool `json:"success"`
			}
			So(json.Unmarshal(env.Data, &res), ShouldBeNil)
			So(res.Success, ShouldBeFalse)
		})

		Convey("停止可重复调用", func() {
			var res struct {
				Success bool `json:"success"`
			}
			_, env := ts.do(http.MethodPost, "/api/v1/narration/stop", nil)
			So(json.Unmarshal(env.Data, &res), ShouldBeNil)
			So(res.Success, ShouldBeTrue)

			_, env = ts.do(http.MethodPost, "/api/v1/narration/stop", nil)
			So(json.Unmarshal(env.Data, &res), ShouldBeNil)
			So(res.Success, ShouldBeFalse)
		})

		Convey("没有可朗读的句子", func() {
			w, env := ts.do(http.MethodPost, "/api/v1/narration/start", map[string]any{"text": "   "})
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(env.Code, ShouldEqual, 40002)
		})
	})
}

func TestNarrationEvents(t *testing.T) {
	Convey("朗读进度推送", t, func() {
		ts := newTestServer(t)
		hs := httptest.NewServer(ts.srv.Engine())
		defer hs.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		url := "ws" + strings.TrimPrefix(hs.URL, "http") + "/api/v1/narration/events"
		conn, _, err := websocket.Dial(ctx, url, nil)
		So(err, ShouldBeNil)
		defer conn.Close(websocket.StatusNormalClosure, "")

		// 连接后先收到当前状态
		var first narrator.Message
		So(wsjson.Read(ctx, conn, &first), ShouldBeNil)
		So(first.Type, ShouldEqual, "update")
		So(first.Update.State, ShouldEqual, narrator.StateIdle)

		resp, err := http.Post(hs.URL+"/api/v1/narration/start", "application/json", strings.NewReader(`{"text":"Bonjour. Au revoir."}`))
		So(err, ShouldBeNil)
		resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		var started *narrator.Event
		for started == nil {
			var m narrator.Message
			if err := wsjson.Read(ctx, conn, &m); err != nil {
				break
			}
			if m.Type == "event" && m.Event.Kind == narrator.EventStarted {
				started = m.Event
			}
		}
		So(started, ShouldNotBeNil)
		So(started.Segments, ShouldEqual, 2)
	})
}
