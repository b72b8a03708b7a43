package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/intersame/qurantagger/core/index"
	"github.com/intersame/qurantagger/core/quran"
	"github.com/intersame/qurantagger/core/tagger"
)

const fixtureTanzil = `1|1|بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ
1|2|الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ
13|40|وَإِن مَّا نُرِيَنَّكَ بَعْضَ الَّذِي نَعِدُهُمْ
`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := quran.LoadTanzil(strings.NewReader(fixtureTanzil), "fixture")
	if err != nil {
		t.Fatal(err)
	}
	srv := New(index.Build(c), tagger.Options{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postTag(t *testing.T, ts *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/tag", "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return resp, buf.Bytes()
}

func TestHandleTag(t *testing.T) {
	ts := testServer(t)

	resp, body := postTag(t, ts, `{"tokens": ["نرينك", "بعض"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d; body = %s", resp.StatusCode, body)
	}

	var res tagger.Result
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("response is not a Result: %v", err)
	}
	if len(res.Matches) != 1 {
		t.Fatalf("got %d matches; want 1", len(res.Matches))
	}
	m := res.Matches[0]
	if m.InputStart != 0 || m.InputEnd != 1 || m.QStart != 10 || m.QEnd != 11 {
		t.Errorf("match = %+v", m)
	}
}

func TestHandleTag_Overrides(t *testing.T) {
	ts := testServer(t)

	// min_blocks 3 suppresses the two-word match.
	resp, body := postTag(t, ts, `{"tokens": ["نرينك", "بعض"], "min_blocks": 3}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var res tagger.Result
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Matches) != 0 {
		t.Errorf("got %d matches; want 0", len(res.Matches))
	}
}

func TestHandleTag_BadRequests(t *testing.T) {
	ts := testServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"not json", "tokens"},
		{"empty tokens", `{"tokens": []}`},
		{"bad stopword list", `{"tokens": ["a"], "stopwords": "bogus"}`},
		{"bad min blocks", `{"tokens": ["a"], "min_blocks": -1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := postTag(t, ts, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", resp.StatusCode)
			}
		})
	}
}

func TestHandleInfo(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/info")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var info struct {
		Words    int    `json:"words"`
		Bigrams  int    `json:"bigrams"`
		Checksum string `json:"checksum"`
		Last     string `json:"last_meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info.Words != 14 {
		t.Errorf("words = %d; want 14", info.Words)
	}
	if info.Checksum == "" {
		t.Error("checksum missing")
	}
	if info.Last != "13:40:6" {
		t.Errorf("last_meta = %q; want 13:40:6", info.Last)
	}
}

func TestWebSocketStream(t *testing.T) {
	ts := testServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"tokens": []string{"نرينك", "بعض"}}); err != nil {
		t.Fatal(err)
	}

	var types []string
	for {
		var ev struct {
			Type  string          `json:"type"`
			Match *tagger.Match   `json:"match"`
			Count int             `json:"count"`
			Meta  json.RawMessage `json:"meta"`
		}
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read: %v", err)
		}
		types = append(types, ev.Type)
		if ev.Type == "match" {
			if ev.Match == nil || ev.Match.QStart != 10 {
				t.Errorf("match event = %+v", ev.Match)
			}
			if len(ev.Meta) == 0 {
				t.Error("match event missing meta")
			}
		}
		if ev.Type == "done" {
			if ev.Count != 1 {
				t.Errorf("done count = %d; want 1", ev.Count)
			}
			break
		}
		if ev.Type == "error" {
			t.Fatalf("unexpected error event")
		}
	}
	if len(types) != 2 || types[0] != "match" {
		t.Errorf("event sequence = %v; want [match done]", types)
	}
}

func TestWebSocket_ErrorEvent(t *testing.T) {
	ts := testServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"tokens": []string{}}); err != nil {
		t.Fatal(err)
	}
	var ev struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Type != "error" || ev.Error == "" {
		t.Errorf("event = %+v; want error event", ev)
	}
}
