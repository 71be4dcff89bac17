package devtools

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/generator"
	"fogrunner/pkg/game/save"
	"fogrunner/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

func tutorialDump(t *testing.T) Dump {
	t.Helper()
	s := save.New(0)
	return NewDump(s, generator.Generate(s))
}

func TestDump_MapLines(t *testing.T) {
	d := tutorialDump(t)
	want := []string{
		"?-?",
		"  |",
		"  @-?-?-?-?-?",
		"            |",
		"            ?",
	}
	got := d.MapLines(false)
	if len(got) != len(want) {
		t.Fatalf("MapLines() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MapLines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDump_MapLinesShowsProgress(t *testing.T) {
	d := tutorialDump(t)
	d.Floor.Observe(world.Vec2{}, save.DefaultPlayerProperties().ViewDistance)
	d.Player = world.C(5, -1)

	lines := d.MapLines(false)
	if lines[2][2] != symbolRevealed {
		t.Errorf("origin after observing = %q, want %q", lines[2][2], symbolRevealed)
	}
	if lines[4][12] != symbolPlayer {
		t.Errorf("player cell = %q, want %q", lines[4][12], symbolPlayer)
	}
	if !strings.ContainsRune(strings.Join(lines, ""), symbolPartial) {
		t.Errorf("MapLines() = %q, want a partly seen room", lines)
	}
}

func TestDump_MapWindow(t *testing.T) {
	d := tutorialDump(t)
	d.Player = world.C(5, -1)

	want := []string{"?-?-?", "    |", "    @"}
	got := d.MapWindow(3, 5, false)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("MapWindow(3, 5) = %q, want %q", got, want)
	}

	if got := d.MapWindow(50, 50, false); len(got) != 5 {
		t.Errorf("MapWindow(50, 50) has %d lines, want the whole map", len(got))
	}
	if got := d.MapWindow(0, 5, false); got != nil {
		t.Errorf("MapWindow(0, 5) = %q, want nil", got)
	}
}

func TestDump_Write(t *testing.T) {
	var buf bytes.Buffer
	if err := tutorialDump(t).Write(&buf, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"current_floor: 0",
		"rooms: 9",
		"estimated_completion_time: 0.00",
		"x: 5 y: -1 progress: 0.00 revealed: false seen: 0/7 corridors: bottom",
		"x: 0 y: 0 progress: 0.00 revealed: false seen: 0/7 corridors: right,bottom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Write() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Write(colored=false) emitted colour codes")
	}
}

func TestRenderHTML(t *testing.T) {
	html := RenderHTML(tutorialDump(t))
	if !strings.Contains(html, `<span class="player">@</span>`) {
		t.Error("RenderHTML() has no player span")
	}
	if got := strings.Count(html, `class="unseen"`); got != 8 {
		t.Errorf("RenderHTML() has %d unseen rooms, want 8", got)
	}
}

func TestDevLayout(t *testing.T) {
	tests := []struct {
		radius int64
		want   int
	}{
		{-1, 1}, {0, 1}, {1, 9}, {3, 49},
	}
	for _, tt := range tests {
		l := DevLayout(tt.radius)
		if l.Len() != tt.want || !l.Has(world.Origin) || !l.Connected() {
			t.Errorf("DevLayout(%d) has %d rooms, want %d connected around the origin", tt.radius, l.Len(), tt.want)
		}
	}

	res := DevGenerator{Radius: 2}.Generate(save.State{CurrentFloor: 2})
	if res.Layout.Len() != 25 || res.EstimatedCompletionTime != 50 {
		t.Errorf("DevGenerator.Generate() = %d rooms, estimate %v, want 25 and 50", res.Layout.Len(), res.EstimatedCompletionTime)
	}
}

func TestBatch(t *testing.T) {
	results, err := Batch(context.Background(), nil, 0, 1, 4)
	if err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("Batch() returned %d results, want 4", len(results))
	}
	if r := results[0]; r.Floor != 1 || r.Steps != 11 || r.Rooms != 9 {
		t.Errorf("floor 1 = %+v, want 11 steps and 9 rooms", r)
	}
	if r := results[1]; r.Floor != 2 || r.Steps != 14 || r.Rooms != 8 || r.Estimated != 16 {
		t.Errorf("floor 2 = %+v, want 14 steps, 8 rooms, estimate 16", r)
	}

	var buf bytes.Buffer
	if err := WriteBatch(&buf, results); err != nil {
		t.Fatalf("WriteBatch() error = %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 6 {
		t.Errorf("WriteBatch() wrote %d lines, want 6", lines)
	}

	if _, err := Batch(context.Background(), nil, 0, 3, 2); err == nil {
		t.Error("Batch(3..2) error = nil, want error")
	}
}

func TestBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Batch(ctx, nil, 0, 1, 50); err == nil {
		t.Error("Batch() with cancelled context error = nil, want error")
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestInspector_Floor(t *testing.T) {
	h := NewInspector(nil, nil).Handler()

	rec := get(t, h, "/floors/0/1")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /floors/0/1 = %d, want 200", rec.Code)
	}
	var view struct {
		Steps int64 `json:"steps"`
		Rooms []struct {
			X, Y int64
		} `json:"rooms"`
		Seed string `json:"seed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode floor: %v", err)
	}
	if view.Steps != 11 || len(view.Rooms) != 9 || len(view.Seed) != 64 {
		t.Errorf("GET /floors/0/1 = %+v, want 11 steps, 9 rooms, 32-byte seed", view)
	}

	for _, target := range []string{"/floors/x/1", "/floors/0/-1", "/floors/0/1?money=lots", "/floors/0/1?shop=-2"} {
		if rec := get(t, h, target); rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", target, rec.Code)
		}
	}
}

func TestInspector_Shop(t *testing.T) {
	h := NewInspector(nil, nil).Handler()

	rec := get(t, h, "/floors/0/1/shop?shop=0&money=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET shop = %d, want 200", rec.Code)
	}
	var body struct {
		RerollCost int64       `json:"reroll_cost"`
		Offers     []offerView `json:"offers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode shop: %v", err)
	}
	if body.RerollCost != 4 || len(body.Offers) != 3 {
		t.Fatalf("GET shop = %+v, want reroll 4 and 3 offers", body)
	}
	if o := body.Offers[0]; o.Kind != "Cheetah Soul" || o.Price != 4 {
		t.Errorf("first offer = %+v, want Cheetah Soul for $4", o)
	}
}

func TestInspector_Misc(t *testing.T) {
	h := NewInspector(nil, nil).Handler()

	if rec := get(t, h, "/health"); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /health = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, h, "/schema"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "level_seed") {
		t.Errorf("GET /schema = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, h, "/floors/0/0/dump"); !strings.Contains(rec.Body.String(), "rooms: 9") {
		t.Errorf("GET dump = %q", rec.Body.String())
	}
	if rec := get(t, h, "/floors/0/0/map"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `class="player"`) {
		t.Errorf("GET map = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, h, "/live"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /live without a hub = %d, want 404", rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/floors/0/1", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /floors/0/1 = %d, want 405", rec.Code)
	}
}

func TestLive_Publish(t *testing.T) {
	live := NewLive()
	srv := httptest.NewServer(NewInspector(nil, live).Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/live", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for live.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("viewer never registered")
		}
		time.Sleep(time.Millisecond)
	}

	live.Publish(Frame{Phase: "running", Floor: 3, Progress: 0.5})

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got Frame
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Phase != "running" || got.Floor != 3 || got.Progress != 0.5 {
		t.Errorf("received %+v", got)
	}
}
