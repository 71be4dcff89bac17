package devtools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"fogrunner/pkg/engine/world"
	"fogrunner/pkg/game/generator"
	"fogrunner/pkg/game/save"
	"fogrunner/pkg/game/upgrades"
	"fogrunner/pkg/logger"
)

// Inspector serves read-only debug views of generated floors and, when a
// Live hub is attached, the running session.
type Inspector struct {
	gen    generator.FloorGenerator
	live   *Live
	router *mux.Router
}

// NewInspector returns an inspector generating floors with gen. live may be nil.
func NewInspector(gen generator.FloorGenerator, live *Live) *Inspector {
	if gen == nil {
		gen = generator.DefaultGenerator
	}
	in := &Inspector{gen: gen, live: live, router: mux.NewRouter()}
	in.routes()
	return in
}

func (in *Inspector) routes() {
	r := in.router
	r.HandleFunc("/health", in.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/schema", in.handleSchema).Methods(http.MethodGet)
	r.HandleFunc("/floors/{seed}/{floor}", in.handleFloor).Methods(http.MethodGet)
	r.HandleFunc("/floors/{seed}/{floor}/dump", in.handleDump).Methods(http.MethodGet)
	r.HandleFunc("/floors/{seed}/{floor}/map", in.handleMap).Methods(http.MethodGet)
	r.HandleFunc("/floors/{seed}/{floor}/shop", in.handleShop).Methods(http.MethodGet)
	if in.live != nil {
		r.Handle("/live", in.live)
	}
}

// Handler returns the inspector's routes.
func (in *Inspector) Handler() http.Handler {
	return in.router
}

// Serve listens on addr until ctx is done.
func (in *Inspector) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           in.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("inspector shutdown failed")
		}
	}()

	logger.Log.WithField("addr", addr).Info("inspector listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// stateFromRequest reads the save state named by the path and query:
// /floors/{seed}/{floor}?shop=page&money=n. A shop page puts the state in the shop.
func stateFromRequest(r *http.Request) (save.State, error) {
	vars := mux.Vars(r)
	seed, err := strconv.ParseInt(vars["seed"], 10, 64)
	if err != nil {
		return save.State{}, fmt.Errorf("bad seed %q", vars["seed"])
	}
	fl, err := strconv.ParseInt(vars["floor"], 10, 64)
	if err != nil || fl < 0 {
		return save.State{}, fmt.Errorf("bad floor %q", vars["floor"])
	}

	s := save.New(seed)
	s.CurrentFloor = fl

	q := r.URL.Query()
	if v := q.Get("shop"); v != "" {
		page, err := strconv.ParseInt(v, 10, 32)
		if err != nil || page < 0 {
			return save.State{}, fmt.Errorf("bad shop page %q", v)
		}
		s.InShop = true
		s.ModShopPage = int32(page)
	}
	if v := q.Get("money"); v != "" {
		money, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return save.State{}, fmt.Errorf("bad money %q", v)
		}
		s.Money = money
	}
	return s, nil
}

type roomView struct {
	X        int64   `json:"x"`
	Y        int64   `json:"y"`
	Progress float64 `json:"progress,omitempty"`
}

func roomsOf(layout world.Layout) []roomView {
	coords := layout.Coords()
	rooms := make([]roomView, 0, len(coords))
	for _, c := range coords {
		rooms = append(rooms, roomView{X: c.X, Y: c.Y})
	}
	return rooms
}

type floorView struct {
	BatchResult
	Seed  string     `json:"seed"`
	Rooms []roomView `json:"rooms"`
}

func (in *Inspector) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (in *Inspector) handleSchema(w http.ResponseWriter, r *http.Request) {
	data, err := save.SchemaJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.Write(data)
}

func (in *Inspector) handleFloor(w http.ResponseWriter, r *http.Request) {
	s, err := stateFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := in.gen.Generate(s)
	seed := s.Seed()
	writeJSON(w, floorView{
		BatchResult: Summarise(s, res),
		Seed:        fmt.Sprintf("%x", seed[:]),
		Rooms:       roomsOf(res.Layout),
	})
}

func (in *Inspector) handleDump(w http.ResponseWriter, r *http.Request) {
	s, err := stateFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var buf bytes.Buffer
	if err := NewDump(s, in.gen.Generate(s)).Write(&buf, false); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(buf.Bytes())
}

func (in *Inspector) handleMap(w http.ResponseWriter, r *http.Request) {
	s, err := stateFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(RenderHTML(NewDump(s, in.gen.Generate(s)))))
}

type offerView struct {
	Kind        string  `json:"kind"`
	Value       float64 `json:"value"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	Probability float64 `json:"probability"`
}

func (in *Inspector) handleShop(w http.ResponseWriter, r *http.Request) {
	s, err := stateFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.InShop = true

	sh := upgrades.NewShop(s)
	offers := sh.Offers()
	views := make([]offerView, 0, len(offers))
	for _, o := range offers {
		views = append(views, offerView{
			Kind:        o.Kind.String(),
			Value:       o.Value,
			Name:        o.Name(),
			Description: o.Description(),
			Price:       o.Price(),
			Probability: o.Probability(),
		})
	}
	writeJSON(w, map[string]any{
		"reroll_cost": sh.RerollCost(),
		"offers":      views,
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("write json response failed")
	}
}
