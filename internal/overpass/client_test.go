package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wegman-software/osm2scene-go/internal/proj"
)

var testBBox = proj.BBox{MinLat: 52.51, MinLon: 13.39, MaxLat: 52.53, MaxLon: 13.42}

func TestBuildQuery(t *testing.T) {
	q := buildQuery("building", testBBox)

	for _, want := range []string{
		"[out:json];",
		`node["building"]`,
		`way["building"]`,
		`relation["building"]`,
		");out body;>;out skel qt;",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
}

func TestFetchElements(t *testing.T) {
	body := `{"elements":[
		{"type":"node","id":1,"lat":52.52,"lon":13.405},
		{"type":"node","id":2,"lat":52.521,"lon":13.406,"tags":{"natural":"tree"}},
		{"type":"way","id":10,"nodes":[1,2],"tags":{"building":"yes","height":"12"}},
		{"type":"relation","id":20,"tags":{"building":"yes"},
		 "members":[{"type":"way","ref":10,"role":"outer"}]}
	]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("data") == "" {
			t.Error("missing data form field")
		}
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	o, err := c.FetchElements(context.Background(), "building", testBBox)
	if err != nil {
		t.Fatalf("FetchElements: %v", err)
	}

	if len(o.Nodes) != 2 || len(o.Ways) != 1 || len(o.Relations) != 1 {
		t.Fatalf("decoded %d nodes, %d ways, %d relations",
			len(o.Nodes), len(o.Ways), len(o.Relations))
	}
	if got := o.Ways[0].Tags.Find("height"); got != "12" {
		t.Errorf("way height tag = %q, want 12", got)
	}
	if got := len(o.Ways[0].Nodes); got != 2 {
		t.Errorf("way has %d node refs, want 2", got)
	}
	if got := o.Relations[0].Members[0].Ref; got != 10 {
		t.Errorf("relation member ref = %d, want 10", got)
	}
	if o.Nodes[0].Lat != 52.52 {
		t.Errorf("node lat = %f, want 52.52", o.Nodes[0].Lat)
	}
}

func TestFetchElementsRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"elements":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.retryDelay = 10 * time.Millisecond

	o, err := c.FetchElements(context.Background(), "highway", testBBox)
	if err != nil {
		t.Fatalf("FetchElements: %v", err)
	}
	if calls != 3 {
		t.Errorf("server called %d times, want 3", calls)
	}
	if len(o.Nodes) != 0 || len(o.Ways) != 0 {
		t.Error("expected an empty element set")
	}
}

func TestFetchElementsExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.maxRetries = 1
	c.retryDelay = 10 * time.Millisecond

	if _, err := c.FetchElements(context.Background(), "highway", testBBox); err == nil {
		t.Error("expected an error after exhausting retries")
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := decode([]byte("not json")); err == nil {
		t.Error("expected a decode error")
	}
}

func TestDecodeSkipsUnknownTypes(t *testing.T) {
	o, err := decode([]byte(`{"elements":[{"type":"area","id":5}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(o.Nodes)+len(o.Ways)+len(o.Relations) != 0 {
		t.Error("unknown element type should be skipped")
	}
}
