package overpass

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/paulmach/osm"
)

// response is the Overpass API JSON envelope
type response struct {
	Elements []element `json:"elements"`
}

// element is one raw element in Overpass JSON form. Only the fields this
// tool consumes are decoded.
type element struct {
	Type    string            `json:"type"`
	ID      int64             `json:"id"`
	Lat     float64           `json:"lat"`
	Lon     float64           `json:"lon"`
	Nodes   []int64           `json:"nodes"`
	Tags    map[string]string `json:"tags"`
	Members []member          `json:"members"`
}

// member is one relation member reference
type member struct {
	Type string `json:"type"`
	Ref  int64  `json:"ref"`
	Role string `json:"role"`
}

// decode parses an Overpass JSON body into canonical OSM objects.
func decode(data []byte) (*osm.OSM, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse overpass response: %w", err)
	}

	o := &osm.OSM{}
	for _, e := range resp.Elements {
		switch e.Type {
		case "node":
			o.Nodes = append(o.Nodes, &osm.Node{
				ID:   osm.NodeID(e.ID),
				Lat:  e.Lat,
				Lon:  e.Lon,
				Tags: toTags(e.Tags),
			})
		case "way":
			w := &osm.Way{
				ID:   osm.WayID(e.ID),
				Tags: toTags(e.Tags),
			}
			for _, n := range e.Nodes {
				w.Nodes = append(w.Nodes, osm.WayNode{ID: osm.NodeID(n)})
			}
			o.Ways = append(o.Ways, w)
		case "relation":
			r := &osm.Relation{
				ID:   osm.RelationID(e.ID),
				Tags: toTags(e.Tags),
			}
			for _, m := range e.Members {
				r.Members = append(r.Members, osm.Member{
					Type: osm.Type(m.Type),
					Ref:  m.Ref,
					Role: m.Role,
				})
			}
			o.Relations = append(o.Relations, r)
		}
		// Unknown element types are skipped
	}

	return o, nil
}

// toTags converts an Overpass tag map into osm.Tags with a stable order.
func toTags(m map[string]string) osm.Tags {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make(osm.Tags, 0, len(m))
	for _, k := range keys {
		tags = append(tags, osm.Tag{Key: k, Value: m[k]})
	}
	return tags
}
