package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Layout is the geometry read from a GeoJSON file. Coordinates are arena
// units: the first coordinate is x and the second is z.
type Layout struct {
	Obstacles []ObstacleSpec
	Routes    map[string][]Point
}

// LoadLayout reads a FeatureCollection. Polygons with kind=obstacle become
// obstacles using their bounding box; LineStrings with a route property
// become named patrol routes. Other features are ignored.
func LoadLayout(path string) (*Layout, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read layout %q: %w", cleanPath, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse layout %q: %w", cleanPath, err)
	}
	return layoutFromFeatures(fc)
}

func layoutFromFeatures(fc *geojson.FeatureCollection) (*Layout, error) {
	l := &Layout{Routes: map[string][]Point{}}
	for i, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			if f.Properties.MustString("kind", "") != "obstacle" {
				continue
			}
			b := g.Bound()
			l.Obstacles = append(l.Obstacles, ObstacleSpec{
				Min:    Point{X: b.Min.X(), Z: b.Min.Y()},
				Max:    Point{X: b.Max.X(), Z: b.Max.Y()},
				Height: f.Properties.MustFloat64("height", 0),
			})
		case orb.LineString:
			name := f.Properties.MustString("route", "")
			if name == "" {
				continue
			}
			if _, dup := l.Routes[name]; dup {
				return nil, fmt.Errorf("feature %d: route %q defined twice", i, name)
			}
			pts := make([]Point, 0, len(g))
			for _, p := range g {
				pts = append(pts, Point{X: p.X(), Z: p.Y()})
			}
			l.Routes[name] = pts
		}
	}
	return l, nil
}

// FeatureCollection renders a scenario's obstacles and inline routes back to
// GeoJSON, the inverse of LoadLayout.
func (s *Scenario) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, o := range s.Obstacles {
		ring := orb.Ring{
			{o.Min.X, o.Min.Z}, {o.Max.X, o.Min.Z}, {o.Max.X, o.Max.Z}, {o.Min.X, o.Max.Z}, {o.Min.X, o.Min.Z},
		}
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["kind"] = "obstacle"
		if o.Height > 0 {
			f.Properties["height"] = o.Height
		}
		fc.Append(f)
	}
	for _, a := range s.Agents {
		if len(a.Waypoints) == 0 {
			continue
		}
		line := make(orb.LineString, 0, len(a.Waypoints))
		for _, p := range a.Waypoints {
			line = append(line, orb.Point{p.X, p.Z})
		}
		f := geojson.NewFeature(line)
		f.Properties["route"] = a.Name
		fc.Append(f)
	}
	return fc
}
