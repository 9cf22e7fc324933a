package scene

import (
	"fmt"

	"github.com/wta12/urbanopt-geojson-gem/pkg/geo"
	"github.com/wta12/urbanopt-geojson-gem/pkg/validation"
)

// boundsTolerance is the slack allowed between entity vertices and the site
// bounds, in meters.
const boundsTolerance = 1.0

// ValidateGraph performs structural validation on a scene graph output.
// It checks entity integrity, group index consistency, bounds enclosure and
// polygon orientation.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelGeometry,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateGroupIndices(g, r)
	validateGroupMembership(g, r)
	validateBoundsEnclosure(g, r)
	validateEntityPolygons(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

func validateGroupIndices(g *Graph, r *validation.Report) {
	entityIDs := make(map[string]bool, len(g.Entities))
	for _, e := range g.Entities {
		entityIDs[e.ID] = true
	}

	checkGroup := func(groupType, groupName string, ids []string) {
		for _, id := range ids {
			if !entityIDs[id] {
				r.AddError(validation.Result{
					Level:       validation.LevelGeometry,
					Message:     fmt.Sprintf("group %s.%s references non-existent entity %q", groupType, groupName, id),
					Path:        fmt.Sprintf("groups.%s.%s", groupType, groupName),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
			}
		}
	}

	for name, ids := range g.Groups.Features {
		checkGroup("features", name, ids)
	}
	for name, ids := range g.Groups.Stories {
		checkGroup("stories", name, ids)
	}
	for name, ids := range g.Groups.Layers {
		checkGroup("layers", string(name), ids)
	}
	for name, ids := range g.Groups.EntityTypes {
		checkGroup("entity_types", string(name), ids)
	}
}

func memberSets[K ~string](groups map[K][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(groups))
	for name, ids := range groups {
		m := make(map[string]bool, len(ids))
		for _, id := range ids {
			m[id] = true
		}
		out[string(name)] = m
	}
	return out
}

func validateGroupMembership(g *Graph, r *validation.Report) {
	groups := []struct {
		name    string
		members map[string]map[string]bool
		key     func(Entity) string
	}{
		{"layers", memberSets(g.Groups.Layers), func(e Entity) string { return string(e.Layer) }},
		{"entity_types", memberSets(g.Groups.EntityTypes), func(e Entity) string { return string(e.Type) }},
		{"features", memberSets(g.Groups.Features), func(e Entity) string { return e.Feature }},
		{"stories", memberSets(g.Groups.Stories), func(e Entity) string {
			if e.Story == nil {
				return ""
			}
			return storyKey(*e.Story)
		}},
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}
		for _, grp := range groups {
			key := grp.key(e)
			if key == "" {
				continue
			}
			m, ok := grp.members[key]
			switch {
			case !ok:
				r.AddError(validation.Result{
					Level:       validation.LevelGeometry,
					Message:     fmt.Sprintf("entity %q belongs to %s %q but no such group exists", e.ID, grp.name, key),
					Path:        "groups." + grp.name,
					ActualValue: key,
				})
			case !m[e.ID]:
				r.AddError(validation.Result{
					Level:       validation.LevelGeometry,
					Message:     fmt.Sprintf("entity %q belongs to %s %q but is not in the group", e.ID, grp.name, key),
					Path:        fmt.Sprintf("groups.%s.%s", grp.name, key),
					ActualValue: e.ID,
				})
			}
		}
	}
}

func outside(v, lo, hi float64) bool {
	return v < lo-boundsTolerance || v > hi+boundsTolerance
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	bounds := g.Metadata.SiteBounds

	for _, e := range g.Entities {
		for _, v := range e.Vertices {
			if outside(v.X, bounds.Min.X, bounds.Max.X) ||
				outside(v.Y, bounds.Min.Y, bounds.Max.Y) ||
				outside(v.Z, bounds.Min.Z, bounds.Max.Z) {
				r.AddWarning(validation.Result{
					Level:       validation.LevelGeometry,
					Message:     fmt.Sprintf("entity %q vertex (%.1f, %.1f, %.1f) outside site bounds", e.ID, v.X, v.Y, v.Z),
					Path:        "metadata.site_bounds",
					ActualValue: e.ID,
				})
				return
			}
		}
	}
}

// validateEntityPolygons checks that every entity is a proper polygon facing
// the way its type requires: floor prints, zones and shading point down,
// roof panels point up.
func validateEntityPolygons(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		path := fmt.Sprintf("entities.%s.vertices", e.ID)
		if len(e.Vertices) < 3 {
			r.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("entity %q has %d vertices", e.ID, len(e.Vertices)),
				Path:        path,
				ActualValue: len(e.Vertices),
				Expected:    "at least 3 vertices",
			})
			continue
		}

		n, ok := geo.NewPolygon(e.Vertices...).OutwardNormal()
		if !ok {
			r.AddWarning(validation.Result{
				Level:   validation.LevelGeometry,
				Message: fmt.Sprintf("entity %q is degenerate", e.ID),
				Path:    path,
			})
			continue
		}

		wantUp := e.Type == EntityRoofPanel
		if (n.Z > 0) != wantUp {
			expected := "downward normal"
			if wantUp {
				expected = "upward normal"
			}
			r.AddWarning(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     fmt.Sprintf("entity %q of type %s faces the wrong way", e.ID, e.Type),
				Path:        path,
				ActualValue: fmt.Sprintf("(%.2f, %.2f, %.2f)", n.X, n.Y, n.Z),
				Expected:    expected,
			})
		}
	}
}
