package scene

import (
	"testing"

	"github.com/wta12/urbanopt-geojson-gem/pkg/spec"
)

func TestZonedSiteWithShading(t *testing.T) {
	opts := testOptions()
	opts.Surrounding = spec.SurroundingShadingOnly
	g := Assemble("0.1.0", convertSite(t, opts))
	if len(g.Entities) == 0 {
		t.Fatal("expected entities for the example site")
	}
	t.Logf("site: %d entities, %d features", len(g.Entities), len(g.Groups.Features))

	for et, ids := range g.Groups.EntityTypes {
		t.Logf("  %s: %d", et, len(ids))
	}
}

func BenchmarkConvertSite(b *testing.B) {
	for i := 0; i < b.N; i++ {
		convertSite(b, testOptions())
	}
}

func BenchmarkConvertSiteWithShading(b *testing.B) {
	opts := testOptions()
	opts.Surrounding = spec.SurroundingShadingOnly
	for i := 0; i < b.N; i++ {
		Assemble("0.1.0", convertSite(b, opts))
	}
}
