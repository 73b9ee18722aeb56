package shaders

import (
	_ "embed"
	"strconv"
	"strings"
)

//go:embed voronoi_common.wgsl
var voronoiCommonWGSL string

//go:embed voronoi_storage.wgsl
var voronoiStorageWGSL string

//go:embed voronoi_uniform.wgsl
var voronoiUniformWGSL string

// VoronoiStorageWGSL reads the sites from a read-only storage buffer of any length.
var VoronoiStorageWGSL = voronoiStorageWGSL + "\n" + voronoiCommonWGSL

// VoronoiUniformWGSL reads exactly count sites from a uniform buffer.
func VoronoiUniformWGSL(count int) string {
	src := strings.ReplaceAll(voronoiUniformWGSL, "__SITE_COUNT__", strconv.Itoa(count))
	return src + "\n" + voronoiCommonWGSL
}
