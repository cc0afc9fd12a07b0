// Package export writes generated scene layers to Wavefront OBJ files, one
// file per layer. Vertex colors use the common OBJ extension of appending
// r g b components to each vertex line.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wegman-software/osm2scene-go/internal/logger"
	"github.com/wegman-software/osm2scene-go/internal/scene"
)

// WriteScene writes every layer collection into dir, creating it if needed.
// Returns the written file paths.
func WriteScene(dir string, layers []*scene.Collection) ([]string, error) {
	log := logger.Get()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, layer := range layers {
		path := filepath.Join(dir, layer.Kind+".obj")
		if err := writeLayer(path, layer); err != nil {
			return nil, fmt.Errorf("failed to write layer %s: %w", layer.Kind, err)
		}
		log.Info("Wrote layer",
			zap.String("file", path),
			zap.Int("records", len(layer.Records)))
		paths = append(paths, path)
	}
	return paths, nil
}

func writeLayer(path string, layer *scene.Collection) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# %s\n", layer.Name)
	fmt.Fprintf(w, "# units: %s\n", layer.Units)
	if len(layer.Records) > 0 && layer.Records[0].SourceData != "" {
		fmt.Fprintf(w, "# source: %s %s\n", layer.Records[0].SourceData, layer.Records[0].SourceURL)
	}

	// OBJ face indices are global to the file and 1-based.
	offset := 1
	for ri, rec := range layer.Records {
		for mi, mesh := range rec.Meshes {
			if mesh == nil {
				continue
			}
			name := objectName(layer.Kind, rec.Class, ri, mi)
			fmt.Fprintf(w, "o %s\n", name)

			for v := 0; v < len(mesh.Vertices); v += 3 {
				r, g, b := splitARGB(mesh.Colors[v/3])
				fmt.Fprintf(w, "v %g %g %g %.4f %.4f %.4f\n",
					mesh.Vertices[v], mesh.Vertices[v+1], mesh.Vertices[v+2], r, g, b)
			}

			for i := 0; i < len(mesh.Faces); {
				n := mesh.Faces[i]
				fmt.Fprint(w, "f")
				for _, idx := range mesh.Faces[i+1 : i+1+n] {
					fmt.Fprintf(w, " %d", offset+idx)
				}
				fmt.Fprintln(w)
				i += n + 1
			}
			offset += mesh.VertexCount()
		}
	}

	return w.Flush()
}

func objectName(kind, class string, rec, mesh int) string {
	class = strings.ReplaceAll(strings.TrimSpace(class), " ", "_")
	if class == "" {
		class = kind
	}
	return fmt.Sprintf("%s_%03d_%d", class, rec, mesh)
}

// splitARGB unpacks an ARGB int into normalized r, g, b.
func splitARGB(c int) (r, g, b float64) {
	r = float64((c>>16)&0xff) / 255
	g = float64((c>>8)&0xff) / 255
	b = float64(c&0xff) / 255
	return
}
