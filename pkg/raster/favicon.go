package raster

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fulmenhq/brandkit/pkg/safeio"
)

const faviconRenderWidth = 1024

// Favicon names one generated icon.
type Favicon struct {
	Name string
	Size int
}

// DefaultFavicons are written next to the source icon. favicon.ico holds
// PNG data; browsers accept it.
var DefaultFavicons = []Favicon{
	{Name: "apple-touch-icon.png", Size: 180},
	{Name: "favicon.png", Size: 32},
}

// IcoName is the copy of favicon.png written for legacy lookups.
const IcoName = "favicon.ico"

// Favicons renders svg once at high resolution and writes the scaled
// icons into dir, returning the paths written.
func Favicons(svg []byte, dir string) ([]string, error) {
	img, err := rasterize(svg, faviconRenderWidth)
	if err != nil {
		return nil, err
	}

	var written []string
	var small []byte
	for _, f := range DefaultFavicons {
		scaled := imaging.Resize(img, f.Size, f.Size, imaging.Lanczos)
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, scaled, imaging.PNG); err != nil {
			return written, fmt.Errorf("encode %s: %w", f.Name, err)
		}
		path := filepath.Join(dir, f.Name)
		if _, err := safeio.WriteFileIfChanged(path, buf.Bytes()); err != nil {
			return written, err
		}
		written = append(written, path)
		if f.Name == "favicon.png" {
			small = buf.Bytes()
		}
	}

	if small != nil {
		path := filepath.Join(dir, IcoName)
		if _, err := safeio.WriteFileIfChanged(path, small); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
