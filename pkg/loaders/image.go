package loaders

import (
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-bvh-raytracer/pkg/raster"
)

// LoadImage decodes a PNG, JPEG, GIF, TIFF, BMP or WebP file into a float
// image. With srgb set color channels are linearized.
func LoadImage(path string, srgb bool) (*raster.Image, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image file")
	}
	return raster.FromImage(src, srgb), nil
}

// SaveImage encodes the image in the format implied by the extension
func SaveImage(path string, img *raster.Image, srgb bool) error {
	if err := imaging.Save(img.ToImage(srgb), path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return nil
}
