package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

var ErrUnsupportedImage = errors.New("unsupported image format or corrupt image")

// TransformOptions describes a requested rendition. Zero width/height keep the source size
// on that axis.
type TransformOptions struct {
	Width        uint
	Height       uint
	Fit          string
	MaxDimension uint
}

// Transform decodes a JPEG or PNG, resizes it per opts and re-encodes it in its source
// format. With fit=max the image is scaled to fit inside the box. Otherwise, when both
// dimensions are given, it is scaled to cover the box and the centre is cropped out.
// The aspect ratio is kept in every case.
func Transform(data []byte, opts TransformOptions) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	w, h := clampDimension(opts.Width, opts.MaxDimension), clampDimension(opts.Height, opts.MaxDimension)
	bounds := img.Bounds()
	srcW, srcH := uint(bounds.Dx()), uint(bounds.Dy())

	var out image.Image = img
	switch {
	case w == 0 && h == 0:
		if opts.MaxDimension > 0 && (srcW > opts.MaxDimension || srcH > opts.MaxDimension) {
			out = resize.Thumbnail(opts.MaxDimension, opts.MaxDimension, img, resize.Lanczos3)
		}
	case opts.Fit == FitMax:
		boxW, boxH := w, h
		if boxW == 0 {
			boxW = srcW
		}
		if boxH == 0 {
			boxH = srcH
		}
		out = resize.Thumbnail(boxW, boxH, img, resize.Lanczos3)
	case w == 0 || h == 0:
		// A zero on one axis preserves the aspect ratio.
		out = resize.Resize(w, h, img, resize.Lanczos3)
	default:
		out = fillCrop(img, w, h)
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, out)
	case "jpeg":
		err = jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85})
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode %s rendition: %w", format, err)
	}
	return buf.Bytes(), "image/" + format, nil
}

// fillCrop scales img so that it covers w x h and returns the centred w x h region.
func fillCrop(img image.Image, w, h uint) image.Image {
	b := img.Bounds()
	srcW, srcH := uint(b.Dx()), uint(b.Dy())
	if srcW == 0 || srcH == 0 {
		return img
	}

	// Compare srcW/srcH with w/h without floats.
	scaledW, scaledH := w, h
	if srcW*h > srcH*w {
		scaledW = (srcW*h + srcH - 1) / srcH
	} else {
		scaledH = (srcH*w + srcW - 1) / srcW
	}

	scaled := resize.Resize(scaledW, scaledH, img, resize.Lanczos3)
	sb := scaled.Bounds()
	x0 := sb.Min.X + int(scaledW-w)/2
	y0 := sb.Min.Y + int(scaledH-h)/2
	crop := image.Rect(x0, y0, x0+int(w), y0+int(h))

	if sub, ok := scaled.(interface {
		SubImage(r image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(crop)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	draw.Draw(dst, dst.Bounds(), scaled, crop.Min, draw.Src)
	return dst
}

func clampDimension(v, max uint) uint {
	if max > 0 && v > max {
		return max
	}
	return v
}
