package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Brownie44l1/leaf-api/internal/model"
)

var ErrUndecodable = errors.New("not a decodable image")

// Processor turns a stored upload into the model's input batch.
type Processor struct {
	size uint
}

func NewProcessor() *Processor {
	return &Processor{size: model.ImageSize}
}

// Process decodes r, forces RGB, resizes to the model resolution and
// returns a batch of one.
func (p *Processor) Process(r io.Reader) (*model.Batch, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}

	resized := p.Resize(ToRGB(img))
	return ToBatch(resized), nil
}

// Decode reads any registered image format. The format is sniffed from the
// content, not taken from the filename.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if format == "gif" {
		restoreTransparentEntry(data, img)
	}
	return img, nil
}

// ToRGB copies img into an opaque NRGBA image. Alpha is dropped without
// compositing, so the stored color of a transparent pixel survives. For
// paletted images that is the palette entry's color.
func ToRGB(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.NRGBA:
		// straight copy keeps the unpremultiplied values exact
		for y := 0; y < b.Dy(); y++ {
			from := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[from:from+b.Dx()*4])
		}
	case *image.Paletted:
		palette := make([]color.NRGBA, len(src.Palette))
		for i, c := range src.Palette {
			palette[i] = unpremultiplied(c)
		}
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				idx := int(src.ColorIndexAt(b.Min.X+x, b.Min.Y+y))
				if idx < len(palette) {
					dst.SetNRGBA(x, y, palette[idx])
				}
			}
		}
	case *image.NRGBA64:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := src.NRGBA64At(b.Min.X+x, b.Min.Y+y)
				dst.SetNRGBA(x, y, color.NRGBA{R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8)})
			}
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				dst.SetNRGBA(x, y, unpremultiplied(img.At(b.Min.X+x, b.Min.Y+y)))
			}
		}
	}

	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// unpremultiplied returns c in non-premultiplied form. Colors that already
// are (NRGBA, NRGBA64) keep their channels even at zero alpha.
func unpremultiplied(c color.Color) color.NRGBA {
	switch v := c.(type) {
	case color.NRGBA:
		return v
	case color.NRGBA64:
		return color.NRGBA{R: uint8(v.R >> 8), G: uint8(v.G >> 8), B: uint8(v.B >> 8), A: uint8(v.A >> 8)}
	default:
		return color.NRGBAModel.Convert(c).(color.NRGBA)
	}
}

// Resize stretches img to size x size ignoring the aspect ratio. An image
// already at that size is returned as is.
func (p *Processor) Resize(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == int(p.size) && b.Dy() == int(p.size) {
		return img
	}

	out := resize.Resize(p.size, p.size, img, resize.Bicubic)
	if nrgba, ok := out.(*image.NRGBA); ok {
		return nrgba
	}
	return ToRGB(out)
}

// ToBatch lays img out as NHWC float32 pixel values in 0..255.
func ToBatch(img *image.NRGBA) *model.Batch {
	batch := model.NewBatch()
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			src := row[x*4:]
			dst := (y*width + x) * model.Channels
			batch.Data[dst] = float32(src[0])
			batch.Data[dst+1] = float32(src[1])
			batch.Data[dst+2] = float32(src[2])
		}
	}

	return batch
}
