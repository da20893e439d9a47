package imageprocessor

import (
	"image"
	"image/color"
)

// The gif decoder blanks the transparent palette entry to zero. The colour
// stored in the file is what an RGB conversion must see, so it is read back
// from the first frame's colour table.
func restoreTransparentEntry(data []byte, img image.Image) {
	pm, ok := img.(*image.Paletted)
	if !ok {
		return
	}
	table, index, ok := firstFrameColorTable(data)
	if !ok || index >= len(pm.Palette) || 3*index+2 >= len(table) {
		return
	}
	pm.Palette[index] = color.NRGBA{R: table[3*index], G: table[3*index+1], B: table[3*index+2]}
}

// firstFrameColorTable walks the GIF block structure up to the first image
// descriptor and returns the colour table that frame uses together with its
// transparent index. ok is false when the frame has no transparent index.
func firstFrameColorTable(data []byte) (table []byte, index int, ok bool) {
	const headerLen = 13
	if len(data) < headerLen {
		return nil, 0, false
	}

	pos := headerLen
	if flags := data[10]; flags&0x80 != 0 {
		size := 3 * (2 << (flags & 0x07))
		if pos+size > len(data) {
			return nil, 0, false
		}
		table = data[pos : pos+size]
		pos += size
	}

	index = -1
	for pos < len(data) {
		switch data[pos] {
		case 0x21: // extension
			if pos+1 >= len(data) {
				return nil, 0, false
			}
			label := data[pos+1]
			pos += 2
			if label == 0xf9 && pos+5 <= len(data) && data[pos] == 4 && data[pos+1]&0x01 != 0 {
				index = int(data[pos+4])
			}
			for pos < len(data) && data[pos] != 0 {
				pos += int(data[pos]) + 1
			}
			pos++
		case 0x2c: // image descriptor
			if pos+10 > len(data) {
				return nil, 0, false
			}
			if flags := data[pos+9]; flags&0x80 != 0 {
				size := 3 * (2 << (flags & 0x07))
				start := pos + 10
				if start+size > len(data) {
					return nil, 0, false
				}
				table = data[start : start+size]
			}
			return table, index, index >= 0 && table != nil
		default:
			return nil, 0, false
		}
	}
	return nil, 0, false
}
