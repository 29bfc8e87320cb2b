package pattern

import "encoding/binary"

// Range is a half-open [Start, End) span of relative addresses.
type Range struct {
	Start uint32
	End   uint32
}

// Image is the view a Scanner needs: the module's mapped bytes, indexed
// by relative address, and the executable spans to scan.
type Image interface {
	Bytes() []byte
	CodeRanges() []Range
}

// Scanner matches compiled patterns against one module image.
type Scanner struct {
	img Image
}

func NewScanner(img Image) Scanner {
	return Scanner{img: img}
}

// FindsCode scans the image's executable ranges left to right and
// reports whether the pattern matches anywhere. The first matching
// position wins. On success the capture slots are stored into save
// (slot 0 is the match start); slots beyond len(save) are discarded.
// On failure save is left unspecified.
func (s Scanner) FindsCode(p *Pattern, save []uint32) bool {
	buf := s.img.Bytes()
	for _, r := range s.img.CodeRanges() {
		end := r.End
		if end > uint32(len(buf)) {
			end = uint32(len(buf))
		}
		for pos := r.Start; pos < end; pos++ {
			if matchAt(p, buf, pos, save) {
				return true
			}
		}
	}
	return false
}

// matchAt attempts a full match with the first token at pos. Follow
// targets and skips may land anywhere in the buffer; only the scan
// start is confined to code ranges.
func matchAt(p *Pattern, buf []byte, pos uint32, save []uint32) bool {
	var stack [8]uint32
	depth := 0
	cur := uint64(pos)
	slot := 1
	size := uint64(len(buf))

	if len(save) > 0 {
		save[0] = pos
	}

	for _, a := range p.atoms {
		switch a.Op {
		case OpByte:
			if cur >= size || buf[cur] != byte(a.Arg) {
				return false
			}
			cur++
		case OpSkip:
			cur += uint64(a.Arg)
			if cur > size {
				return false
			}
		case OpSave:
			if slot < len(save) {
				save[slot] = uint32(cur)
			}
			slot++
		case OpRead:
			if cur+uint64(a.Arg) > size {
				return false
			}
			var v uint32
			switch a.Arg {
			case 1:
				v = uint32(buf[cur])
			case 2:
				v = uint32(binary.LittleEndian.Uint16(buf[cur:]))
			case 4:
				v = binary.LittleEndian.Uint32(buf[cur:])
			}
			if slot < len(save) {
				save[slot] = v
			}
			slot++
			cur += uint64(a.Arg)
		case OpFollow:
			if cur+4 > size || depth == len(stack) {
				return false
			}
			disp := int32(binary.LittleEndian.Uint32(buf[cur:]))
			target := int64(cur) + 4 + int64(disp)
			if target < 0 || target >= int64(size) {
				return false
			}
			stack[depth] = uint32(cur + 4)
			depth++
			cur = uint64(target)
		case OpReturn:
			depth--
			cur = uint64(stack[depth])
		}
	}
	return true
}
