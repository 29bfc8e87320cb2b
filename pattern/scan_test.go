package pattern

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memImage struct {
	data []byte
	code []Range
}

func (m memImage) Bytes() []byte       { return m.data }
func (m memImage) CodeRanges() []Range { return m.code }

// put copies b into img at pos.
func put(img []byte, pos uint32, b ...byte) {
	copy(img[pos:], b)
}

func TestFindsCodeLiteral(t *testing.T) {
	img := make([]byte, 0x100)
	put(img, 0x40, 0xde, 0xad, 0xbe, 0xef)
	s := NewScanner(memImage{img, []Range{{0x00, 0x100}}})

	save := make([]uint32, 2)
	ok := s.FindsCode(MustCompile("dead'beef"), save)
	require.True(t, ok)
	assert.Equal(t, uint32(0x40), save[0])
	assert.Equal(t, uint32(0x42), save[1])
}

func TestFindsCodeMiss(t *testing.T) {
	img := make([]byte, 0x100)
	s := NewScanner(memImage{img, []Range{{0x00, 0x100}}})
	assert.False(t, s.FindsCode(MustCompile("deadbeef"), make([]uint32, 1)))
}

func TestFindsCodeFirstMatchWins(t *testing.T) {
	img := make([]byte, 0x100)
	put(img, 0x20, 0x48, 0x85, 0xf6)
	put(img, 0x60, 0x48, 0x85, 0xf6)
	s := NewScanner(memImage{img, []Range{{0x00, 0x100}}})

	save := make([]uint32, 1)
	require.True(t, s.FindsCode(MustCompile("4885f6"), save))
	assert.Equal(t, uint32(0x20), save[0])
}

func TestFindsCodeConfinedToRanges(t *testing.T) {
	img := make([]byte, 0x100)
	put(img, 0x80, 0xde, 0xad, 0xbe, 0xef)
	s := NewScanner(memImage{img, []Range{{0x00, 0x40}}})
	assert.False(t, s.FindsCode(MustCompile("deadbeef"), make([]uint32, 1)))
}

func TestWildcardAndGap(t *testing.T) {
	img := make([]byte, 0x100)
	put(img, 0x10, 0x48, 0x99, 0x11, 0x22, 0x33, 0x44, 0x55, 0xc3)
	s := NewScanner(memImage{img, []Range{{0x00, 0x100}}})

	save := make([]uint32, 1)
	require.True(t, s.FindsCode(MustCompile("48?[5]c3"), save))
	assert.Equal(t, uint32(0x10), save[0])
}

func TestValueCapture(t *testing.T) {
	img := make([]byte, 0x100)
	put(img, 0x30, 0x8b, 0x81, 0x44, 0x33, 0x22, 0x11, 0x8b, 0x02)
	s := NewScanner(memImage{img, []Range{{0x00, 0x100}}})

	save := make([]uint32, 2)
	require.True(t, s.FindsCode(MustCompile("8b81u4 8b02"), save))
	assert.Equal(t, uint32(0x30), save[0])
	assert.Equal(t, uint32(0x11223344), save[1])

	save2 := make([]uint32, 2)
	require.True(t, s.FindsCode(MustCompile("8b81u2"), save2))
	assert.Equal(t, uint32(0x3344), save2[1])
}

func TestFollowCapturesTarget(t *testing.T) {
	img := make([]byte, 0x100)
	// mov [rip+disp], rax at 0x10; the displacement is relative to the
	// end of the 4 disp bytes, so target = 0x10 + 3 + 4 + disp.
	target := uint32(0x80)
	disp := int32(target) - (0x10 + 3 + 4)
	put(img, 0x10, 0x48, 0x89, 0x05)
	binary.LittleEndian.PutUint32(img[0x13:], uint32(disp))
	put(img, 0x17, 0x0f, 0x57, 0xc0)
	s := NewScanner(memImage{img, []Range{{0x00, 0x40}}})

	save := make([]uint32, 2)
	require.True(t, s.FindsCode(MustCompile("488905${'} 0f57c0"), save))
	assert.Equal(t, uint32(0x10), save[0])
	assert.Equal(t, target, save[1])
}

func TestFollowWithGap(t *testing.T) {
	img := make([]byte, 0x100)
	target := uint32(0x60)
	disp := int32(target) - (0x20 + 3 + 4)
	put(img, 0x20, 0x48, 0x8d, 0x0d)
	binary.LittleEndian.PutUint32(img[0x23:], uint32(disp))
	s := NewScanner(memImage{img, []Range{{0x00, 0x40}}})

	save := make([]uint32, 2)
	require.True(t, s.FindsCode(MustCompile("488d0d${[8]'}"), save))
	assert.Equal(t, target+8, save[1])
}

func TestFollowSubpatternMustMatch(t *testing.T) {
	img := make([]byte, 0x100)
	target := uint32(0x60)
	disp := int32(target) - (0x20 + 3 + 4)
	put(img, 0x20, 0x48, 0x8b, 0x05)
	binary.LittleEndian.PutUint32(img[0x23:], uint32(disp))
	s := NewScanner(memImage{img, []Range{{0x00, 0x40}}})

	// The byte at the follow target is 0x00, not 0xcc.
	assert.False(t, s.FindsCode(MustCompile("488b05${cc}"), make([]uint32, 1)))

	put(img, target, 0xcc)
	assert.True(t, s.FindsCode(MustCompile("488b05${cc}"), make([]uint32, 1)))
}

func TestFollowOutOfBounds(t *testing.T) {
	img := make([]byte, 0x40)
	put(img, 0x10, 0xe8, 0xff, 0xff, 0xff, 0x7f)
	s := NewScanner(memImage{img, []Range{{0x00, 0x40}}})
	assert.False(t, s.FindsCode(MustCompile("e8${}"), make([]uint32, 1)))
}

func TestFollowResumesAfterDisplacement(t *testing.T) {
	img := make([]byte, 0x100)
	target := uint32(0x80)
	disp := int32(target) - (0x10 + 1 + 4)
	put(img, 0x10, 0xe8)
	binary.LittleEndian.PutUint32(img[0x11:], uint32(disp))
	put(img, 0x15, 0x84, 0xc0)
	s := NewScanner(memImage{img, []Range{{0x00, 0x40}}})

	// The bytes after the call displacement must still match once the
	// cursor returns from the follow target.
	require.True(t, s.FindsCode(MustCompile("e8${} 84c0"), make([]uint32, 1)))
	assert.False(t, s.FindsCode(MustCompile("e8${} 84c1"), make([]uint32, 1)))
}

func TestShortSaveDiscardsExtraCaptures(t *testing.T) {
	img := make([]byte, 0x100)
	put(img, 0x10, 0xde, 0xad, 0xbe, 0xef)
	s := NewScanner(memImage{img, []Range{{0x00, 0x100}}})

	p := MustCompile("de'ad'be'ef")
	require.Equal(t, 4, p.SaveLen())

	save := make([]uint32, 2)
	require.True(t, s.FindsCode(p, save))
	assert.Equal(t, uint32(0x10), save[0])
	assert.Equal(t, uint32(0x11), save[1])
}
