// Package jed writes GAL fuse maps as JEDEC programmer files.
package jed

import (
	"fmt"
	"io"
	"strings"

	"github.com/pborges/logicsyn/internal/gal"
)

type Config struct {
	SecurityBit bool
	// Header lines are written verbatim between STX and the first field.
	Header []string
}

// section is a run of fuses written on its own *L line. Logic sections
// made only of cleared fuses are skipped; the device default is cleared.
type section struct {
	bits   []bool
	sparse bool
}

func sections(g *gal.GAL) []section {
	var out []section
	rowLen := g.Chip.NumCols()
	for row := 0; row < len(g.Fuses); row += rowLen {
		out = append(out, section{bits: g.Fuses[row : row+rowLen], sparse: true})
	}
	if g.Chip == gal.ChipGAL22V10 {
		pairs := make([]bool, 0, 2*len(g.Xor))
		for i := 0; i < len(g.Xor) && i < len(g.AC1); i++ {
			pairs = append(pairs, g.Xor[i], g.AC1[i])
		}
		out = append(out, section{bits: pairs}, section{bits: g.Sig})
		return out
	}
	return append(out,
		section{bits: g.Xor},
		section{bits: g.Sig},
		section{bits: g.AC1},
		section{bits: g.PT},
		section{bits: []bool{g.Syn}},
		section{bits: []bool{g.AC0}},
	)
}

// Fuses returns the full fuse vector in JEDEC order.
func Fuses(g *gal.GAL) []bool {
	out := make([]bool, 0, g.Chip.TotalSize())
	for _, s := range sections(g) {
		out = append(out, s.bits...)
	}
	return out
}

// MakeJEDEC generates a JEDEC string for the given GAL.
func MakeJEDEC(cfg Config, g *gal.GAL) string {
	var buf strings.Builder
	buf.WriteByte(0x02)
	buf.WriteByte('\n')
	for _, line := range cfg.Header {
		buf.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			buf.WriteByte('\n')
		}
	}
	buf.WriteString("*F0\n")
	if cfg.SecurityBit {
		buf.WriteString("*G1\n")
	} else {
		buf.WriteString("*G0\n")
	}
	fmt.Fprintf(&buf, "*QF%d\n", g.Chip.TotalSize())

	fb := &fuseBuilder{buf: &buf}
	for _, s := range sections(g) {
		if s.sparse && !anyTrue(s.bits) {
			fb.skip(s.bits)
			continue
		}
		fb.add(s.bits)
	}
	fb.checksum()
	buf.WriteString("*\n")
	buf.WriteByte(0x03)
	fmt.Fprintf(&buf, "%04x\n", fileChecksum(buf.String()))
	return buf.String()
}

// Write writes the JEDEC text for g to w.
func Write(w io.Writer, cfg Config, g *gal.GAL) error {
	_, err := io.WriteString(w, MakeJEDEC(cfg, g))
	return err
}

func anyTrue(bits []bool) bool {
	for _, b := range bits {
		if b {
			return true
		}
	}
	return false
}

type fuseBuilder struct {
	buf      *strings.Builder
	cs       Checksum
	idx      int
	openLine bool
}

func (f *fuseBuilder) add(bits []bool) {
	for _, b := range bits {
		f.addBit(b)
	}
	f.endLine()
}

func (f *fuseBuilder) skip(bits []bool) {
	for range bits {
		f.cs.Add(false)
		f.idx++
	}
}

func (f *fuseBuilder) addBit(b bool) {
	if !f.openLine {
		fmt.Fprintf(f.buf, "*L%05d ", f.idx)
		f.openLine = true
	}
	if b {
		f.buf.WriteByte('1')
	} else {
		f.buf.WriteByte('0')
	}
	f.cs.Add(b)
	f.idx++
}

func (f *fuseBuilder) endLine() {
	if f.openLine {
		f.buf.WriteByte('\n')
		f.openLine = false
	}
}

func (f *fuseBuilder) checksum() {
	f.endLine()
	fmt.Fprintf(f.buf, "*C%04x\n", f.cs.Sum())
}

// Checksum is the JEDEC fuse checksum: fuses packed LSB first into bytes,
// summed modulo 2^16.
type Checksum struct {
	bitNum uint8
	byte   uint8
	sum    uint16
}

func (c *Checksum) Add(bit bool) {
	if bit {
		c.byte |= 1 << c.bitNum
	}
	c.bitNum++
	if c.bitNum == 8 {
		c.sum += uint16(c.byte)
		c.byte = 0
		c.bitNum = 0
	}
}

func (c *Checksum) Sum() uint16 {
	return c.sum + uint16(c.byte)
}

// fileChecksum sums every byte from STX through ETX.
func fileChecksum(s string) uint16 {
	var sum uint16
	for i := 0; i < len(s); i++ {
		sum += uint16(s[i])
	}
	return sum
}
