package jed

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pborges/logicsyn/internal/gal"
	"github.com/pborges/logicsyn/internal/testutil"
)

func build(t *testing.T, chip gal.Chip) *gal.GAL {
	t.Helper()
	bp := gal.NewBlueprint(chip)
	out := gal.Term{Output: "Out", Pins: [][]gal.Pin{{{Pin: 2}, {Pin: 3, Neg: true}}}}
	bp.OLMC[len(bp.OLMC)-1] = gal.OLMC{Active: gal.ActiveHigh, Output: &out}
	bp.Sig = []byte("LS")
	g, err := gal.BuildGAL(bp)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestRoundTrip(t *testing.T) {
	for _, chip := range []gal.Chip{gal.ChipGAL16V8, gal.ChipGAL22V10} {
		g := build(t, chip)
		text := MakeJEDEC(Config{Header: []string{"logicsyn test", "Device " + chip.Name()}}, g)
		j, err := testutil.ParseJEDEC([]byte(text))
		if err != nil {
			t.Fatalf("%s: %v", chip, err)
		}
		if j.QF != chip.TotalSize() {
			t.Errorf("%s: QF = %d, want %d", chip, j.QF, chip.TotalSize())
		}
		want := testutil.JEDEC{QF: chip.TotalSize(), Fuses: Fuses(g)}
		if diff := testutil.CompareJEDEC(j, want); diff != "" {
			t.Errorf("%s:\n%s", chip, diff)
		}
		if j.Csum != testutil.FuseChecksum(want.Fuses) {
			t.Errorf("%s: checksum %04x, want %04x", chip, j.Csum, testutil.FuseChecksum(want.Fuses))
		}
		if len(j.Header) != 2 || j.Header[0] != "logicsyn test" {
			t.Errorf("%s: header = %q", chip, j.Header)
		}
		if j.G != 0 {
			t.Errorf("%s: G = %d", chip, j.G)
		}
	}
}

func TestSecurityBitAndFraming(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Config{SecurityBit: true}, build(t, gal.ChipGAL16V8)); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	if !strings.HasPrefix(text, "\x02\n*F0\n*G1\n*QF2194\n") {
		t.Errorf("unexpected preamble: %q", text[:20])
	}
	etx := strings.IndexByte(text, 0x03)
	if etx < 0 {
		t.Fatal("missing ETX")
	}
	if tail := text[etx+1:]; len(tail) != 5 || tail[4] != '\n' {
		t.Errorf("file checksum = %q", tail)
	}
	if got := fileChecksum(text[:etx+1]); tail4(text) != hex4(got) {
		t.Errorf("file checksum %s, want %s", tail4(text), hex4(got))
	}
}

func tail4(s string) string { return s[len(s)-5 : len(s)-1] }

func hex4(v uint16) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[v>>12], digits[v>>8&0xf], digits[v>>4&0xf], digits[v&0xf]})
}

func TestSparseRowsSkipped(t *testing.T) {
	g := build(t, gal.ChipGAL16V8)
	text := MakeJEDEC(Config{}, g)
	// Pin 12's OLMC is unused, so its rows (56..63) are cleared and omitted.
	if strings.Contains(text, "*L01792 ") {
		t.Error("cleared logic row should not be written")
	}
	// Pin 19's first row carries the product.
	if !strings.Contains(text, "*L00000 ") {
		t.Error("programmed row missing")
	}
	if len(Fuses(g)) != 2194 {
		t.Errorf("len(Fuses) = %d", len(Fuses(g)))
	}
}

func TestCompareReportsSection(t *testing.T) {
	g := build(t, gal.ChipGAL22V10)
	fuses := Fuses(g)
	want := testutil.JEDEC{QF: len(fuses), Fuses: append([]bool(nil), fuses...)}
	want.Fuses[5808] = !want.Fuses[5808]
	got := testutil.JEDEC{QF: len(fuses), Fuses: fuses}
	diff := testutil.CompareJEDEC(got, want)
	if !strings.Contains(diff, "1 fuse mismatches") || !strings.Contains(diff, "XOR[0]") {
		t.Errorf("diff = %q", diff)
	}
}
