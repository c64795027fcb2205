// Package testutil reads JEDEC files back for tests.
package testutil

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

type JEDEC struct {
	QF    int
	G     int
	Fuses []bool
	Csum  uint16
	// Header holds the lines between STX and the first field.
	Header []string
}

// ParseJEDEC reads the fields the writer emits. Fuses not named by an *L
// line are cleared.
func ParseJEDEC(data []byte) (JEDEC, error) {
	var j JEDEC
	s := strings.TrimPrefix(string(data), "\x02")
	if idx := strings.IndexByte(s, 0x03); idx >= 0 {
		s = s[:idx]
	}
	fuses := map[int]bool{}
	maxIndex := -1
	inFields := false
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "*") {
			if !inFields {
				j.Header = append(j.Header, line)
			}
			continue
		}
		inFields = true
		var err error
		switch {
		case strings.HasPrefix(line, "*QF"):
			j.QF, err = strconv.Atoi(strings.TrimSpace(line[3:]))
		case strings.HasPrefix(line, "*G"):
			j.G, err = strconv.Atoi(strings.TrimSpace(line[2:]))
		case strings.HasPrefix(line, "*C"):
			var cs uint64
			cs, err = strconv.ParseUint(strings.TrimSpace(line[2:]), 16, 16)
			j.Csum = uint16(cs)
		case strings.HasPrefix(line, "*L"):
			parts := strings.SplitN(line[2:], " ", 2)
			if len(parts) != 2 {
				return j, fmt.Errorf("invalid L line: %q", line)
			}
			off, aerr := strconv.Atoi(parts[0])
			if aerr != nil {
				return j, aerr
			}
			for i, ch := range strings.TrimSpace(parts[1]) {
				if ch != '0' && ch != '1' {
					return j, fmt.Errorf("invalid bit %q", ch)
				}
				fuses[off+i] = ch == '1'
				if off+i > maxIndex {
					maxIndex = off + i
				}
			}
		}
		if err != nil {
			return j, err
		}
	}
	if err := scanner.Err(); err != nil {
		return j, err
	}
	if j.QF == 0 {
		j.QF = maxIndex + 1
	}
	j.Fuses = make([]bool, j.QF)
	for i, v := range fuses {
		if i < j.QF {
			j.Fuses[i] = v
		}
	}
	return j, nil
}

func FuseChecksum(bits []bool) uint16 {
	var (
		bitNum  uint8
		byteVal uint8
		sum     uint16
	)
	for _, bit := range bits {
		if bit {
			byteVal |= 1 << bitNum
		}
		bitNum++
		if bitNum == 8 {
			sum += uint16(byteVal)
			byteVal = 0
			bitNum = 0
		}
	}
	return sum + uint16(byteVal)
}

// SectionName describes fuse idx of a device with qf fuses.
func SectionName(qf, idx int) string {
	switch qf {
	case 2194:
		return sectionName16V8(idx)
	case 5892:
		return sectionName22V10(idx)
	}
	return fmt.Sprintf("fuse[%d]", idx)
}

// Layout: Logic(2048) XOR(8) SIG(64) AC1(8) PT(64) SYN(1) AC0(1).
func sectionName16V8(idx int) string {
	switch {
	case idx < 2048:
		row, col := idx/32, idx%32
		return fmt.Sprintf("Logic OLMC(pin%d) row%d col%d", 19-row/8, row%8, col)
	case idx < 2056:
		return fmt.Sprintf("XOR[%d]", idx-2048)
	case idx < 2120:
		return fmt.Sprintf("SIG[%d]", idx-2056)
	case idx < 2128:
		return fmt.Sprintf("AC1[%d]", idx-2120)
	case idx < 2192:
		return fmt.Sprintf("PT[%d]", idx-2128)
	case idx == 2192:
		return "SYN"
	case idx == 2193:
		return "AC0"
	}
	return fmt.Sprintf("unknown(%d)", idx)
}

// Layout: Logic(5808) XOR/AC1 pairs(20) SIG(64).
func sectionName22V10(idx int) string {
	switch {
	case idx < 5808:
		row, col := idx/44, idx%44
		switch {
		case row == 0:
			return fmt.Sprintf("Logic AR col%d", col)
		case row == 131:
			return fmt.Sprintf("Logic SP col%d", col)
		}
		starts := []int{1, 10, 21, 34, 49, 66, 83, 98, 111, 122}
		for i := len(starts) - 1; i >= 0; i-- {
			if row >= starts[i] {
				return fmt.Sprintf("Logic OLMC(pin%d) row%d col%d", 23-i, row-starts[i], col)
			}
		}
	case idx < 5828:
		if (idx-5808)%2 == 0 {
			return fmt.Sprintf("XOR[%d]", (idx-5808)/2)
		}
		return fmt.Sprintf("AC1[%d]", (idx-5808)/2)
	case idx < 5892:
		return fmt.Sprintf("SIG[%d]", idx-5828)
	}
	return fmt.Sprintf("unknown(%d)", idx)
}

// CompareJEDEC returns a readable list of fuse differences, or "" when got
// and want match.
func CompareJEDEC(got, want JEDEC) string {
	if got.QF != want.QF {
		return fmt.Sprintf("QF mismatch: got %d want %d", got.QF, want.QF)
	}
	if len(got.Fuses) != len(want.Fuses) {
		return fmt.Sprintf("fuse length mismatch: got %d want %d", len(got.Fuses), len(want.Fuses))
	}
	var buf bytes.Buffer
	mismatches := 0
	for i := range got.Fuses {
		if got.Fuses[i] == want.Fuses[i] {
			continue
		}
		mismatches++
		fmt.Fprintf(&buf, "  fuse[%d] %s: got=%c want=%c\n", i, SectionName(got.QF, i), bit(got.Fuses[i]), bit(want.Fuses[i]))
		if mismatches >= 40 {
			fmt.Fprintf(&buf, "  ... (%d+ mismatches, truncated)\n", mismatches)
			break
		}
	}
	if mismatches == 0 {
		return ""
	}
	return fmt.Sprintf("%d fuse mismatches:\n%s", mismatches, buf.String())
}

func bit(b bool) rune {
	if b {
		return '1'
	}
	return '0'
}
