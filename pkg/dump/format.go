package dump

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/pgpdump/pkg/algo"
)

// HexdumpWidth is the number of bytes per hexdump line.
const HexdumpWidth = 16

const secondsPerDay = 24 * 60 * 60

// HexString returns b as lowercase hex without prefix.
func HexString(b []byte) string { return hex.EncodeToString(b) }

// FormatTime renders a timestamp as "N (Mon Jan  2 15:04:05 2006)" in UTC.
func FormatTime(t uint32) string {
	return fmt.Sprintf("%d (%s)", t, time.Unix(int64(t), 0).UTC().Format(time.ANSIC))
}

// FormatExpiration renders a duration in seconds with its length in days.
func FormatExpiration(seconds uint32) string {
	if seconds == 0 {
		return "0 (never)"
	}
	return fmt.Sprintf("%d seconds (%d days)", seconds, seconds/secondsPerDay)
}

// FormatAlg renders "id (name)".
func FormatAlg(id int, table algo.Table) string {
	return fmt.Sprintf("%d (%s)", id, table.Name(id))
}

// FormatAlgList renders "name1, name2 (id1, id2)".
func FormatAlgList(ids []int, table algo.Table) string {
	names := make([]string, len(ids))
	nums := make([]string, len(ids))
	for i, id := range ids {
		names[i] = table.Name(id)
		nums[i] = strconv.Itoa(id)
	}
	return strings.Join(names, ", ") + " (" + strings.Join(nums, ", ") + ")"
}

// FormatFlags renders "0xNN ( bit bit )".
func FormatFlags(f Flags) string {
	var b strings.Builder
	fmt.Fprintf(&b, "0x%02x ( ", f.Value)
	names := algo.FlagNames(f.Names, f.Value)
	if len(names) == 0 {
		b.WriteString(f.None)
	}
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(' ')
	}
	b.WriteString(")")
	return b.String()
}

// FormatHex renders "0x<hex>" with an optional byte count.
func FormatHex(h Hex) string {
	if h.WithLen {
		return fmt.Sprintf("0x%s (%d bytes)", HexString(h.Data), len(h.Data))
	}
	return "0x" + HexString(h.Data)
}

// FormatMPI renders "N bits" and, when raw is requested, the value.
func FormatMPI(m MPI) string {
	if m.Raw {
		return fmt.Sprintf("%d bits, %s", m.M.Bits(), HexString(m.M.Bytes))
	}
	return fmt.Sprintf("%d bits", m.M.Bits())
}

// FormatScalar renders the text form of a scalar value. ok is false for
// values that are not scalars (sections, lists, hexdumps, lines).
func FormatScalar(v Value) (s string, ok bool) {
	switch v := v.(type) {
	case Int:
		return strconv.FormatInt(int64(v), 10), true
	case String:
		return string(v), true
	case Bool:
		if v {
			return "1", true
		}
		return "0", true
	case Time:
		return FormatTime(uint32(v)), true
	case Expiration:
		return FormatExpiration(uint32(v)), true
	case Char:
		return fmt.Sprintf("'%c'", byte(v)), true
	case Hex:
		return FormatHex(v), true
	case Count:
		return fmt.Sprintf("%d bytes", int64(v)), true
	case Alg:
		return FormatAlg(v.ID, v.Table), true
	case AlgList:
		return FormatAlgList(v.IDs, v.Table), true
	case Flags:
		return FormatFlags(v), true
	case MPI:
		return FormatMPI(v), true
	}
	return "", false
}

// HexdumpLines renders data as "OOOOO | xx xx ..  | ascii" lines, sixteen
// bytes per line, padding the last line.
func HexdumpLines(data []byte) []string {
	var lines []string
	for off := 0; off < len(data); off += HexdumpWidth {
		end := off + HexdumpWidth
		if end > len(data) {
			end = len(data)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%05d | ", off)
		ascii := make([]byte, HexdumpWidth)
		for i := 0; i < HexdumpWidth; i++ {
			if off+i < end {
				c := data[off+i]
				fmt.Fprintf(&b, "%02x ", c)
				if c >= 0x20 && c < 0x7f {
					ascii[i] = c
				} else {
					ascii[i] = '.'
				}
			} else {
				b.WriteString("   ")
				ascii[i] = ' '
			}
		}
		b.WriteString(" | ")
		b.Write(ascii)
		lines = append(lines, b.String())
	}
	return lines
}
