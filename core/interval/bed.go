// core/interval/bed.go
package interval

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseBED reads BED3..BED9 lines into a Set. Columns beyond the first three
// are ignored; BED12 input is rejected because its blocks would need to be
// expanded, not treated as one range.
func ParseBED(r io.Reader) (*Set, error) {
	set := NewSet()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 9 {
			return nil, fmt.Errorf("bed: line %d: BED12 input not supported", line)
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("bed: line %d: want at least 3 fields, got %d", line, len(fields))
		}
		start, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bed: line %d: invalid start %q", line, fields[1])
		}
		end, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bed: line %d: invalid end %q", line, fields[2])
		}
		set.Insert(Range{Seq: fields[0], Start: start, End: end})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("bed: read: %w", err)
	}
	return set, nil
}
