// Package trace parses and replays allocation trace files. A trace drives
// the allocator with a recorded sequence of allocate/resize/release calls
// and measures how much heap the sequence ends up consuming.
//
// Format (one directive per line, '#' starts a comment):
//
//	<suggested heap bytes>
//	<number of distinct ids>
//	<number of operations>
//	<weight>
//	a <id> <size>       allocate <size> bytes as <id>
//	r <id> <size>       resize <id> to <size> bytes
//	f <id>              release <id>
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Kind is the operation discriminator.
type Kind uint8

const (
	KindAlloc Kind = iota
	KindRealloc
	KindFree
)

func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return "alloc"
	case KindRealloc:
		return "realloc"
	case KindFree:
		return "free"
	default:
		return "unknown"
	}
}

// Op is a single recorded operation. ID names the logical allocation the
// operation acts on; Size is unused for KindFree.
type Op struct {
	Kind Kind
	ID   int
	Size int
}

// Trace is a parsed trace file.
type Trace struct {
	SuggestedHeap int  // advisory initial heap size from the header
	NumIDs        int  // number of distinct allocation ids
	Weight        int  // header weight field, carried through for reporting
	Ops           []Op
}

// ParseFile reads and parses the trace at path.
func ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tr, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tr, nil
}

// Parse reads a trace from r. The four header values must precede the first
// operation; the declared operation count must match the body.
func Parse(r io.Reader) (*Trace, error) {
	sc := bufio.NewScanner(r)
	line := 0

	next := func() ([]string, error) {
		for sc.Scan() {
			line++
			text := strings.TrimSpace(sc.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			return strings.Fields(text), nil
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	header := make([]int, 4)
	for i := range header {
		fields, err := next()
		if err != nil {
			return nil, fmt.Errorf("trace: truncated header: %w", err)
		}
		v, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: bad header value %q", line, fields[0])
		}
		header[i] = v
	}

	tr := &Trace{
		SuggestedHeap: header[0],
		NumIDs:        header[1],
		Weight:        header[3],
		Ops:           make([]Op, 0, header[2]),
	}

	for {
		fields, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", line, err)
		}

		op, err := parseOp(fields)
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", line, err)
		}
		if op.ID < 0 || op.ID >= tr.NumIDs {
			return nil, fmt.Errorf("trace: line %d: id %d out of range [0,%d)", line, op.ID, tr.NumIDs)
		}
		tr.Ops = append(tr.Ops, op)
	}

	if len(tr.Ops) != header[2] {
		return nil, fmt.Errorf("trace: header declares %d ops, body has %d", header[2], len(tr.Ops))
	}
	return tr, nil
}

func parseOp(fields []string) (Op, error) {
	var op Op
	var wantArgs int

	switch fields[0] {
	case "a":
		op.Kind, wantArgs = KindAlloc, 2
	case "r":
		op.Kind, wantArgs = KindRealloc, 2
	case "f":
		op.Kind, wantArgs = KindFree, 1
	default:
		return op, fmt.Errorf("unknown directive %q", fields[0])
	}
	if len(fields) != wantArgs+1 {
		return op, fmt.Errorf("directive %q wants %d arguments, got %d", fields[0], wantArgs, len(fields)-1)
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return op, fmt.Errorf("bad id %q", fields[1])
	}
	op.ID = id

	if wantArgs == 2 {
		size, err := strconv.Atoi(fields[2])
		if err != nil || size < 0 {
			return op, fmt.Errorf("bad size %q", fields[2])
		}
		op.Size = size
	}
	return op, nil
}
