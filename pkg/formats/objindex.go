package formats

import (
	"strconv"

	"github.com/Faultbox/objmesh/pkg/mesh"
)

// indexTriple holds 1-based position, texcoord and normal indices of one
// face-vertex reference. Zero means the component is absent.
type indexTriple [3]int

// nextToken skips leading spaces from pos and returns the following run of
// non-space characters along with the position just past it. Only ' ' is a
// separator here.
func nextToken(line string, pos int) (string, int) {
	if pos >= len(line) {
		return "", len(line)
	}
	start := pos
	for start < len(line) && line[start] == ' ' {
		start++
	}
	end := start
	for end < len(line) && line[end] != ' ' {
		end++
	}
	return line[start:end], end
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIndexTerminator(c byte) bool {
	switch c {
	case '/', ' ', '\t', '\n':
		return true
	}
	return false
}

// parseFaceIndex parses a face-vertex reference of the form v, v/t, v//n
// or v/t/n.
//
// Parsing is lenient: a digit run followed by any other character is
// dropped and scanning stops without an error, so "7x" yields an empty
// triple and is rejected later as a missing position.
func parseFaceIndex(tok string) (indexTriple, error) {
	var idx indexTriple
	field := 0
	loc := 0
	for {
		end := loc
		for end < len(tok) && isDigit(tok[end]) {
			end++
		}
		if end < len(tok) && !isIndexTerminator(tok[end]) {
			break
		}
		if end > loc {
			n, err := strconv.ParseInt(tok[loc:end], 10, 32)
			if err != nil {
				return indexTriple{}, ErrInvalidIndex
			}
			idx[field] = int(n)
		}
		field++
		loc = end
		if loc >= len(tok) || tok[loc] != '/' {
			break
		}
		loc++
		if field >= 3 || loc >= len(tok) {
			break
		}
	}
	return idx, nil
}

// layoutFromIndices derives the attribute layout implied by a reference.
func layoutFromIndices(idx indexTriple) (mesh.AttributeLayout, error) {
	if idx[0] == 0 {
		return mesh.LayoutNone, ErrMissingPosition
	}
	layout := mesh.LayoutPosition
	if idx[1] != 0 {
		layout |= mesh.LayoutTexCoord
	}
	if idx[2] != 0 {
		layout |= mesh.LayoutNormal
	}
	return layout, nil
}
