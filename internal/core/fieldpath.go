package core

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldPath is a parsed form path such as "clientName", "benefits[1]",
// "metrics[0].label" or "metrics[+].after".
type fieldPath struct {
	Name   string
	Index  int  // -1 when the path has no index
	Append bool // "[+]" adds a new element
	Sub    string
}

func parseFieldPath(path string) (fieldPath, error) {
	p := fieldPath{Index: -1}
	path = strings.TrimSpace(path)
	if path == "" {
		return p, &ValidationError{Field: "path", Message: "empty field path"}
	}

	open := strings.IndexByte(path, '[')
	if open < 0 {
		if strings.ContainsAny(path, "].") {
			return p, &ValidationError{Field: path, Message: "malformed field path"}
		}
		p.Name = path
		return p, nil
	}

	closeIdx := strings.IndexByte(path, ']')
	if closeIdx < open {
		return p, &ValidationError{Field: path, Message: "malformed field path"}
	}
	p.Name = path[:open]
	idx := path[open+1 : closeIdx]
	if idx == "+" {
		p.Append = true
	} else {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			return p, &ValidationError{Field: path, Message: fmt.Sprintf("invalid index %q", idx)}
		}
		p.Index = n
	}

	rest := path[closeIdx+1:]
	if rest != "" {
		if !strings.HasPrefix(rest, ".") || len(rest) == 1 {
			return p, &ValidationError{Field: path, Message: "malformed field path"}
		}
		p.Sub = rest[1:]
	}
	return p, nil
}

// resolve returns the slot a list path points to, growing the list by one
// when the path appends or addresses exactly one past the end.
func (p fieldPath) resolve(length int) (int, bool, error) {
	if p.Append || p.Index == length {
		return length, true, nil
	}
	if p.Index < 0 || p.Index > length {
		return 0, false, &ValidationError{
			Field:   p.Name,
			Message: fmt.Sprintf("index %d out of range (len %d)", p.Index, length),
		}
	}
	return p.Index, false, nil
}

// setStringList applies a path to an ordered list of strings.
func setStringList(list []string, p fieldPath, value string) ([]string, error) {
	if p.Sub != "" {
		return nil, &ValidationError{Field: p.Name, Message: "list of strings has no sub-fields"}
	}
	if p.Index < 0 && !p.Append {
		return nil, &ValidationError{Field: p.Name, Message: "index required"}
	}
	i, grow, err := p.resolve(len(list))
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), list...)
	if grow {
		out = append(out, value)
	} else {
		out[i] = value
	}
	return out, nil
}

func removeAt[T any](list []T, i int) ([]T, error) {
	if i < 0 || i >= len(list) {
		return nil, &ValidationError{Field: "index", Message: fmt.Sprintf("index %d out of range (len %d)", i, len(list))}
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}
