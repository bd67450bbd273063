package config

import (
	"bufio"
	"io"
	"strings"
)

// fileValues holds the four recognised keys of a profile file.
type fileValues struct {
	url      string
	database string
	username string
	password string
}

func (v fileValues) complete() bool {
	return v.url != "" && v.database != "" && v.username != "" && v.password != ""
}

// parseFile reads simple "key = value" lines. Section headers, blank lines,
// lines without '=' and unknown keys are ignored; the value is everything
// after the first '=', trimmed.
func parseFile(r io.Reader) (fileValues, error) {
	var out fileValues
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "url":
			out.url = value
		case "database":
			out.database = value
		case "username":
			out.username = value
		case "password":
			out.password = value
		}
	}
	return out, sc.Err()
}
