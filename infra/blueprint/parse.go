// Package blueprint reads economy definitions from blueprint text and from
// YAML or JSON documents.
package blueprint

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/kilianp07/foundry/core/economy"
)

// ErrNoBlueprints is returned when the input holds no blueprint header.
var ErrNoBlueprints = errors.New("no blueprints found")

var (
	headerRE = regexp.MustCompile(`Blueprint\s+(\d+)\s*:`)
	recipeRE = regexp.MustCompile(`Each\s+(\w+)\s+robot\s+costs\s+([^.]+)\.`)
	costRE   = regexp.MustCompile(`^(\d+)\s+(\w+)$`)
)

// Parse reads blueprints of the form
//
//	Blueprint 1: Each ore robot costs 4 ore. Each clay robot costs 2 ore. ...
//
// A blueprint may span several lines. Kinds are ordered by first appearance,
// costs before the kind they build; the first kind is the root and the kind
// built by the last recipe is the terminal.
func Parse(r io.Reader) ([]*economy.Economy, error) {
	var sb strings.Builder
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		sb.WriteString(strings.TrimSpace(sc.Text()))
		sb.WriteByte(' ')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	text := sb.String()

	headers := headerRE.FindAllStringSubmatchIndex(text, -1)
	if len(headers) == 0 {
		return nil, ErrNoBlueprints
	}
	out := make([]*economy.Economy, 0, len(headers))
	for i, h := range headers {
		id, err := strconv.Atoi(text[h[2]:h[3]])
		if err != nil {
			return nil, fmt.Errorf("blueprint id %q: %w", text[h[2]:h[3]], err)
		}
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		e, err := parseBody(id, text[h[1]:end])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func parseBody(id int, body string) (*economy.Economy, error) {
	matches := recipeRE.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil, &economy.ConfigError{Economy: id, Field: "recipes", Reason: "no recipes"}
	}
	var kinds []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			kinds = append(kinds, name)
		}
	}
	recipes := make(map[string]map[string]int, len(matches))
	for _, m := range matches {
		producer := m[1]
		if _, dup := recipes[producer]; dup {
			return nil, &economy.ConfigError{Economy: id, Field: "recipes." + producer, Reason: "recipe given twice"}
		}
		cost := map[string]int{}
		for _, part := range strings.Split(m[2], " and ") {
			cm := costRE.FindStringSubmatch(strings.TrimSpace(part))
			if cm == nil {
				return nil, &economy.ConfigError{Economy: id, Field: "recipes." + producer, Reason: fmt.Sprintf("cannot read cost %q", part)}
			}
			qty, err := strconv.Atoi(cm[1])
			if err != nil {
				return nil, &economy.ConfigError{Economy: id, Field: "recipes." + producer, Reason: err.Error()}
			}
			add(cm[2])
			cost[cm[2]] += qty
		}
		add(producer)
		recipes[producer] = cost
	}
	terminal := matches[len(matches)-1][1]
	return economy.New(id, kinds, recipes, kinds[0], terminal)
}
