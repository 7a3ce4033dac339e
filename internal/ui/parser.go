package ui

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseCSS parses a small CSS subset: rulesets whose selectors are a single .class or #id
// (comma lists allowed) with "key: value;" declarations. Rules with other selectors and
// everything inside @rules are skipped. Later rules override earlier ones for the same selector.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInput(bytes.NewBufferString(content)), false)

	var (
		current []int    // indexes into sheet.Rules for the open ruleset
		pending []string // selector list items before the last one
		inRules bool
		atDepth int
	)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("ui: parse css: %w", err)
			}
			return sheet, nil
		case css.BeginAtRuleGrammar:
			atDepth++
		case css.EndAtRuleGrammar:
			if atDepth > 0 {
				atDepth--
			}
		case css.QualifiedRuleGrammar:
			pending = append(pending, joinValues(p.Values()))
		case css.BeginRulesetGrammar:
			inRules = true
			current = current[:0]
			list := strings.Join(append(pending, joinValues(p.Values())), ",")
			pending = pending[:0]
			if atDepth > 0 {
				continue
			}
			for _, sel := range splitSelectors(list) {
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: map[string]string{}})
				current = append(current, len(sheet.Rules)-1)
			}
		case css.EndRulesetGrammar:
			inRules = false
			current = current[:0]
		case css.DeclarationGrammar:
			if !inRules || len(current) == 0 {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(string(data)))
			val := strings.TrimSpace(joinValues(p.Values()))
			for _, i := range current {
				sheet.Rules[i].Props[key] = val
			}
		}
	}
}

func joinValues(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return b.String()
}

// splitSelectors returns the simple .class / #id selectors of a comma list.
func splitSelectors(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		sel := strings.TrimSpace(part)
		if len(sel) < 2 || (sel[0] != '.' && sel[0] != '#') {
			continue
		}
		if strings.ContainsAny(sel[1:], " \t\n>+~.#:[") {
			continue
		}
		out = append(out, sel)
	}
	return out
}
