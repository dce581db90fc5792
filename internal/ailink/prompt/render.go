package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// FocusVar is the variable that receives the selected focus variant text.
const FocusVar = "focus_instructions"

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-z_][a-z0-9_]*)\s*\}\}`)

// Render expands the system and user templates of p.
//
// Conditionals are resolved first and placeholders are substituted in a
// single pass, so variable values are never re-expanded. focus selects an
// entry from FocusVariants; an unknown or empty focus leaves FocusVar unset.
func Render(p *Prompt, vars map[string]string, focus string) (string, string, error) {
	if p == nil {
		return "", "", errors.New("prompt is required")
	}

	for _, name := range p.Config.Input.RequiredVariables {
		if strings.TrimSpace(vars[name]) == "" {
			return "", "", fmt.Errorf("prompt %s: variable %q is required", p.Config.Slug, name)
		}
	}

	merged := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		merged[k] = v
	}
	if variant, ok := p.Config.FocusVariants[strings.TrimSpace(focus)]; ok {
		merged[FocusVar] = strings.TrimSpace(applyVars(variant, merged))
	}

	system := strings.TrimSpace(expand(p.Config.SystemTemplate, merged))
	if system == "" {
		return "", "", errors.New("system prompt is required")
	}

	user := p.Config.UserTemplate
	if strings.TrimSpace(user) == "" {
		user = "{{input}}"
	}
	user = strings.TrimSpace(expand(user, merged))
	return system, user, nil
}

func expand(template string, vars map[string]string) string {
	return applyVars(applyConditionals(template, vars), vars)
}

func applyVars(template string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}

// applyConditionals handles {{#if var}}content{{else}}fallback{{/if}} blocks.
func applyConditionals(template string, vars map[string]string) string {
	result := template
	for {
		start := strings.Index(result, "{{#if")
		if start == -1 {
			return result
		}
		tagEnd := strings.Index(result[start:], "}}")
		if tagEnd == -1 {
			return result
		}
		tagEnd += start

		varName := strings.TrimSpace(result[start+len("{{#if") : tagEnd])
		blockStart := tagEnd + 2

		elseStart, elseEnd, endStart, endEnd := findConditionalBlock(result, blockStart)
		if endStart == -1 {
			return result
		}

		ifContent := result[blockStart:endStart]
		elseContent := ""
		if elseStart != -1 {
			ifContent = result[blockStart:elseStart]
			elseContent = result[elseEnd:endStart]
		}

		replacement := elseContent
		if strings.TrimSpace(vars[varName]) != "" {
			replacement = ifContent
		}
		result = result[:start] + replacement + result[endEnd:]
	}
}

func findConditionalBlock(input string, start int) (int, int, int, int) {
	depth := 0
	elseStart, elseEnd := -1, -1

	pos := start
	for {
		openIdx := strings.Index(input[pos:], "{{")
		if openIdx == -1 {
			return -1, -1, -1, -1
		}
		openIdx += pos

		closeIdx := strings.Index(input[openIdx:], "}}")
		if closeIdx == -1 {
			return -1, -1, -1, -1
		}
		closeIdx += openIdx

		tag := strings.TrimSpace(input[openIdx+2 : closeIdx])
		switch {
		case strings.HasPrefix(tag, "#if"):
			depth++
		case tag == "/if":
			if depth == 0 {
				return elseStart, elseEnd, openIdx, closeIdx + 2
			}
			depth--
		case tag == "else" && depth == 0 && elseStart == -1:
			elseStart = openIdx
			elseEnd = closeIdx + 2
		}
		pos = closeIdx + 2
	}
}
