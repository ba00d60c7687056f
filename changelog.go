package luabot

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxChangelogLength is the longest changelog excerpt ExtractChangelog returns.
const MaxChangelogLength = 1000

// NoChangelogMessage is returned when a changelog has no section for a version.
const NoChangelogMessage = "No changelog available for this version."

// Bullet is the glyph list items are normalized to.
const Bullet = "•"

// ExtractChangelog returns the part of a markdown changelog that belongs to
// version, reformatted for Discord: headings become bold or underlined text
// and list items share a single bullet glyph.
//
// Changelogs are loosely structured human text, so section boundaries are
// found heuristically. A line mentioning the version in brackets starts the
// section; the next "#" or "##" heading that looks like another version ends
// it. When no section matches, an earlier section mentioning the version is
// used, then the first section, then NoChangelogMessage.
func ExtractChangelog(changelog, version string) string {
	if changelog == "" {
		return ""
	}

	var (
		sections []string
		current  []string
		inTarget bool
	)

	for _, line := range strings.Split(changelog, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" && len(sections) == 0 && len(current) == 0 {
			continue
		}

		if isVersionHeader(line, version) {
			if len(current) > 0 {
				sections = append(sections, strings.Join(current, "\n"))
			}
			current = []string{"**" + trimHeading(line) + "**"}
			inTarget = true
			continue
		}

		if inTarget && looksLikeVersionHeading(line) {
			if continuesVersion(line, version) {
				continue
			}
			break
		}

		switch {
		case strings.HasPrefix(line, "# "):
			if inTarget {
				current = append(current, "**"+strings.ToUpper(trimHeading(line))+"**")
			}
		case strings.HasPrefix(line, "## "):
			if inTarget {
				current = append(current, "**"+trimHeading(line)+"**")
			}
		case strings.HasPrefix(line, "### "):
			if inTarget {
				current = append(current, "__**"+trimHeading(line)+"**__")
			}
		case strings.HasPrefix(line, "#### "):
			if inTarget {
				current = append(current, "__"+trimHeading(line)+"__")
			}
		case isListItem(trimmed):
			if inTarget {
				current = append(current, Bullet+" "+string([]rune(trimmed)[2:]))
			}
		case trimmed != "":
			if inTarget {
				current = append(current, line)
			}
		default:
			if inTarget && len(current) > 0 && current[len(current)-1] != "" {
				current = append(current, "")
			}
		}
	}

	if inTarget && len(current) > 0 {
		return Truncate(strings.Join(current, "\n"), MaxChangelogLength)
	}

	for _, section := range sections {
		if strings.Contains(section, version) {
			return Truncate(section, MaxChangelogLength)
		}
	}

	if len(sections) > 0 {
		return Truncate(sections[0], MaxChangelogLength)
	}

	return NoChangelogMessage
}

func isVersionHeader(line, version string) bool {
	if strings.Contains(line, "["+version+"]") || strings.Contains(line, "[v"+version+"]") {
		return true
	}
	return strings.Contains(line, "[") && strings.Contains(line, "]") && strings.Contains(line, version)
}

// looksLikeVersionHeading reports whether a top-level heading carries
// brackets or digits, the shape of a version heading.
func looksLikeVersionHeading(line string) bool {
	if !strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "## ") {
		return false
	}
	return strings.ContainsAny(line, "[]") || strings.IndexFunc(line, unicode.IsDigit) >= 0
}

// continuesVersion reports whether a version-like heading still refers to
// version, matching prefixes of the version down to three characters.
func continuesVersion(line, version string) bool {
	for n := len(version); n > 2; n-- {
		v := version[:n]
		if strings.Contains(line, "["+v+"]") || strings.Contains(line, "## "+v) || strings.Contains(line, "# "+v) {
			return true
		}
	}
	return false
}

func isListItem(trimmed string) bool {
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "+ ")
}

func trimHeading(line string) string {
	return strings.Trim(line, "# ")
}

// Truncate shortens s to at most max characters, ending with "..." when cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
