package osc

import "strings"

// MatchAddress reports whether addr (a literal OSC address, e.g.
// "/input/3/gain") matches pattern (an OSC address pattern, e.g.
// "/input/[1-4]/{gain,mute}"), per spec.md §4.3's glob rules:
//
//	*        matches zero or more characters, never crossing '/'
//	?        matches exactly one character, never '/'
//	[abc]    matches one character in the class; a leading '!' negates it
//	         and 'a-z' ranges are supported
//	{a,b,c}  matches any one of the comma-separated literal alternatives
//
// Matching is greedy with backtracking: a '*' first tries to consume the
// rest of the segment and gives ground back one character at a time until
// the remainder of the pattern matches, the same as a conventional glob
// engine and as original_source's use of POSIX fnmatch-style semantics
// implies for '/'-delimited OSC addresses.
func MatchAddress(pattern, addr string) bool {
	return match(pattern, addr)
}

func match(pat, s string) bool {
	for len(pat) > 0 {
		switch pat[0] {
		case '*':
			// Try every split point, preferring to consume the most first
			// (greedy) and backtracking toward consuming the least.
			rest := pat[1:]
			for i := len(s); i >= 0; i-- {
				if strings.IndexByte(s[:i], '/') != -1 {
					continue
				}
				if match(rest, s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 || s[0] == '/' {
				return false
			}
			pat = pat[1:]
			s = s[1:]
		case '[':
			end := strings.IndexByte(pat, ']')
			if end == -1 {
				return literalMatch(pat, s)
			}
			if len(s) == 0 || s[0] == '/' {
				return false
			}
			if !matchClass(pat[1:end], s[0]) {
				return false
			}
			pat = pat[end+1:]
			s = s[1:]
		case '{':
			end := strings.IndexByte(pat, '}')
			if end == -1 {
				return literalMatch(pat, s)
			}
			alts := strings.Split(pat[1:end], ",")
			rest := pat[end+1:]
			for _, alt := range alts {
				if strings.HasPrefix(s, alt) && match(rest, s[len(alt):]) {
					return true
				}
			}
			return false
		default:
			if len(s) == 0 || s[0] != pat[0] {
				return false
			}
			pat = pat[1:]
			s = s[1:]
		}
	}
	return len(s) == 0
}

// literalMatch handles a malformed '[' or '{' with no matching close by
// treating the bracket character itself as literal, matching fnmatch's
// behavior for unterminated classes.
func literalMatch(pat, s string) bool {
	if len(s) == 0 || s[0] != pat[0] {
		return false
	}
	return match(pat[1:], s[1:])
}

func matchClass(class string, c byte) bool {
	negate := false
	if len(class) > 0 && class[0] == '!' {
		negate = true
		class = class[1:]
	}
	matched := false
	for i := 0; i < len(class); i++ {
		if i+2 < len(class) && class[i+1] == '-' {
			if class[i] <= c && c <= class[i+2] {
				matched = true
			}
			i += 2
			continue
		}
		if class[i] == c {
			matched = true
		}
	}
	return matched != negate
}

// HasWildcard reports whether addr contains any glob metacharacter, used by
// callers deciding whether a literal lookup (spec.md §4.4's nodeindex) or a
// full pattern sweep is needed to dispatch a message.
func HasWildcard(addr string) bool {
	return strings.ContainsAny(addr, "*?[{")
}
