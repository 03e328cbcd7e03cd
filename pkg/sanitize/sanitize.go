// Package sanitize strips credential-like strings, outbound network calls,
// and dynamic-evaluation calls from fetched source text.
//
// The filtering is pattern-matching, not semantic. It is best-effort
// defense-in-depth for text headed into an AI prompt and must not be relied
// on as a security boundary.
package sanitize

import "regexp"

var (
	doubleQuotedSecret = regexp.MustCompile(`(?i)"[^"\n]*(?:sk-|api[_-]?key|token|secret|password)[^"\n]*"`)
	singleQuotedSecret = regexp.MustCompile(`(?i)'[^'\n]*(?:sk-|api[_-]?key|token|secret|password)[^'\n]*'`)
	backtickSecret     = regexp.MustCompile("(?i)`[^`\n]*(?:sk-|api[_-]?key|token|secret|password)[^`\n]*`")

	externalFetch = regexp.MustCompile(`fetch\s*\(\s*["']https?://[^"']+["']`)
	externalOpen  = regexp.MustCompile(`\.open\s*\(\s*(["'][A-Za-z]+["'])\s*,\s*["']https?://[^"']+["']`)

	evalCall     = regexp.MustCompile(`\beval\s*\(`)
	functionCall = regexp.MustCompile(`\bnew\s+Function\s*\(`)
)

// Clean applies the sanitizing transforms to src. The result contains no
// credential-looking string literals, no fetches of external absolute URLs,
// and no dynamic-evaluation calls. Clean is idempotent.
func Clean(src string) string {
	src = doubleQuotedSecret.ReplaceAllString(src, `"REDACTED"`)
	src = singleQuotedSecret.ReplaceAllString(src, `'REDACTED'`)
	src = backtickSecret.ReplaceAllString(src, "`REDACTED`")

	src = externalFetch.ReplaceAllString(src, `fetch(/* external url removed */ ""`)
	src = externalOpen.ReplaceAllString(src, `.open($1, /* external url removed */ ""`)

	src = evalCall.ReplaceAllString(src, "/* eval disabled */ void(")
	src = functionCall.ReplaceAllString(src, "/* Function disabled */ void(")

	return src
}
