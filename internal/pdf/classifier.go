package pdf

import "regexp"

// Pattern families for element classification, checked in priority order:
// figure captions first, then table captions, then formula markers.
// Both English and Chinese caption forms are covered.
var (
	figurePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(Figure|Fig\.?)\s+\d+[:\.]`), // English
		regexp.MustCompile(`(图|图表)\s*\d+[:：]`),               // Chinese
	}
	tablePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Table\s+\d+[:\.]`),
		regexp.MustCompile(`表\s*\d+[:：]`),
	}
	formulaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$(.*?)\$`),                             // inline formula
		regexp.MustCompile(`(?s)\\begin\{equation\}.*?\\end\{equation\}`), // LaTeX environment
		regexp.MustCompile(`\\\[(.*?)\\\]`),                         // display formula
	}
)

// Classify maps a text span to its semantic element type.
// The first pattern family with a matching rule wins; text with no
// markers is plain text. Pure function, safe for concurrent use.
func Classify(text string) ElementType {
	for _, p := range figurePatterns {
		if p.MatchString(text) {
			return ElementFigure
		}
	}
	for _, p := range tablePatterns {
		if p.MatchString(text) {
			return ElementTable
		}
	}
	for _, p := range formulaPatterns {
		if p.MatchString(text) {
			return ElementFormula
		}
	}
	return ElementText
}
