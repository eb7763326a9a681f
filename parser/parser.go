package parser

import "regexp"

// fencedBlock matches a complete ``` block with an optional info string.
// Unterminated fences do not match.
var fencedBlock = regexp.MustCompile("(?s)```([\\w+#.-]*)[ \\t]*\\n(.*?)```")

// CodeBlock is one fenced block found in generated output.
type CodeBlock struct {
	Language string // info string after the opening fence, may be empty
	Content  string // body between the fences
	Raw      string // the whole match, fences included
}

// Parser inspects generated code for markdown fences that survived
// StripFences, which only removes a single outer pair.
type Parser struct {
	re *regexp.Regexp
}

// NewParser returns a Parser. It holds no state beyond the shared pattern
// and is safe for concurrent use.
func NewParser() *Parser {
	return &Parser{re: fencedBlock}
}

// CodeBlocks lists the fenced blocks in text in document order.
func (p *Parser) CodeBlocks(text string) []CodeBlock {
	var blocks []CodeBlock
	for _, m := range p.re.FindAllStringSubmatch(text, -1) {
		blocks = append(blocks, CodeBlock{Language: m[1], Content: m[2], Raw: m[0]})
	}
	return blocks
}

// HasCodeBlock is a cheaper len(CodeBlocks(text)) > 0.
func (p *Parser) HasCodeBlock(text string) bool {
	return p.re.MatchString(text)
}
