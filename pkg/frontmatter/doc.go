// Package frontmatter provides generic parsing and formatting of YAML
// frontmatter in Markdown files used for rules, prompts, and skills.
//
// Frontmatter is delimited by lines containing only "---" at the start and
// end. The content between delimiters is parsed as YAML and unmarshaled into
// the type parameter T. The remaining content after the closing delimiter is
// returned as the body.
//
// # Basic Usage
//
//	type RuleMeta struct {
//		Description string   `yaml:"description"`
//		Globs       []string `yaml:"globs"`
//	}
//
//	var meta RuleMeta
//	body, err := frontmatter.Parse(file, &meta)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Rule: %s\nContent:\n%s", meta.Description, body)
//
// # Optional vs Required
//
// [Parse] tolerates content without frontmatter and returns the full input
// as body. [MustParse] requires a frontmatter block and returns
// [ErrMissingFrontmatter] or [ErrUnclosedFrontmatter] when the block is
// absent or malformed. These can be checked with [errors.Is].
//
// # Round Trips
//
// [Format] produces output that [Parse] reads back to the same header and,
// modulo surrounding whitespace, the same body. Both Unix (LF) and Windows
// (CRLF) line endings are handled on the read side; output always uses LF.
package frontmatter
