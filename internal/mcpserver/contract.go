package mcpserver

// PublishFormatContract describes the authoring format and the
// transformations applied when a document is published, for LLM
// consumers preparing content.
const PublishFormatContract = `# mdxpress Publishing Format

Source documents are plain Markdown with optional YAML front matter.
Publishing transforms each top-level ` + "`" + `.md` + "`" + `/` + "`" + `.mdx` + "`" + ` file in a folder into a
` + "`" + `.mdx` + "`" + ` file in the destination tree. Sub-directories (assets) are copied
verbatim.

## Authoring structure

` + "```" + `markdown
---
title: Human-readable title         # OPTIONAL - falls back to the first H1
cover_url: [[cover.png]]            # OPTIONAL - local name or external URL
---

# Heading

Body text in standard Markdown. Images live next to the document:

![diagram](images/diagram.png)
` + "```" + `

## Transformations applied on push

1. **Cover URL.** A ` + "`" + `cover_url` + "`" + ` value wrapped in ` + "`" + `[[...]]` + "`" + ` or quotes is
   rewritten to ` + "`" + `<url-prefix><name>` + "`" + `. Values starting with ` + "`" + `http` + "`" + ` or ` + "`" + `/` + "`" + `
   are left alone. A document without the key gains an empty one.
2. **Image links.** ` + "`" + `![alt](images/<name>)` + "`" + ` becomes
   ` + "`" + `![alt](<url-prefix>images/<name>)` + "`" + `. Other link shapes are untouched.
3. **Block wrapping.** The body is split on blank lines. Level-1 and
   level-2 headings are wrapped in a heading component, runs of plain
   text in a content component. Front matter, horizontal rules,
   standalone images, and existing component tags pass through bare.

The URL prefix is ` + "`" + `<base><folder>/` + "`" + `, e.g. ` + "`" + `/work/guides/` + "`" + ` for a folder
named ` + "`" + `guides` + "`" + ` with the default base.

## Rules

1. Front matter fences are lines containing exactly ` + "`" + `---` + "`" + `, starting at
   the first byte of the file.
2. File paths use forward slashes and end with ` + "`" + `.md` + "`" + ` or ` + "`" + `.mdx` + "`" + `.
3. Image references use the relative ` + "`" + `images/` + "`" + ` directory; the publisher
   rewrites them, so do not hardcode destination URLs.
4. Encoding is UTF-8 with a trailing newline.

## Example output

` + "```" + `markdown
---
title: Weekly report
cover_url: /work/reports/cover.png
---

<HeadingWrapper>
# Weekly report
</HeadingWrapper>

<ContentWrapper>
Body paragraph one.

Body paragraph two.
</ContentWrapper>

![chart](/work/reports/images/chart.png)
` + "```" + `
`
