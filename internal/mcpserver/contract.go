package mcpserver

// NoteFormat describes how notes and their tree positions are laid out,
// for MCP clients that create items.
const NoteFormat = `# Note format

Notes form a tree. Every item has a path made of the titles of its
ancestors and itself, for example ` + "`/Work/Weekly review`" + `. The root is ` + "`/`" + `.

## Creating items

- ` + "`path`" + ` is the PARENT path. Use ` + "`/`" + ` (or leave it empty) for a top-level item.
- The parent must already exist.
- Two siblings cannot share a title: the resulting path would collide.
- ` + "`title`" + ` is required unless ` + "`content`" + ` carries it in frontmatter or as the
  first ` + "`# heading`" + `.

## Note content

Each note is a Markdown file. Metadata may be given in YAML frontmatter:

` + "```" + `markdown
---
title: Weekly review
description: what happened this week
tags:
  - review
---

# Weekly review

Body text. Inline #tags are picked up too.
` + "```" + `

When content is omitted a skeleton with the frontmatter above is written.
`
