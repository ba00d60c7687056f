package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/schedulelua/luabot"
)

// Run executes the docs list command.
func (c *DocsListCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.ListDocuments(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", luabot.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documentation files found. Use 'luabot scrape' or 'luabot docs add' to add some.")
		return nil
	}

	for _, d := range docs {
		fmt.Fprintf(deps.Stdout, "%s  %d bytes  %s\n", d.Path, d.Size, luabot.DocumentTitle(d.Content, d.Title))
	}
	fmt.Fprintf(deps.Stdout, "Total files: %d\n", len(docs))
	return nil
}

// Run executes the docs add command.
func (c *DocsAddCmd) Run(deps *Dependencies) error {
	content := c.Content
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			err = luabot.WrapError(luabot.EINVALID, err, "Could not read %s.", c.File)
			fmt.Fprintf(deps.Stderr, "error: %s\n", luabot.ErrorMessage(err))
			return err
		}
		content = string(data)
	}
	if strings.TrimSpace(content) == "" {
		err := luabot.Errorf(luabot.EINVALID, "Document content is required.")
		fmt.Fprintf(deps.Stderr, "error: %s\n", luabot.ErrorMessage(err))
		return err
	}

	doc, err := deps.Documents.SaveDocument(deps.Ctx, luabot.DocumentFilename(c.Title), content)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", luabot.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Documentation file '%s' added successfully (%s).\n", c.Title, doc.Path)
	return nil
}

// Run executes the docs remove command.
func (c *DocsRemoveCmd) Run(deps *Dependencies) error {
	if err := deps.Documents.RemoveDocument(deps.Ctx, c.Filename); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", luabot.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "File '%s' removed successfully.\n", c.Filename)
	return nil
}
