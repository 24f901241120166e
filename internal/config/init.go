package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const starterConfig = `site:
  title: "My Blog"
  description: ""
  base_url: ""
  date_format: "January 2, 2006"

content:
  dir: .

output:
  directory: ./public

serve:
  port: 4000

history:
  enabled: true
`

const starterPost = `---
layout: default
title: "Hello World"
date: %s
categories: general
---
Welcome to your new blog. Edit or delete this post and run ` + "`blogbuilder build`" + `.
`

// Init writes a starter configuration file plus a sample post. Existing files
// are only overwritten with force.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write configuration file: %w", err)
	}

	postsDir := DefaultPostsDir
	if err := os.MkdirAll(postsDir, 0o750); err != nil {
		return fmt.Errorf("create posts directory: %w", err)
	}

	now := time.Now()
	name := fmt.Sprintf("%s-hello-world.md", now.Format("2006-01-02"))
	samplePath := filepath.Join(postsDir, name)
	if _, err := os.Stat(samplePath); err == nil && !force {
		return nil
	}

	body := fmt.Sprintf(starterPost, now.Format("2006-01-02 15:04:05 -0700"))
	if err := os.WriteFile(samplePath, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write sample post: %w", err)
	}
	return nil
}
