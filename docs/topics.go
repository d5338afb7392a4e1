// Package docs holds the user documentation of nw, as markdown topics.
package docs

import (
	"bytes"
	"embed"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

//go:embed *.md
var docs embed.FS

// GetTopic returns the content of a documentation topic.
func GetTopic(topic string) (string, error) {
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", errors.Wrapf(err, "topic %q not found", topic)
	}
	return string(content), nil
}

// GetTopics returns the content of multiple documentation topics concatenated together.
// The topic "*" stands for all of them.
func GetTopics(topics ...string) (string, error) {
	var b bytes.Buffer
	for _, topic := range topics {
		expanded := []string{topic}
		if topic == "*" {
			all, err := GetAllTopics()
			if err != nil {
				return "", err
			}
			expanded = all
		}
		for _, t := range expanded {
			content, err := GetTopic(t)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// GetAllTopics returns the sorted list of all topics but the readme.
func GetAllTopics() ([]string, error) {
	var topics []string
	err := fs.WalkDir(docs, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)); base != "readme" {
			topics = append(topics, base)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(topics)
	return topics, nil
}
