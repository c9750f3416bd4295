package extractor

import sitter "github.com/smacker/go-tree-sitter"

// SourceModel is what the extractor reports for one file.
type SourceModel struct {
	Path     string   `json:"path"`
	Language string   `json:"language"`
	Exports  []string `json:"exports"`
	Imports  []string `json:"imports"`
}

func (m *SourceModel) clone() *SourceModel {
	c := *m
	c.Exports = append([]string(nil), m.Exports...)
	c.Imports = append([]string(nil), m.Imports...)
	return &c
}

// LanguageExtractor defines the grammar and queries for one dialect.
type LanguageExtractor interface {
	Name() string
	GetLanguage() *sitter.Language
}
