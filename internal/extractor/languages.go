package extractor

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

type JavaScriptExtractor struct{}

func (JavaScriptExtractor) Name() string                  { return "javascript" }
func (JavaScriptExtractor) GetLanguage() *sitter.Language { return javascript.GetLanguage() }

type TypeScriptExtractor struct{}

func (TypeScriptExtractor) Name() string                  { return "typescript" }
func (TypeScriptExtractor) GetLanguage() *sitter.Language { return typescript.GetLanguage() }

type TSXExtractor struct{}

func (TSXExtractor) Name() string                  { return "tsx" }
func (TSXExtractor) GetLanguage() *sitter.Language { return tsx.GetLanguage() }

// languageFor picks the grammar from the file extension. The javascript
// grammar already understands JSX.
func languageFor(path string) (LanguageExtractor, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return JavaScriptExtractor{}, true
	case ".ts", ".mts", ".cts":
		return TypeScriptExtractor{}, true
	case ".tsx":
		return TSXExtractor{}, true
	default:
		return nil, false
	}
}
