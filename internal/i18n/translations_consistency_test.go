package i18n

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/iamwavecut/ngwarden/resources"
)

func TestTranslationsKeysAreUsedAndComplete(t *testing.T) {
	t.Parallel()

	used, err := collectUsedI18nKeys()
	if err != nil {
		t.Fatalf("collect used i18n keys: %v", err)
	}

	defined, err := collectDefinedI18nKeys()
	if err != nil {
		t.Fatalf("collect defined i18n keys: %v", err)
	}

	missing := difference(used, defined)
	if len(missing) > 0 {
		t.Fatalf("missing translation keys:\n%s", strings.Join(missing, "\n"))
	}

	unused := difference(defined, used)
	if len(unused) > 0 {
		t.Fatalf("unused translation keys:\n%s", strings.Join(unused, "\n"))
	}
}

func TestTranslationsAreCompleteForSupportedLocales(t *testing.T) {
	t.Parallel()

	dict, err := loadTranslationsDict()
	if err != nil {
		t.Fatalf("load translations dict: %v", err)
	}

	locales := make([]string, 0, len(languageNames)-1)
	for code := range languageNames {
		if strings.EqualFold(code, "en") {
			continue
		}
		locales = append(locales, strings.ToUpper(code))
	}
	sort.Strings(locales)

	for key, translations := range dict {
		for _, locale := range locales {
			value, ok := translations[locale]
			if !ok {
				t.Fatalf("missing locale %s for key %q", locale, key)
			}
			if strings.TrimSpace(value) == "" {
				t.Fatalf("empty translation for key %q locale %s", key, locale)
			}
			if got, want := formatVerbs(value), formatVerbs(key); !reflect.DeepEqual(got, want) {
				t.Fatalf("locale %s of %q has verbs %v, want %v", locale, key, got, want)
			}
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if got := Get("✅ Rules updated.", "en"); got != "✅ Rules updated." {
		t.Fatalf("english must return the key, got %q", got)
	}
	if got := Get("✅ Rules updated.", "ru"); got != "✅ Правила обновлены." {
		t.Fatalf("unexpected russian translation %q", got)
	}
	if got := Get("no such key", "uk"); got != "no such key" {
		t.Fatalf("unknown key must fall back to itself, got %q", got)
	}
	langs := GetLanguagesList()
	if len(langs) == 0 || langs[0] != "en" {
		t.Fatalf("english must come first, got %v", langs)
	}
	for _, code := range langs {
		if GetLanguageName(code) == code {
			t.Fatalf("language %q has no name", code)
		}
	}
}

var formatVerbPattern = regexp.MustCompile(`%[sdv]|\{\{[^}]*\}\}|\{[a-z_]+\}`)

// formatVerbs lists printf verbs and template placeholders in order.
func formatVerbs(s string) []string {
	return formatVerbPattern.FindAllString(s, -1)
}

func collectUsedI18nKeys() ([]string, error) {
	root, err := repoRoot()
	if err != nil {
		return nil, err
	}

	internalDir := filepath.Join(root, "internal")
	fileSet := token.NewFileSet()
	keys := make(map[string]struct{})

	err = filepath.WalkDir(internalDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}

		node, err := parser.ParseFile(fileSet, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return err
		}

		ast.Inspect(node, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			selector, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || selector.Sel == nil || selector.Sel.Name != "Get" {
				return true
			}
			pkgIdent, ok := selector.X.(*ast.Ident)
			if !ok || pkgIdent.Name != "i18n" {
				return true
			}
			if len(call.Args) < 1 {
				return true
			}
			value, ok := stringLiteralValue(call.Args[0])
			if !ok || value == "" {
				return true
			}
			keys[value] = struct{}{}
			return true
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(keys))
	for key := range keys {
		result = append(result, key)
	}
	sort.Strings(result)
	return result, nil
}

func collectDefinedI18nKeys() ([]string, error) {
	dict, err := loadTranslationsDict()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(dict))
	for key := range dict {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func loadTranslationsDict() (map[string]map[string]string, error) {
	content, err := resources.FS.ReadFile("i18n/translations.yml")
	if err != nil {
		return nil, err
	}
	dict := map[string]map[string]string{}
	if err := yaml.Unmarshal(content, &dict); err != nil {
		return nil, err
	}
	return dict, nil
}

func difference(left, right []string) []string {
	rightSet := make(map[string]struct{}, len(right))
	for _, item := range right {
		rightSet[item] = struct{}{}
	}
	diff := make([]string, 0)
	for _, item := range left {
		if _, ok := rightSet[item]; !ok {
			diff = append(diff, item)
		}
	}
	return diff
}

func stringLiteralValue(expr ast.Expr) (string, bool) {
	basic, ok := expr.(*ast.BasicLit)
	if !ok || basic.Kind != token.STRING {
		return "", false
	}
	value, err := strconv.Unquote(basic.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

func repoRoot() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("runtime caller is unavailable")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(currentFile), "..", "..")), nil
}
