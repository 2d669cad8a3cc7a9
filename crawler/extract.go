package crawler

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"ctonews/models"
)

// Text shorter than this is navigation chrome, not content.
const minTextLength = 10

var codeLanguageRegex *regexp.Regexp
var imageFilenameRegex *regexp.Regexp
var lineNumberClassRegex *regexp.Regexp

func init() {
	// The token list is ordered so that longer names win (javascript before
	// java, typescript before type-ish prefixes).
	codeLanguageRegex = regexp.MustCompile(
		`(?i)(?:language-|lang-|brush:)?(python|javascript|java|cpp|c\+\+|csharp|c#|php|ruby|go|rust|` +
			`swift|kotlin|typescript|sql|bash|shell|html|css|json|xml|yaml)`)
	imageFilenameRegex = regexp.MustCompile(`(?i)^[\w\-]+\.(png|jpg|jpeg|gif|svg|webp)$`)
	lineNumberClassRegex = regexp.MustCompile(`(?:^|\s)(?:pre-numbering|line-numbers|line-number)(?:\s|$)`)
}

// ExtractBlocks turns a content container into an ordered sequence of typed
// blocks, preserving document order. If structured traversal produces
// nothing, the container's flattened text is used as a single text block; if
// that is empty too, the result is empty and the caller treats the page as
// failed.
func ExtractBlocks(root *html.Node) []models.ContentBlock {
	var blocks []models.ContentBlock
	processNode(root, &blocks)

	if len(blocks) == 0 {
		text := strings.TrimSpace(htmlquery.InnerText(root))
		if text != "" {
			blocks = append(blocks, models.ContentBlock{
				Kind:  models.BlockKindText,
				Value: text,
			})
		}
	}

	return blocks
}

func processNode(node *html.Node, blocks *[]models.ContentBlock) {
	switch node.Type {
	case html.TextNode:
		emitText(node.Data, blocks)
		return
	case html.ElementNode, html.DocumentNode:
	default:
		return
	}

	switch node.Data {
	case "script", "style", "noscript":
		return

	case "img":
		src := imageSource(node)
		if strings.HasPrefix(src, "http") {
			*blocks = append(*blocks, models.ContentBlock{
				Kind:  models.BlockKindImage,
				Value: src,
			})
		}
		return

	case "pre":
		emitCode(node, blocks)
		return

	case "code":
		// A code element directly inside a pre was already covered by the
		// pre handler.
		if node.Parent != nil && node.Parent.Data == "pre" {
			return
		}
		emitCode(node, blocks)
		return

	case "p", "h1", "h2", "h3", "h4", "h5", "h6":
		if hasDescendant(node, ".//img") || hasDescendant(node, ".//pre") ||
			hasDescendant(node, ".//code") {

			processChildren(node, blocks)
			return
		}
		emitText(htmlquery.InnerText(node), blocks)
		return

	default:
		// Generic containers with media or code inside are never flattened
		// to one text blob; either way the children get visited in order.
		processChildren(node, blocks)
		return
	}
}

func processChildren(node *html.Node, blocks *[]models.ContentBlock) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		processNode(child, blocks)
	}
}

func emitText(text string, blocks *[]models.ContentBlock) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= minTextLength {
		return
	}
	if imageFilenameRegex.MatchString(text) {
		return
	}
	*blocks = append(*blocks, models.ContentBlock{
		Kind:  models.BlockKindText,
		Value: text,
	})
}

func emitCode(node *html.Node, blocks *[]models.ContentBlock) {
	codeText := strings.TrimSpace(codeTextWithoutLineNumbers(node))
	if codeText == "" {
		return
	}
	*blocks = append(*blocks, models.ContentBlock{
		Kind:     models.BlockKindCode,
		Value:    codeText,
		Language: codeLanguage(node),
	})
}

// codeTextWithoutLineNumbers flattens a code node's text, dropping the
// decoration elements syntax highlighters add for line numbers.
func codeTextWithoutLineNumbers(node *html.Node) string {
	var b strings.Builder
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && lineNumberClassRegex.MatchString(nodeClass(n)) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(node)
	return b.String()
}

func codeLanguage(node *html.Node) string {
	if match := codeLanguageRegex.FindStringSubmatch(nodeClass(node)); match != nil {
		return strings.ToLower(match[1])
	}

	if node.Data == "pre" {
		if codeNode := htmlquery.FindOne(node, ".//code"); codeNode != nil {
			if match := codeLanguageRegex.FindStringSubmatch(nodeClass(codeNode)); match != nil {
				return strings.ToLower(match[1])
			}
		}
	}

	return ""
}

func imageSource(node *html.Node) string {
	for _, attrName := range []string{"src", "data-src", "data-original"} {
		if value := findAttr(node, attrName); value != "" {
			return value
		}
	}
	return ""
}

func nodeClass(node *html.Node) string {
	return findAttr(node, "class")
}

func findAttr(node *html.Node, name string) string {
	for _, attr := range node.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func hasDescendant(node *html.Node, xpath string) bool {
	return htmlquery.FindOne(node, xpath) != nil
}
