package crawler

import (
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"ctonews/models"
)

func parseContainer(t *testing.T, content string) *html.Node {
	document, err := html.Parse(strings.NewReader(content))
	require.NoError(t, err)
	node := htmlquery.FindOne(document, "//div[@class='posts-content']")
	require.NotNil(t, node)
	return node
}

func TestExtractOrdering(t *testing.T) {
	root := parseContainer(t, `<div class="posts-content">
		<p>text1 with enough characters</p>
		<pre>code1</pre>
		<img src="http://x/y.png">
	</div>`)

	blocks := ExtractBlocks(root)
	require.Equal(t, []models.ContentBlock{
		{Kind: models.BlockKindText, Value: "text1 with enough characters"},
		{Kind: models.BlockKindCode, Value: "code1"},
		{Kind: models.BlockKindImage, Value: "http://x/y.png"},
	}, blocks)
}

func TestExtractSkipsScriptStyleNoscript(t *testing.T) {
	root := parseContainer(t, `<div class="posts-content">
		<script>var x = "should never show up here";</script>
		<style>.hidden { display: none; }</style>
		<noscript>enable javascript to see this content</noscript>
		<p>the only real paragraph here</p>
	</div>`)

	blocks := ExtractBlocks(root)
	require.Equal(t, []models.ContentBlock{
		{Kind: models.BlockKindText, Value: "the only real paragraph here"},
	}, blocks)
}

func TestExtractImageRequiresAbsoluteUrl(t *testing.T) {
	root := parseContainer(t, `<div class="posts-content">
		<img src="/relative/pic.png">
		<img data-src="http://cdn.example.com/lazy.png">
		<img src="http://cdn.example.com/eager.jpg">
	</div>`)

	blocks := ExtractBlocks(root)
	require.Equal(t, []models.ContentBlock{
		{Kind: models.BlockKindImage, Value: "http://cdn.example.com/lazy.png"},
		{Kind: models.BlockKindImage, Value: "http://cdn.example.com/eager.jpg"},
	}, blocks)
}

func TestExtractCodeLanguageFromClass(t *testing.T) {
	root := parseContainer(t, `<div class="posts-content">
		<pre class="language-python">print("hi")</pre>
		<pre class="brush:sql">select 1</pre>
		<pre><code class="lang-go">func main() {}</code></pre>
		<pre>no language here</pre>
	</div>`)

	blocks := ExtractBlocks(root)
	require.Len(t, blocks, 4)
	require.Equal(t, "python", blocks[0].Language)
	require.Equal(t, "sql", blocks[1].Language)
	require.Equal(t, "go", blocks[2].Language)
	require.Equal(t, "", blocks[3].Language)
}

func TestExtractCodeStripsLineNumbers(t *testing.T) {
	root := parseContainer(t, `<div class="posts-content">
		<pre><ul class="pre-numbering"><li>1</li><li>2</li></ul><code>line one
line two</code></pre>
	</div>`)

	blocks := ExtractBlocks(root)
	require.Len(t, blocks, 1)
	require.Equal(t, models.BlockKindCode, blocks[0].Kind)
	require.Equal(t, "line one\nline two", blocks[0].Value)
}

func TestExtractCodeInsidePreNotDuplicated(t *testing.T) {
	root := parseContainer(t, `<div class="posts-content">
		<pre><code>only once</code></pre>
	</div>`)

	blocks := ExtractBlocks(root)
	require.Len(t, blocks, 1)
	require.Equal(t, "only once", blocks[0].Value)
}

func TestExtractParagraphWithImageSplits(t *testing.T) {
	root := parseContainer(t, `<div class="posts-content">
		<p>leading words before the picture <img src="http://x/inline.png"> trailing words after it</p>
	</div>`)

	blocks := ExtractBlocks(root)
	require.Equal(t, []models.ContentBlock{
		{Kind: models.BlockKindText, Value: "leading words before the picture"},
		{Kind: models.BlockKindImage, Value: "http://x/inline.png"},
		{Kind: models.BlockKindText, Value: "trailing words after it"},
	}, blocks)
}

func TestExtractDropsChromeText(t *testing.T) {
	root := parseContainer(t, `<div class="posts-content">
		<p>short</p>
		<p>screenshot-01.png</p>
		<p>a paragraph that clears the length bar</p>
	</div>`)

	blocks := ExtractBlocks(root)
	require.Equal(t, []models.ContentBlock{
		{Kind: models.BlockKindText, Value: "a paragraph that clears the length bar"},
	}, blocks)
}

func TestExtractFallbackToFlattenedText(t *testing.T) {
	root := parseContainer(t, `<div class="posts-content"><span>tiny</span></div>`)

	blocks := ExtractBlocks(root)
	require.Equal(t, []models.ContentBlock{
		{Kind: models.BlockKindText, Value: "tiny"},
	}, blocks)
}

func TestExtractEmptyContainer(t *testing.T) {
	root := parseContainer(t, `<div class="posts-content">   </div>`)

	blocks := ExtractBlocks(root)
	require.Empty(t, blocks)
}
